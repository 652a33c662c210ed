package layout

import (
	"strings"

	"github.com/ByLCY/quire/manuscript"
)

// Breakers 汇总正文与脚注各自使用的折行器（二者字号不同，预算也不同）。
type Breakers struct {
	Body     LineBreaker
	Footnote LineBreaker
}

// Walk 按文档顺序遍历稿件并依次产出块：
// 标题、作者（非空时）、标题间距，然后每章依次为章节标题、正文行、脚注分隔线与脚注、章节间距。
// emit 返回错误时立即停止。
func Walk(m *manuscript.Manuscript, cfg LayoutConfig, br Breakers, emit func(Block) error) error {
	if m == nil {
		return nil
	}
	if err := emit(Block{Kind: KindTitle, Text: m.Title, Weight: Bold, Size: cfg.TitleSize, Advance: cfg.TitleAdvance}); err != nil {
		return err
	}
	if m.Author != "" {
		if err := emit(Block{Kind: KindAuthor, Text: m.Author, Weight: Bold, Size: cfg.AuthorSize, Advance: cfg.AuthorAdvance}); err != nil {
			return err
		}
	}
	if err := emit(Block{Kind: KindGap, Advance: cfg.TitleGap}); err != nil {
		return err
	}
	for _, ch := range m.Chapters {
		if err := walkChapter(ch, cfg, br, emit); err != nil {
			return err
		}
	}
	return nil
}

func walkChapter(ch manuscript.Chapter, cfg LayoutConfig, br Breakers, emit func(Block) error) error {
	heading := Block{
		Kind:    KindHeading,
		Text:    ch.Title,
		Weight:  Bold,
		Size:    cfg.HeadingSize,
		Advance: cfg.HeadingAdvance,
		Keep:    cfg.HeadingKeep,
	}
	if err := emit(heading); err != nil {
		return err
	}

	for _, line := range splitLines(ch.Body) {
		emitted := false
		for visual := range br.Body.Lines(line) {
			emitted = true
			if err := emit(Block{Kind: KindTextLine, Text: visual, Weight: Regular, Size: cfg.BodySize, Advance: cfg.LineHeight}); err != nil {
				return err
			}
		}
		if !emitted {
			if err := emit(Block{Kind: KindBlankSpacer, Advance: cfg.LineHeight * cfg.BlankFraction}); err != nil {
				return err
			}
		}
	}

	if len(ch.Footnotes) > 0 {
		rule := Block{
			Kind:    KindFootnoteRule,
			Text:    cfg.RuleText,
			Weight:  Regular,
			Size:    cfg.RuleSize,
			Before:  cfg.FootnoteGap,
			Advance: cfg.LineHeight,
			Keep:    cfg.FootnoteKeep,
		}
		if err := emit(rule); err != nil {
			return err
		}
		advance := cfg.LineHeight * cfg.FootnoteLineFactor
		for _, fn := range ch.Footnotes {
			text := fn.Marker + cfg.FootnoteSeparator + fn.Content
			emitted := false
			for visual := range br.Footnote.Lines(text) {
				emitted = true
				if err := emit(Block{Kind: KindFootnoteLine, Text: visual, Weight: Regular, Size: cfg.FootnoteSize, Advance: advance}); err != nil {
					return err
				}
			}
			if !emitted {
				// 空脚注仍占一行，保持脚注个数与输入一致。
				if err := emit(Block{Kind: KindFootnoteLine, Weight: Regular, Size: cfg.FootnoteSize, Advance: advance}); err != nil {
					return err
				}
			}
		}
	}

	return emit(Block{Kind: KindGap, Advance: cfg.ChapterGap})
}

// Blocks 收集 Walk 产出的全部块。
func Blocks(m *manuscript.Manuscript, cfg LayoutConfig, br Breakers) []Block {
	var out []Block
	_ = Walk(m, cfg, br, func(b Block) error {
		out = append(out, b)
		return nil
	})
	return out
}

// splitLines 按换行拆分正文：空字符串不产生任何行，末尾换行不产生额外空行，\r\n 视为一个换行。
func splitLines(body string) []string {
	if body == "" {
		return nil
	}
	body = strings.TrimSuffix(body, "\n")
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
