package layout

import (
	"encoding/json"
	"fmt"
	"io"
)

// Sink 接收页面流控制器发出的建页与绘制指令，由具体的 PDF 后端实现。
type Sink interface {
	NewPage(width, height float64) error
	DrawText(p Placement) error
}

// Measurer 可选：能按字体度量给出字符宽度（mm）的后端实现它，
// 开启 LayoutConfig.Measure 时按实际宽度折行。
type Measurer interface {
	Advance(r rune, size float64, weight Weight) float64
}

// LayoutConfig 汇总所有排版参数。长度单位为 mm，字号单位为 pt。
type LayoutConfig struct {
	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft"`
	MarginRight  float64 `json:"marginRight"`

	TitleSize    float64 `json:"titleSize"`
	AuthorSize   float64 `json:"authorSize"`
	HeadingSize  float64 `json:"headingSize"`
	BodySize     float64 `json:"bodySize"`
	FootnoteSize float64 `json:"footnoteSize"`
	RuleSize     float64 `json:"ruleSize"`

	LineHeight float64 `json:"lineHeight"`
	// BlankFraction 为空行占用的行高比例。
	BlankFraction float64 `json:"blankFraction"`
	// FootnoteLineFactor 为脚注行相对正文行高的比例。
	FootnoteLineFactor float64 `json:"footnoteLineFactor"`

	TitleAdvance   float64 `json:"titleAdvance"`
	AuthorAdvance  float64 `json:"authorAdvance"`
	TitleGap       float64 `json:"titleGap"`
	HeadingAdvance float64 `json:"headingAdvance"`
	HeadingKeep    float64 `json:"headingKeep"`
	FootnoteGap    float64 `json:"footnoteGap"`
	FootnoteKeep   float64 `json:"footnoteKeep"`
	ChapterGap     float64 `json:"chapterGap"`

	// Budget 为固定的每行字符数；为 0 时按文本宽窄自动在 NarrowBudget / WideBudget 之间选择。
	Budget         int     `json:"budget"`
	NarrowBudget   int     `json:"narrowBudget"`
	WideBudget     int     `json:"wideBudget"`
	BudgetBaseSize float64 `json:"budgetBaseSize"`

	BreakChars   string `json:"breakChars"`
	BreakOnMarks bool   `json:"breakOnMarks"`
	// Measure 开启后按后端字体度量折行，字符预算不再生效。
	Measure bool `json:"measure"`

	FootnoteSeparator string `json:"footnoteSeparator"`
	RuleText          string `json:"ruleText"`
}

// DefaultConfig 返回 A4 纵向、韩文正文的默认参数。
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		PageWidth:    210,
		PageHeight:   297,
		MarginTop:    27,
		MarginBottom: 25,
		MarginLeft:   25,
		MarginRight:  25,

		TitleSize:    24,
		AuthorSize:   12,
		HeadingSize:  16,
		BodySize:     11,
		FootnoteSize: 9,
		RuleSize:     10,

		LineHeight:         6,
		BlankFraction:      0.5,
		FootnoteLineFactor: 0.8,

		TitleAdvance:   12,
		AuthorAdvance:  8,
		TitleGap:       15,
		HeadingAdvance: 10,
		HeadingKeep:    20,
		FootnoteGap:    5,
		FootnoteKeep:   14,
		ChapterGap:     15,

		NarrowBudget:   80,
		WideBudget:     45,
		BudgetBaseSize: 11,

		BreakChars:        DefaultBreakChars,
		FootnoteSeparator: " ",
		RuleText:          "─────────",
	}
}

// LoadConfig 在默认参数之上叠加 JSON 配置，未出现的字段保持默认值。
func LoadConfig(r io.Reader) (LayoutConfig, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("解析排版配置失败: %w", err)
	}
	return cfg, cfg.Validate()
}

// TextWidth 返回正文区域宽度。
func (c LayoutConfig) TextWidth() float64 {
	return c.PageWidth - c.MarginLeft - c.MarginRight
}

// Top 返回新页的起始游标。
func (c LayoutConfig) Top() float64 {
	return c.PageHeight - c.MarginTop
}

// Validate 检查页面几何与字号是否可用。
func (c LayoutConfig) Validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("页面尺寸无效: %gx%g", c.PageWidth, c.PageHeight)
	}
	if c.MarginTop < 0 || c.MarginBottom < 0 || c.MarginLeft < 0 || c.MarginRight < 0 {
		return fmt.Errorf("边距不能为负数")
	}
	if c.Top() <= c.MarginBottom {
		return fmt.Errorf("上下边距之和 %g 超出页面高度 %g", c.MarginTop+c.MarginBottom, c.PageHeight)
	}
	if c.TextWidth() <= 0 {
		return fmt.Errorf("左右边距之和 %g 超出页面宽度 %g", c.MarginLeft+c.MarginRight, c.PageWidth)
	}
	if c.LineHeight <= 0 {
		return fmt.Errorf("行高必须为正数，实际 %g", c.LineHeight)
	}
	sizes := []struct {
		name string
		size float64
	}{
		{"title", c.TitleSize},
		{"author", c.AuthorSize},
		{"heading", c.HeadingSize},
		{"body", c.BodySize},
		{"footnote", c.FootnoteSize},
		{"rule", c.RuleSize},
	}
	for _, s := range sizes {
		if s.size <= 0 {
			return fmt.Errorf("%s 字号必须为正数，实际 %g", s.name, s.size)
		}
	}
	if c.Budget < 0 || c.NarrowBudget < 0 || c.WideBudget < 0 {
		return fmt.Errorf("字符预算不能为负数")
	}
	if c.Budget == 0 && (c.NarrowBudget == 0 || c.WideBudget == 0) {
		return fmt.Errorf("未设置固定字符预算时 narrowBudget 与 wideBudget 均需为正数")
	}
	return nil
}
