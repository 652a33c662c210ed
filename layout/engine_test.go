package layout_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/manuscript"
	"github.com/ByLCY/quire/renderer"
)

func sample() *manuscript.Manuscript {
	return &manuscript.Manuscript{
		Title:  "T",
		Author: "A",
		Chapters: []manuscript.Chapter{
			{Title: "C1", Body: "hello world", Footnotes: []manuscript.Footnote{{Marker: "1", Content: "note"}}},
			{Title: "C2", Body: "second\n\nchapter"},
		},
	}
}

func TestExportRecordsPlacements(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.Budget = 5
	cfg.BudgetBaseSize = 0
	rec := &renderer.Recorder{}
	sum, err := layout.Export(context.Background(), sample(), cfg, rec)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if sum.Pages != 1 || len(rec.Pages) != 1 {
		t.Fatalf("短稿件应只有一页: summary=%+v pages=%d", sum, len(rec.Pages))
	}
	var texts []string
	for _, p := range rec.Placements {
		texts = append(texts, p.Text)
		if p.X != cfg.MarginLeft {
			t.Fatalf("绘制应从左边距开始: %+v", p)
		}
	}
	got := strings.Join(texts, "|")
	want := "T|A|C1|hello|world|" + cfg.RuleText + "|1|note|C2|secon|d|chapt|er"
	if got != want {
		t.Fatalf("绘制顺序不符:\n got=%s\nwant=%s", got, want)
	}
	// 只有一个空行不产生绘制指令，间距不计入块数。
	if sum.Blocks != len(rec.Placements)+1 {
		t.Fatalf("块数应为绘制指令数加一个空行: blocks=%d placements=%d", sum.Blocks, len(rec.Placements))
	}
}

func TestExportLongManuscriptSpansPages(t *testing.T) {
	cfg := layout.DefaultConfig()
	body := strings.Repeat("line of text\n", 120)
	m := &manuscript.Manuscript{Title: "Long", Chapters: []manuscript.Chapter{{Title: "C", Body: body}}}
	rec := &renderer.Recorder{}
	sum, err := layout.Export(context.Background(), m, cfg, rec)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if sum.Pages < 2 || sum.Pages != len(rec.Pages) {
		t.Fatalf("应跨多页: summary=%+v pages=%d", sum, len(rec.Pages))
	}
	for _, p := range rec.Placements {
		if p.Y < cfg.MarginBottom {
			t.Fatalf("绘制位置低于下边距: %+v", p)
		}
	}
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := layout.Export(ctx, sample(), layout.DefaultConfig(), &renderer.Recorder{})
	if !errors.Is(err, layout.ErrAborted) || !errors.Is(err, context.Canceled) {
		t.Fatalf("应返回 ErrAborted，实际 %v", err)
	}
}

func TestExportRejectsInvalidConfig(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.MarginTop = 200
	cfg.MarginBottom = 200
	if _, err := layout.Export(context.Background(), sample(), cfg, &renderer.Recorder{}); err == nil {
		t.Fatalf("边距超出页面时应返回错误")
	}
	if _, err := layout.Export(context.Background(), nil, layout.DefaultConfig(), &renderer.Recorder{}); err == nil {
		t.Fatalf("空稿件应返回错误")
	}
}

// measuringSink 把每个字符计为 size/10 mm。
type measuringSink struct {
	renderer.Recorder
}

func (m *measuringSink) Advance(r rune, size float64, weight layout.Weight) float64 {
	return size / 10
}

func TestExportMeasuredMode(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.Measure = true
	if _, err := layout.Export(context.Background(), sample(), cfg, &renderer.Recorder{}); err == nil {
		t.Fatalf("后端不支持度量时应返回错误")
	}

	// 正文 11pt 每字 1.1mm，正文宽 160mm，一行最多 145 个字符。
	long := strings.Repeat("word ", 60)
	m := &manuscript.Manuscript{Title: "T", Chapters: []manuscript.Chapter{{Title: "C", Body: long}}}
	ms := &measuringSink{}
	tee := &renderer.Tee{Next: ms}
	if _, err := layout.Export(context.Background(), m, cfg, tee); err != nil {
		t.Fatalf("经过 Tee 仍应找到度量: %v", err)
	}
	var lines []string
	for _, p := range tee.Record.Placements {
		if p.Kind == layout.KindTextLine {
			lines = append(lines, p.Text)
		}
	}
	if len(lines) != 3 {
		t.Fatalf("应折为 3 行，实际 %d: %q", len(lines), lines)
	}
	for _, l := range lines {
		if w := float64(len([]rune(l))) * cfg.BodySize / 10; w > cfg.TextWidth() {
			t.Fatalf("行宽 %g 超出正文宽度: %q", w, l)
		}
	}
	if len(ms.Placements) != len(tee.Record.Placements) {
		t.Fatalf("Tee 应同时转发到下游")
	}
}

func TestExportBlocksExcludeGaps(t *testing.T) {
	m := &manuscript.Manuscript{Title: "T", Chapters: []manuscript.Chapter{{Title: "A"}, {Title: "B"}}}
	sum, err := layout.Export(context.Background(), m, layout.DefaultConfig(), &renderer.Recorder{})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	// 标题与两个章节标题；标题间距和两个章节间距不计入。
	if sum.Blocks != 3 {
		t.Fatalf("块数应为 3，实际 %d", sum.Blocks)
	}
}
