package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/manuscript"
)

// ErrAborted 表示导出在块边界被调用方取消。
var ErrAborted = errors.New("导出已取消")

// Export 把稿件完整排入 sink。整个过程同步执行，每放置一个块检查一次 ctx。
// 不同的导出只要各自使用独立的 sink 即可并发运行。
func Export(ctx context.Context, m *manuscript.Manuscript, cfg LayoutConfig, sink Sink) (Summary, error) {
	if m == nil {
		return Summary{}, fmt.Errorf("稿件为空")
	}
	if sink == nil {
		return Summary{}, fmt.Errorf("layout: 缺少渲染端 Sink")
	}
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	var ms Measurer
	if cfg.Measure {
		if ms = measurerOf(sink); ms == nil {
			return Summary{}, fmt.Errorf("渲染端未实现字宽度量，无法按实际宽度折行")
		}
	}
	br := NewBreakers(m, cfg, ms)

	ctrl := NewController(cfg, sink)
	if err := ctrl.Start(); err != nil {
		return Summary{}, err
	}
	placed := 0
	err := Walk(m, cfg, br, func(b Block) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrAborted, err)
		}
		if b.Kind != KindGap {
			placed++
		}
		return ctrl.Place(b)
	})
	return Summary{Pages: ctrl.State().Page, Blocks: placed}, err
}

// NewBreakers 为正文与脚注构造折行器。ms 非空时按字体度量折行，否则按字符预算。
func NewBreakers(m *manuscript.Manuscript, cfg LayoutConfig, ms Measurer) Breakers {
	breaks := BreakSet(cfg.BreakChars, cfg.BreakOnMarks)
	if ms != nil {
		width := cfg.TextWidth()
		return Breakers{
			Body: LineBreaker{
				Limit:  width,
				Width:  func(r rune) float64 { return ms.Advance(r, cfg.BodySize, Regular) },
				Breaks: breaks,
			},
			Footnote: LineBreaker{
				Limit:  width,
				Width:  func(r rune) float64 { return ms.Advance(r, cfg.FootnoteSize, Regular) },
				Breaks: breaks,
			},
		}
	}

	budget := fonts.Budget{
		Fixed:    cfg.Budget,
		Narrow:   cfg.NarrowBudget,
		Wide:     cfg.WideBudget,
		BaseSize: cfg.BudgetBaseSize,
	}
	sample := ""
	if m != nil {
		sample = m.Text()
	}
	return Breakers{
		Body:     CharBreaker(budget.For(sample, cfg.BodySize), breaks),
		Footnote: CharBreaker(budget.For(sample, cfg.FootnoteSize), breaks),
	}
}

// measurerOf 在 sink 及其包装链上查找 Measurer。
func measurerOf(sink Sink) Measurer {
	for sink != nil {
		if ms, ok := sink.(Measurer); ok {
			return ms
		}
		w, ok := sink.(interface{ Unwrap() Sink })
		if !ok {
			return nil
		}
		sink = w.Unwrap()
	}
	return nil
}
