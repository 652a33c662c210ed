package renderer

import (
	"encoding/json"
	"fmt"

	"github.com/ByLCY/quire/layout"
)

// Recorder 在内存中记录页面与绘制指令，用于调试输出与测试。
type Recorder struct {
	Pages      []RecordedPage     `json:"pages"`
	Placements []layout.Placement `json:"placements"`
}

// RecordedPage 记录一页的尺寸。
type RecordedPage struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var _ Renderer = (*Recorder)(nil)

func (r *Recorder) NewPage(width, height float64) error {
	r.Pages = append(r.Pages, RecordedPage{Width: width, Height: height})
	return nil
}

func (r *Recorder) DrawText(p layout.Placement) error {
	if len(r.Pages) == 0 {
		return fmt.Errorf("绘制前尚未创建页面")
	}
	r.Placements = append(r.Placements, p)
	return nil
}

// Bytes 返回记录内容的 JSON。
func (r *Recorder) Bytes() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// OnPage 返回落在第 page 页（从 1 开始）的绘制指令。
func (r *Recorder) OnPage(page int) []layout.Placement {
	var out []layout.Placement
	for _, p := range r.Placements {
		if p.Page == page {
			out = append(out, p)
		}
	}
	return out
}

// Tee 把指令转发给 Next，同时在 Record 中保留一份副本。
type Tee struct {
	Next   layout.Sink
	Record Recorder
}

func (t *Tee) NewPage(width, height float64) error {
	if err := t.Next.NewPage(width, height); err != nil {
		return err
	}
	return t.Record.NewPage(width, height)
}

func (t *Tee) DrawText(p layout.Placement) error {
	if err := t.Next.DrawText(p); err != nil {
		return err
	}
	return t.Record.DrawText(p)
}

// Unwrap 返回下游 Sink，layout 借此找到下游实现的 Measurer。
func (t *Tee) Unwrap() layout.Sink { return t.Next }
