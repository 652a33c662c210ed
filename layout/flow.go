package layout

import "fmt"

// Controller 是页面流控制器：跟踪纵向游标，在放置块之前决定是否换页。
// 游标从页面底部起算，新页从 PageHeight-MarginTop 开始向下递减。
type Controller struct {
	cfg   LayoutConfig
	sink  Sink
	state State
}

// NewController 创建控制器，调用 Start 之前不会产生任何页面。
func NewController(cfg LayoutConfig, sink Sink) *Controller {
	return &Controller{cfg: cfg, sink: sink}
}

// State 返回当前游标状态的副本。
func (c *Controller) State() State { return c.state }

// Start 创建第一页。
func (c *Controller) Start() error {
	if c.state.Page > 0 {
		return nil
	}
	return c.newPage()
}

// EnsureRoom 在剩余空间不足 height 时换页，返回是否发生了换页。
// 空白页不会再次换页：高于整页的块直接放在当前页，避免无限建页。
func (c *Controller) EnsureRoom(height float64) (bool, error) {
	if c.state.Page == 0 {
		if err := c.Start(); err != nil {
			return false, err
		}
	}
	if c.state.Y-height >= c.cfg.MarginBottom || c.state.fresh {
		return false, nil
	}
	c.state.Mode = PageBreakPending
	if err := c.newPage(); err != nil {
		return false, err
	}
	return true, nil
}

// Place 放置一个块：预留空间、绘制、下移游标。
func (c *Controller) Place(b Block) error {
	if b.Kind == KindGap {
		c.Skip(b.Advance)
		return nil
	}
	if _, err := c.EnsureRoom(b.Before + b.Advance + b.Keep); err != nil {
		return err
	}
	if !c.state.fresh {
		c.state.Y -= b.Before
	}
	if b.draws() {
		p := Placement{
			Page:   c.state.Page,
			Kind:   b.Kind,
			Text:   b.Text,
			X:      c.cfg.MarginLeft,
			Y:      c.state.Y,
			Size:   b.Size,
			Weight: b.Weight,
		}
		if err := c.sink.DrawText(p); err != nil {
			return fmt.Errorf("第 %d 页绘制 %s 失败: %w", c.state.Page, b.Kind, err)
		}
	}
	c.state.Y -= b.Advance
	c.state.fresh = false
	return nil
}

// Skip 只下移游标，不会强制换页；下一个块放置时再检查空间。
func (c *Controller) Skip(d float64) {
	if d <= 0 || c.state.fresh {
		return
	}
	c.state.Y -= d
}

func (c *Controller) newPage() error {
	if err := c.sink.NewPage(c.cfg.PageWidth, c.cfg.PageHeight); err != nil {
		return fmt.Errorf("创建第 %d 页失败: %w", c.state.Page+1, err)
	}
	c.state.Page++
	c.state.Y = c.cfg.Top()
	c.state.fresh = true
	c.state.Mode = Flowing
	return nil
}
