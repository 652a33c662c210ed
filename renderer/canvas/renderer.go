package canvasrenderer

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/renderer"
)

// Renderer draws placements via github.com/tdewolff/canvas and writes a PDF.
// Each page is drawn on its own canvas and flushed into the PDF writer when the next page starts.
type Renderer struct {
	meta   renderer.Meta
	escape renderer.Escaper

	fontMu   sync.Mutex
	families map[layout.Weight]*canvas.FontFamily
	faces    map[faceKey]*canvas.FontFace

	buf    bytes.Buffer
	writer *pdf.PDF
	page   *canvas.Canvas
	ctx    *canvas.Context
	pages  int
	out    []byte
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type faceKey struct {
	size   float64
	weight layout.Weight
}

// Options configures the canvas renderer.
type Options struct {
	Font *fonts.Descriptor
	Meta renderer.Meta
	// Escaper 为空时使用 renderer.StripControl。
	Escaper renderer.Escaper
}

// New 创建渲染器并立即载入字体，字体数据损坏时直接返回错误。
func New(opts Options) (*Renderer, error) {
	if opts.Font == nil {
		return nil, fmt.Errorf("canvas 渲染器缺少字体")
	}
	r := &Renderer{
		meta:     opts.Meta,
		escape:   opts.Escaper,
		families: map[layout.Weight]*canvas.FontFamily{},
		faces:    map[faceKey]*canvas.FontFace{},
	}
	if r.escape == nil {
		r.escape = renderer.StripControl
	}
	bold := opts.Font.Bold
	if len(bold) == 0 {
		bold = opts.Font.Regular
	}
	for weight, data := range map[layout.Weight][]byte{layout.Regular: opts.Font.Regular, layout.Bold: bold} {
		family := canvas.NewFontFamily(fmt.Sprintf("%s-%s", familyName(opts.Font), weight))
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("%w: 载入字体 %s 失败: %w", fonts.ErrFontRead, familyName(opts.Font), err)
		}
		r.families[weight] = family
	}
	return r, nil
}

// NewPage 结束当前页并开始新的一页，尺寸单位为 mm。
func (r *Renderer) NewPage(width, height float64) error {
	if r.out != nil {
		return fmt.Errorf("文档已结束，不能再添加页面")
	}
	if r.writer == nil {
		r.writer = pdf.New(&r.buf, width, height, nil)
		r.applyMeta()
	} else {
		r.flush()
		r.writer.NewPage(width, height)
	}
	r.page = canvas.New(width, height)
	// 默认坐标系原点在左下角、y 轴向上，与布局游标一致。
	r.ctx = canvas.NewContext(r.page)
	r.pages++
	return nil
}

// DrawText 以 (X, Y) 为基线起点绘制一行文本。
func (r *Renderer) DrawText(p layout.Placement) error {
	if r.ctx == nil {
		return fmt.Errorf("绘制前尚未创建页面")
	}
	face := r.face(p.Size, p.Weight)
	line := canvas.NewTextLine(face, r.escape(p.Text), canvas.Left)
	r.ctx.DrawText(p.X, p.Y, line)
	return nil
}

// Advance 实现 layout.Measurer，返回单个字符在给定字号下的宽度（mm）。
func (r *Renderer) Advance(ch rune, size float64, weight layout.Weight) float64 {
	return r.face(size, weight).TextWidth(string(ch))
}

// Bytes 写出最后一页并关闭 PDF，重复调用返回同一结果。
func (r *Renderer) Bytes() ([]byte, error) {
	if r.out != nil {
		return r.out, nil
	}
	if r.writer == nil || r.pages == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	r.flush()
	if err := r.writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	r.out = r.buf.Bytes()
	return r.out, nil
}

// Pages 返回已创建的页数。
func (r *Renderer) Pages() int { return r.pages }

func (r *Renderer) flush() {
	if r.page == nil {
		return
	}
	r.page.RenderTo(r.writer)
	r.page = nil
	r.ctx = nil
}

func (r *Renderer) applyMeta() {
	r.writer.SetInfo(r.meta.Title, "", "", r.meta.Author, r.meta.Creator)
}

// face 按字号与字重缓存字体面，size 单位为 pt。
func (r *Renderer) face(size float64, weight layout.Weight) *canvas.FontFace {
	key := faceKey{size: size, weight: weight}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f
	}
	family, ok := r.families[weight]
	if !ok {
		family = r.families[layout.Regular]
	}
	f := family.Face(size, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = f
	return f
}

func familyName(desc *fonts.Descriptor) string {
	if desc.Family != "" {
		return desc.Family
	}
	return "Body"
}
