// Package fpdfrenderer draws placements with codeberg.org/go-pdf/fpdf.
package fpdfrenderer

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/renderer"
)

const (
	// coreFamily 为内置字体时使用的 PDF 标准字体，只支持 cp1252。
	coreFamily = "Helvetica"
	fontFamily = "body"
)

// Renderer 是基于 fpdf 的 Sink。fpdf 的坐标原点在左上角，绘制时把布局的 y 轴翻转过来。
type Renderer struct {
	pdf    *fpdf.Fpdf
	family string
	escape renderer.Escaper
	height float64
	pages  int
	out    []byte
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the fpdf renderer.
type Options struct {
	Font       *fonts.Descriptor
	Meta       renderer.Meta
	PageWidth  float64
	PageHeight float64
	Escaper    renderer.Escaper
}

// New 创建渲染器。外部字体以 UTF-8 字体嵌入；内置字体使用 Helvetica，并把文本转换为 cp1252。
func New(opts Options) (*Renderer, error) {
	if opts.Font == nil {
		return nil, fmt.Errorf("fpdf 渲染器缺少字体")
	}
	if opts.PageWidth <= 0 || opts.PageHeight <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", opts.PageWidth, opts.PageHeight)
	}
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: opts.PageWidth, Ht: opts.PageHeight},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetCreator(opts.Meta.Creator, true)
	doc.SetTitle(opts.Meta.Title, true)
	doc.SetAuthor(opts.Meta.Author, true)

	r := &Renderer{pdf: doc, height: opts.PageHeight}
	escapers := []renderer.Escaper{renderer.StripControl, opts.Escaper}
	if opts.Font.Builtin {
		r.family = coreFamily
		escapers = append(escapers, doc.UnicodeTranslatorFromDescriptor(""))
	} else {
		r.family = fontFamily
		bold := opts.Font.Bold
		if len(bold) == 0 {
			bold = opts.Font.Regular
		}
		doc.AddUTF8FontFromBytes(fontFamily, "", opts.Font.Regular)
		doc.AddUTF8FontFromBytes(fontFamily, "B", bold)
		if err := doc.Error(); err != nil {
			return nil, fmt.Errorf("%w: 载入字体 %s 失败: %w", fonts.ErrFontRead, opts.Font.Family, err)
		}
	}
	r.escape = renderer.Chain(escapers...)
	return r, nil
}

func (r *Renderer) NewPage(width, height float64) error {
	if r.out != nil {
		return fmt.Errorf("文档已结束，不能再添加页面")
	}
	r.pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	r.height = height
	r.pages++
	return r.pdf.Error()
}

func (r *Renderer) DrawText(p layout.Placement) error {
	if r.pages == 0 {
		return fmt.Errorf("绘制前尚未创建页面")
	}
	style := ""
	if p.Weight == layout.Bold {
		style = "B"
	}
	r.pdf.SetFont(r.family, style, p.Size)
	r.pdf.Text(p.X, r.height-p.Y, r.escape(p.Text))
	return r.pdf.Error()
}

// Bytes 关闭文档并返回 PDF 数据，重复调用返回同一结果。
func (r *Renderer) Bytes() ([]byte, error) {
	if r.out != nil {
		return r.out, nil
	}
	if r.pages == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	r.out = buf.Bytes()
	return r.out, nil
}
