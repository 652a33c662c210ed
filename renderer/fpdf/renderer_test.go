package fpdfrenderer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/manuscript"
	"github.com/ByLCY/quire/renderer"
)

func sampleManuscript() *manuscript.Manuscript {
	return &manuscript.Manuscript{
		Title: "T",
		Chapters: []manuscript.Chapter{
			{Title: "C1", Body: "hello world\n\ncafé au lait", Footnotes: []manuscript.Footnote{{Marker: "1", Content: "note"}}},
		},
	}
}

func TestRendererBuiltinFont(t *testing.T) {
	desc, err := (&fonts.Resolver{}).Resolve(fonts.Request{})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	cfg := layout.DefaultConfig()
	r, err := New(Options{Font: desc, Meta: renderer.Meta{Title: "T", Creator: "Quire"}, PageWidth: cfg.PageWidth, PageHeight: cfg.PageHeight})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, err := layout.Export(context.Background(), sampleManuscript(), cfg, r); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	data, err := r.Bytes()
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestRendererEmbeddedFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("写入字体失败: %v", err)
	}
	desc, err := (&fonts.Resolver{}).Resolve(fonts.Request{Path: path})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	cfg := layout.DefaultConfig()
	r, err := New(Options{Font: desc, PageWidth: cfg.PageWidth, PageHeight: cfg.PageHeight})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	sum, err := layout.Export(context.Background(), sampleManuscript(), cfg, r)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if sum.Pages != 1 {
		t.Fatalf("应生成 1 页，实际 %d", sum.Pages)
	}
	data, err := renderer.Renderer(r).Bytes()
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("Bytes error: %v", err)
	}
}

func TestRendererRejectsBadInput(t *testing.T) {
	if _, err := New(Options{PageWidth: 210, PageHeight: 297}); err == nil {
		t.Fatalf("缺少字体时应返回错误")
	}
	desc := &fonts.Descriptor{Builtin: true}
	if _, err := New(Options{Font: desc}); err == nil {
		t.Fatalf("页面尺寸无效时应返回错误")
	}
	r, err := New(Options{Font: desc, PageWidth: 210, PageHeight: 297})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := r.DrawText(layout.Placement{Text: "x", Size: 11}); err == nil {
		t.Fatalf("建页之前绘制应返回错误")
	}
	if _, err := r.Bytes(); err == nil {
		t.Fatalf("没有页面时 Bytes 应返回错误")
	}
}
