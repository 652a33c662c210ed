package manuscript

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeProjectFile(t *testing.T) {
	const hype = `{
  "metadata": {"title": "나의 책", "author": "홍길동"},
  "settings": {"font": "Nanum Gothic", "fontSize": 11},
  "chapters": [
    {"id": "c1", "title": "첫 장", "content": "첫 줄\n둘째 줄", "footnotes": [{"marker": "1", "content": "주석"}]},
    {"id": "c2", "title": "둘째 장", "content": ""}
  ]
}`
	src, err := DecodeJSON(strings.NewReader(hype))
	if err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	want := Manuscript{
		Title:  "나의 책",
		Author: "홍길동",
		Chapters: []Chapter{
			{Title: "첫 장", Body: "첫 줄\n둘째 줄", Footnotes: []Footnote{{Marker: "1", Content: "주석"}}},
			{Title: "둘째 장"},
		},
	}
	if diff := cmp.Diff(want, src.Manuscript); diff != "" {
		t.Fatalf("稿件不符 (-want +got):\n%s", diff)
	}
	if src.FontFamily != "Nanum Gothic" {
		t.Fatalf("应读取项目中的字体设置，实际 %q", src.FontFamily)
	}
	if n := src.Manuscript.FootnoteCount(); n != 1 {
		t.Fatalf("脚注数应为 1，实际 %d", n)
	}
}

func TestDecodeExportPayload(t *testing.T) {
	const payload = `{
  "title": "T",
  "author": "",
  "chapters": [{"title": "C1", "content": "hello world", "footnotes": []}],
  "font_family": null,
  "font_path": "/fonts/custom.ttf"
}`
	src, err := DecodeJSON(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if src.Manuscript.Title != "T" || src.Manuscript.Author != "" || len(src.Manuscript.Chapters) != 1 {
		t.Fatalf("载荷解析不符: %+v", src.Manuscript)
	}
	if src.FontFamily != "" || src.FontPath != "/fonts/custom.ttf" {
		t.Fatalf("字体字段不符: family=%q path=%q", src.FontFamily, src.FontPath)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := DecodeJSON(strings.NewReader(`{"title": `)); err == nil {
		t.Fatalf("非法 JSON 应返回错误")
	}
}

func TestManuscriptText(t *testing.T) {
	m := Manuscript{Chapters: []Chapter{
		{Body: "ab", Footnotes: []Footnote{{Marker: "1", Content: "cd"}}},
		{Body: "ef"},
	}}
	if got := m.Text(); got != "abcdef" {
		t.Fatalf("Text() = %q", got)
	}
}
