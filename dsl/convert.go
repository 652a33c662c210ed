package dsl

import (
	"fmt"
	"io"
	"strings"

	"github.com/ByLCY/quire/manuscript"
)

// Load 解析稿件文件并转换为 manuscript.Source。
func Load(r io.Reader) (*manuscript.Source, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析稿件失败: %w", err)
	}
	return Convert(doc)
}

// Convert 把 AST 转换为稿件。未知的语句会报错而不是被忽略。
func Convert(doc *Document) (*manuscript.Source, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	src := &manuscript.Source{Manuscript: manuscript.Manuscript{Title: string(doc.Title)}}
	if doc.Block == nil {
		return src, nil
	}
	for _, st := range doc.Block.Statements {
		switch {
		case st.Assignment != nil:
			a := st.Assignment
			switch a.Key {
			case "title":
				src.Manuscript.Title = string(a.Value)
			case "author":
				src.Manuscript.Author = string(a.Value)
			case "font":
				src.FontFamily = string(a.Value)
			case "font-path":
				src.FontPath = string(a.Value)
			default:
				return nil, fmt.Errorf("%s: 未知属性 %s", a.Pos, a.Key)
			}
		case st.Command != nil:
			if st.Command.Name != "chapter" {
				return nil, fmt.Errorf("%s: 顶层只允许 chapter，实际为 %s", st.Command.Pos, st.Command.Name)
			}
			ch, err := convertChapter(st.Command)
			if err != nil {
				return nil, err
			}
			src.Manuscript.Chapters = append(src.Manuscript.Chapters, ch)
		case st.Text != nil:
			return nil, fmt.Errorf("%s: 正文必须写在 chapter 内", st.Text.Pos)
		}
	}
	return src, nil
}

func convertChapter(cmd *Command) (manuscript.Chapter, error) {
	var ch manuscript.Chapter
	if len(cmd.Args) > 0 {
		ch.Title = string(cmd.Args[0].Value)
	}
	if cmd.Block == nil {
		return ch, nil
	}
	var body []string
	for _, st := range cmd.Block.Statements {
		switch {
		case st.Text != nil:
			body = append(body, string(st.Text.Value))
		case st.Assignment != nil:
			switch st.Assignment.Key {
			case "title":
				ch.Title = string(st.Assignment.Value)
			case "body":
				body = append(body, string(st.Assignment.Value))
			default:
				return ch, fmt.Errorf("%s: chapter 中未知属性 %s", st.Assignment.Pos, st.Assignment.Key)
			}
		case st.Command != nil:
			fn, err := convertFootnote(st.Command)
			if err != nil {
				return ch, err
			}
			ch.Footnotes = append(ch.Footnotes, fn)
		}
	}
	ch.Body = strings.Join(body, "\n")
	return ch, nil
}

// convertFootnote 接受 footnote "标记" "内容"，或 footnote "标记" { "内容" }。
func convertFootnote(cmd *Command) (manuscript.Footnote, error) {
	if cmd.Name != "footnote" {
		return manuscript.Footnote{}, fmt.Errorf("%s: chapter 中只允许 footnote，实际为 %s", cmd.Pos, cmd.Name)
	}
	var fn manuscript.Footnote
	switch len(cmd.Args) {
	case 0:
		return fn, fmt.Errorf("%s: footnote 缺少标记", cmd.Pos)
	case 1:
		fn.Marker = string(cmd.Args[0].Value)
	case 2:
		fn.Marker, fn.Content = string(cmd.Args[0].Value), string(cmd.Args[1].Value)
	default:
		return fn, fmt.Errorf("%s: footnote 参数过多", cmd.Pos)
	}
	if cmd.Block != nil {
		var parts []string
		for _, st := range cmd.Block.Statements {
			if st.Text == nil {
				return fn, fmt.Errorf("%s: footnote 内只允许文本", cmd.Pos)
			}
			parts = append(parts, string(st.Text.Value))
		}
		if fn.Content != "" {
			parts = append([]string{fn.Content}, parts...)
		}
		fn.Content = strings.Join(parts, " ")
	}
	return fn, nil
}
