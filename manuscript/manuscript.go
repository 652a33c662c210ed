// Package manuscript 定义导出所需的稿件模型，以及编辑器项目文件与导出载荷的读取。
package manuscript

import "strings"

// Manuscript 是一次导出的输入，导出期间调用方不应修改它。
type Manuscript struct {
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Chapters []Chapter `json:"chapters"`
}

// Chapter 的 Body 为原始多行文本。
type Chapter struct {
	Title     string     `json:"title"`
	Body      string     `json:"content"`
	Footnotes []Footnote `json:"footnotes"`
}

// Footnote 按给定顺序输出，不重新编号。
type Footnote struct {
	Marker  string `json:"marker"`
	Content string `json:"content"`
}

// Source 是加载结果：稿件本身以及随稿件保存的字体偏好。
type Source struct {
	Manuscript Manuscript
	FontFamily string
	FontPath   string
}

// Text 拼接稿件中所有会被折行的文本，用于判断文字宽窄。
func (m *Manuscript) Text() string {
	var b strings.Builder
	for _, ch := range m.Chapters {
		b.WriteString(ch.Body)
		for _, fn := range ch.Footnotes {
			b.WriteString(fn.Content)
		}
	}
	return b.String()
}

// FootnoteCount 返回全书脚注数量。
func (m *Manuscript) FootnoteCount() int {
	n := 0
	for _, ch := range m.Chapters {
		n += len(ch.Footnotes)
	}
	return n
}
