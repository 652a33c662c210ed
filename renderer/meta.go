package renderer

import "github.com/ByLCY/quire/manuscript"

// Meta 保存写入 PDF 的文档信息。
type Meta struct {
	Title   string
	Author  string
	Creator string
}

// MetaFor 由稿件生成文档信息。
func MetaFor(m *manuscript.Manuscript) Meta {
	meta := Meta{Creator: "Quire"}
	if m != nil {
		meta.Title = m.Title
		meta.Author = m.Author
	}
	return meta
}
