package manuscript

import (
	"encoding/json"
	"fmt"
	"io"
)

// project 对应编辑器保存的 .hype 项目文件。
type project struct {
	Metadata *struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	} `json:"metadata"`
	Settings struct {
		Font string `json:"font"`
	} `json:"settings"`
	Chapters []Chapter `json:"chapters"`
}

// exportPayload 对应前端直接提交的导出载荷。
type exportPayload struct {
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Chapters   []Chapter `json:"chapters"`
	FontFamily *string   `json:"font_family"`
	FontPath   *string   `json:"font_path"`
}

// DecodeJSON 读取项目文件或导出载荷。含 metadata 字段的视为项目文件。
func DecodeJSON(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取稿件失败: %w", err)
	}

	var p project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("解析稿件 JSON 失败: %w", err)
	}
	if p.Metadata != nil {
		return &Source{
			Manuscript: Manuscript{
				Title:    p.Metadata.Title,
				Author:   p.Metadata.Author,
				Chapters: p.Chapters,
			},
			FontFamily: p.Settings.Font,
		}, nil
	}

	var e exportPayload
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("解析导出载荷失败: %w", err)
	}
	src := &Source{Manuscript: Manuscript{Title: e.Title, Author: e.Author, Chapters: e.Chapters}}
	if e.FontFamily != nil {
		src.FontFamily = *e.FontFamily
	}
	if e.FontPath != nil {
		src.FontPath = *e.FontPath
	}
	return src, nil
}
