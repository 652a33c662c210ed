// Package binding 把稿件中的 ${path.to.value} 占位符替换为 JSON 数据中的值。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/quire/manuscript"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Apply 返回替换后的稿件副本，输入稿件保持不变。
func Apply(m *manuscript.Manuscript, data any) *manuscript.Manuscript {
	if m == nil {
		return nil
	}
	out := &manuscript.Manuscript{
		Title:    Interpolate(m.Title, data),
		Author:   Interpolate(m.Author, data),
		Chapters: make([]manuscript.Chapter, len(m.Chapters)),
	}
	for i, ch := range m.Chapters {
		c := manuscript.Chapter{
			Title: Interpolate(ch.Title, data),
			Body:  Interpolate(ch.Body, data),
		}
		if len(ch.Footnotes) > 0 {
			c.Footnotes = make([]manuscript.Footnote, len(ch.Footnotes))
			for j, fn := range ch.Footnotes {
				c.Footnotes[j] = manuscript.Footnote{
					Marker:  Interpolate(fn.Marker, data),
					Content: Interpolate(fn.Content, data),
				}
			}
		}
		out.Chapters[i] = c
	}
	return out
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// resolvePath 支持 a.b[0].c 形式的路径。
func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = obj[name]; !ok {
				return nil, false
			}
		}
		for rest != "" {
			idxStr, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, false
			}
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
			rest = strings.TrimPrefix(tail, "[")
		}
	}
	return current, true
}
