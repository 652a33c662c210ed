package renderer

import (
	"strings"
	"unicode"
)

// Escaper 把一行待绘制文本转换为后端可接受的形式。
// 后端在绘制每个可视行时调用一次，折行之前不做转义，避免转义序列被切开或重复转义。
type Escaper func(string) string

// Chain 依次应用多个 Escaper。
func Chain(escapers ...Escaper) Escaper {
	return func(s string) string {
		for _, e := range escapers {
			if e != nil {
				s = e(s)
			}
		}
		return s
	}
}

// StripControl 去掉控制字符，制表符替换为空格。
func StripControl(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
