package layout

import (
	"iter"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultBreakChars 为优先断行的字符：空白、半角/全角逗号句号、顿号以及全角空格。
const DefaultBreakChars = " \t,.，。、．　"

// markChars 在开启 BreakOnMarks 时追加的感叹号与问号。
const markChars = "!?！？"

// BreakSet 根据字符集合构造断行判定函数。
func BreakSet(chars string, marks bool) func(rune) bool {
	set := make(map[rune]struct{}, len(chars)+len(markChars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	if marks {
		for _, r := range markChars {
			set[r] = struct{}{}
		}
	}
	return func(r rune) bool {
		_, ok := set[r]
		return ok
	}
}

// LineBreaker 把一行逻辑文本拆成若干可视行。
//
// Width 为空时每个字符计 1，Limit 即字符预算；否则按 Width 累加宽度与 Limit（mm）比较。
// 两种模式共用同一套断行策略：在窗口内从后向前寻找优先断行字符，找不到时在窗口末尾硬切。
type LineBreaker struct {
	Limit  float64
	Width  func(r rune) float64
	Breaks func(r rune) bool
}

// CharBreaker 返回按字符预算断行的 LineBreaker。
func CharBreaker(budget int, breaks func(rune) bool) LineBreaker {
	return LineBreaker{Limit: float64(budget), Breaks: breaks}
}

// Lines 返回可视行序列。序列可重复遍历；空输入（去除首尾空白后）不产生任何行。
func (lb LineBreaker) Lines(line string) iter.Seq[string] {
	return func(yield func(string) bool) {
		// 按字符而非字节索引，先做 NFC 归一化避免组合字符被拆开。
		rest := []rune(strings.TrimSpace(norm.NFC.String(line)))
		for len(rest) > 0 {
			fit := lb.fit(rest)
			if fit >= len(rest) {
				yield(string(rest))
				return
			}
			at := lb.split(rest, fit)
			chunk := strings.TrimSpace(string(rest[:at]))
			rest = trimLeading(rest[at:])
			if chunk == "" {
				continue
			}
			if !yield(chunk) {
				return
			}
		}
	}
}

// Break 收集 Lines 的结果。
func (lb LineBreaker) Break(line string) []string {
	return slices.Collect(lb.Lines(line))
}

// fit 返回从开头起能放进一行的最大字符数，至少为 1。
func (lb LineBreaker) fit(text []rune) int {
	if lb.Width == nil {
		n := int(lb.Limit)
		if n < 1 {
			n = 1
		}
		return min(n, len(text))
	}
	total := 0.0
	for i, r := range text {
		total += lb.Width(r)
		if total > lb.Limit {
			return max(i, 1)
		}
	}
	return len(text)
}

// split 在 [0, fit) 内寻找断点，返回切分位置（不含）。
func (lb LineBreaker) split(text []rune, fit int) int {
	if unicode.IsSpace(text[fit]) {
		return fit
	}
	isBreak := lb.Breaks
	if isBreak == nil {
		isBreak = unicode.IsSpace
	}
	for i := min(fit, len(text)) - 1; i >= 0; i-- {
		if isBreak(text[i]) {
			return i + 1
		}
	}
	return fit
}

func trimLeading(text []rune) []rune {
	for len(text) > 0 && unicode.IsSpace(text[0]) {
		text = text[1:]
	}
	return text
}
