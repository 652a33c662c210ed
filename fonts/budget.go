package fonts

import (
	"math"
	"unicode"

	"golang.org/x/text/width"
)

// wideThreshold 为判定文本以宽字符为主的占比下限。
const wideThreshold = 0.3

// Budget 给出每行字符数上限。它是按文字宽窄调校的常量而非字形度量：
// 宽字符（韩文、中日文）一行放得更少。
type Budget struct {
	// Fixed 大于 0 时忽略文字宽窄判断。
	Fixed  int
	Narrow int
	Wide   int
	// BaseSize 为预算对应的字号（pt），其他字号按比例缩放。
	BaseSize float64
}

// For 返回 text 在 size 字号下的字符预算，至少为 1。
func (b Budget) For(text string, size float64) int {
	n := b.Fixed
	if n <= 0 {
		n = b.Narrow
		if WideShare(text) >= wideThreshold {
			n = b.Wide
		}
	}
	if b.BaseSize > 0 && size > 0 {
		n = int(math.Floor(float64(n) * b.BaseSize / size))
	}
	return max(n, 1)
}

// WideShare 返回非空白字符中东亚宽字符与全角字符的占比。
func WideShare(text string) float64 {
	total, wide := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			wide++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(wide) / float64(total)
}
