package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

func TestLengthConversions(t *testing.T) {
	cases := []struct {
		in     Length
		wantMM float64
	}{
		{Length{Value: 1, Unit: UnitIN}, 25.4},
		{Length{Value: 2.54, Unit: UnitCM}, 25.4},
		{Length{Value: 12, Unit: UnitPT}, 12 * PtToMm},
		{Length{Value: 10, Unit: UnitMM}, 10},
		{Length{Value: 7}, 7},
	}
	for _, c := range cases {
		if got := c.in.MM(); math.Abs(got-c.wantMM) > 1e-9 {
			t.Fatalf("%s 转 mm 期望 %g，实际 %g", c.in, c.wantMM, got)
		}
	}
	if got := (Length{Value: 10, Unit: UnitMM}).PT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 转 pt 期望 %g，实际 %g", 10*MmToPt, got)
	}
	if got := (Length{Value: 11}).PT(); got != 11 {
		t.Fatalf("无单位的字号应按 pt 处理，实际 %g", got)
	}
}

func TestParseRawLengthStr(t *testing.T) {
	cases := map[string]Length{
		"25mm":    {25, UnitMM},
		" 1.5CM ": {1.5, UnitCM},
		"1in":     {1, UnitIN},
		"11pt":    {11, UnitPT},
		"3":       {3, UnitNone},
		"10 mm":   {10, UnitMM},
	}
	for in, want := range cases {
		got, err := ParseRawLengthStr(in)
		if err != nil {
			t.Fatalf("ParseRawLengthStr(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRawLengthStr(%q) = %+v，期望 %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "mm", "abcpt", "1..2mm"} {
		if _, err := ParseRawLengthStr(bad); err == nil {
			t.Fatalf("ParseRawLengthStr(%q) 应返回错误", bad)
		}
	}
}

func TestParseLineHeight(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.5x", 11 * PtToMm * 1.5},
		{"2", 11 * PtToMm * 2},
		{"6mm", 6},
		{"18pt", 18 * PtToMm},
	}
	for _, c := range cases {
		lh, err := ParseLineHeight(c.in)
		if err != nil {
			t.Fatalf("ParseLineHeight(%q) error: %v", c.in, err)
		}
		if got := lh.MM(11); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ParseLineHeight(%q).MM(11) = %g，期望 %g", c.in, got, c.want)
		}
	}
	if _, err := ParseLineHeight("fastx"); err == nil {
		t.Fatalf("非法的行高倍数应返回错误")
	}
}
