package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers such as factors
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

// MM converts to millimetres. Unit-less values are taken as millimetres already.
func (l Length) MM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// PT converts to points. Unit-less values are taken as points already.
func (l Length) PT() float64 {
	if l.Unit == UnitNone || l.Unit == UnitPT {
		return l.Value
	}
	return l.MM() * MmToPt
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + l.Unit.String()
}

// ParseRawLengthStr parses "25mm", "1in", "11pt" or a bare number, keeping the unit.
func ParseRawLengthStr(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			v = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightSpec is either a factor of the body size ("1.8x") or an absolute length ("6mm").
type LineHeightSpec struct {
	Factor float64
	Len    Length
}

// ParseLineHeight parses "1.8x", "1.8" (factor) or a length with a unit.
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if f, ok := strings.CutSuffix(v, "x"); ok {
		factor, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return LineHeightSpec{}, fmt.Errorf("无法解析行高 %q: %w", value, err)
		}
		return LineHeightSpec{Factor: factor}, nil
	}
	l, err := ParseRawLengthStr(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	if l.Unit == UnitNone {
		return LineHeightSpec{Factor: l.Value}, nil
	}
	return LineHeightSpec{Len: l}, nil
}

// MM resolves the line height in millimetres for a body size given in points.
func (s LineHeightSpec) MM(bodySizePt float64) float64 {
	if s.Factor > 0 {
		return bodySizePt * PtToMm * s.Factor
	}
	return s.Len.MM()
}
