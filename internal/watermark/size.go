// BYZRA ⸻ internal/watermark/size.go
// unit-tagged sizes & the dimension resolver

package watermark

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Unit int

const (
	Pixels Unit = iota
	Percent
)

// one axis of a size: absolute pixels or a percentage of a reference extent
type Length struct {
	Value int
	Unit  Unit
}

func Px(v int) Length  { return Length{Value: v, Unit: Pixels} }
func Pct(p int) Length { return Length{Value: p, Unit: Percent} }

// floor(p * ref / 100) for percentages, the value itself otherwise.
// percentages above 100 enlarge, they are not clamped.
func (l Length) Resolve(ref int) int {
	if l.Unit == Percent {
		return int(int64(l.Value) * int64(ref) / 100)
	}
	return l.Value
}

func (l Length) String() string {
	if l.Unit == Percent {
		return fmt.Sprintf("%d%%", l.Value)
	}
	return strconv.Itoa(l.Value)
}

// a size on both axes; X resolves against widths, Y against heights.
// scalar specs carry the same Length on both axes.
type SizeSpec struct {
	X Length
	Y Length
}

func Uniform(l Length) SizeSpec { return SizeSpec{X: l, Y: l} }

func Pair(x, y Length) SizeSpec { return SizeSpec{X: x, Y: y} }

func (s SizeSpec) Resolve(width, height int) (int, int) {
	return s.X.Resolve(width), s.Y.Resolve(height)
}

func (s SizeSpec) String() string {
	if s.X == s.Y {
		return s.X.String()
	}
	return fmt.Sprintf("[%s, %s]", s.X, s.Y)
}

// accepts an integer pixel count, "N", or "N%"
func ParseLength(v any) (Length, error) {
	switch val := v.(type) {
	case Length:
		return val, nil
	case int:
		return pixels(v, int64(val))
	case int64:
		return pixels(v, val)
	case float64:
		if val != math.Trunc(val) {
			return Length{}, invalidSpec(v, "fractional pixels")
		}
		return pixels(v, int64(val))
	case string:
		return parseLengthString(val)
	default:
		return Length{}, invalidSpec(v, fmt.Sprintf("unsupported type %T", v))
	}
}

func pixels(raw any, n int64) (Length, error) {
	if n < 0 || n > math.MaxInt32 {
		return Length{}, invalidSpec(raw, "out of range")
	}
	return Px(int(n)), nil
}

func parseLengthString(raw string) (Length, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Length{}, invalidSpec(raw, "empty")
	}

	unit := Pixels
	if strings.HasSuffix(s, "%") {
		unit = Percent
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Length{}, invalidSpec(raw, "not an integer")
	}
	if n < 0 {
		return Length{}, invalidSpec(raw, "negative")
	}
	return Length{Value: n, Unit: unit}, nil
}

// accepts a scalar length or a two-element [x, y] list
func ParseSize(v any) (SizeSpec, error) {
	switch val := v.(type) {
	case SizeSpec:
		return val, nil
	case []any:
		return parsePair(v, val)
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return parsePair(v, items)
	case []int:
		items := make([]any, len(val))
		for i, n := range val {
			items[i] = n
		}
		return parsePair(v, items)
	default:
		l, err := ParseLength(v)
		if err != nil {
			return SizeSpec{}, err
		}
		return Uniform(l), nil
	}
}

func parsePair(raw any, items []any) (SizeSpec, error) {
	if len(items) != 2 {
		return SizeSpec{}, invalidSpec(raw, "pair needs exactly two values")
	}

	x, err := ParseLength(items[0])
	if err != nil {
		return SizeSpec{}, err
	}
	y, err := ParseLength(items[1])
	if err != nil {
		return SizeSpec{}, err
	}
	return Pair(x, y), nil
}

// border aspect ratio; the zero value is a free aspect
type Ratio struct {
	W int
	H int
}

func (r Ratio) Free() bool {
	return r.W == 0 || r.H == 0
}

// larger side over smaller side, always >= 1
func (r Ratio) Value() float64 {
	if r.Free() {
		return 0
	}
	hi, lo := r.W, r.H
	if lo > hi {
		hi, lo = lo, hi
	}
	return float64(hi) / float64(lo)
}

func (r Ratio) String() string {
	if r.Free() {
		return "free"
	}
	return fmt.Sprintf("%d:%d", r.W, r.H)
}

// "W:H" → fixed ratio; a value without ':' means free aspect
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		return Ratio{}, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Ratio{}, invalidSpec(s, "ratio needs W:H")
	}

	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Ratio{}, invalidSpec(s, "ratio width not an integer")
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Ratio{}, invalidSpec(s, "ratio height not an integer")
	}
	if w <= 0 || h <= 0 {
		return Ratio{}, invalidSpec(s, "ratio sides must be positive")
	}

	return Ratio{W: w, H: h}, nil
}
