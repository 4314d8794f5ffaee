// BYZRA ⸻ internal/watermark/config.go
// resolved, immutable per-call watermark settings

package watermark

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// everything a composite call needs besides the photo & its metadata.
// passed by value; nothing in this package mutates it.
type Config struct {
	BorderSize   SizeSpec // against source width/height
	BorderRatio  Ratio    // free when zero
	Background   color.NRGBA
	TextArea     SizeSpec // against source width/height
	FontSize     Length   // percentages against text-area height
	FontColor    color.NRGBA
	Margin       Length // percentages against text-area width
	DividerWidth Length // percentages against text-area width
	DividerColor color.NRGBA
	Icons        IconSet
}

// keyword → icon id, matched in order
type IconRule struct {
	Keyword string
	ID      string
}

type IconSet struct {
	Rules    []IconRule
	Fallback string // "" draws no icon when nothing matches
}

// which metadata fields are rendered
type Flags struct {
	Camera       bool
	CameraMaker  bool
	Lens         bool
	FocalLength  bool
	Aperture     bool
	ShutterSpeed bool
	ISO          bool
	Date         bool
	Time         bool
	GPS          bool
}

func DefaultFlags() Flags {
	return Flags{
		Camera:       true,
		CameraMaker:  true,
		Lens:         true,
		FocalLength:  true,
		Aperture:     true,
		ShutterSpeed: true,
		ISO:          true,
		Date:         true,
		Time:         true,
	}
}

// the classic white frame: 3% border at 4:3, 15% strip, 20% type
func DefaultConfig() Config {
	return Config{
		BorderSize:   Uniform(Pct(3)),
		BorderRatio:  Ratio{W: 4, H: 3},
		Background:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		TextArea:     Pair(Pct(100), Pct(15)),
		FontSize:     Pct(20),
		FontColor:    color.NRGBA{A: 255},
		Margin:       Pct(3),
		DividerWidth: Px(10),
		DividerColor: color.NRGBA{R: 156, G: 156, B: 156, A: 255},
	}
}

// accepts [r, g, b], [r, g, b, a] (0-255) or "#rrggbb[aa]"
func ParseColor(v any) (color.NRGBA, error) {
	switch val := v.(type) {
	case color.NRGBA:
		return val, nil
	case string:
		return parseHexColor(val)
	case []any:
		return parseColorComponents(v, val)
	case []int:
		items := make([]any, len(val))
		for i, n := range val {
			items[i] = n
		}
		return parseColorComponents(v, items)
	case []int64:
		items := make([]any, len(val))
		for i, n := range val {
			items[i] = n
		}
		return parseColorComponents(v, items)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %#v: unsupported type %T", v, v)
	}
}

func parseHexColor(s string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}

	b, err := hex.DecodeString(raw)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

func parseColorComponents(raw any, items []any) (color.NRGBA, error) {
	if len(items) != 3 && len(items) != 4 {
		return color.NRGBA{}, fmt.Errorf("invalid color %#v: want 3 or 4 components", raw)
	}

	comps := [4]uint8{0, 0, 0, 255}
	for i, item := range items {
		var n int64
		switch c := item.(type) {
		case int:
			n = int64(c)
		case int64:
			n = c
		case float64:
			if c != math.Trunc(c) {
				return color.NRGBA{}, fmt.Errorf("invalid color %#v: fractional component", raw)
			}
			n = int64(c)
		default:
			return color.NRGBA{}, fmt.Errorf("invalid color %#v: component %T", raw, item)
		}
		if n < 0 || n > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid color %#v: component out of 0-255", raw)
		}
		comps[i] = uint8(n)
	}

	return color.NRGBA{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}
