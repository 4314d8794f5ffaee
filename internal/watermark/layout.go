// BYZRA ⸻ internal/watermark/layout.go
// text & icon placement inside the strip, pure functions only

package watermark

import (
	"image"
	"math"
	"strings"

	"framemark/internal/analyse"
)

// secondary rows are drawn at this fraction of the primary size
const lightScale = 0.8

// text extent in pixels for one face
type TextMeasurer interface {
	Measure(text string) (width, height int)
}

type FontRole int

const (
	Bold FontRole = iota
	Light
)

// resolved canvas geometry the layout works in
type Geometry struct {
	Width         int // canvas
	Height        int
	BorderX       int
	BorderY       int
	TextAreaWidth int
	StripTop      int
	StripHeight   int
}

// one run of text to draw, (X, Y) is the top-left of its box
type TextOp struct {
	Text string
	Role FontRole
	X    int
	Y    int
}

type TextLayout struct {
	Ops []TextOp

	// leftmost x reached by the right column; icon & divider sit left of it
	Anchor int

	DetailRow string
	DateRow   string
}

type IconLayout struct {
	Icon    image.Rectangle
	Divider image.Rectangle
}

// top of a primary row: 40% of the vertical slack above the pair
func rowOneY(g Geometry, h int) int {
	return g.StripTop + int(math.Floor(float64(g.StripHeight-2*h)/5*2))
}

// top of a secondary row: below a primary row of the same scale, 60% of the slack
func rowTwoY(g Geometry, h int) int {
	return g.StripTop +
		int(math.Floor(float64(h)/lightScale)) +
		int(math.Floor(float64(g.StripHeight-2*h)/5*3))
}

// enabled, non-empty values joined by single spaces
func joinFields(fields ...field) string {
	var parts []string
	for _, f := range fields {
		if f.on && f.value != "" {
			parts = append(parts, f.value)
		}
	}
	return strings.Join(parts, " ")
}

type field struct {
	on    bool
	value string
}

// focal length, aperture, shutter & iso row
func DetailText(d analyse.Display, f Flags) string {
	return joinFields(
		field{f.FocalLength, d.FocalLength},
		field{f.Aperture, d.Aperture},
		field{f.ShutterSpeed, d.ShutterSpeed},
		field{f.ISO, d.ISO},
	)
}

// date, time (& gps) row
func DateText(d analyse.Display, f Flags) string {
	return joinFields(
		field{f.Date, d.Date},
		field{f.Time, d.Time},
		field{f.GPS, d.GPS},
	)
}

// camera & lens rows, anchored to the left border
func LeftColumn(g Geometry, d analyse.Display, f Flags, bold, light TextMeasurer) []TextOp {
	var ops []TextOp

	if f.Camera && d.Camera != "" {
		_, h := bold.Measure(d.Camera)
		ops = append(ops, TextOp{Text: d.Camera, Role: Bold, X: g.BorderX, Y: rowOneY(g, h)})
	}

	if f.Lens && d.Lens != "" {
		_, h := light.Measure(d.Lens)
		ops = append(ops, TextOp{Text: d.Lens, Role: Light, X: g.BorderX, Y: rowTwoY(g, h)})
	}

	return ops
}

// detail & date rows, right-aligned against the right border; returns the
// ops and the anchor for the icon. empty rows don't move the anchor.
func RightColumn(g Geometry, d analyse.Display, f Flags, bold, light TextMeasurer) ([]TextOp, int, string, string) {
	var ops []TextOp
	right := g.Width - g.BorderX
	anchor := right

	detail := DetailText(d, f)
	if detail != "" {
		w, h := bold.Measure(detail)
		op := TextOp{Text: detail, Role: Bold, X: right - w, Y: rowOneY(g, h)}
		ops = append(ops, op)
		anchor = min(anchor, op.X)
	}

	date := DateText(d, f)
	if date != "" {
		w, h := light.Measure(date)
		op := TextOp{Text: date, Role: Light, X: right - w, Y: rowTwoY(g, h)}
		ops = append(ops, op)
		anchor = min(anchor, op.X)
	}

	return ops, anchor, detail, date
}

// all text of the strip
func LayoutText(g Geometry, d analyse.Display, f Flags, bold, light TextMeasurer) TextLayout {
	ops := LeftColumn(g, d, f, bold, light)
	right, anchor, detail, date := RightColumn(g, d, f, bold, light)

	return TextLayout{
		Ops:       append(ops, right...),
		Anchor:    anchor,
		DetailRow: detail,
		DateRow:   date,
	}
}

// icon left of the anchor with the divider between them, both
// vertically centered in the strip
func LayoutIcon(g Geometry, anchor int, iconSize image.Point, margin, divider int) IconLayout {
	x := anchor - iconSize.X - 2*margin - divider
	y := g.StripTop + int(math.Floor(float64(g.StripHeight-iconSize.Y)/2))

	icon := image.Rect(x, y, x+iconSize.X, y+iconSize.Y)

	lineX := anchor - margin - divider
	x0 := lineX - divider/2
	line := image.Rect(x0, y, x0+divider, y+iconSize.Y)

	return IconLayout{Icon: icon, Divider: line}
}

// first keyword contained in maker (case-insensitive) wins, then the fallback
func ResolveIcon(maker string, icons IconSet) (string, bool) {
	lower := strings.ToLower(maker)
	for _, rule := range icons.Rules {
		if rule.Keyword == "" || rule.ID == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rule.Keyword)) {
			return rule.ID, true
		}
	}

	if icons.Fallback != "" {
		return icons.Fallback, true
	}
	return "", false
}
