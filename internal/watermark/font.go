// BYZRA ⸻ internal/watermark/font.go
// bold/light opentype faces & their measurer

package watermark

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// faces at pixel sizes for one composite call
type FontSource interface {
	Faces(boldPx, lightPx int) (bold, light font.Face, err error)
}

// parsed bold & light fonts; faces are built per call so the set is
// safe to share between goroutines
type FontSet struct {
	bold  *opentype.Font
	light *opentype.Font
}

// loads the two font files, an empty path falls back to the embedded go fonts
func NewFontSet(boldPath, lightPath string) (*FontSet, error) {
	bold, err := loadFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("bold font: %w", err)
	}

	light, err := loadFont(lightPath, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("light font: %w", err)
	}

	return &FontSet{bold: bold, light: light}, nil
}

var (
	defaultOnce  sync.Once
	defaultFonts *FontSet
)

// embedded go bold & go regular, parsed once
func DefaultFontSet() *FontSet {
	defaultOnce.Do(func() {
		fs, err := NewFontSet("", "")
		if err != nil {
			panic(err)
		}
		defaultFonts = fs
	})
	return defaultFonts
}

func loadFont(path string, fallback []byte) (*opentype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return f, nil
}

func (fs *FontSet) Faces(boldPx, lightPx int) (font.Face, font.Face, error) {
	bold, err := newFace(fs.bold, boldPx)
	if err != nil {
		return nil, nil, fmt.Errorf("bold face at %dpx: %w", boldPx, err)
	}

	light, err := newFace(fs.light, lightPx)
	if err != nil {
		bold.Close()
		return nil, nil, fmt.Errorf("light face at %dpx: %w", lightPx, err)
	}

	return bold, light, nil
}

// 72 dpi so that Size is in pixels
func newFace(f *opentype.Font, px int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// measures with a real face: advance width, ascent+descent height
type faceMeasurer struct {
	face font.Face
}

func (m faceMeasurer) Measure(text string) (int, int) {
	metrics := m.face.Metrics()
	return font.MeasureString(m.face, text).Ceil(), (metrics.Ascent + metrics.Descent).Ceil()
}
