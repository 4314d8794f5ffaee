// BYZRA ⸻ internal/watermark/compose.go
// canvas geometry, allocation & every pixel write

package watermark

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"framemark/internal/analyse"
	"framemark/internal/logging"
)

// canvases above this many pixels are refused instead of allocated
const maxCanvasPixels = 1 << 29

// resolved pixel geometry of one composite, computed before allocation
type Plan struct {
	Source   image.Point
	Border   image.Point
	TextArea image.Point
	Width    int
	Height   int
	PasteAt  image.Point
	FontPx   int
	LightPx  int
	Margin   int
	Divider  int
}

func (p Plan) Geometry() Geometry {
	return Geometry{
		Width:         p.Width,
		Height:        p.Height,
		BorderX:       p.Border.X,
		BorderY:       p.Border.Y,
		TextAreaWidth: p.TextArea.X,
		StripTop:      p.Border.Y + p.Source.Y,
		StripHeight:   p.TextArea.Y,
	}
}

// resolves every size in cfg against a source of srcW×srcH
func PlanCanvas(srcW, srcH int, cfg Config) (Plan, error) {
	if srcW <= 0 || srcH <= 0 {
		return Plan{}, &CanvasError{Width: srcW, Height: srcH}
	}

	p := Plan{Source: image.Pt(srcW, srcH)}
	p.Border.X, p.Border.Y = cfg.BorderSize.Resolve(srcW, srcH)
	p.TextArea.X, p.TextArea.Y = cfg.TextArea.Resolve(srcW, srcH)

	p.Height = srcH + p.TextArea.Y + p.Border.Y
	if cfg.BorderRatio.Free() {
		p.Width = srcW + 2*p.Border.X
	} else {
		p.Width = int(math.Round(float64(p.Height) * cfg.BorderRatio.Value()))
	}

	if p.Width <= 0 || p.Height <= 0 || int64(p.Width)*int64(p.Height) > maxCanvasPixels {
		return Plan{}, &CanvasError{Width: p.Width, Height: p.Height}
	}

	p.PasteAt = image.Pt(floorDiv(p.Width-srcW, 2), p.Border.Y)

	p.FontPx = cfg.FontSize.Resolve(p.TextArea.Y)
	p.LightPx = int(float64(p.FontPx) * lightScale)
	p.Margin = cfg.Margin.Resolve(p.TextArea.X)
	p.Divider = cfg.DividerWidth.Resolve(p.TextArea.X)

	return p, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// draws the frame; zero-valued fields fall back to the embedded fonts and no icons
type Compositor struct {
	Fonts  FontSource
	Icons  IconRasterizer
	Logger *logging.Logger
}

func NewCompositor(fonts FontSource, icons IconRasterizer, logger *logging.Logger) *Compositor {
	return &Compositor{Fonts: fonts, Icons: icons, Logger: logger}
}

// builds a new canvas holding src, the strip & its metadata. every
// size, font & icon is resolved before the canvas is allocated; on error
// no canvas is returned.
func (c *Compositor) Composite(src image.Image, info analyse.Display, cfg Config, flags Flags) (*image.NRGBA, error) {
	b := src.Bounds()
	plan, err := PlanCanvas(b.Dx(), b.Dy(), cfg)
	if err != nil {
		return nil, err
	}

	c.Logger.Debugf("canvas %dx%d, border %dx%d, strip %dx%d, paste at %v",
		plan.Width, plan.Height, plan.Border.X, plan.Border.Y,
		plan.TextArea.X, plan.TextArea.Y, plan.PasteAt)

	// the icon is placed against the text, so neither is drawn unless
	// both font sizes are usable
	drawable := plan.FontPx > 0 && plan.LightPx > 0

	var icon image.Image
	if flags.CameraMaker && drawable {
		if id, ok := ResolveIcon(info.Maker, cfg.Icons); ok && c.Icons != nil {
			icon, err = c.Icons.Rasterize(id, 2*plan.FontPx)
			if err != nil {
				return nil, &IconError{ID: id, Err: err}
			}
			c.Logger.Debugf("icon %q for maker %q", id, info.Maker)
		} else if !ok {
			c.Logger.Debugf("no icon for maker %q", info.Maker)
		}
	}

	var bold, light font.Face
	if drawable {
		bold, light, err = c.fonts().Faces(plan.FontPx, plan.LightPx)
		if err != nil {
			return nil, err
		}
		defer bold.Close()
		defer light.Close()
	}

	canvas := imaging.New(plan.Width, plan.Height, cfg.Background)
	draw.Draw(canvas, b.Sub(b.Min).Add(plan.PasteAt), src, b.Min, draw.Src)

	if bold == nil {
		return canvas, nil
	}

	geom := plan.Geometry()
	layout := LayoutText(geom, info, flags, faceMeasurer{bold}, faceMeasurer{light})

	ink := image.NewUniform(cfg.FontColor)
	for _, op := range layout.Ops {
		face := bold
		if op.Role == Light {
			face = light
		}
		drawText(canvas, face, ink, op)
	}

	if icon != nil {
		ib := icon.Bounds()
		il := LayoutIcon(geom, layout.Anchor, ib.Size(), plan.Margin, plan.Divider)
		draw.Draw(canvas, il.Icon, icon, ib.Min, draw.Over)
		if !il.Divider.Empty() {
			draw.Draw(canvas, il.Divider, image.NewUniform(cfg.DividerColor), image.Point{}, draw.Src)
		}
	}

	return canvas, nil
}

func (c *Compositor) fonts() FontSource {
	if c.Fonts == nil {
		return DefaultFontSet()
	}
	return c.Fonts
}

// op.Y is the top of the text box, the drawer wants the baseline
func drawText(dst draw.Image, face font.Face, ink image.Image, op TextOp) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  ink,
		Face: face,
		Dot:  fixed.P(op.X, op.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(op.Text)
}
