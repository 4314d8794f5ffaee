// BYZRA ⸻ internal/watermark/icon.go
// maker icon lookup & rasterization

package watermark

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// turns an icon id into a bitmap of the given height, aspect preserved
type IconRasterizer interface {
	Rasterize(id string, height int) (image.Image, error)
}

var errIconNotFound = errors.New("icon file not found")

// looks ids up as files: an existing path is used as is, otherwise
// <Dir>/<id>.svg then <Dir>/<id>.png
type FileRasterizer struct {
	Dir string
}

func (r FileRasterizer) Rasterize(id string, height int) (image.Image, error) {
	if height <= 0 {
		return nil, fmt.Errorf("icon height %d", height)
	}

	path, err := r.locate(id)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return rasterizeSVG(path, height)
	}
	return rasterizeBitmap(path, height)
}

func (r FileRasterizer) locate(id string) (string, error) {
	if id == "" {
		return "", errIconNotFound
	}

	if filepath.Ext(id) != "" {
		if filepath.IsAbs(id) || r.Dir == "" {
			if fileExists(id) {
				return id, nil
			}
			return "", fmt.Errorf("%w: %s", errIconNotFound, id)
		}
		p := filepath.Join(r.Dir, id)
		if fileExists(p) {
			return p, nil
		}
		return "", fmt.Errorf("%w: %s", errIconNotFound, p)
	}

	for _, ext := range []string{".svg", ".png"} {
		p := filepath.Join(r.Dir, id+ext)
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %q", errIconNotFound, id, r.Dir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func rasterizeSVG(path string, height int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, fmt.Errorf("svg %s has an empty viewBox", filepath.Base(path))
	}

	width := max(1, int(math.Round(vw*float64(height)/vh)))
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)

	return img, nil
}

func rasterizeBitmap(path string, height int) (image.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	if src.Bounds().Dy() == height {
		return src, nil
	}
	return imaging.Resize(src, 0, height, imaging.Lanczos), nil
}
