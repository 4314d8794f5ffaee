package watermark

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wideSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10" width="20" height="10">
<rect x="0" y="0" width="20" height="10" fill="#ff0000"/>
</svg>`

func TestFileRasterizerSVG(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leica.svg"), []byte(wideSVG), 0644))

	img, err := FileRasterizer{Dir: dir}.Rasterize("leica", 30)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(60, 30), img.Bounds().Size())

	_, _, _, a := img.At(30, 15).RGBA()
	assert.NotZero(t, a)
}

func TestFileRasterizerPNG(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	require.NoError(t, imaging.Save(src, filepath.Join(dir, "sony.png")))

	img, err := FileRasterizer{Dir: dir}.Rasterize("sony", 10)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 10), img.Bounds().Size())
}

func TestFileRasterizerPrefersSVG(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "canon.svg"), []byte(wideSVG), 0644))
	require.NoError(t, imaging.Save(image.NewNRGBA(image.Rect(0, 0, 5, 5)), filepath.Join(dir, "canon.png")))

	img, err := FileRasterizer{Dir: dir}.Rasterize("canon", 10)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 10), img.Bounds().Size())
}

func TestFileRasterizerExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.svg")
	require.NoError(t, os.WriteFile(path, []byte(wideSVG), 0644))

	img, err := FileRasterizer{}.Rasterize(path, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dy())

	img, err = FileRasterizer{Dir: dir}.Rasterize("custom.svg", 8)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestFileRasterizerMissing(t *testing.T) {
	_, err := FileRasterizer{Dir: t.TempDir()}.Rasterize("hasselblad", 10)
	assert.ErrorIs(t, err, errIconNotFound)

	_, err = FileRasterizer{Dir: t.TempDir()}.Rasterize("", 10)
	assert.Error(t, err)
}

func TestFileRasterizerRejectsZeroHeight(t *testing.T) {
	_, err := FileRasterizer{}.Rasterize("x", 0)
	assert.Error(t, err)
}

func TestFontSetFallsBackToEmbeddedFonts(t *testing.T) {
	fs, err := NewFontSet("", "")
	require.NoError(t, err)

	bold, light, err := fs.Faces(20, 16)
	require.NoError(t, err)
	defer bold.Close()
	defer light.Close()

	bw, bh := faceMeasurer{bold}.Measure("ISO 100")
	lw, lh := faceMeasurer{light}.Measure("ISO 100")
	assert.Positive(t, bw)
	assert.Greater(t, bw, lw)
	assert.Greater(t, bh, lh)
}

func TestFontSetMissingFile(t *testing.T) {
	_, err := NewFontSet(filepath.Join(t.TempDir(), "nope.ttf"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
