package render

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framemark/internal/analyse"
	"framemark/internal/config"
	"framemark/internal/watermark"
)

func writePhoto(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := imaging.New(w, h, color.NRGBA{R: 30, G: 90, B: 160, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

func newRenderer(t *testing.T, opts *RenderOptions) *Renderer {
	t.Helper()
	r, err := NewRenderer(config.DefaultConfig(), opts, nil)
	require.NoError(t, err)
	return r
}

func TestRenderFileWithoutMetadataRendersBlanks(t *testing.T) {
	dir := t.TempDir()
	src := writePhoto(t, dir, "street.jpg", 200, 150)

	r := newRenderer(t, DefaultRenderOptions())
	res, err := r.RenderFile(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, filepath.Join(dir, "export", "street.jpg"), res.OutputPath)
	assert.NotEmpty(t, res.MissingTags)

	// border (6, 4), strip (200, 22): 176 high, round(176*4/3) wide
	assert.Equal(t, 235, res.Width)
	assert.Equal(t, 176, res.Height)

	require.NotNil(t, res.Verification)
	assert.True(t, res.Verification.DimensionsMatch)

	out, err := imaging.Open(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(235, 176), out.Bounds().Size())

	assert.Contains(t, FormatRenderResult(res), "Frame rendered")
}

func TestRenderFileStrictFailsOnMissingMetadata(t *testing.T) {
	dir := t.TempDir()
	src := writePhoto(t, dir, "street.jpg", 64, 48)

	opts := DefaultRenderOptions()
	opts.Strict = true

	_, err := newRenderer(t, opts).RenderFile(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, analyse.ErrMetadataFieldMissing)
	assert.True(t, IsMetadataError(err))

	_, statErr := os.Stat(filepath.Join(dir, "export", "street.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRenderFileSkipsExistingWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := writePhoto(t, dir, "a.png", 40, 30)

	opts := DefaultRenderOptions()
	opts.OutputDir = filepath.Join(dir, "frames")

	first, err := newRenderer(t, opts).RenderFile(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.Equal(t, "png", first.Format)

	opts.Overwrite = false
	second, err := newRenderer(t, opts).RenderFile(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.OutputPath, second.OutputPath)
}

func TestRenderFileStopsWhenCancelled(t *testing.T) {
	dir := t.TempDir()
	src := writePhoto(t, dir, "a.jpg", 40, 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRenderer(t, DefaultRenderOptions()).RenderFile(ctx, src)
	assert.ErrorIs(t, err, context.Canceled)
}

// cancels the render's context while the canvas is being composed
type cancellingRasterizer struct {
	cancel context.CancelFunc
}

func (c cancellingRasterizer) Rasterize(_ string, height int) (image.Image, error) {
	c.cancel()
	return imaging.New(height, height, color.NRGBA{R: 255, A: 255}), nil
}

func TestRenderFileFinishesWhenCancelledMidComposite(t *testing.T) {
	dir := t.TempDir()
	src := writePhoto(t, dir, "a.jpg", 200, 150)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := newRenderer(t, DefaultRenderOptions())
	r.Config.Icons = watermark.IconSet{Fallback: "any"}
	r.Compositor = watermark.NewCompositor(nil, cancellingRasterizer{cancel: cancel}, nil)

	res, err := r.RenderFile(ctx, src)
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	assert.True(t, res.Success)
	_, statErr := os.Stat(res.OutputPath)
	assert.NoError(t, statErr)
}

func TestRenderFileTimeoutStillApplies(t *testing.T) {
	src := writePhoto(t, t.TempDir(), "a.jpg", 40, 30)

	opts := DefaultRenderOptions()
	opts.Timeout = time.Nanosecond

	_, err := newRenderer(t, opts).RenderFile(context.Background(), src)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRenderFileMissingSource(t *testing.T) {
	_, err := newRenderer(t, DefaultRenderOptions()).RenderFile(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestNewRendererRejectsMalformedConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Style.Border.Size = "abc%"

	_, err := NewRenderer(cfg, nil, nil)
	assert.ErrorIs(t, err, watermark.ErrInvalidSizeSpec)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Strict = true
	cfg.Output.JPEGQuality = 80

	opts := OptionsFromConfig(cfg)
	assert.True(t, opts.Strict)
	assert.Equal(t, 80, opts.JPEGQuality)
	assert.True(t, opts.AutoOrient)
}

func TestVerifyOutputDetectsSizeMismatch(t *testing.T) {
	path := writePhoto(t, t.TempDir(), "x.png", 10, 10)

	res, err := VerifyOutput(path, 10, 11)
	require.NoError(t, err)
	assert.True(t, res.FileIntact)
	assert.False(t, res.Success)
	assert.Contains(t, FormatVerificationResult(res), "expected 10x11")
}
