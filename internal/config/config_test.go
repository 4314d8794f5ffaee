package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framemark/internal/watermark"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "framemark.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigMatchesEngineDefaults(t *testing.T) {
	cfg := DefaultConfig()

	wm, flags, err := cfg.Watermark()
	require.NoError(t, err)

	assert.Equal(t, watermark.DefaultConfig(), wm)
	assert.Equal(t, watermark.DefaultFlags(), flags)
	assert.Equal(t, 10, cfg.MaxFolderHistory)
	assert.Equal(t, 95, cfg.Output.JPEGQuality)
	assert.Equal(t, time.Minute, cfg.Output.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Daemon.MinAge)
	assert.Empty(t, cfg.Icons)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[watermark]
font_size = 48
bg_color = "#101010"

[watermark.border]
size = ["2%", 30]
ratio = "free"

[show_info]
gps = true
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)

	wm, flags, err := cfg.Watermark()
	require.NoError(t, err)

	assert.Equal(t, watermark.Px(48), wm.FontSize)
	assert.Equal(t, color.NRGBA{R: 16, G: 16, B: 16, A: 255}, wm.Background)
	assert.Equal(t, watermark.Pair(watermark.Pct(2), watermark.Px(30)), wm.BorderSize)
	assert.True(t, wm.BorderRatio.Free())
	assert.Equal(t, watermark.Pct(3), wm.Margin)
	assert.Equal(t, watermark.Pair(watermark.Pct(100), watermark.Pct(15)), wm.TextArea)

	assert.True(t, flags.GPS)
	assert.True(t, flags.Camera, "untouched flags keep their default")
}

func TestIconsKeepFileOrder(t *testing.T) {
	path := writeConfig(t, `
[icons]
sony = "sony"
fuji = "fujifilm"
canon = "canon"
apple = "/opt/icons/apple.png"
fallback = "leica"
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, []IconEntry{
		{Keyword: "sony", ID: "sony"},
		{Keyword: "fuji", ID: "fujifilm"},
		{Keyword: "canon", ID: "canon"},
		{Keyword: "apple", ID: "/opt/icons/apple.png"},
	}, cfg.Icons)
	assert.Equal(t, "leica", cfg.FallbackIcon)

	wm, _, err := cfg.Watermark()
	require.NoError(t, err)
	assert.Equal(t, "fujifilm", wm.Icons.Rules[1].ID)
	assert.Equal(t, "leica", wm.Icons.Fallback)
}

func TestMalformedSizeIsInvalidSizeSpec(t *testing.T) {
	path := writeConfig(t, `
[watermark.text_area]
height = "abc%"
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	_, _, err = cfg.Watermark()
	assert.ErrorIs(t, err, watermark.ErrInvalidSizeSpec)
	assert.Contains(t, err.Error(), "text_area.height")
}

func TestMalformedRatio(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style.Border.Ratio = "4:x"

	_, _, err := cfg.Watermark()
	assert.ErrorIs(t, err, watermark.ErrInvalidSizeSpec)
}

func TestBadColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style.FontColor = []any{int64(0), int64(0)}

	_, _, err := cfg.Watermark()
	assert.ErrorContains(t, err, "font_color")
}

func TestUnknownKeysRejected(t *testing.T) {
	path := writeConfig(t, `
[watermark]
font_sise = "20%"
`)

	_, err := LoadConfigFile(path)
	assert.ErrorContains(t, err, "font_sise")
}

func TestDaemonPathsFilterComments(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	path := writeConfig(t, `
[daemon]
paths = ["~/Pictures", "#/mnt/old", "/srv/photos"]
min_age = "500ms"
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/tester/Pictures", "/srv/photos"}, cfg.Daemon.Paths)
	assert.Equal(t, 500*time.Millisecond, cfg.Daemon.MinAge)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "framemark.toml")

	require.NoError(t, WriteDefaultConfig(path, false))
	assert.Error(t, WriteDefaultConfig(path, false))
	require.NoError(t, WriteDefaultConfig(path, true))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	_, _, err = cfg.Watermark()
	assert.NoError(t, err)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester", ExpandHome("~"))
	assert.Equal(t, "/home/tester/icons", ExpandHome("~/icons"))
	assert.Equal(t, "/abs/~/x", ExpandHome("/abs/~/x"))
}

func TestDefaultFontSet(t *testing.T) {
	fs, err := DefaultConfig().FontSet()
	require.NoError(t, err)
	assert.Same(t, watermark.DefaultFontSet(), fs)
}
