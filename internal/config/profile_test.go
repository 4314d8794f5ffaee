package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framemark/internal/watermark"
)

const nightProfile = `
local grey = 40
return {
  bg_color = { grey, grey, grey, 255 },
  font_color = "#f0f0f0",
  font_size = "18%",
  border = { size = "5%", ratio = "1:1" },
  show = { gps = true, time = false },
}
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile(nightProfile)
	require.NoError(t, err)

	assert.Equal(t, []any{int64(40), int64(40), int64(40), int64(255)}, p["bg_color"])
	assert.Equal(t, "18%", p["font_size"])
	assert.Equal(t, map[string]any{"size": "5%", "ratio": "1:1"}, p["border"])
}

func TestProfileApply(t *testing.T) {
	p, err := ParseProfile(nightProfile)
	require.NoError(t, err)

	cfg := DefaultConfig()
	require.NoError(t, p.Apply(cfg))

	wm, flags, err := cfg.Watermark()
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{R: 40, G: 40, B: 40, A: 255}, wm.Background)
	assert.Equal(t, color.NRGBA{R: 240, G: 240, B: 240, A: 255}, wm.FontColor)
	assert.Equal(t, watermark.Pct(18), wm.FontSize)
	assert.Equal(t, watermark.Uniform(watermark.Pct(5)), wm.BorderSize)
	assert.Equal(t, watermark.Ratio{W: 1, H: 1}, wm.BorderRatio)
	assert.True(t, flags.GPS)
	assert.False(t, flags.Time)
	assert.True(t, flags.Date)
}

func TestProfileRejectsUnknownKeys(t *testing.T) {
	for _, src := range []string{
		`return { colour = "#fff" }`,
		`return { border = { width = 3 } }`,
		`return { show = { exposure = true } }`,
		`return { show = { gps = "yes" } }`,
		`return { border = "3%" }`,
	} {
		p, err := ParseProfile(src)
		require.NoError(t, err, src)
		assert.Error(t, p.Apply(DefaultConfig()), src)
	}
}

func TestProfileMustReturnTable(t *testing.T) {
	_, err := ParseProfile(`return 42`)
	assert.ErrorContains(t, err, "must return a table")

	_, err = ParseProfile(`return {1, 2, 3}`)
	assert.ErrorContains(t, err, "keyed table")

	_, err = ParseProfile(`this is not lua`)
	assert.Error(t, err)
}

func TestProfileHasNoOSAccess(t *testing.T) {
	_, err := ParseProfile(`os.remove("/tmp/x") return {}`)
	assert.Error(t, err)
}

func TestLoadProfileByPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "night.lua")
	require.NoError(t, os.WriteFile(path, []byte(nightProfile), 0644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Contains(t, p, "show")

	_, err = LoadProfile("does-not-exist")
	assert.Error(t, err)
}

func TestBundledProfilesApply(t *testing.T) {
	for _, name := range []string{"night", "square"} {
		t.Run(name, func(t *testing.T) {
			p, err := LoadProfile(filepath.Join("..", "..", "profiles", name+".lua"))
			require.NoError(t, err)

			cfg := DefaultConfig()
			require.NoError(t, p.Apply(cfg))

			_, _, err = cfg.Watermark()
			assert.NoError(t, err)
		})
	}
}

func TestBundledConfigTemplateParses(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join("..", "..", "config", "framemark.toml.example"))
	require.NoError(t, err)

	_, _, err = cfg.Watermark()
	assert.NoError(t, err)
}
