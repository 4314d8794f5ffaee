// BYZRA ⸻ internal/config/config.go
// config loading & management

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"framemark/internal/watermark"
)

//go:embed default.toml
var defaultTOML string

const FileName = "framemark.toml"

// size values stay untyped until Watermark() so one field can hold
// "3%", 40 or ["2%", 60] like the file does
type WatermarkSection struct {
	FontSize     any   `toml:"font_size"`
	FontColor    any   `toml:"font_color"`
	BgColor      any   `toml:"bg_color"`
	Margin       any   `toml:"margin"`
	DivLineWidth any   `toml:"div_line_width"`
	DivLineColor any   `toml:"div_line_color"`
	Font         Fonts `toml:"font"`
	Border       struct {
		Size  any    `toml:"size"`
		Ratio string `toml:"ratio"`
	} `toml:"border"`
	TextArea struct {
		Width  any `toml:"width"`
		Height any `toml:"height"`
	} `toml:"text_area"`
}

type Fonts struct {
	Bold  string `toml:"bold"`
	Light string `toml:"light"`
}

type ShowInfo struct {
	Camera       bool `toml:"camera"`
	CameraMaker  bool `toml:"camera_maker"`
	Lens         bool `toml:"lens"`
	FocalLength  bool `toml:"focal_length"`
	Aperture     bool `toml:"aperture"`
	ShutterSpeed bool `toml:"shutter_speed"`
	ISO          bool `toml:"iso"`
	Date         bool `toml:"date"`
	Time         bool `toml:"time"`
	GPS          bool `toml:"gps"`
}

type OutputSection struct {
	Dir         string        `toml:"dir"`
	JPEGQuality int           `toml:"jpeg_quality"`
	AutoOrient  bool          `toml:"auto_orient"`
	Strict      bool          `toml:"strict"`
	Overwrite   bool          `toml:"overwrite"`
	Timeout     time.Duration `toml:"timeout"`
}

// config for daemon mode
type DaemonSection struct {
	Paths  []string      `toml:"paths"`
	MinAge time.Duration `toml:"min_age"`
}

// keyword → icon id in file order
type IconEntry struct {
	Keyword string
	ID      string
}

type Config struct {
	MaxFolderHistory int              `toml:"max_folder_history"`
	LogLevel         string           `toml:"log_level"`
	IconsDir         string           `toml:"icons_dir"`
	Style            WatermarkSection `toml:"watermark"`
	ShowInfo         ShowInfo         `toml:"show_info"`
	Output           OutputSection    `toml:"output"`
	Daemon           DaemonSection    `toml:"daemon"`

	// [icons] as decoded; Icons & FallbackIcon carry it in file order
	RawIcons     map[string]string `toml:"icons"`
	Icons        []IconEntry       `toml:"-"`
	FallbackIcon string            `toml:"-"`

	// file the config was read from, "" for built-in defaults
	Path string `toml:"-"`
}

// the built-in template
func DefaultConfig() *Config {
	cfg, err := parse(defaultTOML, "")
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// search common locations
func SearchPaths() []string {
	return []string{
		filepath.Join("config", FileName),
		filepath.Join(".", FileName),
		filepath.Join(os.Getenv("HOME"), ".framemark/config", FileName),
	}
}

// first framemark.toml found, or the defaults when there is none
func LoadConfig() (*Config, error) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadConfigFile(path)
		}
	}
	return DefaultConfig(), nil
}

// a config file layered over the defaults; keys it leaves out keep
// their default values
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := parse(string(data), path)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

func parse(data, path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		// defaults first so a partial file only overrides what it names
		base, err := parse(defaultTOML, "")
		if err != nil {
			return nil, err
		}
		cfg = base
	}

	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}

	if md.IsDefined("icons") {
		cfg.Icons, cfg.FallbackIcon = orderedIcons(md, cfg.RawIcons)
	}

	// filter out commented paths
	var activePaths []string
	for _, p := range cfg.Daemon.Paths {
		if len(p) > 0 && p[0] != '#' {
			activePaths = append(activePaths, ExpandHome(p))
		}
	}
	cfg.Daemon.Paths = activePaths
	cfg.IconsDir = ExpandHome(cfg.IconsDir)

	return cfg, nil
}

// toml maps lose order; md.Keys() keeps it
func orderedIcons(md toml.MetaData, icons map[string]string) ([]IconEntry, string) {
	var entries []IconEntry
	var fallback string

	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "icons" {
			continue
		}
		kw := key[1]
		if kw == "fallback" {
			fallback = icons[kw]
			continue
		}
		entries = append(entries, IconEntry{Keyword: kw, ID: icons[kw]})
	}
	return entries, fallback
}

// typed engine settings; any malformed size, ratio or color fails here,
// before an image is touched
func (c *Config) Watermark() (watermark.Config, watermark.Flags, error) {
	wm := c.Style
	var out watermark.Config
	var err error

	if out.BorderSize, err = watermark.ParseSize(wm.Border.Size); err != nil {
		return watermark.Config{}, watermark.Flags{}, fmt.Errorf("watermark.border.size: %w", err)
	}
	if out.BorderRatio, err = watermark.ParseRatio(wm.Border.Ratio); err != nil {
		return watermark.Config{}, watermark.Flags{}, fmt.Errorf("watermark.border.ratio: %w", err)
	}

	tw, err := watermark.ParseLength(wm.TextArea.Width)
	if err != nil {
		return watermark.Config{}, watermark.Flags{}, fmt.Errorf("watermark.text_area.width: %w", err)
	}
	th, err := watermark.ParseLength(wm.TextArea.Height)
	if err != nil {
		return watermark.Config{}, watermark.Flags{}, fmt.Errorf("watermark.text_area.height: %w", err)
	}
	out.TextArea = watermark.Pair(tw, th)

	lengths := []struct {
		name string
		raw  any
		dst  *watermark.Length
	}{
		{"font_size", wm.FontSize, &out.FontSize},
		{"margin", wm.Margin, &out.Margin},
		{"div_line_width", wm.DivLineWidth, &out.DividerWidth},
	}
	for _, l := range lengths {
		if *l.dst, err = watermark.ParseLength(l.raw); err != nil {
			return watermark.Config{}, watermark.Flags{}, fmt.Errorf("watermark.%s: %w", l.name, err)
		}
	}

	if out.Background, err = watermark.ParseColor(wm.BgColor); err != nil {
		return watermark.Config{}, watermark.Flags{}, fmt.Errorf("watermark.bg_color: %w", err)
	}
	if out.FontColor, err = watermark.ParseColor(wm.FontColor); err != nil {
		return watermark.Config{}, watermark.Flags{}, fmt.Errorf("watermark.font_color: %w", err)
	}
	if out.DividerColor, err = watermark.ParseColor(wm.DivLineColor); err != nil {
		return watermark.Config{}, watermark.Flags{}, fmt.Errorf("watermark.div_line_color: %w", err)
	}

	for _, e := range c.Icons {
		out.Icons.Rules = append(out.Icons.Rules, watermark.IconRule{Keyword: e.Keyword, ID: e.ID})
	}
	out.Icons.Fallback = c.FallbackIcon

	return out, c.ShowInfo.Flags(), nil
}

func (s ShowInfo) Flags() watermark.Flags {
	return watermark.Flags{
		Camera:       s.Camera,
		CameraMaker:  s.CameraMaker,
		Lens:         s.Lens,
		FocalLength:  s.FocalLength,
		Aperture:     s.Aperture,
		ShutterSpeed: s.ShutterSpeed,
		ISO:          s.ISO,
		Date:         s.Date,
		Time:         s.Time,
		GPS:          s.GPS,
	}
}

// configured fonts, built-in go fonts for empty paths
func (c *Config) FontSet() (*watermark.FontSet, error) {
	if c.Style.Font.Bold == "" && c.Style.Font.Light == "" {
		return watermark.DefaultFontSet(), nil
	}
	return watermark.NewFontSet(ExpandHome(c.Style.Font.Bold), ExpandHome(c.Style.Font.Light))
}

func (c *Config) Rasterizer() watermark.FileRasterizer {
	return watermark.FileRasterizer{Dir: c.IconsDir}
}

// writes the commented default template, refusing to clobber unless force
func WriteDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultTOML), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// config directory exists
func SetupConfigDir() (string, error) {
	configDir := filepath.Join(os.Getenv("HOME"), ".framemark/config")
	err := os.MkdirAll(configDir, 0755)
	return configDir, err
}

func ExpandHome(path string) string {
	if path == "~" {
		return os.Getenv("HOME")
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(os.Getenv("HOME"), path[2:])
	}
	return path
}
