// BYZRA ⸻ internal/config/profile.go
// lua style profiles layered over the watermark config

package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// profile table as plain go values
type Profile map[string]any

// search common locations
func ProfilePaths(name string) []string {
	file := name + ".lua"
	return []string{
		filepath.Join("profiles", file),
		filepath.Join("config", "profiles", file),
		filepath.Join(os.Getenv("HOME"), ".framemark/profiles", file),
	}
}

// loads profile by name, or by path when name ends in .lua
func LoadProfile(name string) (Profile, error) {
	var profilePath string
	if strings.HasSuffix(name, ".lua") {
		profilePath = ExpandHome(name)
	} else {
		for _, path := range ProfilePaths(name) {
			if _, err := os.Stat(path); err == nil {
				profilePath = path
				break
			}
		}
	}

	if profilePath == "" {
		return nil, fmt.Errorf("profile %q not found in search paths", name)
	}

	data, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(string(data))
}

// runs the lua chunk, which must return a table
func ParseProfile(src string) (Profile, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// no io/os: a profile only computes values
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return nil, fmt.Errorf("failed to open lua %s lib: %w", lib.name, err)
		}
	}

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("failed to execute profile Lua: %w", err)
	}

	result := L.Get(-1)
	table, ok := result.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("profile Lua must return a table")
	}

	m, ok := fromLua(table).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("profile Lua must return a keyed table")
	}
	return Profile(m), nil
}

// lua → go: integral numbers become int64, sequences []any, keyed tables map[string]any
func fromLua(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LString:
		return string(val)
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case *lua.LTable:
		if n := val.MaxN(); n > 0 {
			items := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				items = append(items, fromLua(val.RawGetInt(i)))
			}
			return items
		}
		m := make(map[string]any)
		val.ForEach(func(k, v lua.LValue) {
			if k.Type() == lua.LTString {
				m[k.String()] = fromLua(v)
			}
		})
		return m
	default:
		return nil
	}
}

// overrides cfg with every key the profile sets; unknown keys are errors
func (p Profile) Apply(cfg *Config) error {
	wm := &cfg.Style
	values := map[string]*any{
		"font_size":      &wm.FontSize,
		"font_color":     &wm.FontColor,
		"bg_color":       &wm.BgColor,
		"margin":         &wm.Margin,
		"div_line_width": &wm.DivLineWidth,
		"div_line_color": &wm.DivLineColor,
	}

	for _, key := range p.keys() {
		v := p[key]
		if dst, ok := values[key]; ok {
			*dst = v
			continue
		}

		var err error
		switch key {
		case "border":
			err = applyTable(key, v, map[string]func(any) error{
				"size":  func(x any) error { wm.Border.Size = x; return nil },
				"ratio": stringSetter(&wm.Border.Ratio),
			})
		case "text_area":
			err = applyTable(key, v, map[string]func(any) error{
				"width":  func(x any) error { wm.TextArea.Width = x; return nil },
				"height": func(x any) error { wm.TextArea.Height = x; return nil },
			})
		case "font":
			err = applyTable(key, v, map[string]func(any) error{
				"bold":  stringSetter(&wm.Font.Bold),
				"light": stringSetter(&wm.Font.Light),
			})
		case "show":
			err = applyShow(&cfg.ShowInfo, v)
		default:
			err = fmt.Errorf("profile: unknown key %q", key)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (p Profile) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func applyTable(name string, v any, setters map[string]func(any) error) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("profile: %s must be a table", name)
	}
	for k, x := range m {
		set, ok := setters[k]
		if !ok {
			return fmt.Errorf("profile: unknown key %s.%s", name, k)
		}
		if err := set(x); err != nil {
			return fmt.Errorf("profile: %s.%s: %w", name, k, err)
		}
	}
	return nil
}

func stringSetter(dst *string) func(any) error {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("want a string, got %T", v)
		}
		*dst = s
		return nil
	}
}

func applyShow(s *ShowInfo, v any) error {
	flags := map[string]*bool{
		"camera":        &s.Camera,
		"camera_maker":  &s.CameraMaker,
		"lens":          &s.Lens,
		"focal_length":  &s.FocalLength,
		"aperture":      &s.Aperture,
		"shutter_speed": &s.ShutterSpeed,
		"iso":           &s.ISO,
		"date":          &s.Date,
		"time":          &s.Time,
		"gps":           &s.GPS,
	}

	setters := make(map[string]func(any) error, len(flags))
	for name, dst := range flags {
		setters[name] = func(x any) error {
			b, ok := x.(bool)
			if !ok {
				return fmt.Errorf("want a boolean, got %T", x)
			}
			*dst = b
			return nil
		}
	}
	return applyTable("show", v, setters)
}
