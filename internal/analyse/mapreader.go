// BYZRA ⸻ internal/analyse/mapreader.go
// tag reader over a flat key/value map (exiftool json, tests)

package analyse

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// alternative key names used by exiftool for the same field
var tagAliases = map[Tag][]string{
	TagISO:       {"ISOSpeedRatings", "ISO", "PhotographicSensitivity"},
	TagLensModel: {"LensModel", "Lens", "LensID"},
	TagDateTime:  {"DateTimeOriginal", "CreateDate"},
}

// TagReader backed by a plain map
type MapReader map[string]any

func (m MapReader) lookup(tag Tag) (any, bool) {
	keys, ok := tagAliases[tag]
	if !ok {
		keys = []string{string(tag)}
	}

	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (m MapReader) String(tag Tag) (string, error) {
	v, ok := m.lookup(tag)
	if !ok {
		return "", missing(tag)
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case json.Number:
		s = val.String()
	default:
		s = fmt.Sprintf("%v", val)
	}

	s = cleanString(s)
	if s == "" {
		return "", missing(tag)
	}
	return s, nil
}

func (m MapReader) Rational(tag Tag) (Rational, error) {
	v, ok := m.lookup(tag)
	if !ok {
		return Rational{}, missing(tag)
	}

	switch val := v.(type) {
	case Rational:
		return val, nil
	case float64:
		return RationalFromFloat(val), nil
	case int:
		return Rational{Num: int64(val), Den: 1}, nil
	case int64:
		return Rational{Num: val, Den: 1}, nil
	case json.Number:
		return parseRationalTag(tag, val.String())
	case string:
		// exiftool prints "50.0 mm" without -n
		return parseRationalTag(tag, strings.TrimSuffix(strings.TrimSpace(val), " mm"))
	default:
		return Rational{}, malformed(tag, "unsupported value %T", v)
	}
}

func parseRationalTag(tag Tag, s string) (Rational, error) {
	r, err := ParseRational(s)
	if err != nil {
		return Rational{}, malformed(tag, "%v", err)
	}
	return r, nil
}

func (m MapReader) Int(tag Tag) (int64, error) {
	v, ok := m.lookup(tag)
	if !ok {
		return 0, missing(tag)
	}

	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case float64:
		if val != math.Trunc(val) {
			return 0, malformed(tag, "non-integer value %v", val)
		}
		return int64(val), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, malformed(tag, "%v", err)
		}
		return n, nil
	case string:
		// multi-valued ISO comes through as "100, 100"
		first, _, _ := strings.Cut(val, ",")
		n, err := strconv.ParseInt(strings.TrimSpace(first), 10, 64)
		if err != nil {
			return 0, malformed(tag, "%v", err)
		}
		return n, nil
	default:
		return 0, malformed(tag, "unsupported value %T", v)
	}
}

func (m MapReader) GPS() (*GPS, error) {
	lat, okLat := m["GPSLatitude"].(float64)
	long, okLong := m["GPSLongitude"].(float64)
	if !okLat || !okLong {
		return nil, missing(TagGPS)
	}
	return &GPS{Latitude: lat, Longitude: long}, nil
}
