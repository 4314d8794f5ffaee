// BYZRA ⸻ internal/analyse/tags.go
// raw embedded tag access, independent of the container that carried it

package analyse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// embedded capture tag names (exif field names)
type Tag string

const (
	TagMake         Tag = "Make"
	TagModel        Tag = "Model"
	TagLensModel    Tag = "LensModel"
	TagFocalLength  Tag = "FocalLength"
	TagFNumber      Tag = "FNumber"
	TagExposureTime Tag = "ExposureTime"
	TagISO          Tag = "ISOSpeedRatings"
	TagDateTime     Tag = "DateTimeOriginal"
	TagGPS          Tag = "GPS"
)

var (
	ErrMetadataFieldMissing = errors.New("metadata field missing")
	ErrMalformedTag         = errors.New("malformed metadata tag")
)

// one unusable tag, wraps ErrMetadataFieldMissing or ErrMalformedTag
type FieldError struct {
	Tag Tag
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tag, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missing(tag Tag) error {
	return &FieldError{Tag: tag, Err: ErrMetadataFieldMissing}
}

func malformed(tag Tag, format string, args ...any) error {
	return &FieldError{Tag: tag, Err: fmt.Errorf("%w: %s", ErrMalformedTag, fmt.Sprintf(format, args...))}
}

// exif RATIONAL / SRATIONAL value
type Rational struct {
	Num int64
	Den int64
}

func (r Rational) Float() float64 {
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// parses "n/d" or a plain decimal
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("invalid rational %q: %w", s, err)
		}
		d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("invalid rational %q: %w", s, err)
		}
		return Rational{Num: n, Den: d}, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("invalid rational %q: %w", s, err)
	}
	return RationalFromFloat(f), nil
}

// approximates a decimal with a micro denominator, reduced
func RationalFromFloat(f float64) Rational {
	const den = 1_000_000
	n := int64(f*den + 0.5)
	if f < 0 {
		n = int64(f*den - 0.5)
	}
	g := gcd(abs64(n), den)
	if g == 0 {
		return Rational{Num: 0, Den: 1}
	}
	return Rational{Num: n / g, Den: den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// decoded gps position (degrees, south & west negative)
type GPS struct {
	Latitude  float64
	Longitude float64
}

// read access to one image's embedded tags
//
// every method returns an error wrapping ErrMetadataFieldMissing when
// the tag is absent
type TagReader interface {
	String(tag Tag) (string, error)
	Rational(tag Tag) (Rational, error)
	Int(tag Tag) (int64, error)
	GPS() (*GPS, error)
}

// normalizes an exif ASCII value (trailing NULs & padding)
func cleanString(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
