// BYZRA ⸻ internal/analyse/exif.go
// native exif block reader

package analyse

import (
	"fmt"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	// vendor maker notes so lens & body fields decode on more cameras
	exif.RegisterParsers(mknote.All...)
}

// TagReader backed by a decoded exif block
type ExifReader struct {
	x *exif.Exif
}

// decodes the exif block from a jpeg or tiff stream
func DecodeExif(r io.Reader) (*ExifReader, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exif: %w", err)
	}
	return &ExifReader{x: x}, nil
}

func (e *ExifReader) String(tag Tag) (string, error) {
	t, err := e.x.Get(exif.FieldName(tag))
	if err != nil {
		return "", missing(tag)
	}

	s, err := t.StringVal()
	if err != nil {
		return "", malformed(tag, "%v", err)
	}

	s = cleanString(s)
	if s == "" {
		return "", missing(tag)
	}
	return s, nil
}

func (e *ExifReader) Rational(tag Tag) (Rational, error) {
	t, err := e.x.Get(exif.FieldName(tag))
	if err != nil {
		return Rational{}, missing(tag)
	}

	num, den, err := t.Rat2(0)
	if err != nil {
		return Rational{}, malformed(tag, "%v", err)
	}
	return Rational{Num: num, Den: den}, nil
}

func (e *ExifReader) Int(tag Tag) (int64, error) {
	t, err := e.x.Get(exif.FieldName(tag))
	if err != nil {
		return 0, missing(tag)
	}

	v, err := t.Int64(0)
	if err != nil {
		return 0, malformed(tag, "%v", err)
	}
	return v, nil
}

func (e *ExifReader) GPS() (*GPS, error) {
	lat, long, err := e.x.LatLong()
	if err != nil {
		return nil, missing(TagGPS)
	}
	return &GPS{Latitude: lat, Longitude: long}, nil
}
