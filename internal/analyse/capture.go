// BYZRA ⸻ internal/analyse/capture.go
// capture metadata normalization & display strings

package analyse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// normalized capture metadata, nil means absent
type Capture struct {
	Make         *string
	Model        *string
	LensModel    *string
	FocalLength  *Rational
	FNumber      *Rational
	ExposureTime *Rational
	ISO          *int64
	DateTime     *string
	GPS          *GPS
}

// display-ready strings, "" for absent fields
type Display struct {
	Camera       string
	Maker        string
	Lens         string
	FocalLength  string
	Aperture     string
	ShutterSpeed string
	ISO          string
	Date         string
	Time         string
	GPS          string
}

// reads every capture tag from r
//
// the returned capture is always non-nil and holds whatever could be read;
// err joins one *FieldError per unusable tag so callers can decide
// between rendering blanks and aborting. gps is optional and never reported.
func Extract(r TagReader) (*Capture, error) {
	c := &Capture{}
	var errs []error

	str := func(tag Tag) *string {
		s, err := r.String(tag)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		return &s
	}

	rat := func(tag Tag, positive bool) *Rational {
		v, err := r.Rational(tag)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if v.Den == 0 {
			errs = append(errs, malformed(tag, "zero denominator"))
			return nil
		}
		if positive && v.Float() <= 0 {
			errs = append(errs, malformed(tag, "non-positive value %s", v))
			return nil
		}
		return &v
	}

	c.Make = str(TagMake)
	c.Model = str(TagModel)
	c.LensModel = str(TagLensModel)
	c.FocalLength = rat(TagFocalLength, false)
	c.FNumber = rat(TagFNumber, false)
	c.ExposureTime = rat(TagExposureTime, true)

	if iso, err := r.Int(TagISO); err != nil {
		errs = append(errs, err)
	} else {
		c.ISO = &iso
	}

	c.DateTime = str(TagDateTime)

	if gps, err := r.GPS(); err == nil {
		c.GPS = gps
	}

	return c, errors.Join(errs...)
}

// names of the tags reported in an Extract error
func MissingTags(err error) []Tag {
	if err == nil {
		return nil
	}

	var tags []Tag
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var fe *FieldError
		if errors.As(e, &fe) {
			tags = append(tags, fe.Tag)
		}
	}
	walk(err)

	return tags
}

// derived display strings
func (c *Capture) Display() Display {
	var d Display

	if c.Model != nil {
		d.Camera = *c.Model
	}
	if c.Make != nil {
		d.Maker = *c.Make
	}
	if c.LensModel != nil {
		d.Lens = *c.LensModel
	}
	if c.FocalLength != nil {
		d.FocalLength = FormatFocalLength(c.FocalLength.Float())
	}
	if c.FNumber != nil {
		d.Aperture = FormatAperture(c.FNumber.Float())
	}
	if c.ExposureTime != nil {
		d.ShutterSpeed = FormatShutter(c.ExposureTime.Float())
	}
	if c.ISO != nil {
		d.ISO = FormatISO(*c.ISO)
	}
	if c.DateTime != nil {
		d.Date, d.Time = SplitDateTime(*c.DateTime)
	}
	if c.GPS != nil {
		d.GPS = FormatGPS(*c.GPS)
	}

	return d
}

// shortest round-trip decimal, no forced rounding; integral values keep
// one decimal ("50.0")
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

func FormatFocalLength(mm float64) string {
	return formatFloat(mm) + "mm"
}

func FormatAperture(f float64) string {
	return "f/" + formatFloat(f)
}

// sub-second exposures always print as a reciprocal; "" for
// non-positive or non-finite values
func FormatShutter(seconds float64) string {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return ""
	}
	if seconds < 1 {
		return fmt.Sprintf("1/%ds", int64(math.Round(1/seconds)))
	}
	return fmt.Sprintf("%ds", int64(math.Floor(seconds)))
}

func FormatISO(iso int64) string {
	return fmt.Sprintf("ISO %d", iso)
}

// "YYYY:MM:DD HH:MM:SS" → "YYYY-MM-DD", "HH:MM:SS"
func SplitDateTime(dt string) (date, clock string) {
	date, clock, _ = strings.Cut(strings.TrimSpace(dt), " ")
	return strings.ReplaceAll(date, ":", "-"), clock
}

func FormatGPS(g GPS) string {
	ns, ew := "N", "E"
	lat, long := g.Latitude, g.Longitude
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if long < 0 {
		ew, long = "W", -long
	}
	return fmt.Sprintf("%.4f°%s %.4f°%s", lat, ns, long, ew)
}
