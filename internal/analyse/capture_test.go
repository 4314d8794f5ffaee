package analyse

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullTags() MapReader {
	return MapReader{
		"Make":             "Canon",
		"Model":            "Canon EOS R5",
		"LensModel":        "RF24-70mm F2.8 L IS USM",
		"FocalLength":      Rational{Num: 50, Den: 1},
		"FNumber":          Rational{Num: 28, Den: 10},
		"ExposureTime":     Rational{Num: 1, Den: 125},
		"ISOSpeedRatings":  int64(400),
		"DateTimeOriginal": "2023:05:17 14:03:22",
	}
}

func TestExtractFullRecord(t *testing.T) {
	c, err := Extract(fullTags())
	require.NoError(t, err)

	d := c.Display()
	assert.Equal(t, Display{
		Camera:       "Canon EOS R5",
		Maker:        "Canon",
		Lens:         "RF24-70mm F2.8 L IS USM",
		FocalLength:  "50.0mm",
		Aperture:     "f/2.8",
		ShutterSpeed: "1/125s",
		ISO:          "ISO 400",
		Date:         "2023-05-17",
		Time:         "14:03:22",
	}, d)
	assert.Nil(t, c.GPS)
}

func TestExtractMissingFieldsStillReturnsCapture(t *testing.T) {
	tags := fullTags()
	delete(tags, "LensModel")
	delete(tags, "ISOSpeedRatings")

	c, err := Extract(tags)
	require.Error(t, err)
	require.NotNil(t, c)

	assert.True(t, errors.Is(err, ErrMetadataFieldMissing))
	assert.ElementsMatch(t, []Tag{TagLensModel, TagISO}, MissingTags(err))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))

	d := c.Display()
	assert.Empty(t, d.Lens)
	assert.Empty(t, d.ISO)
	assert.Equal(t, "Canon EOS R5", d.Camera)
}

func TestExtractEmptyReaderNeverPanics(t *testing.T) {
	c, err := Extract(MapReader{})
	require.Error(t, err)
	assert.Len(t, MissingTags(err), 8)
	assert.Equal(t, Display{}, c.Display())
}

func TestExtractRejectsZeroDenominator(t *testing.T) {
	tags := fullTags()
	tags["ExposureTime"] = Rational{Num: 1, Den: 0}

	c, err := Extract(tags)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedTag))
	assert.Nil(t, c.ExposureTime)
	assert.Equal(t, []Tag{TagExposureTime}, MissingTags(err))
}

func TestFormatShutter(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{1.0 / 125, "1/125s"},
		{1.0 / 4000, "1/4000s"},
		{1.0 / 3, "1/3s"},
		{0.5, "1/2s"},
		{1.0, "1s"},
		{2.0, "2s"},
		{2.5, "2s"},
		{30, "30s"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatShutter(tc.seconds), "seconds=%v", tc.seconds)
	}
}

func TestFormatShutterRejectsNonPositive(t *testing.T) {
	for _, s := range []float64{0, -0.5, math.Inf(1), math.NaN()} {
		assert.Empty(t, FormatShutter(s), "seconds=%v", s)
	}
}

func TestFormatFloatsKeepOneDecimalWhenIntegral(t *testing.T) {
	assert.Equal(t, "50.0mm", FormatFocalLength(50))
	assert.Equal(t, "23.5mm", FormatFocalLength(23.5))
	assert.Equal(t, "f/1.8", FormatAperture(1.8))
	assert.Equal(t, "f/4.0", FormatAperture(4))
	assert.Equal(t, "f/11.0", FormatAperture(11))
	assert.Equal(t, "f/0.95", FormatAperture(0.95))
	assert.Equal(t, "ISO 100", FormatISO(100))
}

func TestSplitDateTime(t *testing.T) {
	date, clock := SplitDateTime("2024:01:09 07:45:00")
	assert.Equal(t, "2024-01-09", date)
	assert.Equal(t, "07:45:00", clock)

	date, clock = SplitDateTime("2024:01:09")
	assert.Equal(t, "2024-01-09", date)
	assert.Empty(t, clock)
}

func TestFormatGPS(t *testing.T) {
	assert.Equal(t, "35.6812°N 139.7671°E", FormatGPS(GPS{Latitude: 35.6812, Longitude: 139.7671}))
	assert.Equal(t, "33.8688°S 151.2093°E", FormatGPS(GPS{Latitude: -33.8688, Longitude: 151.2093}))
	assert.Equal(t, "40.7128°N 74.0060°W", FormatGPS(GPS{Latitude: 40.7128, Longitude: -74.006}))
}

func TestMapReaderExifToolShapes(t *testing.T) {
	// exiftool -json -n output decoded with encoding/json
	tags := MapReader{
		"Make":             "NIKON CORPORATION",
		"Model":            "NIKON Z 6",
		"LensID":           "NIKKOR Z 35mm f/1.8 S",
		"FocalLength":      35.0,
		"FNumber":          1.8,
		"ExposureTime":     0.004,
		"ISO":              200.0,
		"DateTimeOriginal": "2022:10:01 18:30:00",
		"GPSLatitude":      48.8584,
		"GPSLongitude":     2.2945,
	}

	c, err := Extract(tags)
	require.NoError(t, err)

	d := c.Display()
	assert.Equal(t, "NIKKOR Z 35mm f/1.8 S", d.Lens)
	assert.Equal(t, "35.0mm", d.FocalLength)
	assert.Equal(t, "f/1.8", d.Aperture)
	assert.Equal(t, "1/250s", d.ShutterSpeed)
	assert.Equal(t, "ISO 200", d.ISO)
	assert.Equal(t, "48.8584°N 2.2945°E", d.GPS)
}

func TestMapReaderStringValues(t *testing.T) {
	tags := MapReader{
		"FocalLength":  "85.0 mm",
		"ExposureTime": "1/60",
		"ISO":          "800, 800",
	}

	fl, err := tags.Rational(TagFocalLength)
	require.NoError(t, err)
	assert.Equal(t, 85.0, fl.Float())

	et, err := tags.Rational(TagExposureTime)
	require.NoError(t, err)
	assert.Equal(t, Rational{Num: 1, Den: 60}, et)

	iso, err := tags.Int(TagISO)
	require.NoError(t, err)
	assert.Equal(t, int64(800), iso)

	_, err = tags.String(TagMake)
	assert.ErrorIs(t, err, ErrMetadataFieldMissing)
}

func TestRationalFromFloat(t *testing.T) {
	assert.Equal(t, Rational{Num: 1, Den: 125}, RationalFromFloat(0.008))
	assert.Equal(t, Rational{Num: 14, Den: 5}, RationalFromFloat(2.8))
	assert.Equal(t, Rational{Num: 0, Den: 1}, RationalFromFloat(0))
}

func TestParseRational(t *testing.T) {
	r, err := ParseRational("10/4")
	require.NoError(t, err)
	assert.Equal(t, 2.5, r.Float())

	_, err = ParseRational("ten/4")
	assert.Error(t, err)
}
