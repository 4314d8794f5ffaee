// BYZRA ⸻ internal/formats/formats.go
// image format handler interfaces and common functionality

package formats

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"framemark/internal/util"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEncodeUnsupported = errors.New("format cannot be encoded")
	ErrAnimated          = errors.New("animated images are not supported")
)

// default jpeg quality when none configured
const DefaultJPEGQuality = 95

type EncodeOptions struct {
	JPEGQuality int
}

// defines operations for format-specific pixel handling
type FormatHandler interface {
	// decode a single frame
	Decode(r io.Reader, autoOrient bool) (image.Image, error)

	// encode the finished canvas
	Encode(w io.Writer, img image.Image, opts EncodeOptions) error

	// false for decode-only formats
	CanEncode() bool
}

// appropriate handler for a file format
func GetHandler(format string) (FormatHandler, error) {
	switch format {
	case "jpeg":
		return &JPEGHandler{}, nil
	case "png":
		return &PNGHandler{}, nil
	case "gif":
		return &GIFHandler{}, nil
	case "tiff":
		return &TIFFHandler{}, nil
	case "bmp":
		return &BMPHandler{}, nil
	case "webp":
		return &WebPHandler{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// all supported extensions
var ImageExtensions = []string{"jpg", "jpeg", "png", "gif", "tif", "tiff", "bmp", "webp"}

// list of all supported file extensions
func SupportedFormats() []string {
	return slices.Clone(ImageExtensions)
}

// checks if a file extension is supported
func IsSupported(extension string) bool {
	extension = normalizeExt(extension)
	return slices.Contains(ImageExtensions, extension)
}

// format name for a given extension
func GetFormatType(extension string) (string, error) {
	switch normalizeExt(extension) {
	case "jpg", "jpeg":
		return "jpeg", nil
	case "png":
		return "png", nil
	case "gif":
		return "gif", nil
	case "tif", "tiff":
		return "tiff", nil
	case "bmp":
		return "bmp", nil
	case "webp":
		return "webp", nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, extension)
}

// remove leading dot & lowercase
func normalizeExt(extension string) string {
	extension = strings.TrimPrefix(extension, ".")
	return strings.ToLower(extension)
}

// decodes an image file with the handler for format
func Load(path, format string, autoOrient bool) (image.Image, error) {
	handler, err := GetHandler(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := handler.Decode(f, autoOrient)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// output path for a canvas that must be written as format; decode-only
// formats are redirected to jpeg
func OutputPath(path string) (string, string) {
	format, err := GetFormatType(filepath.Ext(path))
	if err != nil {
		return strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg", "jpeg"
	}

	handler, _ := GetHandler(format)
	if !handler.CanEncode() {
		return strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg", "jpeg"
	}
	return path, format
}

// encodes img into path, creating parent directories
func Save(img image.Image, path string, opts EncodeOptions) error {
	format, err := GetFormatType(filepath.Ext(path))
	if err != nil {
		return err
	}

	handler, err := GetHandler(format)
	if err != nil {
		return err
	}
	if !handler.CanEncode() {
		return fmt.Errorf("%w: %s", ErrEncodeUnsupported, format)
	}

	return util.WriteAtomic(path, func(w io.Writer) error {
		if err := handler.Encode(w, img, opts); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	})
}
