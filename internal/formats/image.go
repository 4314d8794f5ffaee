// BYZRA ⸻ internal/formats/image.go
// per-format handler implementations

package formats

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// shared decode path, imaging applies the exif orientation tag when asked
func decode(r io.Reader, autoOrient bool) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(autoOrient))
}

func quality(opts EncodeOptions) int {
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		return DefaultJPEGQuality
	}
	return opts.JPEGQuality
}

// implements FormatHandler for jpeg files
type JPEGHandler struct{}

func (h *JPEGHandler) Decode(r io.Reader, autoOrient bool) (image.Image, error) {
	return decode(r, autoOrient)
}

func (h *JPEGHandler) Encode(w io.Writer, img image.Image, opts EncodeOptions) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality(opts)))
}

func (h *JPEGHandler) CanEncode() bool { return true }

// implements FormatHandler for png files
type PNGHandler struct{}

func (h *PNGHandler) Decode(r io.Reader, autoOrient bool) (image.Image, error) {
	return decode(r, autoOrient)
}

func (h *PNGHandler) Encode(w io.Writer, img image.Image, _ EncodeOptions) error {
	return imaging.Encode(w, img, imaging.PNG)
}

func (h *PNGHandler) CanEncode() bool { return true }

// implements FormatHandler for single-frame gif files
type GIFHandler struct{}

func (h *GIFHandler) Decode(r io.Reader, _ bool) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(cfg.Image) != 1 {
		return nil, fmt.Errorf("%w: %d frames", ErrAnimated, len(cfg.Image))
	}
	return cfg.Image[0], nil
}

func (h *GIFHandler) Encode(w io.Writer, img image.Image, _ EncodeOptions) error {
	return imaging.Encode(w, img, imaging.GIF)
}

func (h *GIFHandler) CanEncode() bool { return true }

// implements FormatHandler for tiff files
type TIFFHandler struct{}

func (h *TIFFHandler) Decode(r io.Reader, autoOrient bool) (image.Image, error) {
	return decode(r, autoOrient)
}

func (h *TIFFHandler) Encode(w io.Writer, img image.Image, _ EncodeOptions) error {
	return imaging.Encode(w, img, imaging.TIFF)
}

func (h *TIFFHandler) CanEncode() bool { return true }

// implements FormatHandler for bmp files
type BMPHandler struct{}

func (h *BMPHandler) Decode(r io.Reader, _ bool) (image.Image, error) {
	return decode(r, false)
}

func (h *BMPHandler) Encode(w io.Writer, img image.Image, _ EncodeOptions) error {
	return imaging.Encode(w, img, imaging.BMP)
}

func (h *BMPHandler) CanEncode() bool { return true }

// decode-only handler for webp files
type WebPHandler struct{}

func (h *WebPHandler) Decode(r io.Reader, _ bool) (image.Image, error) {
	return decode(r, false)
}

func (h *WebPHandler) Encode(io.Writer, image.Image, EncodeOptions) error {
	return fmt.Errorf("%w: webp", ErrEncodeUnsupported)
}

func (h *WebPHandler) CanEncode() bool { return false }
