// BYZRA ⸻ internal/analyse/detector.go
// image type detection system

package analyse

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type FileType struct {
	Format    string // "jpeg", "png", "gif", "tiff", "bmp", "webp"
	Extension string // "jpg", "png", etc
	MimeType  string // "image/jpeg", etc
}

func DetectFile(path string) (FileType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext[0] == '.' {
		ext = ext[1:]
	}

	// 1st magic numbers
	ft, err := detectByMagicNumbers(path)
	if err == nil && ft.Format != "" {
		return ft, nil
	}

	// fallback to extension
	ft = detectByExtension(ext)
	if ft.Format != "" {
		return ft, nil
	}

	return FileType{}, fmt.Errorf("unknown file type for %s", path)
}

// examines file headers to determine type
func detectByMagicNumbers(path string) (FileType, error) {
	file, err := os.Open(path)
	if err != nil {
		return FileType{}, err
	}
	defer file.Close()

	// read first 12 bytes for signature detection
	buffer := make([]byte, 12)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileType{}, err
	}

	return DetectBytes(buffer[:n]), nil
}

// signature match on the first bytes of a stream
func DetectBytes(buffer []byte) FileType {
	// JPEG: FF D8 FF
	if bytes.HasPrefix(buffer, []byte{0xFF, 0xD8, 0xFF}) {
		return FileType{Format: "jpeg", Extension: "jpg", MimeType: "image/jpeg"}
	}

	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if bytes.HasPrefix(buffer, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return FileType{Format: "png", Extension: "png", MimeType: "image/png"}
	}

	// GIF: 47 49 46 38 (GIF8)
	if bytes.HasPrefix(buffer, []byte{0x47, 0x49, 0x46, 0x38}) {
		return FileType{Format: "gif", Extension: "gif", MimeType: "image/gif"}
	}

	// TIFF: 49 49 2A 00 or 4D 4D 00 2A (II* or MM*)
	if bytes.HasPrefix(buffer, []byte{0x49, 0x49, 0x2A, 0x00}) ||
		bytes.HasPrefix(buffer, []byte{0x4D, 0x4D, 0x00, 0x2A}) {
		return FileType{Format: "tiff", Extension: "tiff", MimeType: "image/tiff"}
	}

	// WEBP: RIFF....WEBP
	if len(buffer) >= 12 &&
		bytes.HasPrefix(buffer, []byte("RIFF")) &&
		bytes.Equal(buffer[8:12], []byte("WEBP")) {
		return FileType{Format: "webp", Extension: "webp", MimeType: "image/webp"}
	}

	// BMP: 42 4D (BM)
	if bytes.HasPrefix(buffer, []byte{0x42, 0x4D}) {
		return FileType{Format: "bmp", Extension: "bmp", MimeType: "image/bmp"}
	}

	return FileType{}
}

// maps file extensions to types (fallback method)
func detectByExtension(ext string) FileType {
	switch ext {
	case "jpg", "jpeg":
		return FileType{Format: "jpeg", Extension: ext, MimeType: "image/jpeg"}
	case "png":
		return FileType{Format: "png", Extension: ext, MimeType: "image/png"}
	case "gif":
		return FileType{Format: "gif", Extension: ext, MimeType: "image/gif"}
	case "tif", "tiff":
		return FileType{Format: "tiff", Extension: ext, MimeType: "image/tiff"}
	case "webp":
		return FileType{Format: "webp", Extension: ext, MimeType: "image/webp"}
	case "bmp":
		return FileType{Format: "bmp", Extension: ext, MimeType: "image/bmp"}
	}

	return FileType{} // unknown
}
