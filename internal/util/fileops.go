// BYZRA ⸻ internal/util/fileops.go
// file operation utilities

package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// name of the folder renders go to, next to the photos
const ExportDirName = "export"

// writes through a temp file in the same directory and renames it into
// place, so readers never see a half-written file
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := write(tmp); err != nil {
		return fail(err)
	}

	// sync to ensure writes are flushed
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("failed to sync destination file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close destination file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// where the render of src goes: outDir, or <src folder>/export when empty
func ExportPath(src, outDir string) string {
	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(src), ExportDirName)
	}
	return filepath.Join(outDir, SanitizeFilename(filepath.Base(src)))
}

// path lies inside dir (or is dir)
func IsWithin(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// an existing, readable regular file
func ValidatePath(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, expected a file: %s", path)
	}
	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file is not readable: %w", err)
	}
	file.Close()

	return nil
}

// file info, following symlinks
func GetFileInfo(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// directory entries
func ListDirectory(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// removes potentially unsafe characters from a filename
func SanitizeFilename(filename string) string {
	// remove path elements
	filename = filepath.Base(filename)

	// replace unsafe characters
	unsafe := []string{"\\", "/", ":", "*", "?", "\"", "<", ">", "|", ";", "&"}
	for _, char := range unsafe {
		filename = strings.ReplaceAll(filename, char, "_")
	}

	// special cases like hidden files
	if strings.HasPrefix(filename, ".") {
		filename = "_" + filename[1:]
	}

	return filename
}
