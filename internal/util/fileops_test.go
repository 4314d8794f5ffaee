package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPath(t *testing.T) {
	src := filepath.Join("photos", "trip", "IMG_01.jpg")

	assert.Equal(t, filepath.Join("photos", "trip", "export", "IMG_01.jpg"), ExportPath(src, ""))
	assert.Equal(t, filepath.Join("out", "IMG_01.jpg"), ExportPath(src, "out"))
	assert.Equal(t, filepath.Join("out", "_hidden.jpg"), ExportPath(".hidden.jpg", "out"))
}

func TestIsWithin(t *testing.T) {
	dir := filepath.Join("a", "export")

	assert.True(t, IsWithin(dir, dir))
	assert.True(t, IsWithin(filepath.Join(dir, "x.jpg"), dir))
	assert.True(t, IsWithin(filepath.Join(dir, "sub", "x.jpg"), dir))
	assert.False(t, IsWithin(filepath.Join("a", "x.jpg"), dir))
	assert.False(t, IsWithin(filepath.Join("a", "exported", "x.jpg"), dir))
	assert.False(t, IsWithin(filepath.Join("a", "..export", "x.jpg"), dir))
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	require.NoError(t, WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "framed")
		return err
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "framed", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteAtomicKeepsOldFileOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	boom := errors.New("encode failed")
	err := WriteAtomic(path, func(w io.Writer) error {
		io.WriteString(w, "half")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.NoError(t, ValidatePath(file))
	assert.Error(t, ValidatePath(dir))
	assert.Error(t, ValidatePath(filepath.Join(dir, "missing.jpg")))
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":      "photo.jpg",
		"a/b/c.jpg":      "c.jpg",
		"what?.jpg":      "what_.jpg",
		"a:b*c.png":      "a_b_c.png",
		".dotfile.jpg":   "_dotfile.jpg",
		"x|y;z&w<>.tiff": "x_y_z_w__.tiff",
	}

	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}
