package config

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryMissingFileIsEmpty(t *testing.T) {
	h, err := LoadHistory(filepath.Join(t.TempDir(), "history.toml"), 0)
	require.NoError(t, err)

	_, ok := h.Last()
	assert.False(t, ok)
}

func TestHistoryAddDedupesAndCaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.toml")
	h, err := LoadHistory(path, 3)
	require.NoError(t, err)

	for i := range 5 {
		h.Add(fmt.Sprintf("/photos/%d", i))
	}
	h.Add("/photos/3")

	assert.Equal(t, []string{"/photos/2", "/photos/4", "/photos/3"}, h.Folders)

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, "/photos/3", last)
}

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.toml")
	h, err := LoadHistory(path, 10)
	require.NoError(t, err)

	h.Add("/photos/a")
	h.Add("/photos/b")
	require.NoError(t, h.Save())

	again, err := LoadHistory(path, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/photos/b"}, again.Folders)
}
