// BYZRA ⸻ internal/config/history.go
// recently rendered folders

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const DefaultMaxFolderHistory = 10

type History struct {
	Folders []string `toml:"folder_history"`

	path string
	max  int
}

func DefaultHistoryPath() string {
	return filepath.Join(os.Getenv("HOME"), ".framemark", "history.toml")
}

// empty history saved to path
func NewHistory(path string, max int) *History {
	if max <= 0 {
		max = DefaultMaxFolderHistory
	}
	return &History{path: path, max: max}
}

// reads the history file; a missing file is an empty history
func LoadHistory(path string, max int) (*History, error) {
	h := NewHistory(path, max)

	if _, err := toml.DecodeFile(path, h); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h, nil
		}
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}

	h.trim()
	return h, nil
}

// records folder as the newest entry, dropping an older duplicate
func (h *History) Add(folder string) {
	if abs, err := filepath.Abs(folder); err == nil {
		folder = abs
	}

	kept := h.Folders[:0]
	for _, f := range h.Folders {
		if f != folder {
			kept = append(kept, f)
		}
	}
	h.Folders = append(kept, folder)
	h.trim()
}

func (h *History) trim() {
	if len(h.Folders) > h.max {
		h.Folders = h.Folders[len(h.Folders)-h.max:]
	}
}

// newest folder
func (h *History) Last() (string, bool) {
	if len(h.Folders) == 0 {
		return "", false
	}
	return h.Folders[len(h.Folders)-1], true
}

// saves the history back to its file
func (h *History) Save() error {
	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.Create(h.path)
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(h)
}
