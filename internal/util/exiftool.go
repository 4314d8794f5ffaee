// BYZRA ⸻ internal/util/exiftool.go
// exiftool wrapper, fallback tag source for containers goexif can't read

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// is exiftool on PATH?
func ExifToolAvailable() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

// runs exiftool to extract all metadata as numeric JSON
func ExifToolExtract(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "exiftool", "-json", "-n", path)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("exiftool failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// parses JSON output from exiftool into a map
func ParseExifToolOutput(output string) (map[string]any, error) {
	// trim whitespace
	output = strings.TrimSpace(output)

	// ExifTool outputs an array of objects, but we only care about the first one
	var results []map[string]any

	// parse JSON
	err := json.Unmarshal([]byte(output), &results)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ExifTool JSON: %w", err)
	}

	// ensure we have results
	if len(results) == 0 {
		return make(map[string]any), nil // return empty map, not an error
	}

	return results[0], nil
}
