// BYZRA ⸻ internal/render/verify.go
// integrity verification for written frames

package render

import (
	"fmt"
	"image"
	"os"
	"strings"

	"framemark/internal/analyse"
	"framemark/internal/formats"
	"framemark/internal/util"
)

// results of a file verification
type VerificationResult struct {
	Success          bool
	FileIntact       bool
	DimensionsMatch  bool
	Expected         image.Point
	Actual           image.Point
	ValidationErrors []string
}

// re-reads the header of a written frame and compares its size
func VerifyOutput(path string, width, height int) (*VerificationResult, error) {
	result := &VerificationResult{
		Expected:         image.Pt(width, height),
		ValidationErrors: []string{},
	}

	f, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("file not found: %w", err)
	}
	defer f.Close()

	fileType, err := analyse.DetectFile(path)
	if err != nil {
		return result, fmt.Errorf("file type detection failed: %w", err)
	}
	if _, err := formats.GetHandler(fileType.Format); err != nil {
		return result, fmt.Errorf("no handler for format %s: %w", fileType.Format, err)
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		result.ValidationErrors = append(result.ValidationErrors,
			fmt.Sprintf("Header unreadable: %s", err))
		return result, nil
	}
	result.FileIntact = true

	result.Actual = image.Pt(cfg.Width, cfg.Height)
	result.DimensionsMatch = result.Actual == result.Expected
	if !result.DimensionsMatch {
		result.ValidationErrors = append(result.ValidationErrors,
			fmt.Sprintf("Size %dx%d, expected %dx%d",
				cfg.Width, cfg.Height, width, height))
	}

	// overall success
	result.Success = result.FileIntact && result.DimensionsMatch

	return result, nil
}

// user-friendly report of the verification
func FormatVerificationResult(result *VerificationResult) string {
	var sb strings.Builder

	if result.Success {
		sb.WriteString(util.NSH.Render("✓ Output verified"))
		sb.WriteString("\n")
		return sb.String()
	}

	if !result.FileIntact {
		sb.WriteString(util.LBL.Render("[!] Output integrity check failed. File may be corrupted."))
		sb.WriteString("\n")
	}

	for _, msg := range result.ValidationErrors {
		sb.WriteString("  ")
		sb.WriteString(util.NSH.Render("• " + msg))
		sb.WriteString("\n")
	}

	return sb.String()
}
