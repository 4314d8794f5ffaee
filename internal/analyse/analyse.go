// BYZRA ⸻ internal/analyse/analyse.go
// core analysis logic

package analyse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"framemark/internal/formats"
	"framemark/internal/util"
)

// where the tags of a report came from
const (
	SourceExif     = "exif"
	SourceExifTool = "exiftool"
	SourceNone     = "none"
)

// examines a file and returns its capture metadata
func Analyze(ctx context.Context, path string) (*AnalysisReport, error) {
	if err := util.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid file: %w", err)
	}

	// file type
	fileType, err := DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("file type detection failed: %w", err)
	}

	// format support
	if !formats.IsSupported(fileType.Extension) {
		return nil, fmt.Errorf("unsupported file type: %s", fileType.Extension)
	}

	reader, source := ReadTags(ctx, path, fileType)

	capture, extractErr := Extract(reader)

	// generate report
	report := &AnalysisReport{
		Path:        path,
		FileType:    fileType,
		Source:      source,
		Capture:     capture,
		Display:     capture.Display(),
		MissingTags: MissingTags(extractErr),
		ExtractErr:  extractErr,
	}

	return report, nil
}

// picks the best available tag source for a file
//
// goexif handles jpeg & tiff natively; anything else goes through exiftool
// when it is installed. with no usable source every tag reads as missing.
func ReadTags(ctx context.Context, path string, fileType FileType) (TagReader, string) {
	if fileType.Format == "jpeg" || fileType.Format == "tiff" {
		if f, err := os.Open(path); err == nil {
			reader, err := DecodeExif(f)
			f.Close()
			if err == nil {
				return reader, SourceExif
			}
		}
	}

	if util.ExifToolAvailable() {
		out, err := util.ExifToolExtract(ctx, path)
		if err == nil {
			if tags, err := util.ParseExifToolOutput(out); err == nil {
				return MapReader(tags), SourceExifTool
			}
		}
	}

	return MapReader{}, SourceNone
}

// analyzes multiple files and returns their reports
func AnalyzeFiles(ctx context.Context, paths []string) []*AnalysisReport {
	results := make([]*AnalysisReport, 0, len(paths))

	for _, path := range paths {
		info, err := util.GetFileInfo(path)
		if err != nil || info.IsDir() {
			continue
		}

		report, err := Analyze(ctx, path)
		if err != nil {
			// error report
			results = append(results, &AnalysisReport{
				Path: path,
				FileType: FileType{
					Format:    "error",
					Extension: filepath.Ext(path),
				},
				Source:     SourceNone,
				ExtractErr: err,
			})
			continue
		}

		results = append(results, report)
	}

	return results
}
