// BYZRA ⸻ internal/render/render.go
// single-image orchestration: read, frame, write, verify

package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"framemark/internal/analyse"
	"framemark/internal/config"
	"framemark/internal/formats"
	"framemark/internal/logging"
	"framemark/internal/util"
	"framemark/internal/watermark"
)

type RenderOptions struct {
	// export folder, "" for <photo folder>/export
	OutputDir string

	JPEGQuality int

	// abort on missing metadata instead of rendering blanks?
	Strict bool

	// apply the exif orientation before framing?
	AutoOrient bool

	// replace an existing export?
	Overwrite bool

	// soft limit per image, checked before decode & before encode
	Timeout time.Duration
}

func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		JPEGQuality: formats.DefaultJPEGQuality,
		AutoOrient:  true,
		Overwrite:   true,
		Timeout:     time.Minute,
	}
}

// options from the [output] section
func OptionsFromConfig(cfg *config.Config) *RenderOptions {
	return &RenderOptions{
		OutputDir:   config.ExpandHome(cfg.Output.Dir),
		JPEGQuality: cfg.Output.JPEGQuality,
		Strict:      cfg.Output.Strict,
		AutoOrient:  cfg.Output.AutoOrient,
		Overwrite:   cfg.Output.Overwrite,
		Timeout:     cfg.Output.Timeout,
	}
}

type RenderResult struct {
	Success      bool
	SourcePath   string
	OutputPath   string
	Format       string
	TagSource    string
	Display      analyse.Display
	MissingTags  []analyse.Tag
	Width        int
	Height       int
	Skipped      bool
	Elapsed      time.Duration
	Verification *VerificationResult
}

// everything needed to frame photos with one configuration; safe to
// share between goroutines
type Renderer struct {
	Compositor *watermark.Compositor
	Config     watermark.Config
	Flags      watermark.Flags
	Options    RenderOptions
	Logger     *logging.Logger
}

// validates cfg once & loads its fonts; a malformed size fails here
func NewRenderer(cfg *config.Config, opts *RenderOptions, logger *logging.Logger) (*Renderer, error) {
	wm, flags, err := cfg.Watermark()
	if err != nil {
		return nil, fmt.Errorf("invalid watermark config: %w", err)
	}

	fonts, err := cfg.FontSet()
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	if opts == nil {
		opts = OptionsFromConfig(cfg)
	}

	return &Renderer{
		Compositor: watermark.NewCompositor(fonts, cfg.Rasterizer(), logger),
		Config:     wm,
		Flags:      flags,
		Options:    *opts,
		Logger:     logger,
	}, nil
}

// frames one photo into the export folder
func (r *Renderer) RenderFile(ctx context.Context, path string) (*RenderResult, error) {
	start := time.Now()
	result := &RenderResult{SourcePath: path}
	defer func() { result.Elapsed = time.Since(start) }()

	// ctx only stops images that have not started decoding; after that
	// just the per-image deadline applies
	work := context.WithoutCancel(ctx)
	if r.Options.Timeout > 0 {
		var cancel context.CancelFunc
		work, cancel = context.WithTimeout(work, r.Options.Timeout)
		defer cancel()
	}

	report, err := analyse.Analyze(work, path)
	if err != nil {
		return result, fmt.Errorf("failed to analyze file: %w", err)
	}

	result.TagSource = report.Source
	result.Display = report.Display
	result.MissingTags = report.MissingTags

	if report.ExtractErr != nil {
		if r.Options.Strict {
			return result, fmt.Errorf("%s: %w", filepath.Base(path), report.ExtractErr)
		}
		r.Logger.Warningf("%s: rendering blanks for %s", path, joinTags(report.MissingTags))
	}

	outPath, outFormat := formats.OutputPath(util.ExportPath(path, r.Options.OutputDir))
	result.OutputPath = outPath
	result.Format = outFormat

	if !r.Options.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			result.Skipped = true
			result.Success = true
			r.Logger.Infof("%s exists, skipped", outPath)
			return result, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("before decode: %w", err)
	}
	if err := work.Err(); err != nil {
		return result, fmt.Errorf("before decode: %w", err)
	}

	img, err := formats.Load(path, report.FileType.Format, r.Options.AutoOrient)
	if err != nil {
		return result, err
	}

	canvas, err := r.Compositor.Composite(img, report.Display, r.Config, r.Flags)
	if err != nil {
		return result, fmt.Errorf("failed to compose %s: %w", filepath.Base(path), err)
	}

	bounds := canvas.Bounds()
	result.Width, result.Height = bounds.Dx(), bounds.Dy()

	if err := work.Err(); err != nil {
		return result, fmt.Errorf("before encode: %w", err)
	}

	opts := formats.EncodeOptions{JPEGQuality: r.Options.JPEGQuality}
	if err := formats.Save(canvas, outPath, opts); err != nil {
		return result, fmt.Errorf("failed to save %s: %w", outPath, err)
	}

	verification, err := VerifyOutput(outPath, result.Width, result.Height)
	if err != nil {
		return result, fmt.Errorf("verification failed: %w", err)
	}
	result.Verification = verification
	result.Success = verification.Success

	r.Logger.Infof("%s → %s (%dx%d)", path, outPath, result.Width, result.Height)
	return result, nil
}

func joinTags(tags []analyse.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// true for failures caused by the photo's own metadata
func IsMetadataError(err error) bool {
	return errors.Is(err, analyse.ErrMetadataFieldMissing) || errors.Is(err, analyse.ErrMalformedTag)
}

// report of the render operation
func FormatRenderResult(result *RenderResult) string {
	var sb strings.Builder

	if len(result.MissingTags) > 0 {
		message := fmt.Sprintf("[!] Missing %d metadata fields: %s",
			len(result.MissingTags), joinTags(result.MissingTags))
		sb.WriteString(util.BRH.Render(message))
		sb.WriteString("\n")
	} else {
		message := fmt.Sprintf("[i] Metadata complete (via %s)", result.TagSource)
		sb.WriteString(util.SEC.Render(message))
		sb.WriteString("\n")
	}

	switch {
	case result.Skipped:
		sb.WriteString(util.SEC.Render("[i] Export already exists, skipped"))
		sb.WriteString("\n")
		sb.WriteString(util.NSH.Render(fmt.Sprintf("[i] %s", result.OutputPath)))
		sb.WriteString("\n")

	case result.Success:
		sb.WriteString(util.SEC.Render("✓ Frame rendered"))
		sb.WriteString("\n")

		message := fmt.Sprintf("[i] Output saved to: %s (%dx%d, %s)",
			result.OutputPath, result.Width, result.Height, result.Elapsed.Round(time.Millisecond))
		sb.WriteString(util.NSH.Render(message))
		sb.WriteString("\n")

	default:
		sb.WriteString(util.BRH.Render("[!] Rendering completed with issues..."))
		sb.WriteString("\n")

		if result.Verification != nil && !result.Verification.Success {
			sb.WriteString(FormatVerificationResult(result.Verification))
		}
	}

	return sb.String()
}
