// BYZRA ⸻ internal/batch/batch.go
// folder-wide rendering over a bounded worker pool

package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"framemark/internal/formats"
	"framemark/internal/render"
	"framemark/internal/util"
)

// renders one photo; *render.Renderer in production
type Renderer interface {
	RenderFile(ctx context.Context, path string) (*render.RenderResult, error)
}

type Options struct {
	// concurrent renders, NumCPU when <= 0
	Workers int

	// called once per finished image, never concurrently
	Progress func(Item)
}

// outcome of one image
type Item struct {
	Path      string
	Result    *render.RenderResult
	Err       error
	Cancelled bool
}

type Summary struct {
	Total     int
	Rendered  int
	Skipped   int
	Failed    int
	Cancelled int
	Items     []Item // input order
	Elapsed   time.Duration
}

// renders every path, recording failures instead of stopping at them.
// once ctx is done no further image is started; running ones finish.
func Run(ctx context.Context, r Renderer, paths []string, opts Options) *Summary {
	start := time.Now()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make([]Item, len(paths))
	var mu sync.Mutex

	finish := func(i int, item Item) {
		mu.Lock()
		defer mu.Unlock()
		items[i] = item
		if opts.Progress != nil {
			opts.Progress(item)
		}
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		if ctx.Err() != nil {
			finish(i, Item{Path: path, Cancelled: true, Err: ctx.Err()})
			continue
		}

		g.Go(func() error {
			// cancelled while waiting for a free worker
			if err := ctx.Err(); err != nil {
				finish(i, Item{Path: path, Cancelled: true, Err: err})
				return nil
			}
			res, err := r.RenderFile(ctx, path)
			finish(i, Item{Path: path, Result: res, Err: err})
			return nil
		})
	}
	_ = g.Wait()

	s := &Summary{Total: len(paths), Items: items}
	for _, it := range items {
		switch {
		case it.Cancelled:
			s.Cancelled++
		case it.Err != nil:
			s.Failed++
		case it.Result != nil && it.Result.Skipped:
			s.Skipped++
		default:
			s.Rendered++
		}
	}
	s.Elapsed = time.Since(start)

	return s
}

// supported images directly inside dir, sorted by name
func ListImages(dir string) ([]string, error) {
	entries, err := util.ListDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if formats.IsSupported(filepath.Ext(name)) {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// report of the batch
func FormatSummary(s *Summary) string {
	var sb strings.Builder

	header := fmt.Sprintf("[i] %d images in %s: %d rendered, %d skipped, %d failed",
		s.Total, s.Elapsed.Round(time.Millisecond), s.Rendered, s.Skipped, s.Failed)
	if s.Cancelled > 0 {
		header += fmt.Sprintf(", %d cancelled", s.Cancelled)
	}

	if s.Failed == 0 && s.Cancelled == 0 {
		sb.WriteString(util.SEC.Render(header))
	} else {
		sb.WriteString(util.BRH.Render(header))
	}
	sb.WriteString("\n")

	for _, it := range s.Items {
		if it.Err == nil || it.Cancelled {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(util.NSH.Render(fmt.Sprintf("• %s: %v", filepath.Base(it.Path), it.Err)))
		sb.WriteString("\n")
	}

	return sb.String()
}
