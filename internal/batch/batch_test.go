package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framemark/internal/render"
)

// records concurrency; paths named in fail error out, in skip are skipped
type fakeRenderer struct {
	fail    map[string]bool
	skip    map[string]bool
	delay   time.Duration
	running atomic.Int32
	peak    atomic.Int32

	mu       sync.Mutex
	calls    []string
	lateRuns []string // started with ctx already done
}

func (f *fakeRenderer) RenderFile(ctx context.Context, path string) (*render.RenderResult, error) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, path)
	if ctx.Err() != nil {
		f.lateRuns = append(f.lateRuns, path)
	}
	f.mu.Unlock()

	time.Sleep(f.delay)

	if f.fail[path] {
		return &render.RenderResult{SourcePath: path}, errors.New("boom")
	}
	return &render.RenderResult{SourcePath: path, Success: true, Skipped: f.skip[path]}, nil
}

func TestRunSkipsAndReports(t *testing.T) {
	r := &fakeRenderer{
		fail: map[string]bool{"b.jpg": true},
		skip: map[string]bool{"c.jpg": true},
	}

	var progressed []string
	s := Run(context.Background(), r, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, Options{
		Workers:  2,
		Progress: func(it Item) { progressed = append(progressed, it.Path) },
	})

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Rendered)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, progressed, 4)

	require.Len(t, s.Items, 4)
	assert.Equal(t, "b.jpg", s.Items[1].Path)
	assert.EqualError(t, s.Items[1].Err, "boom")

	out := FormatSummary(s)
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "b.jpg: boom")
}

func TestRunBoundsConcurrency(t *testing.T) {
	r := &fakeRenderer{delay: 20 * time.Millisecond}
	paths := make([]string, 12)
	for i := range paths {
		paths[i] = filepath.Join("x", string(rune('a'+i))+".jpg")
	}

	s := Run(context.Background(), r, paths, Options{Workers: 3})

	assert.Equal(t, 12, s.Rendered)
	assert.LessOrEqual(t, r.peak.Load(), int32(3))
	assert.Len(t, r.calls, 12)
}

func TestRunStopsSchedulingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &fakeRenderer{delay: 5 * time.Millisecond}

	paths := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}
	s := Run(ctx, r, paths, Options{
		Workers: 1,
		Progress: func(it Item) {
			if it.Path == "a.jpg" {
				cancel()
			}
		},
	})

	assert.Empty(t, r.lateRuns)
	assert.Zero(t, s.Failed)
	assert.Equal(t, []string{"a.jpg"}, r.calls)
	assert.Equal(t, 1, s.Rendered)
	assert.Equal(t, 4, s.Cancelled)
	for _, it := range s.Items {
		if it.Cancelled {
			assert.ErrorIs(t, it.Err, context.Canceled)
		}
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.JPG", "a.png", "notes.txt", ".hidden.jpg", "c.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "export.jpg"), 0755))

	paths, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		filepath.Join(dir, "c.webp"),
	}, paths)

	_, err = ListImages(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
