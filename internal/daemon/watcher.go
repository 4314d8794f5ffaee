// BYZRA ⸻ internal/daemon/watcher.go
// file system monitoring for the daemon

package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"framemark/internal/logging"
)

// processes a settled file
type FileHandler func(path string) error

// configures the watcher behavior
type WatchOptions struct {
	// extensions to monitor, leading dot optional
	Extensions []string

	// directory names never watched or processed (export folders)
	ExcludeDirs []string

	// quiet period after the last write before a file is processed
	MinFileAge time.Duration

	// watch subdirectories too?
	Recursive bool

	// files handled within this window are not handled again
	Cooldown time.Duration
}

// monitors directories for new photos
type Watcher struct {
	watcher *fsnotify.Watcher
	dirs    []string
	options WatchOptions
	handler FileHandler
	logger  *logging.Logger

	mu        sync.Mutex
	pending   map[string]*time.Timer
	processed map[string]time.Time
	running   bool

	done chan struct{}
	wg   sync.WaitGroup
}

// new file system watcher
func NewWatcher(dirs []string, options WatchOptions, handler FileHandler, logger *logging.Logger) (*Watcher, error) {
	var validDirs []string
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			logger.Warningf("Skipping invalid directory %s: %v", dir, err)
			continue
		}

		if !info.IsDir() {
			logger.Warningf("Skipping non-directory path %s", dir)
			continue
		}

		validDirs = append(validDirs, dir)
	}

	if len(validDirs) == 0 {
		return nil, fmt.Errorf("no valid directories to watch")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if options.Cooldown == 0 {
		options.Cooldown = time.Minute
	}

	return &Watcher{
		watcher:   fsWatcher,
		dirs:      validDirs,
		options:   options,
		handler:   handler,
		logger:    logger,
		pending:   make(map[string]*time.Timer),
		processed: make(map[string]time.Time),
		done:      make(chan struct{}),
	}, nil
}

// begins watching the configured directories
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	for _, dir := range w.dirs {
		if !w.options.Recursive {
			w.addDir(dir)
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				w.logger.Warningf("Error accessing path %s: %v", path, err)
				return nil // continue walking
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && w.excluded(path) {
				return filepath.SkipDir
			}
			w.addDir(path)
			return nil
		})
		if err != nil {
			w.logger.Errorf("Error walking directory %s: %v", dir, err)
		}
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.periodicCleanup()

	w.running = true
	w.logger.Info("File watcher started")

	return nil
}

func (w *Watcher) addDir(path string) {
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warningf("Failed to watch directory %s: %v", path, err)
		return
	}
	w.logger.Debugf("Watching directory: %s", path)
}

// terminates the watcher; pending files are dropped, a file already being
// handled finishes first
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()

	w.logger.Info("File watcher stopped")
	return err
}

// any path element is an excluded directory name
func (w *Watcher) excluded(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if slices.Contains(w.options.ExcludeDirs, part) {
			return true
		}
	}
	return false
}

// extension, exclusion & cooldown checks
func (w *Watcher) shouldProcessFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if len(w.options.Extensions) > 0 && !slices.ContainsFunc(w.options.Extensions, func(e string) bool {
		return strings.EqualFold(strings.TrimPrefix(e, "."), ext)
	}) {
		return false
	}

	if w.excluded(filepath.Dir(path)) {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if last, ok := w.processed[path]; ok && time.Since(last) < w.options.Cooldown {
		return false
	}
	return true
}

// (re)arms the quiet-period timer of path
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.options.MinFileAge)
		return
	}
	w.pending[path] = time.AfterFunc(w.options.MinFileAge, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	if !w.running {
		w.mu.Unlock()
		return
	}
	// added under mu, before Stop can reach wg.Wait
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	// still being written
	if age := time.Since(info.ModTime()); age < w.options.MinFileAge {
		w.schedule(path)
		return
	}

	w.logger.Debugf("Processing file: %s", path)
	if err := w.handler(path); err != nil {
		w.logger.Errorf("[X] Failed to process file %s: %v", path, err)
	} else {
		w.logger.Infof("Successfully processed file: %s", path)
	}

	w.markProcessed(path)
}

func (w *Watcher) markProcessed(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.processed[path] = time.Now()
}

// file system events
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return // watcher was closed
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			path := event.Name

			// if a new directory was created and we're in recursive mode, watch it
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				if w.options.Recursive && !w.excluded(path) {
					w.addDir(path)
				}
				continue
			}

			if w.shouldProcessFile(path) {
				w.schedule(path)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return // watcher closed
			}
			w.logger.Errorf("[X] Watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

// periodically cleans the processed files map
func (w *Watcher) periodicCleanup() {
	defer w.wg.Done()

	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.mu.Lock()
			cutoff := time.Now().Add(-time.Hour)
			for path, processed := range w.processed {
				if processed.Before(cutoff) {
					delete(w.processed, path)
				}
			}
			w.mu.Unlock()

			w.logger.Debug("Cleaned processed files cache")

		case <-w.done:
			return
		}
	}
}
