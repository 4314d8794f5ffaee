// BYZRA ⸻ internal/daemon/daemon.go
// daemon management for background framing

package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"framemark/internal/config"
	"framemark/internal/formats"
	"framemark/internal/logging"
	"framemark/internal/render"
	"framemark/internal/util"
)

// background service that frames new photos
type Daemon struct {
	config   *config.Config
	renderer *render.Renderer
	logger   *logging.Logger

	mu        sync.Mutex
	watcher   *Watcher
	cancel    context.CancelFunc
	running   bool
	startTime time.Time

	processed atomic.Int64
	errors    atomic.Int64
}

// current state of the daemon
type DaemonStatus struct {
	Running        bool
	WatchedDirs    []string
	FileTypes      []string
	ProcessedFiles int
	ErrorCount     int
	StartTime      time.Time
}

func LogPath() string {
	return filepath.Join(os.Getenv("HOME"), ".framemark/logs", "framemark-daemon.log")
}

func PIDPath() string {
	return filepath.Join(os.Getenv("HOME"), ".framemark", "daemon.pid")
}

// new daemon instance
func NewDaemon(cfg *config.Config, logger *logging.Logger) (*Daemon, error) {
	if len(cfg.Daemon.Paths) == 0 {
		return nil, fmt.Errorf("no watch paths configured ([daemon] paths)")
	}

	renderer, err := render.NewRenderer(cfg, nil, logger)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		config:   cfg,
		renderer: renderer,
		logger:   logger,
	}, nil
}

func (d *Daemon) watchOptions() WatchOptions {
	exclude := []string{".git", util.ExportDirName}
	if d.renderer.Options.OutputDir != "" {
		exclude = append(exclude, filepath.Base(d.renderer.Options.OutputDir))
	}

	return WatchOptions{
		Extensions:  formats.SupportedFormats(),
		ExcludeDirs: exclude,
		MinFileAge:  d.config.Daemon.MinAge,
		Recursive:   true,
	}
}

// renders one settled file; errors are counted & logged by the watcher
func (d *Daemon) handle(ctx context.Context, path string) error {
	if d.renderer.Options.OutputDir != "" && util.IsWithin(path, d.renderer.Options.OutputDir) {
		return nil
	}

	result, err := d.renderer.RenderFile(ctx, path)
	if err != nil {
		d.errors.Add(1)
		return err
	}

	d.processed.Add(1)
	if !result.Success {
		d.logger.Warningf("[!] Render completed with issues for %s", path)
	}
	return nil
}

func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("daemon already running")
	}

	d.logger.Info("Starting daemon")

	ctx, cancel := context.WithCancel(ctx)
	watcher, err := NewWatcher(d.config.Daemon.Paths, d.watchOptions(), func(path string) error {
		return d.handle(ctx, path)
	}, d.logger)
	if err != nil {
		cancel()
		d.logger.Errorf("[X] Failed to create watcher: %v", err)
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		cancel()
		d.logger.Errorf("[X] Failed to start watcher: %v", err)
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	d.watcher = watcher
	d.cancel = cancel
	d.running = true
	d.startTime = time.Now()
	d.logger.Info("Daemon started successfully")

	return nil
}

// halts the daemon
func (d *Daemon) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	d.logger.Info("Stopping daemon")
	d.cancel()

	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Warningf("[!] Error stopping watcher: %v", err)
		}
	}

	d.running = false
	return nil
}

// current daemon status
func (d *Daemon) Status() *DaemonStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return &DaemonStatus{Running: false}
	}

	return &DaemonStatus{
		Running:        true,
		WatchedDirs:    d.config.Daemon.Paths,
		FileTypes:      formats.SupportedFormats(),
		ProcessedFiles: int(d.processed.Load()),
		ErrorCount:     int(d.errors.Load()),
		StartTime:      d.startTime,
	}
}

// is daemon currently running?
func (d *Daemon) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}
