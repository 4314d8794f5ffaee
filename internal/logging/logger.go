// BYZRA ⸻ internal/logging/logger.go
// leveled activity logging shared by the cli, batch runner & daemon

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// severity of log entries
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// timestamped line logger, safe for concurrent use
//
// a nil *Logger discards everything, so library code can log
// without checking whether the caller configured one
type Logger struct {
	mu          sync.Mutex
	out         io.Writer
	logFile     *os.File
	level       LogLevel
	initialized bool
	path        string
}

// file backed logger (appends)
func NewLogger(logPath string, level LogLevel) (*Logger, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		out:         logFile,
		logFile:     logFile,
		level:       level,
		initialized: true,
		path:        logPath,
	}, nil
}

// logger writing to an arbitrary stream (stderr for --verbose, buffers in tests)
func NewWriterLogger(w io.Writer, level LogLevel) *Logger {
	return &Logger{
		out:         w,
		level:       level,
		initialized: true,
	}
}

// parses "debug", "info", "warning"/"warn", "error"
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// writes a message to the log with timestamp
func (l *Logger) Log(level LogLevel, message string) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		return fmt.Errorf("logger not initialized")
	}

	if level < l.level {
		return nil // skip those below threshold
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	levelStr := getLevelString(level)
	logLine := fmt.Sprintf("[%s] %s: %s\n", timestamp, levelStr, message)

	_, err := io.WriteString(l.out, logLine)
	return err
}

// debug logs
func (l *Logger) Debug(message string) error {
	return l.Log(LevelDebug, message)
}

// info logs
func (l *Logger) Info(message string) error {
	return l.Log(LevelInfo, message)
}

// warning logs
func (l *Logger) Warning(message string) error {
	return l.Log(LevelWarning, message)
}

// error logs
func (l *Logger) Error(message string) error {
	return l.Log(LevelError, message)
}

func (l *Logger) Debugf(format string, args ...any) error {
	return l.Log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) error {
	return l.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) error {
	return l.Log(LevelWarning, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) error {
	return l.Log(LevelError, fmt.Sprintf(format, args...))
}

// close properly
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.closeLocked()
}

func (l *Logger) closeLocked() error {
	if !l.initialized {
		return nil
	}

	l.initialized = false
	if l.logFile == nil {
		return nil
	}

	err := l.logFile.Close()
	l.logFile = nil
	l.out = nil
	return err
}

// new log file and archives the old one
func (l *Logger) Rotate() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()

	if !l.initialized {
		l.mu.Unlock()
		return fmt.Errorf("logger not initialized")
	}

	if l.path == "" {
		l.mu.Unlock()
		return fmt.Errorf("logger is not file backed")
	}

	if err := l.closeLocked(); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to close log file: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	newPath := fmt.Sprintf("%s.%s", l.path, timestamp)
	if err := os.Rename(l.path, newPath); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	logFile, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to create new log file: %w", err)
	}

	l.logFile = logFile
	l.out = logFile
	l.initialized = true
	l.mu.Unlock()

	// log rotation
	return l.Info(fmt.Sprintf("Log rotated, previous log saved as %s", newPath))
}

// converts log level 2 string
func getLevelString(level LogLevel) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
