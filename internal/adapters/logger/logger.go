// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/dexmgr/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	level    *slog.LevelVar
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr at info level.
func New() *Logger {
	l := &Logger{
		level:  &slog.LevelVar{},
		output: os.Stderr,
	}
	l.level.Set(slog.LevelInfo)
	l.logger = slog.New(l.newHandler())
	return l
}

// SetOutput updates the logger's output destination.
// It preserves the current JSON mode setting.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandler())
}

// SetJSON switches between JSON and pretty logging.
// The output destination is preserved from SetOutput calls.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.newHandler())
}

// SetLevel changes the minimum level that is written.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// newHandler must be called with mu held.
func (l *Logger) newHandler() slog.Handler {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, opts)
	}
	return NewPrettyHandler(l.output, opts)
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with its cause chain and metadata.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		args := []any{"error", err.Error()}
		for _, entry := range collectErrorEntries(err) {
			for _, key := range sortedKeys(entry.Metadata) {
				args = append(args, key, entry.Metadata[key])
			}
		}
		l.logger.Error("operation failed", args...)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}
