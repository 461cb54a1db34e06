/*
Package logging configures structured logging for fwblob.

Diagnostics go to stderr in text form so stdout stays reserved for the
report. When a log directory is configured, records are also written as
JSON to a size-rotated file managed by lumberjack.
*/
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created inside the log directory.
const FileName = "fwblob.log"

// Config holds logging configuration.
type Config struct {
	// LogDir is the directory for log files. If empty, file logging is disabled.
	LogDir string
	// Verbose enables DEBUG-level logging. Default is WARN.
	Verbose bool
	// Stderr receives text output; nil means os.Stderr.
	Stderr io.Writer
}

// Setup creates a logger that writes to stderr and optionally to a rotated
// log file. Returns the logger and a cleanup function to close the file.
func Setup(cfg Config) (logger *slog.Logger, cleanup func()) {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})

	if cfg.LogDir == "" {
		return slog.New(stderrHandler), func() {}
	}

	if err := os.MkdirAll(cfg.LogDir, 0o750); err != nil {
		slog.New(stderrHandler).Warn("failed to create log directory, file logging disabled",
			"dir", cfg.LogDir,
			"error", err,
		)
		return slog.New(stderrHandler), func() {}
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, FileName),
		MaxSize:    1, // MB per file
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	// The file always records at least INFO so build history is kept.
	fileLevel := slog.LevelInfo
	if cfg.Verbose {
		fileLevel = slog.LevelDebug
	}
	fileHandler := slog.NewJSONHandler(lj, &slog.HandlerOptions{Level: fileLevel})

	multi := &multiHandler{
		handlers: []slog.Handler{stderrHandler, fileHandler},
	}

	return slog.New(multi), func() { _ = lj.Close() }
}

// multiHandler fans out log records to multiple slog.Handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
