// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Logs go to stderr so command output on stdout stays machine-readable.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Init configures the default slog logger based on environment variables.
// LOG_LEVEL: debug, info, warn, error (default: warn)
// LOG_FORMAT: text, json (default: text)
func Init() {
	InitWriter(os.Stderr)
}

// InitWriter configures the default logger to write to w.
func InitWriter(w io.Writer) {
	slog.SetDefault(slog.New(newHandler(w)))
}

// InitFile redirects logging to debug.log under dir while a full-screen
// view owns the terminal. The returned closer restores stderr logging.
func InitFile(dir string) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	InitWriter(f)
	return &fileCloser{f: f}, nil
}

type fileCloser struct {
	f *os.File
}

func (c *fileCloser) Close() error {
	Init()
	return c.f.Close()
}

func newHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
// A CLI stays quiet by default, so unknown values map to warn.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
