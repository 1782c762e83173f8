package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"log/slog"

	"github.com/yuzolabs/pixelprobe/internal/config"
)

// New shapes slog for the probe. Handlers write to stderr because stdout is
// reserved for the case report.
func New(cfg config.LoggingConfig) (*slog.Logger, error) {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter builds the logger against an explicit writer for tests.
func NewWithWriter(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("logging: unsupported level %q", cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	return slog.New(handler).With(slog.String("component", "pixelprobe")), nil
}
