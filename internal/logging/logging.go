// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel maps a level name to a slog.Level. "warning" is accepted for warn.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// New returns a tint-backed logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}))
}

// Setup installs a logger as the slog default and returns it. An unknown level
// falls back to info and is reported through the new logger.
func Setup(w io.Writer, level string, noColor bool) *slog.Logger {
	lvl, err := ParseLevel(level)
	logger := New(w, lvl, noColor)
	slog.SetDefault(logger)
	if err != nil {
		logger.Warn("falling back to info logging", "error", err)
	}
	return logger
}
