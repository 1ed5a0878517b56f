// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/solarsim/internal/config"
)

// Init installs a text or JSON handler on stderr as the default logger.
func Init(cfg config.LoggingConfig) *slog.Logger {
	return InitWriter(os.Stderr, cfg)
}

// InitWriter is Init with an explicit destination. The terminal front end
// owns stdout and stderr, so it logs to a file instead.
func InitWriter(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	logger.Debug("logger initialized", "component", "logging", "level", cfg.Level, "json", cfg.JSON)
	return logger
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
