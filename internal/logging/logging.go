// Package logging configures the process-wide structured logger for forge.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls how the logger is built.
type Config struct {
	Level      string
	Structured bool
	Format     string // "json" or "text"
	ExtraFields map[string]string
}

// Configure builds a slog.Logger from cfg, sets it as the process default,
// and returns it so callers can thread it explicitly into components.
func Configure(cfg Config) *slog.Logger {
	level := parseLevel(cfg.Level)
	out := io.Writer(os.Stderr)

	attrs := make([]slog.Attr, 0, len(cfg.ExtraFields))
	for k, v := range cfg.ExtraFields {
		attrs = append(attrs, slog.String(k, v))
	}

	var handler slog.Handler
	if cfg.Structured && strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
