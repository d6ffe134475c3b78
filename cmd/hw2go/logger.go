package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"hw2go/internal/diagnostic"
)

// newLogger creates a logger without touching the global one.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level

	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

func parseSeverity(s string) (diagnostic.Severity, error) {
	for _, sev := range []diagnostic.Severity{diagnostic.Info, diagnostic.Warning, diagnostic.Error, diagnostic.Internal} {
		if strings.EqualFold(s, sev.String()) {
			return sev, nil
		}
	}

	return 0, fmt.Errorf("unknown severity %q, want info, warning, error or internal", s)
}
