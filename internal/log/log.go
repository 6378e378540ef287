// Package log owns the slog handler configuration for the binaries. All
// packages log through the slog default logger; Setup decides what that is.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text handler at the given level ("debug", "info", "warn",
// "error") as the slog default. Unknown levels fall back to info.
func Setup(level, service string) {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	slog.SetDefault(slog.New(handler).With("service", service))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
