package logger

import (
	"log/slog"
	"strings"
)

// New builds a logger at the named level, tagged with the service that emits it.
func New(level, service string, handler func(level slog.Level) slog.Handler) *slog.Logger {
	h := handler(getSlogLevel(level))
	log := slog.New(h)
	if service != "" {
		log = log.With("service", service)
	}
	return log
}

// ---- Helpers ----
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
