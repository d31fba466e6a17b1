package logger

import (
	"log/slog"
	"strings"
)

// Log formats accepted by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// New builds the process logger: Cloud Run JSON on stdout, or tint text on
// stderr when format is "text". Unknown levels fall back to info.
func New(level, format string) *slog.Logger {
	return slog.New(HandlerFor(format)(ParseLevel(level)))
}

// HandlerFor picks the handler constructor for a log format.
func HandlerFor(format string) func(slog.Level) slog.Handler {
	if strings.EqualFold(format, FormatText) {
		return NewTintHandler
	}
	return func(level slog.Level) slog.Handler { return NewCloudRunHandler(level) }
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
