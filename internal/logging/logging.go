// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Setup installs the default slog logger according to the configured level
// and format. Format "auto" picks text when stderr is a TTY and json
// otherwise, so interactive runs stay readable and service logs stay
// parseable.
func Setup(level, format string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	switch resolveFormat(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func resolveFormat(format string) string {
	if strings.ToLower(format) != "auto" {
		return strings.ToLower(format)
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		return "text"
	}

	return "json"
}
