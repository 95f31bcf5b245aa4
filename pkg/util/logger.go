package util

import (
	"io"
	"log/slog"
	"os"
)

const serviceName = "care-package-api"

// NewLogger returns a text logger at debug level in development and a JSON
// logger at info level everywhere else. The test environment discards output.
func NewLogger(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case "test":
		handler = slog.NewTextHandler(io.Discard, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("service", serviceName)
}
