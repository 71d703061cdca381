package common

import (
	"log/slog"
	"os"
)

// SetupLogger installs the process-wide slog handler. Format selects
// between machine-readable JSON and human-readable console output;
// unknown formats fall back to console.
func SetupLogger(level slog.Level, format string) error {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}
