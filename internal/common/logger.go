package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ParseLevel maps a logging.level flag value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q: %w", level, ErrInvalidConfig)
}

// NewLogger builds a logger writing to w. Format is "console" for
// human-readable text or "json" for machine-readable records.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: parsed,
	}

	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q: %w", format, ErrInvalidConfig)
	}

	return slog.New(handler), nil
}

// SetupLogger configures the process-wide default logger from the logging
// flags. Invalid values surface as configuration errors before any stage runs.
func SetupLogger(level, format string) error {
	logger, err := NewLogger(os.Stderr, level, format)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	return nil
}
