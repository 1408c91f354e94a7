package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide JSON logger. Components scope it with
// logger.With("component", ...).
func NewLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}
