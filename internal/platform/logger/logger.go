// Package logger provides structured logging functionality for the application.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/cloudtask-api/internal/config"
)

// contextKey is a private type for context keys defined in this package.
type contextKey struct{}

// loggerKey is the context key under which a request-scoped logger is stored.
var loggerKey = contextKey{}

// Setup initializes and configures the application's logging system based on
// the provided configuration. It creates a structured JSON logger with the
// appropriate log level and sets it as the default logger for the application.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %q", cfg.LogLevel)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	// Set this logger as the default so the slog package functions
	// (slog.Info, slog.Error, ...) use it directly.
	slog.SetDefault(logger)

	return logger, nil
}

// WithLogger returns a new context carrying the given logger.
// Handlers use this to attach request-scoped attributes (trace IDs, actor)
// that downstream layers pick up via FromContext.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from the context, falling back to the
// process-wide default logger when none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger from the context, falling back
// to the provided default when none is set.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
