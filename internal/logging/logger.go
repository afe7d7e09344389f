// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zap implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "driver", driver)
type Logger interface {
	// Debug logs verbose diagnostics, normally disabled.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Options selects and tunes a Logger implementation.
type Options struct {
	Format string // "slog" (JSON to stdout) or "zap"
	Level  string // debug, info, warn, error
	File   string // zap only: rotated log file, empty for console only
}

// New builds the Logger described by opts. The returned io.Closer flushes
// buffered output and must be closed on shutdown.
func New(opts Options) (Logger, io.Closer, error) {
	switch strings.ToLower(opts.Format) {
	case "", "slog":
		h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseSlogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h)), nopCloser{}, nil
	case "zap":
		z, err := NewZapLogger(opts.Level, opts.File)
		if err != nil {
			return nil, nil, err
		}
		return z, z, nil
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
