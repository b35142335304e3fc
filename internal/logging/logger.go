// Package logging defines the context-aware structured logger used across
// the uploader and the server, with slog and zap backends.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Info(ctx, "uploaded", "key", key, "bucket", bucket)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

// Output formats accepted by New.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatConsole = "console"
)

// New builds a Logger writing to w. json and text use log/slog, console uses
// zap's development encoder.
func New(format string, debug bool, w io.Writer) (Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case FormatJSON, "":
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, opts))), nil
	case FormatText:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, opts))), nil
	case FormatConsole:
		return NewZapConsoleLogger(debug, w), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
