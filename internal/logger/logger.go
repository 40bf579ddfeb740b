// Package logger provides a structured, context-aware logger for the
// sizing service, built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
)

// Level represents a logging level.
type Level slog.Level

// Log levels
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// TraceIDFn is an optional hook returning the trace ID for a context, so
// log lines can be correlated with spans.
type TraceIDFn func(ctx context.Context) string

// LoggerInterface is the logging surface consumed by the rest of the
// application.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

// Logger wraps slog with service naming and trace correlation.
type Logger struct {
	handler slog.Handler
	traceID TraceIDFn
}

// New creates a Logger writing JSON records to w at the given level,
// tagged with the service name. traceIDFn may be nil.
func New(w io.Writer, minLevel Level, service string, traceIDFn TraceIDFn) *Logger {
	handler := slog.Handler(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.Level(minLevel),
	}))
	if service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", service)})
	}

	return &Logger{
		handler: handler,
		traceID: traceIDFn,
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelDebug, msg, args)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelInfo, msg, args)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelWarn, msg, args)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelError, msg, args)
}

func (l *Logger) write(ctx context.Context, level slog.Level, msg string, args []any) {
	if !l.handler.Enabled(ctx, level) {
		return
	}

	if l.traceID != nil {
		if id := l.traceID(ctx); id != "" {
			args = append(args, "trace_id", id)
		}
	}

	slog.New(l.handler).Log(ctx, level, msg, args...)
}
