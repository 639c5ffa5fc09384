// Package logger provides structured logging built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Level represents the minimum log level.
type Level slog.Level

// Supported log levels.
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// TraceIDFn returns a trace id to attach to every record, if available.
type TraceIDFn func(ctx context.Context) string

// Logger wraps slog with service metadata and trace correlation.
type Logger struct {
	handler slog.Handler
	traceID TraceIDFn
}

// New creates a Logger writing JSON records to w at the given minimum level.
// service is attached to every record; traceIDFn may be nil.
func New(w io.Writer, minLevel Level, service string, traceIDFn TraceIDFn) *Logger {
	// Rewrite the source attribute to file:line only.
	f := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			if source, ok := a.Value.Any().(*slog.Source); ok {
				v := source.File
				if idx := lastSlash(v); idx >= 0 {
					v = v[idx+1:]
				}
				a.Value = slog.StringValue(v)
				a.Key = "file"
			}
		}
		return a
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.Level(minLevel),
		ReplaceAttr: f,
	})
	attrs := []slog.Attr{{Key: "service", Value: slog.StringValue(service)}}

	return &Logger{
		handler: handler.WithAttrs(attrs),
		traceID: traceIDFn,
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, 3, msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, 3, msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, 3, msg, args...)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, 3, msg, args...)
}

func (l *Logger) write(ctx context.Context, level Level, caller int, msg string, args ...any) {
	slogLevel := slog.Level(level)
	if !l.handler.Enabled(ctx, slogLevel) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(caller, pcs[:])

	r := slog.NewRecord(time.Now(), slogLevel, msg, pcs[0])
	if l.traceID != nil {
		if id := l.traceID(ctx); id != "" {
			args = append(args, "trace_id", id)
		}
	}
	r.Add(args...)

	_ = l.handler.Handle(ctx, r)
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
