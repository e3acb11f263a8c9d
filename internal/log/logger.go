package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger is the interface for QuantaGraph logging
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
	Enabled(level slog.Level) bool
}

// logger wraps slog.Logger
type logger struct {
	slog *slog.Logger
}

type runIDKey struct{}

// Log levels, re-exported so callers need not import log/slog.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	// Default logger instance
	defaultLogger Logger
)

func init() {
	// Planning output goes to stdout, so diagnostics default to stderr.
	defaultLogger = NewJSONLogger(os.Stderr, slog.LevelInfo)
}

// SetDefault sets the default logger
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the default logger
func Default() Logger {
	return defaultLogger
}

// New creates a new logger with the given handler
func New(handler slog.Handler) Logger {
	return &logger{slog: slog.New(handler)}
}

// Discard returns a logger that drops every record.
func Discard() Logger {
	return New(slog.DiscardHandler)
}

// NewTextLogger creates a new text logger writing to w
func NewTextLogger(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a new JSON logger writing to w
func NewJSONLogger(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return New(slog.NewJSONHandler(w, opts))
}

func (l *logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

func (l *logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

func (l *logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

func (l *logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

func (l *logger) With(args ...any) Logger {
	return &logger{slog: l.slog.With(args...)}
}

// WithContext attaches the planning run id stored in ctx, if any.
func (l *logger) WithContext(ctx context.Context) Logger {
	if id, ok := RunIDFromContext(ctx); ok {
		return l.With(RunID(id))
	}
	return l
}

func (l *logger) Enabled(level slog.Level) bool {
	return l.slog.Enabled(context.Background(), level)
}

// ContextWithRunID returns a context carrying the id of a planning run.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the planning run id stored in ctx.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// Helper functions for structured logging

// String returns a string attribute
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns an int attribute
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Float64 returns a float64 attribute
func Float64(key string, value float64) slog.Attr {
	return slog.Float64(key, value)
}

// Bool returns a bool attribute
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns a duration attribute
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

// Any returns an any attribute
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an error attribute
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Variable tags a record with the pattern variable being planned.
func Variable(name string) slog.Attr {
	return slog.String("variable", name)
}

// Operator tags a record with a leaf operator name.
func Operator(name string) slog.Attr {
	return slog.String("operator", name)
}

// RunID tags a record with a planning run id.
func RunID(id string) slog.Attr {
	return slog.String("run_id", id)
}

// Latency logs how long an operation took at debug level.
func Latency(l Logger, start time.Time, operation string) {
	l.Debug("operation completed",
		String("operation", operation),
		Duration("latency", time.Since(start)),
	)
}
