// Package logging provides a leveled printf-style logger on top of log/slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a log level string. Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a leveled logger. Methods take printf-style arguments.
type Logger struct {
	level *slog.LevelVar
	log   *slog.Logger
}

// New creates a logger writing text records to stderr.
func New(level Level) *Logger {
	return NewWriter(level, os.Stderr)
}

// NewWriter creates a logger writing text records to w.
func NewWriter(level Level, w io.Writer) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slogLevel())
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})
	return &Logger{level: lv, log: slog.New(h)}
}

// SetLevel sets the minimum log level. Sub-loggers created with With share it.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// With returns a logger that tags every record with component.
func (l *Logger) With(component string) *Logger {
	return &Logger{level: l.level, log: l.log.With("component", component)}
}

// Slog exposes the underlying slog logger, for libraries that accept one.
func (l *Logger) Slog() *slog.Logger {
	return l.log
}

func (l *Logger) logf(level Level, format string, args ...any) {
	lvl := level.slogLevel()
	if !l.log.Enabled(context.Background(), lvl) {
		return
	}
	l.log.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.logf(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	l.logf(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.logf(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.logf(LevelError, format, args...)
}

// discardHandler reports every level as disabled so formatting is skipped.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return &Logger{level: new(slog.LevelVar), log: slog.New(discardHandler{})}
}
