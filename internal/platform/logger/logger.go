// Package logger provides structured logging for the simulation server.
// Every ledger movement, tier change and corporate event should be traceable through this.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides structured logging with context.
type Logger struct {
	base *slog.Logger
}

// NewLogger creates a logger writing text records to stdout at info level.
func NewLogger() *Logger {
	return New(os.Stdout, "info")
}

// New creates a logger writing to w, filtering below the named level.
func New(w io.Writer, level string) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{base: slog.New(handler)}
}

// Discard returns a logger that drops everything. Used by tests and headless runs.
func Discard() *Logger {
	return New(io.Discard, "error")
}

// ParseLevel maps a config string onto a slog level. Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Info logs informational messages.
func (l *Logger) Info(msg string, args ...any) {
	l.base.Info(msg, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string, args ...any) {
	l.base.Warn(msg, args...)
}

// Error logs error messages.
func (l *Logger) Error(msg string, args ...any) {
	l.base.Error(msg, args...)
}

// Debug logs verbose diagnostics.
func (l *Logger) Debug(msg string, args ...any) {
	l.base.Debug(msg, args...)
}

// Event logs a specific simulation occurrence with its originating component.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.base.Info("event", "type", eventType, "actor", actorID, "details", details)
}

// Slog exposes the underlying structured logger for libraries that want one.
func (l *Logger) Slog() *slog.Logger {
	return l.base
}
