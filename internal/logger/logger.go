// Package logger provides structured logging for tripmap.
// The interactive screen owns stdout, so logs normally go to a file.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to w. Development gets a text handler at
// debug level, anything else JSON at info.
func New(env string, w io.Writer) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// OpenFile opens (or creates) an append-only log file, creating its directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}

// With returns a logger with extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// ProviderCall logs one search provider round trip.
func (l *Logger) ProviderCall(provider, mode, query string, page, results int, latency time.Duration) {
	l.Info("provider_call",
		slog.String("provider", provider),
		slog.String("mode", mode),
		slog.String("query", query),
		slog.Int("page", page),
		slog.Int("results", results),
		slog.Float64("latency_ms", float64(latency.Microseconds())/1000),
	)
}

// HTTPCall logs a backend request.
func (l *Logger) HTTPCall(method, url string, status int, latency time.Duration, requestID string) {
	l.Info("http_call",
		slog.String("method", method),
		slog.String("url", url),
		slog.Int("status", status),
		slog.Float64("latency_ms", float64(latency.Microseconds())/1000),
		slog.String("request_id", requestID),
	)
}

// Submission logs the terminal state of a submission attempt.
func (l *Logger) Submission(state, endpoint, message string) {
	if strings.HasPrefix(state, "rejected") {
		l.Warn("submission",
			slog.String("state", state),
			slog.String("endpoint", endpoint),
			slog.String("message", message),
		)
		return
	}
	l.Info("submission",
		slog.String("state", state),
		slog.String("endpoint", endpoint),
	)
}
