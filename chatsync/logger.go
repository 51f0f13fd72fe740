package chatsync

import "log/slog"

// Logger is a minimal logging interface accepted by the SDK.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// noopLogger discards all logs.
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]any) {}
func (noopLogger) Info(string, map[string]any)  {}
func (noopLogger) Warn(string, map[string]any)  {}
func (noopLogger) Error(string, map[string]any) {}

// NewSlogLogger adapts a *slog.Logger to the Logger interface.
// Passing nil uses slog.Default().
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l}
}

type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, fields map[string]any) { s.l.Debug(msg, attrs(fields)...) }
func (s slogLogger) Info(msg string, fields map[string]any)  { s.l.Info(msg, attrs(fields)...) }
func (s slogLogger) Warn(msg string, fields map[string]any)  { s.l.Warn(msg, attrs(fields)...) }
func (s slogLogger) Error(msg string, fields map[string]any) { s.l.Error(msg, attrs(fields)...) }

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
