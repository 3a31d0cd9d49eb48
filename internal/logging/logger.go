package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the structured logger shared by handlers, services and the
// request middleware.
type Logger struct {
	*slog.Logger
}

// NewLogger writes human-readable text in development and JSON otherwise.
func NewLogger(isDevelopment bool) *Logger {
	return NewLoggerWithWriter(os.Stdout, isDevelopment)
}

func NewLoggerWithWriter(w io.Writer, isDevelopment bool) *Logger {
	if isDevelopment {
		return &Logger{slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	}
	return &Logger{slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// WithFields returns a child logger that always includes the given fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{l.Logger.With(args...)}
}
