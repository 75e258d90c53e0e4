package diag

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the thin structured-logging facade the orchestrator logs
// through (spec.md §7 "ambient" logging). It
// wraps log/slog directly rather than introducing a logging
// dependency of its own: none of the teacher's or the pack's
// third-party libraries is a general-purpose application logger, and
// tliron/commonlog is present only as glsp's own internal transport
// logging, not something this module's own stages should borrow.
type Logger struct {
	inner *slog.Logger
}

// NewLogger wraps slog's default text handler writing to stderr. debug
// controls whether Debug-level stage messages are emitted.
func NewLogger(debug bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(handler)}
}

// NewDiscardLogger returns a Logger that drops everything, for tests
// and callers that don't want stage logging on stderr.
func NewDiscardLogger() *Logger {
	return &Logger{inner: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// Diagnostic logs d at the slog level matching its Severity, rendered
// through Diagnostic.Render so log output and CLI/report output agree.
func (l *Logger) Diagnostic(d Diagnostic) {
	if d.Severity == SeverityWarning {
		l.Warn(d.Render())
		return
	}
	l.Error(d.Render())
}
