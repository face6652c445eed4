package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Logger wraps slog with a component name and the process session id.
type Logger struct {
	inner     *slog.Logger
	component string
}

// Options selects the handler and minimum level
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Format is text or json. Empty means text.
	Format string
}

var (
	sessionID     string
	sessionIDOnce sync.Once
)

// SessionID returns the id shared by every logger of this process
func SessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// ParseLevel maps a level name to a slog.Level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// New creates a logger for component writing to w (os.Stderr if nil).
// Unknown levels fall back to info.
func New(component string, w io.Writer, opts Options) *Logger {
	if w == nil {
		w = os.Stderr
	}
	level, _ := ParseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return NewWithHandler(component, h)
}

// NewWithHandler creates a logger on a custom handler
func NewWithHandler(component string, h slog.Handler) *Logger {
	return &Logger{
		inner:     slog.New(h).With(slog.String("session", SessionID())),
		component: component,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New("discard", io.Discard, Options{Level: "error"})
}

// Component returns a child logger tagged with another component name
func (l *Logger) Component(name string) *Logger {
	return &Logger{inner: l.inner, component: name}
}

// With returns a child logger carrying an extra field
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{inner: l.inner.With(slog.Any(key, value)), component: l.component}
}

func (l *Logger) args(args []any) []any {
	return append([]any{slog.String("component", l.component)}, args...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, l.args(args)...)
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, l.args(args)...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, l.args(args)...)
}

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	l.inner.Error(msg, l.args(args)...)
}
