// Package logging provides the logger interface used across the application
// and its zerolog-backed implementation.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger takes a message followed by alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config selects level, format and destination.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	// File enables a size-rotated log file instead of stderr.
	File       string
	MaxSizeMB  int
	MaxFiles   int
	MaxAgeDays int
}

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	mu  sync.RWMutex
	zl  zerolog.Logger
	out io.Closer
}

// New builds a logger from cfg.
func New(cfg Config) *ZeroLogger {
	var out io.Writer = os.Stderr
	var closer io.Closer

	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxFiles,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = lj
		closer = lj
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: cfg.File != ""}
	}

	l := NewWithWriter(out, cfg.Level)
	l.out = closer
	return l
}

// NewWithWriter builds a JSON logger writing to w.
func NewWithWriter(w io.Writer, level string) *ZeroLogger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zl := zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(level))
	return &ZeroLogger{zl: zl}
}

// SetLevel changes the minimum level; used on config reload.
func (l *ZeroLogger) SetLevel(level string) {
	l.mu.Lock()
	l.zl = l.zl.Level(ParseLevel(level))
	l.mu.Unlock()
}

// Close releases the log file, if any.
func (l *ZeroLogger) Close() error {
	if l.out == nil {
		return nil
	}
	return l.out.Close()
}

func (l *ZeroLogger) Debug(msg string, args ...any) { l.emit(zerolog.DebugLevel, msg, args) }
func (l *ZeroLogger) Info(msg string, args ...any)  { l.emit(zerolog.InfoLevel, msg, args) }
func (l *ZeroLogger) Warn(msg string, args ...any)  { l.emit(zerolog.WarnLevel, msg, args) }
func (l *ZeroLogger) Error(msg string, args ...any) { l.emit(zerolog.ErrorLevel, msg, args) }

func (l *ZeroLogger) emit(level zerolog.Level, msg string, args []any) {
	l.mu.RLock()
	zl := l.zl
	l.mu.RUnlock()

	ev := zl.WithLevel(level)
	if ev == nil {
		return
	}
	if len(args)%2 == 1 {
		args = append(args, "(MISSING)")
	}
	if len(args) > 0 {
		ev = ev.Fields(args)
	}
	ev.Msg(msg)
}

// ParseLevel maps a level name to zerolog; unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }
