// Package logger provides a small structured logging facade backed by zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger output.
type Config struct {
	// Level is one of debug, info, warn, error or disabled.
	Level string
	// Format is json or console.
	Format string
	Output io.Writer
}

var (
	mu sync.RWMutex

	// Logger is the global logger instance.
	Logger = newLogger(Config{Level: "info", Format: "console", Output: os.Stderr})
)

// Init replaces the global logger.
func Init(cfg Config) {
	l := newLogger(cfg)
	mu.Lock()
	Logger = l
	mu.Unlock()
}

func newLogger(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05", NoColor: cfg.Output != os.Stderr}
	}
	return zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// OpenFile opens (creating if needed) an append-only log file.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return Logger
}

// Error logs an error message.
func Error(msg string, args ...any) {
	l := current()
	emit(l.Error(), msg, args)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	l := current()
	emit(l.Info(), msg, args)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	l := current()
	emit(l.Warn(), msg, args)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	l := current()
	emit(l.Debug(), msg, args)
}

// emit attaches slog-style key/value pairs to the event. A trailing key
// without a value is logged under "!BADKEY".
func emit(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			e = e.Interface("!BADKEY", args[i])
			i--
			continue
		}
		switch v := args[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case time.Duration:
			e = e.Dur(key, v)
		case time.Time:
			e = e.Time(key, v)
		case string:
			e = e.Str(key, v)
		case int:
			e = e.Int(key, v)
		case int64:
			e = e.Int64(key, v)
		case float64:
			e = e.Float64(key, v)
		case bool:
			e = e.Bool(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
