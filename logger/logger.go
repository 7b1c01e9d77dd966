// Package logger sets up the structured logger of the lots command.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
// Unknown names give slog.LevelWarn and false.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning", "":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelWarn, false
	}
}

// New returns a text logger writing to w at the named level. Times are
// dropped, the output is meant for a terminal.
func New(w io.Writer, levelName string) *slog.Logger {
	level, ok := ParseLevel(levelName)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}
	l := slog.New(slog.NewTextHandler(w, opts))
	if !ok {
		l.Warn("invalid log level, defaulting to warn", "configuredLevel", levelName)
	}
	return l
}

// Init creates the logger like New and installs it as the slog default.
func Init(w io.Writer, levelName string) *slog.Logger {
	l := New(w, levelName)
	slog.SetDefault(l)
	return l
}
