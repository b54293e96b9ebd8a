// Package logging configures the structured logger shared by the CLI, the path
// finder and the path store.
//
// It is a thin layer over log/slog: pick a level and a format, get a
// *slog.Logger back. Logs go to stderr so that stdout stays reserved for move
// listings and JSON output.
//
//	logger := logging.New(logging.Config{Level: logging.LevelDebug, Service: "knights"})
//	logger.Debug("search complete", "moves", 6)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents log severity levels, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
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

func (l Level) toSlogLevel() slog.Level {
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

// ParseLevel accepts the level names used in config files and flags,
// case-insensitively. "warning" is accepted as an alias for "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Config configures New. A zero Config logs Info and above as text to stderr.
type Config struct {
	Level Level

	// JSON switches the handler from text to JSON lines.
	JSON bool

	// Service is attached to every record as the "service" attribute when set.
	Service string

	// Output overrides stderr. Tests point it at a buffer.
	Output io.Writer
}

func New(config Config) *slog.Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}
	return slog.New(handler)
}

// Default returns an Info level text logger on stderr tagged "knights".
func Default() *slog.Logger {
	return New(Config{Level: LevelInfo, Service: "knights"})
}
