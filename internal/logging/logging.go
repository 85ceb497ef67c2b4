// Package logging builds the zerolog logger shared by the CLI and the
// canvas components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/matsen/blueprint/internal/config"
)

// Defaults applied to an empty config.
const (
	DefaultLevel  = "warn"
	DefaultFormat = "console"
)

// New returns a logger configured from cfg. The returned closer releases a
// log file when Output names one; it is a no-op otherwise.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	levelName := cfg.Level
	if levelName == "" {
		levelName = DefaultLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level '%s': %w", cfg.Level, err)
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
	case "stdout":
		out = os.Stdout
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("opening log file '%s': %w", cfg.Output, err)
		}
		out, closer = f, f
	}

	return NewWriter(out, cfg.Format, level), closer, nil
}

// NewWriter returns a logger writing to w in the given format ("json" or
// "console") at the given level.
func NewWriter(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if format == "" {
		format = DefaultFormat
	}
	if strings.ToLower(format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
