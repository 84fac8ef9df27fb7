// Package logging bootstraps the process logger.
package logging

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidLogOutput = errors.New("logging: unknown output format")
	ErrInvalidLogLevel  = errors.New("logging: unknown level")
)

type Config struct {
	Level  string
	Output string
}

// New builds the root logger. Components derive their own with
// logger.With().Str("component", ...).
func New(cfg Config) (*zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, ErrInvalidLogLevel
	}

	var output io.Writer
	switch cfg.Output {
	case "console", "":
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	case "stderr":
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: true}
	case "json":
		output = os.Stdout
	default:
		return nil, ErrInvalidLogOutput
	}

	logger := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	return &logger, nil
}
