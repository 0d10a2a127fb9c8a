// Package logging builds the zerolog logger used by the commands.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Output formats accepted in Config.Format.
const (
	// FormatConsole writes human readable lines through zerolog.ConsoleWriter.
	FormatConsole = "console"
	// FormatJSON writes one JSON object per event.
	FormatJSON = "json"
)

// Config contains logging configuration.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate validates logging configuration.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Format) {
	case FormatConsole, FormatJSON:
		return nil
	}

	return fmt.Errorf("log.format must be one of [%s %s] (got: %s)", FormatConsole, FormatJSON, c.Format)
}

// New creates a logger writing to w.
func New(cfg Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if strings.ToLower(cfg.Format) == FormatConsole {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w})
	} else {
		zl = zerolog.New(w)
	}

	return zl.Level(level).With().Timestamp().Logger()
}
