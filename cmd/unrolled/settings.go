package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const envPrefix = "UNROLLED"

// Settings of the demonstration driver, loaded from UNROLLED_* environment variables.
type Settings struct {
	Capacity         int    `mapstructure:"capacity" default:"4"`
	LogLevel         string `mapstructure:"log_level" default:"info"`
	StressWorkers    int    `mapstructure:"stress_workers"`
	StressOperations int    `mapstructure:"stress_operations" default:"1000"`
	Metrics          bool   `mapstructure:"metrics"`
}

func (s *Settings) Validate() error {
	if s.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", s.Capacity)
	}
	if s.StressWorkers < 0 {
		return fmt.Errorf("stress workers must not be negative, got %d", s.StressWorkers)
	}
	if s.StressWorkers > 0 && s.StressOperations <= 0 {
		return fmt.Errorf("stress operations must be positive, got %d", s.StressOperations)
	}
	return nil
}

func newLogger(out io.Writer, levelName string) (*zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", levelName, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if out == nil {
		out = os.Stderr
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &logger, nil
}
