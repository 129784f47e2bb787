// Package config holds the run configuration: defaults, an optional YAML
// file, and validation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Mode selects the driver.
type Mode string

const (
	// ModeConcurrent runs each side on its own goroutine.
	ModeConcurrent Mode = "concurrent"
	// ModeLockstep interleaves both sides on one goroutine by virtual time.
	ModeLockstep Mode = "lockstep"
)

// Config is one verification run.
type Config struct {
	Capacity         int           `yaml:"capacity"`
	Width            int           `yaml:"width"` // payload bits
	ProducerPeriod   time.Duration `yaml:"producer_period"`
	ConsumerPeriod   time.Duration `yaml:"consumer_period"`
	PhaseOffset      time.Duration `yaml:"phase_offset"` // consumer start delay
	Seed             uint64        `yaml:"seed"`         // 0 derives one from the clock
	Mode             Mode          `yaml:"mode"`
	Timeout          time.Duration `yaml:"timeout"` // 0 for none
	ProgressInterval time.Duration `yaml:"progress_interval"`
	LogLevel         string        `yaml:"log_level"`
	TraceDepth       int           `yaml:"trace_depth"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Capacity:         8,
		Width:            16,
		Mode:             ModeConcurrent,
		Timeout:          time.Minute,
		ProgressInterval: time.Second,
		LogLevel:         "info",
		TraceDepth:       64,
	}
}

// Load reads a YAML file over the defaults. Fields missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if c.Capacity < 1 || c.Capacity&(c.Capacity-1) != 0 {
		return fmt.Errorf("%w: capacity %d is not a positive power of two", ErrInvalid, c.Capacity)
	}
	if c.Width < 1 || c.Width > 64 {
		return fmt.Errorf("%w: width %d outside 1..64", ErrInvalid, c.Width)
	}
	if c.ProducerPeriod < 0 || c.ConsumerPeriod < 0 || c.PhaseOffset < 0 {
		return fmt.Errorf("%w: negative period or offset", ErrInvalid)
	}
	switch c.Mode {
	case ModeConcurrent, ModeLockstep:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalid)
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("%w: progress interval must be positive", ErrInvalid)
	}
	if c.TraceDepth < 0 {
		return fmt.Errorf("%w: negative trace depth", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// ResolveSeed returns Seed, or a clock-derived seed when Seed is 0.
func (c Config) ResolveSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}
