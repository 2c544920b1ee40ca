package sched

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"
)

// AnchorLayout is the format of the anchor date in config files and flags.
const AnchorLayout = "2006-01-02"

// Config mirrors projsched.yaml
type Config struct {
	DateLayout  string `yaml:"date_layout"`  // 02-Jan-2006 (by default)
	MaxDepth    int    `yaml:"max_depth"`    // 1024 (by default)
	MaxDuration int    `yaml:"max_duration"` // 36500 days (by default and at most)
	Anchor      string `yaml:"anchor"`       // empty = now
	LogLevel    string `yaml:"log_level"`    // warn (by default)
}

// DefaultConfig is used when no config file is found.
func DefaultConfig() Config {
	return Config{
		DateLayout:  DefaultDateLayout,
		MaxDepth:    DefaultMaxDepth,
		MaxDuration: DefaultMaxDuration,
		LogLevel:    "warn",
	}
}

// Load reads YAML and overrides defaults; empty path or a missing file
// means defaults only. A file that exists but does not parse is an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := cfg.AnchorTime(); err != nil {
		return DefaultConfig(), err
	}

	cfg.normalize()
	return cfg, nil
}

// AnchorTime returns the configured anchor date at local midnight,
// or the zero time when none is configured.
func (c Config) AnchorTime() (time.Time, error) {
	if c.Anchor == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(AnchorLayout, c.Anchor, time.Local)
	if err != nil {
		return time.Time{}, &InvalidInputError{Field: "anchor", Value: c.Anchor, Err: err}
	}
	return t, nil
}

// Clock returns a FixedClock for a configured anchor, the system clock otherwise.
func (c Config) Clock() (Clock, error) {
	anchor, err := c.AnchorTime()
	if err != nil {
		return nil, err
	}
	if anchor.IsZero() {
		return SystemClock{}, nil
	}
	return FixedClock{T: anchor}, nil
}

// sanity clamps
func (c *Config) normalize() {
	if c.DateLayout == "" {
		c.DateLayout = DefaultDateLayout
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxDuration <= 0 || c.MaxDuration > DefaultMaxDuration {
		c.MaxDuration = DefaultMaxDuration
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}
