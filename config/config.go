// Package config provides configuration loading and management for
// vcd2wave.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete vcd2wave configuration.
type Config struct {
	Wave  WaveConfig  `yaml:"wave"`
	Watch WatchConfig `yaml:"watch"`

	// Formats maps signal paths to per-signal display format overrides
	// (b, d, u, x or X).
	Formats map[string]string `yaml:"formats,omitempty"`
}

// WaveConfig configures resampling and display.
type WaveConfig struct {
	// Chunk is the number of samples per display group (0 = one group).
	Chunk int `yaml:"chunk"`
	// StartTime is the default sampling start, in simulation ticks.
	StartTime uint64 `yaml:"start_time"`
	// EndTime is the default sampling end (0 = until end of file).
	EndTime uint64 `yaml:"end_time"`
	// Format is the default display format for multi-bit signals.
	Format string `yaml:"format"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// DebounceDelay is how long to wait for the simulator to finish
	// rewriting the dump before re-extracting.
	DebounceDelay string `yaml:"debounce_delay"`
}

// GetDebounceDelay returns the debounce delay as a duration.
func (c *WatchConfig) GetDebounceDelay() time.Duration {
	if c.DebounceDelay == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.DebounceDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Wave: WaveConfig{
			Chunk:     20,
			StartTime: 0,
			EndTime:   0, // until end of file
			Format:    "x",
		},
		Watch: WatchConfig{
			DebounceDelay: "500ms",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Wave.Chunk < 0 {
		return fmt.Errorf("wave.chunk must not be negative")
	}
	if c.Wave.EndTime != 0 && c.Wave.StartTime > c.Wave.EndTime {
		return fmt.Errorf("wave.start_time %d is after wave.end_time %d", c.Wave.StartTime, c.Wave.EndTime)
	}
	if err := validFormat(c.Wave.Format); err != nil {
		return fmt.Errorf("wave.format: %w", err)
	}
	for path, f := range c.Formats {
		if err := validFormat(f); err != nil {
			return fmt.Errorf("formats[%s]: %w", path, err)
		}
	}
	if c.Watch.DebounceDelay != "" {
		if _, err := time.ParseDuration(c.Watch.DebounceDelay); err != nil {
			return fmt.Errorf("watch.debounce_delay: %w", err)
		}
	}
	return nil
}

func validFormat(s string) error {
	switch s {
	case "", "b", "d", "u", "x", "X":
		return nil
	default:
		return fmt.Errorf("invalid display format %q (want b, d, u, x or X)", s)
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Wave.Chunk != 0 {
		c.Wave.Chunk = other.Wave.Chunk
	}
	if other.Wave.StartTime != 0 {
		c.Wave.StartTime = other.Wave.StartTime
	}
	if other.Wave.EndTime != 0 {
		c.Wave.EndTime = other.Wave.EndTime
	}
	if other.Wave.Format != "" {
		c.Wave.Format = other.Wave.Format
	}
	if other.Watch.DebounceDelay != "" {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}
	for path, f := range other.Formats {
		if c.Formats == nil {
			c.Formats = make(map[string]string)
		}
		c.Formats[path] = f
	}
}
