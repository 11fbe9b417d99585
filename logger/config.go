package logger

import (
	"fmt"
	"slices"
	"strings"
)

var (
	validLevels    = []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}
	validEncodings = []string{"json", "console"}
)

// Config is the configuration for the logger
type Config struct {
	// Level, debug, info, warn, error, dpanic, panic, fatal
	// default: "info"
	Level string `mapstructure:"level"`
	// Encoding, json or console
	// default: "json"
	Encoding string `mapstructure:"encoding"`
	// Output paths
	// default: []string{"stdout"}
	OutputPaths []string `mapstructure:"output_paths"`
	// Error output paths
	// default: []string{"stderr"}
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// DefaultConfig returns the default configuration for the logger
// It is used to initialize the logger when no configuration is provided
func DefaultConfig() *Config {
	return &Config{
		Level:            "info",
		Encoding:         "json",
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// MergeDefaults fills empty fields with default values and
// returns the merged configuration
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Level == "" {
		c.Level = defaults.Level
	}
	if c.Encoding == "" {
		c.Encoding = defaults.Encoding
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = defaults.OutputPaths
	}
	if len(c.ErrorOutputPaths) == 0 {
		c.ErrorOutputPaths = defaults.ErrorOutputPaths
	}
	return c
}

// Validate validates the configuration for the logger
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Level) {
		return ErrInvalidLevel(c.Level, fmt.Errorf("must be one of: %s", strings.Join(validLevels, ", ")))
	}
	if !slices.Contains(validEncodings, c.Encoding) {
		return ErrInvalidEncoding(c.Encoding)
	}
	return nil
}
