package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/daqconf/internal/compiler"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DescriptionPath string // .hcl, .yaml or .yml file or directory
	OutputDir       string

	LogFormat string
	LogLevel  string
	// Force replaces an existing output directory.
	Force bool

	Compile compiler.Options
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DescriptionPath == "" {
		return nil, errors.New("DescriptionPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OutputDir is a required configuration field and cannot be empty")
	}

	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if p := cfg.Compile.Network.BasePort; p < 0 || p > 65535 {
		return nil, fmt.Errorf("invalid base port %d", p)
	}
	if p := cfg.Compile.Commands.BootBasePort; p < 0 || p > 65535 {
		return nil, fmt.Errorf("invalid boot port %d", p)
	}

	return &cfg, nil
}
