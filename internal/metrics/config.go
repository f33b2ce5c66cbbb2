// Package metrics samples the host metrics attached to a stats submission.
package metrics

import (
	"fmt"
	"log/slog"
)

// Network counter sources.
const (
	SourceGopsutil = "gopsutil"
	SourceNetlink  = "netlink"
)

// Config selects which host metrics are sampled.
type Config struct {
	// Network enables the received-bytes delta.
	Network bool

	// CPU enables the CPU load reading.
	CPU bool

	// Memory enables the active memory and memory load readings.
	Memory bool

	// Source selects where network counters come from.
	// Default: "gopsutil"
	Source string
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Source == "" {
		c.Source = SourceGopsutil
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.Source != SourceGopsutil && c.Source != SourceNetlink {
		return fmt.Errorf("metrics: config: invalid source %q (must be %q or %q)", c.Source, SourceGopsutil, SourceNetlink)
	}
	return nil
}

// NewReader returns the SystemReader for the configured source.
func NewReader(cfg Config, logger *slog.Logger) (SystemReader, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Source == SourceNetlink {
		r, err := NewNetlinkReader(logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return NewGopsutilReader(logger), nil
}
