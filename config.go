package botstats

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// KeyEnv is the environment variable that overrides the key of a
// configuration file.
const KeyEnv = "BOTSTATS_KEY"

// FileConfig is the configuration file of a reporting bot. It is populated
// from YAML via ParseConfig.
type FileConfig struct {
	// Key is the stats API access key.
	Key string `yaml:"key"`

	// BotID identifies the bot being reported on.
	BotID string `yaml:"bot_id"`

	Options  Options        `yaml:",inline"`
	Reporter ReporterConfig `yaml:"reporter"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *FileConfig) ApplyDefaults() {
	c.Options.ApplyDefaults()
	c.Reporter.ApplyDefaults()
}

// Validate checks that required fields are set and values are acceptable.
func (c *FileConfig) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("botstats: config: key is required (or set %s)", KeyEnv)
	}
	if c.BotID == "" {
		return errors.New("botstats: config: bot_id is required")
	}
	if err := c.Options.Validate(); err != nil {
		return err
	}
	return c.Reporter.Validate()
}

// LogValue implements slog.LogValuer. The key is never logged.
func (c FileConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bot_id", c.BotID),
		slog.String("base_url", c.Options.BaseURL),
		slog.Bool("post_cpu_statistics", c.Options.PostCPUStatistics),
		slog.Bool("post_memory_statistics", c.Options.PostMemoryStatistics),
		slog.Bool("post_network_statistics", c.Options.PostNetworkStatistics),
		slog.Duration("report_interval", c.Reporter.Interval),
	)
}

// ParseConfig reads a YAML configuration file and returns a FileConfig.
// A non-empty BOTSTATS_KEY environment variable replaces the file's key.
// It applies defaults and validates the configuration.
func ParseConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("botstats: config: read %s: %w", path, err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("botstats: config: parse %s: %w", path, err)
	}
	if key := os.Getenv(KeyEnv); key != "" {
		cfg.Key = key
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewFromConfig creates a Client from a parsed configuration file.
func NewFromConfig(cfg *FileConfig, logger *slog.Logger) (*Client, error) {
	return New(cfg.Key, cfg.BotID, cfg.Options, logger)
}
