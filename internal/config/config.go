package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Deep           bool     `yaml:"deep"`
	FollowSymlinks bool     `yaml:"follow_symlinks"`
	Exclude        []string `yaml:"exclude"`
	Concurrency    int      `yaml:"concurrency"`
	MaxDepth       int      `yaml:"max_depth"`
	StatsDB        string   `yaml:"stats_db"`
	LogFile        string   `yaml:"log_file"`
	// Confirm asks before deleting, in the TUI and the clean command.
	Confirm bool `yaml:"confirm"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude:  []string{},
		MaxDepth: 256,
		Confirm:  true,
	}
}

// DefaultPath returns the config file location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "usbclean", "config.yaml"), nil
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Exclude slice if nil (for explicit empty lists)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth))
	}
	for _, ex := range c.Exclude {
		if ex == "" || filepath.Base(ex) != ex {
			errs = append(errs, fmt.Errorf("exclude entry %q must be a single directory name", ex))
		}
	}
	return errors.Join(errs...)
}
