// Package config provides YAML configuration for clonekit.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/fsutil"
	"github.com/jvs-project/clonekit/pkg/logging"
	"github.com/jvs-project/clonekit/pkg/model"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "clonekit.yaml"

// Config represents the clonekit configuration.
type Config struct {
	Engine  string        `yaml:"engine" json:"engine"`
	Fsync   bool          `yaml:"fsync" json:"fsync"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// MetricsConfig controls the metrics dump after a command.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine: string(model.EngineAuto),
		Fsync:  true,
		Logging: LoggingConfig{
			Level: string(logging.LevelInfo),
		},
	}
}

// Load reads configuration from path.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errclass.ErrConfigInvalid.WithMessage(path).WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fsutil.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks that enumerated values are known.
func (c *Config) Validate() error {
	if _, err := model.ParseEngineType(c.Engine); err != nil {
		return errclass.ErrConfigInvalid.WithMessage("engine").WithCause(err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return errclass.ErrConfigInvalid.WithMessage("logging.level").WithCause(err)
	}
	return nil
}

// EngineType returns the parsed engine setting.
func (c *Config) EngineType() model.EngineType {
	t, err := model.ParseEngineType(c.Engine)
	if err != nil {
		return model.EngineAuto
	}
	return t
}

// Get returns the string form of a configuration key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "engine":
		return c.Engine, nil
	case "fsync":
		return strconv.FormatBool(c.Fsync), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "metrics.enabled":
		return strconv.FormatBool(c.Metrics.Enabled), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set assigns a configuration key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "engine":
		t, err := model.ParseEngineType(value)
		if err != nil {
			return err
		}
		c.Engine = string(t)
	case "fsync", "metrics.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "fsync" {
			c.Fsync = b
		} else {
			c.Metrics.Enabled = b
		}
	case "logging.level":
		lvl, err := logging.ParseLevel(value)
		if err != nil {
			return err
		}
		c.Logging.Level = string(lvl)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
