// Package config loads the settings used to assemble a locator and host it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Container kinds understood by bootstrap.
const (
	ContainerGolobby = "golobby"
	ContainerDig     = "dig"
)

// Environment variables that override file settings.
const (
	EnvContainer = "LOCATOR_CONTAINER"
	EnvLogLevel  = "LOCATOR_LOG_LEVEL"
	EnvAddr      = "LOCATOR_ADDR"
)

// Config is the top-level configuration document.
type Config struct {
	Container string        `yaml:"container"`
	Logging   LoggingConfig `yaml:"logging"`
	Server    ServerConfig  `yaml:"server"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Environment string `yaml:"environment"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Container: ContainerGolobby,
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "console",
			Environment: "development",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Parse decodes a YAML document over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Load reads path, applies environment overrides and validates the result.
// An empty path loads the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}

		cfg, err = Parse(data)
		if err != nil {
			return Config{}, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvContainer); ok && v != "" {
		c.Container = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}

	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs error

	switch strings.ToLower(c.Container) {
	case ContainerGolobby, ContainerDig:
	default:
		errs = multierr.Append(errs, fmt.Errorf("container must be %q or %q, got %q", ContainerGolobby, ContainerDig, c.Container))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		errs = multierr.Append(errs, fmt.Errorf("logging.level %q is not supported", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		errs = multierr.Append(errs, fmt.Errorf("logging.format must be 'console' or 'json', got %q", c.Logging.Format))
	}

	if c.Server.Addr == "" {
		errs = multierr.Append(errs, errors.New("server.addr is required"))
	}

	return errs
}
