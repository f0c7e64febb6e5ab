// Package config loads litebird settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v2"

	"github.com/ha1tch/litebird/parser"
)

// Config holds the settings shared by the command line tool and library
// callers that want file based configuration.
type Config struct {
	MaxDepth     int    `yaml:"max_depth"`
	StopOnError  bool   `yaml:"stop_on_error"`
	LogLevel     string `yaml:"log_level"`
	VerifySQLite bool   `yaml:"verify_sqlite"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MaxDepth: parser.DefaultMaxDepth,
		LogLevel: "warn",
	}
}

// Load reads a YAML config file. An empty path yields Default(). Unknown
// keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Level returns the configured log level, defaulting to warn.
func (c Config) Level() hclog.Level {
	if lvl := hclog.LevelFromString(c.LogLevel); lvl != hclog.NoLevel {
		return lvl
	}
	return hclog.Warn
}

// ParserOptions converts the config into parser options.
func (c Config) ParserOptions(logger hclog.Logger) parser.Options {
	return parser.Options{
		MaxDepth:    c.MaxDepth,
		StopOnError: c.StopOnError,
		Logger:      logger,
	}
}
