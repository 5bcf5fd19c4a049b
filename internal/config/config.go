// Package config provides configuration loading and validation for simtest.yaml.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/simtest/internal/errors"
	"github.com/AndreyAkinshin/simtest/internal/schema"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "simtest.yaml"

// Config represents the complete simtest.yaml configuration.
type Config struct {
	Executable string   `yaml:"executable,omitempty"`
	Directory  string   `yaml:"directory,omitempty"`
	Patterns   []string `yaml:"patterns,omitempty"`
	Jobs       int      `yaml:"jobs,omitempty"`
	Raw        *bool    `yaml:"raw,omitempty"`
	RecordDir  string   `yaml:"record_dir,omitempty"`
	Report     string   `yaml:"report,omitempty"`
	Color      string   `yaml:"color,omitempty"`
	Live       string   `yaml:"live,omitempty"`
	LogLevel   string   `yaml:"log_level,omitempty"`
}

// RawEnabled reports whether the simulator should be run with --raw.
func (c *Config) RawEnabled() bool {
	return c.Raw == nil || *c.Raw
}

// Parse decodes YAML configuration data. The document is checked against the
// embedded JSON schema before it is decoded into a Config. source names the
// data in error messages.
func Parse(data []byte, source string) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &errors.Error{
			Kind:    errors.KindConfig,
			Message: fmt.Sprintf("failed to parse config: %v", err),
			File:    source,
			Cause:   err,
		}
	}
	if doc == nil {
		// An empty file is an empty configuration.
		doc = map[string]any{}
	}

	if err := schema.ValidateConfigValue(doc); err != nil {
		return nil, errors.Validation(source, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &errors.Error{
			Kind:    errors.KindConfig,
			Message: fmt.Sprintf("failed to decode config: %v", err),
			File:    source,
			Cause:   err,
		}
	}
	return &cfg, nil
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.Error{
			Kind:    errors.KindConfig,
			Message: fmt.Sprintf("failed to read config file: %v", err),
			File:    path,
			Cause:   err,
		}
	}
	return Parse(data, path)
}

// LoadAndValidate reads the configuration, applies defaults and validates the
// result. When explicit is false a missing file is not an error and yields
// the default configuration.
func LoadAndValidate(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	switch {
	case err == nil:
	case !explicit && stderrors.Is(err, fs.ErrNotExist):
		return Default(), nil
	default:
		return nil, err
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, errors.Validation(path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
