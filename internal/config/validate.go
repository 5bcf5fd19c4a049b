package config

import (
	"fmt"
	"path/filepath"
)

// MaxJobs is the largest accepted jobs value.
const MaxJobs = 256

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks semantic constraints the schema cannot express, and
// re-checks the ones that environment variables and flags can break.
func Validate(cfg *Config) error {
	if cfg.Jobs < 0 || cfg.Jobs > MaxJobs {
		return &ValidationError{Field: "jobs", Message: fmt.Sprintf("must be between 0 and %d", MaxJobs)}
	}
	for _, p := range cfg.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return &ValidationError{Field: "patterns", Message: fmt.Sprintf("invalid pattern %q", p)}
		}
	}
	if err := validateMode("color", cfg.Color); err != nil {
		return err
	}
	if err := validateMode("live", cfg.Live); err != nil {
		return err
	}
	switch cfg.LogLevel {
	case "error", "warn", "info", "debug", "trace":
	default:
		return &ValidationError{Field: "log_level", Message: `must be one of "error", "warn", "info", "debug", "trace"`}
	}
	return nil
}

func validateMode(field, value string) error {
	switch value {
	case ModeAuto, ModeAlways, ModeNever:
		return nil
	}
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be %q, %q or %q", ModeAuto, ModeAlways, ModeNever)}
}
