package config

import "github.com/AndreyAkinshin/simtest/internal/sim"

// Default configuration values.
const (
	DefaultDirectory = "tests"
	DefaultPattern   = "*.test.ts"
	DefaultColor     = ModeAuto
	DefaultLive      = ModeAuto
	DefaultLogLevel  = "info"
)

// Modes accepted by color and live.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// applyDefaults fills in default values for unset configuration fields.
// Jobs stays 0, which the dispatcher resolves to the CPU count.
func applyDefaults(cfg *Config) {
	if cfg.Executable == "" {
		cfg.Executable = sim.DefaultExecutable
	}
	if cfg.Directory == "" {
		cfg.Directory = DefaultDirectory
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{DefaultPattern}
	}
	if cfg.Raw == nil {
		raw := true
		cfg.Raw = &raw
	}
	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	if cfg.Live == "" {
		cfg.Live = DefaultLive
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}
