package config

import (
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/simtest/internal/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvExecutable = "SIMTEST_EXECUTABLE"
	EnvJobs       = "SIMTEST_JOBS"
	EnvNoColor    = "NO_COLOR"
)

// ApplyEnv overrides cfg with values from the environment. getenv is usually
// os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if exe := strings.TrimSpace(getenv(EnvExecutable)); exe != "" {
		cfg.Executable = exe
	}
	if v := strings.TrimSpace(getenv(EnvJobs)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > MaxJobs {
			return errors.Configf("invalid %s value %q (want an integer between 0 and %d)", EnvJobs, v, MaxJobs)
		}
		cfg.Jobs = n
	}
	// Any non-empty NO_COLOR disables color, see https://no-color.org.
	if getenv(EnvNoColor) != "" {
		cfg.Color = ModeNever
	}
	return nil
}
