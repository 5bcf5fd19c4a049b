// Package simtest provides public constants for tools integrating with simtest
// and with the physim simulator it drives.
package simtest

// Exit codes returned by the simtest CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every discovered script ran with no failing test
	// and no system error.
	ExitSuccess = 0

	// ExitFailure indicates at least one failing test, failed run or system error.
	ExitFailure = 1

	// ExitConfigError indicates a configuration or usage error.
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (simulator missing, etc.).
	ExitEnvError = 3
)

// Exit codes reported by the physim simulator that denote a system-level
// failure rather than a failed assertion. The values follow sysexits.h.
const (
	// SimExitDataErr is returned when the script itself could not be loaded
	// (missing entry point, type check or build failure).
	SimExitDataErr = 65

	// SimExitUnavailable is returned when a host resource needed by the
	// simulator is unavailable (ffmpeg, output file, etc.).
	SimExitUnavailable = 69

	// SimExitSoftware is returned on an internal simulator error.
	SimExitSoftware = 70
)

// IsSystemExitCode reports whether code is one of the simulator's reserved
// system-failure exit codes.
func IsSystemExitCode(code int) bool {
	switch code {
	case SimExitDataErr, SimExitUnavailable, SimExitSoftware:
		return true
	}
	return false
}
