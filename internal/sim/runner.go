// Package sim invokes the physim simulator as an external process.
//
// Every invocation produces a Result. Launch failures, crashes and non-zero
// exits are all reported as data; nothing in this package returns an error
// for a failed simulator run.
package sim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/AndreyAkinshin/simtest/internal/logging"
)

// DefaultExecutable is the simulator binary looked up in PATH.
const DefaultExecutable = "physim"

// LaunchFailure is the exit code reported when the simulator could not be
// started or waited for.
const LaunchFailure = -1

// Options controls a single "run" invocation.
type Options struct {
	Raw        bool   // request the newline-delimited JSON event protocol
	RecordPath string // when non-empty, record the simulation to this mp4 path
}

// Result is the captured outcome of one simulator invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Launched reports whether the process actually started and exited on its own.
func (r Result) Launched() bool {
	return r.ExitCode != LaunchFailure
}

// Runner launches simulator processes.
type Runner struct {
	executable string
	env        []string
	logger     *slog.Logger
}

// NewRunner creates a runner for the given executable.
// An empty executable selects DefaultExecutable.
func NewRunner(executable string) *Runner {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &Runner{
		executable: executable,
		logger:     logging.Discard(),
	}
}

// SetLogger sets the diagnostic logger.
func (r *Runner) SetLogger(l *slog.Logger) {
	r.logger = logging.OrDiscard(l)
}

// SetEnv adds KEY=VALUE pairs to the inherited environment.
func (r *Runner) SetEnv(env []string) {
	r.env = env
}

// Executable returns the configured simulator executable.
func (r *Runner) Executable() string {
	return r.executable
}

// BuildRunArgs constructs the argument vector (without the executable) for
// running one script.
func BuildRunArgs(file string, opts Options) []string {
	args := []string{"run"}
	if opts.Raw {
		args = append(args, "--raw")
	}
	if opts.RecordPath != "" {
		args = append(args, "--record", opts.RecordPath)
	}
	return append(args, file)
}

// Run executes one script and waits for it to finish.
func (r *Runner) Run(ctx context.Context, file string, opts Options) Result {
	return r.Command(ctx, "", BuildRunArgs(file, opts)...)
}

// Command runs the simulator with arbitrary arguments in dir (the current
// directory when empty) and captures its output.
func (r *Runner) Command(ctx context.Context, dir string, args ...string) (res Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = r.unexpected(fmt.Errorf("%v", p))
		}
		res.Duration = time.Since(start)
	}()

	cmd := exec.CommandContext(ctx, r.executable, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("starting simulator", "exe", r.executable, "args", strings.Join(args, " "), "dir", dir)

	err := cmd.Run()
	res = Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode == LaunchFailure {
			// Killed by a signal, usually the context being cancelled.
			res.Stderr = joinMessage(res.Stderr, fmt.Sprintf("%s terminated: %v", r.executable, exitErr))
		}
	case errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist):
		return Result{
			ExitCode: LaunchFailure,
			Stderr:   fmt.Sprintf("%s command not found. Is it installed and in PATH?", r.executable),
		}
	default:
		return r.unexpected(err)
	}

	r.logger.Log(ctx, logging.LevelTrace, "simulator exited",
		"exe", r.executable, "exit_code", res.ExitCode,
		"stdout_bytes", len(res.Stdout), "stderr_bytes", len(res.Stderr))
	return res
}

func (r *Runner) unexpected(err error) Result {
	return Result{
		ExitCode: LaunchFailure,
		Stderr:   fmt.Sprintf("Unexpected error running %s: %v", r.executable, err),
	}
}

func joinMessage(existing, extra string) string {
	existing = strings.TrimRight(existing, "\n")
	if existing == "" {
		return extra
	}
	return existing + "\n" + extra
}
