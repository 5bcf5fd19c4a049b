// Package dispatch discovers simulation test scripts and runs them
// concurrently, feeding each outcome to a display as it arrives.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/AndreyAkinshin/simtest/internal/errors"
	"github.com/AndreyAkinshin/simtest/internal/logging"
	"github.com/AndreyAkinshin/simtest/internal/outcome"
	"github.com/AndreyAkinshin/simtest/internal/output"
	"github.com/AndreyAkinshin/simtest/internal/report"
	"github.com/AndreyAkinshin/simtest/internal/sim"
	"github.com/AndreyAkinshin/simtest/pkg/simtest"
)

const (
	// minJobs keeps at least one slot so Acquire can never block forever,
	// even if runtime.NumCPU() reports 0.
	minJobs = 1

	// MaxJobs caps the number of concurrent simulator processes.
	MaxJobs = 256
)

// Runner runs one script. *sim.Runner implements it.
type Runner interface {
	Run(ctx context.Context, file string, opts sim.Options) sim.Result
}

// Display receives progress for one run. *display.Display implements it.
type Display interface {
	Begin(files []string)
	Update(file string, o outcome.Outcome)
	Finish() (failed, systemErrors int)
}

// Options configures a dispatcher.
type Options struct {
	Patterns   []string // base-name globs; empty selects DefaultPattern
	Jobs       int      // concurrent simulator processes; <= 0 selects runtime.NumCPU()
	Raw        bool     // pass --raw to the simulator
	RecordDir  string   // when set, record each script to <RecordDir>/<relpath>.mp4
	ReportPath string   // when set, write a JSON report after the run
}

// Dispatcher runs every discovered script through a Runner.
type Dispatcher struct {
	runner  Runner
	display Display
	out     *output.Writer
	opts    Options
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	outcomes map[string]outcome.Outcome
}

// New creates a Dispatcher. Messages outside the display region (no tests
// found, configuration errors) are written to out.
func New(runner Runner, display Display, out *output.Writer, opts Options) *Dispatcher {
	return &Dispatcher{
		runner:  runner,
		display: display,
		out:     out,
		opts:    opts,
		logger:  logging.Discard(),
		now:     time.Now,
	}
}

// SetLogger sets the diagnostic logger.
func (d *Dispatcher) SetLogger(l *slog.Logger) {
	d.logger = logging.OrDiscard(l)
}

// Jobs returns the effective concurrency limit.
func (d *Dispatcher) Jobs() int {
	return effectiveJobs(d.opts.Jobs)
}

func effectiveJobs(jobs int) int {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return min(max(jobs, minJobs), MaxJobs)
}

// Run discovers the scripts under dir, runs them and returns the process exit
// status: 0 when no test failed and no system error occurred, 1 otherwise, or
// the configuration exit code when discovery fails.
func (d *Dispatcher) Run(ctx context.Context, dir string) int {
	files, err := Discover(dir, d.opts.Patterns)
	if err != nil {
		d.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if len(files) == 0 {
		d.out.Println("no tests found")
		return simtest.ExitSuccess
	}

	jobs := d.Jobs()
	d.logger.Debug("dispatching", "dir", dir, "files", len(files), "jobs", jobs)

	started := d.now()
	d.outcomes = make(map[string]outcome.Outcome, len(files))
	d.display.Begin(files)

	sem := semaphore.NewWeighted(int64(jobs))
	var wg sync.WaitGroup
	for _, f := range files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()
			d.complete(file, d.execute(ctx, sem, dir, file))
		}(f)
	}
	wg.Wait()

	failed, systemErrors := d.display.Finish()
	elapsed := d.now().Sub(started)
	d.logger.Debug("run finished", "failed", failed, "system_errors", systemErrors, "elapsed", elapsed)

	status := simtest.ExitSuccess
	if failed+systemErrors > 0 {
		status = simtest.ExitFailure
	}

	if d.opts.ReportPath != "" {
		r := report.Build(dir, started, elapsed, files, d.snapshot())
		if err := r.WriteFile(d.opts.ReportPath); err != nil {
			d.logger.Error("report not written", "path", d.opts.ReportPath, "error", err)
			d.out.ErrorPrefix("%v", err)
			status = simtest.ExitFailure
		}
	}
	return status
}

// execute runs one script inside a concurrency slot. It always returns an
// outcome: a cancelled wait or a panic become system failures.
func (d *Dispatcher) execute(ctx context.Context, sem *semaphore.Weighted, dir, file string) (o outcome.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("task panicked", "file", file, "panic", r)
			o = outcome.SystemFailure(fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := sem.Acquire(ctx, 1); err != nil {
		return outcome.SystemFailure("interrupted")
	}
	defer sem.Release(1)

	opts := sim.Options{Raw: d.opts.Raw}
	if d.opts.RecordDir != "" {
		path, err := RecordPath(d.opts.RecordDir, dir, file)
		if err != nil {
			return outcome.SystemFailure(err.Error())
		}
		opts.RecordPath = path
	}

	d.logger.Debug("task started", "file", file)
	res := d.runner.Run(ctx, file, opts)
	o = outcome.Classify(res)
	d.logger.Debug("task finished", "file", file, "outcome", o.Kind, "exit_code", res.ExitCode, "duration", res.Duration)
	d.logger.Log(ctx, logging.LevelTrace, "task output", "file", file, "stdout_bytes", len(res.Stdout), "stderr_bytes", len(res.Stderr))
	return o
}

// complete records o and hands it to the display. If that panics, the file
// is recorded as a system failure and the display is given one more try.
func (d *Dispatcher) complete(file string, o outcome.Outcome) {
	fault := d.deliver(file, o)
	if fault == nil {
		return
	}
	d.logger.Error("display update panicked", "file", file, "panic", fault)

	if again := d.deliver(file, outcome.SystemFailure(fmt.Sprintf("internal error: %v", fault))); again != nil {
		d.logger.Error("display update panicked again", "file", file, "panic", again)
	}
}

func (d *Dispatcher) deliver(file string, o outcome.Outcome) (fault any) {
	defer func() {
		fault = recover()
	}()
	d.record(file, o)
	d.display.Update(file, o)
	return nil
}

func (d *Dispatcher) record(file string, o outcome.Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcomes[file] = o
}

func (d *Dispatcher) snapshot() map[string]outcome.Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]outcome.Outcome, len(d.outcomes))
	for f, o := range d.outcomes {
		out[f] = o
	}
	return out
}

// RecordPath returns the video path for file: its path relative to testDir,
// with the extension replaced by .mp4, under recordDir. Parent directories
// are created.
func RecordPath(recordDir, testDir, file string) (string, error) {
	rel, err := filepath.Rel(testDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".mp4"
	path := filepath.Join(recordDir, rel)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("cannot create recording directory: %w", err)
	}
	return path, nil
}
