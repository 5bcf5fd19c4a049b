// Package mocks provides shared test doubles for simtest packages.
package mocks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AndreyAkinshin/simtest/internal/sim"
)

// Call records one Run invocation.
type Call struct {
	File    string
	Options sim.Options
}

// Runner stands in for the simulator. Results are looked up per file; files
// without an entry get the default result (exit 0, no output).
// Use NewRunner() to create instances with a fluent builder API.
type Runner struct {
	results map[string]sim.Result
	def     sim.Result
	delay   func(file string) time.Duration

	// RunFunc, when set, replaces the result lookup entirely.
	RunFunc func(ctx context.Context, file string, opts sim.Options) sim.Result

	// Execution tracking (thread-safe)
	runCount    int32
	inFlight    int32
	maxInFlight int32
	mu          sync.Mutex
	calls       []Call
}

// NewRunner creates a mock runner.
func NewRunner() *Runner {
	return &Runner{results: make(map[string]sim.Result)}
}

// WithResult sets the result returned for file.
func (m *Runner) WithResult(file string, res sim.Result) *Runner {
	m.results[file] = res
	return m
}

// WithStdout makes file exit 0 with the given stdout.
func (m *Runner) WithStdout(file, stdout string) *Runner {
	return m.WithResult(file, sim.Result{ExitCode: 0, Stdout: stdout})
}

// WithDefault sets the result for files without an explicit entry.
func (m *Runner) WithDefault(res sim.Result) *Runner {
	m.def = res
	return m
}

// WithDelay makes every run sleep for delay(file) before returning. The
// sleep ends early when the context is cancelled.
func (m *Runner) WithDelay(delay func(file string) time.Duration) *Runner {
	m.delay = delay
	return m
}

// WithRunFunc sets the function called by Run.
func (m *Runner) WithRunFunc(fn func(ctx context.Context, file string, opts sim.Options) sim.Result) *Runner {
	m.RunFunc = fn
	return m
}

// Run implements the dispatcher's runner interface.
func (m *Runner) Run(ctx context.Context, file string, opts sim.Options) sim.Result {
	atomic.AddInt32(&m.runCount, 1)
	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&m.maxInFlight)
		if n <= peak || atomic.CompareAndSwapInt32(&m.maxInFlight, peak, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, Call{File: file, Options: opts})
	m.mu.Unlock()

	if m.delay != nil {
		select {
		case <-time.After(m.delay(file)):
		case <-ctx.Done():
		}
	}

	if m.RunFunc != nil {
		return m.RunFunc(ctx, file, opts)
	}
	if res, ok := m.results[file]; ok {
		return res
	}
	return m.def
}

// Test inspection methods

// RunCount returns the number of times Run was called.
func (m *Runner) RunCount() int32 {
	return atomic.LoadInt32(&m.runCount)
}

// MaxInFlight returns the highest number of concurrent Run calls observed.
func (m *Runner) MaxInFlight() int32 {
	return atomic.LoadInt32(&m.maxInFlight)
}

// Calls returns the recorded invocations in call order.
func (m *Runner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]Call, len(m.calls))
	copy(result, m.calls)
	return result
}
