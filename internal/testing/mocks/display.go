package mocks

import (
	"sync"

	"github.com/AndreyAkinshin/simtest/internal/outcome"
)

// Display records the calls a dispatcher makes on its display.
type Display struct {
	mu          sync.Mutex
	begun       []string
	beginCalls  int
	updates     []string
	outcomes    map[string]outcome.Outcome
	finishCalls int
}

// NewDisplay creates a recording display.
func NewDisplay() *Display {
	return &Display{outcomes: make(map[string]outcome.Outcome)}
}

func (m *Display) Begin(files []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beginCalls++
	m.begun = append([]string(nil), files...)
}

func (m *Display) Update(file string, o outcome.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, file)
	m.outcomes[file] = o
}

// Finish aggregates the recorded outcomes the way the real display does.
func (m *Display) Finish() (failed, systemErrors int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finishCalls++
	t := outcome.Aggregate(m.begun, m.outcomes)
	return t.Failed + t.FailedRuns, t.SystemErrors
}

// Test inspection methods

// BeginCalls returns the number of times Begin was called.
func (m *Display) BeginCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beginCalls
}

// FinishCalls returns the number of times Finish was called.
func (m *Display) FinishCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finishCalls
}

// Files returns the files passed to Begin.
func (m *Display) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.begun...)
}

// Updates returns the files passed to Update, in completion order.
func (m *Display) Updates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.updates...)
}

// Outcome returns the last outcome recorded for file.
func (m *Display) Outcome(file string) (outcome.Outcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.outcomes[file]
	return o, ok
}
