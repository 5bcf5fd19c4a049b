// Package report builds the machine-readable summary of a run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AndreyAkinshin/simtest/internal/errors"
	"github.com/AndreyAkinshin/simtest/internal/outcome"
	"github.com/AndreyAkinshin/simtest/internal/testparser"
)

// File status values.
const (
	StatusPassed         = "passed"
	StatusFailed         = "failed"
	StatusNoTests        = "no_tests"
	StatusProcessFailure = "process_failure"
	StatusSystemFailure  = "system_failure"
	StatusMissing        = "missing"
)

// File is the result of one script.
type File struct {
	File       string                 `json:"file"`
	Status     string                 `json:"status"`
	DurationMS int64                  `json:"duration_ms"`
	ExitCode   *int                   `json:"exit_code,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Events     []testparser.TestEvent `json:"events"`
}

// Summary mirrors the totals printed at the end of a run.
type Summary struct {
	Files        int `json:"files"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
	Skipped      int `json:"skipped"`
	Total        int `json:"total"`
	FailedRuns   int `json:"failed_runs"`
	SystemErrors int `json:"system_errors"`
}

// Report is the JSON document written by --report.
type Report struct {
	Directory  string    `json:"directory"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Files      []File    `json:"files"`
	Summary    Summary   `json:"summary"`
}

// Build assembles a report. Files appear in the given order.
func Build(dir string, started time.Time, elapsed time.Duration, files []string, outcomes map[string]outcome.Outcome) *Report {
	r := &Report{
		Directory:  dir,
		StartedAt:  started.UTC(),
		DurationMS: elapsed.Milliseconds(),
		Files:      make([]File, 0, len(files)),
	}

	for _, f := range files {
		o, ok := outcomes[f]
		if !ok {
			r.Files = append(r.Files, File{File: f, Status: StatusMissing, Events: []testparser.TestEvent{}})
			continue
		}

		code := o.ExitCode
		entry := File{
			File:       f,
			Status:     status(o),
			DurationMS: o.Duration.Milliseconds(),
			ExitCode:   &code,
			Message:    o.Message,
			Events:     o.Events,
		}
		if entry.Events == nil {
			entry.Events = []testparser.TestEvent{}
		}
		r.Files = append(r.Files, entry)
	}

	t := outcome.Aggregate(files, outcomes)
	r.Summary = Summary{
		Files:        t.Files,
		Passed:       t.Passed,
		Failed:       t.Failed,
		Skipped:      t.Skipped,
		Total:        t.Total,
		FailedRuns:   t.FailedRuns,
		SystemErrors: t.SystemErrors,
	}
	return r
}

func status(o outcome.Outcome) string {
	switch o.Kind {
	case outcome.KindSystemFailure:
		return StatusSystemFailure
	case outcome.KindProcessFailure:
		return StatusProcessFailure
	}
	switch {
	case o.Empty():
		return StatusNoTests
	case o.Passed():
		return StatusPassed
	default:
		return StatusFailed
	}
}

// WriteFile writes the report as indented JSON, creating parent directories.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to marshal report: %v", err))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, fmt.Sprintf("failed to create report directory: %v", err))
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to write report: %v", err))
	}
	return nil
}
