package outcome

import (
	"time"

	"github.com/AndreyAkinshin/simtest/internal/testparser"
	"github.com/AndreyAkinshin/simtest/pkg/simtest"
)

// Totals is the fold of every outcome in a run.
type Totals struct {
	Files        int // discovered scripts
	Passed       int
	Failed       int // failing tests
	Skipped      int
	Total        int           // reported tests
	FailedRuns   int           // scripts that crashed or reported no tests
	SystemErrors int           // scripts with a system failure or no outcome at all
	Missing      int           // scripts that never reported an outcome
	Duration     time.Duration // sum of per-script run times
}

// Aggregate folds the outcomes of files into totals. Scripts in files with no
// entry in outcomes count as Missing and as system errors.
func Aggregate(files []string, outcomes map[string]Outcome) Totals {
	t := Totals{Files: len(files)}
	counts := testparser.TestCounts{}

	for _, f := range files {
		o, ok := outcomes[f]
		if !ok {
			t.Missing++
			t.SystemErrors++
			continue
		}
		t.Duration += o.Duration

		switch o.Kind {
		case KindSystemFailure:
			// Events emitted before a system failure are not credited.
			t.SystemErrors++
		case KindProcessFailure:
			// Events emitted before a crash are not credited either.
			t.FailedRuns++
		case KindOK:
			c := o.Counts()
			if !c.Parsed {
				t.FailedRuns++
				continue
			}
			counts.Add(&c)
		}
	}

	t.Passed = counts.Passed
	t.Failed = counts.Failed
	t.Skipped = counts.Skipped
	t.Total = counts.Total
	return t
}

// OK reports whether the run had no failures and no system errors.
func (t Totals) OK() bool {
	return t.Failed+t.FailedRuns+t.SystemErrors == 0
}

// ExitCode returns the process exit status for the run.
func (t Totals) ExitCode() int {
	if t.OK() {
		return simtest.ExitSuccess
	}
	return simtest.ExitFailure
}
