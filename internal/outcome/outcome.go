// Package outcome classifies simulator results and aggregates them into
// run totals.
package outcome

import (
	"fmt"
	"strings"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/AndreyAkinshin/simtest/internal/sim"
	"github.com/AndreyAkinshin/simtest/internal/testparser"
	"github.com/AndreyAkinshin/simtest/pkg/simtest"
)

// Kind identifies the outcome variant.
type Kind int

const (
	// KindOK means the simulator exited 0; the result is in the events.
	KindOK Kind = iota
	// KindSystemFailure means the host environment could not run the script.
	KindSystemFailure
	// KindProcessFailure means the simulator exited non-zero for another reason.
	KindProcessFailure
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindSystemFailure:
		return "system_failure"
	case KindProcessFailure:
		return "process_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the classified result for one script.
type Outcome struct {
	Kind     Kind
	Events   []testparser.TestEvent // KindOK only
	Message  string                 // failure detail, empty for KindOK
	ExitCode int
	Duration time.Duration
}

// OK builds a successful outcome.
func OK(events []testparser.TestEvent) Outcome {
	return Outcome{Kind: KindOK, Events: events}
}

// SystemFailure builds a system-level failure outcome.
func SystemFailure(message string) Outcome {
	return Outcome{Kind: KindSystemFailure, Message: message, ExitCode: sim.LaunchFailure}
}

// ProcessFailure builds a failed-run outcome.
func ProcessFailure(exitCode int, message string) Outcome {
	return Outcome{Kind: KindProcessFailure, Message: message, ExitCode: exitCode}
}

// Counts returns the test counts carried by the outcome. Only OK outcomes
// carry tests.
func (o Outcome) Counts() testparser.TestCounts {
	if o.Kind != KindOK {
		return testparser.TestCounts{}
	}
	return testparser.Count(o.Events)
}

// Empty reports whether an OK outcome reported no tests at all.
func (o Outcome) Empty() bool {
	return o.Kind == KindOK && !o.Counts().Parsed
}

// Passed reports whether the script counts as passing: it exited 0, reported
// at least one test, and no test failed.
func (o Outcome) Passed() bool {
	if o.Kind != KindOK {
		return false
	}
	c := o.Counts()
	return c.Parsed && c.Failed == 0
}

// IsSystemExitCode reports whether code denotes a system-level failure:
// one of the simulator's reserved codes, or a launch failure.
func IsSystemExitCode(code int) bool {
	return code == sim.LaunchFailure || simtest.IsSystemExitCode(code)
}

// Classify maps a raw simulator result to an outcome.
func Classify(res sim.Result) Outcome {
	var o Outcome
	switch {
	case IsSystemExitCode(res.ExitCode):
		o = Outcome{
			Kind:    KindSystemFailure,
			Message: messageOr(res.Stderr, fmt.Sprintf("system failure (exit code %d)", res.ExitCode)),
		}
	case res.ExitCode == 0:
		o = OK(testparser.Parse(res.Stdout))
	default:
		o = Outcome{
			Kind:    KindProcessFailure,
			Message: messageOr(res.Stderr, fmt.Sprintf("process exited with code %d", res.ExitCode)),
		}
	}
	o.ExitCode = res.ExitCode
	o.Duration = res.Duration
	return o
}

// messageOr returns the cleaned stderr text, or fallback when it is empty.
func messageOr(stderr, fallback string) string {
	msg := strings.TrimSpace(stripansi.Strip(stderr))
	if msg == "" {
		return fallback
	}
	return msg
}
