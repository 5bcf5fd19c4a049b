// Package testparser parses the physim raw-mode event stream.
//
// In raw mode the simulator prints one JSON object per line on stdout:
//
//	{"type":"test_pass","name":"falls"}
//	{"type":"test_fail","name":"bounces","error":"expected y > 0"}
//
// Lines that are not such objects are ordinary program output and are ignored.
package testparser

// Kind is the type tag of a test event.
type Kind string

const (
	KindPass Kind = "test_pass"
	KindFail Kind = "test_fail"
	KindSkip Kind = "test_skip"
)

// UnknownName is used for events that carry no name.
const UnknownName = "unknown"

// Valid reports whether k is a recognized event kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPass, KindFail, KindSkip:
		return true
	}
	return false
}

// TestEvent is one structured record from the event stream.
type TestEvent struct {
	Kind  Kind   `json:"type"`
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// FailedTest holds information about a single failed test.
type FailedTest struct {
	Name   string // Test name as reported by the script
	Reason string // Error detail, may be empty
}

// TestCounts holds test result counts.
type TestCounts struct {
	Passed      int
	Failed      int
	Skipped     int
	Total       int
	Parsed      bool         // true if at least one test event was counted
	FailedTests []FailedTest // details of failed tests, in event order
}

// Count folds a sequence of events into counts.
func Count(events []TestEvent) TestCounts {
	counts := TestCounts{}
	for _, ev := range events {
		switch ev.Kind {
		case KindPass:
			counts.Passed++
		case KindFail:
			counts.Failed++
			counts.FailedTests = append(counts.FailedTests, FailedTest{
				Name:   ev.Name,
				Reason: ev.Error,
			})
		case KindSkip:
			counts.Skipped++
		default:
			continue
		}
		counts.Parsed = true
	}
	counts.Total = counts.Passed + counts.Failed + counts.Skipped
	return counts
}

// Add adds another TestCounts to this one, aggregating the counts.
// The Parsed flag uses "sticky true" semantics: if any added TestCounts
// has Parsed=true, the aggregate will have Parsed=true.
func (tc *TestCounts) Add(other *TestCounts) {
	if other == nil {
		return
	}
	tc.Passed += other.Passed
	tc.Failed += other.Failed
	tc.Skipped += other.Skipped
	tc.Total += other.Total
	tc.FailedTests = append(tc.FailedTests, other.FailedTests...)
	if other.Parsed {
		tc.Parsed = true
	}
}
