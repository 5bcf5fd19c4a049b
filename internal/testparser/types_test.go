package testparser

import (
	"reflect"
	"testing"
)

func TestKindValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindPass, true},
		{KindFail, true},
		{KindSkip, true},
		{"log", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("Kind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	events := []TestEvent{
		{Kind: KindPass, Name: "a"},
		{Kind: KindFail, Name: "b", Error: "boom"},
		{Kind: KindSkip, Name: "c"},
		{Kind: KindFail, Name: "d"},
		{Kind: "log", Name: "ignored"},
	}

	got := Count(events)

	want := TestCounts{
		Passed:  1,
		Failed:  2,
		Skipped: 1,
		Total:   4,
		Parsed:  true,
		FailedTests: []FailedTest{
			{Name: "b", Reason: "boom"},
			{Name: "d"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Count() = %#v, want %#v", got, want)
	}
}

func TestCount_Empty(t *testing.T) {
	got := Count(nil)
	if got.Parsed {
		t.Error("Parsed should be false for no events")
	}
	if got.Total != 0 {
		t.Errorf("Total = %d, want 0", got.Total)
	}
}

func TestTestCountsAdd_NilReceiver(t *testing.T) {
	t.Parallel()
	// Document that nil receiver panics (standard Go behavior)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on nil receiver, got none")
		}
	}()

	var tc *TestCounts
	tc.Add(&TestCounts{Passed: 1})
}

func TestTestCountsAdd(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		base     TestCounts
		add      *TestCounts
		expected TestCounts
	}{
		{
			name:     "add to zero",
			base:     TestCounts{},
			add:      &TestCounts{Passed: 10, Failed: 2, Skipped: 3, Total: 15, Parsed: true},
			expected: TestCounts{Passed: 10, Failed: 2, Skipped: 3, Total: 15, Parsed: true},
		},
		{
			name:     "add to existing",
			base:     TestCounts{Passed: 5, Failed: 1, Skipped: 2, Total: 8, Parsed: true},
			add:      &TestCounts{Passed: 10, Failed: 2, Skipped: 3, Total: 15, Parsed: true},
			expected: TestCounts{Passed: 15, Failed: 3, Skipped: 5, Total: 23, Parsed: true},
		},
		{
			name:     "add nil",
			base:     TestCounts{Passed: 5, Failed: 1, Skipped: 2, Total: 8, Parsed: true},
			add:      nil,
			expected: TestCounts{Passed: 5, Failed: 1, Skipped: 2, Total: 8, Parsed: true},
		},
		{
			name:     "add parsed to unparsed",
			base:     TestCounts{Passed: 5, Parsed: false},
			add:      &TestCounts{Passed: 10, Parsed: true},
			expected: TestCounts{Passed: 15, Parsed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base := tt.base
			base.Add(tt.add)

			if base.Passed != tt.expected.Passed {
				t.Errorf("Passed: got %d, want %d", base.Passed, tt.expected.Passed)
			}
			if base.Failed != tt.expected.Failed {
				t.Errorf("Failed: got %d, want %d", base.Failed, tt.expected.Failed)
			}
			if base.Skipped != tt.expected.Skipped {
				t.Errorf("Skipped: got %d, want %d", base.Skipped, tt.expected.Skipped)
			}
			if base.Total != tt.expected.Total {
				t.Errorf("Total: got %d, want %d", base.Total, tt.expected.Total)
			}
			if base.Parsed != tt.expected.Parsed {
				t.Errorf("Parsed: got %v, want %v", base.Parsed, tt.expected.Parsed)
			}
		})
	}
}
