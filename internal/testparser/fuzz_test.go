package testparser

import (
	"strings"
	"testing"
)

// FuzzParse tests the event parser with arbitrary input.
// Run: go test -fuzz=FuzzParse -fuzztime=30s ./internal/testparser
func FuzzParse(f *testing.F) {
	seeds := []string{
		`{"type":"test_pass","name":"a"}`,
		`{"type":"test_fail","name":"b","error":"boom"}`,
		"noise\n{\"type\":\"test_skip\"}\nmore noise",
		"",
		"\n",
		"{",
		"}",
		`{"type":`,
		`{"type":"test_pass","name":"` + strings.Repeat("x", 10000) + `"}`,
		"\x00\x01\x02{\"type\":\"test_pass\"}",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		events := Parse(input)

		// Never more events than lines.
		if lines := strings.Count(input, "\n") + 1; len(events) > lines {
			t.Errorf("got %d events from %d lines", len(events), lines)
		}

		for _, ev := range events {
			if !ev.Kind.Valid() {
				t.Errorf("invalid kind %q returned", ev.Kind)
			}
			if ev.Name == "" {
				t.Error("empty name returned")
			}
		}

		counts := Count(events)
		if counts.Total != len(events) {
			t.Errorf("Count total = %d, want %d", counts.Total, len(events))
		}
	})
}
