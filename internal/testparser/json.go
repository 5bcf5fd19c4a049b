package testparser

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Parse extracts test events from raw-mode simulator output.
// Non-protocol lines are skipped; event order follows line order.
func Parse(output string) []TestEvent {
	return ParseReader(strings.NewReader(output))
}

// ParseReader is Parse over a stream. Lines of any length are accepted.
func ParseReader(r io.Reader) []TestEvent {
	var events []TestEvent
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if ev, ok := ParseLine(line); ok {
			events = append(events, ev)
		}
		if err != nil {
			// io.EOF or a read error: either way there is nothing more to decode.
			break
		}
	}

	return events
}

// ParseLine decodes a single line. It returns false for blank lines,
// invalid JSON, non-object values, and objects without a recognized "type".
func ParseLine(line string) (TestEvent, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '{' {
		return TestEvent{}, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return TestEvent{}, false
	}

	var kind string
	if err := json.Unmarshal(raw["type"], &kind); err != nil || !Kind(kind).Valid() {
		return TestEvent{}, false
	}

	ev := TestEvent{
		Kind: Kind(kind),
		Name: stringField(raw, "name"),
	}
	if ev.Name == "" {
		ev.Name = UnknownName
	}
	ev.Error = stringField(raw, "error")
	return ev, true
}

// stringField returns the field as a string. Non-string scalars and objects
// are kept in their JSON form so no detail is lost.
func stringField(raw map[string]json.RawMessage, key string) string {
	msg, ok := raw[key]
	if !ok || len(msg) == 0 || string(msg) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return string(msg)
}
