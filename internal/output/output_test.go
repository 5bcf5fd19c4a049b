package output

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	w := NewWithWriters(stdout, stderr, false)
	return w, stdout, stderr
}

func TestNew(t *testing.T) {
	w := New()
	if w == nil {
		t.Fatal("New() returned nil")
	}
	if w.out == nil {
		t.Error("out writer is nil")
	}
	if w.err == nil {
		t.Error("err writer is nil")
	}
}

func TestNew_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if New().Color() {
		t.Error("New() enabled color with NO_COLOR set")
	}
}

func TestWriter_SetQuiet(t *testing.T) {
	w, _, _ := newTestWriter()

	w.SetQuiet(true)
	if !w.quiet {
		t.Error("SetQuiet(true) did not set quiet")
	}

	w.SetQuiet(false)
	if w.quiet {
		t.Error("SetQuiet(false) did not unset quiet")
	}
}

func TestWriter_Print(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Print("hello %s", "world")

	if got := stdout.String(); got != "hello world" {
		t.Errorf("Print() = %q, want %q", got, "hello world")
	}
}

func TestWriter_Println(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Println("hello %s", "world")

	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("Println() = %q, want %q", got, "hello world\n")
	}
}

func TestWriter_Error(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Error("error %d", 42)

	if got := stderr.String(); got != "error 42" {
		t.Errorf("Error() = %q, want %q", got, "error 42")
	}
}

func TestWriter_Errorln(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Errorln("error %d", 42)

	if got := stderr.String(); got != "error 42\n" {
		t.Errorf("Errorln() = %q, want %q", got, "error 42\n")
	}
}

func TestWriter_Success_Quiet(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		expect string
	}{
		{"normal mode", false, "done message\n"},
		{"quiet mode", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.quiet = tt.quiet

			w.Success("done %s", "message")

			if got := stdout.String(); got != tt.expect {
				t.Errorf("Success() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_Styles(t *testing.T) {
	tests := []struct {
		name   string
		render func(w *Writer, s string) string
	}{
		{"Pass", (*Writer).Pass},
		{"Fail", (*Writer).Fail},
		{"Warn", (*Writer).Warn},
		{"Accent", (*Writer).Accent},
		{"Dim", (*Writer).Dim},
		{"Bold", (*Writer).Bold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, _ := newTestWriter()
			if got := tt.render(w, "text"); got != "text" {
				t.Errorf("%s() without color = %q, want %q", tt.name, got, "text")
			}

			w.SetColor(true)
			got := tt.render(w, "text")
			if !strings.Contains(got, "\033[") {
				t.Errorf("%s() with color = %q, want ANSI escape", tt.name, got)
			}
			if !strings.Contains(got, "text") {
				t.Errorf("%s() with color = %q, lost its text", tt.name, got)
			}
		})
	}
}

func TestWriter_Styles_EmptyString(t *testing.T) {
	w := NewWithWriters(&bytes.Buffer{}, &bytes.Buffer{}, true)

	if got := w.Pass(""); got != "" {
		t.Errorf("Pass(\"\") = %q, want empty", got)
	}
}

func TestWriter_Success(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Success("done %d", 3)

	if got := stdout.String(); got != "done 3\n" {
		t.Errorf("Success() = %q, want %q", got, "done 3\n")
	}
}

func TestWriter_Warning(t *testing.T) {
	w, stdout, stderr := newTestWriter()

	w.Warning("watch %s", "out")

	if got := stderr.String(); got != "warning: watch out\n" {
		t.Errorf("Warning() = %q, want %q", got, "warning: watch out\n")
	}
	if stdout.Len() != 0 {
		t.Errorf("Warning() wrote to stdout: %q", stdout.String())
	}
}

func TestWriter_ErrorPrefix(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.ErrorPrefix("bad %s", "thing")

	if got := stderr.String(); got != "simtest: bad thing\n" {
		t.Errorf("ErrorPrefix() = %q, want %q", got, "simtest: bad thing\n")
	}
}

func TestWriter_Summary(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.SummaryPassed("Passed", "3")
	w.SummaryFailed("Failed", "1")
	w.SummaryItem("Total", "4")

	want := "  Passed: 3\n  Failed: 1\n  Total: 4\n"
	if got := stdout.String(); got != want {
		t.Errorf("summary output = %q, want %q", got, want)
	}
}

func TestWriter_SummaryHeader(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.SummaryHeader("Failures")

	if got := stdout.String(); got != "\n=== Failures ===\n\n" {
		t.Errorf("SummaryHeader() = %q", got)
	}
}

func TestWriter_Width(t *testing.T) {
	w, _, _ := newTestWriter()

	if got := w.Width(); got != DefaultWidth {
		t.Errorf("Width() on a buffer = %d, want %d", got, DefaultWidth)
	}

	w.SetWidth(40)
	if got := w.Width(); got != 40 {
		t.Errorf("Width() after SetWidth(40) = %d, want 40", got)
	}

	w.SetWidth(0)
	if got := w.Width(); got != DefaultWidth {
		t.Errorf("Width() after SetWidth(0) = %d, want %d", got, DefaultWidth)
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("IsTerminal(regular file) = true")
	}
	if got := TerminalWidth(f); got != DefaultWidth {
		t.Errorf("TerminalWidth(regular file) = %d, want %d", got, DefaultWidth)
	}
}

func TestCursorUp(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{-1, ""},
		{0, ""},
		{1, "\033[1A"},
		{12, "\033[12A"},
	}

	for _, tt := range tests {
		if got := CursorUp(tt.n); got != tt.want {
			t.Errorf("CursorUp(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello w…"},
		{"zero width", "hello", 0, ""},
		{"wide runes", "日本語テスト", 7, "日本語…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if StringWidth(got) > tt.width {
				t.Errorf("Truncate(%q, %d) is %d columns wide", tt.in, tt.width, StringWidth(got))
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"passed":        "Passed",
		"system errors": "System Errors",
		"":              "",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIndent(t *testing.T) {
	got := Indent("a\nb\n", "  ")
	if got != "  a\n  b" {
		t.Errorf("Indent() = %q, want %q", got, "  a\n  b")
	}
}
