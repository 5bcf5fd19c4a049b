// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 80

// Status glyphs.
const (
	GlyphPending = "○"
	GlyphPass    = "✓"
	GlyphFail    = "✗"
	GlyphSystem  = "!"
)

// ANSI control sequences used by the live region.
const (
	ClearToEnd = "\033[0J"
)

// CursorUp returns the sequence that moves the cursor up n lines.
// It returns "" for n <= 0.
func CursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\033[%dA", n)
}

var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
)

type styles struct {
	pass   lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
	accent lipgloss.Style
	dim    lipgloss.Style
	bold   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		pass:   r.NewStyle().Foreground(colorGreen),
		fail:   r.NewStyle().Foreground(colorRed),
		warn:   r.NewStyle().Foreground(colorYellow),
		accent: r.NewStyle().Foreground(colorCyan).Bold(true),
		dim:    r.NewStyle().Foreground(colorDim),
		bold:   r.NewStyle().Bold(true),
	}
}

// Writer handles CLI output formatting.
type Writer struct {
	out    io.Writer
	err    io.Writer
	color  bool
	quiet  bool
	width  int
	styles styles
}

// New creates a Writer on stdout and stderr. Color is enabled when stdout is
// a terminal and NO_COLOR is unset.
func New() *Writer {
	return NewWithWriters(os.Stdout, os.Stderr, IsTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "")
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	w := &Writer{
		out: out,
		err: err,
	}
	w.SetColor(color)
	return w
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetColor forces color on or off.
func (w *Writer) SetColor(color bool) {
	w.color = color
	r := lipgloss.NewRenderer(w.out)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	w.styles = newStyles(r)
}

// Color reports whether styled output is enabled.
func (w *Writer) Color() bool {
	return w.color
}

// SetWidth overrides the detected terminal width. Zero restores detection.
func (w *Writer) SetWidth(width int) {
	w.width = width
}

// Width returns the usable width of stdout in columns.
func (w *Writer) Width() int {
	if w.width > 0 {
		return w.width
	}
	return TerminalWidth(w.out)
}

// Interactive reports whether stdout is a terminal that can take cursor
// movement.
func (w *Writer) Interactive() bool {
	return IsTerminal(w.out)
}

// Out returns the stdout writer.
func (w *Writer) Out() io.Writer {
	return w.out
}

// Err returns the stderr writer.
func (w *Writer) Err() io.Writer {
	return w.err
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Success prints a success message (skipped in quiet mode).
func (w *Writer) Success(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("%s", w.Pass(fmt.Sprintf(format, args...)))
}

// Warning prints a warning message to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Errorln("%s %s", w.Warn("warning:"), fmt.Sprintf(format, args...))
}

// ErrorPrefix prints an error message with the simtest prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	w.Errorln("%s %s", w.Fail("simtest:"), fmt.Sprintf(format, args...))
}

// Hint prints a dimmed hint message.
func (w *Writer) Hint(format string, args ...interface{}) {
	w.Println("%s", w.Dim(fmt.Sprintf(format, args...)))
}

// Pass styles s as a success.
func (w *Writer) Pass(s string) string { return w.render(w.styles.pass, s) }

// Fail styles s as a failure.
func (w *Writer) Fail(s string) string { return w.render(w.styles.fail, s) }

// Warn styles s as a warning.
func (w *Writer) Warn(s string) string { return w.render(w.styles.warn, s) }

// Accent styles s as a heading.
func (w *Writer) Accent(s string) string { return w.render(w.styles.accent, s) }

// Dim styles s as secondary text.
func (w *Writer) Dim(s string) string { return w.render(w.styles.dim, s) }

// Bold styles s in bold.
func (w *Writer) Bold(s string) string { return w.render(w.styles.bold, s) }

func (w *Writer) render(st lipgloss.Style, s string) string {
	if !w.color || s == "" {
		return s
	}
	return st.Render(s)
}

// Label title-cases a summary label ("system errors" -> "System Errors").
func Label(s string) string {
	return cases.Title(language.English).String(s)
}

// SummaryHeader prints a summary section header.
func (w *Writer) SummaryHeader(title string) {
	w.Println("")
	w.Println("%s", w.Accent("=== "+title+" ==="))
	w.Println("")
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	w.Println("  %s %s", w.Dim(label+":"), value)
}

// SummaryPassed prints a passed/success items summary.
func (w *Writer) SummaryPassed(label, value string) {
	w.Println("  %s %s", w.Dim(label+":"), w.Pass(value))
}

// SummaryFailed prints a failed items summary.
func (w *Writer) SummaryFailed(label, value string) {
	w.Println("  %s %s", w.Dim(label+":"), w.Fail(value))
}

// Truncate shortens s so it occupies at most width terminal columns,
// marking the cut with an ellipsis. Wide runes count as two columns.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// StringWidth returns the number of terminal columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Indent prefixes every line of s with prefix.
func Indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the column count of w, or DefaultWidth when w is not
// a terminal or its size is unknown.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(fder)
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
