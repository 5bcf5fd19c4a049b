// Package display renders per-script progress while scripts run and the
// final report once they have all finished.
//
// All terminal writes go through a single mutex, so completions arriving
// from concurrent tasks never interleave. In live mode every Update redraws
// the whole region in place; otherwise each completion appends one row.
// Diagnostic logs written through LogWriter take the same mutex.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/AndreyAkinshin/simtest/internal/outcome"
	"github.com/AndreyAkinshin/simtest/internal/output"
)

// Options controls how a Display renders.
type Options struct {
	// Live redraws the region in place with cursor movement. It should only
	// be set when stdout is a terminal.
	Live bool
	// Verbose adds a per-script table to the final report.
	Verbose bool
}

// Display owns the state of one run: the script order, the outcomes
// recorded so far and the number of terminal lines the region occupies.
type Display struct {
	mu       sync.Mutex
	w        *output.Writer
	opts     Options
	files    []string
	outcomes map[string]outcome.Outcome
	lines    int
	started  time.Time
	elapsed  time.Duration
	now      func() time.Time
}

// New creates a Display writing through w.
func New(w *output.Writer, opts Options) *Display {
	return &Display{
		w:        w,
		opts:     opts,
		outcomes: make(map[string]outcome.Outcome),
		now:      time.Now,
	}
}

// Begin records the scripts of the run and, in live mode, prints one
// pending row per script.
func (d *Display) Begin(files []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.files = append([]string(nil), files...)
	d.started = d.now()
	if !d.opts.Live {
		return
	}
	d.redraw()
}

// Update records the outcome for file and refreshes the output. Calling it
// twice for the same file replaces the earlier outcome.
func (d *Display) Update(file string, o outcome.Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.outcomes[file] = o
	if !d.opts.Live {
		d.w.Println("%s", d.row(file))
		return
	}
	d.redraw()
}

// Finish prints the summary and failure details and returns the number of
// failed tests and runs, and of system errors. It must be called after every
// task has called Update. The live region ends here.
func (d *Display) Finish() (failed, systemErrors int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.elapsed = d.now().Sub(d.started)
	d.lines = 0
	totals := outcome.Aggregate(d.files, d.outcomes)

	d.w.Println("")
	if d.opts.Verbose {
		d.printTable()
		d.w.Println("")
	}
	d.printSummary(totals)
	d.printDetails()

	return totals.Failed + totals.FailedRuns, totals.SystemErrors
}

// redraw moves the cursor back over the region, clears it and prints every
// row again. The caller holds d.mu.
func (d *Display) redraw() {
	var b strings.Builder
	b.WriteString(output.CursorUp(d.lines))
	b.WriteString(output.ClearToEnd)
	for _, f := range d.files {
		b.WriteString(d.row(f))
		b.WriteByte('\n')
	}
	d.w.Print("%s", b.String())
	d.lines = len(d.files)
}

// LogWriter returns a writer for diagnostic output that shares the display
// lock. While the live region is on screen, each write clears the region,
// emits the log text and redraws the region below it, so log lines scroll
// above the rows instead of landing inside them.
func (d *Display) LogWriter(w io.Writer) io.Writer {
	return &logWriter{d: d, w: w}
}

type logWriter struct {
	d *Display
	w io.Writer
}

func (lw *logWriter) Write(p []byte) (int, error) {
	d := lw.d
	d.mu.Lock()
	defer d.mu.Unlock()

	region := d.opts.Live && d.lines > 0
	if region {
		d.w.Print("%s", output.CursorUp(d.lines)+output.ClearToEnd)
		d.lines = 0
	}
	n, err := lw.w.Write(p)
	if region {
		d.redraw()
	}
	return n, err
}

type state int

const (
	statePending state = iota
	statePassed
	stateFailed
	stateSystem
)

// describe returns the display state and status text for file.
func (d *Display) describe(file string) (state, string) {
	o, ok := d.outcomes[file]
	if !ok {
		return statePending, "pending"
	}

	switch o.Kind {
	case outcome.KindSystemFailure:
		return stateSystem, "system error"
	case outcome.KindProcessFailure:
		return stateFailed, "exit failure"
	}

	c := o.Counts()
	switch {
	case !c.Parsed:
		return stateFailed, "no tests reported"
	case c.Failed > 0:
		return stateFailed, fmt.Sprintf("%d passed, %d failed", c.Passed, c.Failed)
	case c.Skipped > 0:
		return statePassed, fmt.Sprintf("%d passed, %d skipped", c.Passed, c.Skipped)
	default:
		return statePassed, fmt.Sprintf("%d passed", c.Passed)
	}
}

// paint styles text in the color of state s.
func (d *Display) paint(s state, str string) string {
	switch s {
	case statePassed:
		return d.w.Pass(str)
	case stateFailed:
		return d.w.Fail(str)
	case stateSystem:
		return d.w.Warn(str)
	default:
		return d.w.Dim(str)
	}
}

// row renders one status line. In live mode the line is truncated so it
// never wraps and the last terminal column is left free. Appended rows are
// never cut, since they scroll like any other output.
func (d *Display) row(file string) string {
	s, status := d.describe(file)
	if !d.opts.Live {
		return fmt.Sprintf("%s %s  %s", d.paint(s, glyphText(s)), file, d.paint(s, status))
	}
	width := d.w.Width() - 1

	// glyph, space, name, two spaces, status
	avail := width - 1 - 1 - 2 - output.StringWidth(status)
	if avail < 1 {
		return output.Truncate(fmt.Sprintf("%s %s  %s", glyphText(s), file, status), width)
	}
	return fmt.Sprintf("%s %s  %s", d.paint(s, glyphText(s)), output.Truncate(file, avail), d.paint(s, status))
}

func glyphText(s state) string {
	switch s {
	case statePassed:
		return output.GlyphPass
	case stateFailed:
		return output.GlyphFail
	case stateSystem:
		return output.GlyphSystem
	default:
		return output.GlyphPending
	}
}

func (d *Display) printSummary(t outcome.Totals) {
	item := func(label string, n int, bad bool) {
		switch {
		case bad && n > 0:
			d.w.SummaryFailed(output.Label(label), fmt.Sprint(n))
		case !bad && n > 0:
			d.w.SummaryPassed(output.Label(label), fmt.Sprint(n))
		default:
			d.w.SummaryItem(output.Label(label), fmt.Sprint(n))
		}
	}

	item("passed", t.Passed, false)
	item("failed", t.Failed, true)
	if t.Skipped > 0 {
		d.w.SummaryItem(output.Label("skipped"), fmt.Sprint(t.Skipped))
	}
	d.w.SummaryItem(output.Label("total"), fmt.Sprint(t.Total))
	if t.FailedRuns > 0 {
		item("failed runs", t.FailedRuns, true)
	}
	if t.SystemErrors > 0 {
		item("system errors", t.SystemErrors, true)
	}
	d.w.SummaryItem(output.Label("duration"), formatDuration(d.elapsed))
}

// printDetails prints one block per script that did not pass, in discovery
// order.
func (d *Display) printDetails() {
	var blocks []string
	for _, f := range d.files {
		if b := d.detail(f); b != "" {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) == 0 {
		return
	}

	d.w.SummaryHeader("Failures")
	d.w.Print("%s\n", strings.Join(blocks, "\n\n"))
}

func (d *Display) detail(file string) string {
	o, ok := d.outcomes[file]
	if !ok {
		return d.block(stateSystem, file, "no outcome reported")
	}

	switch o.Kind {
	case outcome.KindSystemFailure:
		return d.block(stateSystem, file, o.Message)
	case outcome.KindProcessFailure:
		return d.block(stateFailed, file, o.Message)
	}

	c := o.Counts()
	if !c.Parsed {
		return d.block(stateFailed, file, "no tests reported")
	}
	if c.Failed == 0 {
		return ""
	}

	lines := make([]string, 0, len(c.FailedTests))
	for _, ft := range c.FailedTests {
		if ft.Reason == "" {
			lines = append(lines, ft.Name)
			continue
		}
		lines = append(lines, ft.Name+": "+ft.Reason)
	}
	return d.block(stateFailed, file, strings.Join(lines, "\n"))
}

func (d *Display) block(s state, file, body string) string {
	head := fmt.Sprintf("%s %s", d.paint(s, glyphText(s)), d.w.Bold(file))
	if body == "" {
		return head
	}
	return head + "\n" + output.Indent(body, "    ")
}

// printTable renders the per-script results table.
func (d *Display) printTable() {
	t := table.NewWriter()
	t.SetOutputMirror(d.w.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Status", "Passed", "Failed", "Skipped", "Duration"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	for _, f := range d.files {
		_, status := d.describe(f)
		o := d.outcomes[f]
		c := o.Counts()
		t.AppendRow(table.Row{f, status, c.Passed, c.Failed, c.Skipped, formatDuration(o.Duration)})
	}
	t.Render()
}

func formatDuration(dur time.Duration) string {
	if dur < time.Millisecond {
		return dur.String()
	}
	return dur.Round(time.Millisecond).String()
}
