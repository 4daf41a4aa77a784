// Package top renders a continuously refreshing table of live execution
// units, redrawn in place on a fixed interval until cancelled.
package top

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"github.com/devconsole/devcon/internal/telemetry"
)

// DefaultInterval is the refresh interval when none is given.
const DefaultInterval = time.Second

// Canceler is the cancellation signal polled between refresh cycles.
type Canceler interface {
	Interrupted() bool
}

// Monitor drives the live table. One Monitor serves one invocation.
type Monitor struct {
	Source telemetry.Source

	// Sleep suspends between refresh cycles. Replaceable in tests.
	Sleep func(time.Duration)
}

// NewMonitor creates a monitor over the given snapshot source.
func NewMonitor(source telemetry.Source) *Monitor {
	return &Monitor{
		Source: source,
		Sleep:  time.Sleep,
	}
}

// Run renders until cancelled.
//
//   - interval == 0: take one snapshot, render once scrolling (no cursor
//     repositioning), return. Cancellation is never consulted.
//   - interval > 0: clear screen and hide the cursor once, then redraw in
//     place every interval; on cancellation the cursor is shown again
//     exactly once.
//   - interval < 0: render one in-place frame without the clear/hide
//     preamble and return.
func (m *Monitor) Run(out io.Writer, cancel Canceler, interval time.Duration) {
	term := termenv.NewOutput(out)

	if interval == 0 {
		m.renderFrame(term, false)
		return
	}

	if interval > 0 {
		term.ClearScreen()
		term.HideCursor()
	}

	for !cancel.Interrupted() {
		m.renderFrame(term, true)

		if interval < 0 {
			break
		}
		m.Sleep(interval)
	}

	if interval > 0 {
		term.ShowCursor()
	}
}

// renderFrame takes one snapshot and draws the full table. When inPlace
// is set the cursor returns to the origin first and every row erases its
// tail so a shrinking table leaves no stale glyphs.
func (m *Monitor) renderFrame(term *termenv.Output, inPlace bool) {
	snap := m.Source.Snapshot()

	if inPlace {
		term.MoveCursor(1, 1)
	}

	fmt.Fprintf(term, "\rThreads: %d, ISR Time: %.2f%%, Uptime: %s",
		len(snap.Records), snap.ISRFraction, formatUptime(snap.Uptime))
	m.endLine(term, inPlace)

	fmt.Fprintf(term, "\rHeap: total %d, free %d, minimum %d, max block %d",
		snap.HeapTotal, snap.HeapFree, snap.HeapMinFree, snap.HeapMaxBlock)
	m.endLine(term, inPlace)
	fmt.Fprint(term, "\r\n")

	fmt.Fprintf(term, "\r%s %s %s %5s %12s %6s %10s %7s %5s",
		field("AppID", 17), field("Name", 20), field("State", 10),
		"Prio", "Stack start", "Stack", "Stack Min", "Heap", "CPU")
	m.endLine(term, inPlace)

	for _, record := range snap.Records {
		fmt.Fprintf(term, "\r%s %s %s %5d   0x%08x %6d %10d %7d %5.1f",
			field(record.ID, 17), field(record.Name, 20), field(record.State, 10),
			record.Priority, record.StackBase, record.StackSize,
			record.StackMinFree, record.HeapUsed, record.CPUFraction)
		m.endLine(term, inPlace)
	}
}

// endLine finishes a table line, erasing to end of line in in-place mode.
func (m *Monitor) endLine(term *termenv.Output, inPlace bool) {
	if inPlace {
		term.ClearLineRight()
	}
	fmt.Fprint(term, "\r\n")
}

// field pads or truncates s to exactly width characters.
func field(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return fmt.Sprintf("%-*s", width, s)
}

// formatUptime renders a duration as XhYmZs.
func formatUptime(d time.Duration) string {
	seconds := int64(d.Seconds())
	return fmt.Sprintf("%dh%dm%ds", seconds/3600, seconds/60%60, seconds%60)
}
