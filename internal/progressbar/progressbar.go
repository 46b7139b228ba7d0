// Package progressbar renders a single-line, carriage-return-refreshed
// console progress bar for long-running simulation runs.
package progressbar

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Bar is a console progress bar ticked against a fixed total. It redraws
// in place using a carriage return and only repaints when the displayed
// percentage actually changes, to keep terminal output cheap.
type Bar struct {
	out        io.Writer
	enabled    bool
	totalTicks int
	width      int
	textWidth  int
	lastPerc   int
	label      string
}

// New returns a Bar writing to os.Stdout, enabled, with a total of 100
// ticks, a display width of 72 columns, and the label "Progress ".
func New() *Bar {
	b := &Bar{
		out:        os.Stdout,
		enabled:    true,
		totalTicks: 100,
		width:      72,
		lastPerc:   -1,
		label:      "Progress ",
	}
	b.precalc()
	return b
}

// SetOutput redirects the bar's rendering target.
func (b *Bar) SetOutput(w io.Writer) { b.out = w }

// Progress renders the bar state for the given tick out of TotalTicks,
// redrawing only if the integer percentage advanced since the last call.
func (b *Bar) Progress(tick int) {
	if !b.enabled {
		return
	}

	percent := tick * 100 / b.totalTicks
	if percent > 100 {
		percent = 100
	}
	if percent <= b.lastPerc {
		return
	}

	pos := tick * b.textWidth / b.totalTicks
	if pos > b.textWidth {
		pos = b.textWidth
	}

	fmt.Fprintf(b.out, "%s[%s%*c %3d%%\r", b.label, strings.Repeat("=", pos), b.textWidth-pos+1, ']', percent)

	b.lastPerc = percent
}

// Reset clears the last-rendered percentage so the next Progress call
// always redraws, regardless of tick.
func (b *Bar) Reset() { b.lastPerc = -1 }

// TotalTicks returns the tick count representing 100%.
func (b *Bar) TotalTicks() int { return b.totalTicks }

// SetTotalTicks sets the tick count representing 100%. Negative values
// are ignored.
func (b *Bar) SetTotalTicks(totalTicks int) {
	if totalTicks >= 0 {
		b.totalTicks = totalTicks
	}
}

// Width returns the total display width in columns.
func (b *Bar) Width() int { return b.width }

// SetWidth sets the total display width in columns.
func (b *Bar) SetWidth(width int) {
	b.width = width
	b.precalc()
}

// Label returns the prefix label.
func (b *Bar) Label() string { return b.label }

// SetLabel sets the prefix label.
func (b *Bar) SetLabel(label string) {
	b.label = label
	b.precalc()
}

func (b *Bar) precalc() {
	b.textWidth = b.width - len(b.label)
}

// Enabled reports whether Progress actually renders anything.
func (b *Bar) Enabled() bool { return b.enabled }

// SetEnabled toggles rendering.
func (b *Bar) SetEnabled(enabled bool) { b.enabled = enabled }
