package progressbar

import (
	"strings"
	"testing"
)

func TestProgressOnlyRedrawsOnPercentChange(t *testing.T) {
	var buf strings.Builder
	b := New()
	b.SetOutput(&buf)
	b.SetTotalTicks(100)

	b.Progress(1)
	firstLen := buf.Len()
	if firstLen == 0 {
		t.Fatalf("expected output on first progress call")
	}

	b.Progress(1) // same percent, should not redraw
	if buf.Len() != firstLen {
		t.Fatalf("expected no additional output for unchanged percent")
	}

	b.Progress(2)
	if buf.Len() == firstLen {
		t.Fatalf("expected output when percent advances")
	}
}

func TestProgressDisabledWritesNothing(t *testing.T) {
	var buf strings.Builder
	b := New()
	b.SetOutput(&buf)
	b.SetEnabled(false)
	b.Progress(50)
	if buf.Len() != 0 {
		t.Fatalf("expected no output while disabled, got %q", buf.String())
	}
}

func TestResetAllowsRedrawAtSamePercent(t *testing.T) {
	var buf strings.Builder
	b := New()
	b.SetOutput(&buf)
	b.Progress(50)
	firstLen := buf.Len()

	b.Reset()
	b.Progress(50)
	if buf.Len() == firstLen {
		t.Fatalf("expected Reset to allow a redraw at the same percent")
	}
}

func TestPercentClampedAt100(t *testing.T) {
	var buf strings.Builder
	b := New()
	b.SetOutput(&buf)
	b.Progress(1000)
	if !strings.Contains(buf.String(), "100%") {
		t.Fatalf("expected clamped 100%%, got %q", buf.String())
	}
}
