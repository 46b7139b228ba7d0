package logger

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/onwhenrdy/skindiff/internal/compartment"
	"github.com/onwhenrdy/skindiff/internal/matrixbuilder"
)

// CPosition places a logged concentration value relative to its cell: at
// the cell's left edge, its center, or its right edge.
type CPosition int

const (
	Left CPosition = iota
	Center
	Right
)

// Log3D records a full concentration profile over time for a single
// registered compartment.
type Log3D struct {
	name     string
	colSep   string
	filename string
	cPos     CPosition

	stepSizes []float64
	times     []int
	data      [][]float64

	registeredComp *compartment.Compartment
	autoLog        bool

	enabled     bool
	zip         bool
	logInterval int
	timeHint    int
}

// NewLog3D returns a Log3D named name, disabled by default (profile
// logging is opt-in, unlike mass logging), gzip-compressed by default,
// and concentrations anchored at the cell's left edge.
func NewLog3D(name string) *Log3D {
	return &Log3D{
		name:        name,
		colSep:      "\t",
		filename:    "unknown.dat",
		cPos:        Left,
		autoLog:     true,
		enabled:     false,
		zip:         true,
		logInterval: 1,
	}
}

// SetStepSizes sets the per-cell width vector (um) used to compute the
// x-axis positions.
func (l *Log3D) SetStepSizes(sizes []float64) { l.stepSizes = sizes }

// Log appends a full profile at the given time. The time is truncated to
// an integer number of minutes, matching the original storage format.
func (l *Log3D) Log(time float64, data []float64) {
	l.times = append(l.times, int(time))
	l.data = append(l.data, data)
}

// Times returns the recorded time points, in whole minutes.
func (l *Log3D) Times() []int { return l.times }

// Data returns the recorded profiles, one slice per logged time.
func (l *Log3D) Data() [][]float64 { return l.data }

// Space returns the x-axis position of each step, placed according to
// ConcentrationPosition.
func (l *Log3D) Space() []float64 {
	result := make([]float64, 0, len(l.stepSizes))
	xPos := 0.0
	for _, step := range l.stepSizes {
		var preInc, posInc float64
		if l.cPos == Center {
			preInc = step / 2.0
			posInc = preInc
		} else if l.cPos == Left {
			posInc = step
		} else {
			preInc = step
		}
		xPos += preInc
		result = append(result, xPos)
		xPos += posInc
	}
	return result
}

// Name returns the logger's display name.
func (l *Log3D) Name() string { return l.name }

// SetName sets the logger's display name.
func (l *Log3D) SetName(name string) { l.name = name }

// ColumnSeparator returns the field separator used by WriteTo.
func (l *Log3D) ColumnSeparator() string { return l.colSep }

// SetColumnSeparator sets the field separator used by WriteTo.
func (l *Log3D) SetColumnSeparator(sep string) { l.colSep = sep }

// Filename returns the output path used by WriteToFile.
func (l *Log3D) Filename() string { return l.filename }

// SetFilename sets the output path used by WriteToFile.
func (l *Log3D) SetFilename(filename string) { l.filename = filename }

// AutoLogEnabled reports whether LogAuto is active.
func (l *Log3D) AutoLogEnabled() bool { return l.autoLog }

// SetAutoLogEnabled toggles LogAuto.
func (l *Log3D) SetAutoLogEnabled(enabled bool) { l.autoLog = enabled }

// RegisteredCompartment returns the compartment this logger profiles.
func (l *Log3D) RegisteredCompartment() *compartment.Compartment { return l.registeredComp }

// RegisterCompartment attaches the compartment this logger profiles.
func (l *Log3D) RegisterCompartment(c *compartment.Compartment) { l.registeredComp = c }

// LogAuto extracts the registered compartment's concentration slice and
// logs it against time, provided AutoLogEnabled and time falls on
// LogInterval. With no registered compartment a zero profile is logged.
func (l *Log3D) LogAuto(time float64, concentrations []float64, scaleFac float64) {
	if !l.autoLog || int(time)%l.logInterval != 0 {
		return
	}

	data := make([]float64, len(l.stepSizes))
	if l.registeredComp != nil {
		idxFrom := l.registeredComp.GeometryFromIdx()
		idxTo := l.registeredComp.GeometryToIdx()
		if len(data) != idxTo-idxFrom+1 {
			panic("logger: step-size vector does not match the registered compartment's cell range")
		}
		for i := idxFrom; i <= idxTo; i++ {
			data[i-idxFrom] = concentrations[i] * scaleFac
		}
	}
	l.Log(time, data)
}

// ConcentrationPosition returns where a logged concentration is placed
// relative to its cell.
func (l *Log3D) ConcentrationPosition() CPosition { return l.cPos }

// SetConcentrationPosition sets the concentration anchor directly.
func (l *Log3D) SetConcentrationPosition(pos CPosition) { l.cPos = pos }

// SetConcentrationPositionFromMethod sets the concentration anchor for
// the given matrix-assembly scheme; all three schemes log center-node
// concentrations.
func (l *Log3D) SetConcentrationPositionFromMethod(method matrixbuilder.Method) {
	switch method {
	case matrixbuilder.DSkin13, matrixbuilder.DSkin14, matrixbuilder.DSkin15:
		l.cPos = Center
	default:
		panic("logger: unknown matrix builder method")
	}
}

// Enabled reports whether the logger accumulates profiles at all.
func (l *Log3D) Enabled() bool { return l.enabled }

// SetEnabled toggles the logger.
func (l *Log3D) SetEnabled(enabled bool) { l.enabled = enabled }

// Zip reports whether WriteToFile gzip-compresses its output.
func (l *Log3D) Zip() bool { return l.zip }

// SetZip toggles gzip compression.
func (l *Log3D) SetZip(zip bool) { l.zip = zip }

// LogInterval returns the logging interval, in minutes.
func (l *Log3D) LogInterval() int { return l.logInterval }

// SetLogInterval sets the logging interval. Panics if less than 1.
func (l *Log3D) SetLogInterval(interval int) {
	if interval < 1 {
		panic("logger: log interval must be >= 1")
	}
	old := l.logInterval
	l.logInterval = interval
	if interval < old {
		l.reserve()
	}
}

// SetTimeHint gives a capacity hint (total simulated minutes) so the
// backing slices can be preallocated. Panics if not > 0.
func (l *Log3D) SetTimeHint(hint int) {
	if hint <= 0 {
		panic("logger: time hint must be > 0")
	}
	old := l.timeHint
	l.timeHint = hint
	if hint > old {
		l.reserve()
	}
}

func (l *Log3D) reserve() {
	newCap := 1 + l.timeHint/l.logInterval
	times := make([]int, len(l.times), newCap)
	data := make([][]float64, len(l.data), newCap)
	copy(times, l.times)
	copy(data, l.data)
	l.times = times
	l.data = data
}

// WriteTo writes the profile table: a header row of x-positions (column
// 0 reserved for the literal "0"), then one row per logged time.
func (l *Log3D) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	b.WriteString("0")
	for _, x := range l.Space() {
		fmt.Fprintf(&b, "%s%s", l.colSep, formatFloat(x))
	}
	b.WriteByte('\n')

	n := len(l.data)
	for i, row := range l.data {
		fmt.Fprintf(&b, "%d", l.times[i])
		for _, v := range row {
			fmt.Fprintf(&b, "%s%s", l.colSep, formatFloat(v))
		}
		if i != n-1 {
			b.WriteByte('\n')
		}
	}

	written, err := io.WriteString(w, b.String())
	return int64(written), err
}

// WriteToFile renders the profile table to Filename, gzip-compressing it
// (with a ".gz" suffix) when Zip is set.
func (l *Log3D) WriteToFile() error {
	name := l.filename
	if l.zip {
		name += ".gz"
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if l.zip {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		_, err = l.WriteTo(gz)
		return err
	}

	_, err = l.WriteTo(f)
	return err
}
