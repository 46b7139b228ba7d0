// Package logger implements the two time-series recorders used by a run:
// Log2D accumulates scalar mass-over-time series (one per logged
// compartment or the sink), and Log3D accumulates full concentration
// profiles over time. Both can write themselves out as tab-separated,
// optionally gzip-compressed files.
package logger

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/onwhenrdy/skindiff/internal/compartment"
	"github.com/onwhenrdy/skindiff/internal/geometry"
	"github.com/onwhenrdy/skindiff/internal/matrixbuilder"
)

// Log2D records a (time, mass) series for a single registered sink or
// compartment, auto-deriving the mass value from a concentration profile
// each time LogAuto is called.
type Log2D struct {
	xs, ys []float64

	name       string
	colSep     string
	filename   string
	column1    string
	column2    string

	registeredSink *compartment.Sink
	registeredComp *compartment.Compartment
	autoLog        bool

	enabled     bool
	zip         bool
	logInterval int
	timeHint    int

	appArea  float64
	mbMethod matrixbuilder.Method
}

// NewLog2D returns an enabled Log2D named name, deriving absolute area
// from the given matrix-builder method and applied area.
func NewLog2D(method matrixbuilder.Method, appArea float64, name string) *Log2D {
	return &Log2D{
		name:        name,
		colSep:      "\t",
		filename:    "logger.dat",
		column1:     "time",
		column2:     "mass",
		autoLog:     true,
		enabled:     true,
		logInterval: 1,
		appArea:     appArea,
		mbMethod:    method,
	}
}

// Log appends a single (x, y) data point.
func (l *Log2D) Log(x, y float64) {
	l.xs = append(l.xs, x)
	l.ys = append(l.ys, y)
}

// Xs returns the recorded x (time) values.
func (l *Log2D) Xs() []float64 { return l.xs }

// Ys returns the recorded y (mass) values.
func (l *Log2D) Ys() []float64 { return l.ys }

// Size returns the number of recorded points.
func (l *Log2D) Size() int { return len(l.xs) }

// X returns the idx-th recorded x value.
func (l *Log2D) X(idx int) float64 { return l.xs[idx] }

// Y returns the idx-th recorded y value.
func (l *Log2D) Y(idx int) float64 { return l.ys[idx] }

// Name returns the logger's display name.
func (l *Log2D) Name() string { return l.name }

// SetName sets the logger's display name.
func (l *Log2D) SetName(name string) { l.name = name }

// ColumnSeparator returns the field separator used by WriteTo.
func (l *Log2D) ColumnSeparator() string { return l.colSep }

// SetColumnSeparator sets the field separator used by WriteTo.
func (l *Log2D) SetColumnSeparator(sep string) { l.colSep = sep }

// Filename returns the output path used by WriteToFile.
func (l *Log2D) Filename() string { return l.filename }

// SetFilename sets the output path used by WriteToFile.
func (l *Log2D) SetFilename(filename string) { l.filename = filename }

// Column1Name returns the header label of the time column.
func (l *Log2D) Column1Name() string { return l.column1 }

// Column2Name returns the header label of the value column.
func (l *Log2D) Column2Name() string { return l.column2 }

// SetColumn2Name sets only the value column's header label.
func (l *Log2D) SetColumn2Name(column2 string) { l.column2 = column2 }

// SetColumnNames sets both header labels.
func (l *Log2D) SetColumnNames(column1, column2 string) {
	l.column1 = column1
	l.column2 = column2
}

// RegisteredSink returns the sink this logger auto-derives mass from, if
// any.
func (l *Log2D) RegisteredSink() *compartment.Sink { return l.registeredSink }

// RegisterSink attaches a sink as the auto-log source, clearing any
// registered compartment.
func (l *Log2D) RegisterSink(sink *compartment.Sink) {
	l.registeredSink = sink
	l.registeredComp = nil
}

// RegisteredCompartment returns the compartment this logger auto-derives
// mass from, if any.
func (l *Log2D) RegisteredCompartment() *compartment.Compartment { return l.registeredComp }

// RegisterCompartment attaches a compartment as the auto-log source,
// clearing any registered sink.
func (l *Log2D) RegisterCompartment(c *compartment.Compartment) {
	l.registeredComp = c
	l.registeredSink = nil
}

// AutoLogEnabled reports whether LogAuto is active.
func (l *Log2D) AutoLogEnabled() bool { return l.autoLog }

// SetAutoLogEnabled toggles LogAuto.
func (l *Log2D) SetAutoLogEnabled(enabled bool) { l.autoLog = enabled }

// Enabled reports whether the logger accumulates points at all.
func (l *Log2D) Enabled() bool { return l.enabled }

// SetEnabled toggles the logger.
func (l *Log2D) SetEnabled(enabled bool) { l.enabled = enabled }

// Zip reports whether WriteToFile gzip-compresses its output.
func (l *Log2D) Zip() bool { return l.zip }

// SetZip toggles gzip compression.
func (l *Log2D) SetZip(zip bool) { l.zip = zip }

// LogInterval returns the logging interval, in minutes.
func (l *Log2D) LogInterval() int { return l.logInterval }

// SetLogInterval sets the logging interval. Panics if less than 1.
func (l *Log2D) SetLogInterval(interval int) {
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
func (l *Log2D) SetTimeHint(hint int) {
	if hint <= 0 {
		panic("logger: time hint must be > 0")
	}
	old := l.timeHint
	l.timeHint = hint
	if hint > old {
		l.reserve()
	}
}

func (l *Log2D) reserve() {
	// first entry is always logged at time = 0
	newCap := 1 + l.timeHint/l.logInterval
	xs := make([]float64, len(l.xs), newCap)
	ys := make([]float64, len(l.ys), newCap)
	copy(xs, l.xs)
	copy(ys, l.ys)
	l.xs = xs
	l.ys = ys
}

// LogAuto derives a mass value from a concentration profile and logs it
// against xVal, provided AutoLogEnabled and xVal falls on LogInterval.
// With a registered sink the mass is conc*stepSize*area*scaleFac/Vd; with
// a registered compartment it is the area-scaled sum of conc*stepSize
// across the compartment's cell range; with neither, 0 is logged.
func (l *Log2D) LogAuto(xVal float64, geo *geometry.Geometry, concentrations []float64, scaleFac float64) {
	if !l.autoLog || int(xVal)%l.logInterval != 0 {
		return
	}

	switch {
	case l.registeredSink != nil:
		a := l.registeredSink.A()
		if l.mbMethod == matrixbuilder.DSkin15 {
			a = l.appArea
		}
		idx := l.registeredSink.GeometryFromIdx()
		conc := concentrations[idx]
		ss := geo.SpaceSteps()[idx]
		mass := conc * ss * a * scaleFac / l.registeredSink.Vd()
		l.Log(xVal, mass)
	case l.registeredComp != nil:
		idxFrom := l.registeredComp.GeometryFromIdx()
		idxTo := l.registeredComp.GeometryToIdx()
		a := l.registeredComp.A()
		if l.mbMethod == matrixbuilder.DSkin15 {
			a = l.appArea
		}
		mass := 0.0
		for i := idxFrom; i <= idxTo; i++ {
			mass += concentrations[i] * geo.SpaceSteps()[i]
		}
		l.Log(xVal, mass*scaleFac*a)
	default:
		l.Log(xVal, 0.0)
	}
}

// WriteTo writes the tab-separated series, header first, to w.
func (l *Log2D) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s\n", l.column1, l.colSep, l.column2)

	n := l.Size()
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s%s%s", formatFloat(l.xs[i]), l.colSep, formatFloat(l.ys[i]))
		if i != n-1 {
			b.WriteByte('\n')
		}
	}

	written, err := io.WriteString(w, b.String())
	return int64(written), err
}

// WriteToFile renders the series to Filename, gzip-compressing it (with
// a ".gz" suffix) when Zip is set.
func (l *Log2D) WriteToFile() error {
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

func formatFloat(v float64) string {
	return fmt.Sprintf("%.17g", v)
}
