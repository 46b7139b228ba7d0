package compartment

import "math"

// SinkType distinguishes between a terminal perfect drain and a first-order
// pharmacokinetic elimination compartment.
type SinkType int

const (
	// PerfectSink accumulates mass without decay.
	PerfectSink SinkType = iota
	// PKCompartment eliminates mass with first-order kinetics, rate kEl.
	PKCompartment
)

// Sink is the single-cell terminal compartment appended after the last
// layer. Invariant (enforced by the geometry/engine wiring, not by this
// type): the sink's cell index equals the total cell count minus one.
type Sink struct {
	name    string
	kind    SinkType
	a       float64
	vd      float64
	tHalf   float64
	geoFrom int
	geoTo   int
	cInit   float64
}

// NewSink returns a Sink with the given type, area (um^2), distribution
// volume (ml), and elimination half-life (min).
func NewSink(kind SinkType, a, vd, tHalf float64, name string) *Sink {
	s := &Sink{name: name, tHalf: 1.0}
	s.SetA(a)
	s.SetVd(vd)
	s.SetTHalf(tHalf)
	s.kind = kind
	return s
}

// Type returns the sink's kind.
func (s *Sink) Type() SinkType { return s.kind }

// SetType sets the sink's kind.
func (s *Sink) SetType(kind SinkType) { s.kind = kind }

// Vd returns the distribution volume in ml.
func (s *Sink) Vd() float64 { return s.vd }

// SetVd sets the distribution volume. Values <= 0 are ignored.
func (s *Sink) SetVd(vd float64) {
	if vd > 0 {
		s.vd = vd
	}
}

// THalf returns the elimination half-life in minutes.
func (s *Sink) THalf() float64 { return s.tHalf }

// SetTHalf sets the elimination half-life. Values <= 0 are ignored.
func (s *Sink) SetTHalf(tHalf float64) {
	if tHalf > 0 {
		s.tHalf = tHalf
	}
}

// KEl returns the derived first-order elimination rate, ln(2)/t_half.
func (s *Sink) KEl() float64 {
	return math.Ln2 / s.tHalf
}

// Name returns the sink's display name.
func (s *Sink) Name() string { return s.name }

// SetName sets the sink's display name.
func (s *Sink) SetName(name string) { s.name = name }

// A returns the sink's cross-sectional area in um^2.
func (s *Sink) A() float64 { return s.a }

// SetA sets the area. Values <= 0 are ignored.
func (s *Sink) SetA(a float64) {
	if a > 0 {
		s.a = a
	}
}

// GeometryFromIdx returns the sink's cell index (equal to GeometryToIdx).
func (s *Sink) GeometryFromIdx() int { return s.geoFrom }

// GeometryToIdx returns the sink's cell index (equal to GeometryFromIdx).
func (s *Sink) GeometryToIdx() int { return s.geoTo }

// SetGeometryIdx assigns the sink's single cell index. Panics if from > to.
func (s *Sink) SetGeometryIdx(from, to int) {
	if from > to {
		panic("compartment: sink geometry range from must be <= to")
	}
	s.geoFrom = from
	s.geoTo = to
}

// CInit returns the initial concentration in mg/um^3.
func (s *Sink) CInit() float64 { return s.cInit }

// SetCInit sets the initial concentration. Unlike Compartment.SetCInit,
// this has no guard in the original and none is added here.
func (s *Sink) SetCInit(cInit float64) { s.cInit = cInit }
