package logger

import (
	"strings"
	"testing"

	"github.com/onwhenrdy/skindiff/internal/compartment"
	"github.com/onwhenrdy/skindiff/internal/geometry"
	"github.com/onwhenrdy/skindiff/internal/matrixbuilder"
)

func TestLog2DManualLogAndWriteTo(t *testing.T) {
	l := NewLog2D(matrixbuilder.DSkin13, 1.0, "vehicle")
	l.Log(0, 10)
	l.Log(1, 9)

	var buf strings.Builder
	if _, err := l.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo returned error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "time\tmass\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "10") || !strings.Contains(out, "9") {
		t.Fatalf("missing data rows: %q", out)
	}
}

func TestLog2DAutoLogFromSink(t *testing.T) {
	vehicle := compartment.New(10, 1, 1, 1, "vehicle")
	layer := compartment.New(10, 1, 1, 1, "layer")
	sink := compartment.NewSink(compartment.PerfectSink, 2.0, 1.0, 1.0, "sink")

	g := geometry.New()
	if !g.Create(geometry.EquiDist, []*compartment.Compartment{vehicle, layer}, 1, sink) {
		t.Fatalf("geometry Create failed")
	}

	conc := make([]float64, g.Size())
	conc[sink.GeometryFromIdx()] = 5.0

	l := NewLog2D(matrixbuilder.DSkin13, 1.0, "sink")
	l.RegisterSink(sink)
	l.LogAuto(0, g, conc, 1.0)

	if l.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", l.Size())
	}
	wantMass := 5.0 * 1.0 * 2.0 / 1.0 // conc * step * A / Vd
	if l.Y(0) != wantMass {
		t.Fatalf("Y(0) = %v, want %v", l.Y(0), wantMass)
	}
}

func TestLog2DAutoLogRespectsInterval(t *testing.T) {
	l := NewLog2D(matrixbuilder.DSkin13, 1.0, "x")
	l.SetLogInterval(5)
	l.LogAuto(1, geometry.New(), []float64{0}, 1.0)
	if l.Size() != 0 {
		t.Fatalf("expected no log at time=1 with interval=5")
	}
	l.LogAuto(5, geometry.New(), []float64{0}, 1.0)
	if l.Size() != 1 {
		t.Fatalf("expected a log at time=5 with interval=5")
	}
}

func TestLog3DSpaceCenterPosition(t *testing.T) {
	l := NewLog3D("layer")
	l.SetConcentrationPosition(Center)
	l.SetStepSizes([]float64{2, 2, 2})

	space := l.Space()
	want := []float64{1, 3, 5}
	for i, w := range want {
		if space[i] != w {
			t.Fatalf("Space()[%d] = %v, want %v", i, space[i], w)
		}
	}
}

func TestLog3DSpaceLeftPosition(t *testing.T) {
	l := NewLog3D("layer")
	l.SetConcentrationPosition(Left)
	l.SetStepSizes([]float64{1, 1, 1})

	space := l.Space()
	want := []float64{0, 1, 2}
	for i, w := range want {
		if space[i] != w {
			t.Fatalf("Space()[%d] = %v, want %v", i, space[i], w)
		}
	}
}

func TestLog3DTimesTruncatedToMinutes(t *testing.T) {
	l := NewLog3D("layer")
	l.Log(1.9, []float64{0})
	if l.Times()[0] != 1 {
		t.Fatalf("Times()[0] = %d, want 1 (truncated)", l.Times()[0])
	}
}

func TestLog3DAutoLogFromCompartment(t *testing.T) {
	vehicle := compartment.New(10, 1, 1, 1, "vehicle")
	layer := compartment.New(10, 1, 1, 1, "layer")
	sink := compartment.NewSink(compartment.PerfectSink, 1.0, 1.0, 1.0, "sink")

	g := geometry.New()
	if !g.Create(geometry.EquiDist, []*compartment.Compartment{vehicle, layer}, 1, sink) {
		t.Fatalf("geometry Create failed")
	}

	conc := make([]float64, g.Size())
	for i := layer.GeometryFromIdx(); i <= layer.GeometryToIdx(); i++ {
		conc[i] = float64(i)
	}

	l := NewLog3D("layer")
	l.RegisterCompartment(layer)
	l.SetStepSizes(g.SpaceSteps()[layer.GeometryFromIdx() : layer.GeometryToIdx()+1])
	l.LogAuto(0, conc, 1.0)

	if len(l.Data()) != 1 {
		t.Fatalf("expected one logged profile")
	}
	if l.Data()[0][0] != float64(layer.GeometryFromIdx()) {
		t.Fatalf("profile[0] = %v, want %v", l.Data()[0][0], layer.GeometryFromIdx())
	}
}
