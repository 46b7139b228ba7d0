package geometry

import (
	"testing"

	"github.com/onwhenrdy/skindiff/internal/compartment"
)

func TestEquidistantMassContinuity(t *testing.T) {
	vehicle := compartment.New(10, 1, 1, 1, "vehicle")
	layer := compartment.New(10, 1, 1, 1, "layer")
	sink := compartment.NewSink(compartment.PerfectSink, 1, 1, 1, "sink")

	g := New()
	ok := g.Create(EquiDist, []*compartment.Compartment{vehicle, layer}, 1, sink)
	if !ok {
		t.Fatalf("Create returned false")
	}

	wantSize := (10 + 10) + 1 // sum(h_k)*ss_per_um + sink
	if g.Size() != wantSize {
		t.Fatalf("Size() = %d, want %d", g.Size(), wantSize)
	}
	for _, ss := range g.SpaceSteps() {
		if ss != 1.0 {
			t.Fatalf("space step = %v, want 1.0", ss)
		}
	}
	if vehicle.GeometryFromIdx() != 0 || vehicle.GeometryToIdx() != 9 {
		t.Fatalf("vehicle range = [%d,%d], want [0,9]", vehicle.GeometryFromIdx(), vehicle.GeometryToIdx())
	}
	if layer.GeometryFromIdx() != 10 || layer.GeometryToIdx() != 19 {
		t.Fatalf("layer range = [%d,%d], want [10,19]", layer.GeometryFromIdx(), layer.GeometryToIdx())
	}
	if sink.GeometryFromIdx() != 20 || sink.GeometryToIdx() != 20 {
		t.Fatalf("sink range = [%d,%d], want [20,20]", sink.GeometryFromIdx(), sink.GeometryToIdx())
	}
}

func TestEquidistantResolution(t *testing.T) {
	vehicle := compartment.New(10, 1, 1, 1, "vehicle")
	layer := compartment.New(10, 1, 1, 1, "layer")
	sink := compartment.NewSink(compartment.PerfectSink, 1, 1, 1, "sink")

	g := New()
	ok := g.Create(EquiDist, []*compartment.Compartment{vehicle, layer}, 5, sink)
	if !ok {
		t.Fatalf("Create returned false")
	}
	if got, want := g.Size(), 20*5+1; got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}
	if got, want := g.MinSpaceStep(), 1.0/5.0; got != want {
		t.Fatalf("MinSpaceStep() = %v, want %v", got, want)
	}
}

func TestBKMeshFinerThanEquidistant(t *testing.T) {
	vehicle := compartment.New(10, 1, 1, 1, "vehicle")
	layer := compartment.New(10, 1, 1, 1, "layer")
	sink := compartment.NewSink(compartment.PerfectSink, 1, 1, 1, "sink")

	g := New()
	g.SetEta(0.6)
	ok := g.Create(BK, []*compartment.Compartment{vehicle, layer}, 5, sink)
	if !ok {
		t.Fatalf("Create returned false")
	}
	if g.Size() <= 20*5 {
		t.Fatalf("expected BK mesh to have more cells than the equivalent equidistant mesh (n_cells > 100), got %d", g.Size())
	}
	if g.MinSpaceStep() >= 1.0/5.0 {
		t.Fatalf("MinSpaceStep() = %v, want < 0.2", g.MinSpaceStep())
	}
}

func TestRemoveRecomputesMinMax(t *testing.T) {
	g := &Geometry{spaceSteps: []float64{1, 1, 0.5, 1, 1}}
	g.Remove(0, 3)
	if g.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", g.Size())
	}
	if g.MinSpaceStep() != 1 || g.MaxSpaceStep() != 1 {
		t.Fatalf("min/max = %v/%v, want 1/1", g.MinSpaceStep(), g.MaxSpaceStep())
	}
}
