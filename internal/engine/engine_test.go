package engine

import (
	"testing"

	"github.com/onwhenrdy/skindiff/internal/param"
)

func baseParameter() param.Parameter {
	p := param.New()
	p.Vehicle.Name = "Vehicle"
	p.Sink.Name = "Sink"
	p.System.SimulationTime = 5
	p.Layers = append(p.Layers, param.NewLayerParameter())
	p.Layers[0].Name = "Stratum Corneum"
	return p
}

func TestRunProducesConcentrationChange(t *testing.T) {
	p := baseParameter()
	e, err := New(p)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	before := append([]float64(nil), e.Concentrations()...)
	result, err := e.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != Executed {
		t.Fatalf("Run() = %v, want Executed", result)
	}

	after := e.Concentrations()
	changed := false
	for i := range before {
		if before[i] != after[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatalf("expected concentrations to change after %d minutes", e.SimTime())
	}
}

func TestRunWithReplaceEvent(t *testing.T) {
	p := baseParameter()
	p.Vehicle.ReplaceAfter = 2
	p.System.SimulationTime = 6

	e, err := New(p)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := e.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != Executed {
		t.Fatalf("Run() = %v, want Executed", result)
	}

	donor := e.Compartments()[0]
	for i := donor.GeometryFromIdx(); i <= donor.GeometryToIdx(); i++ {
		if e.Concentrations()[i] != donor.CInit() {
			t.Fatalf("expected donor cell %d reset to CInit after replace event", i)
		}
	}
}

func TestRunWithRemoveEvent(t *testing.T) {
	p := baseParameter()
	p.Vehicle.RemoveAt = 2
	p.System.SimulationTime = 4

	e, err := New(p)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	sizeBefore := e.Geometry().Size()

	result, err := e.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != Executed {
		t.Fatalf("Run() = %v, want Executed", result)
	}

	if len(e.Compartments()) != 1 {
		t.Fatalf("expected the vehicle compartment to be removed, got %d compartments", len(e.Compartments()))
	}
	if e.Geometry().Size() >= sizeBefore {
		t.Fatalf("expected the geometry to shrink after removing the vehicle")
	}
	if len(e.Concentrations()) != e.Geometry().Size() {
		t.Fatalf("concentration vector size %d does not match geometry size %d", len(e.Concentrations()), e.Geometry().Size())
	}
}

type stopAtHooks struct {
	NoopHooks
	stopAt int
}

func (h stopAtHooks) TestForStop(iteration int) bool { return iteration >= h.stopAt }

func TestRunStopsEarlyViaHook(t *testing.T) {
	p := baseParameter()
	p.System.SimulationTime = 10

	e, err := New(p)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	e.SetHooks(stopAtHooks{stopAt: 3})

	result, err := e.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != Stopped {
		t.Fatalf("Run() = %v, want Stopped", result)
	}
}

type failingInitHooks struct{ NoopHooks }

func (failingInitHooks) InitRun() bool { return false }

func TestRunFailsWhenInitRunFails(t *testing.T) {
	p := baseParameter()
	e, err := New(p)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	e.SetHooks(failingInitHooks{})

	result, err := e.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != Failed {
		t.Fatalf("Run() = %v, want Failed", result)
	}
}

func TestWriteLogsToFiles(t *testing.T) {
	p := baseParameter()
	p.Log.WorkingDir = t.TempDir() + "/"
	p.Log.Tag = "test"

	e, err := New(p)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := e.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if err := e.WriteLogsToFiles(); err != nil {
		t.Fatalf("WriteLogsToFiles returned error: %v", err)
	}
}
