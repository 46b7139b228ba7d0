package plotting

import (
	"path/filepath"
	"testing"

	"github.com/onwhenrdy/skindiff/internal/logger"
	"github.com/onwhenrdy/skindiff/internal/matrixbuilder"
)

func TestRenderMassWritesFile(t *testing.T) {
	l := logger.NewLog2D(matrixbuilder.DSkin13, 1.0, "sink")
	l.Log(0, 10)
	l.Log(1, 8)
	l.Log(2, 6)

	path := filepath.Join(t.TempDir(), "mass.png")
	if err := RenderMass(l, path); err != nil {
		t.Fatalf("RenderMass returned error: %v", err)
	}
}

func TestRenderProfileWritesFile(t *testing.T) {
	l := logger.NewLog3D("layer")
	l.SetStepSizes([]float64{1, 1, 1})
	l.SetConcentrationPosition(logger.Center)
	l.Log(0, []float64{1, 2, 3})
	l.Log(1, []float64{0.8, 1.6, 2.4})

	path := filepath.Join(t.TempDir(), "profile.png")
	if err := RenderProfile(l, path); err != nil {
		t.Fatalf("RenderProfile returned error: %v", err)
	}
}
