package solve

import (
	"testing"

	"github.com/onwhenrdy/skindiff/internal/tdmatrix"
)

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// buildRefMatrix returns the N=5 fixture used throughout these tests:
// diag {1..5}, off-diagonals {2..5}. It is not diagonally dominant (row 0
// has diag 1 and upper 2), but no Thomas elimination pivot is zero.
func buildRefMatrix() *tdmatrix.Matrix {
	m := tdmatrix.New(5)
	for i := 0; i < 5; i++ {
		m.SetDiag(i, float64(i+1))
	}
	for i := 0; i < 4; i++ {
		m.SetLower(i, float64(i+2))
		m.SetUpper(i, float64(i+2))
	}
	return m
}

func checkSolution(t *testing.T, name string, x []float64) {
	t.Helper()
	want := []float64{1, 2, 3, 4, 5}
	for i := range want {
		if abs(x[i]-want[i]) > 1e-9 {
			t.Fatalf("%s: x[%d] = %v, want %v", name, i, x[i], want[i])
		}
	}
}

func TestThomasIP(t *testing.T) {
	m := buildRefMatrix()
	b := []float64{5, 15, 31, 53, 45}
	if err := ThomasIP(m, b); err != nil {
		t.Fatal(err)
	}
	checkSolution(t, "ThomasIP", b)
}

func TestThomasReuseIP(t *testing.T) {
	m := buildRefMatrix()
	b := []float64{5, 15, 31, 53, 45}
	if err := ThomasReuseIP(m, b); err != nil {
		t.Fatal(err)
	}
	checkSolution(t, "ThomasReuseIP", b)
	if !m.IsPrepared() {
		t.Fatalf("ThomasReuseIP must set Prepared after the first call")
	}
}

func TestGaussPivotIP(t *testing.T) {
	m := buildRefMatrix()
	b := []float64{5, 15, 31, 53, 45}
	if err := GaussPivotIP(m, b); err != nil {
		t.Fatal(err)
	}
	checkSolution(t, "GaussPivotIP", b)
}

func TestGaussReusePivotIP(t *testing.T) {
	m := buildRefMatrix()
	b := []float64{5, 15, 31, 53, 45}
	if err := GaussReusePivotIP(m, b); err != nil {
		t.Fatal(err)
	}
	checkSolution(t, "GaussReusePivotIP", b)
}

// TestLUCacheIdempotence verifies that solving twice against a prepared
// matrix with a second right-hand side agrees with solving the second rhs
// against a freshly-unprepared copy via the non-reuse solver.
func TestLUCacheIdempotence(t *testing.T) {
	m := buildRefMatrix()
	b1 := []float64{5, 15, 31, 53, 45}
	if err := ThomasReuseIP(m, b1); err != nil {
		t.Fatal(err)
	}

	b2 := []float64{2, 4, 6, 8, 10}
	if err := ThomasReuseIP(m, b2); err != nil {
		t.Fatal(err)
	}

	fresh := buildRefMatrix()
	b2Fresh := []float64{2, 4, 6, 8, 10}
	if err := ThomasIP(fresh, b2Fresh); err != nil {
		t.Fatal(err)
	}

	for i := range b2 {
		if abs(b2[i]-b2Fresh[i]) > 1e-9 {
			t.Fatalf("cached/uncached mismatch at %d: %v vs %v", i, b2[i], b2Fresh[i])
		}
	}
}

func TestSizeMismatchReturnsError(t *testing.T) {
	m := buildRefMatrix()
	if err := ThomasIP(m, []float64{1, 2}); err == nil {
		t.Fatalf("expected error on size mismatch")
	}
}
