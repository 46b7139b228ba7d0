package tdmatrix

import "testing"

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func buildTestMatrix() *Matrix {
	// diag {1..5}, off-diagonals {2..5} as used throughout the solver tests.
	m := New(5)
	for i := 0; i < 5; i++ {
		m.SetDiag(i, float64(i+1))
	}
	for i := 0; i < 4; i++ {
		m.SetLower(i, float64(i+2))
		m.SetUpper(i, float64(i+2))
	}
	return m
}

func TestMatVecAndInlineMultiplyAgree(t *testing.T) {
	m := buildTestMatrix()
	v := []float64{1, 2, 3, 4, 5}
	vCopy := append([]float64(nil), v...)

	want := m.MatVec(v)
	m.InlineMultiply(vCopy)

	for i := range want {
		if abs(want[i]-vCopy[i]) > 1e-9 {
			t.Fatalf("index %d: inline=%v matvec=%v", i, vCopy[i], want[i])
		}
	}
}

func TestAbsMax(t *testing.T) {
	m := buildTestMatrix()
	if got := m.AbsMax(); got != 5 {
		t.Fatalf("AbsMax() = %v, want 5", got)
	}
}

func TestMultiplyByDoesNotTouchPrepared(t *testing.T) {
	m := buildTestMatrix()
	m.SetPrepared(true)
	m.MultiplyBy(2)
	if !m.IsPrepared() {
		t.Fatalf("MultiplyBy must not clear Prepared")
	}
}

func TestAtOutOfBandPanics(t *testing.T) {
	m := buildTestMatrix()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-band access")
		}
	}()
	m.At(0, 2)
}

func TestClearResetsPreparedAndBands(t *testing.T) {
	m := buildTestMatrix()
	m.SetPrepared(true)
	m.Clear()
	if m.IsPrepared() {
		t.Fatalf("Clear must reset Prepared")
	}
	if m.Diag(0) != 0 || m.Upper(0) != 0 || m.Lower(0) != 0 {
		t.Fatalf("Clear must zero all bands")
	}
}
