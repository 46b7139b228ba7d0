// Package tdmatrix implements a tridiagonal band-matrix container used by
// the Crank-Nicolson assembly and solver stages of the diffusion engine.
package tdmatrix

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a tridiagonal band matrix of size N x N, stored as three dense
// bands (diag, lower, upper) plus two bands that only become meaningful once
// a pivoted-reuse solve has prepared the matrix (superUpper, pivot).
//
// Once Prepared is true the bands no longer hold the original matrix A but
// its cached LU factors; the owner must clear the flag before reusing the
// value for a different matrix.
type Matrix struct {
	diag      []float64
	lower     []float64
	upper     []float64
	superUpper []float64
	pivot     []int
	prepared  bool
}

// New returns a zero-initialized tridiagonal matrix of the given size.
// Size must be at least 2.
func New(size int) *Matrix {
	if size < 2 {
		panic("tdmatrix: size must be >= 2")
	}
	return &Matrix{
		diag:  make([]float64, size),
		lower: make([]float64, size-1),
		upper: make([]float64, size-1),
	}
}

// Size returns N, the size of the diagonal (the matrix is N x N).
func (m *Matrix) Size() int {
	return len(m.diag)
}

// Diag returns the i-th diagonal element, 0 <= i < Size().
func (m *Matrix) Diag(i int) float64 { return m.diag[i] }

// SetDiag sets the i-th diagonal element.
func (m *Matrix) SetDiag(i int, v float64) { m.diag[i] = v }

// Lower returns the i-th sub-diagonal element, 0 <= i < Size()-1.
func (m *Matrix) Lower(i int) float64 { return m.lower[i] }

// SetLower sets the i-th sub-diagonal element.
func (m *Matrix) SetLower(i int, v float64) { m.lower[i] = v }

// Upper returns the i-th super-diagonal element, 0 <= i < Size()-1.
func (m *Matrix) Upper(i int) float64 { return m.upper[i] }

// SetUpper sets the i-th super-diagonal element.
func (m *Matrix) SetUpper(i int, v float64) { m.upper[i] = v }

// SuperUpper returns the i-th second-super-diagonal element, used only by
// the pivoted-reuse solver after preparation.
func (m *Matrix) SuperUpper(i int) float64 { return m.superUpper[i] }

// FullDiag exposes the diagonal band directly for in-place solver reuse.
func (m *Matrix) FullDiag() []float64 { return m.diag }

// FullLower exposes the sub-diagonal band directly for in-place solver reuse.
func (m *Matrix) FullLower() []float64 { return m.lower }

// FullUpper exposes the super-diagonal band directly for in-place solver reuse.
func (m *Matrix) FullUpper() []float64 { return m.upper }

// FullSuperUpper returns (allocating on first use) the second
// super-diagonal band used by the pivoted-reuse solver.
func (m *Matrix) FullSuperUpper() []float64 {
	if m.superUpper == nil {
		m.superUpper = make([]float64, m.Size()-2)
	}
	return m.superUpper
}

// FullPivot returns (allocating on first use) the permutation vector used
// by the pivoted-reuse solver.
func (m *Matrix) FullPivot() []int {
	if m.pivot == nil {
		m.pivot = make([]int, m.Size())
	}
	return m.pivot
}

// IsPrepared reports whether the bands currently hold LU factors rather
// than the original matrix.
func (m *Matrix) IsPrepared() bool { return m.prepared }

// SetPrepared sets the prepared flag. Setting it true is an irreversible
// reinterpretation of the band contents until the owner explicitly resets
// it to false (typically by rebuilding the matrix from scratch).
func (m *Matrix) SetPrepared(prepared bool) { m.prepared = prepared }

// At returns the (i,j) element. Valid only for |i-j| <= 1; accessing
// outside the band is a programmer error and panics.
func (m *Matrix) At(i, j int) float64 {
	switch j - i {
	case 0:
		return m.diag[i]
	case 1:
		return m.upper[i]
	case -1:
		return m.lower[j]
	default:
		panic(fmt.Sprintf("tdmatrix: (%d,%d) is outside the tridiagonal band", i, j))
	}
}

// SetAt sets the (i,j) element. Valid only for |i-j| <= 1.
func (m *Matrix) SetAt(i, j int, v float64) {
	switch j - i {
	case 0:
		m.diag[i] = v
	case 1:
		m.upper[i] = v
	case -1:
		m.lower[j] = v
	default:
		panic(fmt.Sprintf("tdmatrix: (%d,%d) is outside the tridiagonal band", i, j))
	}
}

// Clear zeroes every band and resets the prepared flag.
func (m *Matrix) Clear() {
	for i := range m.diag {
		m.diag[i] = 0
	}
	for i := range m.lower {
		m.lower[i] = 0
	}
	for i := range m.upper {
		m.upper[i] = 0
	}
	m.superUpper = nil
	m.pivot = nil
	m.prepared = false
}

// Max returns the largest signed element across all three bands.
func (m *Matrix) Max() float64 {
	max := math.Inf(-1)
	for _, v := range m.diag {
		if v > max {
			max = v
		}
	}
	for _, v := range m.lower {
		if v > max {
			max = v
		}
	}
	for _, v := range m.upper {
		if v > max {
			max = v
		}
	}
	return max
}

// AbsMax returns the largest |element| across all three bands. Used by the
// matrix builder to size the time sub-step.
func (m *Matrix) AbsMax() float64 {
	max := 0.0
	for _, v := range m.diag {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	for _, v := range m.lower {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	for _, v := range m.upper {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}

// IsDiagonalDominant reports whether |diag(i)| >= |lower(i-1)| + |upper(i)|
// for every row.
func (m *Matrix) IsDiagonalDominant() bool {
	n := m.Size()
	for i := 0; i < n; i++ {
		off := 0.0
		if i > 0 {
			off += math.Abs(m.lower[i-1])
		}
		if i < n-1 {
			off += math.Abs(m.upper[i])
		}
		if math.Abs(m.diag[i]) < off {
			return false
		}
	}
	return true
}

// MultiplyBy scales every band element by val. Does not touch Prepared.
func (m *Matrix) MultiplyBy(val float64) {
	for i := range m.diag {
		m.diag[i] *= val
	}
	for i := range m.lower {
		m.lower[i] *= val
	}
	for i := range m.upper {
		m.upper[i] *= val
	}
}

// MatVec returns y = A*v out of place. Requires len(v) == Size() and
// Size() > 1.
func (m *Matrix) MatVec(v []float64) []float64 {
	n := m.Size()
	if len(v) != n || n <= 1 {
		panic("tdmatrix: MatVec size mismatch")
	}
	result := make([]float64, n)
	result[0] = v[0]*m.diag[0] + v[1]*m.upper[0]
	for i := 1; i < n-1; i++ {
		result[i] = m.lower[i-1]*v[i-1] + m.diag[i]*v[i] + m.upper[i]*v[i+1]
	}
	idx := n - 1
	result[idx] = m.lower[idx-1]*v[idx-1] + m.diag[idx]*v[idx]
	return result
}

// InlineMultiply computes y = A*v and overwrites v with y, using a single
// scalar of carry so no scratch vector is allocated. It must preserve the
// mathematical result of MatVec to within floating-point associativity.
func (m *Matrix) InlineMultiply(v []float64) {
	n := m.Size()
	if len(v) != n || n <= 1 {
		panic("tdmatrix: InlineMultiply size mismatch")
	}

	tmp := v[0]
	v[0] = v[0]*m.diag[0] + v[1]*m.upper[0]
	for i := 1; i < n-1; i++ {
		oldVi := v[i]
		v[i] = m.lower[i-1]*tmp + m.diag[i]*oldVi + m.upper[i]*v[i+1]
		tmp = oldVi
	}
	idx := n - 1
	v[idx] = m.lower[idx-1]*tmp + m.diag[idx]*v[idx]
}

// String renders the matrix as a dense grid, for debugging.
func (m *Matrix) String() string {
	n := m.Size()
	var b strings.Builder
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var v float64
			if j-i >= -1 && j-i <= 1 {
				v = m.At(i, j)
			}
			fmt.Fprintf(&b, "%10.4g", v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
