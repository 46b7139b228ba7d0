// Package solve implements the four tridiagonal solver kernels used by the
// diffusion engine: plain and cached-factorization variants of the Thomas
// algorithm and of pivoted Gaussian elimination. All solvers operate
// in-place on the right-hand-side vector.
package solve

import (
	"fmt"
	"math"

	"github.com/onwhenrdy/skindiff/internal/tdmatrix"
)

// ThomasIP solves A*x = b in place on b, leaving A untouched. Requires a
// strictly diagonally dominant A; the caller guarantees this, and
// violations are undefined behavior (no runtime check is performed on the
// hot path, matching the numerical core's "validated inputs" policy).
func ThomasIP(a *tdmatrix.Matrix, rhs []float64) error {
	n := a.Size()
	if n != len(rhs) {
		return fmt.Errorf("solve: size mismatch: matrix=%d rhs=%d", n, len(rhs))
	}

	cStar := append([]float64(nil), a.FullUpper()...)

	cStar[0] = cStar[0] / a.Diag(0)
	for i := 1; i < n-1; i++ {
		cStar[i] = cStar[i] / (a.Diag(i) - cStar[i-1]*a.Lower(i-1))
	}

	rhs[0] = rhs[0] / a.Diag(0)
	for i := 1; i < n; i++ {
		rhs[i] = (rhs[i] - rhs[i-1]*a.Lower(i-1)) / (a.Diag(i) - cStar[i-1]*a.Lower(i-1))
	}

	for i := n - 2; i >= 0; i-- {
		rhs[i] = rhs[i] - cStar[i]*rhs[i+1]
	}
	return nil
}

// ThomasReuseIP solves A*x = b in place on b. The first call against an
// unprepared matrix overwrites A's upper band with the elimination
// coefficients and its diagonal band with the post-elimination diagonal,
// then marks A prepared. Subsequent calls against the same (now prepared)
// matrix skip straight to the forward sweep and back-substitution, reusing
// the cached factors. This is the solver the engine uses exclusively on
// the Crank-Nicolson LHS matrix.
func ThomasReuseIP(a *tdmatrix.Matrix, rhs []float64) error {
	n := a.Size()
	if n != len(rhs) {
		return fmt.Errorf("solve: size mismatch: matrix=%d rhs=%d", n, len(rhs))
	}

	cStar := a.FullUpper()
	cDiag := a.FullDiag()

	if !a.IsPrepared() {
		cStar[0] = cStar[0] / cDiag[0]
		for i := 1; i < n-1; i++ {
			cStar[i] = cStar[i] / (cDiag[i] - cStar[i-1]*a.Lower(i-1))
		}
		for i := 1; i < n; i++ {
			cDiag[i] = cDiag[i] - cStar[i-1]*a.Lower(i-1)
		}
		a.SetPrepared(true)
	}

	rhs[0] = rhs[0] / cDiag[0]
	for i := 1; i < n; i++ {
		rhs[i] = (rhs[i] - rhs[i-1]*a.Lower(i-1)) / cDiag[i]
	}

	for i := n - 2; i >= 0; i-- {
		rhs[i] = rhs[i] - cStar[i]*rhs[i+1]
	}
	return nil
}

// GaussPivotIP solves A*x = b in place on b using Gaussian elimination with
// partial pivoting between adjacent rows, leaving A untouched (it operates
// on copies of the bands). Requires Size() >= 2.
func GaussPivotIP(a *tdmatrix.Matrix, rhs []float64) error {
	n := a.Size()
	if n < 2 {
		return fmt.Errorf("solve: GaussPivotIP requires size >= 2, got %d", n)
	}
	if n != len(rhs) {
		return fmt.Errorf("solve: size mismatch: matrix=%d rhs=%d", n, len(rhs))
	}

	du := append([]float64(nil), a.FullUpper()...)
	d := append([]float64(nil), a.FullDiag()...)
	dl := append([]float64(nil), a.FullLower()...)

	var i int
	for i = 0; i < n-2; i++ {
		if math.Abs(d[i]) >= math.Abs(dl[i]) {
			fact := dl[i] / d[i]
			d[i+1] -= fact * du[i]
			rhs[i+1] -= fact * rhs[i]
			dl[i] = 0
		} else {
			fact := d[i] / dl[i]
			d[i] = dl[i]
			temp := d[i+1]
			d[i+1] = du[i] - fact*temp
			dl[i] = du[i+1]
			du[i+1] = -fact * dl[i]
			du[i] = temp
			temp = rhs[i]
			rhs[i] = rhs[i+1]
			rhs[i+1] = temp - fact*rhs[i+1]
		}
	}

	// i == n-2
	if math.Abs(d[i]) >= math.Abs(dl[i]) {
		fact := dl[i] / d[i]
		d[i+1] -= fact * du[i]
		rhs[i+1] -= fact * rhs[i]
	} else {
		fact := d[i] / dl[i]
		d[i] = dl[i]
		temp := d[i+1]
		d[i+1] = du[i] - fact*temp
		du[i] = temp
		temp = rhs[i]
		rhs[i] = rhs[i+1]
		rhs[i+1] = temp - fact*rhs[i+1]
	}

	rhs[n-1] /= d[n-1]
	rhs[n-2] = (rhs[n-2] - du[n-2]*rhs[n-1]) / d[n-2]
	for i = n - 3; i >= 0; i-- {
		rhs[i] = (rhs[i] - du[i]*rhs[i+1] - dl[i]*rhs[i+2]) / d[i]
	}
	return nil
}

// GaussReusePivotIP solves A*x = b in place on b. The first call against an
// unprepared matrix factorizes A, writing multipliers into A's lower band,
// the second super-diagonal into A's super-upper band, and the pivot
// permutation into A's pivot band, then marks A prepared. Subsequent calls
// apply the stored permutation and run the L-solve then U-solve against the
// cached factors. Requires Size() >= 2.
func GaussReusePivotIP(a *tdmatrix.Matrix, rhs []float64) error {
	n := a.Size()
	if n < 2 {
		return fmt.Errorf("solve: GaussReusePivotIP requires size >= 2, got %d", n)
	}
	if n != len(rhs) {
		return fmt.Errorf("solve: size mismatch: matrix=%d rhs=%d", n, len(rhs))
	}

	du := a.FullUpper()
	d := a.FullDiag()
	dl := a.FullLower()
	du2 := a.FullSuperUpper()
	ipiv := a.FullPivot()

	if !a.IsPrepared() {
		for i := 0; i < n; i++ {
			ipiv[i] = i
		}
		for i := 0; i < n-2; i++ {
			du2[i] = 0
		}

		var i int
		for i = 0; i < n-2; i++ {
			if math.Abs(d[i]) >= math.Abs(dl[i]) {
				fact := dl[i] / d[i]
				dl[i] = fact
				d[i+1] -= fact * du[i]
			} else {
				fact := d[i] / dl[i]
				d[i] = dl[i]
				dl[i] = fact
				temp := du[i]
				du[i] = d[i+1]
				d[i+1] = temp - fact*d[i+1]
				du2[i] = du[i+1]
				du[i+1] = -fact * du[i+1]
				ipiv[i] = i + 1
			}
		}
		// i == n-2
		if math.Abs(d[i]) >= math.Abs(dl[i]) {
			fact := dl[i] / d[i]
			dl[i] = fact
			d[i+1] -= fact * du[i]
		} else {
			fact := d[i] / dl[i]
			d[i] = dl[i]
			dl[i] = fact
			temp := du[i]
			du[i] = d[i+1]
			d[i+1] = temp - fact*d[i+1]
			ipiv[i] = i + 1
		}

		a.SetPrepared(true)
	}

	for i := 0; i < n-1; i++ {
		ip := ipiv[i]
		temp := rhs[2*i+1-ip] - dl[i]*rhs[ip]
		rhs[i] = rhs[ip]
		rhs[i+1] = temp
	}

	rhs[n-1] /= d[n-1]
	rhs[n-2] = (rhs[n-2] - du[n-2]*rhs[n-1]) / d[n-2]
	for i := n - 3; i >= 0; i-- {
		rhs[i] = (rhs[i] - du[i]*rhs[i+1] - du2[i]*rhs[i+2]) / d[i]
	}
	return nil
}
