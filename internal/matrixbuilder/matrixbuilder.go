// Package matrixbuilder assembles the Crank-Nicolson left- and right-hand
// side tridiagonal matrices for the three supported discretization
// schemes (DSkin_1_3, DSkin_1_4, DSkin_1_5) and computes the per-minute
// sub-step count.
package matrixbuilder

import (
	"errors"
	"fmt"
	"math"

	"github.com/onwhenrdy/skindiff/internal/compartment"
	"github.com/onwhenrdy/skindiff/internal/geometry"
	"github.com/onwhenrdy/skindiff/internal/tdmatrix"
)

// Method selects the matrix-assembly scheme.
type Method int

const (
	// DSkin13 uses central-node concentrations with back-flux and area
	// correction factors.
	DSkin13 Method = iota
	// DSkin14 uses edge concentrations in Crank-Nicolson form, with
	// partition- and area-weighted harmonic-mean diffusivities.
	DSkin14
	// DSkin15 is DSkin14 with K replaced by K*A and the area clamp
	// dropped; the fastest variant and the recommended default.
	DSkin15
)

func (m Method) String() string {
	switch m {
	case DSkin13:
		return "DSkin_1_3"
	case DSkin14:
		return "DSkin_1_4"
	case DSkin15:
		return "DSkin_1_5"
	default:
		return "unknown"
	}
}

// FromString parses a method name as produced by String.
func FromString(s string) (Method, bool) {
	switch s {
	case "DSkin_1_3":
		return DSkin13, true
	case "DSkin_1_4":
		return DSkin14, true
	case "DSkin_1_5":
		return DSkin15, true
	default:
		return DSkin13, false
	}
}

// ErrInfiniteDoseUnsupported is returned by Builder.Build when the method
// is DSkin13 and the vehicle compartment is marked infinite-dose
// (FiniteDose() == false). The original implementation aborts with an
// assertion in this combination; this implementation treats it as an
// unsupported configuration and reports an error instead (see DESIGN.md's
// Open Question decision).
var ErrInfiniteDoseUnsupported = errors.New("matrixbuilder: DSkin_1_3 does not support an infinite-dose vehicle")

// Builder assembles and holds the RHS/LHS matrices for a single build.
type Builder struct {
	method    Method
	maxModule float64

	matrixRHS *tdmatrix.Matrix
	matrixLHS *tdmatrix.Matrix
	timesteps int
}

// New returns a Builder for the given method with the default max module
// of 50.
func New(method Method) *Builder {
	return &Builder{method: method, maxModule: 50.0, timesteps: 1}
}

// Method returns the assembly scheme.
func (b *Builder) Method() Method { return b.method }

// SetMethod sets the assembly scheme.
func (b *Builder) SetMethod(method Method) { b.method = method }

// MaxModule returns the module threshold used to size the sub-step count.
func (b *Builder) MaxModule() float64 { return b.maxModule }

// SetMaxModule sets the module threshold. Panics if not > 0.
func (b *Builder) SetMaxModule(maxModule float64) {
	if maxModule <= 0 {
		panic("matrixbuilder: max_module must be > 0")
	}
	b.maxModule = maxModule
}

// MatrixRHS returns the assembled right-hand-side matrix.
func (b *Builder) MatrixRHS() *tdmatrix.Matrix { return b.matrixRHS }

// MatrixLHS returns the assembled left-hand-side matrix.
func (b *Builder) MatrixLHS() *tdmatrix.Matrix { return b.matrixLHS }

// Timesteps returns n_ts, the number of inner sub-steps per simulated
// minute (always >= 1).
func (b *Builder) Timesteps() int { return b.timesteps }

// Build assembles MatrixRHS/MatrixLHS for the configured method. The first
// compartment must be the vehicle; the last must be the deepest layer.
func (b *Builder) Build(compartments []*compartment.Compartment, geo *geometry.Geometry, sink *compartment.Sink) error {
	if len(compartments) == 0 {
		panic("matrixbuilder: Build requires at least one compartment")
	}

	switch b.method {
	case DSkin13:
		return b.build13(compartments, geo, sink)
	case DSkin14:
		return b.build14(compartments, geo, sink)
	case DSkin15:
		return b.build15(compartments, geo, sink)
	default:
		panic("matrixbuilder: unknown method")
	}
}

// avgFromIdx returns the arithmetic mean of vec[i] and vec[j].
func avgFromIdx(vec []float64, i, j int) float64 {
	return 0.5 * (vec[i] + vec[j])
}

// harmMeanFromIdx returns the harmonic mean of vec[i] and vec[j].
func harmMeanFromIdx(vec []float64, i, j int) float64 {
	if vec[i] == vec[j] {
		return vec[i]
	}
	return 2.0 * vec[i] * vec[j] / (vec[i] + vec[j])
}

// backFluxCorrection derives the four back-flux damping factors at idx
// from the partition-coefficient vector K, preventing a lower-partition
// neighbor from drawing mass against the intended gradient.
func backFluxCorrection(k []float64, idx int) (k1, k2, k3, k4 float64) {
	k1, k2, k3, k4 = 1.0, 1.0, 1.0, 1.0
	if k[idx+1] > k[idx] {
		k2 = k[idx] / k[idx+1]
	} else {
		k4 = k[idx+1] / k[idx]
	}
	if k[idx-1] > k[idx] {
		k1 = k[idx] / k[idx-1]
	} else {
		k3 = k[idx-1] / k[idx]
	}
	return
}

// areaCorrection derives the two area-clamp factors at idx from the area
// vector A.
func areaCorrection(a []float64, idx int) (v1, v2 float64) {
	v1, v2 = 1.0, 1.0
	if a[idx+1] < a[idx] {
		v1 = a[idx+1] / a[idx]
	}
	if a[idx-1] < a[idx] {
		v2 = a[idx-1] / a[idx]
	}
	return
}

// createParamVector fans each compartment's parameter (selected by fn)
// into its [from, to] cell range; the sink cell inherits the immediately
// preceding cell's value.
func createParamVector(size int, compartments []*compartment.Compartment, fn func(*compartment.Compartment) float64, sink *compartment.Sink) []float64 {
	result := make([]float64, size)
	for _, c := range compartments {
		val := fn(c)
		for i := c.GeometryFromIdx(); i <= c.GeometryToIdx(); i++ {
			result[i] = val
		}
	}
	if sink != nil {
		idx := sink.GeometryFromIdx()
		result[idx] = result[idx-1]
	}
	return result
}

// fromRhs mirrors an assembled RHS matrix into the Crank-Nicolson LHS:
// diag <- 2 - diag, off-diagonals negated.
func fromRhs(rhs *tdmatrix.Matrix) *tdmatrix.Matrix {
	size := rhs.Size()
	res := tdmatrix.New(size)
	for i := 0; i < size-1; i++ {
		res.SetDiag(i, 2.0-rhs.Diag(i))
		res.SetUpper(i, -rhs.Upper(i))
		res.SetLower(i, -rhs.Lower(i))
	}
	res.SetDiag(size-1, 2.0-rhs.Diag(size-1))
	return res
}

func (b *Builder) build13(compartments []*compartment.Compartment, geo *geometry.Geometry, sink *compartment.Sink) error {
	if !compartments[0].FiniteDose() {
		return fmt.Errorf("%w", ErrInfiniteDoseUnsupported)
	}

	sysSize := geo.Size()
	dVec := createParamVector(sysSize, compartments, (*compartment.Compartment).D, sink)
	kVec := createParamVector(sysSize, compartments, (*compartment.Compartment).K, sink)
	aVec := createParamVector(sysSize, compartments, (*compartment.Compartment).A, sink)

	b.matrixRHS = tdmatrix.New(sysSize)
	ss := geo.SpaceSteps()

	// reflecting boundary at x=0
	lDx := ss[0]
	rDx := avgFromIdx(ss, 0, 1)
	b.matrixRHS.SetDiag(0, 2.0*dVec[0]/(lDx*rDx))
	b.matrixRHS.SetUpper(0, dVec[0]*4.0/(rDx*(lDx+rDx)))

	for i := 1; i < sysSize-1; i++ {
		l := avgFromIdx(ss, i, i-1)
		r := avgFromIdx(ss, i, i+1)
		dR := harmMeanFromIdx(dVec, i, i+1)
		dL := harmMeanFromIdx(dVec, i, i-1)

		k1, k2, k3, k4 := backFluxCorrection(kVec, i)
		v1, v2 := areaCorrection(aVec, i)

		lowerVal := dL * k1 * v2 * 2.0 / (l * (l + r))
		midVal := (dL*k3*v2 + dR*k4*v1) / (l * r)
		upperVal := dR * k2 * v1 * 2.0 / (r * (l + r))

		b.matrixRHS.SetDiag(i, midVal)
		b.matrixRHS.SetUpper(i, upperVal)
		b.matrixRHS.SetLower(i-1, lowerVal)
	}

	lDx = avgFromIdx(ss, sysSize-1, sysSize-2)
	rDx = ss[sysSize-1]
	dL := dVec[sysSize-1]
	b.matrixRHS.SetLower(sysSize-2, dL*2.0/(lDx*(lDx+rDx)))

	maxM := b.matrixRHS.AbsMax()
	ts := int(math.Ceil(maxM / b.maxModule))
	if ts < 1 {
		ts = 1
	}
	b.timesteps = ts
	dt := 1.0 / float64(b.timesteps)
	b.matrixRHS.MultiplyBy(dt)

	for i := 0; i < sysSize-1; i++ {
		b.matrixRHS.SetDiag(i, 1.0-b.matrixRHS.Diag(i)/2.0)
		b.matrixRHS.SetLower(i, b.matrixRHS.Lower(i)/2.0)
		b.matrixRHS.SetUpper(i, b.matrixRHS.Upper(i)/2.0)
	}

	// the sink never returns mass to the last layer: deliberately
	// breaks Crank-Nicolson symmetry in the last row (one-way drain).
	b.matrixRHS.SetUpper(sysSize-2, 0.0)

	if sink != nil {
		b.matrixRHS.SetDiag(sysSize-1, 1.0)
		if sink.Type() == compartment.PKCompartment {
			b.matrixRHS.SetDiag(sysSize-1, 1.0-dt*sink.KEl()/2.0)
		}
	}

	b.matrixLHS = fromRhs(b.matrixRHS)
	return nil
}

func (b *Builder) build14(compartments []*compartment.Compartment, geo *geometry.Geometry, sink *compartment.Sink) error {
	return b.buildCrank(compartments, geo, sink, false)
}

func (b *Builder) build15(compartments []*compartment.Compartment, geo *geometry.Geometry, sink *compartment.Sink) error {
	return b.buildCrank(compartments, geo, sink, true)
}

// buildCrank implements both DSkin_1_4 and DSkin_1_5: identical structure,
// differing only in whether K is replaced by K*A (areaAbsorbed=true, 1_5)
// and whether the min(1, A_n/A_c) area clamp is applied (only when
// areaAbsorbed is false, 1_4).
func (b *Builder) buildCrank(compartments []*compartment.Compartment, geo *geometry.Geometry, sink *compartment.Sink, areaAbsorbed bool) error {
	sysSize := geo.Size()
	dVec := createParamVector(sysSize, compartments, (*compartment.Compartment).D, sink)
	kRaw := createParamVector(sysSize, compartments, (*compartment.Compartment).K, sink)
	aVec := createParamVector(sysSize, compartments, (*compartment.Compartment).A, sink)

	kVec := kRaw
	if areaAbsorbed {
		kVec = make([]float64, sysSize)
		for i := range kVec {
			kVec[i] = kRaw[i] * aVec[i]
		}
	}

	areaClamp := func(neighbor, center int) float64 {
		if areaAbsorbed {
			return 1.0
		}
		return math.Min(1.0, aVec[neighbor]/aVec[center])
	}

	b.matrixRHS = tdmatrix.New(sysSize)
	b.matrixLHS = tdmatrix.New(sysSize)
	ss := geo.SpaceSteps()

	// reflecting boundary at x=0
	lC, lR := ss[0], ss[1]
	dC, dR := dVec[0], dVec[1]
	kC, kR := kVec[0], kVec[1]

	h2 := (lC + lR) / 2.0
	upperF := (lC + lR) * dC * dR / (lC*dR + kC/kR*lR*dC) / (h2 * h2)
	upperVal := upperF * kC / kR * areaClamp(1, 0)
	midVal := upperF * areaClamp(1, 0)

	b.matrixRHS.SetDiag(0, midVal)
	b.matrixRHS.SetUpper(0, upperVal)

	for i := 1; i < sysSize-1; i++ {
		lL, lC, lR := ss[i-1], ss[i], ss[i+1]
		dL, dC, dR := dVec[i-1], dVec[i], dVec[i+1]
		kL, kC, kR := kVec[i-1], kVec[i], kVec[i+1]

		h1 := (lL + lC) / 2.0
		h2 := (lC + lR) / 2.0

		lowerF := (lL + lC) * dL * dC / (lL*dC+kL/kC*lC*dL) * 2.0 * h2 / (h1 * h2 * (h1 + h2))
		upperF := (lC + lR) * dC * dR / (lC*dR+kC/kR*lR*dC) * 2.0 * h1 / (h1 * h2 * (h1 + h2))

		lowerVal := lowerF * areaClamp(i-1, i)
		upperVal := upperF * kC / kR * areaClamp(i+1, i)
		midVal := lowerF*kL/kC*areaClamp(i-1, i) + upperF*areaClamp(i+1, i)

		b.matrixRHS.SetDiag(i, midVal)
		b.matrixRHS.SetUpper(i, upperVal)
		b.matrixRHS.SetLower(i-1, lowerVal)
	}

	lL, lC := ss[sysSize-2], ss[sysSize-1]
	dL, dC := dVec[sysSize-2], dVec[sysSize-1]
	kL, kC := kVec[sysSize-2], kVec[sysSize-1]

	h1 := (lL + lC) / 2.0
	lowerF := (lL + lC) * dL * dC / (lL*dC+kL/kC*lC*dL) / (h1 * h1)
	lowerVal := lowerF * areaClamp(sysSize-2, sysSize-1)
	midVal = lowerF * kL / kC * areaClamp(sysSize-2, sysSize-1)

	b.matrixRHS.SetDiag(sysSize-1, midVal)
	b.matrixRHS.SetLower(sysSize-2, lowerVal)

	maxM := b.matrixRHS.AbsMax()
	ts := int(math.Ceil(maxM / b.maxModule))
	if ts < 1 {
		ts = 1
	}
	b.timesteps = ts
	dt := 1.0 / float64(b.timesteps)
	b.matrixRHS.MultiplyBy(dt)

	for i := 0; i < sysSize-1; i++ {
		b.matrixLHS.SetDiag(i, 2.0+b.matrixRHS.Diag(i))
		b.matrixLHS.SetLower(i, -b.matrixRHS.Lower(i))
		b.matrixLHS.SetUpper(i, -b.matrixRHS.Upper(i))
		b.matrixRHS.SetDiag(i, 2.0-b.matrixRHS.Diag(i))
	}

	b.matrixRHS.SetUpper(sysSize-2, 0.0)
	b.matrixLHS.SetUpper(sysSize-2, 0.0)

	if sink != nil {
		b.matrixRHS.SetDiag(sysSize-1, 2.0)
		b.matrixLHS.SetDiag(sysSize-1, 2.0)
		if sink.Type() == compartment.PKCompartment {
			b.matrixRHS.SetDiag(sysSize-1, 2.0-dt*sink.KEl())
			b.matrixLHS.SetDiag(sysSize-1, 2.0+dt*sink.KEl())
		}
	}

	if !compartments[0].FiniteDose() {
		b.matrixRHS.SetDiag(0, 2.0)
		b.matrixLHS.SetDiag(0, 2.0)
		b.matrixRHS.SetUpper(0, 0.0)
		b.matrixLHS.SetUpper(0, 0.0)
	}

	return nil
}
