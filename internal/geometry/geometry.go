// Package geometry builds the per-cell space-step vector and assigns cell
// ranges to compartments and the sink, for both equidistant meshes and
// Babuska-Kloker geometric-refinement meshes.
package geometry

import (
	"math"

	"github.com/onwhenrdy/skindiff/internal/compartment"
)

// DiscMethod selects the spatial discretization scheme.
type DiscMethod int

const (
	// EquiDist lays out every cell with the same width, 1/ssPerUm.
	EquiDist DiscMethod = iota
	// BK builds a Babuska-Kloker geometric-refinement mesh with matched
	// transition zones at every interior interface.
	BK
)

// String renders the discretization method the way config files spell it.
func (m DiscMethod) String() string {
	switch m {
	case EquiDist:
		return "EQUIDIST"
	case BK:
		return "BK"
	default:
		return "unknown"
	}
}

// FromString parses a discretization method name, case-insensitively.
func FromString(s string) (DiscMethod, bool) {
	switch upper(s) {
	case "EQUIDIST":
		return EquiDist, true
	case "BK":
		return BK, true
	default:
		return EquiDist, false
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// maxNewtonRestarts bounds findOptTransition's outer safety loop: the
// original algorithm has no proof of termination for adversarial eta.
const maxNewtonRestarts = 10

// Geometry holds the ordered sequence of space steps produced by Create,
// together with the method, min/max step size, and the actually-used
// refinement ratio (only meaningful for BK).
type Geometry struct {
	spaceSteps     []float64
	minStep        float64
	maxStep        float64
	method         DiscMethod
	valid          bool
	eta            float64
	calculatedEta  float64
}

// New returns a Geometry with the default transition ratio eta = 0.6.
func New() *Geometry {
	return &Geometry{minStep: 1, maxStep: 1, eta: 0.6}
}

// Eta returns the user-requested transition ratio (BK only).
func (g *Geometry) Eta() float64 { return g.eta }

// SetEta sets the user-requested transition ratio, eta in (0, 1].
func (g *Geometry) SetEta(eta float64) { g.eta = eta }

// CalculatedEta returns the actually-used refinement ratio after Create
// has run with method BK (the Newton solve may adjust eta slightly to hit
// an integer micrometer boundary).
func (g *Geometry) CalculatedEta() float64 { return g.calculatedEta }

// SpaceSteps returns the per-cell width vector, in micrometers.
func (g *Geometry) SpaceSteps() []float64 { return g.spaceSteps }

// Size returns the total number of cells.
func (g *Geometry) Size() int { return len(g.spaceSteps) }

// MinSpaceStep returns the smallest cell width.
func (g *Geometry) MinSpaceStep() float64 { return g.minStep }

// MaxSpaceStep returns the largest cell width.
func (g *Geometry) MaxSpaceStep() float64 { return g.maxStep }

// Method returns the discretization method used by the last Create call.
func (g *Geometry) Method() DiscMethod { return g.method }

// Valid reports whether the last Create call produced a non-empty mesh.
func (g *Geometry) Valid() bool { return g.valid }

// Create lays out compartments (first = vehicle, ... last = deepest layer)
// and an optional sink on a mesh of the given method at ssPerUm
// subdivisions per micrometer, assigning each compartment (and the sink)
// its [from, to] cell range. Returns false only when the resulting cell
// count is zero or the method is unrecognized.
func (g *Geometry) Create(method DiscMethod, compartments []*compartment.Compartment, ssPerUm int, sink *compartment.Sink) bool {
	g.method = method
	cSize := len(compartments)
	if cSize == 0 {
		panic("geometry: Create requires at least one compartment")
	}

	g.spaceSteps = g.spaceSteps[:0]
	g.minStep = 1
	g.maxStep = 1

	if method == EquiDist || ssPerUm == 1 || cSize == 1 {
		ss := 1.0 / float64(ssPerUm)
		size := 0
		counter := 0
		for _, c := range compartments {
			compSize := c.Size()
			startIdx := counter
			counter += compSize*ssPerUm - 1
			c.SetGeometryIdx(startIdx, counter)
			counter++
			size += compSize
		}

		size *= ssPerUm
		if sink != nil {
			size++
			sink.SetGeometryIdx(counter, counter)
		}

		g.valid = size > 0
		if !g.valid {
			return false
		}

		g.minStep = ss
		g.maxStep = ss
		g.spaceSteps = make([]float64, size)
		for i := range g.spaceSteps {
			g.spaceSteps[i] = ss
		}
		return true
	}

	if method == BK {
		const eps = 1.0e-13
		g.calculatedEta = g.eta
		nTransEles := 1
		nTransSize := 1
		ssBoundary := 1.0 / float64(ssPerUm)
		nTransEles, g.calculatedEta, nTransSize, ssBoundary = findOptTransition(g.calculatedEta, ssBoundary, eps)

		// build the symmetric transition vector
		transVec := make([]float64, 0, nTransEles*2)
		ss := 1.0
		for i := 0; i < nTransEles-1; i++ {
			ss *= g.calculatedEta
			transVec = append(transVec, ss)
		}
		transVec = append(transVec, ss)
		for i := nTransEles - 1; i >= 0; i-- {
			transVec = append(transVec, transVec[i])
		}

		counter := 0
		cCarry := 0
		tVecSize := len(transVec)
		for i := 0; i < cSize; i++ {
			c := compartments[i]
			startIdx := counter
			trim := nTransSize
			if i != 0 && i != cSize-1 {
				trim = nTransSize * 2
			}
			size := c.Size() - trim
			if size < 0 {
				panic("geometry: compartment too thin for the requested BK transition")
			}
			for j := 0; j < size; j++ {
				g.spaceSteps = append(g.spaceSteps, 1.0)
				counter++
			}
			if i < cSize-1 {
				counter += tVecSize / 2
				g.spaceSteps = append(g.spaceSteps, transVec...)
			}
			counter += cCarry
			endIdx := counter - 1
			cCarry = tVecSize / 2
			c.SetGeometryIdx(startIdx, endIdx)
		}

		if sink != nil {
			g.spaceSteps = append(g.spaceSteps, 1.0)
			sink.SetGeometryIdx(counter, counter)
		}

		g.valid = true
		g.maxStep = 1.0
		g.minStep = ssBoundary
		return true
	}

	g.valid = false
	return false
}

// Remove excises the cell range [fromIdx, toIdx) and recomputes min/max by
// linear scan. The engine uses this when the vehicle compartment is
// removed mid-run.
func (g *Geometry) Remove(fromIdx, toIdx int) {
	g.spaceSteps = append(g.spaceSteps[:fromIdx], g.spaceSteps[toIdx:]...)

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range g.spaceSteps {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	g.minStep = min
	g.maxStep = max
}

// findOptTransition returns the number of transition elements n, the
// refined ratio x, the transition size in micrometers a, and the final
// boundary step size (x^(n-1), which becomes the geometry's min step),
// such that the one-sided geometric power sum with doubled last element
// (see powerSeriesDoubleLastElement) equals an integer number of
// micrometers and x^(n-1) <= deltaX. Bounded by maxNewtonRestarts outer
// restarts.
func findOptTransition(startX, deltaX, err float64) (n int, x float64, a int, finalDeltaX float64) {
	x = startX
	n = int(math.Ceil(math.Log10(deltaX) / math.Log10(startX)))
	a = int(math.Ceil(powerSeriesDoubleLastElement(n, startX)))
	x = findOptimalX(startX, n, float64(a), err)

	for i := 0; math.Pow(x, float64(n-1)) > deltaX && i < maxNewtonRestarts; i++ {
		n++
		a = int(math.Ceil(powerSeriesDoubleLastElement(n, startX)))
		x = findOptimalX(startX, n, float64(a), err)
	}
	finalDeltaX = math.Pow(x, float64(n-1))
	return n, x, a, finalDeltaX
}

// findOptimalX solves powerSeriesDoubleLastElement(n, x) == a for x via a
// secant-approximated Newton iteration, starting from startX.
func findOptimalX(startX float64, n int, a, err float64) float64 {
	x := startX
	oldX := x + 2*err

	dx := math.Nextafter(1, 2) - 1 // machine epsilon
	for math.Abs(oldX-x) > err {
		oldX = x
		fx := powerSeriesDoubleLastElement(n, x) - a
		fdx := powerSeriesDoubleLastElement(n, x+dx) - a
		x -= fx * dx / (fdx - fx)
	}
	return x
}

// powerSeriesDoubleLastElement returns x + x^2 + ... + x^(n-1) + x^(n-1)
// (the last term counted twice), matching the two equal boundary elements
// of the symmetric transition zone.
func powerSeriesDoubleLastElement(n int, x float64) float64 {
	sum := 0.0
	lastComp := 1.0
	for i := 1; i < n; i++ {
		lastComp *= x
		sum += lastComp
	}
	sum += lastComp
	return sum
}
