// Package compartment defines the passive parameter records describing a
// layer of material in the stack (Compartment) and the terminal drain
// (Sink), plus their assigned cell ranges within a Geometry.
package compartment

// Compartment is a contiguous slab of material with uniform diffusion
// coefficient D, partition coefficient K, and cross-sectional area A. The
// vehicle and every membrane layer are represented by one Compartment each.
type Compartment struct {
	name        string
	size        int // thickness, in um
	d           float64
	k           float64
	a           float64
	geoFrom     int
	geoTo       int
	cInit       float64
	finiteDose  bool
}

// New returns a Compartment with the given thickness (um), diffusion
// coefficient, partition coefficient, area, and name. FiniteDose defaults
// to true, as in the original engine.
func New(size int, d, k, a float64, name string) *Compartment {
	c := &Compartment{name: name, finiteDose: true}
	c.SetSize(size)
	c.SetD(d)
	c.SetK(k)
	c.SetA(a)
	return c
}

// Name returns the compartment's display name.
func (c *Compartment) Name() string { return c.name }

// SetName sets the compartment's display name.
func (c *Compartment) SetName(name string) { c.name = name }

// Size returns the thickness in micrometers.
func (c *Compartment) Size() int { return c.size }

// SetSize sets the thickness. Values less than 1 are silently ignored,
// matching the original's guard semantics (the numerical core assumes
// validated inputs per the error-handling policy).
func (c *Compartment) SetSize(size int) {
	if size >= 1 {
		c.size = size
	}
}

// D returns the diffusion coefficient in um^2/min.
func (c *Compartment) D() float64 { return c.d }

// SetD sets the diffusion coefficient. Negative values are ignored.
func (c *Compartment) SetD(d float64) {
	if d >= 0 {
		c.d = d
	}
}

// A returns the cross-sectional area in um^2.
func (c *Compartment) A() float64 { return c.a }

// SetA sets the cross-sectional area. Negative values are ignored; zero is
// permitted as an internal invariant (config-level validation enforces the
// stricter bounds in internal/param).
func (c *Compartment) SetA(a float64) {
	if a >= 0 {
		c.a = a
	}
}

// GeometryFromIdx returns the first cell index assigned to this compartment.
func (c *Compartment) GeometryFromIdx() int { return c.geoFrom }

// GeometryToIdx returns the last cell index assigned to this compartment.
func (c *Compartment) GeometryToIdx() int { return c.geoTo }

// SetGeometryIdx assigns the [from, to] cell range. Panics if from > to,
// matching the original's assertion (a programmer-error precondition: the
// geometry builder is the only caller).
func (c *Compartment) SetGeometryIdx(from, to int) {
	if from > to {
		panic("compartment: geometry range from must be <= to")
	}
	c.geoFrom = from
	c.geoTo = to
}

// CInit returns the initial concentration in mg/um^3.
func (c *Compartment) CInit() float64 { return c.cInit }

// SetCInit sets the initial concentration. Panics if negative.
func (c *Compartment) SetCInit(value float64) {
	if value < 0 {
		panic("compartment: c_init must be >= 0")
	}
	c.cInit = value
}

// K returns the partition coefficient.
func (c *Compartment) K() float64 { return c.k }

// SetK sets the partition coefficient. Values <= 0 are ignored.
func (c *Compartment) SetK(k float64) {
	if k > 0 {
		c.k = k
	}
}

// FiniteDose reports whether the compartment represents a finite reservoir
// (true) or an infinite-dose source held at constant concentration (false).
// Only meaningful for the vehicle compartment.
func (c *Compartment) FiniteDose() bool { return c.finiteDose }

// SetFiniteDose sets the finite-dose flag.
func (c *Compartment) SetFiniteDose(finiteDose bool) { c.finiteDose = finiteDose }
