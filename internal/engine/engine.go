// Package engine assembles a validated parameter set into compartments,
// a geometry, Crank-Nicolson matrices, and loggers, then drives the
// minute-by-minute simulation loop.
package engine

import (
	"github.com/onwhenrdy/skindiff/internal/compartment"
	"github.com/onwhenrdy/skindiff/internal/geometry"
	"github.com/onwhenrdy/skindiff/internal/logger"
	"github.com/onwhenrdy/skindiff/internal/matrixbuilder"
	"github.com/onwhenrdy/skindiff/internal/param"
	"github.com/onwhenrdy/skindiff/internal/solve"
)

// Result reports how a Run terminated.
type Result int

const (
	// Executed means the run completed every simulated minute.
	Executed Result = iota
	// Stopped means a Hooks.TestForStop call aborted the run early.
	Stopped
	// Failed means InitRun or TearDownRun reported failure.
	Failed
)

func (r Result) String() string {
	switch r {
	case Executed:
		return "Executed"
	case Stopped:
		return "Stopped"
	case Failed:
		return "Failed"
	default:
		return "unknown"
	}
}

// Hooks lets a host observe and influence a run without subclassing: set
// up external resources, report progress, or request an early stop.
type Hooks interface {
	InitRun() bool
	TearDownRun() bool
	ProgressCallback(iteration int)
	TestForStop(iteration int) bool
}

// NoopHooks is the default Hooks: always succeeds, never stops early,
// and ignores progress callbacks.
type NoopHooks struct{}

func (NoopHooks) InitRun() bool                { return true }
func (NoopHooks) TearDownRun() bool            { return true }
func (NoopHooks) ProgressCallback(int)         {}
func (NoopHooks) TestForStop(int) bool         { return false }

// Engine holds one fully-assembled run: the compartment stack, sink,
// geometry, Crank-Nicolson matrices, concentration vector, and loggers.
type Engine struct {
	parameter param.Parameter
	hooks     Hooks

	compartments []*compartment.Compartment
	sink         *compartment.Sink
	geo          *geometry.Geometry
	mb           *matrixbuilder.Builder

	concentrations []float64
	scale          float64

	simTime      int
	replaceAfter int
	removeAt     int

	sinkLogger         *logger.Log2D
	compartmentLoggers []*logger.Log2D
	cdpLoggers         []*logger.Log3D
}

// New assembles an Engine from a validated Parameter. The caller should
// have already called Parameter.Validate.
func New(p param.Parameter) (*Engine, error) {
	e := &Engine{
		parameter: p,
		hooks:     NoopHooks{},
		geo:       geometry.New(),
		scale:     1.0,
	}

	vParams := p.Vehicle
	sysParams := p.System
	sinkParams := p.Sink
	pkParams := p.PK
	layerParams := p.Layers
	logParams := p.Log

	e.replaceAfter = vParams.ReplaceAfter
	e.removeAt = vParams.RemoveAt
	e.simTime = sysParams.SimulationTime

	switch logParams.Scaling {
	case param.UG:
		e.scale = 1.0e3
	case param.NG:
		e.scale = 1.0e6
	}

	e.mb = matrixbuilder.New(sysParams.MatrixBuilderMethod)
	e.mb.SetMaxModule(sysParams.MaxModule)

	// cm^2 -> um^2
	appArea := vParams.AppArea * 1.0e8

	donor := compartment.New(vParams.Height, vParams.D, 1.0, appArea, vParams.Name)
	donor.SetCInit(vParams.CInit * 1e-12) // mg/ml -> mg/um^3
	donor.SetFiniteDose(vParams.FiniteDose)
	e.compartments = append(e.compartments, donor)

	for _, layer := range layerParams {
		comp := compartment.New(layer.Height, layer.D, layer.K, appArea*layer.CrossSection, layer.Name)
		comp.SetCInit(layer.CInit * 1e-12)
		e.compartments = append(e.compartments, comp)
	}

	sinkArea := appArea
	if len(layerParams) > 0 {
		sinkArea = appArea * layerParams[len(layerParams)-1].CrossSection
	}
	sinkKind := compartment.PerfectSink
	if pkParams.Enabled {
		sinkKind = compartment.PKCompartment
	}
	sink := compartment.NewSink(sinkKind, sinkArea, sinkParams.Vd, pkParams.THalf*60.0, sinkParams.Name)
	sink.SetCInit(sinkParams.CInit * 1e-12)
	e.sink = sink

	e.geo.SetEta(sysParams.Eta)
	if !e.geo.Create(sysParams.DiscMethod, e.compartments, sysParams.Resolution, e.sink) {
		return nil, &param.ValidationError{Msg: "engine: geometry construction produced an empty mesh"}
	}

	if err := e.mb.Build(e.compartments, e.geo, e.sink); err != nil {
		return nil, err
	}

	e.createInitConcentrations()
	e.setupLoggers(logParams)

	return e, nil
}

func (e *Engine) createInitConcentrations() {
	e.concentrations = make([]float64, e.geo.Size())
	for _, comp := range e.compartments {
		for i := comp.GeometryFromIdx(); i <= comp.GeometryToIdx(); i++ {
			e.concentrations[i] = comp.CInit()
		}
	}

	ss := e.geo.SpaceSteps()[e.sink.GeometryFromIdx()]
	a := e.sink.A()
	vd := e.sink.Vd() * 1.0e12 // ml -> um^3
	e.concentrations[e.sink.GeometryFromIdx()] = e.sink.CInit() * vd / (ss * a)
}

func (e *Engine) setupLoggers(logParams param.LogParameter) {
	vParams := e.parameter.Vehicle
	layerParams := e.parameter.Layers
	method := e.mb.Method()
	appAreaCm2 := vParams.AppArea * 1.0e8

	massPostfix := logParams.MassFilePostfix
	cdpPostfix := logParams.CDPFilePostfix
	tag := logParams.Tag
	wDir := logParams.WorkingDir

	e.sinkLogger = logger.NewLog2D(method, appAreaCm2, e.sink.Name()+" Logger")
	e.sinkLogger.SetFilename(wDir + tag + "_" + e.sink.Name() + "_" + massPostfix + ".dat")
	e.sinkLogger.RegisterSink(e.sink)
	e.sinkLogger.SetAutoLogEnabled(e.parameter.Sink.Log)
	e.sinkLogger.SetEnabled(e.sinkLogger.AutoLogEnabled())
	e.sinkLogger.SetColumn2Name("conc")
	e.sinkLogger.SetZip(logParams.GzipMass)
	e.sinkLogger.SetLogInterval(logParams.MassLogInterval)

	e.compartmentLoggers = make([]*logger.Log2D, len(e.compartments))
	for i, comp := range e.compartments {
		l := logger.NewLog2D(method, appAreaCm2, comp.Name()+" logger")
		l.SetFilename(wDir + tag + "_" + comp.Name() + "_" + massPostfix + ".dat")
		l.RegisterCompartment(comp)

		enabled := vParams.Log
		if i > 0 {
			enabled = layerParams[i-1].Log
		}
		l.SetAutoLogEnabled(enabled)
		l.SetEnabled(l.AutoLogEnabled())
		l.SetZip(logParams.GzipMass)
		l.SetLogInterval(logParams.MassLogInterval)
		e.compartmentLoggers[i] = l
	}

	ss := e.geo.SpaceSteps()
	e.cdpLoggers = make([]*logger.Log3D, len(e.compartments))
	for i, comp := range e.compartments {
		cl := logger.NewLog3D(comp.Name() + " CDP logger")
		cl.SetFilename(wDir + tag + "_" + comp.Name() + "_" + cdpPostfix + ".dat")
		cl.RegisterCompartment(comp)

		enabled := vParams.LogCDP
		if i > 0 {
			enabled = layerParams[i-1].LogCDP
		}
		cl.SetAutoLogEnabled(enabled)
		cl.SetEnabled(cl.AutoLogEnabled())
		cl.SetZip(logParams.GzipCDP)
		cl.SetLogInterval(logParams.CDPLogInterval)
		cl.SetConcentrationPositionFromMethod(method)

		stepSlice := make([]float64, comp.GeometryToIdx()-comp.GeometryFromIdx()+1)
		copy(stepSlice, ss[comp.GeometryFromIdx():comp.GeometryToIdx()+1])
		cl.SetStepSizes(stepSlice)

		e.cdpLoggers[i] = cl
	}
}

// SetHooks replaces the default no-op Hooks.
func (e *Engine) SetHooks(h Hooks) { e.hooks = h }

// Compartments returns the current compartment stack (donor first).
func (e *Engine) Compartments() []*compartment.Compartment { return e.compartments }

// Sink returns the terminal compartment.
func (e *Engine) Sink() *compartment.Sink { return e.sink }

// Geometry returns the assembled mesh.
func (e *Engine) Geometry() *geometry.Geometry { return e.geo }

// Concentrations returns the live concentration vector.
func (e *Engine) Concentrations() []float64 { return e.concentrations }

// SimTime returns the configured run length, in minutes.
func (e *Engine) SimTime() int { return e.simTime }

// Parameter returns the configuration this engine was built from.
func (e *Engine) Parameter() param.Parameter { return e.parameter }

// SinkLogger returns the sink's mass logger.
func (e *Engine) SinkLogger() *logger.Log2D { return e.sinkLogger }

// CompartmentLoggers returns the per-compartment mass loggers.
func (e *Engine) CompartmentLoggers() []*logger.Log2D { return e.compartmentLoggers }

// CDPLoggers returns the per-compartment concentration-profile loggers.
func (e *Engine) CDPLoggers() []*logger.Log3D { return e.cdpLoggers }

func (e *Engine) initLoggers() {
	e.sinkLogger.SetTimeHint(e.simTime)
	for _, l := range e.compartmentLoggers {
		l.SetTimeHint(e.simTime)
	}
	for _, l := range e.cdpLoggers {
		l.SetTimeHint(e.simTime)
	}
}

func (e *Engine) log(time float64) {
	e.sinkLogger.LogAuto(time, e.geo, e.concentrations, e.scale)
	for _, l := range e.compartmentLoggers {
		l.LogAuto(time, e.geo, e.concentrations, e.scale)
	}
	for _, l := range e.cdpLoggers {
		// cdp output is reported per ml, not per um^3
		l.LogAuto(time, e.concentrations, e.scale*1.0e12)
	}
}

func resetCompartmentConcentration(comp *compartment.Compartment, concentrations []float64) {
	for i := comp.GeometryFromIdx(); i <= comp.GeometryToIdx(); i++ {
		concentrations[i] = comp.CInit()
	}
}

// removeTopCompartment excises the donor compartment: it shifts every
// remaining compartment's and the sink's geometry indices down by the
// removed cell count, rewires the loggers to point at the new layout,
// and rebuilds the Crank-Nicolson matrices from scratch.
func (e *Engine) removeTopCompartment() error {
	topComp := e.compartments[0]
	e.compartments = e.compartments[1:]

	e.compartmentLoggers[0].RegisterCompartment(nil)
	e.cdpLoggers[0].RegisterCompartment(nil)
	for i := 1; i < len(e.compartmentLoggers); i++ {
		e.compartmentLoggers[i].RegisterCompartment(e.compartments[i-1])
		e.cdpLoggers[i].RegisterCompartment(e.compartments[i-1])
	}

	topSize := topComp.GeometryToIdx() + 1
	e.geo.Remove(topComp.GeometryFromIdx(), topSize)
	e.concentrations = e.concentrations[topSize:]

	for _, comp := range e.compartments {
		comp.SetGeometryIdx(comp.GeometryFromIdx()-topSize, comp.GeometryToIdx()-topSize)
	}
	e.sink.SetGeometryIdx(e.sink.GeometryFromIdx()-topSize, e.sink.GeometryToIdx()-topSize)

	return e.mb.Build(e.compartments, e.geo, e.sink)
}

// WriteLogsToFiles writes every enabled logger's output, stopping at the
// first failure.
func (e *Engine) WriteLogsToFiles() error {
	if e.sinkLogger.Enabled() {
		if err := e.sinkLogger.WriteToFile(); err != nil {
			return err
		}
	}
	for _, l := range e.compartmentLoggers {
		if l.Enabled() {
			if err := l.WriteToFile(); err != nil {
				return err
			}
		}
	}
	for _, l := range e.cdpLoggers {
		if l.Enabled() {
			if err := l.WriteToFile(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run drives the minute-by-minute Crank-Nicolson loop: each simulated
// minute applies n_ts inner sub-steps, then handles any scheduled
// vehicle replace/remove event, then logs. Hooks.TestForStop is checked
// before each minute; Hooks.InitRun/TearDownRun bracket the whole run.
func (e *Engine) Run() (Result, error) {
	if !e.hooks.InitRun() {
		return Failed, nil
	}
	e.initLoggers()

	nTs := e.mb.Timesteps()
	rhs := e.mb.MatrixRHS()
	lhs := e.mb.MatrixLHS()

	vehicleRemoved := false
	mustReplace := e.replaceAfter != 0
	mustRemove := e.removeAt != 0

	e.log(0)

	for t := 1; t <= e.simTime; t++ {
		if e.hooks.TestForStop(t) {
			return Stopped, nil
		}
		e.hooks.ProgressCallback(t)

		for ts := 1; ts <= nTs; ts++ {
			rhs.InlineMultiply(e.concentrations)
			if err := solve.ThomasReuseIP(lhs, e.concentrations); err != nil {
				return Failed, err
			}
		}

		if mustReplace && !vehicleRemoved && t > 1 && t%e.replaceAfter == 0 {
			resetCompartmentConcentration(e.compartments[0], e.concentrations)
		}

		if mustRemove && t == e.removeAt {
			vehicleRemoved = true
			if err := e.removeTopCompartment(); err != nil {
				return Failed, err
			}
			rhs = e.mb.MatrixRHS()
			lhs = e.mb.MatrixLHS()
			nTs = e.mb.Timesteps()
		}

		e.log(float64(t))
	}

	if !e.hooks.TearDownRun() {
		return Failed, nil
	}
	return Executed, nil
}
