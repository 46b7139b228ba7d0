// Package param defines the validated parameter groups that make up a
// complete run configuration: system-wide numerics, the vehicle, the
// membrane layer stack, the sink, optional PK elimination, and logging.
package param

import (
	"fmt"
	"strings"

	"github.com/onwhenrdy/skindiff/internal/geometry"
	"github.com/onwhenrdy/skindiff/internal/matrixbuilder"
)

// ValidationError reports a single invalid parameter. The message matches
// the field it names, so callers can surface it directly to the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Scaling is the mass unit used when writing mass log files.
type Scaling int

const (
	MG Scaling = iota
	UG
	NG
)

func (s Scaling) String() string {
	switch s {
	case MG:
		return "mg"
	case UG:
		return "ug"
	case NG:
		return "ng"
	default:
		return "unknown"
	}
}

// ScalingFromString parses a scaling unit, case-insensitively.
func ScalingFromString(s string) (Scaling, bool) {
	switch strings.ToUpper(s) {
	case "MG":
		return MG, true
	case "UG":
		return UG, true
	case "NG":
		return NG, true
	default:
		return MG, false
	}
}

// SystemParameter holds the run-wide numerical settings.
type SystemParameter struct {
	DiscMethod          geometry.DiscMethod
	MatrixBuilderMethod matrixbuilder.Method
	Resolution          int
	MaxModule           float64
	Eta                 float64
	SimulationTime      int
}

// NewSystemParameter returns a SystemParameter with the original engine's
// defaults: equidistant mesh, DSkin_1_3, resolution 1, max module 50,
// eta 0.6, 60 minutes.
func NewSystemParameter() SystemParameter {
	return SystemParameter{
		DiscMethod:          geometry.EquiDist,
		MatrixBuilderMethod: matrixbuilder.DSkin13,
		Resolution:          1,
		MaxModule:           50.0,
		Eta:                 0.6,
		SimulationTime:      60,
	}
}

// Validate checks the system parameters in isolation.
func (p SystemParameter) Validate() error {
	if p.Resolution <= 0 {
		return invalid("Resolution is <= 0.")
	}
	if p.MaxModule <= 0.0 {
		return invalid("Max module is <= 0.")
	}
	if p.SimulationTime <= 0 {
		return invalid("Simulation time is <= 0.")
	}
	if p.Eta <= 0 || p.Eta > 1.0 {
		return invalid("mb_eta is <= 0 or > 1.0.")
	}
	return nil
}

// OverviewString renders a human-readable summary block.
func (p SystemParameter) OverviewString() string {
	var b strings.Builder
	b.WriteString("System Parameter:\n")
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Discretization method  : %s\n", p.DiscMethod)
	fmt.Fprintf(&b, "Matrix builder method  : %s\n\n", p.MatrixBuilderMethod)
	fmt.Fprintf(&b, "Sim time     [min]     : %d\n", p.SimulationTime)
	fmt.Fprintf(&b, "Resolution   [1/x um]  : %d\n", p.Resolution)
	fmt.Fprintf(&b, "MB scal. factor (eta)  : %g\n", p.Eta)
	fmt.Fprintf(&b, "Max Module             : %g\n", p.MaxModule)
	return b.String()
}

// PKParameter optionally replaces the sink's perfect-drain behavior with
// first-order pharmacokinetic elimination.
type PKParameter struct {
	Enabled bool
	THalf   float64
}

// NewPKParameter returns a disabled PKParameter.
func NewPKParameter() PKParameter {
	return PKParameter{Enabled: false, THalf: 0.0}
}

func (p PKParameter) Validate() error {
	if p.Enabled && p.THalf <= 0.0 {
		return invalid("t_half <= 0.")
	}
	return nil
}

func (p PKParameter) OverviewString() string {
	var b strings.Builder
	b.WriteString("PK Parameter:\n")
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Enabled                : %s\n", yesNo(p.Enabled))
	if p.Enabled {
		fmt.Fprintf(&b, "t 1/2       [h]        : %g\n", p.THalf)
	}
	return b.String()
}

// SinkParameter describes the terminal compartment.
type SinkParameter struct {
	Log   bool
	Name  string
	Vd    float64
	CInit float64
}

// NewSinkParameter returns the original defaults: logged, named "Sink",
// Vd 1.0, C_init 0.
func NewSinkParameter() SinkParameter {
	return SinkParameter{Log: true, Name: "Sink", Vd: 1.0, CInit: 0.0}
}

func (p SinkParameter) Validate() error {
	if p.Name == "" {
		return invalid("Sink name is empty.")
	}
	if p.Vd <= 0.0 {
		return invalid("Vd <= 0.0")
	}
	if p.CInit < 0.0 {
		return invalid("Sink C_init < 0.0")
	}
	return nil
}

func (p SinkParameter) OverviewString() string {
	var b strings.Builder
	b.WriteString("Sink Parameter:\n")
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Name                   : %s\n", p.Name)
	fmt.Fprintf(&b, "Vd          [ml]       : %g\n", p.Vd)
	fmt.Fprintf(&b, "C init      [mg/ml]    : %g\n", p.CInit)
	fmt.Fprintf(&b, "Log Compartment        : %s\n", yesNo(p.Log))
	return b.String()
}

// VehicleParameter describes the donor compartment and its dose events.
type VehicleParameter struct {
	Log          bool
	LogCDP       bool
	Name         string
	CInit        float64
	AppArea      float64
	D            float64
	Height       int
	ReplaceAfter int
	RemoveAt     int
	FiniteDose   bool
}

// NewVehicleParameter returns the original defaults.
func NewVehicleParameter() VehicleParameter {
	return VehicleParameter{
		Log:        true,
		LogCDP:     false,
		Name:       "Vehicle",
		CInit:      1.0,
		AppArea:    1.0,
		D:          1.0,
		Height:     10,
		FiniteDose: true,
	}
}

// Replace reports whether a periodic dose-replace event is configured.
func (p VehicleParameter) Replace() bool { return p.ReplaceAfter > 0 }

// Remove reports whether a one-time vehicle-removal event is configured.
func (p VehicleParameter) Remove() bool { return p.RemoveAt > 0 }

func (p VehicleParameter) Validate() error {
	if p.Name == "" {
		return invalid("Vehicle name is empty.")
	}
	if p.CInit < 0.0 {
		return invalid("Vehicle C_init < 0.0.")
	}
	if p.AppArea <= 0.0 {
		return invalid("Vehicle App Area <= 0.0.")
	}
	if p.D < 0.0 {
		return invalid("Vehicle D < 0.0.")
	}
	if p.Height <= 2 {
		return invalid("Vehicle height <= 2.")
	}
	if p.RemoveAt < 0 {
		return invalid("Vehicle remove at < 0.")
	}
	if p.ReplaceAfter < 0 {
		return invalid("Vehicle replace after < 0.")
	}
	return nil
}

func (p VehicleParameter) OverviewString() string {
	var b strings.Builder
	b.WriteString("Vehicle Parameter:\n")
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Name                   : %s\n", p.Name)
	fmt.Fprintf(&b, "Log Mass               : %s\n", yesNo(p.Log))
	fmt.Fprintf(&b, "Log CDP                : %s\n", yesNo(p.LogCDP))
	fmt.Fprintf(&b, "C init      [mg/ml]    : %g\n", p.CInit)
	fmt.Fprintf(&b, "App Area    [cm^2]     : %g\n", p.AppArea)
	fmt.Fprintf(&b, "h           [um]       : %d\n", p.Height)
	fmt.Fprintf(&b, "D           [um^2/min] : %g\n", p.D)
	fmt.Fprintf(&b, "Remove vehicle         : %s\n", yesNo(p.Remove()))
	if p.Remove() {
		fmt.Fprintf(&b, "Remove at   [min]      : %d\n", p.RemoveAt)
	}
	fmt.Fprintf(&b, "Replace vehicle        : %s\n", yesNo(p.Replace()))
	if p.Replace() {
		fmt.Fprintf(&b, "Repl. after [min]      : %d\n", p.ReplaceAfter)
	}
	fmt.Fprintf(&b, "Finite dose            : %s\n", yesNo(p.FiniteDose))
	return b.String()
}

// LayerParameter describes one membrane layer in the stack.
type LayerParameter struct {
	Log          bool
	LogCDP       bool
	Name         string
	CInit        float64
	D            float64
	K            float64
	CrossSection float64
	Height       int
}

// NewLayerParameter returns the original defaults (name left blank; the
// caller must assign one).
func NewLayerParameter() LayerParameter {
	return LayerParameter{Log: true, D: 1.0, K: 1.0, CrossSection: 1.0, Height: 10}
}

func (p LayerParameter) Validate() error {
	if p.Name == "" {
		return invalid("Layer name is empty.")
	}
	if p.CInit < 0.0 {
		return invalid("Layer C_init < 0.0.")
	}
	if p.D < 0.0 {
		return invalid("Layer D < 0.0.")
	}
	if p.K <= 0.0 {
		return invalid("Layer K <= 0.0.")
	}
	if p.CrossSection <= 0.0 || p.CrossSection > 1.0 {
		return invalid("Layer cross section not in ]0,1].")
	}
	if p.Height <= 2 {
		return invalid("Layer height <= 2.")
	}
	return nil
}

func (p LayerParameter) OverviewString() string {
	var b strings.Builder
	b.WriteString("Layer Parameter:\n")
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Name                   : %s\n", p.Name)
	fmt.Fprintf(&b, "Log Mass               : %s\n", yesNo(p.Log))
	fmt.Fprintf(&b, "Log CDP                : %s\n", yesNo(p.LogCDP))
	fmt.Fprintf(&b, "C init      [mg/ml]    : %g\n", p.CInit)
	fmt.Fprintf(&b, "h           [um]       : %d\n", p.Height)
	fmt.Fprintf(&b, "D           [um^2/min] : %g\n", p.D)
	fmt.Fprintf(&b, "K_Layer/Vehicle        : %g\n", p.K)
	fmt.Fprintf(&b, "Layer CS    [%%]        : %g\n", p.CrossSection*100.0)
	return b.String()
}

// LogParameter configures output file naming, scaling, gzip, and logging
// intervals.
type LogParameter struct {
	ShowProgressBar bool
	GzipCDP         bool
	GzipMass        bool
	MassLogInterval int
	CDPLogInterval  int
	MassFilePostfix string
	CDPFilePostfix  string
	Tag             string
	Scaling         Scaling
	WorkingDir      string
}

// NewLogParameter returns the original defaults.
func NewLogParameter() LogParameter {
	return LogParameter{
		ShowProgressBar: true,
		GzipCDP:         true,
		GzipMass:        false,
		MassLogInterval: 1,
		CDPLogInterval:  1,
		MassFilePostfix: "mass",
		CDPFilePostfix:  "cdp",
		Tag:             "unknown",
		Scaling:         MG,
	}
}

func (p LogParameter) Validate() error {
	if p.MassLogInterval <= 0 {
		return invalid("Mass log interval <=0")
	}
	if p.CDPLogInterval <= 0 {
		return invalid("CDP log interval <=0")
	}
	if p.MassFilePostfix == "" {
		return invalid("Mass file postfix is empty.")
	}
	if p.CDPFilePostfix == "" {
		return invalid("CDP file postfix is empty.")
	}
	if p.Tag == "" {
		return invalid("File tag is empty.")
	}
	return nil
}

func (p LogParameter) OverviewString() string {
	var b strings.Builder
	b.WriteString("Log Parameter:\n")
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "File tag               : %s\n", p.Tag)
	fmt.Fprintf(&b, "Working directory      : %s\n", p.WorkingDir)
	fmt.Fprintf(&b, "Mass logfile postfix   : %s\n", p.MassFilePostfix)
	fmt.Fprintf(&b, "CDP logfile postfix    : %s\n", p.CDPFilePostfix)
	fmt.Fprintf(&b, "Mass logfile gzip      : %s\n", yesNo(p.GzipMass))
	fmt.Fprintf(&b, "CDP logfile gzip       : %s\n", yesNo(p.GzipCDP))
	fmt.Fprintf(&b, "Mass log interv. [min] : %d\n", p.MassLogInterval)
	fmt.Fprintf(&b, "CDP log interv. [min]  : %d\n", p.CDPLogInterval)
	fmt.Fprintf(&b, "Scaling unit           : %s\n", p.Scaling)
	return b.String()
}

// Parameter is the full, validated run configuration.
type Parameter struct {
	System  SystemParameter
	PK      PKParameter
	Sink    SinkParameter
	Vehicle VehicleParameter
	Layers  []LayerParameter
	Log     LogParameter
}

// New returns a Parameter with every group at its original default, no
// layers.
func New() Parameter {
	return Parameter{
		System:  NewSystemParameter(),
		PK:      NewPKParameter(),
		Sink:    NewSinkParameter(),
		Vehicle: NewVehicleParameter(),
		Log:     NewLogParameter(),
	}
}

// Validate runs every group's Validate in the original's order, then
// checks the cross-group invariants: a vehicle cannot be removed from a
// stack with no layers left to diffuse into, and DSkin_1_3 cannot be
// combined with an infinite-dose vehicle.
func (p Parameter) Validate() error {
	if err := p.System.Validate(); err != nil {
		return err
	}
	if err := p.Log.Validate(); err != nil {
		return err
	}
	if err := p.PK.Validate(); err != nil {
		return err
	}
	if err := p.Sink.Validate(); err != nil {
		return err
	}
	if err := p.Vehicle.Validate(); err != nil {
		return err
	}
	for _, layer := range p.Layers {
		if err := layer.Validate(); err != nil {
			return err
		}
	}
	if p.Vehicle.Remove() && len(p.Layers) < 1 {
		return invalid("Cannot remove the vehicle if no layer is defined.")
	}
	if p.System.MatrixBuilderMethod == matrixbuilder.DSkin13 && !p.Vehicle.FiniteDose {
		return invalid("mb_method DSkin_1_3 does not support an infinite-dose vehicle.")
	}
	return nil
}

// OverviewString renders every group's overview, in the original's order.
func (p Parameter) OverviewString() string {
	parts := []string{
		p.System.OverviewString(),
		p.Log.OverviewString(),
		p.PK.OverviewString(),
		p.Vehicle.OverviewString(),
		p.Sink.OverviewString(),
	}
	for _, layer := range p.Layers {
		parts = append(parts, layer.OverviewString())
	}
	return strings.Join(parts, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
