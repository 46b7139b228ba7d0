// Package config loads a run configuration from a JSON document or from
// the legacy positional argument form, producing a validated
// param.Parameter.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/onwhenrdy/skindiff/internal/geometry"
	"github.com/onwhenrdy/skindiff/internal/matrixbuilder"
	"github.com/onwhenrdy/skindiff/internal/param"
)

// ParseError reports a structural problem with a config document or the
// positional argument form: malformed JSON, a missing section, a missing
// required field within a present section, an unknown method or scaling
// name, an unsupported argument count, or a non-numeric token.
// Semantic/range violations surface as *param.ValidationError instead,
// from the final Parameter.Validate call.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

func parseErr(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

type sysSection struct {
	DiscScheme string   `json:"disc_scheme"`
	MBMethod   string   `json:"mb_method"`
	Resolution *int     `json:"resolution"`
	MaxModule  *float64 `json:"max_module"`
	Eta        *float64 `json:"mb_eta"`
	SimTime    *int     `json:"sim_time"`
}

type logSection struct {
	FileTag         *string `json:"file_tag"`
	MassFilePostfix *string `json:"mass_file_postfix"`
	MassFileGzip    *bool   `json:"mass_file_gzip"`
	CDPFilePostfix  *string `json:"cdp_file_postfix"`
	CDPFileGzip     *bool   `json:"cdp_file_gzip"`
	MassLogInterval *int    `json:"mass_log_interval"`
	CDPLogInterval  *int    `json:"cdp_log_interval"`
	Scaling         *string `json:"scaling"`
	ShowProgress    *bool   `json:"show_progress"`
	WorkingDir      *string `json:"working_dir"`
}

type pkSection struct {
	Enabled *bool    `json:"enabled"`
	THalf   *float64 `json:"t_half"`
}

type sinkSection struct {
	Name  *string  `json:"name"`
	Log   *bool    `json:"log"`
	CInit *float64 `json:"c_init"`
	Vd    *float64 `json:"Vd"`
}

type vehicleSection struct {
	Name         *string  `json:"name"`
	FiniteDose   *bool    `json:"finite_dose"`
	CInit        *float64 `json:"c_init"`
	AppArea      *float64 `json:"app_area"`
	Height       *int     `json:"h"`
	D            *float64 `json:"D"`
	ReplaceAfter *int     `json:"replace_after"`
	RemoveAfter  *int     `json:"remove_after"`
	Log          *bool    `json:"log"`
	LogCDP       *bool    `json:"log_cdp"`
}

type layerSection struct {
	Name         *string  `json:"name"`
	Log          *bool    `json:"log"`
	LogCDP       *bool    `json:"log_cdp"`
	CrossSection *float64 `json:"cross_section"`
	CInit        *float64 `json:"c_init"`
	Height       *int     `json:"h"`
	D            *float64 `json:"D"`
	K            *float64 `json:"K"`
}

type compartmentsSection struct {
	Vehicle *vehicleSection `json:"vehicle"`
	Sink    *sinkSection    `json:"sink"`
	Layers  []layerSection  `json:"layers"`
}

type document struct {
	Sys          *sysSection          `json:"sys"`
	Log          *logSection          `json:"log"`
	PK           *pkSection           `json:"PK"`
	Compartments *compartmentsSection `json:"compartments"`
}

// ParseFile reads and parses a JSON config file.
func ParseFile(filename string) (param.Parameter, error) {
	f, err := os.Open(filename)
	if err != nil {
		return param.Parameter{}, fmt.Errorf("config: could not open file %s: %w", filename, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a JSON config document from r and returns a validated
// Parameter.
func Parse(r io.Reader) (param.Parameter, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return param.Parameter{}, err
	}
	return ParseBytes(raw)
}

// ParseBytes parses a JSON config document held in memory.
func ParseBytes(raw []byte) (param.Parameter, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return param.Parameter{}, parseErr("config: error parsing config string: %v", err)
	}

	p := param.New()

	if doc.Sys == nil {
		return param.Parameter{}, parseErr("Could not find <sys> section.")
	}
	sys := doc.Sys
	if sys.Resolution != nil {
		p.System.Resolution = *sys.Resolution
	}
	if sys.SimTime != nil {
		p.System.SimulationTime = *sys.SimTime
	}
	if sys.MaxModule != nil {
		p.System.MaxModule = *sys.MaxModule
	}
	if sys.Eta != nil {
		p.System.Eta = *sys.Eta
	}

	discScheme := sys.DiscScheme
	if discScheme == "" {
		discScheme = "EQUIDIST"
	}
	discMethod, ok := geometry.FromString(discScheme)
	if !ok {
		return param.Parameter{}, parseErr("Unknown disc_scheme found.")
	}
	p.System.DiscMethod = discMethod

	mbMethodStr := sys.MBMethod
	if mbMethodStr == "" {
		mbMethodStr = "DSkin_1_5"
	}
	mbMethod, ok := matrixbuilder.FromString(mbMethodStr)
	if !ok {
		return param.Parameter{}, parseErr("Unknown mb_method found.")
	}
	p.System.MatrixBuilderMethod = mbMethod

	if doc.Log != nil {
		l := doc.Log
		if l.FileTag != nil {
			p.Log.Tag = *l.FileTag
		}
		if l.ShowProgress != nil {
			p.Log.ShowProgressBar = *l.ShowProgress
		}

		scalingStr := "mg"
		if l.Scaling != nil {
			scalingStr = *l.Scaling
		}
		scaling, ok := param.ScalingFromString(scalingStr)
		if !ok {
			return param.Parameter{}, parseErr("Unknown scaling found.")
		}
		p.Log.Scaling = scaling

		if l.WorkingDir != nil {
			p.Log.WorkingDir = *l.WorkingDir
		}
		if l.MassFilePostfix != nil {
			p.Log.MassFilePostfix = *l.MassFilePostfix
		}
		if l.MassFileGzip != nil {
			p.Log.GzipMass = *l.MassFileGzip
		}
		if l.CDPFilePostfix != nil {
			p.Log.CDPFilePostfix = *l.CDPFilePostfix
		}
		if l.CDPFileGzip != nil {
			p.Log.GzipCDP = *l.CDPFileGzip
		}
		if l.MassLogInterval != nil {
			p.Log.MassLogInterval = *l.MassLogInterval
		}
		if l.CDPLogInterval != nil {
			p.Log.CDPLogInterval = *l.CDPLogInterval
		}
	}

	if doc.PK != nil {
		pk := doc.PK
		if pk.Enabled != nil {
			p.PK.Enabled = *pk.Enabled
		} else {
			p.PK.Enabled = true
		}
		if pk.THalf == nil {
			return param.Parameter{}, parseErr("PK parameters need a t_half value.")
		}
		p.PK.THalf = *pk.THalf
	}

	if doc.Compartments == nil {
		return param.Parameter{}, parseErr("Could not find <compartments> section.")
	}
	comps := doc.Compartments

	if comps.Sink != nil {
		s := comps.Sink
		if s.Name != nil {
			p.Sink.Name = *s.Name
		}
		if s.Log != nil {
			p.Sink.Log = *s.Log
		}
		if s.CInit != nil {
			p.Sink.CInit = *s.CInit
		}
		if s.Vd != nil {
			p.Sink.Vd = *s.Vd
		}
	}

	if comps.Vehicle != nil {
		v := comps.Vehicle
		if v.AppArea != nil {
			p.Vehicle.AppArea = *v.AppArea
		}
		if v.Name != nil {
			p.Vehicle.Name = *v.Name
		}
		if v.Log != nil {
			p.Vehicle.Log = *v.Log
		}
		if v.LogCDP != nil {
			p.Vehicle.LogCDP = *v.LogCDP
		}
		if v.ReplaceAfter != nil {
			p.Vehicle.ReplaceAfter = *v.ReplaceAfter
		}
		if v.RemoveAfter != nil {
			p.Vehicle.RemoveAt = *v.RemoveAfter
		}
		if v.FiniteDose != nil {
			p.Vehicle.FiniteDose = *v.FiniteDose
		}

		if v.CInit == nil || v.Height == nil || v.D == nil {
			return param.Parameter{}, parseErr("Vehicle section needs at least values for c_init, h and D.")
		}
		p.Vehicle.CInit = *v.CInit
		p.Vehicle.D = *v.D
		p.Vehicle.Height = *v.Height
	}

	for _, l := range comps.Layers {
		layer := param.NewLayerParameter()
		if l.Log != nil {
			layer.Log = *l.Log
		}
		if l.LogCDP != nil {
			layer.LogCDP = *l.LogCDP
		}
		if l.CrossSection != nil {
			layer.CrossSection = *l.CrossSection
		}
		if l.CInit != nil {
			layer.CInit = *l.CInit
		}

		if l.Name == nil || l.Height == nil || l.D == nil || l.K == nil {
			return param.Parameter{}, parseErr("Layers need at least values for name, h, D and K.")
		}
		layer.Name = *l.Name
		layer.D = *l.D
		layer.K = *l.K
		layer.Height = *l.Height

		p.Layers = append(p.Layers, layer)
	}

	if err := p.Validate(); err != nil {
		return param.Parameter{}, err
	}
	return p, nil
}

// Template returns the canonical JSON configuration template, the same
// document written by the CLI's "template" subcommand.
func Template() string {
	return templateString
}

// positionalFieldCount enumerates the supported legacy argument counts.
var positionalFieldCount = map[int]bool{19: true, 20: true, 21: true, 23: true}

// ParsePositional parses the legacy fixed-order positional argument form:
// c_init d_donor d_sc d_dsl k_sc k_dsl app_area lipid_cs dsl_cs h_donor
// h_sc h_dsl sim_time resolution scaling disc_method mb_method
// finite_dose [remove_at [replace_after [vd t_half]]] file_tag. It always
// produces exactly two layers, named "SC" and "DSL".
func ParsePositional(args []string) (param.Parameter, error) {
	n := len(args)
	if !positionalFieldCount[n] {
		return param.Parameter{}, parseErr("Unsupported number of positional arguments: %d.", n)
	}

	idx := 0
	next := func() string {
		v := args[idx]
		idx++
		return v
	}

	f := func() (float64, error) {
		v, err := strconv.ParseFloat(next(), 64)
		if err != nil {
			return 0, parseErr("Expected a numeric value, got %q.", args[idx-1])
		}
		return v, nil
	}
	i := func() (int, error) {
		v, err := strconv.Atoi(next())
		if err != nil {
			return 0, parseErr("Expected an integer value, got %q.", args[idx-1])
		}
		return v, nil
	}

	var err error
	p := param.New()
	layerSC := param.NewLayerParameter()
	layerSC.Name = "SC"
	layerDSL := param.NewLayerParameter()
	layerDSL.Name = "DSL"

	if p.Vehicle.CInit, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if p.Vehicle.D, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if layerSC.D, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if layerDSL.D, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if layerSC.K, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if layerDSL.K, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if p.Vehicle.AppArea, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if layerSC.CrossSection, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if layerDSL.CrossSection, err = f(); err != nil {
		return param.Parameter{}, err
	}
	if p.Vehicle.Height, err = i(); err != nil {
		return param.Parameter{}, err
	}
	if layerSC.Height, err = i(); err != nil {
		return param.Parameter{}, err
	}
	if layerDSL.Height, err = i(); err != nil {
		return param.Parameter{}, err
	}
	if p.System.SimulationTime, err = i(); err != nil {
		return param.Parameter{}, err
	}
	if p.System.Resolution, err = i(); err != nil {
		return param.Parameter{}, err
	}

	scalingStr := next()
	scaling, ok := param.ScalingFromString(scalingStr)
	if !ok {
		return param.Parameter{}, parseErr("Unknown scaling found: %q.", scalingStr)
	}
	p.Log.Scaling = scaling

	discStr := next()
	discMethod, ok := geometry.FromString(discStr)
	if !ok {
		return param.Parameter{}, parseErr("Unknown disc_method found: %q.", discStr)
	}
	p.System.DiscMethod = discMethod

	mbStr := next()
	mbMethod, ok := matrixbuilder.FromString(mbStr)
	if !ok {
		return param.Parameter{}, parseErr("Unknown mb_method found: %q.", mbStr)
	}
	p.System.MatrixBuilderMethod = mbMethod

	finiteDoseStr := next()
	p.Vehicle.FiniteDose = finiteDoseStr == "1" || finiteDoseStr == "true"

	switch n {
	case 20:
		if p.Vehicle.RemoveAt, err = i(); err != nil {
			return param.Parameter{}, err
		}
	case 21:
		if p.Vehicle.RemoveAt, err = i(); err != nil {
			return param.Parameter{}, err
		}
		if p.Vehicle.ReplaceAfter, err = i(); err != nil {
			return param.Parameter{}, err
		}
	case 23:
		if p.Vehicle.RemoveAt, err = i(); err != nil {
			return param.Parameter{}, err
		}
		if p.Vehicle.ReplaceAfter, err = i(); err != nil {
			return param.Parameter{}, err
		}
		if p.Sink.Vd, err = f(); err != nil {
			return param.Parameter{}, err
		}
		var tHalf float64
		if tHalf, err = f(); err != nil {
			return param.Parameter{}, err
		}
		p.PK.Enabled = true
		p.PK.THalf = tHalf
	}

	p.Log.Tag = next()

	p.Vehicle.Name = "Vehicle"
	p.Sink.Name = "Sink"
	p.Layers = []param.LayerParameter{layerSC, layerDSL}

	if err := p.Validate(); err != nil {
		return param.Parameter{}, err
	}
	return p, nil
}

const templateString = `{
    "sys" :
    {
        "disc_scheme" : "BK",
        "mb_method" : "DSkin_1_4",
        "resolution" : 1,
        "max_module" : 50.0,
        "mb_eta" : 0.6,
        "sim_time" : 600
    },

    "log" :
    {
        "file_tag" : "test",
        "mass_file_postfix" : "mass",
        "mass_file_gzip" : false,
        "cdp_file_postfix" : "cdp",
        "cdp_file_gzip" : true,
        "mass_log_interval" : 1,
        "cdp_log_interval" : 1,
        "scaling" : "mg",
        "show_progress" : true,
        "working_dir" : ""
    },

    "PK" :
    {
        "enabled" : true,
        "t_half" : 1.0
    },

    "compartments" :
    {
        "vehicle" :
        {
            "name" : "Donor",
            "finite_dose" : true,
            "c_init" : 1.0,
            "app_area" : 1.0,
            "h" : 30,
            "D" : 1.0,
            "replace_after" : 200,
            "remove_after" : 400,
            "log" : true,
            "log_cdp" : true
        },

        "sink" :
        {
            "name" : "Sink",
            "log" : true,
            "c_init" : 0.0,
            "Vd" : 1.0
        },

        "layers" :
        [
            {
                "name" : "SC",
                "log" : true,
                "log_cdp" : true,
                "c_init" : 0.0,
                "cross_section" : 1.0,
                "h" : 10,
                "D" : 1.0,
                "K" : 1.0
            },

            {
                "name" : "DSL",
                "log" : true,
                "log_cdp" : true,
                "c_init" : 0.0,
                "cross_section" : 1.0,
                "h" : 10,
                "D" : 1.0,
                "K" : 1.0
            }
        ]
    }
}
`
