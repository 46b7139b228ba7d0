package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/onwhenrdy/skindiff/internal/geometry"
	"github.com/onwhenrdy/skindiff/internal/matrixbuilder"
	"github.com/onwhenrdy/skindiff/internal/param"
)

func TestParseBytesTemplate(t *testing.T) {
	p, err := ParseBytes([]byte(Template()))
	if err != nil {
		t.Fatalf("ParseBytes(Template()) returned error: %v", err)
	}
	if p.System.DiscMethod != geometry.BK {
		t.Fatalf("DiscMethod = %v, want BK", p.System.DiscMethod)
	}
	if p.System.MatrixBuilderMethod != matrixbuilder.DSkin14 {
		t.Fatalf("MatrixBuilderMethod = %v, want DSkin14", p.System.MatrixBuilderMethod)
	}
	if len(p.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(p.Layers))
	}
	if !p.PK.Enabled || p.PK.THalf != 1.0 {
		t.Fatalf("unexpected PK parameter: %+v", p.PK)
	}
}

func TestParseBytesMissingSysSection(t *testing.T) {
	_, err := ParseBytes([]byte(`{"compartments": {"vehicle": {"c_init": 1, "h": 10, "D": 1}}}`))
	if err == nil {
		t.Fatalf("expected a ParseError for a missing <sys> section")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a *ParseError, got %T: %v", err, err)
	}
}

func TestParseBytesMissingVehicleRequiredField(t *testing.T) {
	doc := `{
        "sys": {"sim_time": 10},
        "compartments": {"vehicle": {"c_init": 1.0, "h": 10}}
    }`
	_, err := ParseBytes([]byte(doc))
	if err == nil {
		t.Fatalf("expected a ParseError for a vehicle section missing D")
	}
}

func TestParseBytesSemanticViolationSurfacesValidationError(t *testing.T) {
	doc := `{
        "sys": {"sim_time": 10},
        "compartments": {"vehicle": {"c_init": 1.0, "h": 10, "D": 1.0, "app_area": 0.0}}
    }`
	_, err := ParseBytes([]byte(doc))
	if err == nil {
		t.Fatalf("expected a ValidationError for a zero app_area")
	}
	var verr *param.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a *param.ValidationError, got %T: %v", err, err)
	}
}

func TestParsePositionalRoundTrip(t *testing.T) {
	args := strings.Fields("1.0 1.0 1.0 1.0 1.0 1.0 1.0 1.0 1.0 10 10 10 60 1 mg EQUIDIST DSkin_1_3 1 mytag")
	p, err := ParsePositional(args)
	if err != nil {
		t.Fatalf("ParsePositional returned error: %v", err)
	}
	if p.Log.Tag != "mytag" {
		t.Fatalf("Tag = %q, want mytag", p.Log.Tag)
	}
	if len(p.Layers) != 2 || p.Layers[0].Name != "SC" || p.Layers[1].Name != "DSL" {
		t.Fatalf("unexpected layers: %+v", p.Layers)
	}
	if !p.Vehicle.FiniteDose {
		t.Fatalf("expected FiniteDose true")
	}
}

func TestParsePositionalWithRemoveAndReplace(t *testing.T) {
	args := strings.Fields("1.0 1.0 1.0 1.0 1.0 1.0 1.0 1.0 1.0 10 10 10 60 1 mg EQUIDIST DSkin_1_3 1 30 5 mytag")
	p, err := ParsePositional(args)
	if err != nil {
		t.Fatalf("ParsePositional returned error: %v", err)
	}
	if p.Vehicle.RemoveAt != 30 || p.Vehicle.ReplaceAfter != 5 {
		t.Fatalf("unexpected dose events: remove=%d replace=%d", p.Vehicle.RemoveAt, p.Vehicle.ReplaceAfter)
	}
}

func TestParsePositionalRejectsBadArgCount(t *testing.T) {
	_, err := ParsePositional([]string{"1.0", "2.0"})
	if err == nil {
		t.Fatalf("expected an error for an unsupported argument count")
	}
}

func TestParsePositionalRejectsNonNumeric(t *testing.T) {
	args := strings.Fields("abc 1.0 1.0 1.0 1.0 1.0 1.0 1.0 1.0 10 10 10 60 1 mg EQUIDIST DSkin_1_3 1 mytag")
	_, err := ParsePositional(args)
	if err == nil {
		t.Fatalf("expected a ParseError for a non-numeric c_init")
	}
}

