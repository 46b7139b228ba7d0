package param

import (
	"errors"
	"testing"
)

func TestDefaultParameterIsValid(t *testing.T) {
	p := New()
	p.Vehicle.Name = "Vehicle"
	p.Sink.Name = "Sink"
	if err := p.Validate(); err != nil {
		t.Fatalf("default Parameter should be valid, got: %v", err)
	}
}

func TestSystemParameterRejectsBadEta(t *testing.T) {
	p := NewSystemParameter()
	p.Eta = 1.5
	var verr *ValidationError
	if err := p.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError for eta > 1, got %v", err)
	}
}

func TestPKParameterRequiresTHalfWhenEnabled(t *testing.T) {
	p := NewPKParameter()
	p.Enabled = true
	p.THalf = 0
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for enabled PK with t_half <= 0")
	}
	p.THalf = 4.0
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid PK parameter, got %v", err)
	}
}

func TestVehicleRemoveRequiresLayer(t *testing.T) {
	p := New()
	p.Vehicle.Name = "Vehicle"
	p.Sink.Name = "Sink"
	p.Vehicle.RemoveAt = 30
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error removing vehicle with no layers")
	}

	p.Layers = append(p.Layers, NewLayerParameter())
	p.Layers[0].Name = "Stratum Corneum"
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid parameter with a layer present, got %v", err)
	}
}

func TestLayerCrossSectionRange(t *testing.T) {
	l := NewLayerParameter()
	l.Name = "layer"
	l.CrossSection = 1.5
	if err := l.Validate(); err == nil {
		t.Fatalf("expected error for cross section > 1")
	}
}

func TestScalingRoundTrip(t *testing.T) {
	for _, s := range []Scaling{MG, UG, NG} {
		parsed, ok := ScalingFromString(s.String())
		if !ok || parsed != s {
			t.Fatalf("round trip failed for %v", s)
		}
	}
	if _, ok := ScalingFromString("kg"); ok {
		t.Fatalf("ScalingFromString(kg) should fail")
	}
}
