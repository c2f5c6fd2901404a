// Package registry validates and holds generator descriptors: metadata
// naming a compiled DSP kind, its pitch target, and its custom-parameter
// layout. It does not itself perform synthesis — see package voice for the
// DSP kinds themselves.
package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Curve selects the UI interpretation of a custom parameter.
type Curve string

const (
	CurveLinear Curve = "lin"
	CurveExp    Curve = "exp"
)

// CustomParam describes one of a descriptor's up to five custom params.
type CustomParam struct {
	Label   string  `yaml:"label"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Default float64 `yaml:"default"`
	Curve   Curve   `yaml:"curve"`
	Unit    string  `yaml:"unit,omitempty"`
	Steps   int     `yaml:"steps,omitempty"`
}

// PitchTarget names which param receives MIDI pitch.
type PitchTarget string

const (
	PitchFreq    PitchTarget = "freq"
	PitchCustom0 PitchTarget = "custom0"
	PitchCustom1 PitchTarget = "custom1"
	PitchCustom2 PitchTarget = "custom2"
	PitchCustom3 PitchTarget = "custom3"
	PitchCustom4 PitchTarget = "custom4"
)

// Descriptor is the read-only metadata+DSP-kind pair defining a generator.
type Descriptor struct {
	ID            string        `yaml:"id"`
	DisplayName   string        `yaml:"display_name"`
	DSPKind       string        `yaml:"dsp_kind"`
	PitchTarget   PitchTarget   `yaml:"pitch_target"`
	MidiRetrig    bool          `yaml:"midi_retrig"`
	OutputTrimDB  float64       `yaml:"output_trim_db"`
	CustomParams  []CustomParam `yaml:"custom_params"`
}

// ValidationError reports a descriptor or route rejected at load/add time.
// It is surfaced to the control plane and never retried.
type ValidationError struct {
	Subject string // what was rejected, e.g. descriptor id or route description
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
}

// Validate checks the structural constraints every descriptor must meet:
// exp curves require positive bounds, labels are unique within a
// descriptor, and at most 5 custom params are present.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return &ValidationError{Subject: "descriptor", Reason: "missing id"}
	}
	if d.DSPKind == "" {
		return &ValidationError{Subject: d.ID, Reason: "missing dsp_kind"}
	}
	if len(d.CustomParams) > 5 {
		return &ValidationError{Subject: d.ID, Reason: "more than 5 custom params"}
	}

	seenLabels := make(map[string]bool, len(d.CustomParams))
	for _, p := range d.CustomParams {
		if p.Label == "" {
			return &ValidationError{Subject: d.ID, Reason: "custom param missing label"}
		}
		if seenLabels[p.Label] {
			return &ValidationError{Subject: d.ID, Reason: fmt.Sprintf("duplicate custom param label %q", p.Label)}
		}
		seenLabels[p.Label] = true

		if p.Curve == CurveExp && (p.Min <= 0 || p.Max <= 0) {
			return &ValidationError{
				Subject: d.ID,
				Reason:  fmt.Sprintf("custom param %q: exp curve requires min>0 and max>0", p.Label),
			}
		}
	}
	return nil
}

// ParseDescriptor decodes and validates a single descriptor from YAML bytes.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, &ValidationError{Subject: "descriptor", Reason: err.Error()}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
