package voice

import (
	"math"

	"github.com/thegdyne/sauceengine-go/internal/dsp"
)

// FilterType is a voice's sticky multi-mode filter setting.
type FilterType = dsp.FilterType

const (
	FilterLP = dsp.FilterLowPass
	FilterHP = dsp.FilterHighPass
	FilterBP = dsp.FilterBandPass
)

// Voice is one generator slot's full processing chain:
//
//	sig <- synth.Render(params)
//	sig <- multi_filter(sig, filter_type, cutoff, resonance)
//	sig <- env_vca(sig, env_source, clock_trig, midi_trig, attack, decay)
//	sig <- gain(sig, output_trim_db)
type Voice struct {
	sampleHz float32

	synth       Synth
	filter      *dsp.SVF
	envelope    *Envelope
	envSource   EnvSource
	filterType  FilterType
	outputTrim  float32 // linear gain derived from output_trim_db

	clockRateIdx int // sticky: which division index gates this voice when EnvClock
	midiChannel  int // sticky: 0 = off, 1..16

	running bool
}

// NewVoice constructs an empty (silent) voice for the given sample rate.
func NewVoice(sampleHz float32) *Voice {
	return &Voice{
		sampleHz: sampleHz,
		filter:   dsp.NewSVF(sampleHz),
		envelope: NewEnvelope(sampleHz),
	}
}

// AssignDescriptor swaps in a new DSP kind. Sticky settings (env source,
// clock rate, MIDI channel, filter type) are preserved by the caller (the
// slot owner) across this call; only non-sticky param state and the synth
// instance itself reset.
func (v *Voice) AssignDescriptor(dspKind string, outputTrimDB float64) {
	v.synth = NewSynth(dspKind, v.sampleHz)
	v.filter.Reset()
	v.envelope = NewEnvelope(v.sampleHz)
	v.outputTrim = float32(math.Pow(10, outputTrimDB/20))
	v.running = true
}

// Clear empties the slot (no descriptor assigned).
func (v *Voice) Clear() {
	v.synth = nil
	v.running = false
}

// IsRunning reports whether a descriptor is currently assigned.
func (v *Voice) IsRunning() bool { return v.running }

// SetFilterType sets the sticky filter mode.
func (v *Voice) SetFilterType(t FilterType) { v.filterType = t }

// SetEnvSource sets the sticky envelope trigger source.
func (v *Voice) SetEnvSource(s EnvSource) { v.envSource = s }

// SetEnvTimes sets attack/decay in seconds (non-sticky, reset on swap along
// with other param values, but the setter itself is always available).
func (v *Voice) SetEnvTimes(attackS, decayS float32) {
	v.envelope.SetTimes(attackS, decayS)
}

// TriggerClock is called by the engine when the voice's selected clock
// division pulses and env source is EnvClock.
func (v *Voice) TriggerClock() {
	if v.envSource == EnvClock {
		v.envelope.Trigger()
	}
}

// TriggerMIDI is called by the engine on a MIDI gate pulse (note-on, and
// retrigger pulses while held) when env source is EnvMIDI.
func (v *Voice) TriggerMIDI() {
	if v.envSource == EnvMIDI {
		v.envelope.Trigger()
	}
}

// ReleaseMIDI is called on MIDI note-off.
func (v *Voice) ReleaseMIDI() {
	if v.envSource == EnvMIDI {
		v.envelope.Release()
	}
}

// Params bundles one block's effective grid values for this slot, read
// once per block from the grid snapshot.
type Params struct {
	FreqHz     float32
	Cutoff01   float32
	Resonance01 float32
	AttackS    float32
	DecayS     float32
	Custom     [5]float32
}

// Process renders one sample for this voice using the block's params.
// Returns 0 if the slot has no descriptor assigned: an empty slot
// contributes silence rather than running any part of the chain.
func (v *Voice) Process(p Params) float32 {
	if !v.running || v.synth == nil {
		return 0
	}

	v.envelope.SetTimes(p.AttackS, p.DecayS)

	sig := v.synth.Render(p.FreqHz, p.Custom)
	sig = v.filter.Process(sig, p.Cutoff01, p.Resonance01, v.filterType)

	var envLevel float32
	switch v.envSource {
	case EnvOff:
		envLevel = 1
	default:
		envLevel = v.envelope.Step()
	}

	return sig * envLevel * v.outputTrim
}
