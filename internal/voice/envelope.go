// Package voice implements generator voices and their channel strips: the
// per-slot synthesis chain
//
//	dsp_kind.render -> multi_filter -> env_vca -> gain(output_trim) -> bus
//
// across eight slots driven by a pluggable DSP-kind registry.
package voice

import "math"

// EnvSource selects what drives a voice's amplitude envelope.
type EnvSource int

const (
	EnvOff EnvSource = iota
	EnvClock
	EnvMIDI
)

// envPhase is an exponential-segment attack/decay envelope's internal state.
type envPhase int

const (
	phaseIdle envPhase = iota
	phaseAttack
	phaseDecay
	phaseHeld
)

// Envelope is a retriggerable attack/decay envelope with exponential
// segments, driven by a gate stream (clock division or MIDI note) rather
// than a sustain/release ADSR: it is always attack-then-decay, triggered
// repeatedly by the selected source.
type Envelope struct {
	sampleHz float32
	level    float32
	phase    envPhase
	attackS  float32
	decayS   float32
}

// NewEnvelope creates an envelope for the given sample rate.
func NewEnvelope(sampleHz float32) *Envelope {
	return &Envelope{sampleHz: sampleHz}
}

// SetTimes updates attack/decay in seconds.
func (e *Envelope) SetTimes(attackS, decayS float32) {
	if attackS < 0 {
		attackS = 0
	}
	if decayS < 0 {
		decayS = 0
	}
	e.attackS = attackS
	e.decayS = decayS
}

// Trigger (re)starts the envelope from the attack phase, regardless of
// current level — this is what gives struck/plucked descriptors their
// continuous-retrigger behaviour under a held MIDI gate.
func (e *Envelope) Trigger() {
	e.phase = phaseAttack
}

// Release moves a running envelope straight into its decay segment
// (clock-source envelopes have no release stage: AR only). MIDI note-off
// also calls this so decaying
// generators return to silence rather than looping.
func (e *Envelope) Release() {
	if e.phase != phaseIdle {
		e.phase = phaseDecay
	}
}

// Step advances the envelope by one sample and returns its current level.
func (e *Envelope) Step() float32 {
	const epsSeconds = 1.0 / 44100.0
	switch e.phase {
	case phaseIdle:
		e.level = 0
	case phaseAttack:
		if e.attackS <= epsSeconds {
			e.level = 1
			e.phase = phaseDecay
		} else {
			// exponential rise: move a fixed fraction of the remaining gap
			// per sample, time-constant derived from the attack time.
			rate := 1.0 - expNeg(1.0/(e.attackS*e.sampleHz))
			e.level += (1 - e.level) * rate
			if e.level >= 0.999 {
				e.level = 1
				e.phase = phaseDecay
			}
		}
	case phaseDecay:
		if e.decayS <= epsSeconds {
			e.level = 0
			e.phase = phaseIdle
		} else {
			rate := 1.0 - expNeg(1.0/(e.decayS*e.sampleHz))
			e.level -= e.level * rate
			if e.level <= 0.001 {
				e.level = 0
				e.phase = phaseIdle
			}
		}
	case phaseHeld:
		// unused for AR envelopes; reserved for EnvOff's constant-unity path
		e.level = 1
	}
	return e.level
}

// Idle reports whether the envelope has fully decayed to silence.
func (e *Envelope) Idle() bool {
	return e.phase == phaseIdle
}

func expNeg(x float32) float32 {
	return float32(math.Exp(-float64(x)))
}
