// Package clock implements the tempo-driven pulse generator: a 24-PPQN
// master pulse divided into 13 rate streams, plus per-slot MIDI gate
// streams with optional continuous retrigger while a note is held. All
// streams are sample-rate, dense-zero/sparse-impulse signals so envelope
// generators inside voices can consume them without locking.
package clock

// Divisions lists the 13 clock-division ratios relative to a quarter note,
// in the fixed order a slot's clock-rate index addresses.
var Divisions = [13]float64{
	1.0 / 64, 1.0 / 32, 1.0 / 16, 1.0 / 8, 1.0 / 4, 1.0 / 2,
	1,
	2, 4, 8, 16, 32, 64,
}

const ppqn = 24

// MidiRetrigHz is the continuous-retrigger rate for descriptors whose
// midi_retrig flag is set.
const MidiRetrigHz = 30.0

// Clock runs the master pulse and its 13 divisions at a fixed sample rate.
// BPM changes take effect at the next block boundary (the caller only ever
// calls SetBPM between blocks).
type Clock struct {
	sampleHz float64
	bpm      float64

	phaseMaster float64 // in master-pulse cycles, [0,1)
	phaseDiv    [13]float64
}

// New creates a clock for the given sample rate and initial BPM.
func New(sampleHz float64, bpm float64) *Clock {
	return &Clock{sampleHz: sampleHz, bpm: clampBPM(bpm)}
}

func clampBPM(bpm float64) float64 {
	if bpm < 20 {
		return 20
	}
	if bpm > 300 {
		return 300
	}
	return bpm
}

// SetBPM updates tempo; effective from the next Step call.
func (c *Clock) SetBPM(bpm float64) {
	c.bpm = clampBPM(bpm)
}

// BPM returns the current tempo.
func (c *Clock) BPM() float64 { return c.bpm }

// masterHz is the master-pulse frequency in Hz: one pulse per 1/PPQN of a
// quarter note, i.e. ppqn pulses per quarter note.
func (c *Clock) masterHz() float64 {
	return (c.bpm / 60.0) * ppqn
}

// divisionHz returns the pulse frequency of division k: bpm/60 * ratio[k].
func (c *Clock) divisionHz(k int) float64 {
	return (c.bpm / 60.0) * Divisions[k]
}

// Step advances the clock by one sample and reports which streams fired a
// pulse on this sample. divOut holds the 13 division streams; it is overwritten (not
// appended to) so the caller can reuse a single backing array per block.
func (c *Clock) Step(divOut *[13]bool) (master bool) {
	step := c.masterHz() / c.sampleHz
	c.phaseMaster += step
	if c.phaseMaster >= 1.0 {
		c.phaseMaster -= 1.0
		master = true
	}

	for k := 0; k < 13; k++ {
		dstep := c.divisionHz(k) / c.sampleHz
		c.phaseDiv[k] += dstep
		if c.phaseDiv[k] >= 1.0 {
			c.phaseDiv[k] -= 1.0
			divOut[k] = true
		} else {
			divOut[k] = false
		}
	}
	return master
}

// MidiGate tracks the note-on/note-off/retrigger state for one slot's MIDI
// trigger stream.
type MidiGate struct {
	sampleHz float64
	held     bool
	retrig   bool
	phase    float64
}

// NewMidiGate creates a gate generator for the given sample rate.
func NewMidiGate(sampleHz float64) *MidiGate {
	return &MidiGate{sampleHz: sampleHz}
}

// NoteOn marks the gate held and emits an immediate trigger on the next
// Step call. retrig selects whether continuous retriggering runs at
// MidiRetrigHz while the note stays held (descriptor's midi_retrig flag).
func (g *MidiGate) NoteOn(retrig bool) {
	g.held = true
	g.retrig = retrig
	g.phase = 0
}

// NoteOff releases the gate; no further triggers fire until the next NoteOn.
func (g *MidiGate) NoteOff() {
	g.held = false
}

// Step advances by one sample and reports whether a trigger fires this
// sample. The very first Step after NoteOn always fires (sample-accurate
// note-on trigger); subsequent triggers only occur if retrig is enabled.
func (g *MidiGate) Step() bool {
	if !g.held {
		return false
	}
	if g.phase == 0 {
		// first sample since NoteOn: fire, then arm the retrigger phase so
		// we don't double-fire on the same sample.
		g.phase = 1e-12
		return true
	}
	if !g.retrig {
		return false
	}
	g.phase += MidiRetrigHz / g.sampleHz
	if g.phase >= 1.0 {
		g.phase -= 1.0
		return true
	}
	return false
}
