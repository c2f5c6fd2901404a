package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Rate index k yields pulses at bpm/60 * ratio[k] Hz within one sample.
func TestDivisionPulseRateWithinOneSample(t *testing.T) {
	const sampleHz = 48000.0
	c := New(sampleHz, 120)

	k := 6 // ratio 1 (one pulse per quarter note)
	wantHz := (120.0 / 60.0) * Divisions[k]
	wantPeriodSamples := sampleHz / wantHz

	var div [13]bool
	count := 0
	total := int(wantPeriodSamples * 10.5)
	for i := 0; i < total; i++ {
		c.Step(&div)
		if div[k] {
			count++
		}
	}
	wantCount := float64(total) / wantPeriodSamples
	assert.InDelta(t, wantCount, float64(count), 1.5)
}

// At 120bpm, clock-rate index 6 (ratio 1, one pulse per quarter note)
// fires at 2Hz.
func TestQuarterNoteDivisionFiresTwicePerSecondAt120BPM(t *testing.T) {
	const sampleHz = 48000.0
	c := New(sampleHz, 120)
	var div [13]bool
	count := 0
	for i := 0; i < int(sampleHz); i++ {
		c.Step(&div)
		if div[6] {
			count++
		}
	}
	assert.InDelta(t, 2, count, 1) // 120bpm quarter notes = 2 Hz
}

// Holding a note for T seconds with retrig enabled produces
// floor(T*30) +/- 1 triggers.
func TestMidiGateRetriggerRateOverOneSecond(t *testing.T) {
	const sampleHz = 48000.0
	g := NewMidiGate(sampleHz)
	g.NoteOn(true)

	count := 0
	for i := 0; i < int(sampleHz); i++ {
		if g.Step() {
			count++
		}
	}
	assert.InDelta(t, 30, count, 1)
}

func TestMidiGateSingleTriggerWithoutRetrig(t *testing.T) {
	const sampleHz = 48000.0
	g := NewMidiGate(sampleHz)
	g.NoteOn(false)

	count := 0
	for i := 0; i < int(sampleHz); i++ {
		if g.Step() {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestMidiGateNoTriggersAfterNoteOff(t *testing.T) {
	g := NewMidiGate(48000)
	g.NoteOn(false)
	g.Step()
	g.NoteOff()
	assert.False(t, g.Step())
}
