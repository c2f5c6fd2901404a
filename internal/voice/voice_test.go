package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceSilentWithoutDescriptor(t *testing.T) {
	v := NewVoice(48000)
	out := v.Process(Params{FreqHz: 440})
	assert.Equal(t, float32(0), out)
}

func TestVoiceProducesSignalOnceAssigned(t *testing.T) {
	v := NewVoice(48000)
	v.AssignDescriptor("saw_basic", 0)
	v.SetEnvSource(EnvOff)

	nonZero := false
	for i := 0; i < 100; i++ {
		out := v.Process(Params{FreqHz: 220, Cutoff01: 1, Resonance01: 0})
		if out != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}

func TestVoiceClockTriggerStartsEnvelope(t *testing.T) {
	v := NewVoice(48000)
	v.AssignDescriptor("saw_basic", 0)
	v.SetEnvSource(EnvClock)
	v.SetEnvTimes(0.01, 0.1)
	require.True(t, v.envelope.Idle())

	v.TriggerClock()
	// Process applies the block's env times, so pass the same ones. A saw's
	// first sample is 0 and the low-pass output lags its input, so the
	// first few samples are checked rather than only the first.
	p := Params{FreqHz: 220, Cutoff01: 1, AttackS: 0.01, DecayS: 0.1}
	nonZero := false
	for i := 0; i < 8; i++ {
		if v.Process(p) != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}

// When any strip is soloed, a non-soloed unmuted strip contributes nothing
// to either the dry output or any send bus.
func TestSoloSemanticsSilencesNonSoloedSlot(t *testing.T) {
	c := NewChannelStrip(48000)
	c.Send = [4]float32{1, 1, 1, 1}

	dry, sends := c.Process(1.0, true /* solo active elsewhere */)
	assert.Equal(t, Frame{}, dry)
	for _, s := range sends {
		assert.Equal(t, Frame{}, s)
	}
}

func TestSoloedSlotStillContributesWhenSoloActive(t *testing.T) {
	c := NewChannelStrip(48000)
	c.Solo = true
	c.Send = [4]float32{1, 0, 0, 0}

	dry, sends := c.Process(1.0, true)
	assert.NotEqual(t, Frame{}, dry)
	assert.NotEqual(t, Frame{}, sends[0])
}

func TestMuteTakesPrecedenceOverSolo(t *testing.T) {
	c := NewChannelStrip(48000)
	c.Solo = true
	c.Mute = true

	dry, _ := c.Process(1.0, true)
	assert.Equal(t, Frame{}, dry)
}

// A descriptor swap preserves env-source, clock-rate, MIDI channel, and
// filter-type settings; only the envelope's run state resets.
func TestStickySettingsSurviveDescriptorSwap(t *testing.T) {
	v := NewVoice(48000)
	v.AssignDescriptor("saw_basic", 0)
	v.SetEnvSource(EnvMIDI)
	v.SetFilterType(FilterHP)
	v.clockRateIdx = 6
	v.midiChannel = 3

	v.AssignDescriptor("karplus", 0)

	assert.Equal(t, EnvMIDI, v.envSource)
	assert.Equal(t, FilterHP, v.filterType)
	assert.Equal(t, 6, v.clockRateIdx)
	assert.Equal(t, 3, v.midiChannel)
	// envelope state resets on swap (non-sticky)
	assert.True(t, v.envelope.Idle())
}

func TestPan2HardLeftAndRight(t *testing.T) {
	l, r := pan2(1.0, -1.0)
	assert.InDelta(t, 1.0, l, 1e-3)
	assert.InDelta(t, 0.0, r, 1e-3)

	l, r = pan2(1.0, 1.0)
	assert.InDelta(t, 0.0, l, 1e-3)
	assert.InDelta(t, 1.0, r, 1e-3)
}
