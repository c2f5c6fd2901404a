package engine

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegdyne/sauceengine-go/internal/clock"
	"github.com/thegdyne/sauceengine-go/internal/control"
	"github.com/thegdyne/sauceengine-go/internal/grid"
	"github.com/thegdyne/sauceengine-go/internal/registry"
)

func testConfig() Config {
	return Config{SampleHz: 48000, BlockSize: 64, DefaultBPM: 120}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Add(&registry.Descriptor{ID: "saw", DSPKind: "saw", PitchTarget: registry.PitchFreq}))
	require.NoError(t, reg.Add(&registry.Descriptor{ID: "pluck", DSPKind: "karplus", PitchTarget: registry.PitchFreq, MidiRetrig: true}))
	return New(testConfig(), reg, zerolog.Nop())
}

func TestRenderBlockProducesInterleavedStereoOfRequestedLength(t *testing.T) {
	e := newTestEngine(t)
	out := e.RenderBlock(128)
	assert.Len(t, out, 256)
}

func TestRenderBlockNeverProducesNonFiniteSamples(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "saw"})
	for i := 0; i < 20; i++ {
		out := e.RenderBlock(64)
		for _, s := range out {
			assert.False(t, math.IsNaN(float64(s)))
			assert.False(t, math.IsInf(float64(s), 0))
		}
	}
}

// Clock division purity: rate index k yields pulses at bpm/60*ratio[k] Hz.
func TestClockTriggerRateMatchesBPMAndDivision(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "saw"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotClockRate, Slot: 1, ValueI: 6})
	e.ApplyMessage(control.Message{Kind: control.KindTransportBPM, ValueF: 120})

	sampleHz := int(testConfig().SampleHz)
	var divOut [13]bool
	triggers := 0
	for i := 0; i < sampleHz; i++ {
		e.clk.Step(&divOut)
		if divOut[6] {
			triggers++
		}
	}
	expectedHz := (120.0 / 60.0) * clock.Divisions[6]
	assert.InDelta(t, expectedHz, float64(triggers), 1)
}

// Scenario S3: a held MIDI-retrig voice fires between 29 and 31 triggers
// over one second at MidiRetrigHz=30.
func TestMidiRetriggerFiresAtConfiguredRate(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "pluck"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotMidiChannel, Slot: 1, ValueI: 1})
	e.ApplyMessage(control.Message{Kind: control.KindNoteOn, Slot: 1, ValueI: 0, IndexA: 60, IndexB: 100})

	g := e.gens[0]
	sampleHz := int(testConfig().SampleHz)
	triggers := 0
	for i := 0; i < sampleHz; i++ {
		if g.midiGate.Step() {
			triggers++
		}
	}
	assert.GreaterOrEqual(t, triggers, 29)
	assert.LessOrEqual(t, triggers, 31)
}

func TestNoteOnIgnoredOnMismatchedMidiChannel(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "pluck"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotMidiChannel, Slot: 1, ValueI: 2})
	e.ApplyMessage(control.Message{Kind: control.KindNoteOn, Slot: 1, ValueI: 0, IndexA: 60, IndexB: 100})

	assert.False(t, e.gens[0].midiGate.Step())
}

func TestSoloMessageSetsSoloOnlyOnAddressedStrip(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "saw"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 2, Text: "saw"})
	e.ApplyMessage(control.Message{Kind: control.KindChannelParam, Slot: 2, Text: "solo", ValueF: 1})

	for i := 0; i < 10; i++ {
		e.RenderBlock(64)
	}
	assert.True(t, e.gens[1].strip.Solo)
	assert.False(t, e.gens[0].strip.Solo)
}

func TestAllNotesOffReleasesHeldGate(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "pluck"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotMidiChannel, Slot: 1, ValueI: 1})
	e.ApplyMessage(control.Message{Kind: control.KindNoteOn, Slot: 1, ValueI: 0, IndexA: 60, IndexB: 100})
	e.ApplyMessage(control.Message{Kind: control.KindAllNotesOff, Slot: 1})

	assert.False(t, e.gens[0].midiGate.Step())
}

func TestPanicReleasesEveryGeneratorRegardlessOfSlot(t *testing.T) {
	e := newTestEngine(t)
	for i := 1; i <= numGenSlots; i++ {
		e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: i, Text: "pluck"})
		e.ApplyMessage(control.Message{Kind: control.KindSlotMidiChannel, Slot: i, ValueI: 1})
		e.ApplyMessage(control.Message{Kind: control.KindNoteOn, Slot: i, ValueI: 0, IndexA: 60, IndexB: 100})
	}
	e.ApplyMessage(control.Message{Kind: control.KindPanic})

	for _, g := range e.gens {
		assert.False(t, g.midiGate.Step())
	}
}

// Scenario S2: an LFO routed onto a generator's cutoff at unit depth
// sweeps it within the target's full normalized range, never beyond it.
func TestRouteSweepStaysWithinTargetRange(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "saw"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotModKind, Slot: 1, Text: "LFO"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotModParam, Slot: 1, IndexA: 0, ValueF: 4}) // 4Hz rate

	cutoffIdx := grid.GeneratorBase + 0*grid.GeneratorStride + grid.ParamCutoff
	e.ApplyMessage(control.Message{Kind: control.KindRouteAdd, IndexA: 1, IndexB: 0, IndexC: cutoffIdx, ValueF: 1})

	target := e.grid.Target(cutoffIdx)
	for i := 0; i < 200; i++ {
		e.RenderBlock(64)
		snap := e.GridSnapshot()
		assert.GreaterOrEqual(t, snap[cutoffIdx], target.Min)
		assert.LessOrEqual(t, snap[cutoffIdx], target.Max)
	}
}

func TestRouteRemoveStopsFurtherModulation(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotModKind, Slot: 1, Text: "LFO"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotModParam, Slot: 1, IndexA: 0, ValueF: 4})

	target := grid.GeneratorBase + grid.ParamCutoff
	e.ApplyMessage(control.Message{Kind: control.KindRouteAdd, IndexA: 1, IndexB: 0, IndexC: target, ValueF: 1})
	e.ApplyMessage(control.Message{Kind: control.KindRouteRemove, IndexA: 1, IndexB: 0, IndexC: target})
	assert.Empty(t, e.routes.Load())
}

// Property 9: the grid's index layout is exactly as documented — fixed
// base offsets and strides, never drifting with unrelated engine changes.
func TestGridIndexLayoutMatchesDocumentedRanges(t *testing.T) {
	assert.Equal(t, 0, grid.GeneratorBase)
	assert.Equal(t, 40, grid.GeneratorCustomBase)
	assert.Equal(t, 80, grid.ModulatorBase)
	assert.Equal(t, 108, grid.ChannelBase)
	assert.Equal(t, 132, grid.MasterBase)
	assert.Equal(t, 149, grid.NumTargets)
	assert.Equal(t, 17, grid.NumTargets-grid.MasterBase)
}

// Property 10: replaying a fully-configured engine's own ReplayState
// against a fresh engine reproduces the same effective grid snapshot —
// reconnect replay is idempotent.
func TestReplayStateReproducesGridSnapshot(t *testing.T) {
	src := newTestEngine(t)
	src.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "saw"})
	src.ApplyMessage(control.Message{Kind: control.KindSlotClockRate, Slot: 1, ValueI: 4})
	src.ApplyMessage(control.Message{Kind: control.KindSetBase, IndexA: 3, ValueF: 0.42})
	src.RenderBlock(64)

	dst := newTestEngine(t)
	for _, m := range src.ReplayState() {
		dst.ApplyMessage(m)
	}
	dst.RenderBlock(64)

	srcSnap := src.GridSnapshot()
	dstSnap := dst.GridSnapshot()
	for i := range srcSnap {
		assert.InDelta(t, srcSnap[i], dstSnap[i], 1e-5, "grid index %d diverged after replay", i)
	}
}

func TestReplayStateIsIdempotentWhenAppliedTwice(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "saw"})
	e.RenderBlock(64)

	msgs := e.ReplayState()
	for _, m := range msgs {
		e.ApplyMessage(m)
	}
	e.RenderBlock(64)
	first := e.GridSnapshot()
	for _, m := range msgs {
		e.ApplyMessage(m)
	}
	e.RenderBlock(64)
	second := e.GridSnapshot()
	assert.Equal(t, first, second)
}

func TestFXBypassExcludesSlotFromReturnMix(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindFXKind, Slot: 1, Text: "echo"})
	e.ApplyMessage(control.Message{Kind: control.KindFXBypass, Slot: 1, ValueI: 1})
	assert.True(t, e.fxBypassed[0])

	e.ApplyMessage(control.Message{Kind: control.KindFXBypass, Slot: 1, ValueI: 0})
	assert.False(t, e.fxBypassed[0])
}

func TestDescriptorSwapPreservesStickySettings(t *testing.T) {
	e := newTestEngine(t)
	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "saw"})
	e.ApplyMessage(control.Message{Kind: control.KindSlotClockRate, Slot: 1, ValueI: 9})
	e.ApplyMessage(control.Message{Kind: control.KindSlotMidiChannel, Slot: 1, ValueI: 5})

	e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "pluck"})

	g := e.gens[0]
	assert.Equal(t, 9, g.clockRate)
	assert.Equal(t, 5, g.midiChannel)
	assert.Equal(t, "pluck", g.descriptorID)
}

func TestUnknownDescriptorIsRejectedWithoutPanicking(t *testing.T) {
	e := newTestEngine(t)
	assert.NotPanics(t, func() {
		e.ApplyMessage(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "does-not-exist"})
	})
	assert.Equal(t, "", e.gens[0].descriptorID)
}

func TestDrainAppliesQueuedMessagesBeforeNextBlock(t *testing.T) {
	e := newTestEngine(t)
	q := control.NewQueue(16, 16)
	q.Push(control.Message{Kind: control.KindSlotDescriptor, Slot: 1, Text: "saw"})
	q.Push(control.Message{Kind: control.KindTransportBPM, ValueF: 90})

	e.Drain(q)
	assert.Equal(t, "saw", e.gens[0].descriptorID)
	assert.Equal(t, float64(90), e.clk.BPM())
}
