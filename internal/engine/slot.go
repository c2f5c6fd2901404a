package engine

import (
	"github.com/thegdyne/sauceengine-go/internal/clock"
	"github.com/thegdyne/sauceengine-go/internal/registry"
	"github.com/thegdyne/sauceengine-go/internal/voice"
)

// numGenSlots, numModSlots, numFXSlots, numSendBuses match the fixed
// topology §3.2/§3.3 describe: 8 generators, 4 modulators, 4 send FX.
const (
	numGenSlots  = 8
	numModSlots  = 4
	numFXSlots   = 4
	numSendBuses = 4
)

// genSlot is one generator slot's full state: the sticky settings that
// survive a descriptor swap, the underlying Voice, and its channel strip.
// A slot with no descriptor assigned is silent but still occupies its
// channel strip and bus position.
type genSlot struct {
	descriptorID string
	descriptor   *registry.Descriptor

	voice *voice.Voice
	strip *voice.ChannelStrip

	envSource  voice.EnvSource
	clockRate  int // 0..12, index into clock.Divisions
	midiChannel int // 0 = off, 1..16
	filterType voice.FilterType

	midiGate *clock.MidiGate

	// extraSends holds the two send amounts (index 2,3) not represented
	// in the fixed grid layout — set directly by control messages rather
	// than being modulatable via the 149-entry grid.
	extraSends [2]float32
}

func newGenSlot(sampleHz float32) *genSlot {
	return &genSlot{
		voice:    voice.NewVoice(sampleHz),
		strip:    voice.NewChannelStrip(sampleHz),
		midiGate: clock.NewMidiGate(float64(sampleHz)),
	}
}
