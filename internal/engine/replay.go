package engine

import (
	"github.com/thegdyne/sauceengine-go/internal/control"
	"github.com/thegdyne/sauceengine-go/internal/grid"
	"github.com/thegdyne/sauceengine-go/internal/modulation"
)

// ReplayState implements control.ReplaySource: a reconnecting peer needs
// every base value, slot assignment, and route reconstructed exactly as
// they stand, since the engine itself never re-sends anything unprompted.
func (e *Engine) ReplayState() []control.Message {
	msgs := make([]control.Message, 0, grid.NumTargets+numGenSlots*4+numModSlots*2+8)

	for i := 0; i < grid.NumTargets; i++ {
		msgs = append(msgs, control.Message{Kind: control.KindSetBase, IndexA: i, ValueF: e.grid.Base(i)})
	}

	for i, g := range e.gens {
		slot := i + 1
		if g.descriptorID != "" {
			msgs = append(msgs, control.Message{Kind: control.KindSlotDescriptor, Slot: slot, Text: g.descriptorID})
		}
		msgs = append(msgs, control.Message{Kind: control.KindSlotEnvSource, Slot: slot, ValueI: int(g.envSource)})
		msgs = append(msgs, control.Message{Kind: control.KindSlotClockRate, Slot: slot, ValueI: g.clockRate})
		msgs = append(msgs, control.Message{Kind: control.KindSlotFilterType, Slot: slot, ValueI: int(g.filterType)})
		msgs = append(msgs, control.Message{Kind: control.KindSlotMidiChannel, Slot: slot, ValueI: g.midiChannel})
	}

	for i, slot := range e.mods {
		if name := modKindName(slot.Kind()); name != "" {
			msgs = append(msgs, control.Message{Kind: control.KindSlotModKind, Slot: i + 1, Text: name})
		}
	}

	for _, r := range e.routes.All() {
		msgs = append(msgs, control.Message{
			Kind:   control.KindRouteAdd,
			// r.SourceSlot is the stored 0-based slot index; dispatch's
			// KindRouteAdd case runs it back through modIndex, the same
			// 1-based-wire conversion every mod-slot message gets, so the
			// replayed message must carry the 1-based wire value here.
			IndexA: r.SourceSlot + 1,
			IndexB: r.SourceChannel,
			IndexC: r.TargetIndex,
			ValueF: r.Depth,
		})
	}

	for j, bypassed := range e.fxBypassed {
		v := 0
		if bypassed {
			v = 1
		}
		msgs = append(msgs, control.Message{Kind: control.KindFXBypass, Slot: j + 1, ValueI: v})
	}

	return msgs
}

// modKindName is the inverse of dispatch.go's modKindFromName, used to
// reconstruct a /mod/slot/N/kind message during replay.
func modKindName(k modulation.Kind) string {
	switch k {
	case modulation.KindLFO:
		return "LFO"
	case modulation.KindSloth:
		return "Sloth"
	case modulation.KindSauceOfGrav:
		return "SauceOfGrav"
	default:
		return ""
	}
}
