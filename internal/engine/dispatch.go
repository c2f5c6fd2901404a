package engine

import (
	"math"

	"github.com/thegdyne/sauceengine-go/internal/control"
	"github.com/thegdyne/sauceengine-go/internal/fx"
	"github.com/thegdyne/sauceengine-go/internal/grid"
	"github.com/thegdyne/sauceengine-go/internal/master"
	"github.com/thegdyne/sauceengine-go/internal/modulation"
	"github.com/thegdyne/sauceengine-go/internal/voice"
)

// dispatch applies one drained control message to engine state. It runs
// on the audio thread between blocks (called from Drain), never during
// RenderBlock's per-sample loop.
func (e *Engine) dispatch(m control.Message) {
	switch m.Kind {
	case control.KindSetBase:
		e.grid.SetBase(m.IndexA, m.ValueF)

	case control.KindTransportBPM:
		e.clk.SetBPM(float64(m.ValueF))

	case control.KindSlotDescriptor:
		e.assignDescriptor(slotIndex(m.Slot), m.Text)

	case control.KindSlotParam:
		idx := grid.GeneratorBase + slotIndex(m.Slot)*grid.GeneratorStride + m.IndexA
		t := e.grid.Target(idx)
		e.grid.SetBase(idx, denormalize(t, m.ValueF))

	case control.KindSlotCustomParam:
		idx := grid.GeneratorCustomBase + slotIndex(m.Slot)*grid.GeneratorCustomStride + m.IndexA
		e.grid.SetBase(idx, m.ValueF)

	case control.KindSlotEnvSource:
		e.gens[slotIndex(m.Slot)].envSource = voice.EnvSource(m.ValueI)
		e.gens[slotIndex(m.Slot)].voice.SetEnvSource(voice.EnvSource(m.ValueI))

	case control.KindSlotClockRate:
		g := e.gens[slotIndex(m.Slot)]
		g.clockRate = clampInt(m.ValueI, 0, 12)

	case control.KindSlotFilterType:
		g := e.gens[slotIndex(m.Slot)]
		g.filterType = voice.FilterType(m.ValueI)
		g.voice.SetFilterType(g.filterType)

	case control.KindSlotMidiChannel:
		e.gens[slotIndex(m.Slot)].midiChannel = m.ValueI

	case control.KindNoteOn:
		e.handleNoteOn(m)

	case control.KindNoteOff:
		e.handleNoteOff(m)

	case control.KindAllNotesOff:
		g := e.gens[slotIndex(m.Slot)]
		g.midiGate.NoteOff()
		g.voice.ReleaseMIDI()

	case control.KindPanic:
		for _, g := range e.gens {
			g.midiGate.NoteOff()
			g.voice.ReleaseMIDI()
		}

	case control.KindChannelParam:
		e.applyChannelMessage(m)

	case control.KindFXKind:
		e.fxSlots[fxIndex(m.Slot)].SetKind(fxKindFromName(m.Text))

	case control.KindFXParam:
		e.applyFXParam(m)

	case control.KindFXBypass:
		e.fxBypassed[fxIndex(m.Slot)] = m.ValueI != 0

	case control.KindMasterParam:
		e.applyMasterMessage(m)

	case control.KindSlotModKind:
		e.mods[modIndex(m.Slot)].SetKind(modKindFromName(m.Text))

	case control.KindSlotModParam:
		idx := grid.ModulatorBase + modIndex(m.Slot)*grid.ModulatorStride + m.IndexA
		e.grid.SetBase(idx, m.ValueF)

	case control.KindSlotModReset:
		e.mods[modIndex(m.Slot)].Reset()

	case control.KindRouteAdd:
		e.routes.Add(modIndex(m.IndexA), m.IndexB, m.IndexC, m.ValueF)

	case control.KindRouteRemove:
		e.routes.Remove(modIndex(m.IndexA), m.IndexB, m.IndexC)

	case control.KindBoidOffset:
		// Persisted rather than applied directly against the in-progress
		// assembler — stepModulators re-folds this every block (see
		// Engine.boidOffsets) since a bulk external-modulation upload has
		// no live modulator behind it to recompute a fresh value.
		if m.IndexC >= 0 && m.IndexC < grid.NumTargets {
			e.boidOffsets[m.IndexC] = m.ValueF
		}
	}
}

func (e *Engine) handleNoteOn(m control.Message) {
	idx := slotIndex(m.Slot)
	g := e.gens[idx]
	if g.midiChannel == 0 || g.midiChannel-1 != m.ValueI {
		return
	}
	retrig := g.descriptor != nil && g.descriptor.MidiRetrig
	g.midiGate.NoteOn(retrig)
}

func (e *Engine) handleNoteOff(m control.Message) {
	idx := slotIndex(m.Slot)
	g := e.gens[idx]
	if g.midiChannel == 0 || g.midiChannel-1 != m.ValueI {
		return
	}
	g.midiGate.NoteOff()
	g.voice.ReleaseMIDI()
}

// assignDescriptor swaps slot i's voice to descriptorID, preserving its
// sticky settings (env source, clock rate, MIDI channel, filter type)
// across the swap.
func (e *Engine) assignDescriptor(i int, descriptorID string) {
	g := e.gens[i]
	d, ok := e.reg.Get(descriptorID)
	if !ok {
		e.log.Warn().Str("descriptor", descriptorID).Int("slot", i+1).Msg("unknown descriptor")
		return
	}
	g.descriptorID = descriptorID
	g.descriptor = d
	g.voice.AssignDescriptor(d.DSPKind, d.OutputTrimDB)
	g.voice.SetEnvSource(g.envSource)
	g.voice.SetFilterType(g.filterType)
}

func (e *Engine) applyChannelMessage(m control.Message) {
	idx := slotIndex(m.Slot)
	g := e.gens[idx]
	switch m.Text {
	case "send":
		switch m.IndexA {
		case 0:
			e.grid.SetBase(grid.ChannelBase+idx*grid.ChannelStride+grid.ParamEchoSend, m.ValueF)
		case 1:
			e.grid.SetBase(grid.ChannelBase+idx*grid.ChannelStride+grid.ParamReverbSend, m.ValueF)
		case 2, 3:
			g.extraSends[m.IndexA-2] = clampFloat(m.ValueF, 0, 1)
		}
	case "pan":
		e.grid.SetBase(grid.ChannelBase+idx*grid.ChannelStride+grid.ParamPan, m.ValueF)
	case "volume":
		g.strip.Volume = clampFloat(m.ValueF, 0, 1)
	case "mute":
		g.strip.Mute = m.ValueF != 0
	case "solo":
		g.strip.Solo = m.ValueF != 0
	case "gain":
		g.strip.GainTrim = m.ValueF
	case "eq/lo":
		g.strip.EQLo = m.ValueF
	case "eq/mid":
		g.strip.EQMid = m.ValueF
	case "eq/hi":
		g.strip.EQHi = m.ValueF
	}
}

// applyFXParam writes one continuous parameter on the active send-FX
// effect. K addresses the effect's own fields in declaration order — each
// compiled kind exposes a different count and meaning, so there is no
// shared target metadata the way generator/channel/master params have.
func (e *Engine) applyFXParam(m control.Message) {
	slot := e.fxSlots[fxIndex(m.Slot)]
	v := m.ValueF
	switch eff := slot.Current().(type) {
	case *fx.Echo:
		switch m.IndexA {
		case 0:
			eff.TimeS = v
		case 1:
			eff.Feedback = v
		case 2:
			eff.Tone = v
		case 3:
			eff.WowDepth = v
		case 4:
			eff.WowHz = v
		case 5:
			eff.SpringMix = v
		case 6:
			eff.ReverbFeed = v
		}
	case *fx.Reverb:
		switch m.IndexA {
		case 0:
			eff.Decay = v
		case 1:
			eff.Damp = v
		case 2:
			eff.Mix = v
		}
	case *fx.Chorus:
		switch m.IndexA {
		case 0:
			eff.RateHz = v
		case 1:
			eff.Depth = v
		case 2:
			eff.Mix = v
		}
	case *fx.Phaser:
		switch m.IndexA {
		case 0:
			eff.RateHz = v
		case 1:
			eff.Depth = v
		case 2:
			eff.Feedback = v
		case 3:
			eff.Mix = v
		}
	case *fx.Flanger:
		switch m.IndexA {
		case 0:
			eff.RateHz = v
		case 1:
			eff.Depth = v
		case 2:
			eff.Feedback = v
		case 3:
			eff.Mix = v
		}
	case *fx.Tremolo:
		switch m.IndexA {
		case 0:
			eff.RateHz = v
		case 1:
			eff.Depth = v
		}
	case *fx.LoFi:
		switch m.IndexA {
		case 0:
			eff.BitDepth = v
		case 1:
			eff.DecimateHz = v
		}
	case *fx.RingMod:
		switch m.IndexA {
		case 0:
			eff.CarrierHz = v
		case 1:
			eff.Mix = v
		}
	case *fx.Grain:
		switch m.IndexA {
		case 0:
			eff.SizeS = v
		case 1:
			eff.RateHz = v
		case 2:
			eff.Pitch = v
		case 3:
			eff.ScatterS = v
		}
	}
}

func (e *Engine) applyMasterMessage(m control.Message) {
	mb := grid.MasterBase
	switch m.Text {
	case "volume":
		e.grid.SetBase(mb+masterVolume, m.ValueF)
	case "heat/drive":
		e.grid.SetBase(mb+masterHeatDrive, m.ValueF)
	case "heat/makeup":
		e.grid.SetBase(mb+masterHeatMakeup, m.ValueF)
	case "filter/cutoff1":
		e.grid.SetBase(mb+masterFilterCutoff1, m.ValueF)
	case "filter/resonance1":
		e.grid.SetBase(mb+masterFilterResonance1, m.ValueF)
	case "filter/cutoff2":
		e.grid.SetBase(mb+masterFilterCutoff2, m.ValueF)
	case "filter/resonance2":
		e.grid.SetBase(mb+masterFilterResonance2, m.ValueF)
	case "filter/sync-ratio":
		e.grid.SetBase(mb+masterFilterSyncRatio, m.ValueF)
	case "eq/low-cut-hz":
		e.grid.SetBase(mb+masterEQLowCutHz, m.ValueF)
	case "eq/lo":
		e.grid.SetBase(mb+masterEQLo, m.ValueF)
	case "eq/mid":
		e.grid.SetBase(mb+masterEQMid, m.ValueF)
	case "eq/hi":
		e.grid.SetBase(mb+masterEQHi, m.ValueF)
	case "comp/threshold-db":
		e.grid.SetBase(mb+masterCompThresholdDB, m.ValueF)
	case "comp/ratio":
		e.grid.SetBase(mb+masterCompRatio, m.ValueF)
	case "comp/attack-s":
		e.grid.SetBase(mb+masterCompAttackS, m.ValueF)
	case "comp/release-s":
		e.grid.SetBase(mb+masterCompReleaseS, m.ValueF)
	case "comp/makeup-db":
		e.grid.SetBase(mb+masterCompMakeupDB, m.ValueF)
	case "heat/circuit":
		e.master.HeatParams().SetCircuit(masterHeatCircuit(m.ValueI))
	case "filter/sync":
		e.master.DualFilterParams().Sync = m.ValueF != 0
	case "filter/routing":
		e.master.DualFilterParams().Routing = masterFilterRouting(m.ValueI)
	case "filter/type1":
		e.master.DualFilterParams().Type1 = voice.FilterType(m.ValueI)
	case "filter/type2":
		e.master.DualFilterParams().Type2 = voice.FilterType(m.ValueI)
	case "heat/bypass":
		e.master.Heat.SetBypassed(m.ValueF != 0)
	case "filter/bypass":
		e.master.DualFilter.SetBypassed(m.ValueF != 0)
	case "eq/bypass":
		e.master.EQ.SetBypassed(m.ValueF != 0)
	case "comp/bypass":
		e.master.Compressor.SetBypassed(m.ValueF != 0)
	case "limiter/bypass":
		e.master.Limiter.SetBypassed(m.ValueF != 0)
	}
}

// slotIndex, fxIndex, and modIndex convert a message's 1-based wire slot
// number to a 0-based array index, matching the Message.Slot convention.
func slotIndex(slot int) int { return clampInt(slot-1, 0, numGenSlots-1) }
func fxIndex(slot int) int   { return clampInt(slot-1, 0, numFXSlots-1) }
func modIndex(slot int) int  { return clampInt(slot-1, 0, numModSlots-1) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// denormalize maps a 0..1 control value onto target's domain using its
// curve: linear is an affine map, exponential preserves ratio (equal
// steps in the normalized value are equal steps in log-space).
func denormalize(t grid.Target, norm float32) float32 {
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	switch t.Kind {
	case grid.KindExponential:
		if t.Min <= 0 {
			return t.Min + norm*(t.Max-t.Min)
		}
		return float32(float64(t.Min) * math.Pow(float64(t.Max/t.Min), float64(norm)))
	default:
		return t.Min + norm*(t.Max-t.Min)
	}
}

func fxKindFromName(name string) fx.Kind {
	switch name {
	case "echo":
		return fx.KindEcho
	case "reverb":
		return fx.KindReverb
	case "chorus":
		return fx.KindChorus
	case "phaser":
		return fx.KindPhaser
	case "flanger":
		return fx.KindFlanger
	case "tremolo":
		return fx.KindTremolo
	case "lofi":
		return fx.KindLoFi
	case "ringmod":
		return fx.KindRingMod
	case "grain":
		return fx.KindGrain
	default:
		return fx.KindEmpty
	}
}

func masterHeatCircuit(v int) master.Circuit {
	switch v {
	case 1:
		return master.CircuitTransistor
	case 2:
		return master.CircuitDiode
	default:
		return master.CircuitTube
	}
}

func masterFilterRouting(v int) master.RoutingMode {
	if v == 1 {
		return master.RoutingParallel
	}
	return master.RoutingSerial
}

func modKindFromName(name string) modulation.Kind {
	switch name {
	case "LFO":
		return modulation.KindLFO
	case "Sloth":
		return modulation.KindSloth
	case "SauceOfGrav":
		return modulation.KindSauceOfGrav
	default:
		return modulation.KindEmpty
	}
}
