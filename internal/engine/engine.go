// Package engine wires the grid, voices, modulators, send FX, and master
// chain into the fixed per-block processing order: drain control
// messages, step modulators, assemble offsets, snapshot the grid, render
// every generator sample-by-sample, mix through channel strips and send
// buses, run the master chain, and emit metering telemetry.
package engine

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/thegdyne/sauceengine-go/internal/clock"
	"github.com/thegdyne/sauceengine-go/internal/control"
	"github.com/thegdyne/sauceengine-go/internal/fx"
	"github.com/thegdyne/sauceengine-go/internal/grid"
	"github.com/thegdyne/sauceengine-go/internal/master"
	"github.com/thegdyne/sauceengine-go/internal/meter"
	"github.com/thegdyne/sauceengine-go/internal/modulation"
	"github.com/thegdyne/sauceengine-go/internal/registry"
	"github.com/thegdyne/sauceengine-go/internal/voice"
)

// Engine owns every synthesis-graph component for one running instance.
type Engine struct {
	cfg Config
	log zerolog.Logger

	grid      *grid.Grid
	assembler grid.BlockAssembler

	// lastSnapshot is the previous block's effective grid values. Modulator
	// cores read their own 7-param control block from it rather than from
	// the snapshot in progress, so a route that targets a modulator-slot
	// parameter resolves with a one-block delay instead of a same-block
	// cycle.
	lastSnapshot [grid.NumTargets]float32

	gens    [numGenSlots]*genSlot
	mods    [numModSlots]*modulation.Slot
	fxSlots [numFXSlots]*fx.Slot
	fxBypassed [numFXSlots]bool

	master *master.Chain
	routes *routeTable
	reg    *registry.Registry
	clk    *clock.Clock

	blockCount uint64

	slotMeters  [numGenSlots]*meter.Bus
	masterMeter *meter.Bus
	gridTel     *meter.GridTelemetry

	lastSlotSummaries [numGenSlots]meter.Summary
	lastMasterSummary meter.Summary

	// boidOffsets holds the last bulk external-modulation upload
	// (/mod/boid/offsets) per target. It survives stepModulators'
	// per-block Zero() — unlike a route's contribution, which is derived
	// fresh from a live modulator's output every block, a boid offset has
	// no modulator behind it and must be re-applied each block until a
	// later upload replaces it.
	boidOffsets [grid.NumTargets]float32
}

// New constructs an Engine ready to render audio. reg supplies the
// generator descriptors validated at boot.
func New(cfg Config, reg *registry.Registry, log zerolog.Logger) *Engine {
	targets := buildTargets()
	e := &Engine{
		cfg:    cfg,
		log:    log.With().Str("component", "engine").Logger(),
		grid:   grid.New(targets),
		master: master.NewChain(cfg.SampleHz),
		routes: newRouteTable(),
		reg:    reg,
		clk:    clock.New(float64(cfg.SampleHz), cfg.DefaultBPM),
	}
	for i := range e.gens {
		e.gens[i] = newGenSlot(cfg.SampleHz)
	}
	for i := range e.mods {
		e.mods[i] = modulation.NewSlot(int64(uint64(i) * 0x9E3779B97F4A7C15))
	}
	for i := range e.fxSlots {
		e.fxSlots[i] = fx.NewSlot(cfg.SampleHz)
	}
	blockHz := cfg.SampleHz / float32(cfg.BlockSize)
	for i := range e.slotMeters {
		e.slotMeters[i] = meter.NewBus(cfg.SampleHz, 30)
	}
	e.masterMeter = meter.NewBus(cfg.SampleHz, 30)
	e.gridTel = meter.NewGridTelemetry(blockHz, 30)

	for i, t := range targets {
		e.lastSnapshot[i] = t.Default
	}
	return e
}

// ApplyMessage mutates engine state for one drained control message. It is
// exported so a test can drive the engine without a live OSC router.
func (e *Engine) ApplyMessage(m control.Message) {
	e.dispatch(m)
}

// Drain applies every currently queued control message in FIFO order
// within its category, triggers before Set/Structural.
func (e *Engine) Drain(q *control.Queue) {
	q.Drain(e.dispatch)
}

// RenderBlock renders frames stereo sample pairs (interleaved L,R,L,R,...)
// in a slice newly allocated for each call, which the caller owns.
func (e *Engine) RenderBlock(frames int) []float32 {
	blockSeconds := float64(frames) / float64(e.cfg.SampleHz)

	e.stepModulators(blockSeconds)
	snapshot := e.assembler.Snapshot(e.grid)

	e.applyChannelParams(snapshot)
	e.applyMasterParams(snapshot)

	soloActive := false
	for _, g := range e.gens {
		if g.strip.Solo {
			soloActive = true
			break
		}
	}

	out := make([]float32, frames*2)
	var divOut [13]bool

	for i := 0; i < frames; i++ {
		e.clk.Step(&divOut)
		for _, g := range e.gens {
			if divOut[g.clockRate] {
				g.voice.TriggerClock()
			}
			if g.midiGate.Step() {
				g.voice.TriggerMIDI()
			}
		}

		var drySum voice.Frame
		var sendSum [numFXSlots]voice.Frame

		for gi, g := range e.gens {
			base := grid.GeneratorBase + gi*grid.GeneratorStride
			cbase := grid.GeneratorCustomBase + gi*grid.GeneratorCustomStride
			p := voice.Params{
				FreqHz:      snapshot[base+grid.ParamFreq],
				Cutoff01:    snapshot[base+grid.ParamCutoff],
				Resonance01: snapshot[base+grid.ParamResonance],
				AttackS:     snapshot[base+grid.ParamAttack],
				DecayS:      snapshot[base+grid.ParamDecay],
			}
			for j := 0; j < 5; j++ {
				p.Custom[j] = snapshot[cbase+j]
			}

			sig := g.voice.Process(p)
			e.slotMeters[gi].Accumulate(sig)

			dry, sends := g.strip.Process(sig, soloActive)
			drySum[0] += dry[0]
			drySum[1] += dry[1]
			for j := 0; j < 2; j++ {
				sendSum[j][0] += sends[j][0]
				sendSum[j][1] += sends[j][1]
			}
			// Send indices 2,3 bypass the fixed grid wire layout entirely
			// and are applied directly from the slot's sticky extraSends,
			// scaled by the same post-fader/post-pan dry signal.
			for j := 0; j < 2; j++ {
				amt := g.extraSends[j]
				sendSum[2+j][0] += dry[0] * amt
				sendSum[2+j][1] += dry[1] * amt
			}
		}

		var preMaster voice.Frame
		preMaster[0], preMaster[1] = drySum[0], drySum[1]
		for j, slot := range e.fxSlots {
			if e.fxBypassed[j] {
				continue
			}
			ret := slot.Process(fx.Frame{sendSum[j][0], sendSum[j][1]})
			preMaster[0] += ret[0]
			preMaster[1] += ret[1]
		}

		mastered := e.master.Process(master.Frame{preMaster[0], preMaster[1]})
		l := meter.HardClip(mastered[0])
		r := meter.HardClip(mastered[1])
		e.masterMeter.Accumulate((l + r) / 2)

		out[i*2] = l
		out[i*2+1] = r
	}

	e.flushMeters()
	e.lastSnapshot = snapshot
	e.blockCount++
	return out
}

// stepModulators runs each modulator slot's Step and folds its output into
// the block assembler via the current routing table, reading each
// modulator's own control params from the previous block's snapshot.
func (e *Engine) stepModulators(blockSeconds float64) {
	e.assembler.Zero()
	for i, v := range e.boidOffsets {
		if v != 0 {
			e.assembler.AddContribution(e.grid, i, v, 1)
		}
	}

	var outs [numModSlots][4]float32
	for i, slot := range e.mods {
		grav := applyModParams(slot, e.lastSnapshot, i)
		outs[i] = slot.Step(blockSeconds, grav)
		for c, v := range outs[i] {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				e.log.Warn().Err(&control.NonFiniteState{
					Component: "modulator",
					Detail:    "slot produced non-finite output, resetting",
				}).Int("slot", i).Int("channel", c).Msg("recovered from non-finite modulator state")
				slot.Reset()
				outs[i] = [4]float32{}
				break
			}
		}
	}

	for _, r := range e.routes.Load() {
		if !r.Enabled || r.SourceSlot < 0 || r.SourceSlot >= numModSlots {
			continue
		}
		if r.SourceChannel < 0 || r.SourceChannel > 3 {
			continue
		}
		v := outs[r.SourceSlot][r.SourceChannel]
		depth := r.Depth
		if r.Inverted {
			depth = -depth
		}
		e.assembler.AddContribution(e.grid, r.TargetIndex, v, depth)
	}
}

// applyChannelParams pushes this block's snapshot echo/reverb-send and pan
// values into each channel strip ahead of Process.
func (e *Engine) applyChannelParams(snapshot [grid.NumTargets]float32) {
	for c, g := range e.gens {
		base := grid.ChannelBase + c*grid.ChannelStride
		g.strip.Send[0] = snapshot[base+grid.ParamEchoSend]
		g.strip.Send[1] = snapshot[base+grid.ParamReverbSend]
		g.strip.Pan = snapshot[base+grid.ParamPan]
	}
}

// applyMasterParams pushes this block's 17 master-chain values into the
// live insert instances ahead of Process.
func (e *Engine) applyMasterParams(snapshot [grid.NumTargets]float32) {
	m := grid.MasterBase

	heat := e.master.HeatParams()
	heat.Drive = snapshot[m+masterHeatDrive]
	heat.Makeup = snapshot[m+masterHeatMakeup]

	df := e.master.DualFilterParams()
	df.Cutoff1 = snapshot[m+masterFilterCutoff1]
	df.Resonance1 = snapshot[m+masterFilterResonance1]
	df.Cutoff2 = snapshot[m+masterFilterCutoff2]
	df.Resonance2 = snapshot[m+masterFilterResonance2]
	df.SyncRatio = snapshot[m+masterFilterSyncRatio]

	eq := e.master.EQParams()
	eq.LowCutHz = snapshot[m+masterEQLowCutHz]
	eq.Lo = snapshot[m+masterEQLo]
	eq.Mid = snapshot[m+masterEQMid]
	eq.Hi = snapshot[m+masterEQHi]

	comp := e.master.CompressorParams()
	comp.ThresholdDB = snapshot[m+masterCompThresholdDB]
	comp.Ratio = snapshot[m+masterCompRatio]
	comp.AttackS = snapshot[m+masterCompAttackS]
	comp.ReleaseS = snapshot[m+masterCompReleaseS]
	comp.MakeupDB = snapshot[m+masterCompMakeupDB]

	e.master.Volume = snapshot[m+masterVolume]
}

func (e *Engine) flushMeters() {
	for i, b := range e.slotMeters {
		if b.Ready() {
			e.lastSlotSummaries[i] = b.Flush()
		}
	}
	if e.masterMeter.Ready() {
		e.lastMasterSummary = e.masterMeter.Flush()
	}
}

// SlotSummary returns the most recently flushed peak/RMS pair for slot i.
func (e *Engine) SlotSummary(i int) meter.Summary { return e.lastSlotSummaries[i] }

// MasterSummary returns the most recently flushed master peak/RMS pair.
func (e *Engine) MasterSummary() meter.Summary { return e.lastMasterSummary }

// GridSnapshot returns the last block's effective 149-entry grid values,
// for telemetry decimation.
func (e *Engine) GridSnapshot() [grid.NumTargets]float32 { return e.lastSnapshot }

// TelemetryDue reports whether this block's grid snapshot should be
// emitted, decimated to the metering contract's 30Hz ceiling.
func (e *Engine) TelemetryDue() bool { return e.gridTel.Tick() }
