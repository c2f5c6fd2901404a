// Package grid implements the unified 149-entry control grid: the shared
// array of control targets that user knobs (via the control thread) and
// modulators (via the audio thread) both write into, and that every
// synthesis component reads once per block.
//
// The index layout is fixed and part of the wire contract:
//
//	0-39    8 generators x {freq, cutoff, resonance, attack, decay}
//	40-79   8 generators x 5 custom params
//	80-107  4 modulator slots x 7 params
//	108-131 8 channels x {echo-send, reverb-send, pan}
//	132-148 master chain parameters (Heat, DualFilter, EQ, Compressor, Volume)
package grid

import (
	"math"
	"sync/atomic"
)

// NumTargets is the fixed size of the unified control grid.
const NumTargets = 149

const (
	GeneratorBase       = 0
	GeneratorStride     = 5
	GeneratorCustomBase = 40
	GeneratorCustomStride = 5
	ModulatorBase       = 80
	ModulatorStride     = 7
	ChannelBase         = 108
	ChannelStride       = 3
	MasterBase          = 132
	MasterCount         = 17
)

// Generator standard-param offsets within a generator's 5-slot block.
const (
	ParamFreq = iota
	ParamCutoff
	ParamResonance
	ParamAttack
	ParamDecay
)

// Channel-strip offsets within a channel's 3-slot block.
const (
	ParamEchoSend = iota
	ParamReverbSend
	ParamPan
)

// Kind describes how a target's value is interpreted. It does not affect
// storage of the base value, but it does select how modulation offsets
// are scaled and applied: linear targets add the offset, exponential
// targets apply it in the log domain.
type Kind int

const (
	KindLinear Kind = iota
	KindExponential
)

// Target is one entry of the unified grid.
type Target struct {
	Min, Max, Default float32
	Kind              Kind
}

// block is the published state: base values as written by the control
// thread, plus an offset array that stays zero (per-block modulation sums
// live in BlockAssembler). It is swapped in as an immutable snapshot so
// the audio thread never sees a torn read.
type block struct {
	base   [NumTargets]float32
	offset [NumTargets]float32
}

// Grid owns target metadata (immutable after construction) and the
// published base-value snapshot. set_base runs on the control thread;
// BlockAssembler.AddContribution/Snapshot/Effective run on the audio thread
// once per block.
type Grid struct {
	targets [NumTargets]Target
	pub     atomic.Pointer[block]
}

// New constructs a grid with the given target metadata table. The caller
// (package registry / engine) is responsible for producing a table that
// matches the fixed index layout above.
func New(targets [NumTargets]Target) *Grid {
	g := &Grid{targets: targets}
	b := &block{}
	for i, t := range targets {
		b.base[i] = t.Default
	}
	g.pub.Store(b)
	return g
}

// Target returns the metadata for index i.
func (g *Grid) Target(i int) Target {
	return g.targets[i]
}

// SetBase is a control-thread write: clamps to the target's bounds and
// publishes a new snapshot derived from the previous one (copy-on-write;
// 149 float32 entries is cheap to copy versus the cost of a lock on the
// audio path).
func (g *Grid) SetBase(index int, value float32) {
	if index < 0 || index >= NumTargets {
		return
	}
	t := g.targets[index]
	value = clamp(value, t.Min, t.Max)

	prev := g.pub.Load()
	next := &block{}
	*next = *prev
	next.base[index] = value
	g.pub.Store(next)
}

// Base returns the currently published base value for index (control-thread
// or audio-thread readable; used by telemetry/preset export).
func (g *Grid) Base(index int) float32 {
	if index < 0 || index >= NumTargets {
		return 0
	}
	return g.pub.Load().base[index]
}

// Reset restores every base value to its default and zeroes accumulated
// offsets.
func (g *Grid) Reset() {
	next := &block{}
	for i, t := range g.targets {
		next.base[i] = t.Default
	}
	g.pub.Store(next)
}

// BlockAssembler accumulates modulation contributions for a single block.
// The audio thread reuses a single instance across blocks, zeroing it at
// the start of each (no allocation in steady state).
type BlockAssembler struct {
	offsets [NumTargets]float32
}

// Zero clears all accumulated offsets.
func (a *BlockAssembler) Zero() {
	for i := range a.offsets {
		a.offsets[i] = 0
	}
}

// AddContribution adds a modulation contribution to target. sourceValue is
// the modulator channel's raw scalar in [-1,1]; depth is the route depth in
// [-1,1]; the target's Kind determines linear-vs-log scaling.
func (a *BlockAssembler) AddContribution(g *Grid, target int, sourceValue, depth float32) {
	if target < 0 || target >= NumTargets {
		return
	}
	t := g.targets[target]
	var c float32
	switch t.Kind {
	case KindExponential:
		if t.Min > 0 && t.Max > 0 {
			c = sourceValue * depth * logf(t.Max/t.Min)
		}
	default:
		c = sourceValue * depth * (t.Max - t.Min)
	}
	a.offsets[target] += c
}

// Effective computes a single target's effective value from the current
// published base snapshot, applying the accumulated offset the way
// effective does (see effective).
func (a *BlockAssembler) Effective(g *Grid, index int) float32 {
	if index < 0 || index >= NumTargets {
		return 0
	}
	t := g.targets[index]
	base := g.pub.Load().base[index]
	return effective(t, base, a.offsets[index])
}

// Snapshot computes eff for every target at once and returns it as a plain
// array, held constant for the remainder of the block by the caller.
func (a *BlockAssembler) Snapshot(g *Grid) [NumTargets]float32 {
	b := g.pub.Load()
	var out [NumTargets]float32
	for i, t := range g.targets {
		out[i] = effective(t, b.base[i], a.offsets[i])
	}
	return out
}

// effective folds a target's base value and accumulated offset into its
// clamped effective value. Exponential targets accumulate their offset in
// log-domain (see AddContribution) so it is applied multiplicatively —
// base*exp(offset) — rather than added in the linear domain; linear
// targets add directly.
func effective(t Target, base, offset float32) float32 {
	if t.Kind == KindExponential && base > 0 {
		return clamp(base*expf(offset), t.Min, t.Max)
	}
	return clamp(base+offset, t.Min, t.Max)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func logf(x float32) float32 {
	return float32(math.Log(float64(x)))
}

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}
