package master

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeatSaturatesLoudSignal(t *testing.T) {
	h := NewHeat(48000)
	h.Drive = 8
	var out Frame
	for i := 0; i < 1000; i++ {
		out = h.Process(Frame{1.5, -1.5})
	}
	assert.LessOrEqual(t, out[0], float32(2.0))
	assert.GreaterOrEqual(t, out[1], float32(-2.0))
}

func TestHeatCircuitSwapLagsRatherThanSnaps(t *testing.T) {
	h := NewHeat(48000)
	before := h.curCurve
	h.SetCircuit(CircuitDiode)
	h.Process(Frame{0.1, 0.1})
	after := h.curCurve
	assert.NotEqual(t, before, after)
	assert.Less(t, after-before, circuitCurve[CircuitDiode]-before)
}

func TestDualFilterSyncDerivesSecondCutoffFromFirst(t *testing.T) {
	d := NewDualFilter(48000)
	d.Sync = true
	d.Cutoff1 = 0.8
	d.SyncRatio = 2
	assert.InDelta(t, 0.4, d.effectiveCutoff2(), 1e-6)
}

func TestEQKillSwitchSilencesBand(t *testing.T) {
	eq := NewEQ(48000)
	eq.KillHi = true
	var out Frame
	for i := 0; i < 500; i++ {
		out = eq.Process(Frame{1, 1})
	}
	assert.LessOrEqual(t, out[0], float32(1.0))

	// A Nyquist-rate square sits almost entirely in the high band, so with
	// that band killed only a small residue of it passes.
	nyq := NewEQ(48000)
	nyq.KillHi = true
	for i := 0; i < 500; i++ {
		x := float32(1)
		if i%2 == 1 {
			x = -1
		}
		out = nyq.Process(Frame{x, x})
	}
	assert.InDelta(t, 0, out[0], 0.3)
}

func TestCompressorReducesGainAboveThreshold(t *testing.T) {
	c := NewCompressor(48000)
	c.ThresholdDB = -20
	c.Ratio = 8
	c.AttackS = 0.001
	var out Frame
	for i := 0; i < 5000; i++ {
		out = c.Process(Frame{0.9, 0.9})
	}
	assert.Less(t, out[0], float32(0.9))
}

func TestLimiterNeverExceedsCeiling(t *testing.T) {
	l := NewLimiter(48000)
	ceiling := dbToLinear(l.CeilingDB)
	for i := 0; i < 2000; i++ {
		out := l.Process(Frame{3.0, -3.0})
		assert.LessOrEqual(t, out[0], ceiling+1e-3)
		assert.GreaterOrEqual(t, out[1], -ceiling-1e-3)
	}
}

func TestStageBypassCrossfadesToDrySignal(t *testing.T) {
	s := NewStage(48000, NewHeat(48000))
	s.SetBypassed(true)
	var out Frame
	for i := 0; i < 2000; i++ {
		out = s.Process(Frame{0.5, 0.5})
	}
	assert.InDelta(t, 0.5, out[0], 0.01)
	assert.True(t, s.Bypassed)
}

func TestChainAppliesMasterVolume(t *testing.T) {
	c := NewChain(48000)
	c.Volume = 0.5
	// bypass every nonlinear stage so the chain is effectively identity
	// aside from volume.
	c.Heat.SetBypassed(true)
	c.DualFilter.SetBypassed(true)
	c.EQ.SetBypassed(true)
	c.Compressor.SetBypassed(true)
	c.Limiter.SetBypassed(true)

	var out Frame
	for i := 0; i < 2000; i++ {
		out = c.Process(Frame{0.4, 0.4})
	}
	assert.InDelta(t, 0.2, out[0], 0.01)
}
