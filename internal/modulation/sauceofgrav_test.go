package modulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wideMotionParams() GravParams {
	return GravParams{
		Rate:      0, // refresh disabled, isolates the continuous dynamics
		Depth:     1.0,
		Gravity:   0.2,
		Resonance: 0.8,
		Excursion: 1.0,
		Calm:      1.0, // calm=1.0 -> calm_bi=1.0, the "wide motion" extreme
		Tension:   [4]float64{1, 1, 1, 1},
		Mass:      [4]float64{1, 1, 1, 1},
	}
}

func TestSauceOfGravOutputsStayWithinUnitRange(t *testing.T) {
	g := NewSauceOfGrav(1)
	p := wideMotionParams()
	const blockSeconds = 1.0 / 200
	for i := 0; i < 20000; i++ {
		out := g.Step(blockSeconds, p)
		for c, v := range out {
			require.False(t, math.IsNaN(float64(v)), "channel %d went NaN", c)
			assert.LessOrEqual(t, v, float32(1.0001), "channel %d", c)
			assert.GreaterOrEqual(t, v, float32(-1.0001), "channel %d", c)
		}
	}
}

// Polarity flips the published sign; it is never a 1-x mirror.
func TestSauceOfGravPolarityNegatesRatherThanMirrors(t *testing.T) {
	a := NewSauceOfGrav(7)
	b := NewSauceOfGrav(7)
	p := wideMotionParams()
	pInv := p
	pInv.Polarity = [4]bool{true, true, true, true}

	const blockSeconds = 1.0 / 200
	for i := 0; i < 500; i++ {
		outA := a.Step(blockSeconds, p)
		outB := b.Step(blockSeconds, pInv)
		for c := range outA {
			assert.InDelta(t, -outA[c], outB[c], 1e-5)
			// explicitly not a 1-x mirror
			assert.NotInDelta(t, 1-outA[c], outB[c], 1e-3)
		}
	}
}

// Failure isolation: injecting a non-finite position into one output
// resets only that output to its rest position; the others continue
// unaffected.
func TestSauceOfGravFailureIsolationResetsOnlyAffectedOutput(t *testing.T) {
	g := NewSauceOfGrav(3)
	p := wideMotionParams()
	const blockSeconds = 1.0 / 200

	for i := 0; i < 200; i++ {
		g.Step(blockSeconds, p)
	}

	preOthers := [3]float64{g.nodes[0].out, g.nodes[1].out, g.nodes[3].out}
	g.nodes[2].out = math.NaN()
	g.nodes[2].v = math.NaN()

	out := g.Step(blockSeconds, p)

	assert.InDelta(t, 0, out[2], 1e-3, "output 2 should reset to its rest position")
	assert.InDelta(t, preOthers[0]*2-1, float64(out[0]), 0.2)
	assert.InDelta(t, preOthers[1]*2-1, float64(out[1]), 0.2)
	assert.InDelta(t, preOthers[2]*2-1, float64(out[3]), 0.2)
}

func TestSauceOfGravResetClearsHubOnly(t *testing.T) {
	g := NewSauceOfGrav(5)
	p := wideMotionParams()
	const blockSeconds = 1.0 / 200
	for i := 0; i < 500; i++ {
		g.Step(blockSeconds, p)
	}

	posBefore := g.nodes[0].out
	g.Reset()

	assert.Equal(t, float64(0), g.hubBias)
	assert.Equal(t, float64(0), g.hubVel)
	assert.Equal(t, posBefore, g.nodes[0].out)
}

func TestSauceOfGravHubBiasCrossesZeroOverWideMotion(t *testing.T) {
	g := NewSauceOfGrav(11)
	p := wideMotionParams()
	const blockSeconds = 1.0 / 200

	crossings := 0
	lastSign := g.HubBias() >= 0
	for i := 0; i < 24000; i++ { // 120s at 200Hz
		g.Step(blockSeconds, p)
		sign := g.HubBias() >= 0
		if sign != lastSign {
			crossings++
			lastSign = sign
		}
	}
	assert.GreaterOrEqual(t, crossings, 1)
}
