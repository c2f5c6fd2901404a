package modulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLFOSineStaysWithinUnitRange(t *testing.T) {
	l := NewLFO(1)
	l.RateHz = 2.0
	l.Shape = ShapeSine

	const blockSeconds = 1.0 / 200 // 200 Hz block rate
	for i := 0; i < 400; i++ {
		out := l.Step(blockSeconds)
		for _, v := range out {
			assert.LessOrEqual(t, v, float32(1.0001))
			assert.GreaterOrEqual(t, v, float32(-1.0001))
		}
	}
}

func TestLFOQuadPatternOffsetsChannelsByQuarterCycle(t *testing.T) {
	l := NewLFO(1)
	l.RateHz = 0 // hold phase fixed so we can compare offsets directly
	l.Shape = ShapeSine
	l.Pattern = PatternQuad

	out := l.Step(0)
	// sin(0)=0, sin(pi/2)=1, sin(pi)=0, sin(3pi/2)=-1
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 1, out[1], 1e-6)
	assert.InDelta(t, 0, out[2], 1e-6)
	assert.InDelta(t, -1, out[3], 1e-6)
}

func TestLFOPolarityInvertsOutput(t *testing.T) {
	l := NewLFO(1)
	l.RateHz = 0
	l.Shape = ShapeSine
	l.Pattern = PatternUnison
	l.Polarity[0] = true

	// phase starts at 0, sin(0)=0, so nudge phase forward first.
	l.phase = 0.1
	out := l.Step(0)
	assert.InDelta(t, -out[1], out[0], 1e-6)
}

func TestLFORotationShiftsAllOutputsInLockstep(t *testing.T) {
	a := NewLFO(1)
	a.RateHz = 0
	a.Shape = ShapeSine
	a.Pattern = PatternQuad
	a.phase = 0.2

	b := NewLFO(1)
	b.RateHz = 0
	b.Shape = ShapeSine
	b.Pattern = PatternQuad
	b.Rotation = 6 // 6 steps * 15 deg = 90 deg = quarter turn
	b.phase = 0.2 - 0.25

	outA := a.Step(0)
	outB := b.Step(0)
	for c := 0; c < 4; c++ {
		assert.InDelta(t, outA[c], outB[c], 1e-5)
	}
}
