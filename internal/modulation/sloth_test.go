package modulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlothOutputsStayNormalised(t *testing.T) {
	s := NewSloth()
	const blockSeconds = 1.0 / 200
	for i := 0; i < 20000; i++ {
		out := s.Step(blockSeconds)
		for c, v := range out {
			assert.LessOrEqual(t, v, float32(1.0001), "channel %d", c)
			assert.GreaterOrEqual(t, v, float32(-1.0001), "channel %d", c)
		}
	}
}

func TestSlothRectifiedGateNeverNegative(t *testing.T) {
	s := NewSloth()
	const blockSeconds = 1.0 / 200
	for i := 0; i < 5000; i++ {
		out := s.Step(blockSeconds)
		assert.GreaterOrEqual(t, out[3], float32(0))
	}
}

func TestSlothThreeOscillatorsDriftApart(t *testing.T) {
	s := NewSloth()
	const blockSeconds = 1.0 / 200
	var last [4]float32
	for i := 0; i < 3000; i++ {
		last = s.Step(blockSeconds)
	}
	// distinct time constants mean the three states shouldn't land on an
	// identical value after a few thousand blocks.
	assert.NotEqual(t, last[0], last[1])
	assert.NotEqual(t, last[1], last[2])
}
