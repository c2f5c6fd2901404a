package fx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDCBlockerRemovesSteadyOffset(t *testing.T) {
	var d DCBlocker
	var last float32
	for i := 0; i < 20000; i++ {
		last = d.Process(0.5)
	}
	assert.InDelta(t, 0, last, 0.01)
}

func TestLimiterClampsToCeiling(t *testing.T) {
	l := NewLimiter()
	assert.LessOrEqual(t, l.Process(5.0), float32(1.0))
	assert.GreaterOrEqual(t, l.Process(-5.0), float32(-1.0))
}

func TestEmptyKindProducesSilence(t *testing.T) {
	e := New(KindEmpty, 48000)
	out := e.Process(Frame{1, 1})
	assert.Equal(t, Frame{}, out)
}

func TestSlotSwapCrossfadesWithoutDiscontinuity(t *testing.T) {
	s := NewSlot(48000)
	s.SetKind(KindEcho)
	for i := 0; i < 1000; i++ {
		s.Process(Frame{0.3, 0.3})
	}

	s.SetKind(KindReverb)
	maxJump := float32(0)
	prev := Frame{0, 0}
	for i := 0; i < 2000; i++ {
		out := s.Process(Frame{0.3, 0.3})
		jump := float32(math.Abs(float64(out[0] - prev[0])))
		if jump > maxJump {
			maxJump = jump
		}
		prev = out
	}
	// a crossfaded swap should never produce a sample-to-sample jump
	// anywhere near a hard discontinuity.
	assert.Less(t, maxJump, float32(1.0))
}

func TestEchoProducesDelayedRepeat(t *testing.T) {
	e := NewEcho(48000)
	e.TimeS = 0.1
	e.Feedback = 0.5
	e.WowDepth = 0

	out := e.Process(Frame{1, 1})
	assert.NotEqual(t, Frame{}, out)

	sawNonZeroLater := false
	for i := 0; i < int(0.1*48000)+100; i++ {
		out = e.Process(Frame{0, 0})
		if out[0] != 0 {
			sawNonZeroLater = true
		}
	}
	assert.True(t, sawNonZeroLater)
}

func TestTremoloModulatesAmplitude(t *testing.T) {
	tr := NewTremolo(48000)
	tr.RateHz = 1000 // fast enough to see variation within a short test window
	tr.Depth = 1.0

	minV, maxV := float32(1), float32(0)
	for i := 0; i < 100; i++ {
		out := tr.Process(Frame{1, 1})
		if out[0] < minV {
			minV = out[0]
		}
		if out[0] > maxV {
			maxV = out[0]
		}
	}
	assert.Greater(t, maxV-minV, float32(0.5))
}

func TestRingModProducesSidebands(t *testing.T) {
	r := NewRingMod(48000)
	r.CarrierHz = 100
	r.Mix = 1.0
	nonZero := false
	for i := 0; i < 2000; i++ {
		out := r.Process(Frame{1, 1})
		if out[0] != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}

func TestGrainOutputStaysBounded(t *testing.T) {
	g := NewGrain(48000)
	for i := 0; i < 48000; i++ {
		out := g.Process(Frame{0.7, 0.7})
		assert.LessOrEqual(t, out[0], float32(2.0))
		assert.GreaterOrEqual(t, out[0], float32(-2.0))
	}
}

func TestReverbTailPersistsAfterInputStops(t *testing.T) {
	r := NewReverb(48000)
	for i := 0; i < 1000; i++ {
		r.Process(Frame{1, 1})
	}
	out := r.Process(Frame{0, 0})
	assert.NotEqual(t, Frame{}, out)
}
