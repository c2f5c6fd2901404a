package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingRoundTripsWrittenFrames(t *testing.T) {
	r := NewRing(4)
	r.WriteStereo([]float32{1, -1, 2, -2})

	out := make([]float32, 4)
	n := r.ReadStereo(out)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float32{1, -1, 2, -2}, out)
}

func TestRingUnderrunFillsSilence(t *testing.T) {
	r := NewRing(4)
	r.WriteStereo([]float32{1, -1})

	out := make([]float32, 8) // asking for 4 frames, only 1 available
	n := r.ReadStereo(out)
	assert.Equal(t, 1, n)
	assert.Equal(t, []float32{1, -1, 0, 0, 0, 0, 0, 0}, out)
}

func TestRingOverwriteDropsOldestOnOverflow(t *testing.T) {
	r := NewRing(2) // capacity 2 frames
	r.WriteStereo([]float32{1, 1, 2, 2, 3, 3})

	out := make([]float32, 4)
	n := r.ReadStereo(out)
	assert.Equal(t, 2, n)
	// frame 1 (the oldest) should have been dropped; only 2,2 and 3,3 remain
	assert.Equal(t, []float32{2, 2, 3, 3}, out)
}

func TestRingCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	r := NewRing(3)
	assert.Equal(t, 3, r.mask) // capacity rounds up to 4, mask = capacity-1
}
