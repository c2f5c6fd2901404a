//go:build headless

package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type constSource struct{ value float32 }

func (c constSource) ReadStereo(out []float32) int {
	for i := range out {
		out[i] = c.value
	}
	return len(out) / 2
}

func TestHeadlessOutputLifecycle(t *testing.T) {
	out, err := New(48000)
	assert.NoError(t, err)
	assert.False(t, out.IsStarted())

	out.SetSource(constSource{value: 0.25})
	assert.NoError(t, out.Start())
	assert.True(t, out.IsStarted())

	out.Stop()
	assert.False(t, out.IsStarted())

	out.Close()
	assert.False(t, out.IsStarted())
}

func TestHeadlessOutputAcceptsNilSource(t *testing.T) {
	out, err := New(48000)
	assert.NoError(t, err)
	out.SetSource(nil)
	assert.NoError(t, out.Start())
}
