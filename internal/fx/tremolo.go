package fx

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// Tremolo amplitude-modulates the send with an internal LFO.
type Tremolo struct {
	sampleHz float32

	RateHz float32
	Depth  float32 // 0..1
	phase  float32
}

func NewTremolo(sampleHz float32) *Tremolo {
	return &Tremolo{sampleHz: sampleHz, RateHz: 4, Depth: 0.6}
}

func (t *Tremolo) Reset() { t.phase = 0 }

func (t *Tremolo) Process(in Frame) Frame {
	t.phase += t.RateHz / t.sampleHz
	if t.phase >= 1 {
		t.phase -= 1
	}
	mod := (dsp.FastSin(t.phase*dsp.TwoPi) + 1) * 0.5
	gain := 1 - t.Depth*mod
	return Frame{in[0] * gain, in[1] * gain}
}
