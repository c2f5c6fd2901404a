package fx

import "github.com/thegdyne/sauceengine-go/internal/dsp"

const phaserStages = 4

// Phaser is a four-stage all-pass chain whose corner frequency is swept
// by an internal LFO, summed with the dry signal for the characteristic
// notch sweep.
type Phaser struct {
	sampleHz float32

	RateHz   float32
	Depth    float32 // 0..1
	Feedback float32 // 0..0.95
	Mix      float32

	stages [phaserStages]float32
	phase  float32
	fbState float32
}

func NewPhaser(sampleHz float32) *Phaser {
	return &Phaser{sampleHz: sampleHz, RateHz: 0.3, Depth: 0.8, Feedback: 0.3, Mix: 0.5}
}

func (p *Phaser) Reset() {
	for i := range p.stages {
		p.stages[i] = 0
	}
	p.phase, p.fbState = 0, 0
}

func (p *Phaser) Process(in Frame) Frame {
	mono := (in[0] + in[1]) * 0.5

	p.phase += p.RateHz / p.sampleHz
	if p.phase >= 1 {
		p.phase -= 1
	}
	mod := (dsp.FastSin(p.phase*dsp.TwoPi) + 1) * 0.5
	coeff := dsp.Clamp01(0.1 + mod*p.Depth*0.8)

	x := mono + p.fbState*p.Feedback
	for i := 0; i < phaserStages; i++ {
		y := -coeff*x + p.stages[i]
		p.stages[i] = x + coeff*y
		x = y
	}
	p.fbState = x

	wet := mono*(1-p.Mix) + x*p.Mix
	return Frame{wet, wet}
}
