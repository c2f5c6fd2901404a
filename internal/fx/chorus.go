package fx

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// Chorus is a modulated short-delay line, two voices in quadrature for
// stereo width.
type Chorus struct {
	sampleHz float32

	RateHz float32
	Depth  float32 // 0..1, modulation excursion as a fraction of the base delay
	Mix    float32

	buf      []float32
	writePos int
	phase    float32
}

const chorusBaseDelaySeconds = 0.015
const chorusMaxDelaySeconds = 0.04

func NewChorus(sampleHz float32) *Chorus {
	c := &Chorus{sampleHz: sampleHz, RateHz: 0.6, Depth: 0.5, Mix: 0.5}
	c.buf = make([]float32, int(chorusMaxDelaySeconds*sampleHz)+2)
	return c
}

func (c *Chorus) Reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.writePos, c.phase = 0, 0
}

func (c *Chorus) tap(phaseOffset float32) float32 {
	p := c.phase + phaseOffset
	p -= float32(int(p))
	mod := dsp.FastSin(p * dsp.TwoPi)
	delaySeconds := chorusBaseDelaySeconds * (1 + mod*c.Depth*0.6)
	delaySamples := delaySeconds * c.sampleHz

	readPos := float32(c.writePos) - delaySamples
	for readPos < 0 {
		readPos += float32(len(c.buf))
	}
	i0 := int(readPos) % len(c.buf)
	i1 := (i0 + 1) % len(c.buf)
	frac := readPos - float32(int(readPos))
	return c.buf[i0] + frac*(c.buf[i1]-c.buf[i0])
}

func (c *Chorus) Process(in Frame) Frame {
	mono := (in[0] + in[1]) * 0.5
	c.buf[c.writePos] = mono
	c.writePos = (c.writePos + 1) % len(c.buf)

	c.phase += c.RateHz / c.sampleHz
	if c.phase >= 1 {
		c.phase -= 1
	}

	left := c.tap(0)
	right := c.tap(0.25)

	wetL := mono*(1-c.Mix) + left*c.Mix
	wetR := mono*(1-c.Mix) + right*c.Mix
	return Frame{wetL, wetR}
}
