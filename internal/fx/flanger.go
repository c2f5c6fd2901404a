package fx

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// Flanger is a short modulated delay with feedback, producing the
// characteristic swept comb-filter sweep.
type Flanger struct {
	sampleHz float32

	RateHz   float32
	Depth    float32 // 0..1
	Feedback float32 // -0.95..0.95
	Mix      float32

	buf      []float32
	writePos int
	phase    float32
}

const flangerMaxDelaySeconds = 0.012

func NewFlanger(sampleHz float32) *Flanger {
	f := &Flanger{sampleHz: sampleHz, RateHz: 0.2, Depth: 0.7, Feedback: 0.4, Mix: 0.5}
	f.buf = make([]float32, int(flangerMaxDelaySeconds*sampleHz)+2)
	return f
}

func (f *Flanger) Reset() {
	for i := range f.buf {
		f.buf[i] = 0
	}
	f.writePos, f.phase = 0, 0
}

func (f *Flanger) Process(in Frame) Frame {
	mono := (in[0] + in[1]) * 0.5

	f.phase += f.RateHz / f.sampleHz
	if f.phase >= 1 {
		f.phase -= 1
	}
	mod := (dsp.FastSin(f.phase*dsp.TwoPi) + 1) * 0.5 // 0..1
	delaySamples := mod * f.Depth * float32(len(f.buf)-2)

	readPos := float32(f.writePos) - delaySamples
	for readPos < 0 {
		readPos += float32(len(f.buf))
	}
	i0 := int(readPos) % len(f.buf)
	i1 := (i0 + 1) % len(f.buf)
	frac := readPos - float32(int(readPos))
	tapped := f.buf[i0] + frac*(f.buf[i1]-f.buf[i0])

	f.buf[f.writePos] = mono + tapped*f.Feedback
	f.writePos = (f.writePos + 1) % len(f.buf)

	wet := mono*(1-f.Mix) + tapped*f.Mix
	return Frame{wet, wet}
}
