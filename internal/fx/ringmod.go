package fx

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// RingMod multiplies the send by an internal carrier oscillator,
// producing inharmonic sum/difference sidebands.
type RingMod struct {
	sampleHz float32

	CarrierHz float32
	Mix       float32
	phase     float32
}

func NewRingMod(sampleHz float32) *RingMod {
	return &RingMod{sampleHz: sampleHz, CarrierHz: 220, Mix: 1.0}
}

func (r *RingMod) Reset() { r.phase = 0 }

func (r *RingMod) Process(in Frame) Frame {
	r.phase += r.CarrierHz / r.sampleHz
	if r.phase >= 1 {
		r.phase -= float32(int(r.phase))
	}
	carrier := dsp.FastSin(r.phase * dsp.TwoPi)

	modL := in[0] * carrier
	modR := in[1] * carrier
	return Frame{
		in[0]*(1-r.Mix) + modL*r.Mix,
		in[1]*(1-r.Mix) + modR*r.Mix,
	}
}
