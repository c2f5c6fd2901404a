package fx

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// DCBlocker is a one-pole high-pass filter removing sub-audible DC offset
// that feedback loops and waveshaping tend to accumulate.
type DCBlocker struct {
	x1, y1 float32
}

// coefficient for a ~38Hz corner at 48kHz; effects call Process once per sample so
// this is fixed rather than sample-rate-derived (all send FX run at the
// engine's single audio sample rate).
const dcCoeff = 0.995

func (d *DCBlocker) Process(in float32) float32 {
	out := in - d.x1 + dcCoeff*d.y1
	d.x1 = in
	d.y1 = out
	return out
}

func (d *DCBlocker) Reset() { d.x1, d.y1 = 0, 0 }

// Limiter is a brick-wall peak limiter with a fixed ceiling, for effects
// capable of self-oscillation or feedback >1 where an unbounded runaway
// would otherwise reach the return bus.
type Limiter struct {
	ceiling float32
}

// ceilingLinear is approximately -0.2 dBFS.
const ceilingLinear = 0.977

func NewLimiter() *Limiter {
	return &Limiter{ceiling: ceilingLinear}
}

func (l *Limiter) Process(in float32) float32 {
	return dsp.Clamp(in, -l.ceiling, l.ceiling)
}
