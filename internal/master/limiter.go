package master

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// Limiter is the fifth master-chain stage: a look-ahead brick-wall
// limiter. Input is delayed by the look-ahead window so the gain
// computer can see a peak before it reaches the output, avoiding the
// overshoot a zero-look-ahead limiter would let through on fast
// transients.
type Limiter struct {
	sampleHz float32

	CeilingDB float32
	LookAheadS float32
	ReleaseS  float32

	delay    [2][]float32
	writePos int

	gain float32
}

func NewLimiter(sampleHz float32) *Limiter {
	l := &Limiter{
		sampleHz:   sampleHz,
		CeilingDB:  -0.2,
		LookAheadS: 0.005,
		ReleaseS:   0.05,
		gain:       1,
	}
	n := int(l.LookAheadS*sampleHz) + 1
	l.delay[0] = make([]float32, n)
	l.delay[1] = make([]float32, n)
	return l
}

func (l *Limiter) Process(in Frame) Frame {
	n := len(l.delay[0])
	readPos := (l.writePos + 1) % n

	l.delay[0][l.writePos] = in[0]
	l.delay[1][l.writePos] = in[1]

	ceiling := dbToLinear(l.CeilingDB)
	peak := maxAbs(in[0], in[1])

	targetGain := float32(1)
	if peak > ceiling {
		targetGain = ceiling / peak
	}

	if targetGain < l.gain {
		l.gain = targetGain // instantaneous on the way down, look-ahead covers the ramp
	} else {
		rate := float32(1)
		if l.ReleaseS > 0 {
			rate = 1 / (l.ReleaseS * l.sampleHz)
		}
		l.gain += (targetGain - l.gain) * rate
		if l.gain > 1 {
			l.gain = 1
		}
	}

	out := Frame{
		l.delay[0][readPos] * l.gain,
		l.delay[1][readPos] * l.gain,
	}
	l.writePos = (l.writePos + 1) % n
	return Frame{
		dsp.Clamp(out[0], -ceiling, ceiling),
		dsp.Clamp(out[1], -ceiling, ceiling),
	}
}

func maxAbs(a, b float32) float32 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
