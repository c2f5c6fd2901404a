package fx

// Reverb is a classic Schroeder reverb: four parallel damped comb filters
// summed and run through two series all-pass diffusers, per channel with
// slightly detuned comb lengths for stereo width.
type Reverb struct {
	sampleHz float32

	Decay float32 // 0..1, comb feedback
	Damp  float32 // 0..1, high-frequency damping in the comb loop
	Mix   float32 // 0..1, wet/dry (the send already carries 100% wet; Mix scales output level)

	left, right reverbChannel
	dc          [2]DCBlocker
	limiter     *Limiter
}

type reverbChannel struct {
	combs    [4]combFilter
	allpass  [2]apState
}

type combFilter struct {
	buf      []float32
	pos      int
	dampState float32
}

var combBaseMs = [4]float32{29.7, 37.1, 41.1, 43.7}
var allpassBaseMs = [2]float32{5.0, 1.7}
const stereoSpreadMs = 0.8

func newReverbChannel(sampleHz float32, detuneMs float32) reverbChannel {
	var c reverbChannel
	for i := range c.combs {
		n := int((combBaseMs[i] + detuneMs) * sampleHz / 1000)
		if n < 1 {
			n = 1
		}
		c.combs[i] = combFilter{buf: make([]float32, n)}
	}
	for i := range c.allpass {
		n := int((allpassBaseMs[i] + detuneMs) * sampleHz / 1000)
		if n < 1 {
			n = 1
		}
		c.allpass[i] = apState{buf: make([]float32, n), g: 0.5}
	}
	return c
}

// NewReverb creates a reverb with a medium-length decay.
func NewReverb(sampleHz float32) *Reverb {
	r := &Reverb{
		sampleHz: sampleHz,
		Decay:    0.8,
		Damp:     0.3,
		Mix:      1.0,
		limiter:  NewLimiter(),
	}
	r.left = newReverbChannel(sampleHz, 0)
	r.right = newReverbChannel(sampleHz, stereoSpreadMs)
	return r
}

func (r *Reverb) Reset() {
	for _, ch := range []*reverbChannel{&r.left, &r.right} {
		for i := range ch.combs {
			for j := range ch.combs[i].buf {
				ch.combs[i].buf[j] = 0
			}
			ch.combs[i].pos, ch.combs[i].dampState = 0, 0
		}
		for i := range ch.allpass {
			for j := range ch.allpass[i].buf {
				ch.allpass[i].buf[j] = 0
			}
			ch.allpass[i].pos = 0
		}
	}
	r.dc[0].Reset()
	r.dc[1].Reset()
}

func (r *Reverb) processChannel(ch *reverbChannel, in float32) float32 {
	var sum float32
	for i := range ch.combs {
		c := &ch.combs[i]
		delayed := c.buf[c.pos]
		c.dampState += (delayed - c.dampState) * (1 - r.Damp)
		c.buf[c.pos] = in + c.dampState*r.Decay
		c.pos = (c.pos + 1) % len(c.buf)
		sum += delayed
	}
	sum *= 0.25

	x := sum
	for i := range ch.allpass {
		ap := &ch.allpass[i]
		delayed := ap.buf[ap.pos]
		y := -ap.g*x + delayed
		ap.buf[ap.pos] = x + ap.g*y
		ap.pos = (ap.pos + 1) % len(ap.buf)
		x = y
	}
	return x
}

func (r *Reverb) Process(in Frame) Frame {
	mono := (in[0] + in[1]) * 0.5
	l := r.processChannel(&r.left, mono)
	rr := r.processChannel(&r.right, mono)

	l = r.dc[0].Process(l) * r.Mix
	rr = r.dc[1].Process(rr) * r.Mix

	return Frame{r.limiter.Process(l), r.limiter.Process(rr)}
}
