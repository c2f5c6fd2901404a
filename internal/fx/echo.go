package fx

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// Echo is a tape-echo style delay: a single feedback loop (not routed
// back through the send bus) with tape saturation in the loop, a
// tone-controlled post low-pass filter, and slow "wow" modulation of the
// delay time. An optional spring-reverb tail is summed into the return,
// and a separately-gainable copy of the wet signal is exposed for
// cross-feeding into the reverb send.
type Echo struct {
	sampleHz float32

	TimeS     float32 // base delay time, seconds
	Feedback  float32 // 0..1+ loop gain before saturation
	Tone      float32 // 0..1, post-LPF cutoff
	WowDepth  float32 // 0..1, delay-time modulation depth
	WowHz     float32
	SpringMix float32 // 0..1, spring tail blended into the return
	ReverbFeed float32 // 0..1, cross-feed gain to the reverb send

	buf      []float32
	writePos int

	wowPhase float32
	tone1    float32 // post-LPF state

	spring  springTail
	limiter *Limiter
	lastWet Frame
}

const echoMaxDelaySeconds = 2.0

// NewEcho creates a tape echo with musically reasonable defaults.
func NewEcho(sampleHz float32) *Echo {
	e := &Echo{
		sampleHz:  sampleHz,
		TimeS:     0.35,
		Feedback:  0.45,
		Tone:      0.5,
		WowDepth:  0.15,
		WowHz:     0.35,
		SpringMix: 0.1,
		ReverbFeed: 0.2,
		limiter:   NewLimiter(),
	}
	e.buf = make([]float32, int(echoMaxDelaySeconds*sampleHz))
	e.spring = newSpringTail(sampleHz)
	return e
}

func (e *Echo) Reset() {
	for i := range e.buf {
		e.buf[i] = 0
	}
	e.writePos, e.wowPhase, e.tone1 = 0, 0, 0
	e.spring.reset()
}

func (e *Echo) Process(in Frame) Frame {
	mono := (in[0] + in[1]) * 0.5

	e.wowPhase += e.WowHz / e.sampleHz
	if e.wowPhase >= 1 {
		e.wowPhase -= 1
	}
	wow := dsp.FastSin(e.wowPhase * dsp.TwoPi) * e.WowDepth * 0.01 // +/-1% of delay time

	delaySamples := (e.TimeS * (1 + wow)) * e.sampleHz
	readPos := float32(e.writePos) - delaySamples
	for readPos < 0 {
		readPos += float32(len(e.buf))
	}

	i0 := int(readPos) % len(e.buf)
	i1 := (i0 + 1) % len(e.buf)
	frac := readPos - float32(int(readPos))
	tapped := e.buf[i0] + frac*(e.buf[i1]-e.buf[i0])

	fed := dsp.FastTanh(tapped*e.Feedback + mono)

	cutoff := dsp.Clamp01(e.Tone)
	coeff := dsp.Clamp01(cutoff*0.8 + 0.05)
	e.tone1 += (fed - e.tone1) * coeff

	e.buf[e.writePos] = e.tone1
	e.writePos = (e.writePos + 1) % len(e.buf)

	springOut := e.spring.process(e.tone1)
	wetMono := e.tone1 + springOut*e.SpringMix
	wetMono = e.limiter.Process(wetMono)

	out := Frame{wetMono, wetMono}
	e.lastWet = out
	return out
}

// ReverbCrossFeed returns the last wet output scaled by ReverbFeed. The
// engine does not call it, so nothing sums this cross-feed into the
// reverb send bus.
func (e *Echo) ReverbCrossFeed() Frame {
	return Frame{e.lastWet[0] * e.ReverbFeed, e.lastWet[1] * e.ReverbFeed}
}

// springTail is a compact spring-reverb approximation: a short chain of
// all-pass diffusers feeding a damped comb, giving the metallic decay
// character without a full Schroeder reverb's bus of combs.
type springTail struct {
	allpass [3]apState
	comb    []float32
	combPos int
	damp    float32
}

type apState struct {
	buf []float32
	pos int
	g   float32
}

func newSpringTail(sampleHz float32) springTail {
	s := springTail{damp: 0.3}
	lens := [3]int{int(0.0017 * sampleHz), int(0.0029 * sampleHz), int(0.0041 * sampleHz)}
	for i, l := range lens {
		if l < 1 {
			l = 1
		}
		s.allpass[i] = apState{buf: make([]float32, l), g: 0.6}
	}
	combLen := int(0.063 * sampleHz)
	if combLen < 1 {
		combLen = 1
	}
	s.comb = make([]float32, combLen)
	return s
}

func (s *springTail) reset() {
	for i := range s.allpass {
		for j := range s.allpass[i].buf {
			s.allpass[i].buf[j] = 0
		}
		s.allpass[i].pos = 0
	}
	for i := range s.comb {
		s.comb[i] = 0
	}
	s.combPos = 0
}

func (s *springTail) process(in float32) float32 {
	x := in
	for i := range s.allpass {
		ap := &s.allpass[i]
		delayed := ap.buf[ap.pos]
		y := -ap.g*x + delayed
		ap.buf[ap.pos] = x + ap.g*y
		ap.pos = (ap.pos + 1) % len(ap.buf)
		x = y
	}

	tapped := s.comb[s.combPos]
	s.comb[s.combPos] = x + tapped*s.damp
	s.combPos = (s.combPos + 1) % len(s.comb)
	return tapped
}
