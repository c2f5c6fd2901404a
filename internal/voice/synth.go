package voice

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// Synth is the closed-sum-type contract every compiled DSP kind
// implements: a per-sample step function reading standard + custom params
// and producing one sample. No runtime reflection; a descriptor's dsp_kind
// string selects a Synth via the lookup table in NewSynth.
type Synth interface {
	// Render produces the next raw sample. freqHz is the standard freq
	// param already mapped to Hz; custom holds up to 5 custom params in
	// their native (post-curve) units.
	Render(freqHz float32, custom [5]float32) float32
	// Reset clears internal oscillator/delay-line state (voice swap).
	Reset()
}

// NewSynth constructs the Synth implementation named by kind.
func NewSynth(kind string, sampleHz float32) Synth {
	switch kind {
	case "karplus":
		return newKarplusString(sampleHz)
	case "fm_pair":
		return newFMPair(sampleHz)
	case "noise_burst":
		return newNoiseBurst(sampleHz)
	default: // "saw_basic" and any unknown kind fall back to a basic saw
		return newBasicSaw(sampleHz)
	}
}

// basicSaw is a band-limited sawtooth using PolyBLEP correction at the
// phase-wrap discontinuity.
type basicSaw struct {
	sampleHz float32
	phase    float32
}

func newBasicSaw(sampleHz float32) *basicSaw { return &basicSaw{sampleHz: sampleHz} }

func (s *basicSaw) Reset() { s.phase = 0 }

func (s *basicSaw) Render(freqHz float32, _ [5]float32) float32 {
	dt := freqHz / s.sampleHz
	raw := 2*s.phase - 1
	raw -= dsp.PolyBLEP(s.phase, dt)

	s.phase += dt
	if s.phase >= 1 {
		s.phase -= 1
	}
	return raw
}

// karplusString is a Karplus-Strong plucked string: an excited delay line
// with a one-pole averaging filter in the feedback loop. custom[0] = decay
// (0..1, feedback amount), custom[1] = brightness (0..1, blend between the
// averaged and raw delay tap).
type karplusString struct {
	sampleHz float32
	buf      []float32
	pos      int
	excited  bool
	rng      uint32
}

func newKarplusString(sampleHz float32) *karplusString {
	return &karplusString{sampleHz: sampleHz, rng: 0x1234_5678}
}

func (s *karplusString) Reset() {
	for i := range s.buf {
		s.buf[i] = 0
	}
	s.pos = 0
	s.excited = false
}

func (s *karplusString) Render(freqHz float32, custom [5]float32) float32 {
	if freqHz < 1 {
		freqHz = 1
	}
	period := int(s.sampleHz / freqHz)
	if period < 2 {
		period = 2
	}
	if len(s.buf) != period {
		s.buf = make([]float32, period)
		s.excited = false
	}

	if !s.excited {
		for i := range s.buf {
			s.rng = s.rng*1664525 + 1013904223
			s.buf[i] = (float32(s.rng>>8&0xFFFF)/65535.0)*2 - 1
		}
		s.excited = true
		s.pos = 0
	}

	decay := dsp.Clamp01(custom[0])
	if decay == 0 {
		decay = 0.995
	} else {
		decay = 0.9 + decay*0.0999 // map 0..1 onto a musically useful 0.9..0.9999 feedback range
	}
	brightness := dsp.Clamp01(custom[1])

	next := (s.pos + 1) % len(s.buf)
	avg := (s.buf[s.pos] + s.buf[next]) * 0.5
	filtered := brightness*s.buf[s.pos] + (1-brightness)*avg

	out := s.buf[s.pos]
	s.buf[s.pos] = filtered * decay
	s.pos = next
	return out
}

// fmPair is a 2-operator FM voice (carrier + modulator) built from two
// phase accumulators. custom[0] = modulator ratio (multiple of carrier
// freq), custom[1] = modulation index.
type fmPair struct {
	sampleHz           float32
	carrierPhase       float32
	modPhase           float32
}

func newFMPair(sampleHz float32) *fmPair { return &fmPair{sampleHz: sampleHz} }

func (s *fmPair) Reset() { s.carrierPhase, s.modPhase = 0, 0 }

func (s *fmPair) Render(freqHz float32, custom [5]float32) float32 {
	ratio := custom[0]
	if ratio <= 0 {
		ratio = 1
	}
	index := custom[1]

	modFreq := freqHz * ratio
	s.modPhase += dsp.TwoPi * modFreq / s.sampleHz
	modOut := dsp.FastSin(s.modPhase)

	s.carrierPhase += dsp.TwoPi*freqHz/s.sampleHz + index*modOut
	out := dsp.FastSin(s.carrierPhase)

	if s.modPhase >= dsp.TwoPi {
		s.modPhase -= dsp.TwoPi
	}
	if s.carrierPhase >= dsp.TwoPi {
		s.carrierPhase -= dsp.TwoPi
	}
	return out
}

// noiseBurst is filtered LFSR noise: a 23-bit linear feedback shift
// register clocked at freqHz, smoothed by a one-pole filter. custom[0] =
// smoothing amount (0..1, higher = darker).
type noiseBurst struct {
	sampleHz    float32
	sr          uint32
	phase       float32
	filterState float32
}

const (
	noiseLFSRSeed = 0x7FFFFF
	noiseLFSRMask = 0x7FFFFF
	noiseTap1     = 22
	noiseTap2     = 17
)

func newNoiseBurst(sampleHz float32) *noiseBurst {
	return &noiseBurst{sampleHz: sampleHz, sr: noiseLFSRSeed}
}

func (s *noiseBurst) Reset() {
	s.sr = noiseLFSRSeed
	s.phase = 0
	s.filterState = 0
}

func (s *noiseBurst) Render(freqHz float32, custom [5]float32) float32 {
	s.phase += freqHz / s.sampleHz
	steps := int(s.phase)
	s.phase -= float32(steps)

	for i := 0; i < steps; i++ {
		newBit := ((s.sr >> noiseTap1) ^ (s.sr >> noiseTap2)) & 1
		s.sr = ((s.sr << 1) | newBit) & noiseLFSRMask
	}

	raw := float32(s.sr&1)*2 - 1
	smoothing := dsp.Clamp01(custom[0])
	oldWeight := 0.5 + smoothing*0.49
	s.filterState = oldWeight*s.filterState + (1-oldWeight)*raw
	return s.filterState
}
