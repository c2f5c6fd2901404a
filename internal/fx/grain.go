package fx

import (
	"math"
	"math/rand"
)

const grainVoices = 4
const grainBufferSeconds = 2.0

// Grain is a small granular synthesizer: it continuously records the
// send into a circular buffer and spawns short, Hann-windowed overlapping
// playback grains at scattered offsets behind the write head.
type Grain struct {
	sampleHz float32

	SizeS    float32 // grain length, seconds
	RateHz   float32 // grain spawn rate
	Pitch    float32 // playback-rate multiplier (1 = no shift)
	ScatterS float32 // max random offset behind the write head, seconds

	buf       []float32
	writePos  int
	spawnAcc  float32

	voices [grainVoices]grainVoice
	rng    *rand.Rand
}

type grainVoice struct {
	active   bool
	pos      float32
	length   float32
	age      float32
	rate     float32
}

func NewGrain(sampleHz float32) *Grain {
	g := &Grain{
		sampleHz: sampleHz,
		SizeS:    0.08,
		RateHz:   12,
		Pitch:    1.0,
		ScatterS: 0.3,
		rng:      rand.New(rand.NewSource(42)),
	}
	g.buf = make([]float32, int(grainBufferSeconds*sampleHz))
	return g
}

func (g *Grain) Reset() {
	for i := range g.buf {
		g.buf[i] = 0
	}
	g.writePos, g.spawnAcc = 0, 0
	for i := range g.voices {
		g.voices[i] = grainVoice{}
	}
}

func (g *Grain) spawn() {
	for i := range g.voices {
		if !g.voices[i].active {
			offsetS := g.rng.Float64() * float64(g.ScatterS)
			offsetSamples := float32(offsetS) * g.sampleHz

			pos := float32(g.writePos) - offsetSamples
			for pos < 0 {
				pos += float32(len(g.buf))
			}
			g.voices[i] = grainVoice{
				active: true,
				pos:    pos,
				length: g.SizeS * g.sampleHz,
				rate:   g.Pitch,
			}
			return
		}
	}
}

func (g *Grain) readBuf(pos float32) float32 {
	i0 := int(pos) % len(g.buf)
	if i0 < 0 {
		i0 += len(g.buf)
	}
	i1 := (i0 + 1) % len(g.buf)
	frac := pos - float32(int(pos))
	return g.buf[i0] + frac*(g.buf[i1]-g.buf[i0])
}

func (g *Grain) Process(in Frame) Frame {
	mono := (in[0] + in[1]) * 0.5
	g.buf[g.writePos] = mono
	g.writePos = (g.writePos + 1) % len(g.buf)

	g.spawnAcc += g.RateHz / g.sampleHz
	if g.spawnAcc >= 1 {
		g.spawnAcc -= float32(int(g.spawnAcc))
		g.spawn()
	}

	var out float32
	for i := range g.voices {
		v := &g.voices[i]
		if !v.active {
			continue
		}
		sample := g.readBuf(v.pos)
		window := hann(v.age / v.length)
		out += sample * window

		v.pos += v.rate
		for v.pos >= float32(len(g.buf)) {
			v.pos -= float32(len(g.buf))
		}
		v.age++
		if v.age >= v.length {
			v.active = false
		}
	}
	out *= 0.6 // headroom for overlapping grains

	return Frame{out, out}
}

func hann(t float32) float32 {
	if t < 0 || t > 1 {
		return 0
	}
	return float32(0.5 * (1 - math.Cos(2*math.Pi*float64(t))))
}
