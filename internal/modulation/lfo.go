// Package modulation implements the three modulator physics cores — LFO,
// Sloth, and SauceOfGrav — run once per audio block at control rate. Each
// produces up to four scalar output channels in a known range that the
// grid's routing layer turns into per-target contributions.
package modulation

import (
	"math"
	"math/rand"
)

// Shape is an LFO's base waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeTriangle
	ShapeSaw
	ShapeSquare
	ShapeNoise
)

// Pattern selects the four per-output phase offsets, expressed as a
// fraction of one cycle (turns, not degrees).
type Pattern int

const (
	PatternQuad Pattern = iota
	PatternPair
	PatternTriad
	PatternSplit
	PatternCascade
	PatternUnison
)

var patternOffsets = map[Pattern][4]float64{
	PatternQuad:    {0, 0.25, 0.5, 0.75},
	PatternPair:    {0, 0, 0.5, 0.5},
	PatternTriad:   {0, 1.0 / 3, 2.0 / 3, 0},
	PatternSplit:   {0, 0.5, 0, 0.5},
	PatternCascade: {0, 0.125, 0.25, 0.375},
	PatternUnison:  {0, 0, 0, 0},
}

// rotationSteps is how many discrete rotation positions a pattern supports,
// 15 degrees (1/24 of a turn) apart.
const rotationSteps = 24

// LFO is a phase-aligned quadrature low-frequency oscillator. One phase
// accumulator drives four outputs offset by a selectable pattern, a
// rotation offset, and an optional per-output polarity inversion.
type LFO struct {
	phase    float64
	RateHz   float64
	Shape    Shape
	Pattern  Pattern
	Rotation int // 0..23, 15 degrees per step
	Polarity [4]bool

	noiseHeld  [4]float64
	noiseSide  [4]bool
	noiseRand  *rand.Rand
}

// NewLFO creates an LFO with a deterministic noise source (seed only
// affects the Noise shape's sample-and-hold values).
func NewLFO(seed int64) *LFO {
	return &LFO{
		RateHz:    1.0,
		Pattern:   PatternQuad,
		noiseRand: rand.New(rand.NewSource(seed)),
	}
}

// Reset zeroes the phase accumulator.
func (l *LFO) Reset() { l.phase = 0 }

// Step advances by one block and returns the four output channels.
func (l *LFO) Step(blockSeconds float64) [4]float32 {
	l.phase += l.RateHz * blockSeconds
	l.phase -= math.Floor(l.phase)

	offsets := patternOffsets[l.Pattern]
	rotationTurns := float64(l.Rotation%rotationSteps) / rotationSteps

	var out [4]float32
	for c := 0; c < 4; c++ {
		p := l.phase + offsets[c] + rotationTurns
		p -= math.Floor(p)

		v := l.waveform(c, p)
		if l.Polarity[c] {
			v = -v
		}
		out[c] = float32(v)
	}
	return out
}

func (l *LFO) waveform(channel int, p float64) float64 {
	switch l.Shape {
	case ShapeTriangle:
		return 4*math.Abs(p-0.5) - 1
	case ShapeSaw:
		return 2*p - 1
	case ShapeSquare:
		if p < 0.5 {
			return 1
		}
		return -1
	case ShapeNoise:
		side := p < 0.5
		if side != l.noiseSide[channel] {
			l.noiseSide[channel] = side
			l.noiseHeld[channel] = l.noiseRand.Float64()*2 - 1
		}
		return l.noiseHeld[channel]
	default: // ShapeSine
		return math.Sin(2 * math.Pi * p)
	}
}
