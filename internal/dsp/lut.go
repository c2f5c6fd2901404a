// Package dsp holds the small set of sample-rate building blocks shared by
// every audio-thread component: lookup-table transcendentals, the
// band-limited step correction used by every bare oscillator, and the
// Chamberlin state-variable filter used by both per-voice and master-chain
// filtering.
package dsp

import "math"

// Lookup table sizes, chosen for a resolution/memory trade-off that keeps
// interpolation error well below audible thresholds at audio sample rates.
const (
	sinLUTSize  = 8192
	sinLUTMask  = sinLUTSize - 1
	tanhLUTSize = 4096
	tanhLUTMin  = float32(-4.0)
	tanhLUTMax  = float32(4.0)
)

const (
	TwoPi = 2 * math.Pi

	sinLUTScale  = float32(sinLUTSize) / TwoPi
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
)

var sinLUT [sinLUTSize]float32
var tanhLUT [tanhLUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * TwoPi / float64(sinLUTSize)
		sinLUT[i] = float32(math.Sin(phase))
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
}

// FastSin returns sin(phase) via lookup table with linear interpolation.
// phase may be any real value; it is wrapped into [0, 2π) internally.
func FastSin(phase float32) float32 {
	if phase < 0 {
		phase += TwoPi
		if phase < 0 {
			phase -= TwoPi * float32(int(phase/TwoPi)-1)
		}
	} else if phase >= TwoPi {
		phase -= TwoPi * float32(int(phase/TwoPi))
	}

	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	index &= sinLUTMask
	nextIndex := (index + 1) & sinLUTMask

	return sinLUT[index] + frac*(sinLUT[nextIndex]-sinLUT[index])
}

// FastTanh returns tanh(x) via lookup table with linear interpolation,
// saturating to ±1 outside [-4, 4].
func FastTanh(x float32) float32 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}

	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	if index < 0 {
		return tanhLUT[0]
	}
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}

	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}

// PolyBLEP applies polynomial band-limited step correction.
// t is the normalised phase position [0,1), dt is the phase increment
// per sample (frequency/sampleRate).
func PolyBLEP(t, dt float32) float32 {
	if t < dt {
		t /= dt
		return t + t - t*t - 1.0
	} else if t > 1.0-dt {
		t = (t - 1.0) / dt
		return t*t + t + t + 1.0
	}
	return 0.0
}

// Clamp restricts value to [lo, hi].
func Clamp(value, lo, hi float32) float32 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Clamp01 restricts value to [0, 1].
func Clamp01(value float32) float32 {
	return Clamp(value, 0, 1)
}
