// Package meter computes per-bus RMS/peak summaries and the 149-entry
// modulation-bus telemetry stream, both decimated to at most 30/≤30Hz, and
// applies the final hard-clip safety stage at device output.
package meter

import "math"

// Summary is one bus's running peak/RMS pair for the emission interval
// just completed.
type Summary struct {
	Peak float32
	RMS  float32
}

// Bus accumulates a running sum-of-squares and peak for a single audio
// bus, emitting a decimated Summary at most emitHz times per second.
type Bus struct {
	sampleHz float32
	emitHz   float32

	sumSquares float64
	peak       float32
	count      int

	windowSamples int
}

// NewBus creates a meter for one bus, emitting at emitHz (clamped to a
// sensible ceiling — the metering contract caps emission at 30Hz).
func NewBus(sampleHz, emitHz float32) *Bus {
	if emitHz > 30 {
		emitHz = 30
	}
	b := &Bus{sampleHz: sampleHz, emitHz: emitHz}
	b.windowSamples = int(sampleHz / emitHz)
	if b.windowSamples < 1 {
		b.windowSamples = 1
	}
	return b
}

// Accumulate folds one sample (already summed across channels, or a
// single channel — callers decide) into the running window.
func (b *Bus) Accumulate(x float32) {
	b.sumSquares += float64(x) * float64(x)
	abs := x
	if abs < 0 {
		abs = -abs
	}
	if abs > b.peak {
		b.peak = abs
	}
	b.count++
}

// Ready reports whether a full emission window has been accumulated.
func (b *Bus) Ready() bool {
	return b.count >= b.windowSamples
}

// Flush returns the current window's Summary and resets accumulation for
// the next window. Call only when Ready reports true.
func (b *Bus) Flush() Summary {
	rms := float32(0)
	if b.count > 0 {
		rms = float32(math.Sqrt(b.sumSquares / float64(b.count)))
	}
	s := Summary{Peak: b.peak, RMS: rms}
	b.sumSquares, b.peak, b.count = 0, 0, 0
	return s
}

// HardClipCeiling is the device-output safety ceiling, applied
// unconditionally regardless of upstream limiter state.
const HardClipCeiling = 0.977 // approximately -0.2 dBFS

// HardClip enforces the final safety ceiling at device output.
func HardClip(x float32) float32 {
	if x > HardClipCeiling {
		return HardClipCeiling
	}
	if x < -HardClipCeiling {
		return -HardClipCeiling
	}
	return x
}
