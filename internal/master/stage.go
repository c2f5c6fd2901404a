// Package master implements the six-stage master insert chain that runs
// after the pre-master mixer: Heat, a dual multi-mode filter, a 3-band
// master EQ, an SSL-style bus compressor, a look-ahead limiter, and the
// final master volume. Every insert can be bypassed with an equal-power
// crossfade so toggling it in a live set never clicks.
package master

import "math"

// Frame is one stereo sample pair.
type Frame [2]float32

// Insert is a single master-chain processing stage.
type Insert interface {
	Process(in Frame) Frame
}

const bypassFadeSeconds = 0.015

// Stage wraps an Insert with a bypass switch that crossfades in and out
// over bypassFadeSeconds rather than snapping.
type Stage struct {
	inner Insert

	Bypassed bool

	fadeSamples   int
	fadeRemaining int
	fadingToBypass bool
}

// NewStage wraps insert for the given sample rate.
func NewStage(sampleHz float32, insert Insert) *Stage {
	fs := int(bypassFadeSeconds * sampleHz)
	if fs < 1 {
		fs = 1
	}
	return &Stage{inner: insert, fadeSamples: fs}
}

// SetBypassed begins a crossfade toward the requested bypass state. While
// a fade is running, a call toward the state already being faded to is
// ignored, and a call toward the opposite state reverses the fade from
// its current position rather than restarting it.
func (s *Stage) SetBypassed(bypassed bool) {
	if s.fadeRemaining > 0 {
		if bypassed != s.fadingToBypass {
			s.fadingToBypass = bypassed
			s.fadeRemaining = s.fadeSamples - s.fadeRemaining
		}
		return
	}
	if bypassed == s.Bypassed {
		return
	}
	s.fadingToBypass = bypassed
	s.fadeRemaining = s.fadeSamples
}

// Process runs the wrapped insert and blends it against the dry input
// according to the current bypass/crossfade state.
func (s *Stage) Process(in Frame) Frame {
	wet := s.inner.Process(in)

	if s.fadeRemaining == 0 {
		if s.Bypassed {
			return in
		}
		return wet
	}

	t := 1 - float32(s.fadeRemaining)/float32(s.fadeSamples) // 0..1 toward fadingToBypass
	s.fadeRemaining--
	if s.fadeRemaining == 0 {
		s.Bypassed = s.fadingToBypass
	}

	var from, to Frame
	if s.fadingToBypass {
		from, to = wet, in
	} else {
		from, to = in, wet
	}
	gainFrom := equalPower(1 - t)
	gainTo := equalPower(t)
	return Frame{
		from[0]*gainFrom + to[0]*gainTo,
		from[1]*gainFrom + to[1]*gainTo,
	}
}

func equalPower(t float32) float32 {
	return float32(math.Sin(float64(t) * math.Pi / 2))
}
