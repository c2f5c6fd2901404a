package fx

import "math"

// crossfadeSeconds is the minimum fade duration a kind swap must use to
// stay click-free.
const crossfadeSeconds = 0.020

// Slot hosts one send FX kind, fading the outgoing instance out and the
// incoming instance in across crossfadeSeconds whenever the kind changes.
type Slot struct {
	sampleHz float32

	current Effect
	incoming Effect

	fadeSamples     int
	fadeRemaining   int
}

// NewSlot creates an empty send FX slot.
func NewSlot(sampleHz float32) *Slot {
	s := &Slot{sampleHz: sampleHz, current: emptyEffect{}}
	s.fadeSamples = int(crossfadeSeconds * sampleHz)
	if s.fadeSamples < 1 {
		s.fadeSamples = 1
	}
	return s
}

// SetKind begins a click-free swap to a new effect kind. If a swap is
// already in progress, the in-flight incoming effect becomes the new
// outgoing one (its partial fade-in level becomes its fade-out start).
func (s *Slot) SetKind(kind Kind) {
	if s.fadeRemaining > 0 {
		s.current = s.incoming
	}
	s.incoming = New(kind, s.sampleHz)
	s.fadeRemaining = s.fadeSamples
}

// Current returns the slot's active (post-swap) effect instance, for the
// control layer to reach through and adjust continuous params. During an
// in-flight crossfade this is still the outgoing instance; the incoming
// one takes over once the fade completes.
func (s *Slot) Current() Effect { return s.current }

// Process runs the send signal through the slot, crossfading between the
// outgoing and incoming effect instances while a swap is in progress.
func (s *Slot) Process(in Frame) Frame {
	if s.fadeRemaining <= 0 {
		return s.current.Process(in)
	}

	t := 1 - float32(s.fadeRemaining)/float32(s.fadeSamples) // 0..1, incoming's gain
	outA := s.current.Process(in)
	outB := s.incoming.Process(in)

	gainOut := cos01(1 - t)
	gainIn := cos01(t)

	s.fadeRemaining--
	if s.fadeRemaining == 0 {
		s.current = s.incoming
		s.incoming = nil
	}

	return Frame{
		outA[0]*gainOut + outB[0]*gainIn,
		outA[1]*gainOut + outB[1]*gainIn,
	}
}

// cos01 is an equal-power crossfade curve for t in [0,1].
func cos01(t float32) float32 {
	return float32(math.Sin(float64(t) * math.Pi / 2))
}
