package modulation

// Kind is a modulator slot's assigned physics core.
type Kind int

const (
	KindEmpty Kind = iota
	KindLFO
	KindSloth
	KindSauceOfGrav
)

// Slot holds at most one active modulator core at a time. Swapping kind
// discards the previous core's state; SauceOfGrav additionally exposes an
// explicit Reset distinct from a kind swap.
type Slot struct {
	kind Kind

	lfo  *LFO
	sloth *Sloth
	grav *SauceOfGrav

	seed int64
}

// NewSlot creates an empty modulator slot. seed only affects the LFO's
// noise shape and SauceOfGrav's Brownian term, kept per-slot so multiple
// slots don't share a PRNG stream.
func NewSlot(seed int64) *Slot {
	return &Slot{seed: seed}
}

// SetKind swaps the active core, constructing a fresh instance.
func (s *Slot) SetKind(k Kind) {
	s.kind = k
	switch k {
	case KindLFO:
		s.lfo = NewLFO(s.seed)
	case KindSloth:
		s.sloth = NewSloth()
	case KindSauceOfGrav:
		s.grav = NewSauceOfGrav(s.seed)
	}
}

// Kind returns the slot's currently assigned core.
func (s *Slot) Kind() Kind { return s.kind }

// LFO returns the active LFO core, or nil if the slot isn't kind LFO.
func (s *Slot) LFO() *LFO {
	if s.kind != KindLFO {
		return nil
	}
	return s.lfo
}

// Sloth returns the active Sloth core, or nil if the slot isn't kind Sloth.
func (s *Slot) Sloth() *Sloth {
	if s.kind != KindSloth {
		return nil
	}
	return s.sloth
}

// SauceOfGrav returns the active SauceOfGrav core, or nil otherwise.
func (s *Slot) SauceOfGrav() *SauceOfGrav {
	if s.kind != KindSauceOfGrav {
		return nil
	}
	return s.grav
}

// Reset re-initialises the active core's transient state. For
// SauceOfGrav this clears only hub state per its own Reset contract; for
// LFO it zeroes phase; Sloth and Empty ignore it.
func (s *Slot) Reset() {
	switch s.kind {
	case KindLFO:
		if s.lfo != nil {
			s.lfo.Reset()
		}
	case KindSauceOfGrav:
		if s.grav != nil {
			s.grav.Reset()
		}
	}
}

// Step advances the active core by one block and returns its four output
// channels, or all zeros if the slot is empty.
func (s *Slot) Step(blockSeconds float64, grav GravParams) [4]float32 {
	switch s.kind {
	case KindLFO:
		return s.lfo.Step(blockSeconds)
	case KindSloth:
		return s.sloth.Step(blockSeconds)
	case KindSauceOfGrav:
		return s.grav.Step(blockSeconds, grav)
	default:
		return [4]float32{}
	}
}
