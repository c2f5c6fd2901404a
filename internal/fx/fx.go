// Package fx implements the send FX slot kinds and the shared safety
// stages (DC removal, brick-wall limiting) every self-oscillating or
// feedback-capable effect must include on its return.
package fx

// Frame is one stereo sample pair flowing through a send/return bus.
type Frame [2]float32

// Effect is the contract every compiled send FX kind implements: read the
// send bus (100% wet in), write the return bus.
type Effect interface {
	Process(in Frame) Frame
	Reset()
}

// Kind names a compiled effect.
type Kind int

const (
	KindEmpty Kind = iota
	KindEcho
	KindReverb
	KindChorus
	KindPhaser
	KindFlanger
	KindTremolo
	KindLoFi
	KindRingMod
	KindGrain
)

// New constructs the Effect implementation for kind at the given sample
// rate.
func New(kind Kind, sampleHz float32) Effect {
	switch kind {
	case KindEcho:
		return NewEcho(sampleHz)
	case KindReverb:
		return NewReverb(sampleHz)
	case KindChorus:
		return NewChorus(sampleHz)
	case KindPhaser:
		return NewPhaser(sampleHz)
	case KindFlanger:
		return NewFlanger(sampleHz)
	case KindTremolo:
		return NewTremolo(sampleHz)
	case KindLoFi:
		return NewLoFi(sampleHz)
	case KindRingMod:
		return NewRingMod(sampleHz)
	case KindGrain:
		return NewGrain(sampleHz)
	default:
		return emptyEffect{}
	}
}

// emptyEffect is the silent return for an unassigned send slot.
type emptyEffect struct{}

func (emptyEffect) Process(Frame) Frame { return Frame{} }
func (emptyEffect) Reset()              {}
