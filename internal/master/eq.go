package master

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// EQ is the third master-chain stage: a 3-band isolator with a low cut
// and a hard kill switch per band.
type EQ struct {
	sampleHz float32

	LowCutHz float32

	Lo, Mid, Hi          float32 // -1..1 gain trim, same convention as the channel-strip isolator
	KillLo, KillMid, KillHi bool

	lowCutState        [2]float32
	loState, hiState   [2]float32
}

func NewEQ(sampleHz float32) *EQ {
	return &EQ{sampleHz: sampleHz, LowCutHz: 20}
}

func (e *EQ) Process(in Frame) Frame {
	var out Frame
	for c := 0; c < 2; c++ {
		x := in[c]

		cutCoeff := dsp.Clamp01(e.LowCutHz / e.sampleHz * 4)
		e.lowCutState[c] += (x - e.lowCutState[c]) * cutCoeff
		x = x - e.lowCutState[c]

		const loCrossHz = 400.0
		const hiCrossHz = 3000.0
		loCoeff := dsp.Clamp01(loCrossHz / e.sampleHz * 4)
		e.loState[c] += (x - e.loState[c]) * loCoeff
		low := e.loState[c]

		hiCoeff := dsp.Clamp01(hiCrossHz / e.sampleHz * 4)
		e.hiState[c] += (x - e.hiState[c]) * hiCoeff
		high := x - e.hiState[c]
		mid := x - low - high

		if e.KillLo {
			low = 0
		} else {
			low *= 1 + e.Lo
		}
		if e.KillMid {
			mid = 0
		} else {
			mid *= 1 + e.Mid
		}
		if e.KillHi {
			high = 0
		} else {
			high *= 1 + e.Hi
		}

		out[c] = low + mid + high
	}
	return out
}
