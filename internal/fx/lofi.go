package fx

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// LoFi degrades the send with bit-depth reduction and sample-rate
// decimation, the two hallmark artefacts of cheap digital sampling
// hardware.
type LoFi struct {
	sampleHz float32

	BitDepth   float32 // 2..16 effective bits
	DecimateHz float32 // target sample-and-hold rate

	heldL, heldR float32
	phase        float32
}

func NewLoFi(sampleHz float32) *LoFi {
	return &LoFi{sampleHz: sampleHz, BitDepth: 8, DecimateHz: sampleHz / 4}
}

func (l *LoFi) Reset() {
	l.heldL, l.heldR, l.phase = 0, 0, 0
}

func (l *LoFi) Process(in Frame) Frame {
	l.phase += l.DecimateHz / l.sampleHz
	if l.phase >= 1 {
		l.phase -= float32(int(l.phase))
		l.heldL = quantizeBits(in[0], l.BitDepth)
		l.heldR = quantizeBits(in[1], l.BitDepth)
	}
	return Frame{l.heldL, l.heldR}
}

func quantizeBits(x float32, bits float32) float32 {
	levels := dsp.Clamp(bits, 2, 16)
	steps := float32(int(1) << uint(levels))
	return float32(int(x*steps)) / steps
}
