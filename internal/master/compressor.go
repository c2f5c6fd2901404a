package master

import (
	"math"

	"github.com/thegdyne/sauceengine-go/internal/dsp"
)

// Compressor is the fourth master-chain stage: an SSL-style bus
// compressor with a single peak envelope follower feeding a
// feedforward gain computer, shared across both channels so stereo
// image doesn't shift under gain reduction.
type Compressor struct {
	sampleHz float32

	ThresholdDB float32
	Ratio       float32 // >= 1
	AttackS     float32
	ReleaseS    float32
	MakeupDB    float32

	// Sidechain, when non-nil, is read instead of the main input to drive
	// the gain computer (external sidechain / ducking).
	Sidechain func() Frame

	envelope float32
}

func NewCompressor(sampleHz float32) *Compressor {
	return &Compressor{
		sampleHz:    sampleHz,
		ThresholdDB: -12,
		Ratio:       4,
		AttackS:     0.01,
		ReleaseS:    0.15,
		MakeupDB:    0,
	}
}

func dbToLinear(db float32) float32 { return float32(math.Pow(10, float64(db)/20)) }
func linearToDB(x float32) float32 {
	if x <= 1e-9 {
		return -180
	}
	return float32(20 * math.Log10(float64(x)))
}

func (c *Compressor) Process(in Frame) Frame {
	sidechain := in
	if c.Sidechain != nil {
		sidechain = c.Sidechain()
	}
	peak := dsp.Clamp(float32(math.Max(math.Abs(float64(sidechain[0])), math.Abs(float64(sidechain[1])))), 0, 4)

	coeff := c.ReleaseS
	if peak > c.envelope {
		coeff = c.AttackS
	}
	rate := float32(1)
	if coeff > 0 {
		rate = 1 - float32(math.Exp(float64(-1/(coeff*c.sampleHz))))
	}
	c.envelope += (peak - c.envelope) * rate

	levelDB := linearToDB(c.envelope)
	var gainReductionDB float32
	if levelDB > c.ThresholdDB {
		over := levelDB - c.ThresholdDB
		gainReductionDB = over - over/c.Ratio
	}

	makeup := dbToLinear(c.MakeupDB)
	gain := dbToLinear(-gainReductionDB) * makeup

	return Frame{in[0] * gain, in[1] * gain}
}
