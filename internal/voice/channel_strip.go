package voice

import (
	"math"

	"github.com/thegdyne/sauceengine-go/internal/dsp"
)

// Frame is one stereo sample pair.
type Frame [2]float32

// ChannelStrip is the per-slot mixer strip:
//
//	sig <- eq3_iso(sig, lo, mid, hi)
//	sig <- amp(sig, gain_trim)
//	sig <- pan2(sig, pan)
//	sig <- fader(sig, volume)
//	apply_mute_solo(sig, mute, solo, solo_active)
//	write(dry_sum_bus, sig)
//	for j in 0..4: write(send_bus[j], sig * send_amount[j])   (post-fader)
//
// Strip state persists across voice swaps; only the Voice underneath it
// is replaced.
type ChannelStrip struct {
	sampleHz float32

	Volume   float32 // 0..1 fader
	Pan      float32 // -1..1
	Mute     bool
	Solo     bool
	GainTrim float32 // linear, applied pre-pan
	EQLo, EQMid, EQHi float32 // -1..1, each a simple shelf/peak gain trim
	Send     [4]float32       // post-fader send amounts, 0..1

	// three-band isolator state (one-pole crossovers), DJ-isolator style.
	loState, hiState float32
}

// NewChannelStrip creates a strip with unity gain and centred pan.
func NewChannelStrip(sampleHz float32) *ChannelStrip {
	return &ChannelStrip{
		sampleHz: sampleHz,
		Volume:   1,
		GainTrim: 1,
	}
}

// eq3 splits sig into low/mid/high bands with one-pole crossovers and
// recombines with per-band gain trims in [-1,1] mapped to [0,2] linear gain
// (DJ-isolator convention: -1 = band killed, 0 = unity, +1 = +6dB boost
// equivalent in this simplified model).
func (c *ChannelStrip) eq3(sig float32) float32 {
	const crossoverHz = 400.0
	loCoeff := dsp.Clamp01(crossoverHz / c.sampleHz * 4)

	c.loState += (sig - c.loState) * loCoeff
	low := c.loState

	const hiCrossoverHz = 3000.0
	hiCoeff := dsp.Clamp01(hiCrossoverHz / c.sampleHz * 4)
	c.hiState += (sig - c.hiState) * hiCoeff
	high := sig - c.hiState
	mid := sig - low - high

	gainLo := 1 + c.EQLo
	gainMid := 1 + c.EQMid
	gainHi := 1 + c.EQHi

	return low*gainLo + mid*gainMid + high*gainHi
}

// Process runs the strip on a mono voice sample and returns the dry stereo
// output plus post-fader send levels. soloActive is the process-wide
// "any slot soloed" flag.
func (c *ChannelStrip) Process(sig float32, soloActive bool) (dry Frame, sends [4]Frame) {
	sig = c.eq3(sig)
	sig = sig * c.GainTrim

	left, right := pan2(sig, c.Pan)
	left *= c.Volume
	right *= c.Volume

	silenced := c.Mute || (soloActive && !c.Solo)
	if silenced {
		return Frame{}, sends
	}

	dry = Frame{left, right}
	for j := 0; j < 4; j++ {
		amt := dsp.Clamp01(c.Send[j])
		sends[j] = Frame{left * amt, right * amt}
	}
	return dry, sends
}

// pan2 applies equal-power panning, pan in [-1,1].
func pan2(sig, pan float32) (left, right float32) {
	pan = dsp.Clamp(pan, -1, 1)
	angle := (float64(pan) + 1) * math.Pi / 4 // 0 -> 0 (hard left), pi/2 -> hard right
	return sig * float32(math.Cos(angle)), sig * float32(math.Sin(angle))
}
