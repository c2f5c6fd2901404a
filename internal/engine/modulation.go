package engine

import (
	"github.com/thegdyne/sauceengine-go/internal/grid"
	"github.com/thegdyne/sauceengine-go/internal/modulation"
)

// applyModParams pushes a modulator slot's 7 grid-block values into its
// active core's own fields ahead of Step, reading last block's snapshot
// (see engine.go for why this is one block behind rather than the
// in-progress one).
func applyModParams(slot *modulation.Slot, snapshot [grid.NumTargets]float32, modIdx int) modulation.GravParams {
	base := grid.ModulatorBase + modIdx*grid.ModulatorStride
	p := snapshot[base : base+grid.ModulatorStride]

	switch slot.Kind() {
	case modulation.KindLFO:
		lfo := slot.LFO()
		if lfo == nil {
			break
		}
		lfo.RateHz = float64(p[0])
		lfo.Shape = modulation.Shape(clampIndex(p[1], 5))
		lfo.Pattern = modulation.Pattern(clampIndex(p[2], 6))
		lfo.Rotation = clampIndex(p[3], 24)
		lfo.Polarity[0] = false
		lfo.Polarity[1] = p[4] >= 0.5
		lfo.Polarity[2] = p[5] >= 0.5
		lfo.Polarity[3] = p[6] >= 0.5
	case modulation.KindSauceOfGrav:
		return modulation.GravParams{
			Rate:      float64(p[0]),
			Depth:     float64(p[1]),
			Gravity:   float64(p[2]),
			Resonance: float64(p[3]),
			Excursion: float64(p[4]),
			Calm:      float64(p[5]),
			Tension:   [4]float64{float64(p[6]), float64(p[6]), float64(p[6]), float64(p[6])},
		}
	}
	return modulation.GravParams{}
}

func clampIndex(v float32, n int) int {
	i := int(v * float32(n))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}
