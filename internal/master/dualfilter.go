package master

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// RoutingMode selects how DualFilter's two SVFs combine.
type RoutingMode int

const (
	RoutingSerial RoutingMode = iota
	RoutingParallel
)

// DualFilter is the second master-chain stage: two independent
// state-variable filters, optionally frequency-synced (f2 = f1/ratio),
// run in series or in parallel, with an internal limiter guarding
// against resonant blow-up.
type DualFilter struct {
	sampleHz float32

	Cutoff1, Resonance1 float32
	Type1               dsp.FilterType

	Cutoff2, Resonance2 float32
	Type2               dsp.FilterType

	Sync      bool
	SyncRatio float32 // f2 = f1 / ratio, ratio >= 1

	Routing RoutingMode

	svf1, svf2 [2]*dsp.SVF
	limiter    [2]*limiterStage
}

// NewDualFilter constructs a dual filter with both cutoffs at 1.0 and both
// resonances at 0.
func NewDualFilter(sampleHz float32) *DualFilter {
	d := &DualFilter{
		sampleHz:  sampleHz,
		Cutoff1:   1.0,
		Cutoff2:   1.0,
		SyncRatio: 2.0,
	}
	for c := 0; c < 2; c++ {
		d.svf1[c] = dsp.NewSVF(sampleHz)
		d.svf2[c] = dsp.NewSVF(sampleHz)
		d.limiter[c] = newLimiterStage()
	}
	return d
}

func (d *DualFilter) effectiveCutoff2() float32 {
	if !d.Sync {
		return d.Cutoff2
	}
	ratio := d.SyncRatio
	if ratio < 1 {
		ratio = 1
	}
	return dsp.Clamp01(d.Cutoff1 / ratio)
}

func (d *DualFilter) Process(in Frame) Frame {
	cutoff2 := d.effectiveCutoff2()
	var out Frame
	for c := 0; c < 2; c++ {
		x := in[c]
		if d.Routing == RoutingSerial {
			x = d.svf1[c].Process(x, d.Cutoff1, d.Resonance1, d.Type1)
			x = d.svf2[c].Process(x, cutoff2, d.Resonance2, d.Type2)
		} else {
			a := d.svf1[c].Process(x, d.Cutoff1, d.Resonance1, d.Type1)
			b := d.svf2[c].Process(x, cutoff2, d.Resonance2, d.Type2)
			x = (a + b) * 0.5
		}
		out[c] = d.limiter[c].process(x)
	}
	return out
}

// limiterStage is a simple per-channel brick-wall clamp, duplicated here
// (rather than imported from package fx) because the master chain's
// internal limiter has no dependency on send-effect concerns.
type limiterStage struct{}

func newLimiterStage() *limiterStage { return &limiterStage{} }

func (*limiterStage) process(x float32) float32 {
	return dsp.Clamp(x, -1, 1)
}
