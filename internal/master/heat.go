package master

import "github.com/thegdyne/sauceengine-go/internal/dsp"

// Circuit is a Heat waveshaper preset: a fixed (curve, asymmetry) pair
// emulating a distinct saturation character.
type Circuit int

const (
	CircuitTube Circuit = iota
	CircuitTransistor
	CircuitDiode
)

var circuitCurve = map[Circuit]float32{
	CircuitTube:       1.6,
	CircuitTransistor: 3.0,
	CircuitDiode:      5.0,
}

var circuitAsymmetry = map[Circuit]float32{
	CircuitTube:       0.15,
	CircuitTransistor: 0.0,
	CircuitDiode:      0.35,
}

// Heat is the first master-chain stage: HPF(dc_cut) -> gain(drive) ->
// waveshape(curve, asymmetry) -> LPF(hf_loss) -> gain(makeup). Circuit
// swaps lag their target coefficients rather than snapping, so changing
// circuits mid-performance doesn't click.
type Heat struct {
	sampleHz float32

	Drive float32 // linear pre-gain
	Makeup float32 // linear post-gain

	Circuit Circuit

	curCurve, curAsym     float32
	targetCurve, targetAsym float32

	hpfState, lpfState [2]float32
	hpfCoeff, lpfCoeff float32
}

const heatCoeffLagPerSample = 0.0005

// NewHeat creates a Heat stage with unity gain and the tube circuit.
func NewHeat(sampleHz float32) *Heat {
	h := &Heat{
		sampleHz: sampleHz,
		Drive:    1.0,
		Makeup:   1.0,
		Circuit:  CircuitTube,
		hpfCoeff: 0.999,
		lpfCoeff: 0.3,
	}
	h.curCurve, h.curAsym = circuitCurve[CircuitTube], circuitAsymmetry[CircuitTube]
	h.targetCurve, h.targetAsym = h.curCurve, h.curAsym
	return h
}

// SetCircuit begins a lagged transition to a new circuit preset.
func (h *Heat) SetCircuit(c Circuit) {
	h.Circuit = c
	h.targetCurve = circuitCurve[c]
	h.targetAsym = circuitAsymmetry[c]
}

func (h *Heat) waveshape(x float32) float32 {
	h.curCurve += (h.targetCurve - h.curCurve) * heatCoeffLagPerSample
	h.curAsym += (h.targetAsym - h.curAsym) * heatCoeffLagPerSample

	biased := x + h.curAsym
	shaped := dsp.FastTanh(biased * h.curCurve)
	return shaped - dsp.FastTanh(h.curAsym*h.curCurve)
}

func (h *Heat) Process(in Frame) Frame {
	var out Frame
	for c := 0; c < 2; c++ {
		x := in[c]

		h.hpfState[c] += (x - h.hpfState[c]) * (1 - h.hpfCoeff)
		x = x - h.hpfState[c]

		x *= h.Drive
		x = h.waveshape(x)

		h.lpfState[c] += (x - h.lpfState[c]) * h.lpfCoeff
		x = h.lpfState[c]

		out[c] = x * h.Makeup
	}
	return out
}
