package modulation

import "math"

// slothJerkA is the damping coefficient of the jerk-equation chaotic
// oscillator (Sprott-style smooth chaos: x''' = -a*x'' - x' + |x| - 1).
// At a = 0.6 the unscaled system is chaotic with a mean period of about
// 8 time units, so tau ≈ target period / 8.
const slothJerkA = 0.6

// slothOsc is one of Sloth's three chaotic states, time-stretched by tau
// so its apparent period lands in its target band.
type slothOsc struct {
	x, y, z float64
	tau     float64
}

func (o *slothOsc) step(dt float64) {
	dtEff := dt / o.tau
	dx := o.y
	dy := o.z
	dz := -slothJerkA*o.z - o.y + math.Abs(o.x) - 1
	o.x += dx * dtEff
	o.y += dy * dtEff
	o.z += dz * dtEff
}

// Sloth is the triple chaotic attractor modulator: three independent
// chaotic oscillators with nominal periods around 15-30s, 60-90s, and
// 30-40 minutes, integrated with fixed-step Euler at block rate.
type Sloth struct {
	oscA, oscB, oscC slothOsc
}

// NewSloth constructs a Sloth core with small, distinct initial
// perturbations so the three oscillators don't start in lockstep.
func NewSloth() *Sloth {
	s := &Sloth{
		oscA: slothOsc{x: 0.10, tau: 2.8},
		oscB: slothOsc{x: 0.17, tau: 9.3},
		oscC: slothOsc{x: 0.23, tau: 260},
	}
	return s
}

// Reset restores all three oscillators to their initial perturbation.
func (s *Sloth) Reset() {
	*s = *NewSloth()
}

// Step advances by one block and returns X, Y, Z, R where R is the
// rectified gate-like combination max(0, X+Y-Z).
func (s *Sloth) Step(blockSeconds float64) [4]float32 {
	s.oscA.step(blockSeconds)
	s.oscB.step(blockSeconds)
	s.oscC.step(blockSeconds)

	x := math.Tanh(s.oscA.x)
	y := math.Tanh(s.oscB.x)
	z := math.Tanh(s.oscC.x)
	r := math.Max(0, x+y-z)

	return [4]float32{float32(x), float32(y), float32(z), float32(r)}
}
