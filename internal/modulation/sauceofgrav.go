package modulation

import (
	"math"
	"math/rand"
)

const (
	hubLimit          = 1.0
	hubDamp           = 0.5
	railZone          = 0.05
	overshootMax      = 1.0
	vdpThreshold      = 0.3
	vdpThresholdFloor = 0.05
	vdpHubMod         = 0.5
	kickstartFloor    = 0.002 // global kinetic energy below which a kick may fire
	kickCooldownBaseS = 2.0
	resonanceFloor    = 0.01
)

// GravParams is one block's control inputs for a SauceOfGrav slot, read
// from the grid at slot-assigned indices.
type GravParams struct {
	Rate      float64 // Hz, 0 = free-running with rate-independent refresh disabled
	Depth     float64 // 0..1
	Gravity   float64 // 0..1, restoring strength toward centre
	Resonance float64 // 0..1
	Excursion float64 // 0..1, hub-target excursion gain
	Calm      float64 // 0..1, bipolar-centred at 0.5

	Tension [4]float64 // per-output hub coupling strength
	Mass    [4]float64 // per-output inertia
	Polarity [4]bool   // true = invert published sign
}

// gravNode is one of the four ring positions.
type gravNode struct {
	out, v float64

	prevSide       bool // out > frozen hub_target at the previous step
	prevVelSide    bool
	overshootActive bool
	overshootPeak  float64
}

// SauceOfGrav is four coupled Van-der-Pol-damped oscillators arranged on
// a ring plus an inertial hub whose bias slowly drifts from accumulated
// overshoot impulses and feeds back into every node's target.
type SauceOfGrav struct {
	nodes [4]gravNode

	hubBias, hubVel float64

	kickToggle     float64 // +1/-1
	kickIndex      int
	kickCooldownS  float64

	refreshPhase float64

	rng *rand.Rand
}

// NewSauceOfGrav constructs a core with all four outputs resting at the
// ring's centre.
func NewSauceOfGrav(seed int64) *SauceOfGrav {
	g := &SauceOfGrav{
		kickToggle: 1,
		rng:        rand.New(rand.NewSource(seed)),
	}
	for i := range g.nodes {
		g.nodes[i].out = 0.5
	}
	return g
}

// Reset clears hub bias, hub velocity, and kick cooldown only — output
// positions and velocities are left untouched.
func (g *SauceOfGrav) Reset() {
	g.hubBias = 0
	g.hubVel = 0
	g.kickCooldownS = 0
}

const subStepSeconds = 0.0025

// Step advances by one block, sub-stepping internally so no integration
// step exceeds subStepSeconds, and returns the four published outputs.
func (g *SauceOfGrav) Step(blockSeconds float64, p GravParams) [4]float32 {
	steps := int(math.Ceil(blockSeconds / subStepSeconds))
	if steps < 1 {
		steps = 1
	}
	dt := blockSeconds / float64(steps)

	for s := 0; s < steps; s++ {
		g.substep(dt, p)
	}

	var out [4]float32
	for i := 0; i < 4; i++ {
		centered := g.nodes[i].out*2 - 1
		if p.Polarity[i] {
			centered = -centered
		}
		out[i] = float32(centered)
	}
	return out
}

func (g *SauceOfGrav) substep(dt float64, p GravParams) {
	// Isolate non-finite state before it can be read by any other node's
	// coupling force this sub-step.
	for i := range g.nodes {
		n := &g.nodes[i]
		if math.IsNaN(n.out) || math.IsInf(n.out, 0) || math.IsNaN(n.v) || math.IsInf(n.v, 0) {
			n.out, n.v = 0.5, 0
			n.overshootActive = false
		}
	}

	calmBi := 2*p.Calm - 1
	t := (1 - calmBi) / 2 // 0 = wide-motion extreme (calm=1), 1 = damped extreme (calm=0)

	dampingMul := lerp(0.3, 2.5, t)
	vdpMul := lerp(1.5, 0.1, t)
	kickMul := lerp(1.0, 0.0, t)

	hubTarget := clamp(0.5+g.hubBias*(1-p.Gravity)*(0.5+p.Excursion), 0, 1)
	const ringSkew = 0.015
	couplingBase := p.Resonance * 0.5
	gravityStiffness := p.Gravity * 2.0

	// Snapshot sides/kinetic-energy against the frozen hub target before
	// any node in this sub-step moves.
	kineticEnergy := 0.0
	for i := range g.nodes {
		kineticEnergy += g.nodes[i].v * g.nodes[i].v * massOf(p.Mass[i])
	}

	alignedCount := [2]int{} // [negative-side count, positive-side count]
	for i := range g.nodes {
		if g.nodes[i].out > hubTarget {
			alignedCount[1]++
		} else {
			alignedCount[0]++
		}
	}

	overshootImpulses := 0.0

	for i := range g.nodes {
		n := &g.nodes[i]
		mass := massOf(p.Mass[i])

		amp := math.Abs(n.out-0.5) * 2
		threshold := math.Max(vdpThreshold*(1+vdpHubMod*g.hubBias/hubLimit), vdpThresholdFloor)
		dampingBase := (0.5 + massOf(p.Mass[i])*0.3) * dampingMul
		vdpInject := p.Depth * vdpMul
		dampingEff := dampingBase - vdpInject*(1-(amp/threshold)*(amp/threshold))

		noise := g.rng.NormFloat64() * 0.02 * p.Depth * math.Sqrt(dt)

		fGravity := -(n.out - 0.5) * gravityStiffness
		fHub := (hubTarget - n.out) * p.Tension[i] * 0.3

		prev := (i + 3) % 4
		next := (i + 1) % 4
		fRing := couplingBase * ((g.nodes[prev].out-n.out)*(1+ringSkew) + (g.nodes[next].out-n.out)*(1-ringSkew))

		var fDrive float64
		side := 0
		if n.out > 0.5 {
			side = 1
		}
		if alignedCount[side] >= 2 && kineticEnergy < resonanceFloor {
			if side == 1 {
				fDrive = p.Resonance * 0.5
			} else {
				fDrive = -p.Resonance * 0.5
			}
		}

		force := fGravity + fHub + fRing + fDrive
		accel := force / mass

		n.v += accel*dt + noise
		n.v *= math.Exp(-dampingEff * dt)
		n.out += n.v * dt

		if n.out < 0 {
			n.out = 0
			n.v = -n.v * 0.5
		} else if n.out > 1 {
			n.out = 1
			n.v = -n.v * 0.5
		} else if n.out < railZone || n.out > 1-railZone {
			n.v *= 0.5
		}

		// Overshoot detection relative to the frozen hub target.
		newSide := n.out > hubTarget
		if newSide != n.prevSide {
			n.overshootActive = true
			n.overshootPeak = 0
		}
		if n.overshootActive {
			excursion := math.Abs(n.out - hubTarget)
			if excursion > n.overshootPeak {
				n.overshootPeak = excursion
			}
			velSide := n.v > 0
			if velSide != n.prevVelSide {
				sign := 1.0
				if n.out < 0.5 {
					sign = -1.0
				}
				impulse := sign * math.Min(n.overshootPeak, overshootMax)
				overshootImpulses += impulse
				n.overshootActive = false
			}
		}
		n.prevSide = newSide
		n.prevVelSide = n.v > 0

		if math.IsNaN(n.out) || math.IsInf(n.out, 0) || math.IsNaN(n.v) || math.IsInf(n.v, 0) {
			n.out, n.v = 0.5, 0
			n.overshootActive = false
		}
	}

	// Kickstart: one-shot impulse when the ring is starved of motion.
	g.kickCooldownS -= dt
	if kineticEnergy < kickstartFloor && g.kickCooldownS <= 0 && kickMul > 0 {
		g.nodes[g.kickIndex].v += g.kickToggle * kickMul * 0.5
		g.kickToggle = -g.kickToggle
		g.kickIndex = (g.kickIndex + 1) % 3
		g.kickCooldownS = kickCooldownBaseS
	}

	continuousWorkFeed := p.Resonance * 0.01
	g.hubVel += (overshootImpulses + continuousWorkFeed) * dt
	g.hubVel *= math.Exp(-hubDamp * dt)
	g.hubBias += g.hubVel * dt
	g.hubBias = hubLimit * math.Tanh(g.hubBias/hubLimit)

	if math.IsNaN(g.hubBias) || math.IsInf(g.hubBias, 0) || math.IsNaN(g.hubVel) || math.IsInf(g.hubVel, 0) {
		g.hubBias, g.hubVel = 0, 0
	}

	if p.Rate > 0.01 {
		g.refreshPhase += p.Rate * dt
		if g.refreshPhase >= 1 {
			g.refreshPhase -= math.Floor(g.refreshPhase)
			mul := 0.95 - p.Depth*0.95
			g.hubBias *= mul
			g.hubVel *= mul
		}
	}
}

// HubBias exposes the hub's current bias for telemetry/testing.
func (g *SauceOfGrav) HubBias() float64 { return g.hubBias }

func massOf(m float64) float64 {
	if m < 0.2 {
		return 0.2
	}
	return m
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
