package planner

import "github.com/Caribou3d/motionshaper/shaper"

// extraDistanceStart integrates the shaped start of a phase against the
// unshaped rectangular-acceleration profile it replaces (spec §4.D,
// "Extra-distance closed forms"). a is the phase's signed nominal
// acceleration (negative for deceleration); startSpeed is the speed
// entering the phase.
func extraDistanceStart(p *shaper.ShaperParams, a, startSpeed float32) float32 {
	u := startSpeed
	var sum float32
	for i := 0; i < p.NumExtraImpulses; i++ {
		c, dur := p.Coefficients[i], p.Durations[i]
		sum += (1 - c) * (u + 0.5*c*a*dur) * dur
		u += c * a * dur
	}
	return sum
}

// extraDistanceEnd mirrors extraDistanceStart, walking the shaped end of
// a phase backward from the speed the phase would reach at its far
// boundary if unshaped (topSpeed for an accel phase, endSpeed for a
// decel phase).
func extraDistanceEnd(p *shaper.ShaperParams, a, farSpeed float32) float32 {
	v := farSpeed
	var sum float32
	for i := p.NumExtraImpulses - 1; i >= 0; i-- {
		c, dur := p.Coefficients[i], p.Durations[i]
		sum += c * (v - 0.5*(1-c)*a*dur) * dur
		v -= (1 - c) * a * dur
	}
	return sum
}
