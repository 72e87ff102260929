package segment

// chain is the append-only builder state used while walking a phase or
// an entire unshaped move. It mirrors how the firmware links segments
// one allocation at a time rather than building a slice and converting.
type chain struct {
	head, tail *MoveSegment
	count      int
}

func (c *chain) append(s *MoveSegment) {
	if c.head == nil {
		c.head = s
		c.tail = s
	} else {
		c.tail.Next = s
		c.tail = s
	}
	c.count++
}

// UnshapedPhase describes one constant-acceleration phase of a move that
// is not being shaped at all (spec §4.D step 1 — type none, or DAA after
// its fallthrough).
type UnshapedPhase struct {
	Speed         float32 // speed at the start of the phase
	Acceleration  float32 // signed: negative for deceleration
	Clocks        float32
	EndFraction   float32 // cumulative FractionOfTotalDistance at the end of this phase
}

// BuildUnshapedChain emits the three-segment (accel / steady / decel)
// chain for a move with no shaping applied at all. Zero-length phases
// are skipped (spec §4.C — "emit only if residual distance > 0").
func BuildUnshapedChain(
	pool *Pool, stepRate float32,
	accel UnshapedPhase,
	steadyClocks, steadyEndFraction float32,
	topSpeed, totalDistance float32,
	decel UnshapedPhase,
) *MoveSegment {
	var c chain

	if accel.Clocks > 0 {
		c.append(nonLinearSegment(pool, stepRate, accel.Speed, accel.Acceleration, accel.EndFraction, accel.Clocks, totalDistance))
	}
	if s := SteadySegment(pool, stepRate, steadyClocks, steadyEndFraction, totalDistance, topSpeed); s != nil {
		c.append(s)
	}
	if decel.Clocks > 0 {
		c.append(nonLinearSegment(pool, stepRate, decel.Speed, decel.Acceleration, decel.EndFraction, decel.Clocks, totalDistance))
	}
	return c.head
}

func nonLinearSegment(pool *Pool, stepRate, speed, accel, fraction, clocks, totalDistance float32) *MoveSegment {
	s := pool.Allocate(NonLinear)
	b := speed * stepRate / accel
	cc := 2 * stepRate * stepRate * totalDistance / accel
	s.SetNonLinear(fraction, clocks, b, cc)
	return s
}

// SteadySegment returns the constant-speed segment bridging the accel
// and decel phases (spec §4.C), or nil if there is no steady-speed
// portion.
func SteadySegment(pool *Pool, stepRate, steadyClocks, decelStartFraction, totalDistance, topSpeed float32) *MoveSegment {
	if steadyClocks <= 0 || topSpeed <= 0 {
		return nil
	}
	s := pool.Allocate(Linear)
	s.SetLinear(decelStartFraction, steadyClocks, totalDistance*stepRate/topSpeed)
	return s
}

// PhaseSpec parameterises one shaped accel or decel phase (spec §4.C).
// Acceleration is signed — negative for a deceleration phase, so the
// same walking code serves both sides.
type PhaseSpec struct {
	Coefficients []float32 // len NumExtraImpulses, cumulative amplitudes
	Durations    []float32 // len NumExtraImpulses, seconds
	ShapeStart   bool
	ShapeEnd     bool
	Acceleration float32 // nominal, signed
	PhaseClocks  float32 // total clocks budget for this phase, ticks
	StartSpeed   float32 // speed entering the phase

	CumAtPhaseStart float32 // absolute distance already covered, same units as TotalDistance
	TotalDistance   float32
	StepRate        float32
}

// BuildPhase walks a single accel or decel phase and emits its shaped
// start segments, an optional constant-acceleration bridge, and its
// shaped end segments, in that order (spec §4.C). It returns the chain
// head (nil if the phase is empty), the speed and cumulative distance
// at the end of the phase, and how many segments were emitted.
func BuildPhase(pool *Pool, ps PhaseSpec) (head *MoveSegment, endSpeed, endCum float32, segCount int) {
	var c chain
	n := len(ps.Coefficients)
	speed := ps.StartSpeed
	cum := ps.CumAtPhaseStart

	var shapedDurationSum float32
	for _, d := range ps.Durations {
		shapedDurationSum += d
	}
	var shapedClocks float32
	if ps.ShapeStart {
		shapedClocks += shapedDurationSum * ps.StepRate
	}
	if ps.ShapeEnd {
		shapedClocks += shapedDurationSum * ps.StepRate
	}

	emit := func(a, tau float32) {
		u := speed
		dist := u*tau + 0.5*a*tau*tau
		cum += dist
		speed = u + a*tau
		clocks := tau * ps.StepRate
		s := pool.Allocate(NonLinear)
		s.SetNonLinear(cum/ps.TotalDistance, clocks, u*ps.StepRate/a, 2*ps.StepRate*ps.StepRate*ps.TotalDistance/a)
		c.append(s)
	}

	if ps.ShapeStart {
		for i := 0; i < n; i++ {
			emit(ps.Acceleration*ps.Coefficients[i], ps.Durations[i])
		}
	}

	residualClocks := ps.PhaseClocks - shapedClocks
	if residualClocks > 0 {
		t := residualClocks / ps.StepRate
		u := speed
		dist := u*t + 0.5*ps.Acceleration*t*t
		cum += dist
		speed = u + ps.Acceleration*t
		s := pool.Allocate(NonLinear)
		b := u * ps.StepRate / ps.Acceleration
		cc := 2 * ps.StepRate * ps.StepRate * ps.TotalDistance / ps.Acceleration
		s.SetNonLinear(cum/ps.TotalDistance, residualClocks, b, cc)
		c.append(s)
	}

	if ps.ShapeEnd {
		for idx := n - 1; idx >= 0; idx-- {
			emit(ps.Acceleration*(1-ps.Coefficients[idx]), ps.Durations[idx])
		}
	}

	return c.head, speed, cum, c.count
}
