package planner

import (
	"github.com/Caribou3d/motionshaper/daa"
	"github.com/Caribou3d/motionshaper/move"
	"github.com/Caribou3d/motionshaper/segment"
	"github.com/Caribou3d/motionshaper/shaper"
)

// PlanShaping runs the single-threaded, non-suspending planning pass
// for one move (spec §4.D, §5). It always attaches a segment chain to
// k.Segments as its final act — a move that fails feasibility is still
// emitted, just unshaped; there is no error return.
func PlanShaping(pool *segment.Pool, k *move.Kinematics, p *shaper.ShaperParams, shapingEnabled bool, stepRate float32) Plan {
	if !shapingEnabled || p.Type == shaper.None {
		buildUnshaped(pool, k, stepRate)
		return Plan{}
	}

	if p.Type == shaper.DAA {
		daa.Adjust(k, p.MinAcceleration, p.RingingPeriod, stepRate)
		buildUnshaped(pool, k, stepRate)
		return Plan{}
	}

	plan := proposePlan(k, p)
	plan = verifyAccelFeasibility(k, p, plan)
	plan = verifyDecelFeasibility(k, p, plan)

	accelHead, _, _, accelSegs := segment.BuildPhase(pool, segment.PhaseSpec{
		Coefficients:    p.Coefficients,
		Durations:       p.Durations,
		ShapeStart:      plan.ShapeAccelStart,
		ShapeEnd:        plan.ShapeAccelEnd,
		Acceleration:    k.Acceleration,
		PhaseClocks:     k.AccelClocks,
		StartSpeed:      k.StartSpeed,
		CumAtPhaseStart: 0,
		TotalDistance:   k.TotalDistance,
		StepRate:        stepRate,
	})

	var steadyHead *segment.MoveSegment
	if steadyClocks := steadyClocks(k, stepRate); steadyClocks > 0 {
		steadyHead = segment.SteadySegment(pool, stepRate, steadyClocks, k.DecelStartDistance/k.TotalDistance, k.TotalDistance, k.TopSpeed)
	}

	decelHead, _, _, decelSegs := segment.BuildPhase(pool, segment.PhaseSpec{
		Coefficients:    p.Coefficients,
		Durations:       p.Durations,
		ShapeStart:      plan.ShapeDecelStart,
		ShapeEnd:        plan.ShapeDecelEnd,
		Acceleration:    -k.Deceleration,
		PhaseClocks:     k.DecelClocks,
		StartSpeed:      k.TopSpeed,
		CumAtPhaseStart: k.DecelStartDistance,
		TotalDistance:   k.TotalDistance,
		StepRate:        stepRate,
	})

	k.Segments = concat(accelHead, steadyHead, decelHead)
	plan.AccelSegments = accelSegs
	plan.DecelSegments = decelSegs
	return plan
}

func buildUnshaped(pool *segment.Pool, k *move.Kinematics, stepRate float32) {
	accel := segment.UnshapedPhase{
		Speed: k.StartSpeed, Acceleration: k.Acceleration,
		Clocks: k.AccelClocks, EndFraction: safeDiv(k.AccelDistance, k.TotalDistance),
	}
	decel := segment.UnshapedPhase{
		Speed: k.TopSpeed, Acceleration: -k.Deceleration,
		Clocks: k.DecelClocks, EndFraction: 1.0,
	}
	k.Segments = segment.BuildUnshapedChain(pool, stepRate,
		accel,
		steadyClocks(k, stepRate), safeDiv(k.DecelStartDistance, k.TotalDistance),
		k.TopSpeed, k.TotalDistance,
		decel,
	)
}

// steadyClocks derives the constant-speed phase's duration, in ticks,
// from the distance the plan leaves between the accel and decel phases.
func steadyClocks(k *move.Kinematics, stepRate float32) float32 {
	if k.TopSpeed <= 0 {
		return 0
	}
	return k.SteadyDistance() / k.TopSpeed * stepRate
}

func safeDiv(a, b float32) float32 {
	if b <= 0 {
		return 0
	}
	return a / b
}

// proposePlan computes the four shaping flags from clocks-lost coverage
// and neighbour context alone, before feasibility is checked (spec §4.D
// step 2).
func proposePlan(k *move.Kinematics, p *shaper.ShaperParams) Plan {
	prevBlocksStart := k.Prev != nil &&
		(k.Prev.State == move.Frozen || k.Prev.State == move.Executing) &&
		k.Prev.WasAccelOnlyMove
	nextBlocksEnd := k.Next != nil &&
		k.Next.State == move.Provisional &&
		k.Next.IsDecelerationMove

	return Plan{
		ShapeAccelStart: k.AccelClocks+p.ClocksLostAtStart >= p.TotalShapingClocks && !prevBlocksStart,
		ShapeAccelEnd:   k.AccelClocks+p.ClocksLostAtEnd >= p.TotalShapingClocks && k.DecelStartDistance > k.AccelDistance,
		ShapeDecelStart: k.DecelClocks+p.ClocksLostAtStart >= p.TotalShapingClocks && k.DecelStartDistance > k.AccelDistance,
		ShapeDecelEnd:   k.DecelClocks+p.ClocksLostAtEnd >= p.TotalShapingClocks && !nextBlocksEnd,
	}
}

// verifyAccelFeasibility applies spec §4.D step 3: it may drop both
// accel flags, or accept them and grow AccelDistance/AccelClocks to
// make room for the shaped profile.
func verifyAccelFeasibility(k *move.Kinematics, p *shaper.ShaperParams, plan Plan) Plan {
	if !plan.ShapeAccelStart && !plan.ShapeAccelEnd {
		return plan
	}
	if plan.ShapeAccelStart && plan.ShapeAccelEnd && k.AccelClocks < 2*p.TotalShapingClocks {
		plan.ShapeAccelStart, plan.ShapeAccelEnd = false, false
		return plan
	}

	var extra float32
	if plan.ShapeAccelStart {
		extra += extraDistanceStart(p, k.Acceleration, k.StartSpeed)
	}
	if plan.ShapeAccelEnd {
		extra += extraDistanceEnd(p, k.Acceleration, k.TopSpeed)
	}

	if k.AccelDistance+extra <= k.DecelStartDistance {
		k.AccelDistance += extra
		if plan.ShapeAccelStart {
			k.AccelClocks += p.ClocksLostAtStart
		}
		if plan.ShapeAccelEnd {
			k.AccelClocks += p.ClocksLostAtEnd
		}
	} else {
		plan.ShapeAccelStart, plan.ShapeAccelEnd = false, false
	}
	return plan
}

// verifyDecelFeasibility is the symmetric counterpart (spec §4.D step
// 4): on acceptance it shrinks DecelStartDistance instead of growing
// AccelDistance.
func verifyDecelFeasibility(k *move.Kinematics, p *shaper.ShaperParams, plan Plan) Plan {
	if !plan.ShapeDecelStart && !plan.ShapeDecelEnd {
		return plan
	}
	if plan.ShapeDecelStart && plan.ShapeDecelEnd && k.DecelClocks < 2*p.TotalShapingClocks {
		plan.ShapeDecelStart, plan.ShapeDecelEnd = false, false
		return plan
	}

	var extra float32
	if plan.ShapeDecelStart {
		extra += extraDistanceStart(p, -k.Deceleration, k.TopSpeed)
	}
	if plan.ShapeDecelEnd {
		extra += extraDistanceEnd(p, -k.Deceleration, k.EndSpeed)
	}

	if k.AccelDistance+extra <= k.DecelStartDistance {
		k.DecelStartDistance -= extra
		if plan.ShapeDecelStart {
			k.DecelClocks += p.ClocksLostAtStart
		}
		if plan.ShapeDecelEnd {
			k.DecelClocks += p.ClocksLostAtEnd
		}
	} else {
		plan.ShapeDecelStart, plan.ShapeDecelEnd = false, false
	}
	return plan
}

// concat links a sequence of possibly-nil chains into one, in order.
func concat(chains ...*segment.MoveSegment) *segment.MoveSegment {
	var head, tail *segment.MoveSegment
	for _, c := range chains {
		if c == nil {
			continue
		}
		if head == nil {
			head = c
		} else {
			tail.Next = c
		}
		tail = c
		for tail.Next != nil {
			tail = tail.Next
		}
	}
	return head
}
