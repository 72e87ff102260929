// Package move defines the queued-move kinematic record the planner
// consumes. The queue itself, the motion executor, and per-axis step
// generation are external collaborators (spec §1) — only the fields and
// predicates below are part of this module's contract with them.
package move

import "github.com/Caribou3d/motionshaper/segment"

// State is the observable lifecycle state of a queued move. Once a move
// leaves Provisional it only ever advances (spec §5) — the planner relies
// on this monotonicity to read Prev/Next state without locking.
type State int

const (
	Provisional State = iota
	Frozen
	Executing
	Completed
)

func (s State) String() string {
	switch s {
	case Provisional:
		return "provisional"
	case Frozen:
		return "frozen"
	case Executing:
		return "executing"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Kinematics holds the pre-prepared parameters of one queued move, plus
// enough of its neighbours' observable state for the planner to decide
// which boundaries are safe to shape. The planner mutates the phase
// distance/clock fields in place (spec §4.D) and assigns Segments; on the
// DAA path it also rewrites Acceleration, Deceleration and TopSpeed.
// Everything else is read-only from the planner's point of view.
type Kinematics struct {
	StartSpeed   float32
	TopSpeed     float32
	EndSpeed     float32
	Acceleration float32
	Deceleration float32

	TotalDistance float32

	AccelDistance      float32
	DecelDistance      float32
	AccelClocks        float32
	DecelClocks        float32
	DecelStartDistance float32

	// WasAccelOnlyMove records that this move never reached TopSpeed
	// before decelerating — a pure acceleration ramp with no cruise or
	// decel phase. Read on the previous move by the current move's
	// planning pass.
	WasAccelOnlyMove bool

	Prev *Neighbor
	Next *Neighbor

	// Segments is the step-generator-facing chain built by the planner
	// for this move (spec §4.C/§5). Published once, after which it is
	// read-only; the stepper interrupt never sees a partially built chain
	// because the planner only assigns this field once BuildPhase/
	// BuildUnshapedChain has returned.
	Segments *segment.MoveSegment
}

// Neighbor is the read-only slice of a previous/next move's state the
// planner is allowed to consult. It is intentionally smaller than
// Kinematics: the planner never mutates a neighbour.
type Neighbor struct {
	State            State
	WasAccelOnlyMove bool
	// IsDecelerationMove reports whether the neighbour's shape is a pure
	// deceleration ramp with no prior cruise phase.
	IsDecelerationMove bool
}

// IsDecelerationMove reports whether this move itself never reaches
// TopSpeed before ending — i.e. acceleration phase is absent and the
// entire move decelerates (or is flat) from StartSpeed down to EndSpeed.
func (k *Kinematics) IsDecelerationMove() bool {
	return k.AccelDistance <= 0 && k.StartSpeed > k.EndSpeed
}

// SteadyDistance is the portion of TotalDistance spent at TopSpeed.
func (k *Kinematics) SteadyDistance() float32 {
	d := k.DecelStartDistance - k.AccelDistance
	if d < 0 {
		return 0
	}
	return d
}
