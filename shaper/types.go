// Package shaper synthesizes input-shaper impulse tables (ShaperParams)
// from a small set of configuration values, and holds the process-wide
// configurator that owns the currently active table (spec §4.A, §4.B).
package shaper

// Type is the closed set of shaper families a Configurator can select.
// Custom durations/amplitudes aside, every family synthesizes entirely
// from {Frequency, Damping}.
type Type int

const (
	None Type = iota
	DAA
	ZVD
	ZVDD
	EI2
	EI3
	Custom
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case DAA:
		return "daa"
	case ZVD:
		return "zvd"
	case ZVDD:
		return "zvdd"
	case EI2:
		return "ei2"
	case EI3:
		return "ei3"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// TypeFromString parses one of the configuration letters' accepted
// names (spec §6, column P). An unrecognised name is reported by the
// caller as UnknownType — this function just signals failure.
func TypeFromString(s string) (Type, bool) {
	switch s {
	case "none":
		return None, true
	case "daa":
		return DAA, true
	case "zvd":
		return ZVD, true
	case "zvdd":
		return ZVDD, true
	case "ei2":
		return EI2, true
	case "ei3":
		return EI3, true
	case "custom":
		return Custom, true
	default:
		return None, false
	}
}

// ShaperParams is the immutable, process-wide synthesised impulse table
// (spec §3). A Configurator swaps the active *ShaperParams atomically on
// every configuration change; planning never mutates it.
type ShaperParams struct {
	Type            Type
	Frequency       float32
	Damping         float32
	MinAcceleration float32

	// NumExtraImpulses is the count of impulses stored explicitly in
	// Coefficients/Durations. The impulse train itself always has one
	// more member than this: the final impulse's cumulative amplitude
	// is implicitly 1.0 and is never stored (spec §3).
	NumExtraImpulses int
	Coefficients     []float32
	Durations        []float32

	TotalDuration      float32
	TotalShapingClocks float32
	ClocksLostAtStart  float32
	ClocksLostAtEnd    float32

	// RingingPeriod is 1/omega_d, the full mechanical ringing period.
	// Only DAA uses it (spec §4.B: "durations[0] = 1/omega_d ... used
	// as full ringing period, not as impulse table") — NumExtraImpulses
	// is 0 for DAA, so storing the period in Durations[0] would violate
	// len(Durations) == NumExtraImpulses. It gets its own field instead.
	RingingPeriod float32

	// Overlapped holds 2*NumExtraImpulses entries used when a move is
	// too short to shape its start and end independently (spec §4.B).
	Overlapped                    []float32
	OverlappedAverageAcceleration float32

	// StepRate is the step-timer tick rate the clocks-denominated
	// fields above were scaled by.
	StepRate float32
}

// Shaping reports whether this table requires the impulse path at all
// (as opposed to None/DAA, which both fall through to an unshaped
// segment chain — spec §4.D step 1).
func (p *ShaperParams) Shaping() bool {
	return p != nil && p.Type != None && p.Type != DAA
}
