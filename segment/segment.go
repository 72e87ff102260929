// Package segment builds and pools the timed motion segments a shaped or
// unshaped move is rendered into (spec §4.C, "SegmentBuilder"). Segments
// form a singly-linked, head-owned list; the move that owns a chain
// releases it back to the Pool on completion (spec §3, §5).
package segment

// Kind distinguishes the two motion laws a segment can describe (spec
// §3). It exists mainly for readability at allocation time — the two
// kinds share the same pooled struct.
type Kind int

const (
	Linear Kind = iota
	NonLinear
)

// MoveSegment is one timed chunk of a move. For Linear segments distance
// grows as t/C; for NonLinear segments t solves t² + 2*B*t - C*s = 0
// where s is FractionOfTotalDistance (spec §3).
type MoveSegment struct {
	Kind                    Kind
	FractionOfTotalDistance float32
	Clocks                  float32
	B                       float32
	C                       float32
	Next                    *MoveSegment
}

// SetLinear overwrites a pooled segment in place as a constant-speed
// phase.
func (s *MoveSegment) SetLinear(fraction, clocks, c float32) {
	s.Kind = Linear
	s.FractionOfTotalDistance = fraction
	s.Clocks = clocks
	s.B = 0
	s.C = c
	s.Next = nil
}

// SetNonLinear overwrites a pooled segment in place as a
// constant-acceleration phase.
func (s *MoveSegment) SetNonLinear(fraction, clocks, b, c float32) {
	s.Kind = NonLinear
	s.FractionOfTotalDistance = fraction
	s.Clocks = clocks
	s.B = b
	s.C = c
	s.Next = nil
}

// Len walks the chain starting at s and counts its members (s may be
// nil). Intended for tests and diagnostics, not the hot path.
func Len(s *MoveSegment) int {
	n := 0
	for ; s != nil; s = s.Next {
		n++
	}
	return n
}

// TotalClocks sums Clocks across the whole chain.
func TotalClocks(s *MoveSegment) float32 {
	var total float32
	for ; s != nil; s = s.Next {
		total += s.Clocks
	}
	return total
}
