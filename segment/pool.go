package segment

// Pool is a non-blocking free-list of *MoveSegment, accessed only by the
// planner's own goroutine (spec §5 — the step-interrupt side only ever
// reads a chain after it has been published onto a move, never touches
// the pool). Allocate reuses a returned node where possible; Release
// returns an entire chain — partial or complete — in one call.
type Pool struct {
	free *MoveSegment
}

// NewPool returns an empty pool. It provisions lazily on first Allocate.
func NewPool() *Pool {
	return &Pool{}
}

// Allocate returns a segment of the given kind, reusing a freed node
// when one is available.
func (p *Pool) Allocate(kind Kind) *MoveSegment {
	if p.free == nil {
		return &MoveSegment{Kind: kind}
	}
	s := p.free
	p.free = s.Next
	s.Next = nil
	s.Kind = kind
	return s
}

// Release returns the chain rooted at head to the pool, including
// partially built chains the planner aborts mid-plan (spec §4.C).
func (p *Pool) Release(head *MoveSegment) {
	if head == nil {
		return
	}
	tail := head
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = p.free
	p.free = head
}

// Free reports the number of segments currently available for reuse.
// Diagnostic only.
func (p *Pool) Free() int {
	return Len(p.free)
}
