package engine

// ResultKind says what produced a queued result.
type ResultKind int

const (
	ResultMove ResultKind = iota
	ResultSpawn
	ResultReset
)

// String returns the kind name.
func (k ResultKind) String() string {
	switch k {
	case ResultMove:
		return "move"
	case ResultSpawn:
		return "spawn"
	case ResultReset:
		return "reset"
	default:
		return "unknown"
	}
}

// MoveResult is one accepted board change waiting to be shown.
type MoveResult struct {
	Seq         uint64
	Kind        ResultKind
	Direction   Direction // meaningful for ResultMove only
	Grid        Grid
	Transitions []Transition
	Merges      int
	Spawned     bool
}

// UpdateQueue is a FIFO of results not yet handed to the identity pool.
type UpdateQueue struct {
	items []MoveResult
}

// Push appends r.
func (q *UpdateQueue) Push(r MoveResult) {
	q.items = append(q.items, r)
}

// Pop removes and returns the oldest result.
func (q *UpdateQueue) Pop() (MoveResult, bool) {
	if len(q.items) == 0 {
		return MoveResult{}, false
	}
	r := q.items[0]
	q.items[0] = MoveResult{}
	q.items = q.items[1:]
	return r, true
}

// Last returns the most recently pushed result without removing it.
func (q *UpdateQueue) Last() (MoveResult, bool) {
	if len(q.items) == 0 {
		return MoveResult{}, false
	}
	return q.items[len(q.items)-1], true
}

// Len returns the number of queued results.
func (q *UpdateQueue) Len() int {
	return len(q.items)
}

// Clear drops every queued result.
func (q *UpdateQueue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
}
