package engine

import "fmt"

// Barrier collects one completion acknowledgement per identity. It starts
// ready; Open arms it for a new frame.
type Barrier struct {
	finished []bool
	pending  int
	open     bool
}

// NewBarrier returns a ready barrier over n identities.
func NewBarrier(n int) *Barrier {
	return &Barrier{finished: make([]bool, n)}
}

// Open clears every flag and waits for all identities again.
func (b *Barrier) Open() {
	clear(b.finished)
	b.pending = len(b.finished)
	b.open = b.pending > 0
}

// Acknowledge records that id finished animating. It reports true when this
// acknowledgement made the barrier ready. Repeated acknowledgements and
// acknowledgements while ready are ignored.
func (b *Barrier) Acknowledge(id int) (bool, error) {
	if id < 0 || id >= len(b.finished) {
		return false, fmt.Errorf("%w: id %d outside [0,%d)", ErrUnknownIdentity, id, len(b.finished))
	}
	if !b.open || b.finished[id] {
		return false, nil
	}
	b.finished[id] = true
	b.pending--
	if b.pending > 0 {
		return false, nil
	}
	for i, done := range b.finished {
		if !done {
			return false, violation("barrier", NoPosition, "pending count reached zero with identity %d unfinished", i)
		}
	}
	b.open = false
	return true, nil
}

// Ready reports whether every identity has acknowledged the current frame.
func (b *Barrier) Ready() bool {
	return !b.open
}

// Pending returns how many acknowledgements are still expected.
func (b *Barrier) Pending() int {
	if !b.open {
		return 0
	}
	return b.pending
}

// Finished reports whether id has acknowledged the current frame.
func (b *Barrier) Finished(id int) bool {
	return id >= 0 && id < len(b.finished) && b.finished[id]
}

// Reset makes the barrier ready without waiting.
func (b *Barrier) Reset() {
	clear(b.finished)
	b.pending = 0
	b.open = false
}
