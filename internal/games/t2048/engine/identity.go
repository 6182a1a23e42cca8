package engine

import (
	"fmt"
	"slices"
)

// Role is what an identity is asked to animate for the current move.
type Role int

const (
	RoleNone        Role = iota // dormant, parked off the board
	RoleStatic                  // stays in place
	RoleSlide                   // moves From -> To
	RoleMergeSlide              // moves From -> To, then disappears
	RoleMergeStatic             // disappears in place as it is absorbed
	RoleSpawn                   // appears at To
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleStatic:
		return "static"
	case RoleSlide:
		return "slide"
	case RoleMergeSlide:
		return "merge-slide"
	case RoleMergeStatic:
		return "merge-static"
	case RoleSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// RoleMeta carries the interpolation endpoints for a role.
type RoleMeta struct {
	From   Position
	To     Position
	Merged bool // RoleSpawn produced by a merge rather than a random tile
}

// Identity is one slot of the pool as published to the animation layer.
type Identity struct {
	ID       int
	Active   bool
	Value    int
	Palette  int
	Position Position
	Role     Role
	Meta     RoleMeta
}

// Retiring reports whether the identity was consumed by a merge this move.
// It is no longer active but still has an animation to play.
func (id Identity) Retiring() bool {
	return !id.Active && (id.Role == RoleMergeSlide || id.Role == RoleMergeStatic)
}

// Visible reports whether the identity should be drawn.
func (id Identity) Visible() bool {
	return id.Active || id.Retiring()
}

// MinCapacity is the smallest pool that can serve a board of the given size:
// every cell occupied, half of them merging, and one spawn.
func MinCapacity(cells int) int {
	return cells + cells/2 + 1
}

// Pool is a fixed arena of tile identities. Ids are never created or
// destroyed; Apply reassigns them from one move to the next.
type Pool struct {
	slots       []Identity
	cells       int
	paletteSize int
}

// NewPool returns a pool of capacity dormant identities for a board of cells.
func NewPool(capacity, cells, paletteSize int) (*Pool, error) {
	if cells <= 0 {
		return nil, fmt.Errorf("engine: pool needs a positive cell count, got %d", cells)
	}
	if need := MinCapacity(cells); capacity < need {
		return nil, fmt.Errorf("engine: pool capacity %d too small for %d cells (need %d)", capacity, cells, need)
	}
	if paletteSize <= 0 {
		return nil, fmt.Errorf("engine: palette size must be positive, got %d", paletteSize)
	}
	p := &Pool{slots: make([]Identity, capacity), cells: cells, paletteSize: paletteSize}
	p.Reset()
	return p, nil
}

// Reset parks every identity.
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = p.dormant(i)
	}
}

func (p *Pool) dormant(id int) Identity {
	park := Position(p.cells + id)
	return Identity{ID: id, Position: park, Meta: RoleMeta{From: park, To: park}}
}

// Capacity returns the number of identities.
func (p *Pool) Capacity() int {
	return len(p.slots)
}

// Identities returns a copy of the current slots, ordered by id.
func (p *Pool) Identities() []Identity {
	return slices.Clone(p.slots)
}

// ActiveCount returns the number of active identities.
func (p *Pool) ActiveCount() int {
	n := 0
	for _, id := range p.slots {
		if id.Active {
			n++
		}
	}
	return n
}

// Apply maps a classified transition list onto the pool. grid is the board
// after the move, including any spawn. On error the pool is left unchanged.
//
// Identities that were inactive before the call form the free list, smallest
// id first. Merge participants are marked inactive but keep their role so
// the animation layer can finish them; they become free on the next call.
func (p *Pool) Apply(grid Grid, ts []Transition) ([]Identity, error) {
	if grid.Size() != p.cells {
		return nil, violation(opApply, NoPosition, "grid has %d cells, pool serves %d", grid.Size(), p.cells)
	}
	a := newAssignment(p)

	for _, t := range ts {
		if t.Kind != KindStatic {
			continue
		}
		id, err := a.claim(t, t.Position)
		if err != nil {
			return nil, err
		}
		a.next[id].Role = RoleStatic
		a.next[id].Meta = RoleMeta{From: t.Position, To: t.Position}
	}

	for _, kind := range []TransitionKind{KindSlide, KindMergeSlide} {
		for _, t := range ts {
			if t.Kind != kind {
				continue
			}
			id, err := a.claim(t, t.OldPosition)
			if err != nil {
				return nil, err
			}
			n := &a.next[id]
			n.Position = t.NewPosition
			n.Meta = RoleMeta{From: t.OldPosition, To: t.NewPosition}
			n.Role = RoleSlide
			if kind == KindMergeSlide {
				n.Active = false
				n.Role = RoleMergeSlide
			}
		}
	}

	var groupOrder []Position
	groups := make(map[Position][]Transition)
	for _, t := range ts {
		if !t.Kind.IsMerge() {
			continue
		}
		if _, ok := groups[t.NewPosition]; !ok {
			groupOrder = append(groupOrder, t.NewPosition)
		}
		groups[t.NewPosition] = append(groups[t.NewPosition], t)
		if t.Kind != KindMergeStatic {
			continue
		}
		id, err := a.claim(t, t.Position)
		if err != nil {
			return nil, err
		}
		a.next[id].Active = false
		a.next[id].Role = RoleMergeStatic
		a.next[id].Meta = RoleMeta{From: t.Position, To: t.Position}
	}

	for _, dst := range groupOrder {
		group := groups[dst]
		if len(group) != 2 {
			return nil, violation(opApply, dst, "merge group has %d members, want 2", len(group))
		}
		src := p.slots[a.at[group[0].Source()]]
		value := src.Value * 2
		if got := grid.At(dst); got != value {
			return nil, violation(opApply, dst, "merged value %d does not match grid value %d", value, got)
		}
		if err := a.spawn(dst, value, true); err != nil {
			return nil, err
		}
	}

	var spawns []Position
	for _, t := range ts {
		if t.Kind == KindNew {
			spawns = append(spawns, t.Position)
		}
	}
	slices.Sort(spawns)
	for _, pos := range spawns {
		if err := a.spawn(pos, grid.At(pos), false); err != nil {
			return nil, err
		}
	}

	for id, prev := range p.slots {
		if a.touched[id] {
			continue
		}
		if prev.Active {
			return nil, violation(opApply, prev.Position, "active identity %d has no transition", id)
		}
		a.next[id] = p.dormant(id)
	}

	if err := p.checkClosure(grid, a.next); err != nil {
		return nil, err
	}
	p.slots = a.next
	return slices.Clone(p.slots), nil
}

const opApply = "apply"

// assignment is the working state of one Pool.Apply call.
type assignment struct {
	pool    *Pool
	next    []Identity
	at      map[Position]int // active identities by cell before the move
	free    []int
	touched []bool
}

func newAssignment(p *Pool) *assignment {
	a := &assignment{
		pool:    p,
		next:    slices.Clone(p.slots),
		at:      make(map[Position]int),
		touched: make([]bool, len(p.slots)),
	}
	for _, id := range p.slots {
		if id.Active {
			a.at[id.Position] = id.ID
		} else {
			a.free = append(a.free, id.ID)
		}
	}
	return a
}

func (a *assignment) claim(t Transition, pos Position) (int, error) {
	id, ok := a.at[pos]
	if !ok {
		return 0, transitionViolation(opApply, t, "no active identity at cell %d", pos)
	}
	if a.touched[id] {
		return 0, transitionViolation(opApply, t, "identity %d claimed twice", id)
	}
	a.touched[id] = true
	return id, nil
}

func (a *assignment) spawn(pos Position, value int, merged bool) error {
	if len(a.free) == 0 {
		return &InvariantError{
			Op:       opApply,
			Position: pos,
			Detail:   fmt.Sprintf("no free identity among %d", len(a.next)),
			Err:      ErrPoolExhausted,
		}
	}
	if !isTileValue(value) {
		return violation(opApply, pos, "spawned tile has invalid value %d", value)
	}
	id := a.free[0]
	a.free = a.free[1:]
	a.touched[id] = true
	a.next[id] = Identity{
		ID:       id,
		Active:   true,
		Value:    value,
		Palette:  PaletteIndex(value, a.pool.paletteSize),
		Position: pos,
		Role:     RoleSpawn,
		Meta:     RoleMeta{From: pos, To: pos, Merged: merged},
	}
	return nil
}

// checkClosure verifies that the active identities describe grid exactly.
func (p *Pool) checkClosure(grid Grid, next []Identity) error {
	seen := make(map[Position]int)
	for _, id := range next {
		if !id.Active {
			continue
		}
		if other, dup := seen[id.Position]; dup {
			return violation(opApply, id.Position, "identities %d and %d share a cell", other, id.ID)
		}
		seen[id.Position] = id.ID
		if got := grid.At(id.Position); got != id.Value {
			return violation(opApply, id.Position, "identity %d holds %d, grid holds %d", id.ID, id.Value, got)
		}
	}
	if len(seen) != grid.Occupied() {
		return violation(opApply, NoPosition, "%d active identities for %d tiles", len(seen), grid.Occupied())
	}
	return nil
}
