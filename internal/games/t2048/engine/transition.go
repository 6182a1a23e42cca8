package engine

import "fmt"

// TransitionKind classifies what happened to one cell during a move.
type TransitionKind int

const (
	KindNone TransitionKind = iota
	KindNew
	KindStatic
	KindSlide
	KindMergeStatic
	KindMergeSlide
)

// String returns the kind name.
func (k TransitionKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNew:
		return "New"
	case KindStatic:
		return "Static"
	case KindSlide:
		return "Slide"
	case KindMergeStatic:
		return "MergeStatic"
	case KindMergeSlide:
		return "MergeSlide"
	default:
		return "Unknown"
	}
}

// IsMerge reports whether the kind takes part in a merge.
func (k TransitionKind) IsMerge() bool {
	return k == KindMergeStatic || k == KindMergeSlide
}

// Transition describes one cell's change in a move.
//
// Static and New use only Position. Slide and MergeSlide carry the moving
// tile's source in Position and OldPosition and its destination in
// NewPosition. MergeStatic names the absorbing cell in all three fields.
type Transition struct {
	Kind        TransitionKind
	Position    Position
	OldPosition Position
	NewPosition Position
}

// StaticAt returns a Static transition for p.
func StaticAt(p Position) Transition {
	return Transition{Kind: KindStatic, Position: p, OldPosition: NoPosition, NewPosition: NoPosition}
}

// SpawnAt returns a New transition for p.
func SpawnAt(p Position) Transition {
	return Transition{Kind: KindNew, Position: p, OldPosition: NoPosition, NewPosition: NoPosition}
}

// SlideTo returns a Slide transition from one cell to another.
func SlideTo(from, to Position) Transition {
	return Transition{Kind: KindSlide, Position: from, OldPosition: from, NewPosition: to}
}

// MergeSlideTo returns a MergeSlide transition from one cell into another.
func MergeSlideTo(from, to Position) Transition {
	return Transition{Kind: KindMergeSlide, Position: from, OldPosition: from, NewPosition: to}
}

// MergeStaticAt returns a MergeStatic transition for the absorbing cell p.
func MergeStaticAt(p Position) Transition {
	return Transition{Kind: KindMergeStatic, Position: p, OldPosition: p, NewPosition: p}
}

// Source returns the cell the transition's tile occupied before the move.
// New transitions have no source.
func (t Transition) Source() Position {
	switch t.Kind {
	case KindSlide, KindMergeSlide:
		return t.OldPosition
	case KindStatic, KindMergeStatic:
		return t.Position
	default:
		return NoPosition
	}
}

// Target returns the cell the transition's tile ends on.
func (t Transition) Target() Position {
	switch t.Kind {
	case KindSlide, KindMergeSlide, KindMergeStatic:
		return t.NewPosition
	default:
		return t.Position
	}
}

// String formats the transition for logs and test failures.
func (t Transition) String() string {
	switch t.Kind {
	case KindSlide, KindMergeSlide:
		return fmt.Sprintf("%s(%d->%d)", t.Kind, t.OldPosition, t.NewPosition)
	default:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Position)
	}
}
