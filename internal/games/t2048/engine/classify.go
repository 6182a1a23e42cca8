package engine

// Classify rewrites the raw transitions of a move into their final shape.
// The input slice is not modified.
//
// Three passes run in order:
//  1. a Slide whose destination is also some MergeSlide's destination
//     becomes a MergeSlide;
//  2. a MergeStatic is dropped when its cell is a MergeSlide destination and
//     no Static sits on the same cell;
//  3. a Static is dropped when a surviving MergeStatic sits on its cell.
func Classify(raw []Transition) []Transition {
	ts := make([]Transition, len(raw))
	copy(ts, raw)

	mergeInto := make(map[Position]bool)
	for _, t := range ts {
		if t.Kind == KindMergeSlide {
			mergeInto[t.NewPosition] = true
		}
	}
	for i := range ts {
		if ts[i].Kind == KindSlide && mergeInto[ts[i].NewPosition] {
			ts[i].Kind = KindMergeSlide
		}
	}

	staticAt := make(map[Position]bool)
	for _, t := range ts {
		if t.Kind == KindStatic {
			staticAt[t.Position] = true
		}
	}
	kept := ts[:0]
	for _, t := range ts {
		if t.Kind == KindMergeStatic && mergeInto[t.Position] && !staticAt[t.Position] {
			continue
		}
		kept = append(kept, t)
	}
	ts = kept

	mergeStaticAt := make(map[Position]bool)
	for _, t := range ts {
		if t.Kind == KindMergeStatic {
			mergeStaticAt[t.Position] = true
		}
	}
	kept = ts[:0]
	for _, t := range ts {
		if t.Kind == KindStatic && mergeStaticAt[t.Position] {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// CheckTransitions verifies that ts fully explains the change from before to
// after: every tile of before is consumed exactly once, every tile of after
// is produced exactly once, and the values agree. Merge groups (all merge
// transitions sharing a destination) must have exactly two members.
func CheckTransitions(before, after Grid, ts []Transition) error {
	const op = "check"
	if before.rows != after.rows || before.cols != after.cols {
		return violation(op, NoPosition, "grid shape changed from %dx%d to %dx%d",
			before.rows, before.cols, after.rows, after.cols)
	}

	consumed := make([]bool, before.Size())
	produced := make([]int, after.Size())
	groups := make(map[Position][]Transition)
	var groupOrder []Position

	for _, t := range ts {
		if t.Kind == KindNone || t.Kind > KindMergeSlide {
			return transitionViolation(op, t, "unexpected transition kind")
		}
		src := t.Source()
		if src == NoPosition {
			continue
		}
		if !before.Contains(src) || before.At(src) == 0 {
			return transitionViolation(op, t, "source cell is empty")
		}
		if consumed[src] {
			return transitionViolation(op, t, "source cell consumed twice")
		}
		consumed[src] = true
	}

	for _, t := range ts {
		dst := t.Target()
		if !after.Contains(dst) || after.At(dst) == 0 {
			return transitionViolation(op, t, "target cell is empty after the move")
		}
		switch t.Kind {
		case KindStatic:
			if before.At(t.Position) != after.At(t.Position) {
				return transitionViolation(op, t, "static tile changed value %d -> %d",
					before.At(t.Position), after.At(t.Position))
			}
			produced[dst]++
		case KindSlide:
			if before.At(t.OldPosition) != after.At(t.NewPosition) {
				return transitionViolation(op, t, "sliding tile changed value %d -> %d",
					before.At(t.OldPosition), after.At(t.NewPosition))
			}
			produced[dst]++
		case KindNew:
			// A spawn may reuse a cell only after its old tile has left.
			if before.At(dst) != 0 && !vacated(ts, dst) {
				return transitionViolation(op, t, "spawn onto an occupied cell")
			}
			produced[dst]++
		default:
			if _, ok := groups[dst]; !ok {
				groupOrder = append(groupOrder, dst)
				produced[dst]++
			}
			groups[dst] = append(groups[dst], t)
		}
	}

	for _, dst := range groupOrder {
		group := groups[dst]
		if len(group) != 2 {
			return violation(op, dst, "merge group has %d members, want 2", len(group))
		}
		a, b := before.At(group[0].Source()), before.At(group[1].Source())
		if a != b {
			return violation(op, dst, "merging unequal tiles %d and %d", a, b)
		}
		if after.At(dst) != 2*a {
			return violation(op, dst, "merge produced %d, want %d", after.At(dst), 2*a)
		}
	}

	for p := range consumed {
		if before.cells[p] != 0 && !consumed[p] {
			return violation(op, Position(p), "tile with no transition")
		}
	}
	for p, n := range produced {
		switch {
		case after.cells[p] != 0 && n == 0:
			return violation(op, Position(p), "resulting tile has no producing transition")
		case n > 1:
			return violation(op, Position(p), "cell produced by %d transitions", n)
		}
	}
	return nil
}

// vacated reports whether some Slide or MergeSlide moves a tile out of p.
func vacated(ts []Transition, p Position) bool {
	for _, t := range ts {
		if (t.Kind == KindSlide || t.Kind == KindMergeSlide) && t.OldPosition == p {
			return true
		}
	}
	return false
}
