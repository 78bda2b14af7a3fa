package change

import (
	"github.com/inkwell-editor/inkwell/internal/text/cursor"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

// Apply is the sole mutation entry point for callers that want coordinated
// cursor updates (spec §4.6): it validates the batch, applies it to the
// tree right to left so that earlier ranges stay valid during application,
// repositions every surviving cursor, and optionally merges overlapping
// cursors afterward.
func Apply(pt *piecetree.PieceTree, changes []Change, cursors *cursor.Set, mergeAfter bool) (BatchKind, error) {
	if err := Validate(changes, pt.Len()); err != nil {
		return BatchMixed, err
	}
	sorted := sortedCopy(changes)
	kind := Classify(sorted)

	before := cursors.Iter()
	primaryIdx := cursors.PrimaryIndex()

	for i := len(sorted) - 1; i >= 0; i-- {
		c := sorted[i]
		var err error
		switch c.Kind() {
		case KindInsert:
			err = pt.Insert(c.Start, c.Replacement)
		case KindRemove:
			err = pt.Remove(c.Start, c.End)
		default:
			err = pt.Replace(c.Start, c.End, c.Replacement)
		}
		if err != nil {
			return kind, err
		}
	}

	after := make([]cursor.Cursor, len(before))
	for i, c := range before {
		after[i] = repositionCursor(c, sorted)
	}
	cursors.Replace(after, primaryIdx, mergeAfter)

	return kind, nil
}

// repositionCursor applies the cursor-repositioning rule table (spec §4.6)
// independently to a cursor's position and, if present, its selection
// anchor.
func repositionCursor(c cursor.Cursor, sorted []Change) cursor.Cursor {
	newPos, posViaInsert := transformOffset(c.Position, sorted)
	out := cursor.Cursor{Position: newPos, WantedColumn: c.WantedColumn}

	if c.HasAnchor {
		newAnchor, anchorViaInsert := transformOffset(c.Anchor, sorted)
		out.HasAnchor = true
		out.Anchor = newAnchor

		// A selection that collapses to a point as a direct result of an
		// Insert (rather than a Remove/Replace eating the whole
		// selection) reverts to a bare cursor: the insert only ever
		// relocates a single boundary, so a collapse here means both
		// endpoints landed on the insertion point, not that content was
		// deleted.
		if out.Anchor == out.Position && (posViaInsert || anchorViaInsert) {
			out.HasAnchor = false
			out.Anchor = 0
		}
	}
	return out
}

// transformOffset maps a single offset through every change in a sorted,
// disjoint batch. It generalizes the teacher's per-edit TransformOffset to
// a multi-change batch: changes strictly left of x accumulate a length
// delta; a change containing x (or, for a zero-width Insert, sitting
// exactly at x) is terminal and returns early. viaInsert reports whether
// the terminal case was an Insert's own insertion point, which callers use
// to decide whether a collapsed selection should drop its anchor.
func transformOffset(x uint64, sorted []Change) (newX uint64, viaInsert bool) {
	var delta int64
	for _, c := range sorted {
		tlen := uint64(len(c.Replacement))

		if c.Start == c.End && x == c.Start {
			base := addDelta(c.Start, delta)
			if c.CursorOffsetHint != nil {
				return base + *c.CursorOffsetHint, true
			}
			return base + tlen, true
		}
		if x <= c.Start {
			return addDelta(x, delta), false
		}
		if c.End <= x {
			delta += int64(tlen) - int64(c.End-c.Start)
			continue
		}
		// c.Start < x < c.End
		base := addDelta(c.Start, delta)
		if c.CursorOffsetHint != nil {
			return base + *c.CursorOffsetHint, false
		}
		return base + tlen, false
	}
	return addDelta(x, delta), false
}

func addDelta(x uint64, delta int64) uint64 {
	if delta < 0 && uint64(-delta) > x {
		return 0
	}
	return uint64(int64(x) + delta)
}
