// Package change implements the Changes batch model and its apply/invert
// rules (spec §4.6): a sorted, disjoint set of byte-range edits applied to
// a PieceTree atomically, together with the cursor-repositioning rules that
// keep a cursor.Set consistent across the edit. Grounded on the teacher's
// cursor/transform.go (single-edit offset transform, generalized here to a
// disjoint batch) and engine/tracking's change classification.
package change

import (
	"errors"
	"fmt"
	"sort"
)

// Kind classifies a single Change by shape.
type Kind int

const (
	KindInsert Kind = iota
	KindRemove
	KindReplace
)

// BatchKind classifies an entire Changes batch.
type BatchKind int

const (
	BatchInsert BatchKind = iota
	BatchRemove
	BatchReplace
	BatchMixed
	BatchUndo
	BatchRedo
)

func (k BatchKind) String() string {
	switch k {
	case BatchInsert:
		return "insert"
	case BatchRemove:
		return "remove"
	case BatchReplace:
		return "replace"
	case BatchMixed:
		return "mixed"
	case BatchUndo:
		return "undo"
	case BatchRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// Change is one (start, end, replacement) edit: it removes [Start,End) and
// inserts Replacement in its place. Start==End is an Insert; an empty
// Replacement is a Remove; both non-empty is a Replace.
type Change struct {
	Start       uint64
	End         uint64
	Replacement []byte

	// CursorOffsetHint, if set, is the offset within Replacement where a
	// cursor landing inside this change should be placed instead of the
	// default "end of replacement" rule — used by callers like autopair
	// helpers that insert "()" and want the cursor left between them.
	CursorOffsetHint *uint64

	// FromUndo/FromRedo mark a change as produced by history navigation
	// rather than new editing, so Classify reports BatchUndo/BatchRedo
	// instead of inferring a shape from the edit itself.
	FromUndo bool
	FromRedo bool
}

// Kind reports this change's shape.
func (c Change) Kind() Kind {
	switch {
	case c.Start == c.End:
		return KindInsert
	case len(c.Replacement) == 0:
		return KindRemove
	default:
		return KindReplace
	}
}

// Delta returns the signed change in buffer length this edit produces.
func (c Change) Delta() int64 {
	return int64(len(c.Replacement)) - int64(c.End-c.Start)
}

var (
	// ErrUnsorted reports a Changes batch not sorted by Start.
	ErrUnsorted = errors.New("change: batch is not sorted by start")
	// ErrOverlapping reports two changes in a batch with intersecting ranges.
	ErrOverlapping = errors.New("change: batch contains overlapping ranges")
	// ErrOutOfBounds reports a change whose range exceeds the buffer length.
	ErrOutOfBounds = errors.New("change: range exceeds buffer length")
)

// Validate checks that changes is sorted ascending by Start, pairwise
// disjoint, and within [0,length].
func Validate(changes []Change, length uint64) error {
	for i, c := range changes {
		if c.Start > c.End {
			return fmt.Errorf("%w: change %d has start %d > end %d", ErrOutOfBounds, i, c.Start, c.End)
		}
		if c.End > length {
			return fmt.Errorf("%w: change %d end %d > length %d", ErrOutOfBounds, i, c.End, length)
		}
		if i > 0 {
			prev := changes[i-1]
			if c.Start < prev.Start {
				return fmt.Errorf("%w: change %d start %d precedes change %d start %d", ErrUnsorted, i, c.Start, i-1, prev.Start)
			}
			if c.Start < prev.End {
				return fmt.Errorf("%w: change %d [%d,%d) overlaps change %d [%d,%d)", ErrOverlapping, i, c.Start, c.End, i-1, prev.Start, prev.End)
			}
		}
	}
	return nil
}

// Classify reports the batch's overall kind.
func Classify(changes []Change) BatchKind {
	if len(changes) == 0 {
		return BatchMixed
	}
	for _, c := range changes {
		if c.FromUndo {
			return BatchUndo
		}
	}
	for _, c := range changes {
		if c.FromRedo {
			return BatchRedo
		}
	}

	kind := changes[0].Kind()
	for _, c := range changes[1:] {
		if c.Kind() != kind {
			return BatchMixed
		}
	}
	switch kind {
	case KindInsert:
		return BatchInsert
	case KindRemove:
		return BatchRemove
	default:
		return BatchReplace
	}
}

// sortedCopy returns changes sorted ascending by Start, leaving the input
// untouched.
func sortedCopy(changes []Change) []Change {
	out := make([]Change, len(changes))
	copy(out, changes)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
