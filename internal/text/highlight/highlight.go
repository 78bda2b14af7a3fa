// Package highlight adapts an external hostiface.SyntaxParser's span output
// across buffer edits: given the change batch that just applied, it shifts
// and invalidates spans so that a syntax highlighter does not need to
// re-parse the whole buffer after every keystroke (spec §2's "Syntax-
// highlight adapter" row, §6's SyntaxParser consumer).
//
// Grounded on the teacher's tracking/tracker.go, which keeps a bounded
// ring-buffer of revisions and shifts tracked ranges across edits to give
// an AI assistant a stable view of "what changed since last context build";
// here the same range-shifting core is repurposed from tracking revisions
// for an AI client to tracking syntax spans for a highlighter.
package highlight

import (
	"github.com/inkwell-editor/inkwell/internal/text/change"
	"github.com/inkwell-editor/inkwell/internal/text/hostiface"
)

// Span is a syntax-highlight region together with the invalidation state
// Apply computes for it.
type Span struct {
	hostiface.Span
	// Stale is set when the edit overlapped this span closely enough that
	// its Kind can no longer be trusted without a re-parse; the span's
	// Range has still been offset so it continues to cover roughly the
	// right bytes until a fresh parse replaces it.
	Stale bool
}

// Set holds the current span list for one buffer.
type Set struct {
	spans []Span
}

// NewSet creates an empty span set.
func NewSet() *Set { return &Set{} }

// Replace swaps in a fresh span list, as produced by a SyntaxParser.Parse
// call. None of the new spans are stale.
func (s *Set) Replace(spans []hostiface.Span) {
	out := make([]Span, len(spans))
	for i, sp := range spans {
		out[i] = Span{Span: sp}
	}
	s.spans = out
}

// Spans returns the current span list.
func (s *Set) Spans() []Span {
	out := make([]Span, len(s.spans))
	copy(out, s.spans)
	return out
}

// Apply offsets every span across a Changes batch the way change.Apply
// offsets cursors (spec §4.6's transform table, mirrored here by
// shiftOffset): a span entirely before every change is unchanged; a span
// entirely after shifts by the batch's cumulative length delta; a span any
// change overlaps is marked Stale (its boundaries are still adjusted so it
// roughly tracks the edited text, but its highlight Kind should not be
// trusted until SyntaxParser re-parses that region).
func (s *Set) Apply(changes []change.Change) {
	for i, sp := range s.spans {
		s.spans[i] = shiftSpan(sp, changes)
	}
}

func shiftSpan(sp Span, changes []change.Change) Span {
	overlapped := false
	for _, c := range changes {
		if c.Start < sp.Range.End && sp.Range.Start < c.End {
			overlapped = true
		}
	}
	newStart, startStale := shiftOffset(sp.Range.Start, changes)
	newEnd, endStale := shiftOffset(sp.Range.End, changes)
	sp.Range = hostiface.ByteRange{Start: newStart, End: newEnd}
	if startStale || endStale || overlapped {
		sp.Stale = true
	}
	if sp.Range.Start > sp.Range.End {
		sp.Range.Start = sp.Range.End
	}
	return sp
}

// shiftOffset maps a single offset across a sorted, disjoint Changes batch,
// mirroring change.transformOffset's three-way table but additionally
// reporting when the offset fell strictly inside an edited range (one of
// the "overlapped a change" cases that mark a span stale rather than just
// relocated).
func shiftOffset(x uint64, changes []change.Change) (newX uint64, overlapped bool) {
	var delta int64
	for _, c := range changes {
		tlen := uint64(len(c.Replacement))
		switch {
		case x <= c.Start:
			return addDelta(x, delta), false
		case c.End <= x:
			delta += int64(tlen) - int64(c.End-c.Start)
		default:
			// c.Start < x < c.End: this offset sits inside the edited
			// range and no longer names a stable byte.
			return addDelta(c.Start, delta) + tlen, true
		}
	}
	return addDelta(x, delta), false
}

func addDelta(x uint64, delta int64) uint64 {
	if delta < 0 && uint64(-delta) > x {
		return 0
	}
	return uint64(int64(x) + delta)
}

// Invalidate marks every span whose range intersects [lo,hi) stale, without
// moving anything; used when a host wants to force a re-highlight of a
// region for a reason other than an edit (e.g. a theme change narrowed to
// one grammar).
func (s *Set) Invalidate(lo, hi uint64) {
	for i, sp := range s.spans {
		if sp.Range.Start < hi && lo < sp.Range.End {
			s.spans[i].Stale = true
		}
	}
}

// DropStale removes every span currently marked stale, typically called
// once a SyntaxParser re-parse has produced replacements for them via
// Replace (for the parsed sub-range) leaving the rest of the set intact.
func (s *Set) DropStale() {
	out := s.spans[:0]
	for _, sp := range s.spans {
		if !sp.Stale {
			out = append(out, sp)
		}
	}
	s.spans = out
}
