package cursor

import "sort"

// Set is a non-empty, sorted, non-overlapping list of cursors with one
// index designated primary (spec §4.8).
type Set struct {
	cursors []Cursor
	primary int
}

// NewSet creates a set with a single bare cursor at position 0, matching
// the teacher's CursorSet zero-state convention.
func NewSet() *Set {
	return &Set{cursors: []Cursor{New(0)}}
}

// NewSetAt creates a set with a single bare cursor at position.
func NewSetAt(position uint64) *Set {
	return &Set{cursors: []Cursor{New(position)}}
}

// Primary returns the primary cursor.
func (s *Set) Primary() Cursor { return s.cursors[s.primary] }

// SetPrimary replaces the primary cursor's value.
func (s *Set) SetPrimary(c Cursor) {
	s.cursors[s.primary] = c
	s.normalize()
}

// Iter returns a snapshot slice of all cursors, in order.
func (s *Set) Iter() []Cursor {
	out := make([]Cursor, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// Count returns the number of cursors.
func (s *Set) Count() int { return len(s.cursors) }

// PrimaryIndex returns the index of the primary cursor within Iter's order.
func (s *Set) PrimaryIndex() int { return s.primary }

// Push adds a new cursor, merging it into any overlapping existing cursor.
// The newly pushed cursor becomes primary.
func (s *Set) Push(c Cursor) {
	s.cursors = append(s.cursors, c)
	s.primary = len(s.cursors) - 1
	s.normalize()
}

// RemoveNonPrimary drops every cursor except the primary one.
func (s *Set) RemoveNonPrimary() {
	s.cursors = []Cursor{s.cursors[s.primary]}
	s.primary = 0
}

// RemovePrimaryShiftNext removes the primary cursor and makes the next one
// (in sorted order, wrapping to the first) primary. If only one cursor
// remains, it is left in place (a set is never empty).
func (s *Set) RemovePrimaryShiftNext() {
	if len(s.cursors) <= 1 {
		return
	}
	next := s.primary + 1
	if next >= len(s.cursors) {
		next = 0
	}
	s.cursors = append(s.cursors[:s.primary], s.cursors[s.primary+1:]...)
	if next > s.primary {
		next--
	}
	s.primary = next
}

// MergeOverlapping sorts cursors by start position and fuses any two whose
// ranges overlap (a bare cursor at p counts as [p,p+1) for this purpose)
// into the smallest enclosing selection. The primary designation follows
// whichever input cursor was primary.
func (s *Set) MergeOverlapping() { s.normalize() }

// StartSelection anchors every cursor at its current position.
func (s *Set) StartSelection() {
	for i, c := range s.cursors {
		s.cursors[i] = c.StartSelection()
	}
}

// SwapSelectionDirection exchanges anchor and position on every cursor.
func (s *Set) SwapSelectionDirection() {
	for i, c := range s.cursors {
		s.cursors[i] = c.SwapSelectionDirection()
	}
}

// SetWantedColumn stamps col as the wanted column on every cursor; it only
// influences the host's next vertical-motion computation.
func (s *Set) SetWantedColumn(col int) {
	for i, c := range s.cursors {
		s.cursors[i] = c.WithWantedColumn(col)
	}
}

// Clamp confines every cursor to [0,maxOffset], then re-normalizes since
// clamping can create new overlaps.
func (s *Set) Clamp(maxOffset uint64) {
	for i, c := range s.cursors {
		s.cursors[i] = c.Clamp(maxOffset)
	}
	s.normalize()
}

// Replace swaps in an entirely new list of cursors (e.g. after Changes.Apply
// repositions everything), preserving which one is primary via idx into the
// new slice. merge controls whether overlapping cursors are fused
// afterward, matching Changes.Apply's merge_after parameter (spec §4.6).
func (s *Set) Replace(cursors []Cursor, primaryIdx int, merge bool) {
	if len(cursors) == 0 {
		s.cursors = []Cursor{New(0)}
		s.primary = 0
		return
	}
	s.cursors = make([]Cursor, len(cursors))
	copy(s.cursors, cursors)
	if primaryIdx < 0 || primaryIdx >= len(s.cursors) {
		primaryIdx = 0
	}
	s.primary = primaryIdx
	if merge {
		s.normalize()
	}
}

type taggedCursor struct {
	c          Cursor
	wasPrimary bool
}

func (s *Set) normalize() {
	if len(s.cursors) <= 1 {
		return
	}

	items := make([]taggedCursor, len(s.cursors))
	for i, c := range s.cursors {
		items[i] = taggedCursor{c: c, wasPrimary: i == s.primary}
	}
	sort.SliceStable(items, func(i, j int) bool {
		si, ei := items[i].c.mergeRange()
		sj, ej := items[j].c.mergeRange()
		if si != sj {
			return si < sj
		}
		return ei > ej
	})

	merged := items[:1]
	for _, it := range items[1:] {
		last := &merged[len(merged)-1]
		if last.c.overlaps(it.c) {
			last.c = last.c.merge(it.c)
			last.wasPrimary = last.wasPrimary || it.wasPrimary
		} else {
			merged = append(merged, it)
		}
	}

	s.cursors = make([]Cursor, len(merged))
	primary := 0
	for i, m := range merged {
		s.cursors[i] = m.c
		if m.wasPrimary {
			primary = i
		}
	}
	s.primary = primary
}
