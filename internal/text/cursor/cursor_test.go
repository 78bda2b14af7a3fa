package cursor

import "testing"

func TestCursorRange(t *testing.T) {
	cases := []struct {
		name      string
		c         Cursor
		wantStart uint64
		wantEnd   uint64
	}{
		{"bare cursor", New(5), 5, 5},
		{"forward selection", NewSelection(3, 9), 3, 9},
		{"backward selection", NewSelection(9, 3), 3, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := tc.c.Range()
			if start != tc.wantStart || end != tc.wantEnd {
				t.Errorf("Range() = (%d,%d), want (%d,%d)", start, end, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestSwapSelectionDirection(t *testing.T) {
	c := NewSelection(3, 9)
	swapped := c.SwapSelectionDirection()
	if swapped.Anchor != 9 || swapped.Position != 3 {
		t.Errorf("SwapSelectionDirection() = %+v", swapped)
	}
	start, end := swapped.Range()
	if start != 3 || end != 9 {
		t.Errorf("range should be unchanged after swap, got (%d,%d)", start, end)
	}
}

func TestSetMergeOverlapping(t *testing.T) {
	s := NewSetAt(0)
	s.SetPrimary(New(10))
	s.Push(NewSelection(8, 15)) // overlaps [10,10) bare and extends it
	s.Push(New(20))             // disjoint

	all := s.Iter()
	if len(all) != 2 {
		t.Fatalf("expected 2 cursors after merge, got %d: %+v", len(all), all)
	}
	start, end := all[0].Range()
	if start != 8 || end != 15 {
		t.Errorf("merged range = (%d,%d), want (8,15)", start, end)
	}
}

func TestSetRemovePrimaryShiftNext(t *testing.T) {
	s := NewSetAt(0)
	s.cursors = []Cursor{New(0), New(100), New(200)}
	s.primary = 1

	s.RemovePrimaryShiftNext()

	all := s.Iter()
	if len(all) != 2 {
		t.Fatalf("expected 2 cursors, got %d", len(all))
	}
	if s.Primary().Position != 200 {
		t.Errorf("expected primary to shift to the next cursor (200), got %d", s.Primary().Position)
	}
}

func TestSetRemoveNonPrimary(t *testing.T) {
	s := NewSetAt(0)
	s.cursors = []Cursor{New(0), New(50), New(100)}
	s.primary = 1

	s.RemoveNonPrimary()

	if s.Count() != 1 {
		t.Fatalf("expected 1 cursor, got %d", s.Count())
	}
	if s.Primary().Position != 50 {
		t.Errorf("expected surviving cursor at 50, got %d", s.Primary().Position)
	}
}

func TestStartSelectionAnchorsEveryCursor(t *testing.T) {
	s := NewSetAt(0)
	s.cursors = []Cursor{New(5), New(42)}
	s.primary = 0

	s.StartSelection()

	for _, c := range s.Iter() {
		if !c.HasAnchor || c.Anchor != c.Position {
			t.Errorf("expected anchor==position after StartSelection, got %+v", c)
		}
	}
}
