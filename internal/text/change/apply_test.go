package change

import (
	"testing"

	"github.com/inkwell-editor/inkwell/internal/text/cursor"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

func newTreeWithText(t *testing.T, text string) *piecetree.PieceTree {
	t.Helper()
	pt := piecetree.New()
	if err := pt.Insert(0, []byte(text)); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	return pt
}

func treeText(t *testing.T, pt *piecetree.PieceTree) string {
	t.Helper()
	b, err := pt.Slice(0, pt.Len())
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	return string(b)
}

func TestApplyInsertShiftsLaterCursor(t *testing.T) {
	pt := newTreeWithText(t, "hello world")
	cs := cursor.NewSetAt(11) // at the end

	kind, err := Apply(pt, []Change{{Start: 5, End: 5, Replacement: []byte(", there")}}, cs, true)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if kind != BatchInsert {
		t.Errorf("kind = %v, want insert", kind)
	}
	if got, want := treeText(t, pt), "hello, there world"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if got := cs.Primary().Position; got != 18 {
		t.Errorf("cursor position = %d, want 18", got)
	}
}

func TestApplyRemoveCollapsesCursorInsideRange(t *testing.T) {
	pt := newTreeWithText(t, "hello world")
	cs := cursor.NewSetAt(7) // inside "world", at 'o'

	_, err := Apply(pt, []Change{{Start: 6, End: 11}}, cs, true)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got, want := treeText(t, pt), "hello "; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if got := cs.Primary().Position; got != 6 {
		t.Errorf("cursor position = %d, want 6", got)
	}
}

func TestApplyReplaceSelectionSwapsToReplacementSpan(t *testing.T) {
	pt := newTreeWithText(t, "foo bar baz")
	cs := cursor.NewSetAt(0)
	cs.SetPrimary(cursor.NewSelection(4, 7)) // selects "bar"

	_, err := Apply(pt, []Change{{Start: 4, End: 7, Replacement: []byte("quux")}}, cs, true)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got, want := treeText(t, pt), "foo quux baz"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	start, end := cs.Primary().Range()
	if start != 4 || end != 8 {
		t.Errorf("selection after replace = [%d,%d), want [4,8)", start, end)
	}
}

func TestApplyCursorOffsetHintForAutopair(t *testing.T) {
	pt := newTreeWithText(t, "call()")
	cs := cursor.NewSetAt(5) // between the parens, i.e. right before ')'

	hint := uint64(1)
	_, err := Apply(pt, []Change{{Start: 5, End: 5, Replacement: []byte("()"), CursorOffsetHint: &hint}}, cs, true)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got, want := treeText(t, pt), "call(())"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if got := cs.Primary().Position; got != 6 {
		t.Errorf("cursor position = %d, want 6 (between the new parens)", got)
	}
}

func TestApplyMultipleDisjointChangesShiftCumulatively(t *testing.T) {
	pt := newTreeWithText(t, "aaaa bbbb cccc")
	cs := cursor.NewSetAt(14) // end of buffer

	changes := []Change{
		{Start: 0, End: 4, Replacement: []byte("AA")},   // -2
		{Start: 5, End: 9, Replacement: []byte("BBBBB")}, // +1
	}
	_, err := Apply(pt, changes, cs, true)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "AA BBBBB cccc"
	if got := treeText(t, pt); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if got := cs.Primary().Position; got != uint64(len(want)) {
		t.Errorf("cursor position = %d, want %d", got, len(want))
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		changes []Change
		want    BatchKind
	}{
		{"all insert", []Change{{Start: 1, End: 1, Replacement: []byte("x")}, {Start: 5, End: 5, Replacement: []byte("y")}}, BatchInsert},
		{"all remove", []Change{{Start: 1, End: 2}, {Start: 5, End: 6}}, BatchRemove},
		{"all replace", []Change{{Start: 1, End: 2, Replacement: []byte("xx")}}, BatchReplace},
		{"mixed", []Change{{Start: 1, End: 1, Replacement: []byte("x")}, {Start: 5, End: 6}}, BatchMixed},
		{"undo flagged", []Change{{Start: 1, End: 2, FromUndo: true}}, BatchUndo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.changes); got != tc.want {
				t.Errorf("Classify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidateRejectsOverlap(t *testing.T) {
	changes := []Change{{Start: 0, End: 5}, {Start: 3, End: 6}}
	if err := Validate(changes, 10); err == nil {
		t.Fatal("expected an error for overlapping changes")
	}
}

func TestValidateRejectsOutOfBounds(t *testing.T) {
	changes := []Change{{Start: 0, End: 20}}
	if err := Validate(changes, 10); err == nil {
		t.Fatal("expected an error for out-of-bounds change")
	}
}
