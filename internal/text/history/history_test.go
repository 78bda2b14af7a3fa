package history

import (
	"testing"

	"github.com/inkwell-editor/inkwell/internal/text/change"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

func treeText(t *testing.T, pt *piecetree.PieceTree) string {
	t.Helper()
	b, err := pt.Slice(0, pt.Len())
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	return string(b)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	pt := piecetree.New()
	h := New(0, nil)

	pre := pt.Snapshot()
	if err := pt.Insert(0, []byte("hello")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	h.Record(pre, change.BatchInsert, []change.Change{{Start: 0, End: 0, Replacement: []byte("hello")}}, 1, 1)

	if got, want := treeText(t, pt), "hello"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}

	ok, err := h.Undo(pt)
	if err != nil || !ok {
		t.Fatalf("Undo: ok=%v err=%v", ok, err)
	}
	if got, want := treeText(t, pt), ""; got != want {
		t.Errorf("after undo, text = %q, want %q", got, want)
	}

	ok, err = h.Redo(pt)
	if err != nil || !ok {
		t.Fatalf("Redo: ok=%v err=%v", ok, err)
	}
	if got, want := treeText(t, pt), "hello"; got != want {
		t.Errorf("after redo, text = %q, want %q", got, want)
	}
}

func TestConsecutiveInsertsCollapseIntoOneGroup(t *testing.T) {
	pt := piecetree.New()
	h := New(0, nil)

	pre := pt.Snapshot()
	pt.Insert(0, []byte("a"))
	h.Record(pre, change.BatchInsert, []change.Change{{Start: 0, End: 0, Replacement: []byte("a")}}, 1, 1)

	pt.Insert(1, []byte("b"))
	h.Record(pt.Snapshot(), change.BatchInsert, []change.Change{{Start: 1, End: 1, Replacement: []byte("b")}}, 1, 1)

	if len(h.undo) != 1 {
		t.Fatalf("expected a single collapsed undo group, got %d", len(h.undo))
	}

	ok, err := h.Undo(pt)
	if err != nil || !ok {
		t.Fatalf("Undo: ok=%v err=%v", ok, err)
	}
	if got, want := treeText(t, pt), ""; got != want {
		t.Errorf("after undo, text = %q, want %q (both inserts should undo together)", got, want)
	}
}

func TestInsertOfNewlineForcesBreak(t *testing.T) {
	pt := piecetree.New()
	h := New(0, nil)

	pre := pt.Snapshot()
	pt.Insert(0, []byte("a"))
	h.Record(pre, change.BatchInsert, []change.Change{{Start: 0, End: 0, Replacement: []byte("a")}}, 1, 1)

	pt.Insert(1, []byte("\n"))
	h.Record(pt.Snapshot(), change.BatchInsert, []change.Change{{Start: 1, End: 1, Replacement: []byte("\n")}}, 1, 1)

	if len(h.undo) != 2 {
		t.Fatalf("expected inserting a newline to force a new group, got %d groups", len(h.undo))
	}
}

func TestBackspaceRunsCollapse(t *testing.T) {
	pt := piecetree.New()
	pt.Insert(0, []byte("hello"))
	h := New(0, nil)

	pre := pt.Snapshot()
	pt.Remove(4, 5) // delete 'o', backspace from position 5
	h.Record(pre, change.BatchRemove, []change.Change{{Start: 4, End: 5}}, 1, 1)

	pt.Remove(3, 4) // delete 'l', backspace from position 4
	h.Record(pt.Snapshot(), change.BatchRemove, []change.Change{{Start: 3, End: 4}}, 1, 1)

	if len(h.undo) != 1 {
		t.Fatalf("expected backspace run to collapse into one group, got %d", len(h.undo))
	}

	h.Undo(pt)
	if got, want := treeText(t, pt), "hello"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestMixedBatchForcesBreak(t *testing.T) {
	pt := piecetree.New()
	h := New(0, nil)

	pre := pt.Snapshot()
	pt.Insert(0, []byte("ab"))
	h.Record(pre, change.BatchInsert, []change.Change{{Start: 0, End: 0, Replacement: []byte("ab")}}, 1, 1)

	pre2 := pt.Snapshot()
	pt.Replace(0, 1, []byte("XY"))
	h.Record(pre2, change.BatchReplace, []change.Change{{Start: 0, End: 1, Replacement: []byte("XY")}}, 1, 1)

	if len(h.undo) != 2 {
		t.Fatalf("expected a Replace batch to force a new group, got %d", len(h.undo))
	}
}

func TestCursorCardinalityChangeForcesBreak(t *testing.T) {
	pt := piecetree.New()
	h := New(0, nil)

	pre := pt.Snapshot()
	pt.Insert(0, []byte("a"))
	h.Record(pre, change.BatchInsert, []change.Change{{Start: 0, End: 0, Replacement: []byte("a")}}, 1, 1)

	pt.Insert(1, []byte("b"))
	h.Record(pt.Snapshot(), change.BatchInsert, []change.Change{{Start: 1, End: 1, Replacement: []byte("b")}}, 1, 2)

	if len(h.undo) != 2 {
		t.Fatalf("expected a cursor-count change to force a new group, got %d", len(h.undo))
	}
}

func TestMaxEntriesDropsOldest(t *testing.T) {
	pt := piecetree.New()
	h := New(2, nil)

	for i := 0; i < 5; i++ {
		pre := pt.Snapshot()
		pt.Append([]byte("\n"))
		h.Record(pre, change.BatchInsert, []change.Change{{Start: pt.Len() - 1, End: pt.Len() - 1, Replacement: []byte("\n")}}, 1, 1)
	}

	if len(h.undo) != 2 {
		t.Fatalf("expected undo stack bounded to 2 entries, got %d", len(h.undo))
	}
}
