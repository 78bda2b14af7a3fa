// Package history implements the snapshot DAG and undo/redo stacks
// described in spec §4.7, including the grouping rules that collapse an
// editing run into a single undo unit. Generalized from the teacher's
// history/stack.go and history/group.go, which model undo as a stack of
// discrete Command objects with BeginGroup/EndGroup bracketing; here there
// is no command interface to invoke, only piecetree.Snapshot values to
// restore, since the piece tree's persistence already makes snapshotting
// O(1).
package history

import (
	"bytes"
	"sync"

	"github.com/inkwell-editor/inkwell/internal/logging"
	"github.com/inkwell-editor/inkwell/internal/text/change"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

// DefaultMaxEntries bounds how many undo groups are retained before the
// oldest is dropped (spec §4.7: "Snapshots retain only a bounded number of
// entries").
const DefaultMaxEntries = 1000

// group is one undo/redo stack entry: the snapshot to restore to, plus
// enough of the batch that produced it to decide whether the *next* batch
// should collapse into this same group instead of starting a new one.
type group struct {
	target      piecetree.Snapshot
	kind        change.BatchKind
	lastChanges []change.Change
	cursorCount int
}

// History holds the undo stack (snapshots to go back to) and the redo
// stack (snapshots to go forward to) for one PieceTree.
type History struct {
	mu     sync.Mutex
	undo   []group
	redo   []group
	max    int
	logger *logging.Logger
}

// New creates a History bounded to max entries. A nil logger is replaced
// with a discarding one.
func New(max int, logger *logging.Logger) *History {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &History{max: max, logger: logger}
}

// Record should be called immediately after a non-navigation edit batch has
// been applied to the tree. preEdit is the snapshot taken right before this
// batch was applied; kind and changes describe the batch (sorted and
// disjoint, as change.Validate requires); cursorCountBefore/After let the caller report
// whether the cursor set's cardinality changed across the edit, which
// forces a new group the same way a Mixed batch does.
//
// Undo and Redo batches (kind == change.BatchUndo/BatchRedo) are a no-op:
// navigating history never creates a new snapshot (spec §4.7: "Any change
// adjacent to an Undo or Redo does not create a new snapshot").
func (h *History) Record(preEdit piecetree.Snapshot, kind change.BatchKind, changes []change.Change, cursorCountBefore, cursorCountAfter int) {
	if kind == change.BatchUndo || kind == change.BatchRedo {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.redo = nil

	if len(h.undo) > 0 {
		top := &h.undo[len(h.undo)-1]
		if collapses(top, kind, changes, cursorCountBefore, cursorCountAfter) {
			top.lastChanges = changes
			top.cursorCount = cursorCountAfter
			h.logger.Debug("history: collapsed %s batch into current group", kind)
			return
		}
	}

	h.undo = append(h.undo, group{
		target:      preEdit,
		kind:        kind,
		lastChanges: changes,
		cursorCount: cursorCountAfter,
	})
	if len(h.undo) > h.max {
		h.logger.Debug("history: dropping oldest undo group, bound %d exceeded", h.max)
		h.undo = h.undo[1:]
	}
}

// collapses decides whether a new batch extends the current top-of-undo
// group rather than starting a fresh one (spec §4.7's grouping rules).
func collapses(top *group, kind change.BatchKind, changes []change.Change, cursorCountBefore, cursorCountAfter int) bool {
	if cursorCountBefore != top.cursorCount || cursorCountBefore != cursorCountAfter {
		// A cursor was added or removed since the last batch in this
		// group: treat that cardinality change as authorial intent, the
		// same way a Mixed batch always forces a break.
		return false
	}
	if kind != top.kind {
		return false
	}
	switch kind {
	case change.BatchInsert:
		return collapseInserts(top.lastChanges, changes)
	case change.BatchRemove:
		return collapseRemoves(top.lastChanges, changes)
	default:
		// Replace and Mixed batches always force a break; spec only
		// defines a collapse rule for runs of pure inserts or removes.
		return false
	}
}

// collapseInserts implements "two consecutive Insert batches are collapsed
// when every cursor from the second batch begins exactly where the
// corresponding cursor from the first batch ended ... Inserting an
// end-of-line forces a break."
func collapseInserts(prev, cur []change.Change) bool {
	if len(prev) == 0 || len(prev) != len(cur) {
		return false
	}
	var growth uint64
	for i := range cur {
		if containsEOL(cur[i].Replacement) {
			return false
		}
		// Inserts earlier in the same batch also shift this cursor right.
		growth += uint64(len(prev[i].Replacement))
		wantStart := prev[i].Start + growth
		if cur[i].Start != wantStart {
			return false
		}
	}
	return true
}

// collapseRemoves implements "two consecutive Remove batches are collapsed
// when the second batch deletes bytes contiguous with, and in the same
// direction as, the first": forward-delete keeps removing at the same
// offset as text shifts left underneath it; backward-delete (backspace)
// keeps removing the bytes immediately before the previous cut.
func collapseRemoves(prev, cur []change.Change) bool {
	if len(prev) == 0 || len(prev) != len(cur) {
		return false
	}
	forward, backward := true, true
	var removed uint64
	for i := range cur {
		// Removals earlier in the same batch also shift this cut left.
		shifted := prev[i].Start - removed
		if cur[i].Start != shifted {
			forward = false
		}
		if cur[i].End != shifted {
			backward = false
		}
		removed += prev[i].End - prev[i].Start
	}
	return forward || backward
}

func containsEOL(b []byte) bool {
	return bytes.IndexByte(b, '\n') >= 0 || bytes.IndexByte(b, '\r') >= 0
}

// CanUndo reports whether Undo has a group to restore.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether Redo has a group to restore.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// Undo pops the current top undo group, pushes the tree's present state
// onto the redo stack, and restores the tree to the popped group's target
// snapshot (spec §4.7). Reports false if there is nothing to undo.
func (h *History) Undo(tree *piecetree.PieceTree) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return false, nil
	}
	g := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	h.redo = append(h.redo, group{target: tree.Snapshot(), kind: g.kind})

	if err := tree.Restore(g.target); err != nil {
		return false, err
	}
	return true, nil
}

// Redo is the symmetric operation to Undo: it pops the top redo group,
// pushes the tree's present state back onto the undo stack, and restores
// the tree to the popped group's target snapshot.
func (h *History) Redo(tree *piecetree.PieceTree) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return false, nil
	}
	g := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	h.undo = append(h.undo, group{target: tree.Snapshot(), kind: g.kind})

	if err := tree.Restore(g.target); err != nil {
		return false, err
	}
	return true, nil
}
