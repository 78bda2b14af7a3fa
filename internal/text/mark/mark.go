// Package mark implements edit-stable position handles (spec §4.5). A Mark
// survives arbitrary tree edits by recording not a byte offset but a
// (piece kind, source offset, generation) triple: as long as some surviving
// piece still covers that source offset at the generation the mark was
// captured against, the mark resolves to wherever that piece now lives in
// the tree. This mirrors the teacher's tracking package, generalized from
// tracking rope-leaf identity to tracking piece-tree source references.
package mark

import (
	"github.com/inkwell-editor/inkwell/internal/text/piece"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

// Mark identifies a byte by where it lives in a source buffer rather than
// by its current position in the logical buffer.
type Mark struct {
	Kind         piece.Kind
	SourceOffset uint64
	Gen          piece.Generation
	After        bool
	Fallback     uint64
}

// Capture walks to the piece containing pos and records a Mark for it.
// After is set iff pos equals the tree's length (the mark addresses "the
// position just after the last byte", which has no containing piece).
func Capture(t *piecetree.PieceTree, pos uint64) Mark {
	if pos >= t.Len() {
		return Mark{After: true, Fallback: pos}
	}
	start, p, ok := t.PieceAt(pos)
	if !ok {
		return Mark{After: true, Fallback: pos}
	}
	return Mark{
		Kind:         p.Kind,
		SourceOffset: p.SourceOffset + (pos - start),
		Gen:          p.Gen,
		Fallback:     pos,
	}
}

// Resolve walks the current tree looking for a surviving piece of the same
// kind and generation whose source range still contains the mark's source
// offset, and returns the current logical position of that byte. If no such
// piece exists (the marked range was deleted, or the mark addresses "after
// the end"), it falls back to the captured offset clamped to the tree's
// current length.
func Resolve(t *piecetree.PieceTree, m Mark) uint64 {
	if !m.After {
		if pos, ok := find(t.Root(), 0, m); ok {
			return pos
		}
	}
	fallback := m.Fallback
	if length := t.Len(); fallback > length {
		fallback = length
	}
	return fallback
}

// find performs an in-order search of the tree (via the read-only Walkable
// view) for the piece containing the mark's source reference, tracking each
// node's absolute start offset as it descends using the cached left-subtree
// sizes rather than re-summing subtrees.
func find(n piecetree.Walkable, start uint64, m Mark) (uint64, bool) {
	if n.IsNil() {
		return 0, false
	}
	if pos, ok := find(n.Left(), start, m); ok {
		return pos, true
	}
	nodeStart := start + n.LeftSize()
	p := n.Piece()
	if p.Kind == m.Kind && p.Gen == m.Gen && p.Contains(m.SourceOffset) {
		pos := nodeStart + (m.SourceOffset - p.SourceOffset)
		if m.After {
			pos++
		}
		return pos, true
	}
	rightStart := nodeStart + p.Length
	return find(n.Right(), rightStart, m)
}
