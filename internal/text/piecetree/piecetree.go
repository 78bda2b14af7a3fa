package piecetree

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/inkwell-editor/inkwell/internal/text/addbuffer"
	"github.com/inkwell-editor/inkwell/internal/text/origbuffer"
	"github.com/inkwell-editor/inkwell/internal/text/piece"
	"github.com/inkwell-editor/inkwell/internal/text/texterr"
)

// PieceTree is the ordered sequence of pieces backing one logical text
// buffer (spec §4.3). It owns exactly one AddBuffer and (optionally) one
// OriginalBuffer; any number of Snapshots may reference its historical
// roots.
type PieceTree struct {
	// id distinguishes this tree from any other, so Restore can reject a
	// Snapshot minted by a foreign tree (spec §4.3's ErrSnapshotForeign).
	// Grounded on the teacher's use of github.com/google/uuid for
	// session/client identity (internal/project/workspace).
	id uuid.UUID

	orig *origbuffer.OriginalBuffer
	add  *addbuffer.AddBuffer
	gen  piece.Counter

	root *node
}

// Snapshot is an immutable handle to a tree root (spec §3, "Snapshot").
type Snapshot struct {
	treeID uuid.UUID
	root   *node
	length uint64
}

// Len returns the byte length the snapshot represents.
func (s Snapshot) Len() uint64 { return s.length }

// New creates an empty PieceTree with no original content, so every byte
// ever inserted lands in the AddBuffer.
func New() *PieceTree {
	return &PieceTree{id: uuid.New(), add: addbuffer.New()}
}

// NewFromOriginal creates a PieceTree whose initial content is orig's full
// byte range, stored as a single Original piece (or none, if orig is
// empty).
func NewFromOriginal(orig *origbuffer.OriginalBuffer) *PieceTree {
	t := &PieceTree{id: uuid.New(), orig: orig, add: addbuffer.New()}
	if orig.Len() > 0 {
		p := piece.Piece{Kind: piece.Original, SourceOffset: 0, Length: orig.Len(), Gen: t.gen.Next()}
		t.root = singleton(p)
	}
	return t
}

// Len returns the total number of bytes in the tree.
func (t *PieceTree) Len() uint64 { return sizeOf(t.root) }

// Original returns the tree's OriginalBuffer, or nil if it has none.
func (t *PieceTree) Original() *origbuffer.OriginalBuffer { return t.orig }

// Add returns the tree's AddBuffer.
func (t *PieceTree) Add() *addbuffer.AddBuffer { return t.add }

// IsFileBacked reports whether the tree's OriginalBuffer is a File variant,
// making in-place write-back (spec §4.10) available.
func (t *PieceTree) IsFileBacked() bool { return t.orig != nil && t.orig.IsFileBacked() }

// Snapshot captures the current root. O(1): it just retains a reference.
func (t *PieceTree) Snapshot() Snapshot {
	return Snapshot{treeID: t.id, root: t.root, length: t.Len()}
}

// Restore makes snap the tree's current root. Rejects a snapshot minted by
// a different PieceTree.
func (t *PieceTree) Restore(snap Snapshot) error {
	if snap.treeID != t.id {
		return texterr.ErrSnapshotForeign
	}
	t.root = snap.root
	return nil
}

func (t *PieceTree) checkBounds(pos uint64) error {
	if pos > t.Len() {
		return fmt.Errorf("%w: position %d exceeds length %d", texterr.ErrOutOfBounds, pos, t.Len())
	}
	return nil
}

func (t *PieceTree) checkRange(lo, hi uint64) error {
	if lo > hi {
		return fmt.Errorf("%w: start %d exceeds end %d", texterr.ErrInvalidRange, lo, hi)
	}
	if hi > t.Len() {
		return fmt.Errorf("%w: end %d exceeds length %d", texterr.ErrOutOfBounds, hi, t.Len())
	}
	return nil
}

// insertPieces splits the tree at pos and joins in ps in order, handling
// the case where the AddBuffer's Append reported a fresh-bucket boundary
// mid-way through the write and therefore produced more than one piece.
func (t *PieceTree) insertPieces(pos uint64, ps []piece.Piece) {
	left, right := split(t.root, pos)
	for i := len(ps) - 1; i >= 0; i-- {
		right = join(nil, ps[i], right)
	}
	t.root = merge(left, right)
}

// Insert inserts bytes at pos. Per spec §4.2/§4.3's insertion policy, bytes
// are appended to the AddBuffer in one or more calls (splitting at bucket
// boundaries), each contiguous run becoming its own piece.
func (t *PieceTree) Insert(pos uint64, bytes []byte) error {
	if err := t.checkBounds(pos); err != nil {
		return err
	}
	if len(bytes) == 0 {
		return nil
	}

	var ps []piece.Piece
	remaining := bytes
	for len(remaining) > 0 {
		before := t.add.Len()
		outcome := t.add.Append(remaining)
		ps = append(ps, piece.Piece{
			Kind:         piece.Add,
			SourceOffset: before,
			Length:       uint64(outcome.N),
			Gen:          t.gen.Next(),
		})
		remaining = remaining[outcome.N:]
	}

	t.insertPieces(pos, ps)
	return nil
}

// Remove deletes [lo,hi).
func (t *PieceTree) Remove(lo, hi uint64) error {
	if err := t.checkRange(lo, hi); err != nil {
		return err
	}
	if lo == hi {
		return nil
	}
	left, mid := split(t.root, lo)
	_, right := split(mid, hi-lo)
	t.root = merge(left, right)
	return nil
}

// Replace atomically removes [lo,hi) and inserts bytes in its place, as a
// single tree mutation (spec §4.3's Replace contract).
func (t *PieceTree) Replace(lo, hi uint64, bytes []byte) error {
	if err := t.checkRange(lo, hi); err != nil {
		return err
	}

	left, mid := split(t.root, lo)
	_, right := split(mid, hi-lo)

	var ps []piece.Piece
	remaining := bytes
	for len(remaining) > 0 {
		before := t.add.Len()
		outcome := t.add.Append(remaining)
		ps = append(ps, piece.Piece{
			Kind:         piece.Add,
			SourceOffset: before,
			Length:       uint64(outcome.N),
			Gen:          t.gen.Next(),
		})
		remaining = remaining[outcome.N:]
	}

	for i := len(ps) - 1; i >= 0; i-- {
		right = join(nil, ps[i], right)
	}
	t.root = merge(left, right)
	return nil
}

// Append inserts bytes at the current end of the buffer.
func (t *PieceTree) Append(bytes []byte) error {
	return t.Insert(t.Len(), bytes)
}

// PieceAt returns the piece covering pos and that piece's own start
// offset within the buffer. Returns ok=false at pos==Len() (spec §4.3:
// "returns None at len").
func (t *PieceTree) PieceAt(pos uint64) (start uint64, p piece.Piece, ok bool) {
	n := t.root
	var base uint64
	for n != nil {
		if pos < base+n.leftSize {
			n = n.left
			continue
		}
		pieceStart := base + n.leftSize
		if pos < pieceStart+n.p.Length {
			return pieceStart, n.p, true
		}
		base = pieceStart + n.p.Length
		n = n.right
	}
	return 0, piece.Piece{}, false
}

// ChunkBytes returns a direct view of a piece's bytes, reading from
// whichever store the piece's Kind names. Exposed for package iter, which
// locates pieces with PieceAt and needs to project each piece onto its
// backing store.
func (t *PieceTree) ChunkBytes(p piece.Piece) ([]byte, error) {
	return t.bytesOf(p)
}

func (t *PieceTree) bytesOf(p piece.Piece) ([]byte, error) {
	switch p.Kind {
	case piece.Add:
		return t.add.Slice(p.SourceOffset, p.End()), nil
	default:
		return t.orig.Slice(p.SourceOffset, p.End())
	}
}

// Slice materializes the logical bytes in [lo,hi). Prefer the Chunks/Bytes
// iterators (package iter) for large ranges; Slice copies.
func (t *PieceTree) Slice(lo, hi uint64) ([]byte, error) {
	if err := t.checkRange(lo, hi); err != nil {
		return nil, err
	}
	out := make([]byte, 0, hi-lo)
	pos := lo
	for pos < hi {
		start, p, ok := t.PieceAt(pos)
		if !ok {
			break
		}
		within := pos - start
		end := p.Length
		if want := hi - start; want < end {
			end = want
		}
		chunk, err := t.bytesOf(p)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk[within:end]...)
		pos = start + end
	}
	return out, nil
}

// Root exposes the current root node to sibling packages (mark) that
// need to walk the tree directly. It is not part of the external API
// surface presented by internal/buffer.
func (t *PieceTree) Root() Walkable { return walkNode{t.root} }
