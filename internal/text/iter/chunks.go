// Package iter implements the bidirectional Chunks/Bytes/Codepoints/
// Graphemes/Lines iterators over a PieceTree (spec §4.4). Every iterator
// models itself as a stack-free cursor over absolute byte positions: it
// exposes Next/Prev/Get/Pos and guarantees Next() then Prev() returns the
// original element and leaves the cursor where it started. This mirrors
// the teacher's rope/iter.go and rope/cursor.go, generalized from walking
// chunks stored directly in rope leaves to walking pieces projected onto
// the piece tree's two byte stores.
package iter

import "github.com/inkwell-editor/inkwell/internal/text/piecetree"

// Chunk is one piece's bytes together with its absolute start offset.
type Chunk struct {
	Start uint64
	Bytes []byte
}

// Chunks walks the tree's pieces in order, one chunk per piece.
type Chunks struct {
	tree *piecetree.PieceTree
	pos  uint64
}

// NewChunks creates a Chunks iterator positioned at pos.
func NewChunks(t *piecetree.PieceTree, pos uint64) *Chunks {
	return &Chunks{tree: t, pos: pos}
}

// Pos returns the absolute byte offset of the next chunk Next() would yield.
func (c *Chunks) Pos() uint64 { return c.pos }

// Get peeks the chunk at the current position without advancing.
func (c *Chunks) Get() (Chunk, bool, error) {
	start, p, ok := c.tree.PieceAt(c.pos)
	if !ok {
		return Chunk{}, false, nil
	}
	bytes, err := c.tree.ChunkBytes(p)
	if err != nil {
		return Chunk{}, false, err
	}
	return Chunk{Start: start, Bytes: bytes}, true, nil
}

// Next returns the chunk at the current position and advances past it.
func (c *Chunks) Next() (Chunk, bool, error) {
	chunk, ok, err := c.Get()
	if err != nil || !ok {
		return chunk, ok, err
	}
	c.pos = chunk.Start + uint64(len(chunk.Bytes))
	return chunk, true, nil
}

// Prev moves to and returns the chunk immediately before the current
// position.
func (c *Chunks) Prev() (Chunk, bool, error) {
	if c.pos == 0 {
		return Chunk{}, false, nil
	}
	start, p, ok := c.tree.PieceAt(c.pos - 1)
	if !ok {
		return Chunk{}, false, nil
	}
	bytes, err := c.tree.ChunkBytes(p)
	if err != nil {
		return Chunk{}, false, err
	}
	c.pos = start
	return Chunk{Start: start, Bytes: bytes}, true, nil
}
