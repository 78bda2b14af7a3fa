package iter

import "github.com/inkwell-editor/inkwell/internal/text/piecetree"

// Bytes yields single bytes, advancing within the current chunk and
// fetching the next chunk at the boundary.
type Bytes struct {
	tree  *piecetree.PieceTree
	pos   uint64
	chunk Chunk
	have  bool
}

// NewBytes creates a Bytes iterator positioned at pos.
func NewBytes(t *piecetree.PieceTree, pos uint64) *Bytes {
	return &Bytes{tree: t, pos: pos}
}

// Pos returns the absolute offset of the next byte Next() would yield.
func (b *Bytes) Pos() uint64 { return b.pos }

func (b *Bytes) ensureChunk() (bool, error) {
	if b.have && b.pos >= b.chunk.Start && b.pos < b.chunk.Start+uint64(len(b.chunk.Bytes)) {
		return true, nil
	}
	start, p, ok := b.tree.PieceAt(b.pos)
	if !ok {
		b.have = false
		return false, nil
	}
	bytes, err := b.tree.ChunkBytes(p)
	if err != nil {
		return false, err
	}
	b.chunk = Chunk{Start: start, Bytes: bytes}
	b.have = true
	return true, nil
}

// Get peeks the byte at the current position without advancing.
func (b *Bytes) Get() (byte, bool, error) {
	ok, err := b.ensureChunk()
	if err != nil || !ok {
		return 0, false, err
	}
	return b.chunk.Bytes[b.pos-b.chunk.Start], true, nil
}

// Next returns the byte at the current position and advances by one.
func (b *Bytes) Next() (byte, bool, error) {
	v, ok, err := b.Get()
	if err != nil || !ok {
		return 0, false, err
	}
	b.pos++
	return v, true, nil
}

// Prev moves back one byte and returns it.
func (b *Bytes) Prev() (byte, bool, error) {
	if b.pos == 0 {
		return 0, false, nil
	}
	b.pos--
	return b.Get()
}
