// Package piece defines the Piece value type shared by the add buffer, the
// original buffer, and the piece tree.
package piece

import "sync/atomic"

// Kind identifies which byte store a Piece's bytes live in.
type Kind uint8

const (
	// Original pieces reference the OriginalBuffer.
	Original Kind = iota
	// Add pieces reference the AddBuffer.
	Add
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if k == Add {
		return "add"
	}
	return "original"
}

// Generation is a monotonic counter. A Piece's Generation records the
// counter's value at the moment the piece was first created; splitting an
// existing piece during a structural tree operation preserves the parent's
// generation rather than minting a new one, so marks can tell a brand-new
// piece (content replaced) from a structurally-split fragment of a piece
// they already know about (content unchanged).
type Generation uint64

// Counter mints monotonically increasing Generation values.
type Counter struct {
	n atomic.Uint64
}

// Next returns the next Generation value, starting at 1 (0 is reserved to
// mean "no piece", so a zero-value Piece is never mistaken for a real one).
func (c *Counter) Next() Generation {
	return Generation(c.n.Add(1))
}

// Piece is a reference into a byte store describing one contiguous slice of
// the logical buffer: (kind, source_offset, length, generation).
type Piece struct {
	Kind         Kind
	SourceOffset uint64
	Length       uint64
	Gen          Generation
}

// End returns the exclusive end offset of this piece within its source
// buffer.
func (p Piece) End() uint64 { return p.SourceOffset + p.Length }

// IsEmpty reports whether the piece covers zero bytes.
func (p Piece) IsEmpty() bool { return p.Length == 0 }

// Split divides p at offset (relative to the piece's own start) into a left
// and right piece, both carrying p's Kind and Generation: splitting a piece
// for a structural tree operation is not the creation of new content, so the
// generation must not advance (see Generation's doc comment and spec §4.5's
// mark-resilience contract).
func (p Piece) Split(offset uint64) (left, right Piece) {
	left = Piece{Kind: p.Kind, SourceOffset: p.SourceOffset, Length: offset, Gen: p.Gen}
	right = Piece{Kind: p.Kind, SourceOffset: p.SourceOffset + offset, Length: p.Length - offset, Gen: p.Gen}
	return left, right
}

// Contains reports whether sourceOffset falls within [p.SourceOffset, p.End()).
func (p Piece) Contains(sourceOffset uint64) bool {
	return sourceOffset >= p.SourceOffset && sourceOffset < p.End()
}
