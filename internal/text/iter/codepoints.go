package iter

import (
	"unicode/utf8"

	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

// Codepoints yields Unicode scalar values, assembling a codepoint across
// chunk boundaries by reading a window of up to utf8.UTFMax bytes
// through the tree's Slice. An ill-formed sequence yields
// utf8.RuneError (U+FFFD) and advances by one byte, per spec §7
// (InvalidUtf8 is never an error, only a replacement codepoint).
type Codepoints struct {
	tree *piecetree.PieceTree
	pos  uint64
}

// NewCodepoints creates a Codepoints iterator positioned at pos.
func NewCodepoints(t *piecetree.PieceTree, pos uint64) *Codepoints {
	return &Codepoints{tree: t, pos: pos}
}

// Pos returns the absolute byte offset of the next codepoint.
func (c *Codepoints) Pos() uint64 { return c.pos }

func (c *Codepoints) window(at uint64, n int) ([]byte, error) {
	length := c.tree.Len()
	hi := at + uint64(n)
	if hi > length {
		hi = length
	}
	if hi <= at {
		return nil, nil
	}
	return c.tree.Slice(at, hi)
}

// Get peeks the codepoint at the current position without advancing.
func (c *Codepoints) Get() (rune, bool, error) {
	if c.pos >= c.tree.Len() {
		return 0, false, nil
	}
	buf, err := c.window(c.pos, utf8.UTFMax)
	if err != nil {
		return 0, false, err
	}
	r, _ := utf8.DecodeRune(buf)
	return r, true, nil
}

// Next returns the codepoint at the current position and advances past it.
func (c *Codepoints) Next() (rune, bool, error) {
	if c.pos >= c.tree.Len() {
		return 0, false, nil
	}
	buf, err := c.window(c.pos, utf8.UTFMax)
	if err != nil {
		return 0, false, err
	}
	r, size := utf8.DecodeRune(buf)
	if size == 0 {
		size = 1
	}
	c.pos += uint64(size)
	return r, true, nil
}

// Prev moves back one codepoint and returns it.
func (c *Codepoints) Prev() (rune, bool, error) {
	if c.pos == 0 {
		return 0, false, nil
	}
	lo := c.pos - uint64(utf8.UTFMax)
	if lo > c.pos { // underflow
		lo = 0
	}
	buf, err := c.window(lo, int(c.pos-lo))
	if err != nil {
		return 0, false, err
	}
	r, size := utf8.DecodeLastRune(buf)
	if size == 0 {
		size = 1
	}
	c.pos -= uint64(size)
	return r, true, nil
}
