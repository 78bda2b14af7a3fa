package iter

import (
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
	"github.com/rivo/uniseg"
)

// graphemeWindow bounds how far ahead (or behind, for resync) Graphemes
// reads in one go. Real extended grapheme clusters are a handful of
// codepoints at most; this is generous headroom, not a correctness limit —
// if a cluster runs longer the window is simply grown.
const graphemeWindow = 64

// Graphemes yields extended grapheme clusters per UAX #29 (spec §4.4, §6
// "Grapheme segmenter"). Forward iteration is delegated directly to
// rivo/uniseg, present in the teacher's go.mod but never imported by the
// teacher's own code — and called here directly; Graphemes neither
// implements nor goes through hostiface.GraphemeSegmenter.
//
// uniseg's boundary function only runs forward over a byte window, so
// backward iteration resyncs: it rewinds to a safe earlier offset, then
// walks forward with uniseg until it reaches the cluster ending at the
// current position. This is the same "need more context" pattern spec §4.4
// describes for the grapheme cursor, specialized for a non-streaming
// library.
type Graphemes struct {
	tree *piecetree.PieceTree
	pos  uint64
}

// NewGraphemes creates a Graphemes iterator positioned at pos.
func NewGraphemes(t *piecetree.PieceTree, pos uint64) *Graphemes {
	return &Graphemes{tree: t, pos: pos}
}

// Pos returns the absolute byte offset of the next cluster.
func (g *Graphemes) Pos() uint64 { return g.pos }

func (g *Graphemes) clusterForwardAt(at uint64) (cluster []byte, size int, err error) {
	n := graphemeWindow
	for {
		hi := at + uint64(n)
		if hi > g.tree.Len() {
			hi = g.tree.Len()
		}
		buf, err := g.tree.Slice(at, hi)
		if err != nil {
			return nil, 0, err
		}
		if len(buf) == 0 {
			return nil, 0, nil
		}
		c, _, _, _ := uniseg.FirstGraphemeCluster(buf, -1)
		w := len(c)
		if w < len(buf) || hi == g.tree.Len() {
			return c, w, nil
		}
		// The window ended mid-cluster; widen and retry.
		n *= 2
	}
}

// Get peeks the cluster at the current position without advancing.
func (g *Graphemes) Get() ([]byte, bool, error) {
	if g.pos >= g.tree.Len() {
		return nil, false, nil
	}
	c, _, err := g.clusterForwardAt(g.pos)
	if err != nil || c == nil {
		return nil, false, err
	}
	return c, true, nil
}

// Next returns the cluster at the current position and advances past it.
func (g *Graphemes) Next() ([]byte, bool, error) {
	if g.pos >= g.tree.Len() {
		return nil, false, nil
	}
	c, w, err := g.clusterForwardAt(g.pos)
	if err != nil || c == nil {
		return nil, false, err
	}
	g.pos += uint64(w)
	return c, true, nil
}

// Prev moves back one cluster and returns it, resyncing forward from an
// earlier safe offset to find the cluster boundary ending at g.pos.
func (g *Graphemes) Prev() ([]byte, bool, error) {
	if g.pos == 0 {
		return nil, false, nil
	}

	window := uint64(graphemeWindow)
	for {
		start := uint64(0)
		if g.pos > window {
			start = g.pos - window
		}

		var lastStart uint64
		var lastCluster []byte
		pos := start
		found := false
		for pos < g.pos {
			c, w, err := g.clusterForwardAt(pos)
			if err != nil {
				return nil, false, err
			}
			if c == nil {
				break
			}
			if pos+uint64(w) <= g.pos {
				lastStart, lastCluster = pos, c
				found = true
			}
			pos += uint64(w)
			if pos == g.pos {
				break
			}
		}

		if found && pos == g.pos {
			g.pos = lastStart
			return lastCluster, true, nil
		}
		if start == 0 {
			// No consistent boundary found even starting from byte 0;
			// this should not happen for well-formed input, but avoid an
			// infinite loop.
			return nil, false, nil
		}
		window *= 2
	}
}
