// Package search implements literal and regex search over a PieceTree
// (spec §4.9): a forward/backward literal byte scanner with no shared state
// between directions, and a regex adapter that drives the external
// hostiface.RegexEngine contract over a Bytes iterator. Both honor a
// cooperative cancellation flag, matching spec §5's "Background iterators
// (search, syntax) honor a kill flag": the literal scanner checks it at
// each step, the stdlib regex matcher once before its scan begins.
//
// No direct teacher equivalent exists: keystorm's search lives in
// dispatcher/handlers/search, a UI-level command operating on whole lines,
// not a byte-level scanner. This package is designed fresh over
// internal/text/iter, following the teacher's cancellation-flag convention
// used elsewhere (the tracking package's kill signals).
package search

import (
	"github.com/inkwell-editor/inkwell/internal/text/hostiface"
	"github.com/inkwell-editor/inkwell/internal/text/iter"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

// Flag is a simple cooperative cancellation flag satisfying
// hostiface.StopFlag. The zero value is un-stopped.
type Flag struct {
	stopped bool
}

// Stop marks the flag stopped. Safe to call once from any goroutine that
// owns it; Flag carries no internal synchronization, matching spec §5's
// "the buffer engine is single-threaded with respect to a given PieceTree
// instance" — a search driven from a background executor should use its
// own flag instance per call, not share one across trees.
func (f *Flag) Stop() { f.stopped = true }

// Stopped reports whether Stop has been called.
func (f *Flag) Stopped() bool { return f != nil && f.stopped }

func stopped(stop hostiface.StopFlag) bool {
	return stop != nil && stop.Stopped()
}

// Literal is a bidirectional literal-byte scanner (spec §4.9). Forward and
// backward search share no mutable state beyond the tree and pattern
// themselves; each call to Forward or Backward starts a fresh scan from
// the given position.
type Literal struct {
	tree                 *piecetree.PieceTree
	pattern              []byte
	caseInsensitiveASCII bool
}

// NewLiteral creates a Literal scanner for pattern over tree.
func NewLiteral(tree *piecetree.PieceTree, pattern []byte, caseInsensitiveASCII bool) *Literal {
	return &Literal{tree: tree, pattern: pattern, caseInsensitiveASCII: caseInsensitiveASCII}
}

func asciiFold(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func (l *Literal) byteEqual(a, b byte) bool {
	if !l.caseInsensitiveASCII {
		return a == b
	}
	return asciiFold(a) == asciiFold(b)
}

// Forward scans forward from pos for the next occurrence of the pattern,
// using a sliding window over iter.Bytes (a streaming analogue of a
// two-way scan: at most len(pattern) bytes of lookback are ever retained).
// Returns ok=false at end of input or if stop fires first.
func (l *Literal) Forward(pos uint64, stop hostiface.StopFlag) (hostiface.ByteRange, bool, error) {
	if len(l.pattern) == 0 {
		return hostiface.ByteRange{}, false, nil
	}

	b := iter.NewBytes(l.tree, pos)
	window := make([]byte, 0, len(l.pattern))

	for {
		if stopped(stop) {
			return hostiface.ByteRange{}, false, nil
		}
		v, ok, err := b.Next()
		if err != nil {
			return hostiface.ByteRange{}, false, err
		}
		if !ok {
			return hostiface.ByteRange{}, false, nil
		}

		if len(window) == len(l.pattern) {
			copy(window, window[1:])
			window = window[:len(window)-1]
		}
		window = append(window, v)

		if len(window) == len(l.pattern) && l.windowMatches(window) {
			end := b.Pos()
			return hostiface.ByteRange{Start: end - uint64(len(l.pattern)), End: end}, true, nil
		}
	}
}

// Backward scans backward from pos for the nearest preceding occurrence of
// the pattern, ending at or before pos.
func (l *Literal) Backward(pos uint64, stop hostiface.StopFlag) (hostiface.ByteRange, bool, error) {
	if len(l.pattern) == 0 {
		return hostiface.ByteRange{}, false, nil
	}

	b := iter.NewBytes(l.tree, pos)
	window := make([]byte, 0, len(l.pattern))

	for {
		if stopped(stop) {
			return hostiface.ByteRange{}, false, nil
		}
		v, ok, err := b.Prev()
		if err != nil {
			return hostiface.ByteRange{}, false, err
		}
		if !ok {
			return hostiface.ByteRange{}, false, nil
		}

		if len(window) == len(l.pattern) {
			window = window[:len(window)-1]
		}
		window = append([]byte{v}, window...)

		if len(window) == len(l.pattern) && l.windowMatches(window) {
			start := b.Pos()
			return hostiface.ByteRange{Start: start, End: start + uint64(len(l.pattern))}, true, nil
		}
	}
}

func (l *Literal) windowMatches(window []byte) bool {
	for i, pb := range l.pattern {
		if !l.byteEqual(window[i], pb) {
			return false
		}
	}
	return true
}
