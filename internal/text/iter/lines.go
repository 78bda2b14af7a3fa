package iter

import "github.com/inkwell-editor/inkwell/internal/text/piecetree"

// Terminator identifies which line-terminator form ended a line.
type Terminator int

const (
	TermNone Terminator = iota
	TermLF
	TermVT
	TermFF
	TermCR
	TermCRLF
	TermNEL
	TermLS
	TermPS
)

// Len returns the terminator's byte length (0 for TermNone, the "no
// terminator" case used for a final unterminated line).
func (t Terminator) Len() int {
	switch t {
	case TermLF, TermVT, TermFF, TermCR:
		return 1
	case TermCRLF, TermNEL:
		return 2
	case TermLS, TermPS:
		return 3
	default:
		return 0
	}
}

// Line is one line's full byte range, including its terminator.
type Line struct {
	Start      uint64
	Bytes      []byte
	Terminator Terminator
}

// Lines yields lines delimited by any of LF, VT, FF, CR, CRLF, NEL (U+0085),
// LS (U+2028), PS (U+2029), coalescing a CR immediately followed by LF into
// a single CRLF terminator (spec §4.4). detectTerminator runs a small
// direct matcher over the byte stream rather than a generic automaton — the
// "alphabet" here is eight fixed patterns, the small-pattern-count
// specialization of an Aho-Corasick scan spec describes at a higher level.
type Lines struct {
	tree *piecetree.PieceTree
	pos  uint64
}

// NewLines creates a Lines iterator positioned at the start of the line
// containing pos. Callers wanting line N should resolve N to a byte offset
// first (not provided here; spec scopes line<->offset translation to the
// host via the Codepoints/position-encoding contract, §6).
func NewLines(t *piecetree.PieceTree, pos uint64) *Lines {
	l := &Lines{tree: t, pos: pos}
	for l.pos > 0 {
		if term, _ := l.terminatorEndingAt(l.pos); term != TermNone {
			break
		}
		l.pos--
	}
	return l
}

// Pos returns the absolute byte offset of the next line.
func (l *Lines) Pos() uint64 { return l.pos }

// Get peeks the line at the current position without advancing.
func (l *Lines) Get() (Line, bool, error) {
	saved := l.pos
	line, ok, err := l.Next()
	l.pos = saved
	return line, ok, err
}

// detectTerminator reports the terminator, if any, starting at bs[i].
func detectTerminator(bs []byte, i int) Terminator {
	if i >= len(bs) {
		return TermNone
	}
	switch bs[i] {
	case '\n':
		return TermLF
	case '\v':
		return TermVT
	case '\f':
		return TermFF
	case '\r':
		if i+1 < len(bs) && bs[i+1] == '\n' {
			return TermCRLF
		}
		return TermCR
	case 0xC2:
		if i+1 < len(bs) && bs[i+1] == 0x85 {
			return TermNEL
		}
	case 0xE2:
		if i+2 < len(bs) && bs[i+1] == 0x80 {
			switch bs[i+2] {
			case 0xA8:
				return TermLS
			case 0xA9:
				return TermPS
			}
		}
	}
	return TermNone
}

// Next returns the next line (including its terminator) and advances past
// it.
func (l *Lines) Next() (Line, bool, error) {
	if l.pos >= l.tree.Len() {
		return Line{}, false, nil
	}

	start := l.pos
	bs := NewBytes(l.tree, l.pos)
	var collected []byte
	for {
		peekStart := bs.Pos()
		// Read a small lookahead window directly from the tree for
		// terminator detection, since CRLF/NEL/LS/PS need 1-3 bytes.
		window, err := l.tree.Slice(peekStart, minU64(peekStart+3, l.tree.Len()))
		if err != nil {
			return Line{}, false, err
		}
		if len(window) == 0 {
			l.pos = peekStart
			return Line{Start: start, Bytes: collected, Terminator: TermNone}, true, nil
		}
		if term := detectTerminator(window, 0); term != TermNone {
			n := term.Len()
			termBytes, err := l.tree.Slice(peekStart, peekStart+uint64(n))
			if err != nil {
				return Line{}, false, err
			}
			collected = append(collected, termBytes...)
			l.pos = peekStart + uint64(n)
			return Line{Start: start, Bytes: collected, Terminator: term}, true, nil
		}
		b, ok, err := bs.Next()
		if err != nil {
			return Line{}, false, err
		}
		if !ok {
			l.pos = bs.Pos()
			return Line{Start: start, Bytes: collected, Terminator: TermNone}, true, nil
		}
		collected = append(collected, b)
	}
}

// terminatorEndingAt checks the (up to three) candidate start offsets that
// could hold a terminator ending exactly at pos, longest pattern first so a
// CRLF is found whole rather than as a lone trailing LF.
func (l *Lines) terminatorEndingAt(pos uint64) (term Terminator, start uint64) {
	tryLen := func(n uint64) (Terminator, uint64, bool) {
		if pos < n {
			return TermNone, 0, false
		}
		s := pos - n
		window, err := l.tree.Slice(s, pos)
		if err != nil || uint64(len(window)) != n {
			return TermNone, 0, false
		}
		if t := detectTerminator(window, 0); t != TermNone && uint64(t.Len()) == n {
			return t, s, true
		}
		return TermNone, 0, false
	}

	for _, n := range []uint64{3, 2, 1} {
		if t, s, ok := tryLen(n); ok {
			return t, s
		}
	}
	return TermNone, 0
}

// Prev moves back to the start of the previous line and returns it,
// including its terminator.
func (l *Lines) Prev() (Line, bool, error) {
	if l.pos == 0 {
		return Line{}, false, nil
	}

	end := l.pos
	term, termStart := l.terminatorEndingAt(end)
	if term == TermNone {
		// No terminator immediately precedes end: the previous line is the
		// buffer's last, unterminated one, so the backward scan starts at end.
		termStart = end
	}

	// Scan backward one byte at a time from termStart looking for the
	// terminator that ends the line before this one; its end is this
	// line's start.
	for pos := termStart; pos > 0; pos-- {
		if t2, _ := l.terminatorEndingAt(pos); t2 != TermNone {
			bytes, err := l.tree.Slice(pos, end)
			if err != nil {
				return Line{}, false, err
			}
			l.pos = pos
			return Line{Start: pos, Bytes: bytes, Terminator: term}, true, nil
		}
	}

	bytes, err := l.tree.Slice(0, end)
	if err != nil {
		return Line{}, false, err
	}
	l.pos = 0
	return Line{Start: 0, Bytes: bytes, Terminator: term}, true, nil
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
