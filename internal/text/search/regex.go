package search

import (
	"bufio"
	"io"
	"regexp"

	"github.com/inkwell-editor/inkwell/internal/text/hostiface"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

// Regex drives a compiled hostiface.Matcher forward over a tree, yielding
// matches produced by the external regex engine (spec §4.9, §6). It has no
// backward variant: spec only asks regex search to consume a forward
// Bytes-style iterator.
type Regex struct {
	tree    *piecetree.PieceTree
	matcher hostiface.Matcher
}

// NewRegex creates a Regex searcher over tree using an already-compiled
// matcher (see NewStdlibEngine for the default implementation).
func NewRegex(tree *piecetree.PieceTree, matcher hostiface.Matcher) *Regex {
	return &Regex{tree: tree, matcher: matcher}
}

// Forward returns the next match at or after pos, or ok=false at end of
// input or if stop fires first.
func (r *Regex) Forward(pos uint64, stop hostiface.StopFlag) (hostiface.Match, bool, error) {
	it := &treeByteIterator{tree: r.tree, pos: pos}
	return r.matcher.FindNext(it, stop)
}

// treeByteIterator adapts a PieceTree position into a forward-only
// hostiface.ByteIterator that reads one byte per Slice call; it yields the
// same bytes as iter.NewBytes(tree, pos).
type treeByteIterator struct {
	tree *piecetree.PieceTree
	pos  uint64
}

func (t *treeByteIterator) Pos() uint64 { return t.pos }

func (t *treeByteIterator) Next() (byte, bool, error) {
	if t.pos >= t.tree.Len() {
		return 0, false, nil
	}
	buf, err := t.tree.Slice(t.pos, t.pos+1)
	if err != nil {
		return 0, false, err
	}
	if len(buf) == 0 {
		return 0, false, nil
	}
	t.pos++
	return buf[0], true, nil
}

// stdlibEngine is the default hostiface.RegexEngine implementation, wired
// directly to the standard library's regexp package (spec §6 treats the
// regex engine as an external collaborator behind a named interface;
// regexp is offered here as the in-repo default satisfying that interface,
// not a replacement for the interface itself).
type stdlibEngine struct{}

// NewStdlibEngine returns the default RegexEngine, backed by regexp.
func NewStdlibEngine() hostiface.RegexEngine { return stdlibEngine{} }

func (stdlibEngine) Compile(pattern string, caseInsensitiveASCII bool) (hostiface.Matcher, error) {
	pat := pattern
	if caseInsensitiveASCII {
		pat = "(?i)" + pattern
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, err
	}
	return &stdlibMatcher{re: re}, nil
}

type stdlibMatcher struct {
	re *regexp.Regexp
}

// byteIterReader adapts a hostiface.ByteIterator into an io.Reader one byte
// at a time, so it can be wrapped in a bufio.Reader to get the io.RuneReader
// regexp's streaming FindReaderIndex needs.
type byteIterReader struct {
	it hostiface.ByteIterator
}

func (r byteIterReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b, ok, err := r.it.Next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, io.EOF
	}
	p[0] = b
	return 1, nil
}

// FindNext locates the next match starting at or after it's current
// position. Cancellation is checked before the scan begins; stdlib regexp's
// reader-based search offers no mid-scan interruption hook, so a caller
// driving a very large forward-only regex search over an un-bounded region
// should prefer chunked calls (e.g. search a window, check stop, advance)
// rather than relying on this to notice a Stop mid-call.
func (m *stdlibMatcher) FindNext(it hostiface.ByteIterator, stop hostiface.StopFlag) (hostiface.Match, bool, error) {
	if stopped(stop) {
		return hostiface.Match{}, false, nil
	}

	start := it.Pos()
	br := bufio.NewReader(byteIterReader{it: it})
	loc := m.re.FindReaderSubmatchIndex(br)
	if loc == nil {
		return hostiface.Match{}, false, nil
	}

	groups := make([]hostiface.ByteRange, 0, len(loc)/2-1)
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, hostiface.ByteRange{})
			continue
		}
		groups = append(groups, hostiface.ByteRange{
			Start: start + uint64(loc[i]),
			End:   start + uint64(loc[i+1]),
		})
	}

	return hostiface.Match{
		Range:  hostiface.ByteRange{Start: start + uint64(loc[0]), End: start + uint64(loc[1])},
		Groups: groups,
	}, true, nil
}
