// Package hostiface names the external collaborators the buffer engine
// consumes but never implements (spec §6): a regex engine, a grapheme
// segmenter, a syntax parser, and a language service. These are contracts
// only — following the teacher's pattern of small interface-first packages
// at subsystem boundaries (e.g. internal/renderer/backend's Terminal
// interface) — so a host can supply its own implementation (or accept the
// stdlib-backed defaults package search and package iter wire in) without
// the core importing anything concrete.
package hostiface

// ByteRange is a half-open [Start,End) byte range within a buffer.
type ByteRange struct {
	Start uint64
	End   uint64
}

// Len returns the range's length in bytes.
func (r ByteRange) Len() uint64 { return r.End - r.Start }

// ByteIterator is the minimal forward byte-iteration contract the host
// drives external matchers with (spec §6, §4.9's "matches(pattern,
// byte_iter, stop_flag)"). iter.Bytes satisfies this interface as-is.
type ByteIterator interface {
	// Next returns the byte at the iterator's current position and
	// advances past it; ok is false at end of input.
	Next() (b byte, ok bool, err error)
	// Pos returns the absolute byte offset the next Next() call would
	// read from.
	Pos() uint64
}

// StopFlag is a cooperative cancellation signal checked at iteration
// boundaries (spec §5). A nil StopFlag is always un-stopped.
type StopFlag interface {
	Stopped() bool
}

// Match is one regex match: its overall range plus any capture groups, in
// the order the pattern defines them. A group with Range.Start >
// Range.End (or both zero with no corresponding text) means that group did
// not participate in the match.
type Match struct {
	Range  ByteRange
	Groups []ByteRange
}

// Matcher is a compiled pattern bound to neither a direction nor a
// particular buffer; RegexEngine.Compile returns one, and Search drives it
// forward over successive ByteIterator positions.
type Matcher interface {
	// FindNext scans forward from it's current position for the next
	// match, honoring stop at whatever granularity the implementation can
	// manage (spec §4.9: "stoppable via a cooperative flag checked each
	// iteration; on stop the iterator terminates yielding None").
	FindNext(it ByteIterator, stop StopFlag) (Match, bool, error)
}

// RegexEngine is the external regex collaborator (spec §6): it compiles a
// pattern, optionally case-insensitive over ASCII only (per spec §4.9),
// into a Matcher driven by a ByteIterator.
type RegexEngine interface {
	Compile(pattern string, caseInsensitiveASCII bool) (Matcher, error)
}

// GraphemeSegmenter is the external UAX #29 extended-grapheme-cluster
// boundary oracle (spec §6). The default implementation used by
// internal/text/iter wires github.com/rivo/uniseg directly rather than
// going through this interface, since uniseg's one-shot
// FirstGraphemeCluster already matches the "need more context, widen the
// window" model spec §4.4 describes; this contract documents the seam for
// a host that wants to swap in a different UAX #29 implementation (e.g. to
// match a different Unicode version).
type GraphemeSegmenter interface {
	// IsBoundary reports whether a grapheme cluster boundary exists
	// between the codepoint ending at before and the codepoint starting
	// at after, given enough surrounding context in both.
	IsBoundary(before, after []rune) bool
}

// PositionEncoding identifies how a LanguageService expresses positions,
// so the Codepoints iterator can translate to/from it (spec §6).
type PositionEncoding int

const (
	EncodingUTF8 PositionEncoding = iota
	EncodingUTF16
	EncodingUTF32
)

// String returns the encoding's name.
func (e PositionEncoding) String() string {
	switch e {
	case EncodingUTF16:
		return "utf-16"
	case EncodingUTF32:
		return "utf-32"
	default:
		return "utf-8"
	}
}

// Span is one syntax-highlight region a SyntaxParser produces.
type Span struct {
	Range ByteRange
	Kind  string
}

// SyntaxParser is the external PEG/tree-sitter-style parser collaborator
// (spec §6): it receives a byte view and the range it covers and returns
// the spans within it, honoring stop the same way a Matcher does.
type SyntaxParser interface {
	Parse(view []byte, r ByteRange, stop StopFlag) ([]Span, error)
}

// LanguageService is opaque to the core (spec §6): the core only needs to
// know which position encoding the service expects, so Codepoints can
// translate offsets at the boundary.
type LanguageService interface {
	Encoding() PositionEncoding
}
