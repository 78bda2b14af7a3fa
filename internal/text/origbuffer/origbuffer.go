// Package origbuffer implements OriginalBuffer (spec §4.1): a read-only byte
// source with two variants, an owned in-memory blob or a paged view over a
// file. Content never changes after construction.
package origbuffer

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/inkwell-editor/inkwell/internal/text/texterr"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrIO wraps an underlying file read failure.
var ErrIO = texterr.ErrIO

// MinPageSize is the smallest page the File variant will ever cache, per
// spec §4.1's "page size is max(MIN_PAGE, hi-lo)" rule.
const MinPageSize = 64 * 1024

// OriginalBuffer is a read-only byte source. The zero value is not usable;
// construct one with FromMemory or FromFile.
type OriginalBuffer struct {
	length uint64

	// Memory variant.
	mem []byte

	// File variant.
	file *os.File
	mu   sync.Mutex
	page *page
}

type page struct {
	start uint64
	bytes []byte
}

// FromMemory wraps an owned byte slice as a Memory-variant OriginalBuffer.
func FromMemory(data []byte) *OriginalBuffer {
	return &OriginalBuffer{length: uint64(len(data)), mem: data}
}

// FromFile opens f as a File-variant OriginalBuffer. A UTF-8/UTF-16 byte
// order mark, if present, is reported via DetectedBOM but is NOT stripped
// from the logical length or byte offsets: marks, pieces, and write-back all
// operate on raw file bytes, and silently shifting offsets behind the host's
// back would violate spec §4.1's "byte contents at a given offset are
// immutable" invariant. The BOM is exposed so a host that wants BOM-aware
// decoding can skip it itself.
func FromFile(f *os.File) (*OriginalBuffer, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat: %v", ErrIO, err)
	}
	return &OriginalBuffer{length: uint64(info.Size()), file: f}, nil
}

// BOM identifies a detected byte-order mark.
type BOM int

const (
	BOMNone BOM = iota
	BOMUTF8
	BOMUTF16LE
	BOMUTF16BE
)

// DetectedBOM sniffs the first bytes of the buffer for a UTF-8, UTF-16LE or
// UTF-16BE byte-order mark by comparing them directly.
func (b *OriginalBuffer) DetectedBOM() (BOM, error) {
	if b.length < 2 {
		return BOMNone, nil
	}
	head, err := b.Slice(0, min64(4, b.length))
	if err != nil {
		return BOMNone, err
	}
	switch {
	case len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF:
		return BOMUTF8, nil
	case len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE:
		return BOMUTF16LE, nil
	case len(head) >= 2 && head[0] == 0xFE && head[1] == 0xFF:
		return BOMUTF16BE, nil
	default:
		return BOMNone, nil
	}
}

// DecodeBOMStripped returns data with a leading BOM removed and transcoded
// to UTF-8 when it was UTF-16, using golang.org/x/text/transform. It is a
// convenience for hosts that want to present file content as UTF-8 text; it
// does not affect offsets used by the piece tree.
func DecodeBOMStripped(data []byte, bom BOM) ([]byte, error) {
	switch bom {
	case BOMUTF16LE:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		return out, err
	case BOMUTF16BE:
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		return out, err
	case BOMUTF8:
		return data[3:], nil
	default:
		return data, nil
	}
}

// Len returns the logical length of the buffer.
func (b *OriginalBuffer) Len() uint64 { return b.length }

// IsFileBacked reports whether this buffer reads from a file rather than an
// owned in-memory blob.
func (b *OriginalBuffer) IsFileBacked() bool { return b.file != nil }

// File returns the underlying *os.File for a File-variant buffer, or nil for
// Memory. Used by the write-back planner (spec §4.10).
func (b *OriginalBuffer) File() *os.File { return b.file }

// Slice returns a view of exactly hi-lo bytes. For the Memory variant this
// borrows directly into the backing slice. For the File variant it borrows
// into a single shared cache page, refilling the page if the request falls
// outside it.
func (b *OriginalBuffer) Slice(lo, hi uint64) ([]byte, error) {
	if hi < lo || hi > b.length {
		return nil, fmt.Errorf("%w: [%d,%d) over length %d", texterr.ErrInvalidRange, lo, hi, b.length)
	}
	if lo == hi {
		return nil, nil
	}
	if b.mem != nil {
		return b.mem[lo:hi], nil
	}
	return b.sliceFile(lo, hi)
}

func (b *OriginalBuffer) sliceFile(lo, hi uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.page != nil && lo >= b.page.start && hi <= b.page.start+uint64(len(b.page.bytes)) {
		off := lo - b.page.start
		return b.page.bytes[off : off+(hi-lo)], nil
	}

	if err := b.refillLocked(lo, hi); err != nil {
		return nil, err
	}
	off := lo - b.page.start
	return b.page.bytes[off : off+(hi-lo)], nil
}

// refillLocked reloads the shared cache page so that it covers [lo,hi),
// following spec §4.1's policy: page size is max(MinPageSize, hi-lo), and
// placement centers the requested range within the page where possible.
func (b *OriginalBuffer) refillLocked(lo, hi uint64) error {
	want := hi - lo
	pageSize := uint64(MinPageSize)
	if want > pageSize {
		pageSize = want
	}

	slack := pageSize - want
	start := lo - slack/2
	if start > lo { // underflowed
		start = 0
	}
	if start+pageSize > b.length {
		if pageSize > b.length {
			start = 0
		} else {
			start = b.length - pageSize
		}
	}

	buf := make([]byte, min64(pageSize, b.length-start))
	if _, err := b.file.ReadAt(buf, int64(start)); err != nil && err != io.EOF {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	b.page = &page{start: start, bytes: buf}
	return nil
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
