// Package addbuffer implements the append-only, bucketed byte store that
// backs every Add piece in a piece tree (spec §4.2).
//
// Bytes are appended into a growing sequence of buckets. Bucket i has
// capacity 2^(startExponent+i). Because a bucket, once allocated, is never
// resized or moved, a byte range wholly within one bucket has a stable
// address: Slice can return a direct view into it without copying.
package addbuffer

import "sync"

// DefaultStartExponent is the exponent K of the first bucket's capacity
// (2^14 = 16 KiB), matching the starting size used by the original
// implementation this spec was distilled from (eemed/sanedit).
const DefaultStartExponent = 14

// AppendOutcome reports how Append placed the written bytes.
type AppendOutcome struct {
	// N is the number of bytes actually written; N <= len(bytes) whenever
	// the write would have crossed a bucket boundary. The caller is
	// expected to issue the remainder as a second Append call, which will
	// land in a fresh bucket and therefore must become a separate Piece.
	N int
	// FreshBucket is true when this append allocated a new bucket, meaning
	// the bytes just written are not contiguous in memory with whatever was
	// appended immediately before them.
	FreshBucket bool
}

// AddBuffer is a single-writer, many-reader append-only byte store.
type AddBuffer struct {
	mu            sync.RWMutex
	startExponent uint
	buckets       [][]byte
	len           uint64
}

// New creates an empty AddBuffer using DefaultStartExponent.
func New() *AddBuffer {
	return NewWithStartExponent(DefaultStartExponent)
}

// NewWithStartExponent creates an empty AddBuffer whose first bucket has
// capacity 2^startExponent bytes.
func NewWithStartExponent(startExponent uint) *AddBuffer {
	return &AddBuffer{startExponent: startExponent}
}

// Len returns the total number of bytes appended so far.
func (b *AddBuffer) Len() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.len
}

func (b *AddBuffer) bucketCapacity(i int) int {
	return 1 << (b.startExponent + uint(i))
}

// bucketLocation returns the bucket index and the offset of the given
// absolute position within that bucket, along with the bucket's capacity.
func (b *AddBuffer) bucketLocation(pos uint64) (bucket int, offset int, capacity int) {
	start := uint64(1) << b.startExponent
	p := pos + start
	// Highest set bit of p identifies the bucket "tier"; bucket 0 covers
	// [start, 2*start), bucket 1 covers [2*start, 4*start), etc.
	tier := 0
	for v := p >> (b.startExponent + 1); v != 0; v >>= 1 {
		tier++
	}
	capacity = 1 << (b.startExponent + uint(tier))
	bucketStart := uint64(1) << (b.startExponent + uint(tier))
	offset = int(p - bucketStart)
	return tier, offset, capacity
}

// Append writes as many bytes from data as fit contiguously in the current
// bucket, allocating a new bucket first if necessary.
func (b *AddBuffer) Append(data []byte) AppendOutcome {
	if len(data) == 0 {
		return AppendOutcome{N: 0}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	bucketIdx, offset, capacity := b.bucketLocation(b.len)
	fresh := bucketIdx >= len(b.buckets)
	if fresh {
		b.buckets = append(b.buckets, make([]byte, 0, capacity))
	}
	bucket := b.buckets[bucketIdx]

	room := capacity - offset
	n := len(data)
	if n > room {
		n = room
	}

	bucket = bucket[:offset+n]
	copy(bucket[offset:], data[:n])
	b.buckets[bucketIdx] = bucket
	b.len += uint64(n)

	return AppendOutcome{N: n, FreshBucket: fresh}
}

// Slice returns a direct view of [lo,hi) when that range lies wholly within
// a single bucket. Callers must never construct a request spanning a bucket
// boundary; the piece tree is responsible for splitting pieces at
// allocation time so that no piece ever does.
func (b *AddBuffer) Slice(lo, hi uint64) []byte {
	if hi <= lo {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	bucketIdx, offset, _ := b.bucketLocation(lo)
	bucket := b.buckets[bucketIdx]
	return bucket[offset : offset+int(hi-lo)]
}
