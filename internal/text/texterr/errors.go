// Package texterr holds the sentinel errors shared across the text engine
// packages, following the teacher's flat-sentinel-list convention
// (internal/engine/errors.go) rather than a custom error-struct hierarchy.
package texterr

import "errors"

var (
	// ErrOutOfBounds is returned when an operation's position exceeds the
	// buffer's current length (spec §7).
	ErrOutOfBounds = errors.New("text: position out of bounds")

	// ErrInvalidRange is returned when a range's start exceeds its end, or
	// (by OriginalBuffer.Slice) when a range runs past the buffer's length.
	// Package change reports unsorted or overlapping batches with its own
	// errors.
	ErrInvalidRange = errors.New("text: invalid range")

	// ErrSnapshotForeign is returned by PieceTree.Restore when given a
	// snapshot captured from a different tree (spec §4.3/§4.7).
	ErrSnapshotForeign = errors.New("text: snapshot belongs to a different tree")

	// ErrCancelled names the cancelled error kind (spec §7). No package in
	// this module returns it: a search that observes its cancellation flag
	// reports ok=false with a nil error.
	ErrCancelled = errors.New("text: operation cancelled")

	// ErrIO wraps an underlying file read or write failure.
	ErrIO = errors.New("text: io error")
)
