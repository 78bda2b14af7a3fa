//go:build unix

package origbuffer

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FromFileMmap is an alternative to FromFile for the File variant: instead
// of paging via ReadAt, it maps the whole file read-only and serves every
// Slice directly from the mapping, trading a larger up-front mapping for
// zero-copy reads everywhere (no page refills at all). Falls back to the
// ReadAt-paged variant on mmap failure (e.g. the file is empty).
//
// The file handle is retained (IsFileBacked and File still report true/f)
// so a file-backed buffer built this way remains eligible for package
// writeback's in-place save; callers that use FromFileMmap together with
// writeback.Execute must not rely on the mapping reflecting an external
// modification to the file made after the mapping was taken, since a
// MAP_SHARED read mapping is not re-synced by this package.
func FromFileMmap(f *os.File) (*OriginalBuffer, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat: %v", ErrIO, err)
	}
	size := info.Size()
	if size == 0 {
		return &OriginalBuffer{length: 0, mem: nil, file: f}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return FromFile(f)
	}

	b := &OriginalBuffer{length: uint64(size), mem: data, file: f}
	return b, nil
}
