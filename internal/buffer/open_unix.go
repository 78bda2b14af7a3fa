//go:build unix

package buffer

import (
	"os"

	"github.com/inkwell-editor/inkwell/internal/text/origbuffer"
)

// openOriginal prefers the zero-copy mmap path on unix, falling back to
// the paged ReadAt variant if the mapping fails (origbuffer.FromFileMmap
// already does this fallback internally).
func openOriginal(f *os.File) (*origbuffer.OriginalBuffer, error) {
	return origbuffer.FromFileMmap(f)
}
