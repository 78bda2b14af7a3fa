//go:build !unix

package buffer

import (
	"os"

	"github.com/inkwell-editor/inkwell/internal/text/origbuffer"
)

// openOriginal uses the portable ReadAt-paged variant on platforms without
// a unix mmap implementation.
func openOriginal(f *os.File) (*origbuffer.OriginalBuffer, error) {
	return origbuffer.FromFile(f)
}
