// Package engineconfig loads the engine's tuning knobs from TOML
// (grounded on the teacher's internal/config/loader/toml.go, which decodes
// a config file into a map with go-toml/v2) and watches a file-backed
// buffer's source file for external changes (grounded on the teacher's
// internal/project/watcher/fsnotify.go). Unlike the teacher's config
// stack, which manages a whole editor's settings (keymaps, theme layering,
// plugin manifests), this package covers only the handful of knobs a
// buffer engine itself needs.
package engineconfig

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/inkwell-editor/inkwell/internal/text/addbuffer"
	"github.com/inkwell-editor/inkwell/internal/text/history"
	"github.com/inkwell-editor/inkwell/internal/text/origbuffer"
)

// Options are the engine's tuning knobs. The Engine in internal/buffer
// applies MaxUndoEntries and WatchFileOnSave; AddBufferStartExponent and
// MinPageSize are decoded and carried here, but no constructor reads them:
// the add buffer and the file-paged original buffer use their own package
// constants.
type Options struct {
	// AddBufferStartExponent is K in AddBuffer's "bucket i has capacity
	// 2^(K+i)" rule (spec §4.2).
	AddBufferStartExponent uint `toml:"add_buffer_start_exponent"`
	// MinPageSize is the smallest page OriginalBuffer's File variant ever
	// caches (spec §4.1).
	MinPageSize uint64 `toml:"min_page_size"`
	// MaxUndoEntries bounds the undo/redo stacks (spec §4.7).
	MaxUndoEntries int `toml:"max_undo_entries"`
	// WatchFileOnSave enables an fsnotify watch on a file-backed buffer's
	// source file, so external modifications can be surfaced to the host
	// rather than silently shadowed by a stale cached page.
	WatchFileOnSave bool `toml:"watch_file_on_save"`
}

// Default returns the engine's default tuning, matching the constants each
// package already uses on its own (addbuffer.DefaultStartExponent,
// origbuffer.MinPageSize, history.DefaultMaxEntries) so loading no config
// file at all reproduces today's hardcoded behavior exactly.
func Default() Options {
	return Options{
		AddBufferStartExponent: addbuffer.DefaultStartExponent,
		MinPageSize:            origbuffer.MinPageSize,
		MaxUndoEntries:         history.DefaultMaxEntries,
		WatchFileOnSave:        true,
	}
}

// Load reads and decodes a TOML file at path into Options, starting from
// Default() so a config file only needs to mention the knobs it wants to
// override. A missing file is not an error: it returns the defaults,
// matching the teacher's TOMLLoader.Load, which treats a missing config
// file as "nothing to load" rather than a failure.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("engineconfig: reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("engineconfig: parsing %s: %w", path, err)
	}
	return opts, nil
}
