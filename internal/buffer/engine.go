// Package buffer composes the text engine's leaf packages into a single,
// mutex-guarded facade: a PieceTree, its CursorSet, its undo/redo History,
// and a highlight.Set, behind one method-per-operation API. Grounded
// directly on the teacher's internal/engine/engine.go, which composes
// buffer/cursor/history/tracking the same way, re-exports their types, and
// guards every method with a single RWMutex.
package buffer

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/inkwell-editor/inkwell/internal/engineconfig"
	"github.com/inkwell-editor/inkwell/internal/logging"
	"github.com/inkwell-editor/inkwell/internal/text/change"
	"github.com/inkwell-editor/inkwell/internal/text/cursor"
	"github.com/inkwell-editor/inkwell/internal/text/highlight"
	"github.com/inkwell-editor/inkwell/internal/text/history"
	"github.com/inkwell-editor/inkwell/internal/text/hostiface"
	"github.com/inkwell-editor/inkwell/internal/text/mark"
	"github.com/inkwell-editor/inkwell/internal/text/origbuffer"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
	"github.com/inkwell-editor/inkwell/internal/text/writeback"
)

// Re-export the leaf types a host needs, the way the teacher's engine.go
// re-exports buffer/cursor/history/tracking types for convenience.
type (
	Change     = change.Change
	BatchKind  = change.BatchKind
	Cursor     = cursor.Cursor
	CursorSet  = cursor.Set
	Mark       = mark.Mark
	Snapshot   = piecetree.Snapshot
	Span       = hostiface.Span
	HighlightSpan = highlight.Span
)

const (
	BatchInsert  = change.BatchInsert
	BatchRemove  = change.BatchRemove
	BatchReplace = change.BatchReplace
	BatchMixed   = change.BatchMixed
	BatchUndo    = change.BatchUndo
	BatchRedo    = change.BatchRedo
)

// Engine is the top-level facade: one PieceTree, its cursor set, undo/redo
// history, and highlight span tracking, behind a single RWMutex (spec §5:
// "the buffer engine is single-threaded with respect to a given PieceTree
// instance").
type Engine struct {
	mu sync.RWMutex

	tree    *piecetree.PieceTree
	cursors *cursor.Set
	hist    *history.History
	spans   *highlight.Set

	opts   engineconfig.Options
	logger *logging.Logger
	watch  *engineconfig.FileWatcher
}

// Option configures a new Engine.
type Option func(*Engine)

// WithOptions overrides the engine's tuning knobs (spec's engineconfig
// ambient-stack addition); the zero value of Options is never used
// directly, New always starts from engineconfig.Default().
func WithOptions(opts engineconfig.Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithLogger attaches a logger; a nil logger (the default) discards.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func newEngine(opts ...Option) *Engine {
	e := &Engine{
		opts:    engineconfig.Default(),
		cursors: cursor.NewSet(),
		spans:   highlight.NewSet(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	e.hist = history.New(e.opts.MaxUndoEntries, e.logger)
	return e
}

// New creates an Engine with no original content: every byte ever
// inserted lands in the AddBuffer.
func New(opts ...Option) *Engine {
	e := newEngine(opts...)
	e.tree = piecetree.New()
	return e
}

// NewFromBytes creates an Engine whose initial content is an owned
// in-memory blob (spec §4.1's Memory OriginalBuffer variant).
func NewFromBytes(data []byte, opts ...Option) *Engine {
	e := newEngine(opts...)
	e.tree = piecetree.NewFromOriginal(origbuffer.FromMemory(data))
	return e
}

// NewFromFile creates an Engine whose initial content is paged from an
// open file (spec §4.1's File OriginalBuffer variant). If
// opts.WatchFileOnSave is set, an fsnotify watch is started on the file so
// external modifications are logged as warnings. Engine offers no other
// notification of them; a host wanting its own callback can run
// engineconfig.WatchFile on the file itself.
func NewFromFile(f *os.File, opts ...Option) (*Engine, error) {
	e := newEngine(opts...)
	orig, err := openOriginal(f)
	if err != nil {
		return nil, err
	}
	e.tree = piecetree.NewFromOriginal(orig)

	if e.opts.WatchFileOnSave {
		w, err := engineconfig.WatchFile(f.Name(), func(op fsnotify.Op) {
			e.logger.Warn("buffer: source file %s changed on disk externally (%s)", f.Name(), op)
		}, e.logger)
		if err != nil {
			e.logger.Warn("buffer: could not watch %s for external changes: %v", f.Name(), err)
		} else {
			e.watch = w
		}
	}
	return e, nil
}

// Close releases any background resources the engine holds (currently
// just an external-file watch, if one was started).
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.watch != nil {
		return e.watch.Close()
	}
	return nil
}

// Len returns the buffer's total byte length.
func (e *Engine) Len() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Len()
}

// Text materializes the full buffer content. Prefer Iterate* for large
// buffers.
func (e *Engine) Text() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Slice(0, e.tree.Len())
}

// Slice materializes the buffer content in [lo,hi).
func (e *Engine) Slice(lo, hi uint64) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Slice(lo, hi)
}

// Tree exposes the underlying PieceTree for callers that need a raw
// iterator (package iter) or a direct search session (package search) over
// this engine's buffer. Held references must not outlive a Close/mutating
// call made without going through Engine.
func (e *Engine) Tree() *piecetree.PieceTree {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

// Cursors returns the engine's cursor set.
func (e *Engine) Cursors() *cursor.Set {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors
}

// Mark captures an edit-stable position handle at pos (spec §4.5).
func (e *Engine) Mark(pos uint64) Mark {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return mark.Capture(e.tree, pos)
}

// ResolveMark resolves a previously-captured Mark to its current position.
func (e *Engine) ResolveMark(m Mark) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return mark.Resolve(e.tree, m)
}

// Apply is the sole mutation entry point (spec §4.6): it validates and
// applies changes to the tree, repositions the cursor set, records an undo
// group (respecting the grouping rules in package history), and shifts any
// tracked highlight spans across the edit.
func (e *Engine) Apply(changes []Change, mergeCursorsAfter bool) (BatchKind, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pre := e.tree.Snapshot()
	cursorCountBefore := e.cursors.Count()

	kind, err := change.Apply(e.tree, changes, e.cursors, mergeCursorsAfter)
	if err != nil {
		return kind, err
	}

	e.hist.Record(pre, kind, changes, cursorCountBefore, e.cursors.Count())
	e.spans.Apply(changes)
	return kind, nil
}

// Undo reverts to the previous undo group's state, if any.
func (e *Engine) Undo() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.Undo(e.tree)
}

// Redo re-applies the most recently undone group, if any.
func (e *Engine) Redo() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.Redo(e.tree)
}

// CanUndo reports whether Undo would do anything.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hist.CanRedo()
}

// Highlights returns the engine's current syntax-highlight span set.
func (e *Engine) Highlights() *highlight.Set {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.spans
}

// SaveInPlace writes the buffer's current content back over its
// file-backed OriginalBuffer (spec §4.10). Returns an error if the engine
// was not constructed over a file.
func (e *Engine) SaveInPlace() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.tree.IsFileBacked() {
		return fmt.Errorf("buffer: SaveInPlace requires a file-backed engine")
	}
	return writeback.Execute(e.tree, e.logger)
}
