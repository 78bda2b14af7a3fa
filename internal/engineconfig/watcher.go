package engineconfig

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/inkwell-editor/inkwell/internal/logging"
)

// FileWatcher watches a single file-backed buffer's source file on disk
// and invokes a callback when it changes underneath the engine, so a host
// can invalidate a cached page (or warn the user of a conflicting external
// edit) rather than silently keep serving stale bytes. Grounded on the
// teacher's internal/project/watcher/fsnotify.go, trimmed from a
// multi-path recursive project watcher down to the single-file case an
// engine actually needs.
type FileWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	logger  *logging.Logger
	done    chan struct{}
}

// OnChange is called, possibly from a background goroutine, whenever the
// watched file is written, removed, or renamed.
type OnChange func(fsnotify.Op)

// WatchFile starts watching path, invoking onChange on every fsnotify event
// for it until Close is called. A nil logger is replaced with a discarding
// one.
func WatchFile(path string, onChange OnChange, logger *logging.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("engineconfig: creating file watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("engineconfig: watching %s: %w", path, err)
	}

	fw := &FileWatcher{watcher: w, logger: logger, done: make(chan struct{})}
	go fw.loop(onChange)
	return fw, nil
}

func (fw *FileWatcher) loop(onChange OnChange) {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.logger.Debug("engineconfig: file watch event %s on %s", event.Op, event.Name)
			if onChange != nil {
				onChange(event.Op)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("engineconfig: file watch error: %v", err)
		case <-fw.done:
			return
		}
	}
}

// Close stops the watch.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	select {
	case <-fw.done:
		return nil
	default:
		close(fw.done)
	}
	return fw.watcher.Close()
}
