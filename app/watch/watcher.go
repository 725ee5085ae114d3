// Package watch reports when the open data file is changed by another program.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"babsa/app/fileloader"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait for more changes before checking the file.
const DefaultDebounce = 300 * time.Millisecond

// Change describes a file whose content no longer matches the loaded document.
type Change struct {
	Path        string `json:"path"`
	Removed     bool   `json:"removed"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// FileWatcher watches a single file. The directory is watched rather than the
// file itself so atomic replace-by-rename is seen as well.
type FileWatcher struct {
	path     string
	known    func() string
	onChange func(Change)
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	// last fingerprint reported, so one external edit is reported once
	lastReported string

	started bool
	done    chan struct{}
}

// NewFileWatcher creates a watcher for path. known returns the fingerprint
// of the content the caller considers current; onChange is called when the
// file on disk differs from it.
func NewFileWatcher(path string, known func() string, onChange func(Change), logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		path:     abs,
		known:    known,
		onChange: onChange,
		debounce: DefaultDebounce,
		watcher:  fsw,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce delay. Call before Start.
func (w *FileWatcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Start begins watching. Events are processed until ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true
	go w.processEvents(ctx)
	w.logger.Debug("File watcher started", "path", w.path, "debounce", w.debounce)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
// It must not be called concurrently with Start.
func (w *FileWatcher) Stop() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}

func (w *FileWatcher) processEvents(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.pendingMu.Lock()
				w.pending = true
				w.pendingMu.Unlock()
				w.logger.Debug("File change detected", "path", w.path, "op", event.Op.String())
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// flushPending compares the file on disk with the known fingerprint once the
// burst of events has settled.
func (w *FileWatcher) flushPending() {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	change := Change{Path: w.path}
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		change.Removed = true
	} else {
		fingerprint, err := fileloader.Fingerprint(w.path)
		if err != nil {
			w.logger.Warn("Failed to fingerprint file", "path", w.path, "error", err)
			return
		}
		change.Fingerprint = fingerprint
	}

	if !change.Removed && change.Fingerprint == w.known() {
		// Content matches what the caller has, e.g. after its own save
		w.lastReported = ""
		return
	}
	key := change.Fingerprint
	if change.Removed {
		key = "removed"
	}
	if key == w.lastReported {
		return
	}
	w.lastReported = key

	w.logger.Info("File changed on disk", "path", w.path, "removed", change.Removed)
	w.onChange(change)
}
