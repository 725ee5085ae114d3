package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"babsa/app/watch"
)

// startWatcher watches path for changes made by other programs, replacing
// any previous watcher. It does nothing when watching is turned off.
func (a *App) startWatcher(path string) {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()

	if !a.watchOn {
		return
	}
	if a.watcher != nil {
		if abs, err := filepath.Abs(path); err == nil && abs == a.watcher.Path() {
			return
		}
		_ = a.watcher.Stop()
		a.watcher = nil
	}

	w, err := watch.NewFileWatcher(path, a.session.Fingerprint, a.onFileChanged, slog.Default())
	if err != nil {
		a.Log("warn", fmt.Sprintf("File watcher unavailable: %v", err))
		return
	}
	if err := w.Start(a.context()); err != nil {
		_ = w.Stop()
		a.Log("warn", fmt.Sprintf("Failed to watch %s: %v", filepath.Base(path), err))
		return
	}
	a.watcher = w
}

func (a *App) stopWatcher() {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.watcher != nil {
		_ = a.watcher.Stop()
		a.watcher = nil
	}
}

// onFileChanged tells the frontend that the loaded file was changed on disk.
// Changes seen while a load or save is running are our own.
func (a *App) onFileChanged(change watch.Change) {
	if a.session.Busy() {
		return
	}
	if change.Removed {
		a.Log("warn", fmt.Sprintf("%s was removed or renamed on disk", filepath.Base(change.Path)))
	} else {
		a.Log("warn", fmt.Sprintf("%s was changed by another program", filepath.Base(change.Path)))
	}
	a.emit(EventDocumentChangedOnDisk, change)
}
