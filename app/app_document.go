package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"babsa/app/annotation"
	"babsa/app/fileloader"
	"babsa/app/table"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// OpenFileDialog shows the native file picker for supported data files.
// Returns "" when the user cancels.
func (a *App) OpenFileDialog() (string, error) {
	if a == nil || a.ctx == nil {
		return "", fmt.Errorf("app context not initialised")
	}
	filters := make([]runtime.FileFilter, 0, len(fileloader.FileFilters()))
	for _, f := range fileloader.FileFilters() {
		filters = append(filters, runtime.FileFilter{DisplayName: f.DisplayName, Pattern: f.Pattern})
	}
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Open Data File",
		Filters: filters,
	})
}

// OpenFile lets the user pick a file and starts loading it.
// Returns false when the dialog was cancelled.
func (a *App) OpenFile() (bool, error) {
	path, err := a.OpenFileDialog()
	if err != nil {
		return false, err
	}
	if path == "" {
		a.onStatus(a.session.State(), "File selection cancelled or no file selected.")
		return false, nil
	}
	return true, a.LoadFile(path)
}

// LoadFile starts loading path in the background. The result arrives as a
// "document:loaded" event. ErrBusy is returned at once when a load or save
// is already running.
func (a *App) LoadFile(path string) error {
	if a.session.Busy() {
		return annotation.ErrBusy
	}
	go func() {
		_ = a.loadFile(path)
	}()
	return nil
}

// loadFile loads path and publishes the result.
func (a *App) loadFile(path string) error {
	if a.session.Busy() {
		a.emit(EventDocumentLoaded, DocumentEvent{Path: path, Error: annotation.ErrBusy.Error()})
		return annotation.ErrBusy
	}
	a.stopWatcher()

	err := a.session.Load(a.context(), path)
	if errors.Is(err, annotation.ErrBusy) {
		// Lost the race to another load or save; keep watching what is open.
		if current := a.session.Path(); current != "" {
			a.startWatcher(current)
		}
		a.emit(EventDocumentLoaded, DocumentEvent{Path: path, Error: err.Error()})
		return err
	}
	if err != nil {
		a.Log("error", fmt.Sprintf("Failed to load %s: %v", filepath.Base(path), err))
		a.emit(EventDocumentLoaded, DocumentEvent{Path: path, Error: a.session.Status()})
		return err
	}

	doc := a.session.Snapshot()
	a.Log("info", fmt.Sprintf("Loaded %s (%s): %d columns, %d rows", filepath.Base(path), doc.Format, len(doc.Headers), len(doc.Rows)))
	if err := a.settings.AddRecentFile(path); err != nil {
		a.Log("warn", fmt.Sprintf("Failed to update recent files: %v", err))
	}
	a.startWatcher(path)
	a.emit(EventDocumentLoaded, DocumentEvent{Path: path, Document: doc})
	return nil
}

// SaveFile starts writing the annotations back to the loaded file. The
// result arrives as a "document:saved" event.
func (a *App) SaveFile() error {
	if a.session.Busy() {
		return annotation.ErrBusy
	}
	if !a.session.CanSave() {
		return a.session.Save(a.context())
	}
	go func() {
		_ = a.saveFile()
	}()
	return nil
}

func (a *App) saveFile() error {
	path := a.session.Path()
	err := a.session.Save(a.context())
	if errors.Is(err, annotation.ErrBusy) {
		a.emit(EventDocumentSaved, DocumentEvent{Path: path, Error: err.Error()})
		return err
	}
	if err != nil {
		a.Log("error", fmt.Sprintf("Failed to save %s: %v", filepath.Base(path), err))
		a.emit(EventDocumentSaved, DocumentEvent{Path: path, Error: a.session.Status()})
		return err
	}
	a.Log("info", fmt.Sprintf("Saved %s", filepath.Base(path)))
	a.emit(EventDocumentSaved, DocumentEvent{Path: path})
	return nil
}

// context returns the Wails context, or a background context before Startup.
func (a *App) context() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// GetDocument returns a copy of the loaded document, or nil.
func (a *App) GetDocument() *table.Document {
	return a.session.Snapshot()
}

// GetRow returns a copy of the row at rowIndex.
func (a *App) GetRow(rowIndex int) (*table.Row, error) {
	return a.session.Row(rowIndex)
}

// SelectAnnotationColumn sets the column whose text is annotated and
// returns the refreshed document.
func (a *App) SelectAnnotationColumn(header string) (*table.Document, error) {
	if err := a.session.SelectColumn(header); err != nil {
		return nil, err
	}
	return a.session.Snapshot(), nil
}

// CanAddAnnotation reports whether the annotation form can be submitted.
func (a *App) CanAddAnnotation(req AddAnnotationRequest) bool {
	return a.session.CanAddAnnotation(req.RowIndex, req.Aspect, req.Sentiment)
}

// AddAnnotation adds an aspect/sentiment pair to a row.
func (a *App) AddAnnotation(req AddAnnotationRequest) (*AnnotationResult, error) {
	ann, err := a.session.AddAnnotation(req.RowIndex, req.Aspect, req.Sentiment)
	if err != nil {
		return nil, err
	}
	return a.rowResult(req.RowIndex, ann)
}

// RemoveAnnotation removes the annotation with the given ID.
func (a *App) RemoveAnnotation(id string) (*AnnotationResult, error) {
	doc := a.session.Snapshot()
	row, _ := doc.FindAnnotation(id)
	if err := a.session.RemoveAnnotation(id); err != nil {
		return nil, err
	}
	return a.rowResult(row.Index, nil)
}

// ClearRowAnnotations removes every annotation from a row.
func (a *App) ClearRowAnnotations(rowIndex int) (*AnnotationResult, error) {
	if _, err := a.session.ClearRow(rowIndex); err != nil {
		return nil, err
	}
	return a.rowResult(rowIndex, nil)
}

func (a *App) rowResult(rowIndex int, ann *table.Annotation) (*AnnotationResult, error) {
	row, err := a.session.Row(rowIndex)
	if err != nil {
		return nil, err
	}
	return &AnnotationResult{Row: row, Annotation: ann, Status: a.session.Status()}, nil
}
