package annotation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"babsa/app/fileloader"
	"babsa/app/table"
)

var (
	ErrBusy               = errors.New("a load or save is already in progress")
	ErrNoDocument         = errors.New("no document loaded")
	ErrAnnotationNotFound = errors.New("annotation not found")
)

// State is the lifecycle stage of the document held by a Session.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
	StateLoadFailed
	StateAnnotating
	StateSaving
	StateSaveFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load-failed"
	case StateAnnotating:
		return "annotating"
	case StateSaving:
		return "saving"
	case StateSaveFailed:
		return "save-failed"
	default:
		return "unknown"
	}
}

// ReadyStatus is the status of a session before the first load.
const ReadyStatus = "Ready. Load a file to begin."

// LoadFunc reads a document from path.
type LoadFunc func(ctx context.Context, path string) (*table.Document, error)

// SaveFunc writes a document back to its path.
type SaveFunc func(ctx context.Context, doc *table.Document) error

// StatusListener is told about every state or status change. It is called
// without the session lock held.
type StatusListener func(state State, status string)

// Session owns the single open document. Load and save may run on any
// goroutine; only one of them runs at a time and edits are refused while one
// is in flight.
type Session struct {
	mu sync.Mutex

	load LoadFunc
	save SaveFunc

	state  State
	busy   bool
	doc    *table.Document
	column string
	status string

	preferredColumn string
	listener        StatusListener
}

// NewSession creates an empty session backed by fileloader.
func NewSession() *Session {
	return NewSessionWithCodec(fileloader.Load, fileloader.Save)
}

// NewSessionWithCodec creates an empty session with custom load and save functions.
func NewSessionWithCodec(load LoadFunc, save SaveFunc) *Session {
	return &Session{
		load:   load,
		save:   save,
		state:  StateEmpty,
		status: ReadyStatus,
	}
}

// SetStatusListener registers fn to receive state and status updates.
func (s *Session) SetStatusListener(fn StatusListener) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// SetPreferredColumn sets the header selected after a load when the document
// has it. Otherwise the first header is selected.
func (s *Session) SetPreferredColumn(header string) {
	s.mu.Lock()
	s.preferredColumn = header
	s.mu.Unlock()
}

// update sets state and status and returns the listener to call once the
// lock is released. Caller must hold s.mu.
func (s *Session) update(state State, status string) func() {
	s.state = state
	s.status = status
	fn := s.listener
	if fn == nil {
		return func() {}
	}
	return func() { fn(state, status) }
}

// Load replaces the current document with the file at path. The previous
// document is discarded before reading starts, so a failed load leaves the
// session without a document.
func (s *Session) Load(ctx context.Context, path string) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.doc = nil
	s.column = ""
	notify := s.update(StateLoading, fmt.Sprintf("Loading %s...", path))
	load := s.load
	s.mu.Unlock()
	notify()

	doc, err := load(ctx, path)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		notify = s.update(StateLoadFailed, loadFailureStatus(err))
		s.mu.Unlock()
		notify()
		return err
	}

	s.doc = doc
	s.column = ""
	if len(doc.Headers) > 0 {
		s.column = doc.Headers[0]
		if s.preferredColumn != "" && doc.HasHeader(s.preferredColumn) {
			s.column = s.preferredColumn
		}
		SelectAnnotationColumn(doc, s.column)
	}
	status := fmt.Sprintf("File loaded: %s. Select annotation column.", filepath.Base(path))
	if len(doc.Rows) == 0 {
		status = fmt.Sprintf("File loaded: %s. No data rows found.", filepath.Base(path))
	}
	notify = s.update(StateLoaded, status)
	s.mu.Unlock()
	notify()
	return nil
}

func loadFailureStatus(err error) string {
	switch {
	case errors.Is(err, fileloader.ErrMissingHeader):
		return "CSV file does not have a header row or is empty."
	case errors.Is(err, fileloader.ErrEmptyDocument):
		return "No headers or data rows found in the file."
	case errors.Is(err, fileloader.ErrUnsupportedFormat):
		return "Unsupported file type. Choose a .csv or .xlsx file."
	default:
		return fmt.Sprintf("Error loading file: %v", err)
	}
}

// Save writes the document back to the file it was loaded from.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.doc == nil || s.doc.Path == "" {
		notify := s.update(s.state, "No file loaded to save.")
		s.mu.Unlock()
		notify()
		return fileloader.ErrSaveTargetInvalid
	}
	s.busy = true
	// The save works on a copy; readers keep using s.doc under the lock.
	doc := s.doc.Clone()
	notify := s.update(StateSaving, fmt.Sprintf("Saving to %s...", doc.Path))
	save := s.save
	s.mu.Unlock()
	notify()

	err := save(ctx, doc)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		notify = s.update(StateSaveFailed, fmt.Sprintf("Error saving file: %v", err))
	} else {
		if s.doc != nil {
			s.doc.Fingerprint = doc.Fingerprint
		}
		notify = s.update(StateLoaded, "File saved successfully!")
	}
	s.mu.Unlock()
	notify()
	return err
}

// editable returns the document when edits are allowed. Caller must hold s.mu.
func (s *Session) editable() (*table.Document, error) {
	if s.busy {
		return nil, ErrBusy
	}
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return s.doc, nil
}

// SelectColumn sets the annotation column and recomputes the text to annotate.
// A header the document does not have gives table.NotAvailable for every row.
func (s *Session) SelectColumn(header string) error {
	s.mu.Lock()
	doc, err := s.editable()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.column = header
	SelectAnnotationColumn(doc, header)
	notify := s.update(s.settledState(), fmt.Sprintf("Annotation column set to: %s", header))
	s.mu.Unlock()
	notify()
	return nil
}

// AddAnnotation adds an annotation to the row at rowIndex.
func (s *Session) AddAnnotation(rowIndex int, aspect, sentiment string) (*table.Annotation, error) {
	s.mu.Lock()
	doc, err := s.editable()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	row := doc.Row(rowIndex)
	if row == nil {
		s.mu.Unlock()
		return nil, ErrNoRowSelected
	}
	if err := validate(row, aspect, sentiment); err != nil {
		notify := s.update(s.state, fmt.Sprintf("Cannot add annotation: %v", err))
		s.mu.Unlock()
		notify()
		return nil, err
	}

	prev := s.state
	s.state = StateAnnotating
	a, err := AddAnnotation(doc, row, aspect, sentiment)
	if err != nil {
		notify := s.update(prev, fmt.Sprintf("Cannot add annotation: %v", err))
		s.mu.Unlock()
		notify()
		return nil, err
	}
	notify := s.update(StateLoaded, fmt.Sprintf("Annotation added. Total annotations for this row: %d", len(row.Annotations)))
	s.mu.Unlock()
	notify()
	c := *a
	return &c, nil
}

// RemoveAnnotation removes the annotation with the given ID.
func (s *Session) RemoveAnnotation(id string) error {
	s.mu.Lock()
	doc, err := s.editable()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	row, a := doc.FindAnnotation(id)
	if a == nil {
		s.mu.Unlock()
		return ErrAnnotationNotFound
	}

	s.state = StateAnnotating
	RemoveAnnotation(row, a)
	notify := s.update(StateLoaded, fmt.Sprintf("Annotation removed. Remaining annotations: %d", len(row.Annotations)))
	s.mu.Unlock()
	notify()
	return nil
}

// ClearRow removes every annotation from the row at rowIndex and returns how
// many were removed.
func (s *Session) ClearRow(rowIndex int) (int, error) {
	s.mu.Lock()
	doc, err := s.editable()
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	row := doc.Row(rowIndex)
	if row == nil {
		s.mu.Unlock()
		return 0, ErrNoRowSelected
	}

	s.state = StateAnnotating
	n := ClearAnnotations(row)
	notify := s.update(StateLoaded, fmt.Sprintf("Removed %d annotations from row %d.", n, rowIndex+1))
	s.mu.Unlock()
	notify()
	return n, nil
}

// settledState is the state after a command that did not change the document.
// Caller must hold s.mu.
func (s *Session) settledState() State {
	if s.state == StateAnnotating {
		return StateLoaded
	}
	return s.state
}

// CanAddAnnotation reports whether AddAnnotation would accept the arguments.
func (s *Session) CanAddAnnotation(rowIndex int, aspect, sentiment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy || s.doc == nil {
		return false
	}
	return CanAddAnnotation(s.doc.Row(rowIndex), aspect, sentiment)
}

// CanSave reports whether Save would have something to write.
func (s *Session) CanSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && CanSave(s.doc)
}

// Snapshot returns a copy of the current document, or nil.
func (s *Session) Snapshot() *table.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Row returns a copy of the row at rowIndex.
func (s *Session) Row(rowIndex int) (*table.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	row := s.doc.Row(rowIndex)
	if row == nil {
		return nil, ErrNoRowSelected
	}
	return row.Clone(), nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Column returns the selected annotation column.
func (s *Session) Column() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.column
}

// Path returns the path of the loaded document, or "".
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return s.doc.Path
}

// Fingerprint returns the fingerprint of the loaded document at its last load or save.
func (s *Session) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return s.doc.Fingerprint
}

// ImportDerivedColumns rebuilds annotations from derived columns present in
// the loaded file. See ImportDerivedColumns.
func (s *Session) ImportDerivedColumns() (imported, skipped int, err error) {
	s.mu.Lock()
	doc, err := s.editable()
	if err != nil {
		s.mu.Unlock()
		return 0, 0, err
	}
	imported, skipped = ImportDerivedColumns(doc)
	notify := s.update(s.settledState(), fmt.Sprintf("Imported %d existing annotations.", imported))
	s.mu.Unlock()
	notify()
	return imported, skipped, nil
}
