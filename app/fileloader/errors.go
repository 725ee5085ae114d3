package fileloader

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrUnsupportedFormat indicates the path has no recognised data file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMissingHeader indicates a CSV file without a header row.
	ErrMissingHeader = errors.New("file does not have a header row or is empty")
	// ErrEmptyDocument indicates a file with neither headers nor data rows.
	ErrEmptyDocument = errors.New("no headers or data rows found in the file")
	// ErrIOFailure indicates the underlying file could not be read or written.
	ErrIOFailure = errors.New("file access failed")
	// ErrSaveTargetInvalid indicates there is no loaded file to save to.
	ErrSaveTargetInvalid = errors.New("no file loaded to save")
)

// FormatError carries the operation and path a load or save failed on.
// Kind is one of the sentinel errors above; Err is the underlying cause, if any.
type FormatError struct {
	Op   string // "load" or "save"
	Path string
	Kind error
	Err  error
}

func (e *FormatError) Error() string {
	name := filepath.Base(e.Path)
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Op, name, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, name, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newFormatError(op, path string, kind, err error) *FormatError {
	return &FormatError{Op: op, Path: path, Kind: kind, Err: err}
}
