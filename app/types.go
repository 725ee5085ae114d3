package app

import "babsa/app/table"

// StatusEvent is the payload of the "status" event.
type StatusEvent struct {
	State  string `json:"state"`
	Status string `json:"status"`
}

// StatusInfo describes the session for the frontend.
type StatusInfo struct {
	State   string `json:"state"`
	Status  string `json:"status"`
	Column  string `json:"column"`
	Path    string `json:"path"`
	Busy    bool   `json:"busy"`
	CanSave bool   `json:"canSave"`
}

// DocumentEvent is the payload of the "document:loaded" and "document:saved" events.
type DocumentEvent struct {
	Path     string          `json:"path"`
	Document *table.Document `json:"document,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// AddAnnotationRequest carries the annotation form.
type AddAnnotationRequest struct {
	RowIndex  int    `json:"rowIndex"`
	Aspect    string `json:"aspect"`
	Sentiment string `json:"sentiment"`
}

// AnnotationResult returns the changed row so the frontend can refresh it.
type AnnotationResult struct {
	Row        *table.Row        `json:"row"`
	Annotation *table.Annotation `json:"annotation,omitempty"`
	Status     string            `json:"status"`
}

// Document events emitted to the frontend
const (
	EventDocumentLoaded        = "document:loaded"
	EventDocumentSaved         = "document:saved"
	EventDocumentChangedOnDisk = "document:changed-on-disk"
)
