// Package table holds the in-memory model of a loaded data file: its headers,
// its rows and the aspect/sentiment annotations attached to each row.
//
// The model is plain data. Reading and writing files lives in fileloader and
// the add/remove/select operations live in annotation.
package table

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// AspectColumn and SentimentColumn are the derived columns written on save.
	AspectColumn    = "AnnotatedAspect"
	SentimentColumn = "AnnotatedSentiment"

	// JoinSeparator joins the values of several annotations into one cell.
	JoinSeparator = "; "

	// NotAvailable is shown as the text to annotate when a row has no value
	// for the selected annotation column.
	NotAvailable = "N/A"
)

// DefaultSentiments are the labels offered to the user. Any other text is accepted.
var DefaultSentiments = []string{"Positive", "Negative", "Neutral", "Mixed"}

// Annotation is a single aspect/sentiment pair attached to a row.
// Two annotations with the same aspect and sentiment are still different
// annotations; ID lets callers that cannot hold the pointer name one of them.
type Annotation struct {
	ID        string `json:"id"`
	Aspect    string `json:"aspect"`
	Sentiment string `json:"sentiment"`
}

// NewAnnotation creates an annotation with a fresh ID.
func NewAnnotation(aspect, sentiment string) *Annotation {
	return &Annotation{
		ID:        GenerateAnnotationID(),
		Aspect:    aspect,
		Sentiment: sentiment,
	}
}

// GenerateAnnotationID creates a new UUID-based annotation ID
func GenerateAnnotationID() string {
	return fmt.Sprintf("ann_%s", uuid.New().String())
}

// Row is one data row of the source file.
type Row struct {
	// Index is the 0-based position of the row among the document's rows.
	Index int `json:"index"`
	// SheetRow is the 1-based worksheet row the data was read from (XLSX only, 0 for CSV).
	SheetRow int `json:"sheetRow,omitempty"`
	// OriginalData maps header name to cell text.
	OriginalData map[string]string `json:"originalData"`
	// Annotations in insertion order, which is also the save order.
	Annotations []*Annotation `json:"annotations"`
	// TextToAnnotate is derived from OriginalData and the selected annotation column.
	TextToAnnotate string `json:"textToAnnotate"`
}

// NewRow creates a row with no annotations.
func NewRow(index int, originalData map[string]string) *Row {
	if originalData == nil {
		originalData = make(map[string]string)
	}
	return &Row{
		Index:        index,
		OriginalData: originalData,
		Annotations:  make([]*Annotation, 0),
	}
}

// Value returns the cell for header, or "" when the row has none.
func (r *Row) Value(header string) string {
	return r.OriginalData[header]
}

// JoinAspects returns the non-empty aspects of the row joined with JoinSeparator.
func (r *Row) JoinAspects() string {
	parts := make([]string, 0, len(r.Annotations))
	for _, a := range r.Annotations {
		if a != nil && a.Aspect != "" {
			parts = append(parts, a.Aspect)
		}
	}
	return strings.Join(parts, JoinSeparator)
}

// JoinSentiments returns the non-empty sentiments of the row joined with JoinSeparator.
func (r *Row) JoinSentiments() string {
	parts := make([]string, 0, len(r.Annotations))
	for _, a := range r.Annotations {
		if a != nil && a.Sentiment != "" {
			parts = append(parts, a.Sentiment)
		}
	}
	return strings.Join(parts, JoinSeparator)
}

// FindAnnotation returns the annotation with the given ID, or nil.
func (r *Row) FindAnnotation(id string) *Annotation {
	for _, a := range r.Annotations {
		if a != nil && a.ID == id {
			return a
		}
	}
	return nil
}

// Document is a loaded table.
type Document struct {
	// Path and Format identify the file the document was loaded from; save writes back there.
	Path   string `json:"path"`
	Format string `json:"format"`
	// Fingerprint is the HighwayHash of the file bytes at the last load or save.
	Fingerprint string `json:"fingerprint"`

	Headers []string `json:"headers"`
	Rows    []*Row   `json:"rows"`

	// SourceHeaders is the header row exactly as read from a CSV file, before
	// blank and duplicate names were made unique in Headers. Save writes these
	// back. Nil for XLSX and for documents built in memory.
	SourceHeaders []string `json:"sourceHeaders,omitempty"`
}

// NewDocument creates a document for the given headers and rows.
// Rows are re-indexed in slice order.
func NewDocument(headers []string, rows []*Row) *Document {
	if headers == nil {
		headers = []string{}
	}
	if rows == nil {
		rows = []*Row{}
	}
	for i, row := range rows {
		row.Index = i
	}
	return &Document{
		Headers: headers,
		Rows:    rows,
	}
}

// IsEmpty reports whether the document has neither headers nor rows.
func (d *Document) IsEmpty() bool {
	return d == nil || (len(d.Headers) == 0 && len(d.Rows) == 0)
}

// Row returns the row at index i, or nil when out of range.
func (d *Document) Row(i int) *Row {
	if d == nil || i < 0 || i >= len(d.Rows) {
		return nil
	}
	return d.Rows[i]
}

// HasHeader reports whether header is one of the document's original headers.
func (d *Document) HasHeader(header string) bool {
	if d == nil {
		return false
	}
	for _, h := range d.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// AnnotationCount returns the total number of annotations over all rows.
func (d *Document) AnnotationCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, row := range d.Rows {
		n += len(row.Annotations)
	}
	return n
}

// FindAnnotation locates an annotation by ID across all rows.
func (d *Document) FindAnnotation(id string) (*Row, *Annotation) {
	if d == nil || id == "" {
		return nil, nil
	}
	for _, row := range d.Rows {
		if a := row.FindAnnotation(id); a != nil {
			return row, a
		}
	}
	return nil, nil
}

// OutputNames returns the header names to write for Headers: SourceHeaders
// when they line up with Headers, otherwise Headers.
func (d *Document) OutputNames() []string {
	if d == nil {
		return nil
	}
	if len(d.SourceHeaders) == len(d.Headers) {
		return d.SourceHeaders
	}
	return d.Headers
}

// IndexOfHeaderFold returns the position of name in headers using a
// case-insensitive comparison, or -1.
func IndexOfHeaderFold(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the document. Annotation IDs are kept.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Path:        d.Path,
		Format:      d.Format,
		Fingerprint: d.Fingerprint,
		Headers:     append([]string{}, d.Headers...),
		Rows:        make([]*Row, len(d.Rows)),
	}
	if d.SourceHeaders != nil {
		out.SourceHeaders = append([]string{}, d.SourceHeaders...)
	}
	for i, row := range d.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	if r == nil {
		return nil
	}
	data := make(map[string]string, len(r.OriginalData))
	for k, v := range r.OriginalData {
		data[k] = v
	}
	annotations := make([]*Annotation, len(r.Annotations))
	for i, a := range r.Annotations {
		c := *a
		annotations[i] = &c
	}
	return &Row{
		Index:          r.Index,
		SheetRow:       r.SheetRow,
		OriginalData:   data,
		Annotations:    annotations,
		TextToAnnotate: r.TextToAnnotate,
	}
}
