// Package annotation holds the operations that change a loaded document:
// selecting the annotation column and adding or removing annotations on a
// row. Session wraps them with the load/save lifecycle of a single document.
package annotation

import (
	"errors"
	"strings"

	"babsa/app/table"
)

var (
	ErrNoRowSelected  = errors.New("no row selected")
	ErrBlankAspect    = errors.New("aspect must not be blank")
	ErrBlankSentiment = errors.New("sentiment must not be blank")
	ErrRowNotFound    = errors.New("row is not part of the document")
)

// SelectAnnotationColumn recomputes TextToAnnotate for every row from header.
// Rows without a value for header get table.NotAvailable.
func SelectAnnotationColumn(doc *table.Document, header string) {
	if doc == nil {
		return
	}
	for _, row := range doc.Rows {
		if text, ok := row.OriginalData[header]; ok {
			row.TextToAnnotate = text
		} else {
			row.TextToAnnotate = table.NotAvailable
		}
	}
}

// CanAddAnnotation reports whether AddAnnotation would accept the arguments.
func CanAddAnnotation(row *table.Row, aspect, sentiment string) bool {
	return validate(row, aspect, sentiment) == nil
}

// AddAnnotation appends a new annotation to row, which must belong to doc.
// Aspect and sentiment are stored verbatim; equal pairs are not merged.
func AddAnnotation(doc *table.Document, row *table.Row, aspect, sentiment string) (*table.Annotation, error) {
	if err := validate(row, aspect, sentiment); err != nil {
		return nil, err
	}
	if doc.Row(row.Index) != row {
		return nil, ErrRowNotFound
	}
	a := table.NewAnnotation(aspect, sentiment)
	row.Annotations = append(row.Annotations, a)
	return a, nil
}

// RemoveAnnotation removes the given annotation instance from row and reports
// whether it was there. Other annotations with the same values are kept.
func RemoveAnnotation(row *table.Row, a *table.Annotation) bool {
	if row == nil || a == nil {
		return false
	}
	for i, existing := range row.Annotations {
		if existing == a {
			row.Annotations = append(row.Annotations[:i], row.Annotations[i+1:]...)
			return true
		}
	}
	return false
}

// ClearAnnotations drops every annotation of row and returns how many there were.
func ClearAnnotations(row *table.Row) int {
	if row == nil {
		return 0
	}
	n := len(row.Annotations)
	row.Annotations = make([]*table.Annotation, 0)
	return n
}

// CanSave reports whether doc has rows and a path to write back to.
func CanSave(doc *table.Document) bool {
	return doc != nil && len(doc.Rows) > 0 && doc.Path != ""
}

func validate(row *table.Row, aspect, sentiment string) error {
	switch {
	case row == nil:
		return ErrNoRowSelected
	case strings.TrimSpace(aspect) == "":
		return ErrBlankAspect
	case strings.TrimSpace(sentiment) == "":
		return ErrBlankSentiment
	}
	return nil
}

// ImportDerivedColumns rebuilds annotations from AnnotatedAspect and
// AnnotatedSentiment cells already present in the source data. A row is
// imported only when both cells split into the same number of values; other
// rows with derived values are counted as skipped. Rows that already have
// annotations are left alone.
func ImportDerivedColumns(doc *table.Document) (imported, skipped int) {
	if doc == nil {
		return 0, 0
	}
	aspectIdx := table.IndexOfHeaderFold(doc.Headers, table.AspectColumn)
	sentimentIdx := table.IndexOfHeaderFold(doc.Headers, table.SentimentColumn)
	if aspectIdx < 0 || sentimentIdx < 0 {
		return 0, 0
	}
	aspectHeader := doc.Headers[aspectIdx]
	sentimentHeader := doc.Headers[sentimentIdx]

	for _, row := range doc.Rows {
		if len(row.Annotations) > 0 {
			continue
		}
		aspects := splitJoined(row.Value(aspectHeader))
		sentiments := splitJoined(row.Value(sentimentHeader))
		if len(aspects) == 0 && len(sentiments) == 0 {
			continue
		}
		if len(aspects) != len(sentiments) {
			skipped++
			continue
		}
		for i := range aspects {
			row.Annotations = append(row.Annotations, table.NewAnnotation(aspects[i], sentiments[i]))
			imported++
		}
	}
	return imported, skipped
}

func splitJoined(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, table.JoinSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
