package annotation

import (
	"testing"

	"babsa/app/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *table.Document {
	return table.NewDocument([]string{"id", "review"}, []*table.Row{
		table.NewRow(0, map[string]string{"id": "1", "review": "battery lasts two days"}),
		table.NewRow(1, map[string]string{"id": "2"}),
	})
}

func TestSelectAnnotationColumn(t *testing.T) {
	doc := sampleDocument()

	SelectAnnotationColumn(doc, "review")
	assert.Equal(t, "battery lasts two days", doc.Rows[0].TextToAnnotate)
	assert.Equal(t, table.NotAvailable, doc.Rows[1].TextToAnnotate)

	SelectAnnotationColumn(doc, "id")
	assert.Equal(t, "1", doc.Rows[0].TextToAnnotate)
	assert.Equal(t, "2", doc.Rows[1].TextToAnnotate)

	SelectAnnotationColumn(doc, "missing")
	for _, row := range doc.Rows {
		assert.Equal(t, table.NotAvailable, row.TextToAnnotate)
	}

	assert.NotPanics(t, func() { SelectAnnotationColumn(nil, "id") })
}

func TestAddAnnotation(t *testing.T) {
	doc := sampleDocument()
	row := doc.Row(0)

	a, err := AddAnnotation(doc, row, "battery", "positive")
	require.NoError(t, err)
	assert.Equal(t, "battery", a.Aspect)
	assert.Equal(t, "positive", a.Sentiment)

	dup, err := AddAnnotation(doc, row, "battery", "positive")
	require.NoError(t, err)
	assert.NotSame(t, a, dup)
	assert.Len(t, row.Annotations, 2)

	_, err = AddAnnotation(doc, row, "screen", "sOmEwHaT gOoD")
	require.NoError(t, err)
	assert.Equal(t, "sOmEwHaT gOoD", row.Annotations[2].Sentiment)
}

func TestAddAnnotationRejectsInvalidInput(t *testing.T) {
	doc := sampleDocument()
	row := doc.Row(0)

	tests := []struct {
		name      string
		row       *table.Row
		aspect    string
		sentiment string
		want      error
	}{
		{"no row", nil, "battery", "positive", ErrNoRowSelected},
		{"empty aspect", row, "", "positive", ErrBlankAspect},
		{"whitespace aspect", row, "  \t", "positive", ErrBlankAspect},
		{"empty sentiment", row, "battery", "", ErrBlankSentiment},
		{"whitespace sentiment", row, "battery", " ", ErrBlankSentiment},
		{"foreign row", table.NewRow(0, nil), "battery", "positive", ErrRowNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := AddAnnotation(doc, tt.row, tt.aspect, tt.sentiment)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, doc.AnnotationCount())
			if tt.want != ErrRowNotFound {
				assert.False(t, CanAddAnnotation(tt.row, tt.aspect, tt.sentiment))
			}
		})
	}
}

func TestRemoveAnnotationByIdentity(t *testing.T) {
	doc := sampleDocument()
	row := doc.Row(0)
	first, err := AddAnnotation(doc, row, "price", "positive")
	require.NoError(t, err)
	second, err := AddAnnotation(doc, row, "price", "positive")
	require.NoError(t, err)

	assert.True(t, RemoveAnnotation(row, second))
	require.Len(t, row.Annotations, 1)
	assert.Same(t, first, row.Annotations[0])

	lookalike := &table.Annotation{ID: first.ID, Aspect: "price", Sentiment: "positive"}
	assert.False(t, RemoveAnnotation(row, lookalike))
	assert.False(t, RemoveAnnotation(row, second))
	assert.False(t, RemoveAnnotation(nil, first))
	assert.False(t, RemoveAnnotation(row, nil))
	assert.Len(t, row.Annotations, 1)
}

func TestClearAnnotations(t *testing.T) {
	doc := sampleDocument()
	row := doc.Row(1)
	_, _ = AddAnnotation(doc, row, "a", "b")
	_, _ = AddAnnotation(doc, row, "c", "d")

	assert.Equal(t, 2, ClearAnnotations(row))
	assert.Empty(t, row.Annotations)
	assert.Equal(t, 0, ClearAnnotations(nil))
}

func TestCanSave(t *testing.T) {
	doc := sampleDocument()
	assert.False(t, CanSave(nil))
	assert.False(t, CanSave(doc))

	doc.Path = "reviews.csv"
	assert.True(t, CanSave(doc))
	assert.False(t, CanSave(table.NewDocument([]string{"a"}, nil)))
}

func TestImportDerivedColumns(t *testing.T) {
	doc := table.NewDocument([]string{"text", "annotatedaspect", "AnnotatedSentiment"}, []*table.Row{
		table.NewRow(0, map[string]string{"text": "a", "annotatedaspect": "price; battery", "AnnotatedSentiment": "positive; negative"}),
		table.NewRow(1, map[string]string{"text": "b", "annotatedaspect": "price", "AnnotatedSentiment": "positive; negative"}),
		table.NewRow(2, map[string]string{"text": "c"}),
	})

	imported, skipped := ImportDerivedColumns(doc)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "price; battery", doc.Row(0).JoinAspects())
	assert.Equal(t, "positive; negative", doc.Row(0).JoinSentiments())
	assert.Empty(t, doc.Row(1).Annotations)
	assert.Empty(t, doc.Row(2).Annotations)

	imported, _ = ImportDerivedColumns(doc)
	assert.Equal(t, 0, imported, "rows with annotations are not imported twice")

	imported, skipped = ImportDerivedColumns(sampleDocument())
	assert.Zero(t, imported)
	assert.Zero(t, skipped)
}
