package fileloader

import (
	"context"
	"testing"

	"babsa/app/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		header, rows, err := ReadCSV(context.Background(), []byte("id,review\n1,great battery\n2,\"pricey, but ok\"\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "review"}, header)
		require.Len(t, rows, 2)
		assert.Equal(t, map[string]string{"id": "1", "review": "great battery"}, rows[0].OriginalData)
		assert.Equal(t, "pricey, but ok", rows[1].Value("review"))
		assert.Equal(t, 1, rows[1].Index)
		assert.Empty(t, rows[0].Annotations)
	})

	t.Run("header only", func(t *testing.T) {
		header, rows, err := ReadCSV(context.Background(), []byte("id,review\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "review"}, header)
		assert.Empty(t, rows)
	})

	t.Run("empty data has no header", func(t *testing.T) {
		_, _, err := ReadCSV(context.Background(), []byte(""))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("blank header cells only", func(t *testing.T) {
		_, _, err := ReadCSV(context.Background(), []byte(" , \n1,2\n"))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("ragged rows", func(t *testing.T) {
		_, rows, err := ReadCSV(context.Background(), []byte("a,b,c\n1\n1,2,3,4,5\n"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, map[string]string{"a": "1", "b": "", "c": ""}, rows[0].OriginalData)
		assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, rows[1].OriginalData)
	})

	t.Run("rows without data are skipped", func(t *testing.T) {
		_, rows, err := ReadCSV(context.Background(), []byte("a,b\n,\n\nx,y\n"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "x", rows[0].Value("a"))
		assert.Equal(t, 0, rows[0].Index)
	})

	t.Run("byte order mark is stripped", func(t *testing.T) {
		header, _, err := ReadCSV(context.Background(), []byte("\ufeffid,text\n1,x\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "text"}, header)
	})

	t.Run("duplicate and blank headers", func(t *testing.T) {
		header, rows, err := ReadCSV(context.Background(), []byte("text,,text\na,b,c\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"text", "Column2", "text_2"}, header)
		assert.Equal(t, "c", rows[0].Value("text_2"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := ReadCSV(ctx, []byte("a\n1\n"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReadCSVQuotedLineBreaks(t *testing.T) {
	// encoding/csv folds \r\n inside a quoted field to \n.
	_, rows, err := ReadCSV(context.Background(), []byte("id,note\r\n1,\"line1\r\nline2\"\r\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "line1\nline2", rows[0].Value("note"))

	out, err := WriteCSV(table.NewDocument([]string{"id", "note"}, rows))
	require.NoError(t, err)
	assert.Equal(t, "id,note,AnnotatedAspect,AnnotatedSentiment\n1,\"line1\nline2\",,\n", string(out))
}

func TestWriteCSV(t *testing.T) {
	t.Run("derived columns appended", func(t *testing.T) {
		row := table.NewRow(0, map[string]string{"id": "1", "review": "cheap, battery dies"})
		row.Annotations = append(row.Annotations,
			table.NewAnnotation("price", "positive"),
			table.NewAnnotation("battery", "negative"),
		)
		doc := table.NewDocument([]string{"id", "review"}, []*table.Row{row})

		out, err := WriteCSV(doc)
		require.NoError(t, err)
		assert.Equal(t,
			"id,review,AnnotatedAspect,AnnotatedSentiment\n"+
				"1,\"cheap, battery dies\",price; battery,positive; negative\n",
			string(out))
	})

	t.Run("existing derived column keeps its position", func(t *testing.T) {
		row := table.NewRow(0, map[string]string{"annotatedaspect": "old", "text": "hi"})
		row.Annotations = append(row.Annotations, table.NewAnnotation("screen", "Mixed"))
		doc := table.NewDocument([]string{"annotatedaspect", "text"}, []*table.Row{row})

		out, err := WriteCSV(doc)
		require.NoError(t, err)
		assert.Equal(t, "annotatedaspect,text,AnnotatedSentiment\nscreen,hi,Mixed\n", string(out))
	})

	t.Run("empty values are skipped when joining", func(t *testing.T) {
		row := table.NewRow(0, map[string]string{"t": "x"})
		row.Annotations = append(row.Annotations,
			&table.Annotation{Aspect: "", Sentiment: "neutral"},
			&table.Annotation{Aspect: "size", Sentiment: ""},
		)
		doc := table.NewDocument([]string{"t"}, []*table.Row{row})

		out, err := WriteCSV(doc)
		require.NoError(t, err)
		assert.Equal(t, "t,AnnotatedAspect,AnnotatedSentiment\nx,size,neutral\n", string(out))
	})
}

func TestOutputHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "AnnotatedAspect", "AnnotatedSentiment"},
		OutputHeaders([]string{"a"}))
	assert.Equal(t,
		[]string{"ANNOTATEDSENTIMENT", "a", "AnnotatedAspect"},
		OutputHeaders([]string{"ANNOTATEDSENTIMENT", "a"}))
}
