package fileloader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"babsa/app/table"
)

// CSV file reading and writing
// This file contains the CSV-specific parts of Load and Save. Both work on
// in-memory bytes; compression and file access are handled by the caller.

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// ReadCSV parses CSV data into normalized headers and rows.
// The first record is the header row; ErrMissingHeader is returned when
// there is none or when every header cell is blank. Ragged records are
// accepted: missing trailing fields become "" and extra fields are ignored.
// Records with no data in any field are skipped, as are records the parser
// rejects.
func ReadCSV(ctx context.Context, data []byte) ([]string, []*table.Row, error) {
	_, header, rows, err := readCSV(ctx, data)
	return header, rows, err
}

// readCSV is ReadCSV that also returns the header row as read, BOM removed.
func readCSV(ctx context.Context, data []byte) (source, header []string, rows []*table.Row, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reader := newCSVReader(bytes.NewReader(data))

	firstRow, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil, ErrMissingHeader
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(firstRow) > 0 {
		firstRow[0] = strings.TrimPrefix(firstRow[0], utf8BOM)
	}
	if allBlank(trimAll(firstRow)) {
		return nil, nil, nil, ErrMissingHeader
	}

	source = append([]string{}, firstRow...)
	header = NormalizeHeaders(firstRow)

	rows = make([]*table.Row, 0)
	for recordNum := 0; ; recordNum++ {
		if recordNum%ContextCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, nil, nil, ctx.Err()
			default:
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Lenient: drop the malformed record, keep the rest of the file
				continue
			}
			return nil, nil, nil, err
		}
		if allBlank(record) {
			continue
		}

		rows = append(rows, table.NewRow(len(rows), recordToMap(header, record)))
	}

	return source, header, rows, nil
}

// WriteCSV serializes the document: original headers in order, followed by
// the derived annotation columns unless a header with the same name (any
// case) already exists, in which case that position is reused. Header names
// are written as they were read (doc.SourceHeaders) when available.
func WriteCSV(doc *table.Document) ([]byte, error) {
	names := doc.OutputNames()
	header := OutputHeaders(names)
	aspectIdx := table.IndexOfHeaderFold(header, table.AspectColumn)
	sentimentIdx := table.IndexOfHeaderFold(header, table.SentimentColumn)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, err
	}

	record := make([]string, len(header))
	for _, row := range doc.Rows {
		for i := range header {
			switch {
			case i == aspectIdx:
				record[i] = row.JoinAspects()
			case i == sentimentIdx:
				record[i] = row.JoinSentiments()
			case i < len(doc.Headers):
				record[i] = row.Value(doc.Headers[i])
			default:
				record[i] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OutputHeaders returns headers with the derived columns appended when not
// already present.
func OutputHeaders(headers []string) []string {
	out := make([]string, len(headers), len(headers)+2)
	copy(out, headers)
	if table.IndexOfHeaderFold(out, table.AspectColumn) < 0 {
		out = append(out, table.AspectColumn)
	}
	if table.IndexOfHeaderFold(out, table.SentimentColumn) < 0 {
		out = append(out, table.SentimentColumn)
	}
	return out
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	// Allow variable number of fields per record to handle ragged CSV files
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func trimAll(record []string) []string {
	out := make([]string, len(record))
	for i, v := range record {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
