package fileloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"babsa/app/table"

	"github.com/xuri/excelize/v2"
)

// XLSX (Excel) file reading and writing
// Only the first worksheet is used. Row 1 holds the headers and data starts
// at row 2.

var errNoWorksheet = errors.New("worksheet not found")

// firstSheet returns the name of the first worksheet.
func firstSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errNoWorksheet
	}
	return sheets[0], nil
}

// sheetWidth returns the number of columns used by the widest row.
func sheetWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// ReadXLSX parses the first worksheet of XLSX data into normalized headers
// and rows. Blank header cells are named ColumnN. A sheet with no rows
// returns ErrEmptyDocument. Rows without data in any cell are skipped; kept
// rows remember the worksheet row they came from in SheetRow.
func ReadXLSX(ctx context.Context, data []byte) ([]string, []*table.Row, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheetName, err := firstSheet(f)
	if err != nil {
		return nil, nil, ErrEmptyDocument
	}

	sheetRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, err
	}
	if len(sheetRows) == 0 {
		return nil, nil, ErrEmptyDocument
	}

	width := sheetWidth(sheetRows)
	headerCells := make([]string, width)
	copy(headerCells, sheetRows[0])
	header := NormalizeHeaders(headerCells)

	rows := make([]*table.Row, 0, len(sheetRows)-1)
	for i := 1; i < len(sheetRows); i++ {
		if i%ContextCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			default:
			}
		}

		record := sheetRows[i]
		if allBlank(record) {
			continue
		}

		row := table.NewRow(len(rows), recordToMap(header, record))
		row.SheetRow = i + 1
		rows = append(rows, row)
	}

	return header, rows, nil
}

// sheetColumns tracks the header row of a worksheet while derived columns
// are located or added.
type sheetColumns struct {
	header []string
	extent int
}

// findOrCreate returns the 1-based column whose row-1 text equals name
// (case-insensitive). When there is none the name is written one column to
// the right of the current extent, which then grows by one.
func (sc *sheetColumns) findOrCreate(f *excelize.File, sheetName, name string) (int, error) {
	if idx := table.IndexOfHeaderFold(sc.header, name); idx >= 0 {
		return idx + 1, nil
	}

	col := sc.extent + 1
	cell, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellStr(sheetName, cell, name); err != nil {
		return 0, err
	}

	for len(sc.header) < col-1 {
		sc.header = append(sc.header, "")
	}
	sc.header = append(sc.header, name)
	sc.extent = col
	return col, nil
}

// WriteXLSX writes the derived annotation columns into the first worksheet
// of an open workbook. Cells outside the two derived columns are left as
// they are.
func WriteXLSX(f *excelize.File, doc *table.Document) error {
	sheetName, err := firstSheet(f)
	if err != nil {
		return err
	}

	sheetRows, err := f.GetRows(sheetName)
	if err != nil {
		return err
	}

	cols := &sheetColumns{extent: sheetWidth(sheetRows)}
	if len(sheetRows) > 0 {
		cols.header = append(cols.header, sheetRows[0]...)
	}
	for i := range cols.header {
		cols.header[i] = strings.TrimSpace(cols.header[i])
	}

	aspectCol, err := cols.findOrCreate(f, sheetName, table.AspectColumn)
	if err != nil {
		return fmt.Errorf("failed to place %s column: %w", table.AspectColumn, err)
	}
	sentimentCol, err := cols.findOrCreate(f, sheetName, table.SentimentColumn)
	if err != nil {
		return fmt.Errorf("failed to place %s column: %w", table.SentimentColumn, err)
	}

	for _, row := range doc.Rows {
		sheetRow := row.SheetRow
		if sheetRow <= 0 {
			sheetRow = row.Index + 2
		}

		aspectCell, err := excelize.CoordinatesToCellName(aspectCol, sheetRow)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetName, aspectCell, row.JoinAspects()); err != nil {
			return err
		}

		sentimentCell, err := excelize.CoordinatesToCellName(sentimentCol, sheetRow)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetName, sentimentCell, row.JoinSentiments()); err != nil {
			return err
		}
	}

	return nil
}
