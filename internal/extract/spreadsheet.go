package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	app_errors "legis-pro/backend/internal/errors"
)

// CellDelimiter separates cell values on a spreadsheet line.
const CellDelimiter = "|"

// XLSX returns the text of the first worksheet of an Office Open XML workbook.
// The first row is not treated as a header: it is emitted like any other row.
func XLSX(r io.Reader) (text string, err error) {
	defer recoverParse(KindXLSX, &err)

	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", app_errors.ErrParse, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("%w: sheet %q: %v", app_errors.ErrParse, sheets[0], err)
	}
	return RowsToText(rows), nil
}

// XLS returns the text of the first worksheet of a legacy BIFF workbook.
// As with XLSX, the header row is included in the text.
func XLS(r io.ReadSeeker) (text string, err error) {
	defer recoverParse(KindXLS, &err)

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return "", fmt.Errorf("%w: %v", app_errors.ErrParse, err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return "", nil
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return RowsToText(rows), nil
}

// RowsToText renders rows as one line per row. Cells are trimmed and joined
// with CellDelimiter, short rows are padded to the widest row, and rows with
// no content left after trimming are dropped.
func RowsToText(rows [][]string) string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	lines := make([]string, 0, len(rows))
	cells := make([]string, width)
	for _, row := range rows {
		empty := true
		for i := range cells {
			cells[i] = ""
			if i < len(row) {
				cells[i] = strings.TrimSpace(row[i])
			}
			if cells[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		lines = append(lines, strings.Join(cells, CellDelimiter))
	}
	return strings.Join(lines, "\n")
}
