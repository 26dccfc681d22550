package ingest

import (
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/orderlens/internal/analytics/periods"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
)

// sheetTable reads the first worksheet of a workbook. Cells are read raw, so date cells arrive
// as serial numbers and are converted here.
type sheetTable struct {
	rows       [][]string
	width      int
	pos        int
	dateColumn int
}

func newSheetTable(r io.Reader) (*sheetTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, "could not open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, "could not read worksheet")
	}
	return &sheetTable{rows: rows, dateColumn: -1}, nil
}

func (t *sheetTable) header() ([]string, error) {
	for t.pos < len(t.rows) {
		values := t.rows[t.pos]
		t.pos++
		if !blank(values) {
			t.width = len(values)
			return values, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "table must contain a header row and at least one data row")
}

func (t *sheetTable) next() (row, bool, error) {
	if t.pos >= len(t.rows) {
		return row{}, false, nil
	}
	values := t.rows[t.pos]
	t.pos++
	// excelize trims trailing empty cells
	if len(values) < t.width {
		padded := make([]string, t.width)
		copy(padded, values)
		values = padded
	}
	if t.dateColumn >= 0 && t.dateColumn < len(values) {
		values[t.dateColumn] = normalizeSerialDate(values[t.dateColumn])
	}
	return row{line: t.pos, values: values}, true, nil
}

func (t *sheetTable) useDateColumn(index int) {
	t.dateColumn = index
}

// normalizeSerialDate converts an Excel serial date to YYYY-MM-DD and leaves any other text alone.
func normalizeSerialDate(text string) string {
	trimmed := strings.TrimSpace(text)
	serial, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || serial <= 0 {
		return text
	}
	date, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return text
	}
	return periods.FormatDate(date)
}
