package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvTable struct {
	reader *csv.Reader
}

func newCSVTable(r io.Reader) (*csvTable, error) {
	buffered := bufio.NewReader(r)
	if prefix, err := buffered.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := buffered.Discard(len(utf8BOM)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, "could not read table")
		}
	}
	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	return &csvTable{reader: reader}, nil
}

func (t *csvTable) header() ([]string, error) {
	values, err := t.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "table must contain a header row and at least one data row")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, "could not read header row")
	}
	return values, nil
}

func (t *csvTable) next() (row, bool, error) {
	values, err := t.reader.Read()
	if errors.Is(err, io.EOF) {
		return row{}, false, nil
	}
	if err != nil {
		// The reader resumes on the line after a parse error.
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return row{line: parseErr.StartLine, reason: fmt.Sprintf("malformed csv: %v", parseErr.Err)}, true, nil
		}
		return row{}, false, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, "could not read table")
	}
	line, _ := t.reader.FieldPos(0)
	return row{line: line, values: values}, true, nil
}
