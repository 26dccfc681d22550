// Package ingest turns uploaded CSV and XLSX order tables into order records. Bad rows are
// skipped and reported as diagnostics; only problems with the table as a whole fail a parse.
package ingest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/angelmondragon/orderlens/internal/analytics/periods"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
	"github.com/angelmondragon/orderlens/pkg/logger"
	"github.com/angelmondragon/orderlens/pkg/metrics"
)

const cancelCheckEvery = 1024

// Options selects the table format and the headers of the required columns.
type Options struct {
	Format  enums.FileFormat
	Mapping types.ColumnMapping
}

// Result is a parsed table.
type Result struct {
	Records     []types.OrderRecord `json:"records"`
	Diagnostics []types.Diagnostic  `json:"diagnostics,omitempty"`
	// Rows counts the non-blank data rows read, valid or not.
	Rows int `json:"rows"`
}

// Parser reads order tables.
type Parser struct {
	logg    *logger.Logger
	metrics *metrics.IngestMetrics
}

// NewParser builds a parser. Both collaborators may be nil.
func NewParser(logg *logger.Logger, m *metrics.IngestMetrics) *Parser {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Parser{logg: logg, metrics: m}
}

// row is one raw table line with its 1-based position in the file. A non-empty reason marks a
// line the reader could not split into cells.
type row struct {
	line   int
	values []string
	reason string
}

// table is what the format readers hand to the shared row decoder.
type table interface {
	header() ([]string, error)
	next() (row, bool, error)
}

// dateAware tables store dates in a native form that must be converted once the date column
// is known.
type dateAware interface {
	useDateColumn(index int)
}

// Parse reads a whole table from r.
func (p *Parser) Parse(ctx context.Context, r io.Reader, opts Options) (res *Result, err error) {
	format := opts.Format
	if format == "" {
		format = enums.FileFormatCSV
	}
	ctx = p.logg.WithFields(ctx, map[string]any{"format": string(format)})
	defer func() {
		p.metrics.IncBatch(string(format), err)
		if err != nil {
			p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "order table rejected")
		}
	}()

	if !format.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file format").
			WithDetails(map[string]any{"format": string(format)})
	}
	if err := validateMapping(opts.Mapping); err != nil {
		return nil, err
	}

	var tbl table
	switch format {
	case enums.FileFormatXLSX:
		tbl, err = newSheetTable(r)
	default:
		tbl, err = newCSVTable(r)
	}
	if err != nil {
		return nil, err
	}

	header, err := tbl.header()
	if err != nil {
		return nil, err
	}
	cols, err := locateColumns(header, opts.Mapping)
	if err != nil {
		return nil, err
	}
	if aware, ok := tbl.(dateAware); ok {
		aware.useDateColumn(cols.date)
	}

	res = &Result{Records: []types.OrderRecord{}}
	for {
		if res.Rows%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line, ok, err := tbl.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if line.reason != "" {
			res.Rows++
			res.Diagnostics = append(res.Diagnostics, types.Diagnostic{Row: line.line, Reason: line.reason})
			continue
		}
		if blank(line.values) {
			continue
		}
		res.Rows++
		record, reason := decodeRow(line.values, len(header), cols)
		if reason != "" {
			res.Diagnostics = append(res.Diagnostics, types.Diagnostic{Row: line.line, Reason: reason})
			continue
		}
		res.Records = append(res.Records, record)
	}

	p.metrics.AddRows(string(format), len(res.Records), len(res.Diagnostics))
	if res.Rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "table must contain a header row and at least one data row")
	}
	if len(res.Records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "no valid data rows found").
			WithDetails(map[string]any{"rows": res.Rows, "diagnostics": res.Diagnostics})
	}

	fields := map[string]any{"rows": res.Rows, "records": len(res.Records), "skipped": len(res.Diagnostics)}
	if len(res.Diagnostics) > 0 {
		p.logg.Warn(p.logg.WithFields(ctx, fields), "order table parsed with skipped rows")
	} else {
		p.logg.Info(p.logg.WithFields(ctx, fields), "order table parsed")
	}
	return res, nil
}

func validateMapping(m types.ColumnMapping) error {
	details := map[string]string{}
	for field, header := range mappingFields(m) {
		if strings.TrimSpace(header) == "" {
			details[field] = "is required"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "column mapping incomplete").WithDetails(details)
	}
	return nil
}

func mappingFields(m types.ColumnMapping) map[string]string {
	return map[string]string{
		"order_number": m.OrderNumber,
		"sku":          m.SKU,
		"quantity":     m.Quantity,
		"date":         m.Date,
	}
}

type columns struct {
	orderNumber int
	sku         int
	quantity    int
	date        int
}

// locateColumns finds each mapped header, ignoring case and surrounding whitespace. Every
// missing column is reported in one error.
func locateColumns(header []string, m types.ColumnMapping) (columns, error) {
	find := func(name string) int {
		name = strings.TrimSpace(name)
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	var (
		cols    columns
		errs    error
		missing []string
	)
	for _, target := range []struct {
		field  string
		header string
		index  *int
	}{
		{"order_number", m.OrderNumber, &cols.orderNumber},
		{"sku", m.SKU, &cols.sku},
		{"quantity", m.Quantity, &cols.quantity},
		{"date", m.Date, &cols.date},
	} {
		*target.index = find(target.header)
		if *target.index < 0 {
			missing = append(missing, target.header)
			errs = multierr.Append(errs, fmt.Errorf("required column %q (%s) not found", target.header, target.field))
		}
	}
	if errs != nil {
		return columns{}, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, errs, "required columns missing").
			WithDetails(map[string]any{"missing": missing, "header": header})
	}
	return cols, nil
}

// decodeRow validates one data row. A non-empty reason means the row is skipped.
func decodeRow(values []string, width int, cols columns) (types.OrderRecord, string) {
	if len(values) != width {
		return types.OrderRecord{}, fmt.Sprintf("expected %d columns, got %d", width, len(values))
	}
	cell := func(i int) string { return strings.TrimSpace(values[i]) }

	qtyText := cell(cols.quantity)
	qty, err := strconv.Atoi(qtyText)
	if err != nil {
		return types.OrderRecord{}, fmt.Sprintf("invalid quantity %q", qtyText)
	}
	return checkRecord(types.OrderRecord{
		OrderNumber: cell(cols.orderNumber),
		SKU:         cell(cols.sku),
		Quantity:    qty,
		Date:        cell(cols.date),
	})
}

// checkRecord applies the row rules shared by tables and inline records and canonicalizes the
// date. A non-empty reason means the record is skipped.
func checkRecord(record types.OrderRecord) (types.OrderRecord, string) {
	if record.Quantity < 0 {
		return types.OrderRecord{}, fmt.Sprintf("negative quantity %d", record.Quantity)
	}
	date, err := periods.ParseDate(record.Date)
	if err != nil {
		return types.OrderRecord{}, fmt.Sprintf("invalid date %q", strings.TrimSpace(record.Date))
	}
	record.OrderNumber = strings.TrimSpace(record.OrderNumber)
	record.SKU = strings.TrimSpace(record.SKU)
	record.Date = periods.FormatDate(date)
	if record.OrderNumber == "" || record.SKU == "" {
		return types.OrderRecord{}, "missing order number or sku"
	}
	return record, ""
}

// ValidateRecords applies the table row rules to records that arrive already structured.
// Invalid records are dropped and reported with their 1-based position in records.
func ValidateRecords(records []types.OrderRecord) ([]types.OrderRecord, []types.Diagnostic) {
	valid := make([]types.OrderRecord, 0, len(records))
	var diags []types.Diagnostic
	for i, record := range records {
		checked, reason := checkRecord(record)
		if reason != "" {
			diags = append(diags, types.Diagnostic{Row: i + 1, Reason: reason})
			continue
		}
		valid = append(valid, checked)
	}
	return valid, diags
}

func blank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
