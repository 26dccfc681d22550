package analytics

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/angelmondragon/orderlens/api/validators"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/internal/ingest"
	"github.com/angelmondragon/orderlens/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
)

const (
	fileField        = "file"
	optionsField     = "options"
	multipartMemory  = 8 << 20
	contentTypeJSON  = "application/json"
	contentTypeMulti = "multipart/form-data"
)

// RequestOptions tunes an analytics call. Zero values fall back to the server defaults.
type RequestOptions struct {
	Format         enums.FileFormat       `json:"format,omitempty" validate:"omitempty,oneof=csv xlsx"`
	Mapping        *types.ColumnMapping   `json:"mapping,omitempty"`
	Selection      *types.PeriodSelection `json:"selection,omitempty"`
	TopSKUs        int                    `json:"top_skus,omitempty" validate:"omitempty,min=1,max=100"`
	ComparisonSKUs int                    `json:"comparison_skus,omitempty" validate:"omitempty,min=1,max=100"`
	GrowthRate     float64                `json:"growth_rate,omitempty" validate:"omitempty,gt=0,lte=10"`
	Horizon        int                    `json:"horizon,omitempty" validate:"omitempty,min=1,max=12"`
}

// JSONRequest carries already-tabulated records instead of a file.
type JSONRequest struct {
	Records []types.OrderRecord `json:"records" validate:"required"`
	RequestOptions
}

// IngestSummary reports what was read from the uploaded table.
type IngestSummary struct {
	Rows        int                `json:"rows"`
	Records     int                `json:"records"`
	Diagnostics []types.Diagnostic `json:"diagnostics,omitempty"`
}

type dataset struct {
	records []types.OrderRecord
	options RequestOptions
	summary IngestSummary
}

// readDataset accepts either a multipart upload (a "file" part plus an optional "options" JSON
// field) or a JSON body with the records inline. Inline records pass the same row checks as
// uploaded tables.
func readDataset(ctx context.Context, r *http.Request, parser *ingest.Parser) (*dataset, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content type required").
			WithDetails(map[string]any{"accepted": []string{contentTypeMulti, contentTypeJSON}})
	}

	switch mediaType {
	case contentTypeJSON:
		var body JSONRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return nil, err
		}
		records, diags := ingest.ValidateRecords(body.Records)
		if len(records) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "no valid records found").
				WithDetails(map[string]any{"rows": len(body.Records), "diagnostics": diags})
		}
		return &dataset{
			records: records,
			options: body.RequestOptions,
			summary: IngestSummary{Rows: len(body.Records), Records: len(records), Diagnostics: diags},
		}, nil
	case contentTypeMulti:
		return readUpload(ctx, r, parser)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported content type").
			WithDetails(map[string]any{"content_type": mediaType, "accepted": []string{contentTypeMulti, contentTypeJSON}})
	}
}

func readUpload(ctx context.Context, r *http.Request, parser *ingest.Parser) (*dataset, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge := validators.AsPayloadTooLarge(err); tooLarge != nil {
			return nil, tooLarge
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	defer r.MultipartForm.RemoveAll()

	var opts RequestOptions
	if raw := strings.TrimSpace(r.FormValue(optionsField)); raw != "" {
		if err := validators.DecodeJSON(strings.NewReader(raw), &opts); err != nil {
			return nil, err
		}
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required").
			WithDetails(map[string]string{fileField: "is required"})
	}
	defer file.Close()

	format := opts.Format
	if format == "" {
		format = enums.FileFormatFromName(header.Filename)
	}
	mapping := types.DefaultColumnMapping()
	if opts.Mapping != nil {
		mapping = *opts.Mapping
	}

	res, err := parser.Parse(ctx, file, ingest.Options{Format: format, Mapping: mapping})
	if err != nil {
		return nil, err
	}
	return &dataset{
		records: res.Records,
		options: opts,
		summary: IngestSummary{Rows: res.Rows, Records: len(res.Records), Diagnostics: res.Diagnostics},
	}, nil
}
