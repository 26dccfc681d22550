package analytics

import (
	"net/http"

	"github.com/angelmondragon/orderlens/api/responses"
	"github.com/angelmondragon/orderlens/internal/analytics"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/internal/ingest"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
	"github.com/angelmondragon/orderlens/pkg/logger"
)

type PeriodsResponse struct {
	Ingest  IngestSummary          `json:"ingest"`
	Periods *types.PeriodsResponse `json:"periods"`
}

type CompareResponse struct {
	Ingest IngestSummary           `json:"ingest"`
	Report *types.ComparisonReport `json:"report"`
}

type PredictResponse struct {
	Ingest IngestSummary           `json:"ingest"`
	Report *types.PredictionReport `json:"report"`
}

func Periods(service analytics.Service, parser *ingest.Parser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data, err := readDataset(ctx, r, parser)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		periods, err := service.Periods(ctx, data.records)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, PeriodsResponse{Ingest: data.summary, Periods: periods})
	}
}

// Compare reports on the selection in the request options. Without one, the last two months of
// the dataset are compared.
func Compare(service analytics.Service, parser *ingest.Parser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data, err := readDataset(ctx, r, parser)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		selection := data.options.Selection
		if selection == nil {
			periods, err := service.Periods(ctx, data.records)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if periods.Initial == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "selection is required when the data spans fewer than two months").
					WithDetails(map[string]any{"months": periods.Available.Months}))
				return
			}
			selection = periods.Initial
		}

		report, err := service.Compare(ctx, types.CompareRequest{
			Records:        data.records,
			Selection:      *selection,
			TopSKUs:        data.options.TopSKUs,
			ComparisonSKUs: data.options.ComparisonSKUs,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, CompareResponse{Ingest: data.summary, Report: report})
	}
}

func Predict(service analytics.Service, parser *ingest.Parser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data, err := readDataset(ctx, r, parser)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := service.Predict(ctx, types.PredictRequest{
			Records:    data.records,
			GrowthRate: data.options.GrowthRate,
			Horizon:    data.options.Horizon,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, PredictResponse{Ingest: data.summary, Report: report})
	}
}
