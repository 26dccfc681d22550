package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/angelmondragon/orderlens/internal/analytics/aggregate"
	"github.com/angelmondragon/orderlens/internal/analytics/compare"
	"github.com/angelmondragon/orderlens/internal/analytics/projection"
	"github.com/angelmondragon/orderlens/internal/analytics/skus"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/pkg/config"
	"github.com/angelmondragon/orderlens/pkg/logger"
	"github.com/angelmondragon/orderlens/pkg/metrics"
)

const (
	opPeriods = "periods"
	opCompare = "compare"
	opPredict = "predict"
)

// Service computes order analytics over an uploaded dataset.
type Service interface {
	// Periods lists the periods present in records and the default comparison.
	Periods(ctx context.Context, records []types.OrderRecord) (*types.PeriodsResponse, error)
	// Compare reports on the two periods of req.Selection.
	Compare(ctx context.Context, req types.CompareRequest) (*types.ComparisonReport, error)
	// Predict projects the dataset req.Horizon months forward.
	Predict(ctx context.Context, req types.PredictRequest) (*types.PredictionReport, error)
}

// Options wires the service's collaborators. Only Logger is required; a nil Cache disables
// memoization and nil Metrics records nothing.
type Options struct {
	Logger   *logger.Logger
	Metrics  *metrics.AnalyticsMetrics
	Cache    Cache
	CacheTTL time.Duration
	Defaults config.AnalyticsConfig
}

type service struct {
	logg     *logger.Logger
	metrics  *metrics.AnalyticsMetrics
	cache    Cache
	cacheTTL time.Duration
	defaults config.AnalyticsConfig
}

// NewService builds the analytics service.
func NewService(opts Options) Service {
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	defaults := opts.Defaults
	if defaults.DefaultGrowthRate <= 0 {
		defaults.DefaultGrowthRate = 1
	}
	if defaults.Horizon <= 0 {
		defaults.Horizon = projection.DefaultHorizon
	}
	if defaults.TopSKUs <= 0 {
		defaults.TopSKUs = compare.DefaultTopSKUs
	}
	if defaults.ComparisonSKUs <= 0 {
		defaults.ComparisonSKUs = compare.DefaultComparisonSKUs
	}
	return &service{
		logg:     logg,
		metrics:  opts.Metrics,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		defaults: defaults,
	}
}

func (s *service) Periods(ctx context.Context, records []types.OrderRecord) (resp *types.PeriodsResponse, err error) {
	ctx = s.logg.WithOperation(ctx, "analytics.periods")
	defer s.observe(opPeriods, time.Now(), &err)

	resp = &types.PeriodsResponse{
		Available: aggregate.AvailablePeriods(records),
		Records:   len(records),
	}
	if sel, ok := aggregate.InitialSelection(records); ok {
		resp.Initial = sel
	}
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"records": len(records),
		"months":  len(resp.Available.Months),
	}), "periods listed")
	return resp, nil
}

func (s *service) Compare(ctx context.Context, req types.CompareRequest) (report *types.ComparisonReport, err error) {
	ctx = s.logg.WithOperation(ctx, "analytics.compare")
	defer s.observe(opCompare, time.Now(), &err)

	if req.TopSKUs == 0 {
		req.TopSKUs = s.defaults.TopSKUs
	}
	if req.ComparisonSKUs == 0 {
		req.ComparisonSKUs = s.defaults.ComparisonSKUs
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := validateSelection(req.Selection); err != nil {
		return nil, err
	}

	return cached(ctx, s, opCompare, req, func() (*types.ComparisonReport, error) {
		items := skus.NormalizeAll(req.Records)
		skipped := map[int]types.Diagnostic{}
		first, second := aggregate.FilterSelection(items, req.Selection, aggregate.OnSkip(func(d types.Diagnostic) {
			skipped[d.Row] = d
		}))

		out := compare.Build(req.Selection, first, second, compare.Options{
			TopSKUs:        req.TopSKUs,
			ComparisonSKUs: req.ComparisonSKUs,
		})
		out.Skipped = sortedDiagnostics(skipped)

		fields := map[string]any{
			"type":    string(req.Selection.Type),
			"type2":   string(req.Selection.SecondType()),
			"records": len(req.Records),
			"period1": len(first),
			"period2": len(second),
			"skipped": len(out.Skipped),
		}
		if len(out.Skipped) > 0 {
			s.logg.Warn(s.logg.WithFields(ctx, fields), "comparison skipped rows with unparseable dates")
		} else {
			s.logg.Info(s.logg.WithFields(ctx, fields), "comparison built")
		}
		return &out, nil
	})
}

func (s *service) Predict(ctx context.Context, req types.PredictRequest) (report *types.PredictionReport, err error) {
	ctx = s.logg.WithOperation(ctx, "analytics.predict")
	defer s.observe(opPredict, time.Now(), &err)

	if req.GrowthRate == 0 {
		req.GrowthRate = s.defaults.DefaultGrowthRate
	}
	if req.Horizon == 0 {
		req.Horizon = s.defaults.Horizon
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	return cached(ctx, s, opPredict, req, func() (*types.PredictionReport, error) {
		items := skus.NormalizeAll(req.Records)
		history := projection.BuildHistory(items)
		out := &types.PredictionReport{
			GrowthRate:  req.GrowthRate,
			Horizon:     req.Horizon,
			SKUs:        history.SKUs,
			SKUAverages: history.SKUAverages,
			History:     history.Series,
			Predictions: projection.Project(history, req.GrowthRate, req.Horizon),
			Summary:     compare.Summarize(items),
		}
		if out.SKUs == nil {
			out.SKUs = []string{}
		}
		if out.History == nil {
			out.History = []types.Prediction{}
		}
		if out.Predictions == nil {
			out.Predictions = []types.Prediction{}
		}
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"records":     len(req.Records),
			"months":      len(history.Months),
			"growth_rate": req.GrowthRate,
			"horizon":     req.Horizon,
		}), "projection built")
		return out, nil
	})
}

func (s *service) observe(operation string, started time.Time, err *error) {
	s.metrics.ObserveDuration(operation, *err, time.Since(started))
}

func sortedDiagnostics(set map[int]types.Diagnostic) []types.Diagnostic {
	if len(set) == 0 {
		return nil
	}
	out := make([]types.Diagnostic, 0, len(set))
	for _, d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}
