package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// AnalyticsMetrics records analytics operation timings and result cache lookups.
type AnalyticsMetrics struct {
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewAnalyticsMetrics registers the analytics metrics on the provided registerer.
func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	if reg == nil {
		return &AnalyticsMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_operation_duration_seconds",
		Help:    "Duration of analytics operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_cache_lookups_total",
		Help: "Analytics result cache lookups by result.",
	}, []string{"operation", "result"})
	reg.MustRegister(duration, cache)
	return &AnalyticsMetrics{
		duration: duration,
		cache:    cache,
	}
}

// ObserveDuration records how long the named operation took.
func (a *AnalyticsMetrics) ObserveDuration(operation string, err error, duration time.Duration) {
	if a == nil || a.duration == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	a.duration.WithLabelValues(normalizeLabel(operation), outcome).Observe(duration.Seconds())
}

// IncCache counts one cache lookup for the named operation.
func (a *AnalyticsMetrics) IncCache(operation, result string) {
	if a == nil || a.cache == nil {
		return
	}
	a.cache.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
