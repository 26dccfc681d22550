package metrics

import "github.com/prometheus/client_golang/prometheus"

// IngestMetrics counts uploaded table rows by outcome.
type IngestMetrics struct {
	rows    *prometheus.CounterVec
	batches *prometheus.CounterVec
}

// NewIngestMetrics registers the ingest metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_total",
		Help: "Uploaded rows by file format and status.",
	}, []string{"format", "status"})
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_batches_total",
		Help: "Uploaded tables by file format and outcome.",
	}, []string{"format", "outcome"})
	reg.MustRegister(rows, batches)
	return &IngestMetrics{rows: rows, batches: batches}
}

// AddRows records parsed and skipped row counts for one table.
func (m *IngestMetrics) AddRows(format string, parsed, skipped int) {
	if m == nil || m.rows == nil {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(format), "parsed").Add(float64(parsed))
	m.rows.WithLabelValues(normalizeLabel(format), "skipped").Add(float64(skipped))
}

// IncBatch counts one table, failed when err is set.
func (m *IngestMetrics) IncBatch(format string, err error) {
	if m == nil || m.batches == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.batches.WithLabelValues(normalizeLabel(format), outcome).Inc()
}
