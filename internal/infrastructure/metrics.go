package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the update pipeline. A single
// instance is created at startup and shared by the updater and the admin
// HTTP surface.
type Metrics struct {
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
	FetchedRows *prometheus.GaugeVec
	ReportRows  prometheus.Gauge
	RunsSkipped prometheus.Counter
}

// NewMetrics creates and registers the pipeline collectors on the given
// registry. Pass prometheus.NewRegistry() in tests to avoid global state.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eiareport",
			Name:      "runs_total",
			Help:      "Update runs by outcome.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eiareport",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a full update run.",
			Buckets:   prometheus.DefBuckets,
		}),
		FetchedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "eiareport",
			Name:      "fetched_rows",
			Help:      "Rows fetched per tracked year in the last run.",
		}, []string{"year"}),
		ReportRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eiareport",
			Name:      "report_rows",
			Help:      "Rows in the combined rolling-window section of the last report.",
		}),
		RunsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eiareport",
			Name:      "runs_skipped_total",
			Help:      "Triggers skipped because a run was already in progress.",
		}),
	}

	reg.MustRegister(m.RunsTotal, m.RunDuration, m.FetchedRows, m.ReportRows, m.RunsSkipped)
	return m
}
