package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the sync daemon.
type Metrics struct {
	RunsStarted    prometheus.Counter
	RunsCompleted  prometheus.Counter
	RunsFailed     prometheus.Counter
	RunDuration    prometheus.Histogram
	JudgesCreated  prometheus.Counter
	JudgesUpdated  prometheus.Counter
	JudgesEnhanced prometheus.Counter
	SyncErrors     prometheus.Counter
	DiscoveryPages prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RunsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "benchwatch_sync_runs_started_total",
			Help: "Total number of sync runs started",
		}),
		RunsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "benchwatch_sync_runs_completed_total",
			Help: "Total number of sync runs that reached the completed state",
		}),
		RunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "benchwatch_sync_runs_failed_total",
			Help: "Total number of sync runs that reached the failed state",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "benchwatch_sync_run_duration_seconds",
			Help:    "Wall-clock duration of sync runs",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		JudgesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "benchwatch_judges_created_total",
			Help: "Total number of judge records created from upstream",
		}),
		JudgesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "benchwatch_judges_updated_total",
			Help: "Total number of judge records refreshed from upstream",
		}),
		JudgesEnhanced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "benchwatch_judges_enhanced_total",
			Help: "Total number of judge profiles enhanced after reconciliation",
		}),
		SyncErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "benchwatch_sync_errors_total",
			Help: "Total number of per-entity reconciliation errors",
		}),
		DiscoveryPages: promauto.NewCounter(prometheus.CounterOpts{
			Name: "benchwatch_discovery_pages_total",
			Help: "Total number of upstream list pages fetched during discovery",
		}),
	}
}
