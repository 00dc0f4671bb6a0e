package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the reliability pipeline.
type Metrics struct {
	ReportsLoaded      prometheus.Counter
	MalformedValues    *prometheus.CounterVec // labels: kind={timestamp,score}
	ProfilesProduced   prometheus.Counter
	PlaceholderProfile prometheus.Counter
	Diagnostics        *prometheus.CounterVec // labels: code
	RunErrors          prometheus.Counter
	RunDuration        prometheus.Histogram
	Neighborhoods      prometheus.Gauge
	PipelineRunning    prometheus.Gauge
	LastRunTimestamp   prometheus.Gauge
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		ReportsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reliability",
			Name:      "reports_loaded_total",
			Help:      help("Total report rows read from the source."),
		}),
		MalformedValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reliability",
			Name:      "malformed_values_total",
			Help:      help("Report values dropped at the loader boundary, by kind."),
		}, []string{"kind"}),
		ProfilesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reliability",
			Name:      "profiles_produced_total",
			Help:      help("Neighborhood profiles emitted, placeholders included."),
		}),
		PlaceholderProfile: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reliability",
			Name:      "placeholder_profiles_total",
			Help:      help("Zero-filled profiles emitted for neighborhoods without reports."),
		}),
		Diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reliability",
			Name:      "diagnostics_total",
			Help:      help("Diagnostics emitted by runs, by code."),
		}, []string{"code"}),
		RunErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reliability",
			Name:      "run_errors_total",
			Help:      help("Runs that failed to extract or load."),
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reliability",
			Name:      "run_duration_seconds",
			Help:      help("Duration of a complete extract-compute-load run."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Neighborhoods: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reliability",
			Name:      "neighborhoods",
			Help:      help("Profiles in the latest snapshot."),
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reliability",
			Name:      "pipeline_running",
			Help:      help("1 when the pipeline is active, 0 when shut down."),
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reliability",
			Name:      "last_run_timestamp_seconds",
			Help:      help("Unix time of the latest successful run."),
		}),
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all pipeline metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics(true)
	reg.MustRegister(
		m.ReportsLoaded,
		m.MalformedValues,
		m.ProfilesProduced,
		m.PlaceholderProfile,
		m.Diagnostics,
		m.RunErrors,
		m.RunDuration,
		m.Neighborhoods,
		m.PipelineRunning,
		m.LastRunTimestamp,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
