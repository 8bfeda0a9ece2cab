package recorder

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/web/enums"
)

// Metrics tracks diagnostic runs in a dedicated registry
type Metrics struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lastRun  *prometheus.GaugeVec
}

// NewMetrics makes metrics with go and process collectors registered
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netdiag_runs_total",
				Help: "Total diagnostic runs by kind, status and source",
			},
			[]string{"kind", "status", "source"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "netdiag_run_duration_seconds",
				Help:    "Diagnostic run duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "netdiag_last_run_success",
				Help: "1 if the last run of the kind succeeded, 0 otherwise",
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(m.runs, m.duration, m.lastRun,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// Observe records a finished diagnostic
func (m *Metrics) Observe(rep diag.Report, source enums.Source) {
	m.runs.WithLabelValues(string(rep.Kind), rep.Status.String(), source.String()).Inc()
	m.duration.WithLabelValues(string(rep.Kind)).Observe(rep.Duration().Seconds())
	success := 0.0
	if rep.Status == enums.RunStatusSuccess {
		success = 1
	}
	m.lastRun.WithLabelValues(string(rep.Kind)).Set(success)
}

// Handler serves the registry in prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
