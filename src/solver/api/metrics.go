package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	unassigned *prometheus.GaugeVec
}

// NewMetrics registers on a private registry so several servers can live in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solve_requests_total",
			Help: "Total solve requests by variant and status code.",
		}, []string{"variant", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solve_duration_seconds",
			Help:    "Histogram of solve durations by variant.",
			Buckets: prometheus.DefBuckets,
		}, []string{"variant"}),
		unassigned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solve_unassigned_groups",
			Help: "Groups left without a house by the last solve of each variant.",
		}, []string{"variant"}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.unassigned)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
