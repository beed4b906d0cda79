package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of the server.
type Metrics struct {
	Assemblies  *prometheus.CounterVec
	Diagnostics prometheus.Counter
	Bars        prometheus.Gauge
	Requests    *prometheus.CounterVec

	// gatherer is reg when it can also be gathered from, so /metrics serves
	// the registry the collectors live in
	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// gets a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Assemblies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notation",
			Name:      "assemblies_total",
			Help:      "Tab assemblies by result.",
		}, []string{"result"}),
		Diagnostics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "notation",
			Name:      "diagnostics_total",
			Help:      "Items skipped while assembling tabs.",
		}),
		Bars: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "notation",
			Name:      "published_bars",
			Help:      "Number of bars in the published tab.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notation",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.Assemblies, m.Diagnostics, m.Bars, m.Requests)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}
