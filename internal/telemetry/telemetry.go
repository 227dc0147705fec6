// Package telemetry holds the exporter's own operational metrics. They live
// on a private registry served at /exporter/metrics, apart from the
// translated validator payload.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grade_exporter"

// Upstream endpoints.
const (
	EndpointGrade   = "grade"
	EndpointProfile = "profile"
)

// Drop reasons.
const (
	ReasonInvalidURL        = "invalid_url"
	ReasonUnrecognizedGrade = "unrecognized_grade"
)

// Metrics records exporter activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry         *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	targetsDropped   *prometheus.CounterVec
	targetsResolved  prometheus.Gauge
	scrapeDuration   prometheus.Histogram
}

// New creates Metrics on a fresh registry that also carries the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream requests by endpoint and result.",
		}, []string{"endpoint", "result"}),
		targetsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_dropped_total",
			Help:      "Targets left out of a scrape, by reason.",
		}, []string{"reason"}),
		targetsResolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "targets_resolved",
			Help:      "Valid targets resolved on the last scrape.",
		}),
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Duration of a full /metrics scrape.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		}),
	}
	m.registry.MustRegister(
		m.upstreamRequests,
		m.targetsDropped,
		m.targetsResolved,
		m.scrapeDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveUpstream counts one upstream request to endpoint. err classifies
// the result as ok, timeout or error.
func (m *Metrics) ObserveUpstream(endpoint string, err error) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, result(err)).Inc()
}

// TargetsDropped adds n dropped targets for reason.
func (m *Metrics) TargetsDropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.targetsDropped.WithLabelValues(reason).Add(float64(n))
}

// ObserveScrape records the size and duration of one scrape.
func (m *Metrics) ObserveScrape(resolved int, d time.Duration) {
	if m == nil {
		return
	}
	m.targetsResolved.Set(float64(resolved))
	m.scrapeDuration.Observe(d.Seconds())
}

func result(err error) string {
	var timeout interface{ Timeout() bool }
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeout) && timeout.Timeout():
		return "timeout"
	default:
		return "error"
	}
}
