package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the aicode collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	TurnsSubmitted   prometheus.Counter
	TurnsSettled     *prometheus.CounterVec
	TurnsInFlight    prometheus.Gauge
	ExchangeDuration *prometheus.HistogramVec
	BackendRequests  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors, plus the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		TurnsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aicode_turns_submitted_total",
			Help: "Total number of accepted chat submissions.",
		}),
		TurnsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aicode_turns_settled_total",
			Help: "Total number of settled turns by status and reply kind.",
		}, []string{"status", "kind"}),
		TurnsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aicode_turns_in_flight",
			Help: "Number of turns waiting for a reply.",
		}),
		ExchangeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aicode_exchange_duration_seconds",
			Help:    "Duration of backend exchanges.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aicode_backend_requests_total",
			Help: "Requests served by the reference backend by response type.",
		}, []string{"response_type"}),
	}
	m.Registry.MustRegister(
		m.TurnsSubmitted,
		m.TurnsSettled,
		m.TurnsInFlight,
		m.ExchangeDuration,
		m.BackendRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that record turn metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnSubmitted: func(_ context.Context, _ *domain.TurnEvent) {
			m.TurnsSubmitted.Inc()
			m.TurnsInFlight.Inc()
		},
		OnTurnSettled: func(_ context.Context, e *domain.TurnEvent) {
			m.TurnsInFlight.Dec()
			kind := string(e.Kind)
			if e.Status == domain.StatusFailed {
				kind = e.ErrorKind
			}
			m.TurnsSettled.WithLabelValues(string(e.Status), kind).Inc()
			m.ExchangeDuration.WithLabelValues(string(e.Status)).Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
