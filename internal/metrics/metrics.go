// Package metrics exposes Prometheus collectors for the group-buy engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

// Metrics groups the collectors recorded by the service.
type Metrics struct {
	registry *prometheus.Registry

	GroupsCreated     *prometheus.CounterVec
	Joins             *prometheus.CounterVec
	PaymentsConfirmed *prometheus.CounterVec
	Finalizations     *prometheus.CounterVec
	Settlements       *prometheus.CounterVec
	QuoteDuration     prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GroupsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bahamm",
			Name:      "groups_created_total",
			Help:      "Groups created, by kind.",
		}, []string{"kind"}),
		Joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bahamm",
			Name:      "group_joins_total",
			Help:      "Join attempts, by result.",
		}, []string{"result"}),
		PaymentsConfirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bahamm",
			Name:      "payments_confirmed_total",
			Help:      "Payment confirmations, by whether they changed state.",
		}, []string{"result"}),
		Finalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bahamm",
			Name:      "group_finalizations_total",
			Help:      "Groups reaching a terminal status.",
		}, []string{"kind", "status"}),
		Settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bahamm",
			Name:      "settlements_recorded_total",
			Help:      "Settlements recorded, by outcome.",
		}, []string{"outcome"}),
		QuoteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bahamm",
			Name:      "quote_duration_seconds",
			Help:      "Time spent pricing a basket ladder.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	m.registry.MustRegister(
		m.GroupsCreated, m.Joins, m.PaymentsConfirmed, m.Finalizations, m.Settlements, m.QuoteDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Finalized records a terminal transition.
func (m *Metrics) Finalized(kind models.GroupKind, status models.GroupStatus) {
	m.Finalizations.WithLabelValues(string(kind), string(status)).Inc()
}

// Settled records a settlement outcome.
func (m *Metrics) Settled(outcome models.SettlementOutcome) {
	m.Settlements.WithLabelValues(string(outcome)).Inc()
}
