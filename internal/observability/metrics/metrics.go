// Package metrics defines the Prometheus collectors exported on /metrics.
// Every Observe method is safe to call on a nil receiver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "primer"

// CatalogMetrics covers property and blog queries.
type CatalogMetrics struct {
	queriesTotal *prometheus.CounterVec
	resultSize   *prometheus.HistogramVec
}

func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	m := &CatalogMetrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "queries_total",
			Help:      "Catalog queries by collection, sort key and result",
		}, []string{"collection", "sort", "result"}),
		resultSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "matches",
			Help:      "Number of matches per catalog query",
			Buckets:   []float64{0, 1, 5, 12, 25, 50, 100, 250},
		}, []string{"collection"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queriesTotal, m.resultSize)
	return m
}

// ObserveQuery records one query. result is "hit", "empty" or "out_of_range".
func (m *CatalogMetrics) ObserveQuery(collection, sort, result string, matches int) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(collection, sort, result).Inc()
	m.resultSize.WithLabelValues(collection).Observe(float64(matches))
}

// FixtureMetrics covers fixture document reloads.
type FixtureMetrics struct {
	loadsTotal   *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
}

func NewFixtureMetrics(reg prometheus.Registerer) *FixtureMetrics {
	m := &FixtureMetrics{
		loadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fixtures",
			Name:      "loads_total",
			Help:      "Fixture reload attempts by collection and outcome",
		}, []string{"collection", "outcome"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fixtures",
			Name:      "load_duration_seconds",
			Help:      "Time spent fetching and decoding fixture documents",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.loadsTotal, m.loadDuration)
	return m
}

func (m *FixtureMetrics) ObserveFixtureLoad(collection, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.loadsTotal.WithLabelValues(collection, outcome).Inc()
	m.loadDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

// BookingMetrics covers wizard transitions and relay submissions.
type BookingMetrics struct {
	transitionsTotal *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	relayLatency     *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Wizard transitions by originating step and outcome",
		}, []string{"step", "outcome"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Form relay submissions by form kind and status",
		}, []string{"form", "status"}),
		relayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "relay_latency_seconds",
			Help:      "Latency of outbound form relay POSTs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.submissionsTotal, m.relayLatency)
	return m
}

func (m *BookingMetrics) ObserveTransition(step, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(step, outcome).Inc()
}

func (m *BookingMetrics) ObserveSubmission(form, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(form, status).Inc()
	m.relayLatency.WithLabelValues(form).Observe(duration.Seconds())
}
