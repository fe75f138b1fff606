// Package metrics exposes Prometheus collectors for the ledger, the payment
// workflow and the HTTP layer. Every [Metrics] owns a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quest_ledger"

// Debit resources.
const (
	ResourceFreeTrial = "free_trial"
	ResourcePoints    = "points"
)

// Payment transitions.
const (
	TransitionSubmitted = "submitted"
	TransitionApproved  = "approved"
	TransitionRejected  = "rejected"
)

type Metrics struct {
	registry *prometheus.Registry

	debits             *prometheus.CounterVec
	credits            prometheus.Counter
	creditedPoints     prometheus.Counter
	paymentTransitions *prometheus.CounterVec
	uncreditedPayments prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		debits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "debits_total",
				Help:      "Successful debits by spent resource.",
			},
			[]string{"resource"},
		),
		credits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "credits_total",
				Help:      "Successful point credits.",
			},
		),
		creditedPoints: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "credited_points_total",
				Help:      "Points added by credits.",
			},
		),
		paymentTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payments",
				Name:      "transitions_total",
				Help:      "Payment submissions and decisions.",
			},
			[]string{"transition"},
		),
		uncreditedPayments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "payments",
				Name:      "uncredited_payments",
				Help:      "Approved payments whose credit was never recorded, as of the last reconciliation.",
			},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.debits,
		m.credits,
		m.creditedPoints,
		m.paymentTransitions,
		m.uncreditedPayments,
		m.httpRequests,
		m.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordDebit(resource string) {
	m.debits.WithLabelValues(resource).Inc()
}

func (m *Metrics) RecordCredit(points int64) {
	m.credits.Inc()
	m.creditedPoints.Add(float64(points))
}

func (m *Metrics) RecordPaymentTransition(transition string) {
	m.paymentTransitions.WithLabelValues(transition).Inc()
}

func (m *Metrics) SetUncreditedPayments(n int) {
	m.uncreditedPayments.Set(float64(n))
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
