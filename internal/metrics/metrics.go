// Package metrics defines the Prometheus collectors choreboard exports.
// Every recording method is safe on a nil *Metrics so services can run
// without a registry in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "choreboard"

type Metrics struct {
	ChoreTransitions      *prometheus.CounterVec
	JobTransitions        *prometheus.CounterVec
	JobClaims             *prometheus.CounterVec
	InstancesMaterialized prometheus.Counter
	LedgerEntries         *prometheus.CounterVec
	HTTPRequests          *prometheus.CounterVec
	HTTPDuration          *prometheus.HistogramVec
	WebsocketClients      prometheus.Gauge
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated from the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ChoreTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chore",
			Name:      "transitions_total",
			Help:      "Chore instance state transitions by action.",
		}, []string{"action"}),
		JobTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "transitions_total",
			Help:      "Job state transitions by action.",
		}, []string{"action"}),
		JobClaims: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "claims_total",
			Help:      "Job claim attempts by result (won, lost).",
		}, []string{"result"}),
		InstancesMaterialized: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chore",
			Name:      "instances_materialized_total",
			Help:      "Chore instances created from templates.",
		}),
		LedgerEntries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entries_total",
			Help:      "Ledger transactions recorded by type.",
		}, []string{"type"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		WebsocketClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		}),
	}
}

func (m *Metrics) ChoreTransition(action string) {
	if m == nil {
		return
	}
	m.ChoreTransitions.WithLabelValues(action).Inc()
}

func (m *Metrics) JobTransition(action string) {
	if m == nil {
		return
	}
	m.JobTransitions.WithLabelValues(action).Inc()
}

func (m *Metrics) JobClaim(won bool) {
	if m == nil {
		return
	}
	result := "lost"
	if won {
		result = "won"
	}
	m.JobClaims.WithLabelValues(result).Inc()
}

func (m *Metrics) Materialized(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.InstancesMaterialized.Add(float64(n))
}

func (m *Metrics) LedgerEntry(txType string) {
	if m == nil {
		return
	}
	m.LedgerEntries.WithLabelValues(txType).Inc()
}

func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.WebsocketClients.Inc()
}

func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.WebsocketClients.Dec()
}
