package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the loan service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Registry owns the collectors below; /metrics serves it.
	Registry *prometheus.Registry

	applications    prometheus.Counter
	decisions       *prometheus.CounterVec
	ledgerEntries   *prometheus.CounterVec
	ledgerRejects   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector in a private registry, so it can be
// called once per test without duplicate-registration panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		applications: factory.NewCounter(prometheus.CounterOpts{
			Name: "loan_applications_total",
			Help: "Loans created in pending status.",
		}),
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_decisions_total",
				Help: "Approve and reject decisions applied.",
			},
			[]string{"outcome"},
		),
		ledgerEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_entries_total",
				Help: "Ledger entries appended.",
			},
			[]string{"category", "flow"},
		),
		ledgerRejects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_rejections_total",
				Help: "Ledger mutations refused by the loan rules.",
			},
			[]string{"operation", "reason"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_request_duration_seconds",
				Help:    "HTTP request duration by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

func (m *Metrics) IncApplication() {
	if m == nil {
		return
	}
	m.applications.Inc()
}

func (m *Metrics) IncDecision(outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncLedgerEntry(category, flow string) {
	if m == nil {
		return
	}
	m.ledgerEntries.WithLabelValues(category, flow).Inc()
}

func (m *Metrics) IncLedgerRejection(operation, reason string) {
	if m == nil {
		return
	}
	m.ledgerRejects.WithLabelValues(operation, reason).Inc()
}

// ObserveRequest records the duration of one request on route.
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}
