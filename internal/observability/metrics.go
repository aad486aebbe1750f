package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service. All methods are
// safe on a nil receiver so components can run without metrics.
type Metrics struct {
	// Registry owns the collectors; the /metrics endpoint serves it.
	Registry *prometheus.Registry

	paymentsRecorded     *prometheus.CounterVec
	policyRejections     *prometheus.CounterVec
	quarantinedRecords   *prometheus.CounterVec
	notificationsEmitted *prometheus.CounterVec
	persistenceFailures  *prometheus.CounterVec
	breakdownDuration    prometheus.Histogram
}

// NewMetrics creates a private registry so repeated construction in tests
// never hits duplicate registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		paymentsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_payments_recorded_total",
				Help: "Payments appended to the ledger.",
			},
			[]string{"kind"},
		),
		policyRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_payment_policy_rejections_total",
				Help: "Payment attempts rejected by the EMI policy.",
			},
			[]string{"code"},
		),
		quarantinedRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_quarantined_records_total",
				Help: "Stored records dropped at load time because they failed decoding.",
			},
			[]string{"collection"},
		),
		notificationsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_notifications_emitted_total",
				Help: "Notifications added to the log.",
			},
			[]string{"type"},
		),
		persistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_persistence_failures_total",
				Help: "Failed collection saves.",
			},
			[]string{"collection"},
		),
		breakdownDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fintrack_breakdown_duration_seconds",
				Help:    "Time spent replaying a loan's payment history.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}
}

func (m *Metrics) RecordPayment(kind string) {
	if m == nil {
		return
	}
	m.paymentsRecorded.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordPolicyRejection(code string) {
	if m == nil {
		return
	}
	m.policyRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) RecordQuarantined(collection string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.quarantinedRecords.WithLabelValues(collection).Add(float64(n))
}

func (m *Metrics) RecordNotification(kind string) {
	if m == nil {
		return
	}
	m.notificationsEmitted.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordPersistenceFailure(collection string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(collection).Inc()
}

func (m *Metrics) ObserveBreakdown(seconds float64) {
	if m == nil {
		return
	}
	m.breakdownDuration.Observe(seconds)
}
