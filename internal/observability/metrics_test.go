package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordPayment("regular")
	m.RecordPayment("regular")
	m.RecordPolicyRejection("DuplicateMonthlyPayment")
	m.RecordQuarantined("debts", 3)
	m.RecordQuarantined("debts", 0)
	m.RecordNotification("emi_due")
	m.RecordPersistenceFailure("salary")
	m.ObserveBreakdown(0.001)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.paymentsRecorded.WithLabelValues("regular")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.policyRejections.WithLabelValues("DuplicateMonthlyPayment")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.quarantinedRecords.WithLabelValues("debts")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsEmitted.WithLabelValues("emi_due")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistenceFailures.WithLabelValues("salary")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.breakdownDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordPayment("regular")
		m.RecordPolicyRejection("x")
		m.RecordQuarantined("debts", 1)
		m.RecordNotification("emi_due")
		m.RecordPersistenceFailure("debts")
		m.ObserveBreakdown(1)
	})
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}
