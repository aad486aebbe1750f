package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_DeleteLoanCascades(t *testing.T) {
	s := NewState()
	s.Loans = []Loan{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	s.Payments = ledgerFixture()

	require.NoError(t, s.DeleteLoan("a"))
	assert.Len(t, s.Loans, 1)
	assert.Equal(t, LoanID("b"), s.Loans[0].ID)
	assert.Len(t, s.Payments, 1)
	assert.Equal(t, []Collection{CollectionDebts, CollectionDebtPayments}, s.Dirty())

	assert.ErrorIs(t, s.DeleteLoan("a"), ErrLoanNotFound)
}

func TestState_DirtyTracking(t *testing.T) {
	s := NewState()
	assert.False(t, s.IsDirty())

	s.Touch(CollectionSalary, CollectionDebts)
	assert.Equal(t, []Collection{CollectionDebts, CollectionSalary}, s.Dirty())

	s.ClearDirty(CollectionDebts)
	assert.Equal(t, []Collection{CollectionSalary}, s.Dirty())
}

func TestState_UpsertNetWorth(t *testing.T) {
	s := NewState()
	s.UpsertNetWorth("2024-05", decimal.NewFromInt(10))
	s.UpsertNetWorth("2024-05", decimal.NewFromInt(20))
	s.UpsertNetWorth("2024-06", decimal.NewFromInt(30))

	require.Len(t, s.NetWorthHistory, 2)
	v, err := s.NetWorthFor("2024-05")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(20)))

	_, err = s.NetWorthFor("2023-01")
	assert.ErrorIs(t, err, ErrNetWorthSnapshotNotFound)
}

func TestState_QueuePendingChangePrunesOld(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewState()
	s.PendingChanges = []PendingChange{
		{Timestamp: now.Add(-PendingChangeRetention - time.Hour), Data: []byte(`{}`)},
		{Timestamp: now.Add(-time.Hour), Data: []byte(`{}`), Synced: true},
	}

	require.NoError(t, s.QueuePendingChange(now))
	require.Len(t, s.PendingChanges, 2)
	assert.Equal(t, 1, s.UnsyncedChanges())
	assert.Contains(t, string(s.PendingChanges[1].Data), `"debts":[]`)
	assert.Contains(t, s.Dirty(), CollectionPendingChanges)
}

func TestMoney_FormatMoney(t *testing.T) {
	assert.Equal(t, "₹10,549.91", FormatMoney(decimal.RequireFromString("10549.91"), "INR"))
	assert.Equal(t, "$1,000.00", FormatMoney(decimal.NewFromInt(1000), "USD"))
	assert.Equal(t, "12.30", FormatMoney(decimal.RequireFromString("12.3"), "???"))
}

func TestBackupKey(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "backups/20240305T083709Z.json", BackupKey(ts))
}
