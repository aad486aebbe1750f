package service

import (
	"errors"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncService_OfflineQueueFlushesOnReconnect(t *testing.T) {
	f := newFixture(t, "2024-06-10")
	backups := testutil.NewMockBackupRepository()
	svc := NewSyncService(f.store, backups, f.publisher)
	svc.SetClock(f.clock.Now)
	finance := NewFinanceService(f.store)

	status, err := svc.Status(f.ctx)
	require.NoError(t, err)
	assert.True(t, status.Online)
	assert.Equal(t, 0, status.Pending)

	status, err = svc.SetOnline(f.ctx, false)
	require.NoError(t, err)
	assert.False(t, status.Online)

	require.NoError(t, finance.SetSalary(f.ctx, dec("100")))
	_, err = finance.AddExpense(f.ctx, domain.Expense{Date: domain.MustParseDate("2024-06-01"), Category: "Fuel", Amount: dec("40")})
	require.NoError(t, err)

	status, err = svc.Status(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Pending)

	status, err = svc.SetOnline(f.ctx, true)
	require.NoError(t, err)
	assert.True(t, status.Online)
	assert.Equal(t, 2, status.Synced)
	assert.Equal(t, 0, status.Pending)

	require.Len(t, backups.Keys(), 1)
	uploaded := string(backups.Uploads[domain.BackupKey(f.clock.Now())])
	assert.Contains(t, uploaded, "Fuel", "latest snapshot wins")
	assert.Equal(t, "[]", f.blobs.Raw("pendingChanges"))

	events := f.publisher.Published()
	assert.Equal(t, "workspace.synced", events[len(events)-1].Type)
}

func TestSyncService_FailedFlushKeepsQueue(t *testing.T) {
	f := newFixture(t, "2024-06-10")
	backups := testutil.NewMockBackupRepository()
	backups.UploadErr = errors.New("offline again")
	svc := NewSyncService(f.store, backups, nil)

	_, err := svc.SetOnline(f.ctx, false)
	require.NoError(t, err)
	require.NoError(t, NewFinanceService(f.store).SetSalary(f.ctx, dec("1")))

	_, err = svc.SetOnline(f.ctx, true)
	assert.ErrorContains(t, err, "offline again")

	status, err := svc.Status(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Pending)
}

func TestSyncService_NoBackupStorageStillDrainsQueue(t *testing.T) {
	f := newFixture(t, "2024-06-10")
	svc := NewSyncService(f.store, nil, nil)

	_, err := svc.SetOnline(f.ctx, false)
	require.NoError(t, err)
	require.NoError(t, NewFinanceService(f.store).SetSalary(f.ctx, dec("1")))

	status, err := svc.SetOnline(f.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Synced)
	assert.Equal(t, 0, status.Pending)
}
