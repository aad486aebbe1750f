package app

import (
	"context"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/config"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	return &config.Config{
		StoreBackend:  backend,
		DataDir:       t.TempDir(),
		Currency:      "INR",
		MaxLoanMonths: 24,
		MaxLoanAmount: decimal.NewFromInt(1000000),
	}
}

func TestNew_FileBackendPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.StoreBackendFile)

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, a.Backups)
	require.NoError(t, a.Finance.SetSalary(ctx, decimal.NewFromInt(42000)))
	a.Close()

	b, err := New(ctx, cfg)
	require.NoError(t, err)
	defer b.Close()
	salary, err := b.Finance.GetSalary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42000", salary.String())
}

func TestNew_AppliesLoanLimits(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t, config.StoreBackendMemory))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Loans.CreateLoan(ctx, service.CreateLoanInput{
		Name:      "Too long",
		Principal: decimal.NewFromInt(1000),
		Months:    36,
		StartDate: domain.MustParseDate("2024-01-01"),
	})
	assert.ErrorIs(t, err, domain.ErrLoanMonthsTooLarge)
}
