package service

import (
	"errors"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetSummary(t *testing.T) {
	f := newFixture(t, "2024-06-10")
	finance := NewFinanceService(f.store)
	dashboard := NewDashboardService(f.store)
	dashboard.SetClock(f.clock.Now)

	f.createLoan(t, carLoanInput("2024-01-15"))
	_, err := finance.AddInvestment(f.ctx, CreateInvestmentInput{Name: "Fund", Category: "MF", Value: dec("100000")})
	require.NoError(t, err)
	require.NoError(t, finance.SetSalary(f.ctx, dec("50000")))
	_, err = finance.AddIncome(f.ctx, domain.AdditionalIncome{Date: domain.MustParseDate("2024-06-02"), Description: "Bonus", Amount: dec("2000")})
	require.NoError(t, err)
	for _, amt := range []string{"500", "250"} {
		_, err = finance.AddExpense(f.ctx, domain.Expense{Date: domain.MustParseDate("2024-06-05"), Category: "Food", Amount: dec(amt)})
		require.NoError(t, err)
	}
	_, err = finance.AddExpense(f.ctx, domain.Expense{Date: domain.MustParseDate("2024-05-05"), Category: "Food", Amount: dec("99")})
	require.NoError(t, err)

	summary, err := dashboard.GetSummary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06", summary.Month)
	assert.Equal(t, "73849.37", summary.TotalCurrentDebt.StringFixed(2))
	assert.Equal(t, "71447.96", summary.TotalOutstandingPrincipal.StringFixed(2))
	assert.Equal(t, "28552.04", summary.NetWorth.StringFixed(2))
	assert.Equal(t, "750", summary.MonthlyExpenses.String())
	assert.Equal(t, "52000", summary.MonthlyIncome.String())
	assert.Equal(t, 1, summary.ActiveLoans)
	assert.Equal(t, 0, summary.LoansWithMissedPayments)
	assert.Nil(t, summary.NetWorthChange)

	history, err := dashboard.GetNetWorthHistory(f.ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2024-06", history[0].Month)
}

func TestDashboardService_GetSummarySurvivesSnapshotSaveFailure(t *testing.T) {
	f := newFixture(t, "2024-06-10")
	dashboard := NewDashboardService(f.store)
	dashboard.SetClock(f.clock.Now)
	f.createLoan(t, carLoanInput("2024-01-15"))

	f.blobs.FailSave("netWorthHistory", errors.New("disk full"))
	summary, err := dashboard.GetSummary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "73849.37", summary.TotalCurrentDebt.StringFixed(2))
	assert.Equal(t, []domain.Collection{domain.CollectionNetWorthHistory}, f.store.Pending())

	f.blobs.FailSave("netWorthHistory", nil)
	require.NoError(t, f.store.Retry(f.ctx))
	assert.Contains(t, f.blobs.Raw("netWorthHistory"), `"month":"2024-06"`)
}

func TestDashboardService_NetWorthChange(t *testing.T) {
	f := newFixture(t, "2024-06-10")
	dashboard := NewDashboardService(f.store)
	dashboard.SetClock(f.clock.Now)
	finance := NewFinanceService(f.store)
	_, err := finance.AddInvestment(f.ctx, CreateInvestmentInput{Name: "Fund", Category: "MF", Value: dec("1000")})
	require.NoError(t, err)

	f.clock.set("2024-05-20")
	_, err = dashboard.GetSummary(f.ctx)
	require.NoError(t, err)

	f.clock.set("2024-06-10")
	_, err = finance.AddInvestment(f.ctx, CreateInvestmentInput{Name: "Stock", Category: "Equity", Value: dec("250")})
	require.NoError(t, err)

	summary, err := dashboard.GetSummary(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, summary.NetWorthChange)
	assert.Equal(t, "250", summary.NetWorthChange.String())

	history, err := dashboard.GetNetWorthHistory(f.ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-05", history[0].Month)
	assert.Equal(t, "1250", history[1].Value.String())
}
