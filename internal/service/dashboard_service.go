package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	store domain.Workspace
	clock Clock
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store domain.Workspace) *DashboardService {
	return &DashboardService{store: store, clock: time.Now}
}

// SetClock overrides the time source.
func (s *DashboardService) SetClock(clock Clock) {
	s.clock = clock
}

// GetSummary returns the dashboard summary for the current month and records
// the month's net worth snapshot. A snapshot that cannot be saved stays pending
// and does not fail the read.
func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	today := s.clock.today()
	month := today.MonthKey()

	var summary domain.DashboardSummary
	err := s.store.Update(ctx, func(st *domain.State) error {
		summary = buildSummary(st, today)
		st.UpsertNetWorth(summary.Month, summary.NetWorth)

		y, m := util.PreviousMonth(month.Year, int(month.Month))
		if prev, err := st.NetWorthFor(util.FormatMonth(y, m)); err == nil {
			change := summary.NetWorth.Sub(prev)
			summary.NetWorthChange = &change
		}
		return nil
	})
	if errors.Is(err, domain.ErrPersistence) {
		log.Warn().Err(err).Str("month", summary.Month).Msg("Failed to save net worth snapshot")
		return &summary, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func buildSummary(st *domain.State, today domain.Date) domain.DashboardSummary {
	month := today.MonthKey()
	summary := domain.DashboardSummary{
		Month:                     month.String(),
		TotalCurrentDebt:          decimal.Zero,
		TotalOutstandingPrincipal: decimal.Zero,
		TotalInvestments:          totalInvestments(st.Investments),
		MonthlyExpenses:           decimal.Zero,
	}

	for i := range st.Loans {
		loan := &st.Loans[i]
		remaining := RemainingDebt(loan, st.Payments)
		summary.TotalCurrentDebt = summary.TotalCurrentDebt.Add(remaining)
		summary.TotalOutstandingPrincipal = summary.TotalOutstandingPrincipal.Add(
			OutstandingPrincipal(loan, ComputeBreakdown(loan, st.Payments)))
		if remaining.IsPositive() {
			summary.ActiveLoans++
		}
		if HasMissedPayment(loan, st.Payments, today) {
			summary.LoansWithMissedPayments++
		}
	}

	for _, e := range st.Expenses {
		if e.Date.MonthKey() == month {
			summary.MonthlyExpenses = summary.MonthlyExpenses.Add(e.Amount)
		}
	}
	summary.MonthlyIncome = incomeSummary(st, month).TotalIncome
	summary.NetWorth = summary.TotalInvestments.Sub(summary.TotalOutstandingPrincipal)
	return summary
}

// GetNetWorthHistory returns the recorded snapshots ordered by month.
func (s *DashboardService) GetNetWorthHistory(ctx context.Context) ([]domain.NetWorthSnapshot, error) {
	var history []domain.NetWorthSnapshot
	err := s.store.View(ctx, func(st *domain.State) error {
		history = append([]domain.NetWorthSnapshot{}, st.NetWorthHistory...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// YYYY-MM sorts lexically
	sort.Slice(history, func(i, j int) bool { return history[i].Month < history[j].Month })
	return history, nil
}
