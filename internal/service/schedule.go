package service

import (
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Due-status thresholds in days.
const (
	urgentWithinDays   = 2
	upcomingWithinDays = 5
	upcomingHorizon    = 3 // months
)

// EMIStatusFor classifies an installment by the days left until it is due.
func EMIStatusFor(daysUntilDue int) domain.EMIStatus {
	switch {
	case daysUntilDue < 0:
		return domain.EMIStatusOverdue
	case daysUntilDue <= urgentWithinDays:
		return domain.EMIStatusUrgent
	case daysUntilDue <= upcomingWithinDays:
		return domain.EMIStatusUpcoming
	default:
		return domain.EMIStatusNormal
	}
}

// ProjectSchedule returns one entry per installment starting at the loan's
// start date. Due dates advance by whole months from the start date without
// clamping the day, the same way historical payments are generated, and an
// installment counts as paid only when a payment falls on exactly that date.
// The actual amount is the last such payment in ledger order.
func ProjectSchedule(loan *domain.Loan, payments domain.PaymentLedger, today domain.Date) []domain.ScheduleEntry {
	own := payments.ForLoan(loan.ID)
	entries := make([]domain.ScheduleEntry, 0, loan.Months)
	total := loan.TotalPayable()

	for i := 0; i < loan.Months; i++ {
		due := loan.StartDate.AddMonths(i)
		entry := domain.ScheduleEntry{
			Installment:     i + 1,
			DueDate:         due,
			DueAmount:       loan.EMI,
			RemainingAmount: total.Sub(loan.EMI.Mul(decimal.NewFromInt(int64(i + 1)))),
			DaysUntilDue:    today.DaysUntil(due),
		}
		for _, p := range own {
			if p.Date.Equal(due) {
				amount := p.Amount
				entry.IsPaid = true
				entry.ActualPaymentAmount = &amount
			}
		}
		entry.Status = EMIStatusFor(entry.DaysUntilDue)
		entries = append(entries, entry)
	}
	return entries
}

// GetUpcomingEMIs returns the unpaid installments due within the next three
// months, overdue ones included.
func GetUpcomingEMIs(loan *domain.Loan, payments domain.PaymentLedger, today domain.Date) []domain.ScheduleEntry {
	horizon := today.AddMonths(upcomingHorizon)
	upcoming := make([]domain.ScheduleEntry, 0)
	for _, entry := range ProjectSchedule(loan, payments, today) {
		if !entry.IsPaid && !entry.DueDate.After(horizon) {
			upcoming = append(upcoming, entry)
		}
	}
	return upcoming
}
