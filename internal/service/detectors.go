package service

import (
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
)

// MonthsDifference is the calendar month difference from start to end; days are ignored.
func MonthsDifference(start, end domain.Date) int {
	return start.MonthsUntil(end)
}

// HasMissedPayment reports whether fewer distinct months carry a payment
// than months have elapsed since the loan started. Loans starting in the
// future never have missed payments.
func HasMissedPayment(loan *domain.Loan, payments domain.PaymentLedger, today domain.Date) bool {
	if loan.StartDate.After(today) {
		return false
	}
	elapsed := MonthsDifference(loan.StartDate, today)
	return len(payments.ForLoan(loan.ID).MonthKeys()) < elapsed
}

// HasPaymentForMonth reports whether the loan has any payment in month.
func HasPaymentForMonth(loan *domain.Loan, payments domain.PaymentLedger, month domain.MonthKey) bool {
	return payments.ForLoan(loan.ID).HasMonth(month)
}

// DueSoon returns the unpaid installments due today or within the next five days.
func DueSoon(loan *domain.Loan, payments domain.PaymentLedger, today domain.Date) []domain.ScheduleEntry {
	var due []domain.ScheduleEntry
	for _, entry := range ProjectSchedule(loan, payments, today) {
		if !entry.IsPaid && entry.DaysUntilDue >= 0 && entry.DaysUntilDue <= upcomingWithinDays {
			due = append(due, entry)
		}
	}
	return due
}
