package domain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentAmountInvalid  = errors.New("payment amount must be positive")
	ErrPaymentLoanIDRequired = errors.New("loan ID is required")
	ErrPaymentDateRequired   = errors.New("payment date is required")
	ErrPaymentDateInFuture   = errors.New("payment date cannot be in the future")
)

// Payment is one recorded installment or extra payment against a loan.
// Payments are append-only; they disappear only when their loan is deleted.
type Payment struct {
	LoanID       LoanID          `json:"debtId"`
	Date         Date            `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	IsHistorical bool            `json:"isHistorical,omitempty"`
	IsExtra      bool            `json:"isExtra,omitempty"`
}

func (p *Payment) Validate() error {
	if p.LoanID == "" {
		return ErrPaymentLoanIDRequired
	}
	if p.Date.IsZero() {
		return ErrPaymentDateRequired
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentAmountInvalid
	}
	return nil
}

// FormatPaymentLabel returns a history line like "2024-03-05 - Car Loan: 12000.00"
func (p *Payment) FormatPaymentLabel(loanName string) string {
	return fmt.Sprintf("%s - %s: %s", p.Date, loanName, p.Amount.StringFixed(2))
}

// PaymentLedger is an ordered collection of payments across loans. Methods
// never mutate the receiver; filtering and sorting return new ledgers.
type PaymentLedger []Payment

// ForLoan returns the payments that belong to the given loan, in ledger order.
func (l PaymentLedger) ForLoan(id LoanID) PaymentLedger {
	out := make(PaymentLedger, 0, len(l))
	for _, p := range l {
		if p.LoanID == id {
			out = append(out, p)
		}
	}
	return out
}

// Sorted returns a copy ordered by date ascending. Payments on the same day
// keep their ledger order.
func (l PaymentLedger) Sorted() PaymentLedger {
	out := make(PaymentLedger, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// MonthKeys returns the distinct calendar months that contain a payment.
func (l PaymentLedger) MonthKeys() map[MonthKey]struct{} {
	keys := make(map[MonthKey]struct{}, len(l))
	for _, p := range l {
		keys[p.Date.MonthKey()] = struct{}{}
	}
	return keys
}

// HasMonth reports whether any payment falls in the given month.
func (l PaymentLedger) HasMonth(key MonthKey) bool {
	for _, p := range l {
		if p.Date.MonthKey() == key {
			return true
		}
	}
	return false
}

// InMonth returns the payments that fall in the given month.
func (l PaymentLedger) InMonth(key MonthKey) PaymentLedger {
	out := make(PaymentLedger, 0)
	for _, p := range l {
		if p.Date.MonthKey() == key {
			out = append(out, p)
		}
	}
	return out
}

// Total sums every payment amount.
func (l PaymentLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l {
		total = total.Add(p.Amount)
	}
	return total
}

// Latest returns the most recent payment by date.
func (l PaymentLedger) Latest() (Payment, bool) {
	if len(l) == 0 {
		return Payment{}, false
	}
	sorted := l.Sorted()
	return sorted[len(sorted)-1], true
}
