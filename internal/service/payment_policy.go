package service

import (
	"fmt"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ValidatePayment checks a proposed payment against the loan's EMI policy
// and the loan's existing payments.
//
// Strict loans accept exactly one payment per calendar month and it must
// equal the EMI. Loans that allow extra payments accept any amount up to the
// remaining debt; a second payment in a month is accepted but the decision
// asks for the user's confirmation and marks the payment as extra.
//
// It must run before a payment is appended; the ledger itself trusts its caller.
func ValidatePayment(loan *domain.Loan, amount decimal.Decimal, date domain.Date, existing domain.PaymentLedger) (domain.PolicyDecision, error) {
	var decision domain.PolicyDecision
	own := existing.ForLoan(loan.ID)
	sameMonth := own.HasMonth(date.MonthKey())

	if !loan.ExtraAllowed {
		// A strict loan already paid this month is a duplicate whatever the amount.
		if sameMonth {
			return decision, &domain.PolicyViolation{
				Code:    domain.ViolationDuplicateMonthlyPayment,
				LoanID:  loan.ID,
				Message: fmt.Sprintf("a payment for %s has already been recorded", date.MonthKey()),
			}
		}
		if !amount.Equal(loan.EMI) {
			return decision, &domain.PolicyViolation{
				Code:    domain.ViolationExactEMIRequired,
				LoanID:  loan.ID,
				Message: fmt.Sprintf("payment must equal the EMI of %s", loan.EMI.StringFixed(2)),
			}
		}
		return decision, nil
	}

	if sameMonth {
		decision.RequiresConfirmation = true
		decision.IsExtra = true
	}
	if remaining := RemainingDebt(loan, own); amount.GreaterThan(remaining) {
		return domain.PolicyDecision{}, &domain.PolicyViolation{
			Code:    domain.ViolationExceedsRemainingBalance,
			LoanID:  loan.ID,
			Message: fmt.Sprintf("payment exceeds the remaining balance of %s", remaining.StringFixed(2)),
		}
	}
	return decision, nil
}
