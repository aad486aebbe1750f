package service

import (
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeBreakdown replays every payment of the loan in date order and
// returns the resulting repayment picture. Input order does not matter and
// payments of other loans are ignored.
//
// remainingEMIs counts down once per payment of at least one EMI and stops
// at zero. Because principal credit is capped at one EMI per payment, an
// overpayment shortens the EMI count without reducing principal by the
// same amount.
func ComputeBreakdown(loan *domain.Loan, payments domain.PaymentLedger) domain.Breakdown {
	rate := MonthlyRate(loan.InterestRate)
	principalPaid := decimal.Zero
	interestPaid := decimal.Zero
	remaining := loan.Months

	for _, p := range payments.ForLoan(loan.ID).Sorted() {
		split := DecomposePayment(loan.Principal.Sub(principalPaid), rate, p.Amount, loan.EMI)
		principalPaid = principalPaid.Add(split.Principal)
		interestPaid = interestPaid.Add(decimal.Min(split.Interest, p.Amount.Sub(split.Principal)))
		if p.Amount.GreaterThanOrEqual(loan.EMI) && remaining > 0 {
			remaining--
		}
	}

	totalPaid := principalPaid.Add(interestPaid)
	return domain.Breakdown{
		PrincipalPaid:       principalPaid.Round(2),
		InterestPaid:        interestPaid.Round(2),
		TotalPaid:           totalPaid.Round(2),
		RemainingEMIs:       remaining,
		ProgressPercentage:  percentOf(totalPaid, loan.TotalPayable()),
		PrincipalPercentage: percentOf(principalPaid, loan.TotalPayable()),
		InterestPercentage:  percentOf(interestPaid, loan.TotalPayable()),
	}
}

// RemainingDebt is what is still owed on the schedule: emi*months minus
// everything paid, never below zero.
func RemainingDebt(loan *domain.Loan, payments domain.PaymentLedger) decimal.Decimal {
	remaining := loan.TotalPayable().Sub(payments.ForLoan(loan.ID).Total())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// OutstandingPrincipal is principal not yet repaid according to the replay.
func OutstandingPrincipal(loan *domain.Loan, breakdown domain.Breakdown) decimal.Decimal {
	outstanding := loan.Principal.Sub(breakdown.PrincipalPaid)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, 2)
}
