package service

import (
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// calcPrecision is the number of decimal places kept by intermediate results.
const calcPrecision = 20

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// MonthlyRate converts an annual percentage rate to a monthly fraction (10 -> 0.00833...).
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(monthsInYear.Mul(hundred), calcPrecision)
}

// ComputeEMI returns the equal monthly installment that repays principal over
// months at the given annual rate:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// rounded half away from zero to 2 places. A zero rate is plain division
// without rounding. months must be positive; zero is returned otherwise.
func ComputeEMI(principal, annualRatePercent decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(months))
	if annualRatePercent.IsZero() {
		return principal.Div(n)
	}

	r := MonthlyRate(annualRatePercent)
	factor := compound(decimal.NewFromInt(1).Add(r), months)
	emi := principal.Mul(r).Mul(factor).DivRound(factor.Sub(decimal.NewFromInt(1)), calcPrecision)
	return emi.Round(2)
}

// compound returns base^n, keeping calcPrecision places after each multiplication.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(calcPrecision)
		}
		base = base.Mul(base).Round(calcPrecision)
		n >>= 1
	}
	return result
}

// DecomposePayment splits a payment into interest and principal. Interest
// accrues on the outstanding principal for one month; the principal portion
// is capped at scheduledEMI - interest, so anything paid above the EMI does
// not reduce principal. The principal portion is negative when the payment
// does not cover the interest.
func DecomposePayment(outstanding, monthlyRate, amount, scheduledEMI decimal.Decimal) domain.PaymentSplit {
	interest := outstanding.Mul(monthlyRate).Round(calcPrecision)
	return domain.PaymentSplit{
		Principal: decimal.Min(amount, scheduledEMI).Sub(interest),
		Interest:  interest,
	}
}
