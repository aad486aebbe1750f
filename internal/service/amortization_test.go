package service

import (
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func carLoan() *domain.Loan {
	return &domain.Loan{
		ID:           "car",
		Name:         "Car",
		Principal:    dec("120000"),
		InterestRate: dec("10"),
		EMI:          dec("10549.91"),
		Months:       12,
		StartDate:    domain.MustParseDate("2024-01-15"),
	}
}

func zeroRateLoan() *domain.Loan {
	return &domain.Loan{
		ID:           "phone",
		Name:         "Phone",
		Principal:    dec("12000"),
		InterestRate: decimal.Zero,
		EMI:          dec("1000"),
		Months:       12,
		StartDate:    domain.MustParseDate("2024-01-15"),
		ExtraAllowed: true,
	}
}

// onTimePayments pays the loan's EMI on each of the first n due dates.
func onTimePayments(loan *domain.Loan, n int) domain.PaymentLedger {
	ledger := make(domain.PaymentLedger, 0, n)
	for i := 0; i < n; i++ {
		ledger = append(ledger, domain.Payment{LoanID: loan.ID, Date: loan.StartDate.AddMonths(i), Amount: loan.EMI})
	}
	return ledger
}

func TestComputeEMI_StandardFormula(t *testing.T) {
	// 120000 at 10% over 12 months: 10549.9064... rounds to 10549.91
	emi := ComputeEMI(dec("120000"), dec("10"), 12)
	assert.Equal(t, "10549.91", emi.StringFixed(2))
	assert.True(t, emi.Equal(dec("10549.91")))
}

func TestComputeEMI_LongTerm(t *testing.T) {
	// 5,000,000 at 8.5% over 240 months
	emi := ComputeEMI(dec("5000000"), dec("8.5"), 240)
	assert.InDelta(t, 43391.16, emi.InexactFloat64(), 0.01)
}

func TestComputeEMI_ZeroRateIsExactDivision(t *testing.T) {
	tests := []struct {
		principal string
		months    int
	}{
		{"12000", 12},
		{"100", 3},
		{"999.99", 7},
	}
	for _, tt := range tests {
		t.Run(tt.principal, func(t *testing.T) {
			p := dec(tt.principal)
			n := decimal.NewFromInt(int64(tt.months))
			assert.True(t, ComputeEMI(p, decimal.Zero, tt.months).Equal(p.Div(n)))
		})
	}
	assert.True(t, ComputeEMI(dec("12000"), decimal.Zero, 12).Equal(dec("1000")))
}

func TestComputeEMI_NonPositiveMonths(t *testing.T) {
	assert.True(t, ComputeEMI(dec("1000"), dec("10"), 0).IsZero())
	assert.True(t, ComputeEMI(dec("1000"), decimal.Zero, -1).IsZero())
}

func TestMonthlyRate(t *testing.T) {
	assert.Equal(t, "0.01", MonthlyRate(dec("12")).String())
	assert.True(t, MonthlyRate(decimal.Zero).IsZero())
}

func TestDecomposePayment(t *testing.T) {
	split := DecomposePayment(dec("120000"), MonthlyRate(dec("12")), dec("10661.85"), dec("10661.85"))
	assert.Equal(t, "1200.00", split.Interest.StringFixed(2))
	assert.Equal(t, "9461.85", split.Principal.StringFixed(2))
}

func TestDecomposePayment_CapsPrincipalAtEMI(t *testing.T) {
	split := DecomposePayment(dec("10000"), MonthlyRate(dec("12")), dec("5000"), dec("1000"))
	assert.Equal(t, "100.00", split.Interest.StringFixed(2))
	assert.Equal(t, "900.00", split.Principal.StringFixed(2), "excess over the EMI earns no principal credit")
}

func TestDecomposePayment_UnderpaymentGoesNegative(t *testing.T) {
	split := DecomposePayment(dec("10000"), MonthlyRate(dec("12")), dec("40"), dec("1000"))
	assert.Equal(t, "100.00", split.Interest.StringFixed(2))
	assert.Equal(t, "-60.00", split.Principal.StringFixed(2))
}
