package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLoan() Loan {
	return Loan{
		ID:           "loan-1",
		Name:         "Car",
		Principal:    decimal.NewFromInt(120000),
		InterestRate: decimal.NewFromInt(10),
		EMI:          decimal.RequireFromString("10549.91"),
		Months:       12,
		StartDate:    MustParseDate("2024-01-05"),
	}
}

func TestLoan_ValidateTerms(t *testing.T) {
	today := MustParseDate("2024-06-01")
	limits := DefaultLoanLimits()

	tests := []struct {
		name   string
		mutate func(l *Loan)
		want   error
	}{
		{"valid", func(l *Loan) {}, nil},
		{"empty name", func(l *Loan) { l.Name = "  " }, ErrLoanNameEmpty},
		{"long name", func(l *Loan) { l.Name = strings.Repeat("x", 201) }, ErrLoanNameTooLong},
		{"zero principal", func(l *Loan) { l.Principal = decimal.Zero }, ErrLoanPrincipalInvalid},
		{"huge principal", func(l *Loan) { l.Principal = decimal.NewFromInt(100000001) }, ErrLoanPrincipalTooHigh},
		{"negative rate", func(l *Loan) { l.InterestRate = decimal.NewFromInt(-1) }, ErrLoanRateInvalid},
		{"zero months", func(l *Loan) { l.Months = 0 }, ErrLoanMonthsInvalid},
		{"too many months", func(l *Loan) { l.Months = 361 }, ErrLoanMonthsTooLarge},
		{"no start", func(l *Loan) { l.StartDate = Date{} }, ErrLoanStartRequired},
		{"future start", func(l *Loan) { l.StartDate = MustParseDate("2024-06-02") }, ErrLoanStartInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLoan()
			tt.mutate(&l)
			err := l.ValidateTerms(limits, today)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoan_TotalPayableAndEndDate(t *testing.T) {
	l := validLoan()
	assert.Equal(t, "126598.92", l.TotalPayable().StringFixed(2))
	assert.Equal(t, "2024-12-05", l.EndDate().String())
}

func TestLoanID_UnmarshalAcceptsNumbers(t *testing.T) {
	var ids []LoanID
	require.NoError(t, json.Unmarshal([]byte(`["abc", 1712345678901]`), &ids))
	assert.Equal(t, []LoanID{"abc", "1712345678901"}, ids)

	var id LoanID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}
