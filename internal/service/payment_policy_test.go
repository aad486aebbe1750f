package service

import (
	"errors"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePayment_Strict(t *testing.T) {
	loan := carLoan()
	paidJan := onTimePayments(loan, 1)

	tests := []struct {
		name    string
		amount  string
		date    string
		ledger  domain.PaymentLedger
		wantErr error
	}{
		{"exact EMI in a new month", "10549.91", "2024-02-15", paidJan, nil},
		{"first payment", "10549.91", "2024-01-15", nil, nil},
		{"wrong amount", "10000", "2024-02-15", paidJan, domain.ErrExactEMIRequired},
		{"duplicate month with exact EMI", "10549.91", "2024-01-28", paidJan, domain.ErrDuplicateMonthlyPayment},
		{"duplicate month with other amount", "5", "2024-01-02", paidJan, domain.ErrDuplicateMonthlyPayment},
		{"other loan paid this month", "10549.91", "2024-01-20",
			domain.PaymentLedger{{LoanID: "other", Date: domain.MustParseDate("2024-01-20"), Amount: dec("1")}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := ValidatePayment(loan, dec(tt.amount), domain.MustParseDate(tt.date), tt.ledger)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, decision.RequiresConfirmation)
			assert.False(t, decision.IsExtra)
		})
	}
}

func TestValidatePayment_StrictViolationCarriesLoan(t *testing.T) {
	loan := carLoan()
	_, err := ValidatePayment(loan, dec("1"), loan.StartDate, nil)

	var violation *domain.PolicyViolation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, domain.ViolationExactEMIRequired, violation.Code)
	assert.Equal(t, loan.ID, violation.LoanID)
	assert.Contains(t, violation.Message, "10549.91")
}

func TestValidatePayment_ExtraAllowed(t *testing.T) {
	loan := zeroRateLoan()

	t.Run("any amount in a new month", func(t *testing.T) {
		decision, err := ValidatePayment(loan, dec("250"), loan.StartDate, nil)
		require.NoError(t, err)
		assert.False(t, decision.RequiresConfirmation)
	})

	t.Run("second payment in a month asks for confirmation", func(t *testing.T) {
		decision, err := ValidatePayment(loan, dec("250"), domain.MustParseDate("2024-01-30"), onTimePayments(loan, 1))
		require.NoError(t, err)
		assert.True(t, decision.RequiresConfirmation)
		assert.True(t, decision.IsExtra)
	})

	t.Run("up to the remaining debt", func(t *testing.T) {
		ledger := onTimePayments(loan, 11)
		_, err := ValidatePayment(loan, dec("1000"), domain.MustParseDate("2024-12-20"), ledger)
		assert.NoError(t, err)
	})

	t.Run("above the remaining debt", func(t *testing.T) {
		ledger := onTimePayments(loan, 11)
		_, err := ValidatePayment(loan, dec("1000.01"), domain.MustParseDate("2024-12-20"), ledger)
		assert.ErrorIs(t, err, domain.ErrExceedsRemainingBalance)
	})

	t.Run("fully paid loan rejects everything", func(t *testing.T) {
		_, err := ValidatePayment(loan, dec("0.01"), domain.MustParseDate("2025-01-20"), onTimePayments(loan, 12))
		assert.ErrorIs(t, err, domain.ErrExceedsRemainingBalance)
	})
}
