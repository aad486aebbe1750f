package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCollection_QuarantinesInvalidLoans(t *testing.T) {
	raw := []byte(`[
		{"id": 1700000000000, "name": "Car", "principal": 120000, "interestRate": 10, "emi": 10549.91, "months": 12, "startDate": "2024-01-05", "extraAllowed": false},
		{"id": "b", "name": "No EMI", "principal": 1000, "interestRate": 0, "months": 10, "startDate": "2024-01-05"},
		{"id": "c", "name": "Bad type", "principal": 1000, "interestRate": 0, "emi": 100, "months": "ten", "startDate": "2024-01-05"},
		{"id": "d", "name": "", "principal": 1000, "interestRate": 0, "emi": 100, "months": 10, "startDate": "2024-01-05"},
		"not an object"
	]`)

	s := NewState()
	bad, err := s.DecodeCollection(CollectionDebts, raw)
	require.NoError(t, err)

	require.Len(t, s.Loans, 1)
	assert.Equal(t, LoanID("1700000000000"), s.Loans[0].ID)
	assert.True(t, s.Loans[0].EMI.Equal(decimal.RequireFromString("10549.91")))

	require.Len(t, bad, 4)
	assert.Equal(t, 1, bad[0].Index)
	assert.Contains(t, bad[0].Reason, `"emi"`)
	assert.Equal(t, 2, bad[1].Index)
	assert.Equal(t, 3, bad[2].Index)
	assert.Equal(t, 4, bad[3].Index)
}

func TestDecodeCollection_LoanNeedsExtraAllowedFlag(t *testing.T) {
	raw := []byte(`[
		{"id": "a", "name": "No flag", "principal": 1000, "interestRate": 0, "emi": 100, "months": 10, "startDate": "2024-01-01"},
		{"id": "b", "name": "Text flag", "principal": 1000, "interestRate": 0, "emi": 100, "months": 10, "startDate": "2024-01-01", "extraAllowed": "yes"},
		{"id": "c", "name": "Flexible", "principal": 1000, "interestRate": 0, "emi": 100, "months": 10, "startDate": "2024-01-01", "extraAllowed": true}
	]`)

	s := NewState()
	bad, err := s.DecodeCollection(CollectionDebts, raw)
	require.NoError(t, err)

	require.Len(t, s.Loans, 1)
	assert.Equal(t, LoanID("c"), s.Loans[0].ID)
	assert.True(t, s.Loans[0].ExtraAllowed)

	require.Len(t, bad, 2)
	assert.Equal(t, 0, bad[0].Index)
	assert.Contains(t, bad[0].Reason, `"extraAllowed"`)
	assert.Equal(t, 1, bad[1].Index)
}

func TestDecodeCollection_NullCountsAsMissing(t *testing.T) {
	s := NewState()
	bad, err := s.DecodeCollection(CollectionDebtPayments, []byte(`[{"debtId": "a", "date": null, "amount": 5}]`))
	require.NoError(t, err)
	assert.Empty(t, s.Payments)
	require.Len(t, bad, 1)
	assert.Equal(t, CollectionDebtPayments, bad[0].Collection)
}

func TestDecodeCollection_UnparseableLeavesCollection(t *testing.T) {
	s := NewState()
	s.Expenses = []Expense{{Date: MustParseDate("2024-01-01"), Category: "Food", Amount: decimal.NewFromInt(5)}}

	_, err := s.DecodeCollection(CollectionExpenses, []byte(`{"oops":`))
	assert.Error(t, err)
	assert.Len(t, s.Expenses, 1)
}

func TestDecodeCollection_Salary(t *testing.T) {
	s := NewState()
	_, err := s.DecodeCollection(CollectionSalary, []byte(`"85000.50"`))
	require.NoError(t, err)
	assert.Equal(t, "85000.5", s.Salary.String())

	_, err = s.DecodeCollection(CollectionSalary, []byte(`-1`))
	assert.ErrorIs(t, err, ErrSalaryNegative)
	assert.Equal(t, "85000.5", s.Salary.String())
}

func TestEncodeCollection_EmptyIsArray(t *testing.T) {
	s := &State{}
	data, err := s.EncodeCollection(CollectionInvestments)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = s.EncodeCollection(CollectionSalary)
	require.NoError(t, err)
	assert.JSONEq(t, `"0"`, string(data))
}

func TestEncodeDecode_PaymentsKeepFlags(t *testing.T) {
	s := NewState()
	s.Payments = PaymentLedger{
		{LoanID: "a", Date: MustParseDate("2024-01-05"), Amount: decimal.NewFromInt(100), IsHistorical: true},
		{LoanID: "a", Date: MustParseDate("2024-01-20"), Amount: decimal.NewFromInt(50), IsExtra: true},
	}
	data, err := s.EncodeCollection(CollectionDebtPayments)
	require.NoError(t, err)

	other := NewState()
	bad, err := other.DecodeCollection(CollectionDebtPayments, data)
	require.NoError(t, err)
	assert.Empty(t, bad)
	assert.Equal(t, s.Payments, other.Payments)
}
