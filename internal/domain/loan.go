package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanNameEmpty        = errors.New("debt name is required")
	ErrLoanNameTooLong      = errors.New("debt name must be 200 characters or less")
	ErrLoanPrincipalInvalid = errors.New("principal amount must be greater than 0")
	ErrLoanPrincipalTooHigh = errors.New("principal amount exceeds the maximum loan amount")
	ErrLoanRateInvalid      = errors.New("interest rate must be 0 or greater")
	ErrLoanMonthsInvalid    = errors.New("loan duration must be greater than 0")
	ErrLoanMonthsTooLarge   = errors.New("loan duration exceeds the maximum number of months")
	ErrLoanStartRequired    = errors.New("start date is required")
	ErrLoanStartInFuture    = errors.New("start date cannot be in the future")
	ErrLoanEMIInvalid       = errors.New("monthly EMI must be greater than 0")
	ErrLoanEMIMismatch      = errors.New("EMI amount appears incorrect for given loan terms")
	ErrLoanEMITooLow        = errors.New("EMI does not repay the principal within the loan duration")
)

// Loan limits applied when no configuration overrides them.
const (
	DefaultMaxLoanMonths = 360
	DefaultMaxLoanAmount = 100000000
)

// LoanID is an opaque loan identifier. New loans get a UUID; ids that were
// stored as JSON numbers by older exports are accepted and kept as text.
type LoanID string

func (id *LoanID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LoanID(s)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("loan id must be a string or number: %w", err)
	}
	*id = LoanID(n.String())
	return nil
}

// Loan is a debt repaid by equal monthly installments. Loans are immutable
// once created; the only lifecycle change is deletion.
type Loan struct {
	ID           LoanID          `json:"id"`
	Name         string          `json:"name"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interestRate"`
	EMI          decimal.Decimal `json:"emi"`
	Months       int             `json:"months"`
	StartDate    Date            `json:"startDate"`
	ExtraAllowed bool            `json:"extraAllowed"`
	CreatedAt    *time.Time      `json:"createdAt,omitempty"`
}

// LoanLimits bounds loan creation input.
type LoanLimits struct {
	MaxMonths int
	MaxAmount decimal.Decimal
}

// DefaultLoanLimits returns the limits used when configuration is silent.
func DefaultLoanLimits() LoanLimits {
	return LoanLimits{
		MaxMonths: DefaultMaxLoanMonths,
		MaxAmount: decimal.NewFromInt(DefaultMaxLoanAmount),
	}
}

// ValidateTerms checks the user-entered loan terms against limits. The EMI
// is not checked here because it may still have to be computed.
func (l *Loan) ValidateTerms(limits LoanLimits, today Date) error {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return ErrLoanNameEmpty
	}
	if len(name) > MaxNameLength {
		return ErrLoanNameTooLong
	}
	if l.Principal.LessThanOrEqual(decimal.Zero) {
		return ErrLoanPrincipalInvalid
	}
	if limits.MaxAmount.IsPositive() && l.Principal.GreaterThan(limits.MaxAmount) {
		return ErrLoanPrincipalTooHigh
	}
	if l.InterestRate.IsNegative() {
		return ErrLoanRateInvalid
	}
	if l.Months <= 0 {
		return ErrLoanMonthsInvalid
	}
	if limits.MaxMonths > 0 && l.Months > limits.MaxMonths {
		return ErrLoanMonthsTooLarge
	}
	if l.StartDate.IsZero() {
		return ErrLoanStartRequired
	}
	if l.StartDate.After(today) {
		return ErrLoanStartInFuture
	}
	return nil
}

// Validate checks the structural invariants every stored loan must satisfy.
func (l *Loan) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: loan id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(l.Name) == "" {
		return ErrLoanNameEmpty
	}
	if l.Principal.LessThanOrEqual(decimal.Zero) {
		return ErrLoanPrincipalInvalid
	}
	if l.InterestRate.IsNegative() {
		return ErrLoanRateInvalid
	}
	if l.Months <= 0 {
		return ErrLoanMonthsInvalid
	}
	if l.EMI.LessThanOrEqual(decimal.Zero) {
		return ErrLoanEMIInvalid
	}
	if l.StartDate.IsZero() {
		return ErrLoanStartRequired
	}
	return nil
}

// TotalPayable returns emi * months.
func (l *Loan) TotalPayable() decimal.Decimal {
	return l.EMI.Mul(decimal.NewFromInt(int64(l.Months)))
}

// EndDate returns the due date of the last installment.
func (l *Loan) EndDate() Date {
	return l.StartDate.AddMonths(l.Months - 1)
}
