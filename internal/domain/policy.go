package domain

import "fmt"

// PolicyViolationCode names the rule a payment attempt broke.
type PolicyViolationCode string

const (
	ViolationExactEMIRequired        PolicyViolationCode = "ExactEMIRequired"
	ViolationDuplicateMonthlyPayment PolicyViolationCode = "DuplicateMonthlyPayment"
	ViolationExceedsRemainingBalance PolicyViolationCode = "ExceedsRemainingBalance"
	ViolationConfirmationRequired    PolicyViolationCode = "ConfirmationRequired"
)

// PolicyViolation rejects a payment attempt against a loan's EMI policy.
type PolicyViolation struct {
	Code    PolicyViolationCode
	LoanID  LoanID
	Message string
}

func (e *PolicyViolation) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Is matches any PolicyViolation with the same code, so
// errors.Is(err, ErrDuplicateMonthlyPayment) works on detailed violations.
func (e *PolicyViolation) Is(target error) bool {
	t, ok := target.(*PolicyViolation)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinel violations for errors.Is.
var (
	ErrExactEMIRequired        = &PolicyViolation{Code: ViolationExactEMIRequired}
	ErrDuplicateMonthlyPayment = &PolicyViolation{Code: ViolationDuplicateMonthlyPayment}
	ErrExceedsRemainingBalance = &PolicyViolation{Code: ViolationExceedsRemainingBalance}
	ErrConfirmationRequired    = &PolicyViolation{Code: ViolationConfirmationRequired}
)

// PolicyDecision is the outcome of an accepted payment attempt.
// RequiresConfirmation means the payment lands in a month that already has
// one; the caller must get explicit user consent before appending it.
type PolicyDecision struct {
	RequiresConfirmation bool `json:"requiresConfirmation"`
	IsExtra              bool `json:"isExtra"`
}
