package domain

import "github.com/shopspring/decimal"

// Breakdown is the point-in-time repayment picture of a loan. It is always
// derived by replaying the full payment history and is never stored.
type Breakdown struct {
	PrincipalPaid       decimal.Decimal `json:"principalPaid"`
	InterestPaid        decimal.Decimal `json:"interestPaid"`
	TotalPaid           decimal.Decimal `json:"totalPaid"`
	RemainingEMIs       int             `json:"remainingEMIs"`
	ProgressPercentage  decimal.Decimal `json:"progressPercentage"`
	PrincipalPercentage decimal.Decimal `json:"principalPercentage"`
	InterestPercentage  decimal.Decimal `json:"interestPercentage"`
}

// PaymentSplit is the principal/interest decomposition of one payment.
type PaymentSplit struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
}

// EMIStatus classifies a due installment relative to today.
type EMIStatus string

const (
	EMIStatusOverdue  EMIStatus = "overdue"
	EMIStatusUrgent   EMIStatus = "urgent"
	EMIStatusUpcoming EMIStatus = "upcoming"
	EMIStatusNormal   EMIStatus = "normal"
)

// ScheduleEntry is one projected installment.
type ScheduleEntry struct {
	Installment         int              `json:"installment"`
	DueDate             Date             `json:"dueDate"`
	DueAmount           decimal.Decimal  `json:"dueAmount"`
	RemainingAmount     decimal.Decimal  `json:"remainingAmount"`
	IsPaid              bool             `json:"isPaid"`
	ActualPaymentAmount *decimal.Decimal `json:"actualPaymentAmount,omitempty"`
	DaysUntilDue        int              `json:"daysUntilDue"`
	Status              EMIStatus        `json:"status"`
}

// LoanSummary bundles a loan with every derived view shown next to it.
type LoanSummary struct {
	Loan                 Loan            `json:"loan"`
	Breakdown            Breakdown       `json:"breakdown"`
	RemainingDebt        decimal.Decimal `json:"remainingDebt"`
	OutstandingPrincipal decimal.Decimal `json:"outstandingPrincipal"`
	MissedPayment        bool            `json:"missedPayment"`
	PaidThisMonth        bool            `json:"paidThisMonth"`
	PaymentCount         int             `json:"paymentCount"`
}
