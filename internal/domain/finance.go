package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrExpenseCategoryEmpty     = errors.New("expense category is required")
	ErrIncomeDescriptionEmpty   = errors.New("income description is required")
	ErrSalaryNegative           = errors.New("salary must be 0 or greater")
	ErrInvestmentNotFound       = errors.New("investment not found")
	ErrInvestmentCategoryEmpty  = errors.New("investment category is required")
	ErrInvestmentValueNegative  = errors.New("investment value must be 0 or greater")
	ErrNetWorthSnapshotNotFound = errors.New("net worth snapshot not found")
)

// Expense is a single spending entry.
type Expense struct {
	Date     Date            `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func (e *Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrDateRequired
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrExpenseCategoryEmpty
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrAmountInvalid
	}
	return nil
}

// AdditionalIncome is income on top of the monthly salary.
type AdditionalIncome struct {
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (i *AdditionalIncome) Validate() error {
	if i.Date.IsZero() {
		return ErrDateRequired
	}
	if strings.TrimSpace(i.Description) == "" {
		return ErrIncomeDescriptionEmpty
	}
	if i.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrAmountInvalid
	}
	return nil
}

// Investment is an asset with a manually maintained current value.
type Investment struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

func (i *Investment) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrNameRequired
	}
	if len(i.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(i.Category) == "" {
		return ErrInvestmentCategoryEmpty
	}
	if i.Value.IsNegative() {
		return ErrInvestmentValueNegative
	}
	return nil
}

// NetWorthSnapshot records the net worth observed for a month.
type NetWorthSnapshot struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// ExpenseSummary sums the expenses of one month and keeps the most recent few for display.
type ExpenseSummary struct {
	Month  string          `json:"month"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
	Recent []Expense       `json:"recent"`
}

// IncomeSummary is salary plus the additional income of one month.
type IncomeSummary struct {
	Month            string             `json:"month"`
	Salary           decimal.Decimal    `json:"salary"`
	AdditionalTotal  decimal.Decimal    `json:"additionalTotal"`
	TotalIncome      decimal.Decimal    `json:"totalIncome"`
	RecentAdditional []AdditionalIncome `json:"recentAdditional"`
}

// DashboardSummary contains the main dashboard metrics
type DashboardSummary struct {
	Month                     string           `json:"month"`
	TotalCurrentDebt          decimal.Decimal  `json:"totalCurrentDebt"`
	TotalOutstandingPrincipal decimal.Decimal  `json:"totalOutstandingPrincipal"`
	TotalInvestments          decimal.Decimal  `json:"totalInvestments"`
	NetWorth                  decimal.Decimal  `json:"netWorth"`
	NetWorthChange            *decimal.Decimal `json:"netWorthChange,omitempty"`
	MonthlyExpenses           decimal.Decimal  `json:"monthlyExpenses"`
	MonthlyIncome             decimal.Decimal  `json:"monthlyIncome"`
	LoansWithMissedPayments   int              `json:"loansWithMissedPayments"`
	ActiveLoans               int              `json:"activeLoans"`
}

func (n *NetWorthSnapshot) Validate() error {
	if _, err := ParseMonthKey(n.Month); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
