package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// recentLimit is how many entries a monthly summary lists.
const recentLimit = 5

// FinanceService handles expenses, income and investments
type FinanceService struct {
	store domain.Workspace
	clock Clock
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(store domain.Workspace) *FinanceService {
	return &FinanceService{store: store, clock: time.Now}
}

// SetClock overrides the time source.
func (s *FinanceService) SetClock(clock Clock) {
	s.clock = clock
}

// AddExpense appends an expense.
func (s *FinanceService) AddExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	expense.Category = strings.TrimSpace(expense.Category)
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	err := s.store.Update(ctx, func(st *domain.State) error {
		st.Expenses = append(st.Expenses, expense)
		st.Touch(domain.CollectionExpenses)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// GetExpenses returns the expenses of month in ledger order.
func (s *FinanceService) GetExpenses(ctx context.Context, month domain.MonthKey) ([]domain.Expense, error) {
	expenses := make([]domain.Expense, 0)
	err := s.store.View(ctx, func(st *domain.State) error {
		for _, e := range st.Expenses {
			if e.Date.MonthKey() == month {
				expenses = append(expenses, e)
			}
		}
		return nil
	})
	return expenses, err
}

// GetExpenseSummary totals the expenses of month.
func (s *FinanceService) GetExpenseSummary(ctx context.Context, month domain.MonthKey) (*domain.ExpenseSummary, error) {
	expenses, err := s.GetExpenses(ctx, month)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return &domain.ExpenseSummary{
		Month:  month.String(),
		Total:  total,
		Count:  len(expenses),
		Recent: lastN(expenses, recentLimit),
	}, nil
}

// SetSalary replaces the monthly salary.
func (s *FinanceService) SetSalary(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrSalaryNegative
	}
	return s.store.Update(ctx, func(st *domain.State) error {
		st.Salary = amount
		st.Touch(domain.CollectionSalary)
		return nil
	})
}

// GetSalary returns the monthly salary.
func (s *FinanceService) GetSalary(ctx context.Context) (decimal.Decimal, error) {
	var salary decimal.Decimal
	err := s.store.View(ctx, func(st *domain.State) error {
		salary = st.Salary
		return nil
	})
	return salary, err
}

// AddIncome appends an additional income entry.
func (s *FinanceService) AddIncome(ctx context.Context, income domain.AdditionalIncome) (*domain.AdditionalIncome, error) {
	income.Description = strings.TrimSpace(income.Description)
	if err := income.Validate(); err != nil {
		return nil, err
	}
	err := s.store.Update(ctx, func(st *domain.State) error {
		st.AdditionalIncomes = append(st.AdditionalIncomes, income)
		st.Touch(domain.CollectionAdditionalIncomes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &income, nil
}

// GetIncomeSummary returns salary plus the additional income of month.
func (s *FinanceService) GetIncomeSummary(ctx context.Context, month domain.MonthKey) (*domain.IncomeSummary, error) {
	var summary domain.IncomeSummary
	err := s.store.View(ctx, func(st *domain.State) error {
		summary = incomeSummary(st, month)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func incomeSummary(st *domain.State, month domain.MonthKey) domain.IncomeSummary {
	incomes := make([]domain.AdditionalIncome, 0)
	additional := decimal.Zero
	for _, inc := range st.AdditionalIncomes {
		if inc.Date.MonthKey() == month {
			incomes = append(incomes, inc)
			additional = additional.Add(inc.Amount)
		}
	}
	return domain.IncomeSummary{
		Month:            month.String(),
		Salary:           st.Salary,
		AdditionalTotal:  additional,
		TotalIncome:      st.Salary.Add(additional),
		RecentAdditional: lastN(incomes, recentLimit),
	}
}

// CreateInvestmentInput contains input for creating an investment
type CreateInvestmentInput struct {
	Name     string
	Category string
	Value    decimal.Decimal
}

// AddInvestment stores a new investment under a fresh id.
func (s *FinanceService) AddInvestment(ctx context.Context, input CreateInvestmentInput) (*domain.Investment, error) {
	inv := domain.Investment{
		Name:     strings.TrimSpace(input.Name),
		Category: strings.TrimSpace(input.Category),
		Value:    input.Value,
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	inv.ID = id.String()

	err = s.store.Update(ctx, func(st *domain.State) error {
		st.Investments = append(st.Investments, inv)
		st.Touch(domain.CollectionInvestments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInvestmentValue sets the current value of an investment.
func (s *FinanceService) UpdateInvestmentValue(ctx context.Context, id string, value decimal.Decimal) (*domain.Investment, error) {
	if value.IsNegative() {
		return nil, domain.ErrInvestmentValueNegative
	}
	var updated domain.Investment
	err := s.store.Update(ctx, func(st *domain.State) error {
		inv, err := st.FindInvestment(id)
		if err != nil {
			return err
		}
		inv.Value = value
		updated = *inv
		st.Touch(domain.CollectionInvestments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetInvestments returns every investment.
func (s *FinanceService) GetInvestments(ctx context.Context) ([]domain.Investment, error) {
	var investments []domain.Investment
	err := s.store.View(ctx, func(st *domain.State) error {
		investments = append([]domain.Investment{}, st.Investments...)
		return nil
	})
	return investments, err
}

// CurrentMonth is the month containing today.
func (s *FinanceService) CurrentMonth() domain.MonthKey {
	return s.clock.today().MonthKey()
}

func totalInvestments(investments []domain.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.Value)
	}
	return total
}

func lastN[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[len(items)-n:]
	}
	return append([]T{}, items...)
}
