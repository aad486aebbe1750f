package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// FinanceHandler handles expense, income and investment requests
type FinanceHandler struct {
	financeService *service.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// EntryRequest is the body shared by expenses and additional income
type EntryRequest struct {
	Date        string `json:"date"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
}

// SalaryRequest represents the set salary request body
type SalaryRequest struct {
	Amount string `json:"amount"`
}

// InvestmentRequest represents the create investment request body
type InvestmentRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Value    string `json:"value"`
}

// InvestmentValueRequest represents the update investment value request body
type InvestmentValueRequest struct {
	Value string `json:"value"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// IncomeResponse represents an additional income in API responses
type IncomeResponse struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// InvestmentResponse represents an investment in API responses
type InvestmentResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Value    string `json:"value"`
}

// entry is a bound and parsed EntryRequest.
type entry struct {
	EntryRequest
	date   domain.Date
	amount decimal.Decimal
}

// bindEntry parses an expense or income body. On failure it returns nil
// with the problem to report.
func bindEntry(c echo.Context) (*entry, string, []ValidationError) {
	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return nil, "Invalid request body", nil
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, "Invalid date", []ValidationError{{Field: "date", Message: "Must be in YYYY-MM-DD format"}}
	}
	amount, verr := parseAmount(req.Amount, "amount")
	if verr != nil {
		return nil, "Invalid amount", []ValidationError{*verr}
	}
	return &entry{EntryRequest: req, date: date, amount: amount}, "", nil
}

// AddExpense handles POST /api/v1/expenses
func (h *FinanceHandler) AddExpense(c echo.Context) error {
	in, detail, errs := bindEntry(c)
	if in == nil {
		return NewValidationError(c, detail, errs)
	}

	expense, err := h.financeService.AddExpense(c.Request().Context(), domain.Expense{
		Date:     in.date,
		Category: in.Category,
		Amount:   in.amount,
	})
	if err != nil {
		return handleServiceError(c, err, "add expense")
	}
	return c.JSON(http.StatusCreated, toExpenseResponse(*expense))
}

// GetExpenses handles GET /api/v1/expenses?month=YYYY-MM
func (h *FinanceHandler) GetExpenses(c echo.Context) error {
	month, err := parseMonthParam(c, h.financeService.CurrentMonth())
	if err != nil {
		return NewValidationError(c, "Invalid month", []ValidationError{{Field: "month", Message: "Must be in YYYY-MM format"}})
	}
	expenses, err := h.financeService.GetExpenses(c.Request().Context(), month)
	if err != nil {
		return handleServiceError(c, err, "get expenses")
	}
	response := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = toExpenseResponse(e)
	}
	return c.JSON(http.StatusOK, response)
}

// GetExpenseSummary handles GET /api/v1/expenses/summary?month=YYYY-MM
func (h *FinanceHandler) GetExpenseSummary(c echo.Context) error {
	month, err := parseMonthParam(c, h.financeService.CurrentMonth())
	if err != nil {
		return NewValidationError(c, "Invalid month", []ValidationError{{Field: "month", Message: "Must be in YYYY-MM format"}})
	}
	summary, err := h.financeService.GetExpenseSummary(c.Request().Context(), month)
	if err != nil {
		return handleServiceError(c, err, "get expense summary")
	}
	recent := make([]ExpenseResponse, len(summary.Recent))
	for i, e := range summary.Recent {
		recent[i] = toExpenseResponse(e)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"month":  summary.Month,
		"total":  summary.Total.StringFixed(2),
		"count":  summary.Count,
		"recent": recent,
	})
}

// GetSalary handles GET /api/v1/salary
func (h *FinanceHandler) GetSalary(c echo.Context) error {
	salary, err := h.financeService.GetSalary(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get salary")
	}
	return c.JSON(http.StatusOK, map[string]string{"amount": salary.StringFixed(2)})
}

// SetSalary handles PUT /api/v1/salary
func (h *FinanceHandler) SetSalary(c echo.Context) error {
	var req SalaryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, verr := parseAmount(req.Amount, "amount")
	if verr != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{*verr})
	}
	if err := h.financeService.SetSalary(c.Request().Context(), amount); err != nil {
		return handleServiceError(c, err, "set salary")
	}
	return c.JSON(http.StatusOK, map[string]string{"amount": amount.StringFixed(2)})
}

// AddIncome handles POST /api/v1/income
func (h *FinanceHandler) AddIncome(c echo.Context) error {
	in, detail, errs := bindEntry(c)
	if in == nil {
		return NewValidationError(c, detail, errs)
	}

	income, err := h.financeService.AddIncome(c.Request().Context(), domain.AdditionalIncome{
		Date:        in.date,
		Description: in.Description,
		Amount:      in.amount,
	})
	if err != nil {
		return handleServiceError(c, err, "add income")
	}
	return c.JSON(http.StatusCreated, toIncomeResponse(*income))
}

// GetIncomeSummary handles GET /api/v1/income/summary?month=YYYY-MM
func (h *FinanceHandler) GetIncomeSummary(c echo.Context) error {
	month, err := parseMonthParam(c, h.financeService.CurrentMonth())
	if err != nil {
		return NewValidationError(c, "Invalid month", []ValidationError{{Field: "month", Message: "Must be in YYYY-MM format"}})
	}
	summary, err := h.financeService.GetIncomeSummary(c.Request().Context(), month)
	if err != nil {
		return handleServiceError(c, err, "get income summary")
	}
	recent := make([]IncomeResponse, len(summary.RecentAdditional))
	for i, inc := range summary.RecentAdditional {
		recent[i] = toIncomeResponse(inc)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"month":            summary.Month,
		"salary":           summary.Salary.StringFixed(2),
		"additionalTotal":  summary.AdditionalTotal.StringFixed(2),
		"totalIncome":      summary.TotalIncome.StringFixed(2),
		"recentAdditional": recent,
	})
}

// AddInvestment handles POST /api/v1/investments
func (h *FinanceHandler) AddInvestment(c echo.Context) error {
	var req InvestmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	value, verr := parseAmount(req.Value, "value")
	if verr != nil {
		return NewValidationError(c, "Invalid value", []ValidationError{*verr})
	}

	inv, err := h.financeService.AddInvestment(c.Request().Context(), service.CreateInvestmentInput{
		Name:     req.Name,
		Category: req.Category,
		Value:    value,
	})
	if err != nil {
		return handleServiceError(c, err, "add investment")
	}
	return c.JSON(http.StatusCreated, toInvestmentResponse(*inv))
}

// UpdateInvestmentValue handles PATCH /api/v1/investments/:id
func (h *FinanceHandler) UpdateInvestmentValue(c echo.Context) error {
	var req InvestmentValueRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	value, verr := parseAmount(req.Value, "value")
	if verr != nil {
		return NewValidationError(c, "Invalid value", []ValidationError{*verr})
	}

	inv, err := h.financeService.UpdateInvestmentValue(c.Request().Context(), c.Param("id"), value)
	if err != nil {
		return handleServiceError(c, err, "update investment")
	}
	return c.JSON(http.StatusOK, toInvestmentResponse(*inv))
}

// GetInvestments handles GET /api/v1/investments
func (h *FinanceHandler) GetInvestments(c echo.Context) error {
	investments, err := h.financeService.GetInvestments(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get investments")
	}
	response := make([]InvestmentResponse, len(investments))
	for i, inv := range investments {
		response[i] = toInvestmentResponse(inv)
	}
	return c.JSON(http.StatusOK, response)
}

func toExpenseResponse(e domain.Expense) ExpenseResponse {
	return ExpenseResponse{Date: e.Date.String(), Category: e.Category, Amount: e.Amount.StringFixed(2)}
}

func toIncomeResponse(i domain.AdditionalIncome) IncomeResponse {
	return IncomeResponse{Date: i.Date.String(), Description: i.Description, Amount: i.Amount.StringFixed(2)}
}

func toInvestmentResponse(i domain.Investment) InvestmentResponse {
	return InvestmentResponse{ID: i.ID, Name: i.Name, Category: i.Category, Value: i.Value.StringFixed(2)}
}
