package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	Name         string  `json:"name"`
	Principal    string  `json:"principal"`
	InterestRate string  `json:"interestRate"`
	Months       int     `json:"months"`
	StartDate    string  `json:"startDate"`
	EMI          *string `json:"emi,omitempty"` // Optional: computed from the terms when omitted
	ExtraAllowed bool    `json:"extraAllowed"`
}

// PreviewEMIRequest represents the EMI preview request body
type PreviewEMIRequest struct {
	Principal    string `json:"principal"`
	InterestRate string `json:"interestRate"`
	Months       int    `json:"months"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Principal    string  `json:"principal"`
	InterestRate string  `json:"interestRate"`
	EMI          string  `json:"emi"`
	Months       int     `json:"months"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	TotalPayable string  `json:"totalPayable"`
	ExtraAllowed bool    `json:"extraAllowed"`
	CreatedAt    *string `json:"createdAt,omitempty"`
}

// CreateLoanResponse is the created loan plus its generated history
type CreateLoanResponse struct {
	Loan               LoanResponse      `json:"loan"`
	HistoricalPayments []PaymentResponse `json:"historicalPayments"`
}

// BreakdownResponse represents a repayment breakdown in API responses
type BreakdownResponse struct {
	PrincipalPaid       string `json:"principalPaid"`
	InterestPaid        string `json:"interestPaid"`
	TotalPaid           string `json:"totalPaid"`
	RemainingEMIs       int    `json:"remainingEMIs"`
	ProgressPercentage  string `json:"progressPercentage"`
	PrincipalPercentage string `json:"principalPercentage"`
	InterestPercentage  string `json:"interestPercentage"`
}

// LoanSummaryResponse is a loan with its derived figures
type LoanSummaryResponse struct {
	LoanResponse
	Breakdown            BreakdownResponse `json:"breakdown"`
	RemainingDebt        string            `json:"remainingDebt"`
	OutstandingPrincipal string            `json:"outstandingPrincipal"`
	MissedPayment        bool              `json:"missedPayment"`
	PaidThisMonth        bool              `json:"paidThisMonth"`
	PaymentCount         int               `json:"paymentCount"`
}

// ScheduleEntryResponse represents one projected installment
type ScheduleEntryResponse struct {
	Installment         int     `json:"installment"`
	DueDate             string  `json:"dueDate"`
	DueAmount           string  `json:"dueAmount"`
	RemainingAmount     string  `json:"remainingAmount"`
	IsPaid              bool    `json:"isPaid"`
	ActualPaymentAmount *string `json:"actualPaymentAmount,omitempty"`
	DaysUntilDue        int     `json:"daysUntilDue"`
	Status              string  `json:"status"`
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return NewValidationError(c, "Invalid principal", []ValidationError{
			{Field: "principal", Message: "Must be a valid decimal number"},
		})
	}
	rate := decimal.Zero
	if req.InterestRate != "" {
		rate, err = decimal.NewFromString(req.InterestRate)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
	}
	var startDate domain.Date
	if req.StartDate != "" {
		startDate, err = domain.ParseDate(req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid start date", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}
	var emi *decimal.Decimal
	if req.EMI != nil && *req.EMI != "" {
		v, err := decimal.NewFromString(*req.EMI)
		if err != nil {
			return NewValidationError(c, "Invalid EMI", []ValidationError{
				{Field: "emi", Message: "Must be a valid decimal number"},
			})
		}
		emi = &v
	}

	res, err := h.loanService.CreateLoan(c.Request().Context(), service.CreateLoanInput{
		Name:         req.Name,
		Principal:    principal,
		InterestRate: rate,
		Months:       req.Months,
		StartDate:    startDate,
		EMI:          emi,
		ExtraAllowed: req.ExtraAllowed,
	})
	if err != nil {
		if field, ok := loanFieldError(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{field})
		}
		return handleServiceError(c, err, "create loan")
	}

	history := make([]PaymentResponse, 0, len(res.HistoricalPayments))
	for _, p := range res.HistoricalPayments {
		history = append(history, toPaymentResponse(p))
	}
	return c.JSON(http.StatusCreated, CreateLoanResponse{
		Loan:               toLoanResponse(&res.Loan),
		HistoricalPayments: history,
	})
}

// loanFieldError maps loan term errors to the request field they concern.
func loanFieldError(err error) (ValidationError, bool) {
	fields := []struct {
		err   error
		field string
	}{
		{domain.ErrLoanNameEmpty, "name"},
		{domain.ErrLoanNameTooLong, "name"},
		{domain.ErrLoanPrincipalInvalid, "principal"},
		{domain.ErrLoanPrincipalTooHigh, "principal"},
		{domain.ErrLoanRateInvalid, "interestRate"},
		{domain.ErrLoanMonthsInvalid, "months"},
		{domain.ErrLoanMonthsTooLarge, "months"},
		{domain.ErrLoanStartRequired, "startDate"},
		{domain.ErrLoanStartInFuture, "startDate"},
		{domain.ErrLoanEMIInvalid, "emi"},
		{domain.ErrLoanEMIMismatch, "emi"},
		{domain.ErrLoanEMITooLow, "emi"},
	}
	for _, f := range fields {
		if errors.Is(err, f.err) {
			return ValidationError{Field: f.field, Message: f.err.Error()}, true
		}
	}
	return ValidationError{}, false
}

// PreviewEMI handles POST /api/v1/loans/emi/preview
func (h *LoanHandler) PreviewEMI(c echo.Context) error {
	var req PreviewEMIRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return NewValidationError(c, "Invalid principal", []ValidationError{
			{Field: "principal", Message: "Must be a valid decimal number"},
		})
	}
	rate := decimal.Zero
	if req.InterestRate != "" {
		if rate, err = decimal.NewFromString(req.InterestRate); err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	emi, err := h.loanService.PreviewEMI(principal, rate, req.Months)
	if err != nil {
		if field, ok := loanFieldError(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{field})
		}
		return handleServiceError(c, err, "preview EMI")
	}

	total := emi.Mul(decimal.NewFromInt(int64(req.Months)))
	return c.JSON(http.StatusOK, map[string]string{
		"emi":           emi.StringFixed(2),
		"totalPayable":  total.StringFixed(2),
		"totalInterest": total.Sub(principal).StringFixed(2),
	})
}

// GetLoans handles GET /api/v1/loans
func (h *LoanHandler) GetLoans(c echo.Context) error {
	summaries, err := h.loanService.GetSummaries(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get loans")
	}
	response := make([]LoanSummaryResponse, len(summaries))
	for i := range summaries {
		response[i] = toLoanSummaryResponse(&summaries[i])
	}
	return c.JSON(http.StatusOK, response)
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c echo.Context) error {
	summary, err := h.loanService.GetSummary(c.Request().Context(), loanIDParam(c))
	if err != nil {
		return handleServiceError(c, err, "get loan")
	}
	return c.JSON(http.StatusOK, toLoanSummaryResponse(summary))
}

// DeleteLoan handles DELETE /api/v1/loans/:id
func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	if err := h.loanService.DeleteLoan(c.Request().Context(), loanIDParam(c)); err != nil {
		return handleServiceError(c, err, "delete loan")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBreakdown handles GET /api/v1/loans/:id/breakdown
func (h *LoanHandler) GetBreakdown(c echo.Context) error {
	breakdown, err := h.loanService.GetBreakdown(c.Request().Context(), loanIDParam(c))
	if err != nil {
		return handleServiceError(c, err, "get breakdown")
	}
	return c.JSON(http.StatusOK, toBreakdownResponse(breakdown))
}

// GetSchedule handles GET /api/v1/loans/:id/schedule
func (h *LoanHandler) GetSchedule(c echo.Context) error {
	entries, err := h.loanService.GetSchedule(c.Request().Context(), loanIDParam(c))
	if err != nil {
		return handleServiceError(c, err, "get schedule")
	}
	return c.JSON(http.StatusOK, toScheduleResponse(entries))
}

// GetUpcoming handles GET /api/v1/loans/:id/upcoming
func (h *LoanHandler) GetUpcoming(c echo.Context) error {
	entries, err := h.loanService.GetUpcoming(c.Request().Context(), loanIDParam(c))
	if err != nil {
		return handleServiceError(c, err, "get upcoming EMIs")
	}
	return c.JSON(http.StatusOK, toScheduleResponse(entries))
}

func loanIDParam(c echo.Context) domain.LoanID {
	return domain.LoanID(c.Param("id"))
}

func toLoanResponse(l *domain.Loan) LoanResponse {
	resp := LoanResponse{
		ID:           string(l.ID),
		Name:         l.Name,
		Principal:    l.Principal.StringFixed(2),
		InterestRate: l.InterestRate.String(),
		EMI:          l.EMI.StringFixed(2),
		Months:       l.Months,
		StartDate:    l.StartDate.String(),
		EndDate:      l.EndDate().String(),
		TotalPayable: l.TotalPayable().StringFixed(2),
		ExtraAllowed: l.ExtraAllowed,
	}
	if l.CreatedAt != nil {
		createdAt := l.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.CreatedAt = &createdAt
	}
	return resp
}

func toBreakdownResponse(b *domain.Breakdown) BreakdownResponse {
	return BreakdownResponse{
		PrincipalPaid:       b.PrincipalPaid.StringFixed(2),
		InterestPaid:        b.InterestPaid.StringFixed(2),
		TotalPaid:           b.TotalPaid.StringFixed(2),
		RemainingEMIs:       b.RemainingEMIs,
		ProgressPercentage:  b.ProgressPercentage.StringFixed(2),
		PrincipalPercentage: b.PrincipalPercentage.StringFixed(2),
		InterestPercentage:  b.InterestPercentage.StringFixed(2),
	}
}

func toLoanSummaryResponse(s *domain.LoanSummary) LoanSummaryResponse {
	return LoanSummaryResponse{
		LoanResponse:         toLoanResponse(&s.Loan),
		Breakdown:            toBreakdownResponse(&s.Breakdown),
		RemainingDebt:        s.RemainingDebt.StringFixed(2),
		OutstandingPrincipal: s.OutstandingPrincipal.StringFixed(2),
		MissedPayment:        s.MissedPayment,
		PaidThisMonth:        s.PaidThisMonth,
		PaymentCount:         s.PaymentCount,
	}
}

func toScheduleResponse(entries []domain.ScheduleEntry) []ScheduleEntryResponse {
	response := make([]ScheduleEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = ScheduleEntryResponse{
			Installment:     e.Installment,
			DueDate:         e.DueDate.String(),
			DueAmount:       e.DueAmount.StringFixed(2),
			RemainingAmount: e.RemainingAmount.StringFixed(2),
			IsPaid:          e.IsPaid,
			DaysUntilDue:    e.DaysUntilDue,
			Status:          string(e.Status),
		}
		if e.ActualPaymentAmount != nil {
			amount := e.ActualPaymentAmount.StringFixed(2)
			response[i].ActualPaymentAmount = &amount
		}
	}
	return response
}

// parseAmount parses a decimal request field.
func parseAmount(value, field string) (decimal.Decimal, *ValidationError) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Message: "Must be a valid decimal number"}
	}
	return d, nil
}
