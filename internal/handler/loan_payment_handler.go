package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// LoanPaymentHandler handles loan payment-related HTTP requests
type LoanPaymentHandler struct {
	loanService *service.LoanService
}

// NewLoanPaymentHandler creates a new LoanPaymentHandler
func NewLoanPaymentHandler(loanService *service.LoanService) *LoanPaymentHandler {
	return &LoanPaymentHandler{loanService: loanService}
}

// RecordPaymentRequest represents the record payment request body
type RecordPaymentRequest struct {
	Amount  string `json:"amount"`
	Date    string `json:"date,omitempty"` // Optional: defaults to today
	Confirm bool   `json:"confirm"`
}

// PaymentResponse represents a loan payment in API responses
type PaymentResponse struct {
	LoanID       string `json:"loanId"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	IsHistorical bool   `json:"isHistorical"`
	IsExtra      bool   `json:"isExtra"`
}

// RecordPaymentResponse is the stored payment and the policy decision
type RecordPaymentResponse struct {
	Payment              PaymentResponse `json:"payment"`
	IsExtra              bool            `json:"isExtra"`
	RequiresConfirmation bool            `json:"requiresConfirmation"`
}

// PaymentHistoryResponse is one line of the payment history
type PaymentHistoryResponse struct {
	PaymentResponse
	LoanName string `json:"loanName"`
	Label    string `json:"label"`
}

// RecordPayment handles POST /api/v1/loans/:id/payments
func (h *LoanPaymentHandler) RecordPayment(c echo.Context) error {
	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, verr := parseAmount(req.Amount, "amount")
	if verr != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{*verr})
	}
	var date domain.Date
	if req.Date != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = d
	}

	res, err := h.loanService.RecordPayment(c.Request().Context(), service.RecordPaymentInput{
		LoanID:  loanIDParam(c),
		Amount:  amount,
		Date:    date,
		Confirm: req.Confirm,
	})
	if err != nil {
		return handleServiceError(c, err, "record payment")
	}

	return c.JSON(http.StatusCreated, RecordPaymentResponse{
		Payment:              toPaymentResponse(res.Payment),
		IsExtra:              res.Decision.IsExtra,
		RequiresConfirmation: res.Decision.RequiresConfirmation,
	})
}

// GetPayments handles GET /api/v1/loans/:id/payments
func (h *LoanPaymentHandler) GetPayments(c echo.Context) error {
	payments, err := h.loanService.GetPayments(c.Request().Context(), loanIDParam(c))
	if err != nil {
		return handleServiceError(c, err, "get loan payments")
	}

	response := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		response[i] = toPaymentResponse(p)
	}
	return c.JSON(http.StatusOK, response)
}

// GetPaymentHistory handles GET /api/v1/payments
func (h *LoanPaymentHandler) GetPaymentHistory(c echo.Context) error {
	history, err := h.loanService.GetPaymentHistory(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get payment history")
	}

	response := make([]PaymentHistoryResponse, len(history))
	for i, entry := range history {
		response[i] = PaymentHistoryResponse{
			PaymentResponse: toPaymentResponse(entry.Payment),
			LoanName:        entry.LoanName,
			Label:           entry.Label,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func toPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		LoanID:       string(p.LoanID),
		Date:         p.Date.String(),
		Amount:       p.Amount.StringFixed(2),
		IsHistorical: p.IsHistorical,
		IsExtra:      p.IsExtra,
	}
}
