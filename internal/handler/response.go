package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Code     string            `json:"code,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation  = "https://fintrack.app/errors/validation"
	ErrorTypeNotFound    = "https://fintrack.app/errors/not-found"
	ErrorTypeConflict    = "https://fintrack.app/errors/conflict"
	ErrorTypePolicy      = "https://fintrack.app/errors/payment-policy"
	ErrorTypeUnavailable = "https://fintrack.app/errors/unavailable"
	ErrorTypeInternal    = "https://fintrack.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewPolicyError answers a rejected payment. A payment that clashes with
// an existing one in the same month is a conflict; anything else is
// unprocessable.
func NewPolicyError(c echo.Context, v *domain.PolicyViolation) error {
	status := http.StatusUnprocessableEntity
	switch v.Code {
	case domain.ViolationDuplicateMonthlyPayment, domain.ViolationConfirmationRequired:
		status = http.StatusConflict
	}
	return c.JSON(status, ProblemDetails{
		Type:     ErrorTypePolicy,
		Title:    "Payment Rejected",
		Status:   status,
		Detail:   v.Message,
		Instance: c.Request().URL.Path,
		Code:     string(v.Code),
	})
}

// NewUnavailableError creates a service unavailable error response
func NewUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// inputErrors are rejections of the request itself.
var inputErrors = []error{
	domain.ErrInvalidInput,
	domain.ErrNameRequired,
	domain.ErrNameTooLong,
	domain.ErrDateRequired,
	domain.ErrDateInFuture,
	domain.ErrAmountInvalid,
	domain.ErrPaymentAmountInvalid,
	domain.ErrPaymentLoanIDRequired,
	domain.ErrPaymentDateRequired,
	domain.ErrPaymentDateInFuture,
	domain.ErrExpenseCategoryEmpty,
	domain.ErrIncomeDescriptionEmpty,
	domain.ErrSalaryNegative,
	domain.ErrInvestmentCategoryEmpty,
	domain.ErrInvestmentValueNegative,
}

// handleServiceError answers the errors every handler shares. action names
// the failed operation in logs and in the internal error detail.
func handleServiceError(c echo.Context, err error, action string) error {
	var violation *domain.PolicyViolation
	switch {
	case errors.As(err, &violation):
		return NewPolicyError(c, violation)
	case errors.Is(err, domain.ErrPersistence):
		log.Error().Err(err).Msg("Failed to " + action)
		return NewUnavailableError(c, "Changes are kept in memory but could not be saved")
	case errors.Is(err, domain.ErrBackupDisabled):
		return NewUnavailableError(c, "Backup storage is not configured")
	case errors.Is(err, domain.ErrLoanNotFound):
		return NewNotFoundError(c, "Loan not found")
	case errors.Is(err, domain.ErrInvestmentNotFound):
		return NewNotFoundError(c, "Investment not found")
	case errors.Is(err, domain.ErrImportRejected):
		return NewValidationError(c, err.Error(), nil)
	}
	for _, inputErr := range inputErrors {
		if errors.Is(err, inputErr) {
			return NewValidationError(c, err.Error(), nil)
		}
	}
	log.Error().Err(err).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}

// parseMonthParam reads ?month=YYYY-MM, defaulting to fallback.
func parseMonthParam(c echo.Context, fallback domain.MonthKey) (domain.MonthKey, error) {
	value := c.QueryParam("month")
	if value == "" {
		return fallback, nil
	}
	return domain.ParseMonthKey(value)
}
