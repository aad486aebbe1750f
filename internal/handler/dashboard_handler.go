package handler

import (
	"net/http"

	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	Month                     string  `json:"month"`
	TotalCurrentDebt          string  `json:"totalCurrentDebt"`
	TotalOutstandingPrincipal string  `json:"totalOutstandingPrincipal"`
	TotalInvestments          string  `json:"totalInvestments"`
	NetWorth                  string  `json:"netWorth"`
	NetWorthChange            *string `json:"netWorthChange"`
	MonthlyExpenses           string  `json:"monthlyExpenses"`
	MonthlyIncome             string  `json:"monthlyIncome"`
	LoansWithMissedPayments   int     `json:"loansWithMissedPayments"`
	ActiveLoans               int     `json:"activeLoans"`
}

// NetWorthPointResponse is one month of the net worth history
type NetWorthPointResponse struct {
	Month string `json:"month"`
	Value string `json:"value"`
}

// GetSummary handles GET /api/v1/dashboard/summary
// Recording the current month's net worth is a side effect.
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summary, err := h.dashboardService.GetSummary(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get dashboard summary")
	}

	response := DashboardSummaryResponse{
		Month:                     summary.Month,
		TotalCurrentDebt:          summary.TotalCurrentDebt.StringFixed(2),
		TotalOutstandingPrincipal: summary.TotalOutstandingPrincipal.StringFixed(2),
		TotalInvestments:          summary.TotalInvestments.StringFixed(2),
		NetWorth:                  summary.NetWorth.StringFixed(2),
		MonthlyExpenses:           summary.MonthlyExpenses.StringFixed(2),
		MonthlyIncome:             summary.MonthlyIncome.StringFixed(2),
		LoansWithMissedPayments:   summary.LoansWithMissedPayments,
		ActiveLoans:               summary.ActiveLoans,
	}
	if summary.NetWorthChange != nil {
		change := summary.NetWorthChange.StringFixed(2)
		response.NetWorthChange = &change
	}

	return c.JSON(http.StatusOK, response)
}

// GetNetWorthHistory handles GET /api/v1/dashboard/net-worth
func (h *DashboardHandler) GetNetWorthHistory(c echo.Context) error {
	history, err := h.dashboardService.GetNetWorthHistory(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get net worth history")
	}

	response := make([]NetWorthPointResponse, len(history))
	for i, s := range history {
		response[i] = NetWorthPointResponse{Month: s.Month, Value: s.Value.StringFixed(2)}
	}
	return c.JSON(http.StatusOK, response)
}
