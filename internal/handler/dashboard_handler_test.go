package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
)

func TestDashboard_GetSummary(t *testing.T) {
	env := newTestEnv(t)
	env.createCarLoan(t)
	if _, err := env.finance.AddInvestment(context.Background(), service.CreateInvestmentInput{
		Name: "Gold", Category: "Commodity", Value: mustDecimal(t, "200000"),
	}); err != nil {
		t.Fatalf("Failed to add investment: %v", err)
	}
	handler := NewDashboardHandler(env.dashboard)

	c, rec := env.context(http.MethodGet, "/api/v1/dashboard/summary", "")
	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var response DashboardSummaryResponse
	decodeBody(t, rec, &response)

	if response.Month != "2024-06" {
		t.Errorf("Expected month 2024-06, got %s", response.Month)
	}
	// 12 * 10549.91 - 5 * 10549.91
	if response.TotalCurrentDebt != "73849.37" {
		t.Errorf("Expected total debt '73849.37', got %s", response.TotalCurrentDebt)
	}
	if response.TotalInvestments != "200000.00" {
		t.Errorf("Expected investments '200000.00', got %s", response.TotalInvestments)
	}
	if response.ActiveLoans != 1 || response.LoansWithMissedPayments != 0 {
		t.Errorf("Unexpected loan counts: %+v", response)
	}
	if response.NetWorthChange != nil {
		t.Errorf("Expected no change without a previous month, got %s", *response.NetWorthChange)
	}

	c, rec = env.context(http.MethodGet, "/api/v1/dashboard/net-worth", "")
	if err := handler.GetNetWorthHistory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var history []NetWorthPointResponse
	decodeBody(t, rec, &history)
	if len(history) != 1 || history[0].Month != "2024-06" || history[0].Value != response.NetWorth {
		t.Errorf("Unexpected history: %+v", history)
	}
}
