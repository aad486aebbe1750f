package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every API handler for route registration
type Handlers struct {
	Loan         *LoanHandler
	LoanPayment  *LoanPaymentHandler
	Finance      *FinanceHandler
	Dashboard    *DashboardHandler
	Notification *NotificationHandler
	Transfer     *TransferHandler
	Sync         *SyncHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Loan routes
	loans := api.Group("/loans")
	loans.POST("", h.Loan.CreateLoan)
	loans.GET("", h.Loan.GetLoans)
	loans.POST("/emi/preview", h.Loan.PreviewEMI)
	loans.GET("/:id", h.Loan.GetLoan)
	loans.DELETE("/:id", h.Loan.DeleteLoan)
	loans.GET("/:id/breakdown", h.Loan.GetBreakdown)
	loans.GET("/:id/schedule", h.Loan.GetSchedule)
	loans.GET("/:id/upcoming", h.Loan.GetUpcoming)
	loans.POST("/:id/payments", h.LoanPayment.RecordPayment)
	loans.GET("/:id/payments", h.LoanPayment.GetPayments)

	// Payment history across loans
	api.GET("/payments", h.LoanPayment.GetPaymentHistory)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", h.Finance.AddExpense)
	expenses.GET("", h.Finance.GetExpenses)
	expenses.GET("/summary", h.Finance.GetExpenseSummary)

	// Income routes
	api.GET("/salary", h.Finance.GetSalary)
	api.PUT("/salary", h.Finance.SetSalary)
	api.POST("/income", h.Finance.AddIncome)
	api.GET("/income/summary", h.Finance.GetIncomeSummary)

	// Investment routes
	investments := api.Group("/investments")
	investments.POST("", h.Finance.AddInvestment)
	investments.GET("", h.Finance.GetInvestments)
	investments.PATCH("/:id", h.Finance.UpdateInvestmentValue)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", h.Dashboard.GetSummary)
	dashboard.GET("/net-worth", h.Dashboard.GetNetWorthHistory)

	// Notification routes
	notifications := api.Group("/notifications")
	notifications.GET("", h.Notification.List)
	notifications.POST("/check", h.Notification.Check)
	notifications.POST("/read", h.Notification.MarkAllRead)
	notifications.DELETE("", h.Notification.Clear)

	// Data transfer routes
	api.GET("/export/json", h.Transfer.ExportJSON)
	api.GET("/export/csv", h.Transfer.ExportCSV)
	api.POST("/import", h.Transfer.Import)
	api.POST("/backup", h.Transfer.Backup)

	// Connectivity routes
	api.GET("/sync", h.Sync.Status)
	api.PUT("/sync", h.Sync.SetStatus)
}
