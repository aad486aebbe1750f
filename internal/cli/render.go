package cli

import (
	"fmt"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/shopspring/decimal"
)

// EMIMarkdown describes the repayment of a prospective loan.
func EMIMarkdown(principal, rate decimal.Decimal, months int, emi decimal.Decimal, currency string) string {
	total := emi.Mul(decimal.NewFromInt(int64(months)))
	var b strings.Builder
	fmt.Fprintf(&b, "# EMI for %s at %s%% over %d months\n\n", domain.FormatMoney(principal, currency), rate.String(), months)
	b.WriteString("| | Amount |\n|:---|---:|\n")
	fmt.Fprintf(&b, "| Monthly EMI | %s |\n", domain.FormatMoney(emi, currency))
	fmt.Fprintf(&b, "| Total payable | %s |\n", domain.FormatMoney(total, currency))
	fmt.Fprintf(&b, "| Total interest | %s |\n", domain.FormatMoney(total.Sub(principal), currency))
	return b.String()
}

// SummaryMarkdown renders the dashboard followed by one row per loan.
func SummaryMarkdown(s *domain.DashboardSummary, loans []domain.LoanSummary, currency string) string {
	money := func(d decimal.Decimal) string { return domain.FormatMoney(d, currency) }

	var b strings.Builder
	fmt.Fprintf(&b, "# Summary for %s\n\n", s.Month)
	b.WriteString("| | Amount |\n|:---|---:|\n")
	fmt.Fprintf(&b, "| Net worth | %s |\n", money(s.NetWorth))
	if s.NetWorthChange != nil {
		fmt.Fprintf(&b, "| Change since last month | %s |\n", money(*s.NetWorthChange))
	}
	fmt.Fprintf(&b, "| Investments | %s |\n", money(s.TotalInvestments))
	fmt.Fprintf(&b, "| Outstanding principal | %s |\n", money(s.TotalOutstandingPrincipal))
	fmt.Fprintf(&b, "| Remaining debt | %s |\n", money(s.TotalCurrentDebt))
	fmt.Fprintf(&b, "| Income this month | %s |\n", money(s.MonthlyIncome))
	fmt.Fprintf(&b, "| Expenses this month | %s |\n", money(s.MonthlyExpenses))

	if len(loans) == 0 {
		b.WriteString("\nNo loans.\n")
		return b.String()
	}

	b.WriteString("\n## Loans\n\n")
	b.WriteString("| Loan | EMI | Paid | Remaining | EMIs left | Progress | Status |\n")
	b.WriteString("|:---|---:|---:|---:|---:|---:|:---|\n")
	for _, l := range loans {
		status := "on track"
		switch {
		case l.MissedPayment:
			status = "**missed payment**"
		case !l.RemainingDebt.IsPositive():
			status = "paid off"
		case l.PaidThisMonth:
			status = "paid this month"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s%% | %s |\n",
			l.Loan.Name,
			money(l.Loan.EMI),
			money(l.Breakdown.TotalPaid),
			money(l.RemainingDebt),
			l.Breakdown.RemainingEMIs,
			l.Breakdown.ProgressPercentage.StringFixed(1),
			status,
		)
	}
	return b.String()
}

// CheckMarkdown lists the notifications a check created and resolved.
func CheckMarkdown(result *service.CheckResult) string {
	var b strings.Builder
	if len(result.Created) > 0 {
		b.WriteString("# New notifications\n\n")
		for _, n := range result.Created {
			fmt.Fprintf(&b, "- **%s** %s\n", n.Priority, n.Message)
		}
	}
	if len(result.Resolved) > 0 {
		b.WriteString("\n# Resolved\n\n")
		for _, n := range result.Resolved {
			fmt.Fprintf(&b, "- %s\n", n.Message)
		}
	}
	return b.String()
}
