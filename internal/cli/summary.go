package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the dashboard and every loan" }
func (*summaryCmd) Usage() string {
	return `fintrack summary

  Displays net worth, debts and the repayment progress of each loan. Like
  the dashboard endpoint, it records the current month's net worth.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	summary, err := a.Dashboard.GetSummary(ctx)
	if err != nil {
		return fail(err)
	}
	loans, err := a.Loans.GetSummaries(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(SummaryMarkdown(summary, loans, a.Config.Currency))
	return subcommands.ExitSuccess
}
