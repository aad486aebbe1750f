package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type emiCmd struct {
	principal string
	rate      string
	months    int
	currency  string
}

func (*emiCmd) Name() string     { return "emi" }
func (*emiCmd) Synopsis() string { return "compute the monthly EMI of a loan" }
func (*emiCmd) Usage() string {
	return `fintrack emi -p <principal> [-r <annual rate %>] -n <months>

  Prints the EMI, the total payable and the total interest without touching
  the workspace.
`
}

func (c *emiCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.principal, "p", "", "principal amount")
	f.StringVar(&c.rate, "r", "0", "annual interest rate in percent")
	f.IntVar(&c.months, "n", 12, "duration in months")
	f.StringVar(&c.currency, "c", domain.DefaultCurrency, "currency code used for display")
}

func (c *emiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	principal, err := decimal.NewFromString(c.principal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid principal %q\n", c.principal)
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(c.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid rate %q\n", c.rate)
		return subcommands.ExitUsageError
	}

	loans := service.NewLoanService(nil, domain.DefaultLoanLimits(), nil, nil)
	emi, err := loans.PreviewEMI(principal, rate, c.months)
	if err != nil {
		return fail(err)
	}
	printMarkdown(EMIMarkdown(principal, rate, c.months, emi, c.currency))
	return subcommands.ExitSuccess
}
