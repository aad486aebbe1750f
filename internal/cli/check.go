package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check for due and missed EMIs" }
func (*checkCmd) Usage() string {
	return `fintrack check

  Runs one notification check and prints the notifications it created.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	result, err := a.Notifications.CheckForDueEMIs(ctx)
	if err != nil {
		return fail(err)
	}
	if len(result.Created) == 0 && len(result.Resolved) == 0 {
		fmt.Println("Nothing due.")
		return subcommands.ExitSuccess
	}
	printMarkdown(CheckMarkdown(result))
	return subcommands.ExitSuccess
}
