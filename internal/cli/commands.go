// Package cli implements the fintrack command line tool.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/dafibh/fintrack/fintrack-backend/internal/app"
	"github.com/dafibh/fintrack/fintrack-backend/internal/config"
	"github.com/google/subcommands"
)

// Commands lists every subcommand of the tool.
var Commands = []subcommands.Command{
	&emiCmd{},
	&summaryCmd{},
	&exportCmd{},
	&importCmd{},
	&checkCmd{},
}

// openApp loads the configuration from the environment and opens the workspace.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
