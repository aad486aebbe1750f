package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the workspace as JSON or CSV" }
func (*exportCmd) Usage() string {
	return `fintrack export [-f json|csv] [-o <file>]

  Writes the export to the file, or to stdout when no file is given.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", "json", "export format (json, csv)")
	f.StringVar(&c.output, "o", "", "output file")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "json" && c.format != "csv" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	var data []byte
	if c.format == "csv" {
		data, err = a.Transfer.ExportCSV(ctx)
	} else {
		data, err = a.Transfer.ExportJSON(ctx)
	}
	if err != nil {
		return fail(err)
	}

	if c.output == "" {
		_, err = os.Stdout.Write(data)
	} else {
		err = os.WriteFile(c.output, data, 0o600)
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a JSON export into the workspace" }
func (*importCmd) Usage() string {
	return `fintrack import <file>

  Replaces every collection present in the file. Nothing is changed when any
  record in the file is invalid.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one file")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		return fail(err)
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	result, err := a.Transfer.Import(ctx, data)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Imported %d collections\n", len(result.Collections))
	return subcommands.ExitSuccess
}
