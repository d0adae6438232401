package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the transaction log" }
func (*checkCmd) Usage() string {
	return `ptrack check

  Decodes and replays the whole transaction log, and reports the first
  invalid transaction: malformed record, unknown currency, or a sale larger
  than the position.
`
}

func (*checkCmd) SetFlags(f *flag.FlagSet) {}

func (*checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(newLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%s: %d transactions, %d instruments\n", *ledgerFile, p.Len(), len(p.Positions()))
	return subcommands.ExitSuccess
}
