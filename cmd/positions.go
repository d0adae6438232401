package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list held instruments with their cost basis" }
func (*positionsCmd) Usage() string {
	return `ptrack positions

  Lists every instrument of the transaction log with the quantity held, the
  weighted-average entry price and the amount invested.
`
}

func (*positionsCmd) SetFlags(f *flag.FlagSet) {}

func (*positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(newLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderPositions(p.Positions()))
	return subcommands.ExitSuccess
}
