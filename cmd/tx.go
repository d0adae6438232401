package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	page       int
	size       int
	instrument string
	period     string
	date       string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions of the ledger, one page at a time" }
func (*txCmd) Usage() string {
	return `ptrack tx [-page <n>] [-size <n>] [-s <instrument>] [-period <5d|1wk|1mo|3mo|1y|ytd|max> [-d <date>]]

  Lists transactions in the order they were recorded, one page at a time.
  A negative page counts from the last one.
  Transactions can be restricted to an instrument, or to a period ending on
  a date.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.page, "page", 1, "Page to list, starting at 1")
	f.IntVar(&c.size, "size", 0, "Transactions per page, overrides -page-size")
	f.StringVar(&c.instrument, "s", "", "Only list transactions on this instrument")
	f.StringVar(&c.period, "period", "", "Only list transactions within this lookback")
	f.StringVar(&c.date, "d", date.Today().String(), "End date of the period")
}

func (c *txCmd) filters() ([]tracker.Filter, error) {
	var filters []tracker.Filter
	if c.instrument != "" {
		filters = append(filters, tracker.ByInstrument(c.instrument))
	}
	if c.period != "" {
		on, err := date.Parse(c.date)
		if err != nil {
			return nil, err
		}
		r, err := date.ParseLookback(c.period, on)
		if err != nil {
			return nil, err
		}
		filters = append(filters, tracker.ByPeriod(r))
	}
	return filters, nil
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.size > 0 {
		*pageSize = c.size
	}
	filters, err := c.filters()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	p, err := loadPortfolio(newLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	pager := p.Select(filters...)
	n := c.page
	if n < 0 {
		n = pager.Total() + 1 + n
	}
	if !pager.Set(n) {
		fmt.Fprintf(os.Stderr, "Error: page %d does not exist, there are %d pages\n", c.page, pager.Total())
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.RenderPage(pager.View()))
	return subcommands.ExitSuccess
}
