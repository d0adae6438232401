package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker/date"
	"github.com/etnz/tracker/market"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	instrument string
	lookback   string
	interval   string
	date       string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "summarize the price history of an instrument" }
func (*historyCmd) Usage() string {
	return `ptrack history -s <instrument> [-lookback <5d|1wk|1mo|3mo|1y|ytd|max>] [-interval <daily|weekly|monthly>] [-d <date>]

  Fetches the daily closes of an instrument from the market data API and
  reports the change, the returns and their volatility over the lookback.
  For a held instrument, the last close is compared to the average entry price.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.instrument, "s", "", "Instrument identifier")
	f.StringVar(&c.lookback, "lookback", "1mo", "Lookback ending on the date")
	f.StringVar(&c.interval, "interval", "daily", "Sampling interval")
	f.StringVar(&c.date, "d", date.Today().String(), "End date of the lookback")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.instrument == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	lookback, err := date.ParseLookback(c.lookback, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	interval, err := date.ParsePeriod(c.interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	log := newLogger()
	p, err := loadPortfolio(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	stats, err := p.History(ctx, newProvider(market.NewStatic(), log), c.instrument, lookback, interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderStats(stats))
	return subcommands.ExitSuccess
}
