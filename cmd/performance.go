package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/market"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type performanceCmd struct {
	static  *market.Static
	workers int
	timeout time.Duration
	retries int
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "value positions at their current price" }
func (*performanceCmd) Usage() string {
	return `ptrack performance [-p <id>=<price>]... [-workers <n>] [-timeout <duration>] [-attempts <n>]

  Fetches the current price of every instrument and reports its value and
  profit or loss. Instruments that cannot be priced are listed apart.

  Prices come from the market data API (-price-url), or from -p flags when no
  API is configured.

Usage Examples:
$ ptrack performance -p AAPL=192.5 -p VWCE=118
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	c.static = market.NewStatic()
	f.Var(priceFlags{c.static}, "p", "Current price of an instrument as ID=price, repeatable")
	f.IntVar(&c.workers, "workers", tracker.DefaultPerformanceOptions.Workers, "Concurrent price requests")
	f.DurationVar(&c.timeout, "timeout", tracker.DefaultPerformanceOptions.Timeout, "Timeout of a price request")
	f.IntVar(&c.retries, "attempts", tracker.DefaultPerformanceOptions.Attempts, "Attempts per price")
}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger()
	p, err := loadPortfolio(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	result := p.PerformanceWith(ctx, newProvider(c.static, log), tracker.PerformanceOptions{
		Workers:  c.workers,
		Timeout:  c.timeout,
		Attempts: c.retries,
	})
	printMarkdown(renderer.RenderPerformance(result))

	if len(result) > 0 && len(result.Reports()) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no instrument could be priced\n")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
