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

// transactionCmd records a buy or a sell.
type transactionCmd struct {
	kind       tracker.Kind
	date       string
	instrument string
	typ        string
	currency   string
	quantity   string
	price      string
	fee        string
}

func (c *transactionCmd) Name() string { return string(c.kind) }
func (c *transactionCmd) Synopsis() string {
	if c.kind == tracker.Sell {
		return "sell units to trim or close a position"
	}
	return "buy units to open or add to a position"
}
func (c *transactionCmd) Usage() string {
	return fmt.Sprintf(`ptrack %s -s <instrument> -q <quantity> -p <price> [-f <fee>] [-c <currency>] [-t <type>] [-d <date>]

  Records a %s transaction in the transaction log, once it has been validated
  against the current positions.

  The currency is required for a new instrument, and the type is guessed from
  its name when missing (Stock, ETF, Bond or Crypto).
`, c.kind, c.kind)
}

func (c *transactionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), today if empty")
	f.StringVar(&c.instrument, "s", "", "Instrument identifier")
	f.StringVar(&c.typ, "t", "", "Instrument type: Stock, ETF, Bond or Crypto")
	f.StringVar(&c.currency, "c", "", "Instrument currency")
	f.StringVar(&c.quantity, "q", "", "Number of units")
	f.StringVar(&c.price, "p", "", "Price per unit")
	f.StringVar(&c.fee, "f", "0", "Transaction fee")
}

func (c *transactionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.instrument == "" || c.quantity == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	log := newLogger()
	p, err := loadPortfolio(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	tx, err := c.transaction(p.Instrument(c.instrument))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := p.AddTransaction(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := appendTransaction(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to transaction log %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	log.Debug().Str("instrument", tx.ID()).Str("kind", string(tx.Kind())).Stringer("quantity", tx.Quantity()).Msg("recorded")
	fmt.Fprintf(stdout, "%s, appended to %s\n", renderer.Transaction(tx), *ledgerFile)
	return subcommands.ExitSuccess
}

// transaction builds the transaction from flags. 'existing' is the registered
// instrument, if any, providing the type and currency.
func (c *transactionCmd) transaction(existing *tracker.Instrument) (tracker.Transaction, error) {
	typ, cur := tracker.GuessInstrumentType(c.instrument), c.currency
	if existing != nil {
		typ = existing.Type()
		if cur == "" {
			cur = existing.Currency()
		}
	}
	if c.typ != "" {
		t, err := tracker.ParseInstrumentType(c.typ)
		if err != nil {
			return tracker.Transaction{}, err
		}
		if existing != nil && existing.Type() != t {
			return tracker.Transaction{}, fmt.Errorf("%s is a %s, not a %s", c.instrument, existing.Type(), t)
		}
		typ = t
	}
	if err := tracker.ValidateCurrency(cur); err != nil {
		return tracker.Transaction{}, fmt.Errorf("%s: %w", c.instrument, err)
	}
	variant, err := typ.NewVariant()
	if err != nil {
		return tracker.Transaction{}, err
	}

	quantity, err := tracker.ParseQuantity(c.quantity)
	if err != nil {
		return tracker.Transaction{}, fmt.Errorf("invalid quantity %q: %w", c.quantity, err)
	}
	price, err := tracker.ParseMoney(c.price, cur)
	if err != nil {
		return tracker.Transaction{}, fmt.Errorf("invalid price %q: %w", c.price, err)
	}
	fee, err := tracker.ParseMoney(c.fee, cur)
	if err != nil {
		return tracker.Transaction{}, fmt.Errorf("invalid fee %q: %w", c.fee, err)
	}
	var on date.Date
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			return tracker.Transaction{}, fmt.Errorf("invalid date: %w", err)
		}
	}
	inst := tracker.NewInstrument(c.instrument, cur, variant)
	return tracker.NewTransaction(on, inst, c.kind, quantity, price, fee), nil
}
