// Package cmd implements the CLI application to track a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/market"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&transactionCmd{kind: tracker.Buy}, "transactions")
	c.Register(&transactionCmd{kind: tracker.Sell}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&checkCmd{}, "transactions")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&performanceCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerFile = flag.String("ledger-file", "transactions.csv", "Path to the transaction log (CSV format)")
	instFile   = flag.String("instruments-file", "", "Path to the instruments declarations (CSV format), optional")
	pageSize   = flag.Int("page-size", tracker.DefaultPageSize, "Number of transactions per ledger page")
	priceURL   = flag.String("price-url", "", "URL template of the current price API, {id} and {key} are replaced")
	pricePath  = flag.String("price-path", "", "jsonpath to the price in the price API response")
	historyURL = flag.String("history-url", "", "URL template of the daily closes API, {id}, {key}, {from} and {to} are replaced")
	apiKey     = flag.String("api-key", "", "Key of the market data API")
	currency   = flag.String("quote-currency", "", "Currency of quotes returned by the market data API")
	cacheDir   = flag.String("cache-dir", "", "Folder to cache market data responses for the day")
	verbose    = flag.Bool("v", false, "Verbose logging")
	raw        = flag.Bool("raw", false, "Print reports as raw markdown")
)

// environment variables that set a flag default.
var envFlags = map[string]string{
	"TRACKER_LEDGER_FILE":      "ledger-file",
	"TRACKER_INSTRUMENTS_FILE": "instruments-file",
	"TRACKER_PRICE_URL":        "price-url",
	"TRACKER_PRICE_PATH":       "price-path",
	"TRACKER_HISTORY_URL":      "history-url",
	"TRACKER_API_KEY":          "api-key",
	"TRACKER_VERBOSE":          "v",
}

// stdout receives reports.
var stdout io.Writer = os.Stdout

// LoadEnv reads an optional .env file, then sets the flags from their
// environment variables. It must be called before the command line is parsed,
// so that flags take precedence.
func LoadEnv(f *flag.FlagSet, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load environment: %w", err)
	}
	for env, name := range envFlags {
		v, ok := os.LookupEnv(env)
		if !ok || f.Lookup(name) == nil {
			continue
		}
		if err := f.Set(name, v); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", env, v, err)
		}
	}
	return nil
}

// newLogger returns the console logger of the application.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// loadPortfolio declares the instruments, if any, then decodes the
// transaction log. A missing log is an empty portfolio.
func loadPortfolio(log zerolog.Logger) (*tracker.Portfolio, error) {
	p := tracker.NewPortfolio(*pageSize)
	p.SetLogger(log)
	if *instFile != "" {
		if err := loadFile(*instFile, func(f *os.File) error { return tracker.LoadInstruments(f, p) }); err != nil {
			return nil, err
		}
		log.Debug().Str("file", *instFile).Int("instruments", len(p.Positions())).Msg("declared")
	}

	err := loadFile(*ledgerFile, func(f *os.File) error { return tracker.LoadLedger(f, p) })
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", *ledgerFile).Msg("no transaction log, starting empty")
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", *ledgerFile).Int("transactions", p.Len()).Msg("loaded")
	return p, nil
}

// loadFile opens 'name' for 'load'. Errors other than opening are prefixed with the file name.
func loadFile(name string, load func(*os.File) error) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := load(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// appendTransaction appends a single transaction to the transaction log.
//
// A log edited by hand may lack its final newline, it is completed first.
func appendTransaction(tx tracker.Transaction) error {
	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	if err := endLine(f); err != nil {
		f.Close()
		return err
	}
	if err := tracker.EncodeTransaction(f, tx); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// endLine writes a newline to f unless it is empty or already ends with one.
func endLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte{'\n'})
	return err
}

// newProvider returns the market data API configured by flags, behind an
// in-memory cache. Without API, prices are the static ones.
func newProvider(static *market.Static, log zerolog.Logger) tracker.PriceProvider {
	if *priceURL == "" && *historyURL == "" {
		return static
	}
	api := market.NewHTTP(market.Config{
		PriceURL:          *priceURL,
		PricePath:         *pricePath,
		Currency:          *currency,
		HistoryURL:        *historyURL,
		APIKey:            *apiKey,
		RequestsPerSecond: 5,
		Burst:             2,
		CacheDir:          *cacheDir,
	}, log)
	return market.NewCache(api, 10*time.Minute)
}

// priceFlags collects ID=price flags into a static provider.
type priceFlags struct{ static *market.Static }

func (p priceFlags) String() string { return "" }

func (p priceFlags) Set(v string) error {
	id, price, ok := strings.Cut(v, "=")
	if !ok || id == "" {
		return fmt.Errorf("want ID=price, got %q", v)
	}
	m, err := tracker.ParseMoney(price, "")
	if err != nil {
		return err
	}
	p.static.SetPrice(id, m)
	return nil
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	if !*raw {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120)); err == nil {
			if out, err := r.Render(md); err == nil {
				md = out
			}
		}
	}
	fmt.Fprint(stdout, md)
}
