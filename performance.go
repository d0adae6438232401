package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PerformanceOptions bounds price fetching during a performance report.
type PerformanceOptions struct {
	Workers  int           // concurrent fetches
	Timeout  time.Duration // per attempt
	Attempts int           // including the first one
	Backoff  time.Duration // before the second attempt, doubled after each failure
}

// DefaultPerformanceOptions are used for zero fields of PerformanceOptions.
var DefaultPerformanceOptions = PerformanceOptions{
	Workers:  4,
	Timeout:  10 * time.Second,
	Attempts: 2,
	Backoff:  200 * time.Millisecond,
}

func (o PerformanceOptions) withDefaults() PerformanceOptions {
	if o.Workers <= 0 {
		o.Workers = DefaultPerformanceOptions.Workers
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultPerformanceOptions.Timeout
	}
	if o.Attempts <= 0 {
		o.Attempts = DefaultPerformanceOptions.Attempts
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultPerformanceOptions.Backoff
	}
	return o
}

// PerformanceEntry is the outcome for one instrument: a report, or the error
// that prevented it.
type PerformanceEntry struct {
	ID     string
	Report PerformanceReport
	Err    error
}

// PerformanceResult lists one entry per instrument, in identifier order.
type PerformanceResult []PerformanceEntry

// Get returns the entry of 'id'.
func (r PerformanceResult) Get(id string) (PerformanceEntry, bool) {
	for _, e := range r {
		if e.ID == id {
			return e, true
		}
	}
	return PerformanceEntry{}, false
}

// Reports returns successful reports only.
func (r PerformanceResult) Reports() []PerformanceReport {
	var reports []PerformanceReport
	for _, e := range r {
		if e.Err == nil {
			reports = append(reports, e.Report)
		}
	}
	return reports
}

// Err joins the errors of all failed entries, nil if none failed.
func (r PerformanceResult) Err() error {
	var errs []error
	for _, e := range r {
		if e.Err != nil {
			errs = append(errs, e.Err)
		}
	}
	return errors.Join(errs...)
}

// Performance reports on every instrument using DefaultPerformanceOptions.
func (p *Portfolio) Performance(ctx context.Context, provider PriceProvider) PerformanceResult {
	return p.PerformanceWith(ctx, provider, PerformanceOptions{})
}

// PerformanceWith fetches the current price of every instrument and computes
// its performance.
//
// Instruments are read from a snapshot so that the portfolio stays available
// while prices are fetched. A failure only affects its own entry.
func (p *Portfolio) PerformanceWith(ctx context.Context, provider PriceProvider, opts PerformanceOptions) PerformanceResult {
	opts = opts.withDefaults()
	insts := p.snapshot()
	p.mu.Lock()
	log := p.log
	p.mu.Unlock()

	result := make(PerformanceResult, len(insts))
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, inst := range insts {
		g.Go(func() error {
			entry := PerformanceEntry{ID: inst.id}
			price, err := fetchPrice(ctx, provider, inst.id, opts, log)
			if err == nil {
				entry.Report, err = inst.Performance(price)
			}
			entry.Err = err
			if entry.Err != nil {
				log.Warn().Err(entry.Err).Str("instrument", inst.id).Msg("no performance")
			}
			result[i] = entry // each goroutine owns its slot
			return nil
		})
	}
	_ = g.Wait() // errors are per entry
	return result
}

// fetchPrice retries CurrentPrice with an exponential backoff, each attempt
// bounded by opts.Timeout.
func fetchPrice(ctx context.Context, provider PriceProvider, id string, opts PerformanceOptions, log zerolog.Logger) (Money, error) {
	backoff := opts.Backoff
	var err error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		var price Money
		price, err = currentPrice(ctx, provider, id, opts.Timeout)
		if err == nil {
			return price, nil
		}
		if attempt == opts.Attempts || ctx.Err() != nil {
			break
		}
		log.Debug().Err(err).Str("instrument", id).Int("attempt", attempt).Dur("backoff", backoff).Msg("retrying price")
		select {
		case <-ctx.Done():
			return Money{}, fmt.Errorf("price of %s: %w", id, errors.Join(err, ctx.Err()))
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return Money{}, fmt.Errorf("price of %s: %w", id, err)
}

func currentPrice(ctx context.Context, provider PriceProvider, id string, timeout time.Duration) (Money, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	price, err := provider.CurrentPrice(ctx, id)
	if err != nil {
		return Money{}, err
	}
	if !price.IsPositive() {
		return Money{}, fmt.Errorf("non positive quote %s: %w", price, ErrPriceUnavailable)
	}
	return price, nil
}
