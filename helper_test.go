package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/etnz/tracker/date"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

var day = date.MustParse("2025-01-10")

// holding is NewHolding for valid arguments.
func holding(id, currency string, variant Variant, held Quantity, invested Money) *Instrument {
	inst, err := NewHolding(id, currency, variant, held, invested)
	if err != nil {
		panic(err)
	}
	return inst
}

// fakeProvider serves prices from memory.
type fakeProvider struct {
	mu      sync.Mutex
	prices  map[string]Money
	failing map[string]int // number of failures before succeeding
	block   map[string]bool
	history map[string]*date.History[float64]
	calls   map[string]int
}

func newFakeProvider(prices map[string]Money) *fakeProvider {
	return &fakeProvider{
		prices:  prices,
		failing: make(map[string]int),
		block:   make(map[string]bool),
		history: make(map[string]*date.History[float64]),
		calls:   make(map[string]int),
	}
}

func (f *fakeProvider) CurrentPrice(ctx context.Context, id string) (Money, error) {
	f.mu.Lock()
	f.calls[id]++
	blocked := f.block[id]
	failing := f.failing[id] > 0
	if failing {
		f.failing[id]--
	}
	price, ok := f.prices[id]
	f.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return Money{}, ctx.Err()
	}
	if failing {
		return Money{}, fmt.Errorf("temporary failure on %s", id)
	}
	if !ok {
		return Money{}, fmt.Errorf("no quote for %s: %w", id, ErrPriceUnavailable)
	}
	return price, nil
}

func (f *fakeProvider) HistoricalPrices(ctx context.Context, id string, lookback date.Range, interval date.Period) (*date.History[float64], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.history[id]
	if !ok {
		return nil, fmt.Errorf("no history for %s: %w", id, ErrPriceUnavailable)
	}
	return h.Within(lookback).Sample(interval), nil
}

func (f *fakeProvider) Calls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}
