// Package market provides implementations of tracker.PriceProvider.
package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
)

// Static serves prices held in memory.
type Static struct {
	mu      sync.RWMutex
	prices  map[string]tracker.Money
	history map[string]*date.History[float64]
}

// NewStatic returns an empty Static provider.
func NewStatic() *Static {
	return &Static{
		prices:  make(map[string]tracker.Money),
		history: make(map[string]*date.History[float64]),
	}
}

// SetPrice sets the current price of 'id'.
func (s *Static) SetPrice(id string, price tracker.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[id] = price
}

// AddClose records the closing price of 'id' on 'day'.
func (s *Static) AddClose(id string, day date.Date, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.history[id]
	if !ok {
		h = new(date.History[float64])
		s.history[id] = h
	}
	h.Append(day, price)
}

// CurrentPrice implements tracker.PriceProvider. Without a price set, the
// latest close is used.
func (s *Static) CurrentPrice(ctx context.Context, id string) (tracker.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if price, ok := s.prices[id]; ok {
		return price, nil
	}
	if h, ok := s.history[id]; ok && h.Len() > 0 {
		_, v := h.Latest()
		return tracker.M(v, ""), nil
	}
	return tracker.Money{}, fmt.Errorf("no price for %q: %w", id, tracker.ErrPriceUnavailable)
}

// HistoricalPrices implements tracker.PriceProvider.
func (s *Static) HistoricalPrices(ctx context.Context, id string, lookback date.Range, interval date.Period) (*date.History[float64], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.history[id]
	if !ok {
		return nil, fmt.Errorf("no history for %q: %w", id, tracker.ErrPriceUnavailable)
	}
	return h.Within(lookback).Sample(interval), nil
}
