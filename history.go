package tracker

import (
	"context"
	"fmt"
	"math"

	"github.com/etnz/tracker/date"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PriceStats summarizes a price series.
type PriceStats struct {
	ID         string
	Range      date.Range
	Interval   date.Period
	Samples    int
	First      float64
	Last       float64
	Low        float64
	High       float64
	Change     Percent // from First to Last
	MeanReturn Percent // per interval
	Volatility Percent // standard deviation of returns per interval

	// Entry is the average entry price when the instrument is held, compared to Last in Distance.
	Entry    Money
	Distance Percent
}

// NewPriceStats computes statistics of a series. An empty series yields
// zero statistics.
func NewPriceStats(id string, lookback date.Range, interval date.Period, h *date.History[float64]) PriceStats {
	s := PriceStats{ID: id, Range: lookback, Interval: interval}
	if h == nil || h.Len() == 0 {
		return s
	}
	prices := h.Slice()
	s.Samples = len(prices)
	s.First, s.Last = prices[0], prices[len(prices)-1]
	s.Low, s.High = floats.Min(prices), floats.Max(prices)
	s.Change = Change(s.First, s.Last)
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
		}
	}
	switch len(returns) {
	case 0:
	case 1:
		s.MeanReturn = Percent(returns[0] * 100)
	default:
		mean, std := stat.MeanStdDev(returns, nil)
		s.MeanReturn, s.Volatility = Percent(mean*100), Percent(std*100)
	}
	return s
}

// AnnualizedVolatility scales the per interval volatility to a year.
func (s PriceStats) AnnualizedVolatility() Percent {
	var periods float64
	switch s.Interval {
	case date.Daily:
		periods = 252 // trading days
	case date.Weekly:
		periods = 52
	case date.Monthly:
		periods = 12
	case date.Quarterly:
		periods = 4
	default:
		periods = 1
	}
	return Percent(float64(s.Volatility) * math.Sqrt(periods))
}

// History fetches the price series of 'id' and summarizes it. When 'id' is
// held, the statistics also compare the last price to the average entry price.
func (p *Portfolio) History(ctx context.Context, provider PriceProvider, id string, lookback date.Range, interval date.Period) (PriceStats, error) {
	h, err := provider.HistoricalPrices(ctx, id, lookback, interval)
	if err != nil {
		return PriceStats{}, fmt.Errorf("price history of %s: %w", id, err)
	}
	if h == nil || h.Len() == 0 {
		return PriceStats{}, fmt.Errorf("price history of %s within %s is empty: %w", id, lookback, ErrPriceUnavailable)
	}
	s := NewPriceStats(id, lookback, interval, h)

	if inst := p.Instrument(id); inst != nil && inst.Held().IsPositive() {
		s.Entry = inst.AverageEntryPrice()
		s.Distance = Change(s.Entry.AsFloat(), s.Last)
	}
	return s, nil
}
