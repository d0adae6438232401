package tracker

import (
	"context"

	"github.com/etnz/tracker/date"
)

// PriceProvider supplies market prices by instrument identifier.
type PriceProvider interface {
	// CurrentPrice returns the latest price of 'id', or an error wrapping
	// ErrPriceUnavailable when there is no quote.
	CurrentPrice(ctx context.Context, id string) (Money, error)
	// HistoricalPrices returns the closing prices of 'id' within 'lookback',
	// sampled every 'interval'.
	HistoricalPrices(ctx context.Context, id string, lookback date.Range, interval date.Period) (*date.History[float64], error)
}
