package market

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
	"github.com/patrickmn/go-cache"
)

// Cache decorates a tracker.PriceProvider with an in-memory cache. Errors are
// not cached.
type Cache struct {
	provider tracker.PriceProvider
	store    *cache.Cache
}

// NewCache caches answers of 'provider' for 'ttl'.
func NewCache(provider tracker.PriceProvider, ttl time.Duration) *Cache {
	return &Cache{
		provider: provider,
		store:    cache.New(ttl, 2*ttl),
	}
}

// CurrentPrice implements tracker.PriceProvider.
func (c *Cache) CurrentPrice(ctx context.Context, id string) (tracker.Money, error) {
	key := "price:" + id
	if cached, found := c.store.Get(key); found {
		return cached.(tracker.Money), nil
	}
	price, err := c.provider.CurrentPrice(ctx, id)
	if err != nil {
		return tracker.Money{}, err
	}
	c.store.Set(key, price, cache.DefaultExpiration)
	return price, nil
}

// HistoricalPrices implements tracker.PriceProvider.
func (c *Cache) HistoricalPrices(ctx context.Context, id string, lookback date.Range, interval date.Period) (*date.History[float64], error) {
	key := fmt.Sprintf("history:%s:%s:%s", id, lookback, interval)
	if cached, found := c.store.Get(key); found {
		return cached.(*date.History[float64]), nil
	}
	h, err := c.provider.HistoricalPrices(ctx, id, lookback, interval)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, h, cache.DefaultExpiration)
	return h, nil
}

// Flush drops all cached answers.
func (c *Cache) Flush() { c.store.Flush() }
