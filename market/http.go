package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Config describes a JSON market data API.
//
// URLs are templates where {id}, {key}, {from}, {to} and {interval} are
// replaced by the instrument identifier, the API key, the lookback bounds and
// the sampling interval.
type Config struct {
	PriceURL     string // current quote
	PricePath    string // jsonpath to the price in the quote, "$.close" if empty
	CurrencyPath string // jsonpath to the currency in the quote, optional
	Currency     string // currency of quotes when CurrencyPath is not set

	HistoryURL       string // daily closes
	HistoryDatePath  string // jsonpath to the list of dates, "$[*].date" if empty
	HistoryClosePath string // jsonpath to the list of closes, "$[*].close" if empty

	APIKey            string
	RequestsPerSecond float64 // 0 means unlimited
	Burst             int

	// CacheDir enables a disk cache of responses renewed every day.
	CacheDir string
}

// HTTP is a tracker.PriceProvider reading a JSON API.
type HTTP struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewHTTP returns a provider for the API described by cfg.
func NewHTTP(cfg Config, log zerolog.Logger) *HTTP {
	if cfg.PricePath == "" {
		cfg.PricePath = "$.close"
	}
	if cfg.HistoryDatePath == "" {
		cfg.HistoryDatePath = "$[*].date"
	}
	if cfg.HistoryClosePath == "" {
		cfg.HistoryClosePath = "$[*].close"
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := max(cfg.Burst, 1)

	log = log.With().Str("component", "market").Logger()
	client := new(http.Client)
	if cfg.CacheDir != "" {
		client.Transport = &diskCache{base: http.DefaultTransport, dir: cfg.CacheDir, log: log}
	}
	return &HTTP{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// expand fills a URL template.
func (h *HTTP) expand(template, id string, lookback date.Range, interval date.Period) string {
	return strings.NewReplacer(
		"{id}", url.PathEscape(id),
		"{key}", url.QueryEscape(h.cfg.APIKey),
		"{from}", lookback.From.String(),
		"{to}", lookback.To.String(),
		"{interval}", interval.String(),
	).Replace(template)
}

// CurrentPrice implements tracker.PriceProvider.
func (h *HTTP) CurrentPrice(ctx context.Context, id string) (tracker.Money, error) {
	if h.cfg.PriceURL == "" {
		return tracker.Money{}, fmt.Errorf("no price URL configured: %w", tracker.ErrPriceUnavailable)
	}
	var jobj any
	if err := h.jwget(ctx, h.expand(h.cfg.PriceURL, id, date.Range{}, date.Daily), &jobj); err != nil {
		return tracker.Money{}, fmt.Errorf("error retrieving %q: %w", id, err)
	}
	jval, err := jsonpath.Get(h.cfg.PricePath, jobj)
	if err != nil {
		return tracker.Money{}, fmt.Errorf("error parsing %q: %q %v: %w", id, h.cfg.PricePath, err, tracker.ErrPriceUnavailable)
	}
	price, err := toDecimal(first(jval))
	if err != nil {
		return tracker.Money{}, fmt.Errorf("cannot read price of %q: %v: %w", id, err, tracker.ErrPriceUnavailable)
	}
	if !price.IsPositive() {
		return tracker.Money{}, fmt.Errorf("empty quote for %q: %w", id, tracker.ErrPriceUnavailable)
	}

	currency := h.cfg.Currency
	if h.cfg.CurrencyPath != "" {
		jcur, err := jsonpath.Get(h.cfg.CurrencyPath, jobj)
		if err != nil {
			return tracker.Money{}, fmt.Errorf("error parsing currency of %q: %q %w", id, h.cfg.CurrencyPath, err)
		}
		s, ok := first(jcur).(string)
		if !ok {
			return tracker.Money{}, fmt.Errorf("currency of %q is not a string: %v", id, jcur)
		}
		currency = strings.ToUpper(s)
	}
	return tracker.M(price, currency), nil
}

// HistoricalPrices implements tracker.PriceProvider.
//
// The API is expected to return daily closes; they are restricted to lookback
// and sampled by interval here.
func (h *HTTP) HistoricalPrices(ctx context.Context, id string, lookback date.Range, interval date.Period) (*date.History[float64], error) {
	if h.cfg.HistoryURL == "" {
		return nil, fmt.Errorf("no history URL configured: %w", tracker.ErrPriceUnavailable)
	}
	var jobj any
	if err := h.jwget(ctx, h.expand(h.cfg.HistoryURL, id, lookback, interval), &jobj); err != nil {
		return nil, fmt.Errorf("error retrieving history of %q: %w", id, err)
	}
	days, err := jsonList(h.cfg.HistoryDatePath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing history dates of %q: %w", id, err)
	}
	closes, err := jsonList(h.cfg.HistoryClosePath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing history closes of %q: %w", id, err)
	}
	if len(days) != len(closes) {
		return nil, fmt.Errorf("history of %q has %d dates for %d closes", id, len(days), len(closes))
	}

	history := new(date.History[float64])
	for i, jday := range days {
		s, ok := jday.(string)
		if !ok {
			return nil, fmt.Errorf("history of %q: date #%d is not a string: %v", id, i, jday)
		}
		on, err := date.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("history of %q: %w", id, err)
		}
		v, err := toDecimal(closes[i])
		if err != nil {
			return nil, fmt.Errorf("history of %q on %s: %w", id, on, err)
		}
		history.Append(on, v.InexactFloat64())
	}
	return history.Within(lookback).Sample(interval), nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func (h *HTTP) jwget(ctx context.Context, addr string, data any) error {
	if err := h.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	h.log.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("GET")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("cannot http GET %v%v: %v: %w", req.URL.Host, req.URL.Path, resp.Status, tracker.ErrPriceUnavailable)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// first keeps the first answer when jsonpath returns a list.
func first(jval any) any {
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		return jlist[0]
	}
	return jval
}

func jsonList(path string, jobj any) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	list, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q is not a list", path)
	}
	return list, nil
}

// toDecimal reads a number that some APIs return as a string, possibly with a
// decimal comma.
func toDecimal(jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		s := strings.ReplaceAll(v, ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return decimal.Decimal{}, fmt.Errorf("invalid number %q", v)
		}
		return decimal.NewFromString(s)
	default:
		return decimal.Decimal{}, fmt.Errorf("not a number: %v", jval)
	}
}
