package tracker

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

// scenario applies 10@150 then 5@180 on AAPL.
func scenario(t *testing.T) (*Registry, *Instrument) {
	t.Helper()
	r := NewRegistry()
	aapl := NewInstrument("AAPL", "USD", Equity{})
	for _, tx := range []Transaction{
		NewBuy(day, aapl, Q(10), USD(150), USD(1)),
		NewBuy(day, aapl, Q(5), USD(180), USD(1)),
	} {
		if err := r.Apply(tx); err != nil {
			t.Fatalf("Apply(%v) unexpected error: %v", tx.Kind(), err)
		}
	}
	return r, r.Get("AAPL")
}

func TestRegistry_ApplyBuy(t *testing.T) {
	r, aapl := scenario(t)
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if !aapl.Held().Equal(Q(15)) {
		t.Errorf("Held() = %v, want 15", aapl.Held())
	}
	// fees are not part of the cost basis
	if !aapl.Invested().Equal(USD(2400)) {
		t.Errorf("Invested() = %v, want %v", aapl.Invested(), USD(2400))
	}
	if !aapl.AverageEntryPrice().Equal(USD(160)) {
		t.Errorf("AverageEntryPrice() = %v, want %v", aapl.AverageEntryPrice(), USD(160))
	}
	got, err := aapl.Performance(USD(200))
	if err != nil || !got.CurrentValue.Equal(USD(3000)) || !got.ProfitLoss.Equal(USD(600)) || !got.ProfitLossPercent.Equal(25) {
		t.Errorf("Performance(200) = %v / %v / %v, want 3000 / 600 / 25%%", got.CurrentValue, got.ProfitLoss, got.ProfitLossPercent)
	}
}

func TestRegistry_ApplySell(t *testing.T) {
	r, aapl := scenario(t)
	if err := r.Apply(NewSell(day, aapl, Q(5), USD(190), USD(1))); err != nil {
		t.Fatalf("Apply(sell) unexpected error: %v", err)
	}
	if !aapl.Held().Equal(Q(10)) {
		t.Errorf("Held() = %v, want 10", aapl.Held())
	}
	if !aapl.Invested().Equal(USD(1450)) {
		t.Errorf("Invested() = %v, want %v", aapl.Invested(), USD(1450))
	}
	if !aapl.AverageEntryPrice().Equal(USD(160)) {
		t.Errorf("AverageEntryPrice() = %v, want %v", aapl.AverageEntryPrice(), USD(160))
	}
}

func TestRegistry_ApplySellAll(t *testing.T) {
	r, aapl := scenario(t)
	if err := r.Apply(NewSell(day, aapl, Q(15), USD(100), NO(0))); err != nil {
		t.Fatalf("Apply(sell) unexpected error: %v", err)
	}
	if !aapl.Held().IsZero() {
		t.Errorf("Held() = %v, want 0", aapl.Held())
	}
	// the average is kept when the position is closed
	if !aapl.AverageEntryPrice().Equal(USD(160)) {
		t.Errorf("AverageEntryPrice() = %v, want %v", aapl.AverageEntryPrice(), USD(160))
	}
}

func TestRegistry_WeightedAverage(t *testing.T) {
	r := NewRegistry()
	inst := NewInstrument("SAP", "EUR", nil)
	buys := []struct {
		q int
		p float64
	}{{3, 100}, {7, 110}, {2, 125}}
	for _, b := range buys {
		if err := r.Apply(NewBuy(day, inst, Q(b.q), EUR(b.p), NO(0))); err != nil {
			t.Fatalf("Apply(buy) unexpected error: %v", err)
		}
	}
	// (300 + 770 + 250) / 12
	if got := r.Get("SAP").AverageEntryPrice(); !got.Equal(EUR(110)) {
		t.Errorf("AverageEntryPrice() = %v, want %v", got, EUR(110))
	}
	if err := r.Apply(NewSell(day, inst, Q(4), EUR(130), NO(0))); err != nil {
		t.Fatalf("Apply(sell) unexpected error: %v", err)
	}
	if got := r.Get("SAP").AverageEntryPrice(); !got.Equal(EUR(110)) {
		t.Errorf("AverageEntryPrice() after sell = %v, want %v", got, EUR(110))
	}
}

// lot is a buy still partly held, for an independent computation of the
// average entry price.
type lot struct{ q, p float64 }

// lotsAverage is the mean of the lots prices weighted by the units left in each lot.
func lotsAverage(lots []lot) float64 {
	var cost, held float64
	for _, l := range lots {
		cost += l.q * l.p
		held += l.q
	}
	return cost / held
}

func TestRegistry_WeightedAverageSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for seq := range 50 {
		r := NewRegistry()
		inst := NewInstrument("SAP", "EUR", nil)
		var lots []lot
		held := 0
		lo, hi := math.Inf(1), math.Inf(-1)

		for step := range 1 + rng.IntN(20) {
			var tx Transaction
			if held > 0 && rng.IntN(3) == 0 {
				// sold units leave every lot in proportion
				q := 1 + rng.IntN(held)
				for i := range lots {
					lots[i].q *= float64(held-q) / float64(held)
				}
				held -= q
				tx = NewSell(day, inst, Q(q), EUR(float64(100+rng.IntN(50000))/100), NO(0))
			} else {
				q, p := 1+rng.IntN(100), float64(100+rng.IntN(50000))/100
				lots = append(lots, lot{float64(q), p})
				held += q
				lo, hi = min(lo, p), max(hi, p)
				tx = NewBuy(day, inst, Q(q), EUR(p), NO(0))
			}
			if err := r.Apply(tx); err != nil {
				t.Fatalf("sequence #%d step #%d: Apply(%v) unexpected error: %v", seq, step, tx.Kind(), err)
			}

			got := r.Get("SAP")
			if !got.Held().Equal(Q(held)) {
				t.Fatalf("sequence #%d step #%d: Held() = %v, want %d", seq, step, got.Held(), held)
			}
			if held == 0 {
				continue
			}
			avg := got.AverageEntryPrice().AsFloat()
			if want := lotsAverage(lots); math.Abs(avg-want) > 1e-6*want {
				t.Errorf("sequence #%d step #%d: AverageEntryPrice() = %v, want %v", seq, step, avg, want)
			}
			if avg < lo-1e-9 || avg > hi+1e-9 {
				t.Errorf("sequence #%d step #%d: AverageEntryPrice() = %v, not within the buy prices [%v, %v]", seq, step, avg, lo, hi)
			}
		}
	}
}

func TestRegistry_ApplyOversell(t *testing.T) {
	r := NewRegistry()
	aapl := holding("AAPL", "USD", Equity{}, Q(10), USD(1500))
	if err := r.Merge(aapl); err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}
	before := *r.Get("AAPL")

	err := r.Apply(NewSell(day, aapl, Q(20), USD(200), NO(0)))
	if !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("Apply(sell 20) error = %v, want %v", err, ErrInsufficientHoldings)
	}
	after := *r.Get("AAPL")
	if !after.held.Equal(before.held) || !after.invested.Equal(before.invested) || !after.average.Equal(before.average) {
		t.Errorf("Apply(sell 20) changed the position: got %v/%v/%v, want %v/%v/%v",
			after.held, after.invested, after.average, before.held, before.invested, before.average)
	}
}

func TestRegistry_ApplySellUnknown(t *testing.T) {
	r := NewRegistry()
	err := r.Apply(NewSell(day, NewInstrument("TSLA", "USD", nil), Q(1), USD(200), NO(0)))
	if !errors.Is(err, ErrInsufficientHoldings) {
		t.Errorf("Apply(sell) error = %v, want %v", err, ErrInsufficientHoldings)
	}
	if r.Get("TSLA") != nil {
		t.Errorf("failed Apply() registered the instrument")
	}
}

func TestRegistry_ApplyInvalid(t *testing.T) {
	r, aapl := scenario(t)
	testCases := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{"unknown kind", NewTransaction(day, aapl, Kind("short"), Q(1), USD(100), NO(0)), ErrInvalidTransactionKind},
		{"other currency", NewBuy(day, aapl, Q(1), EUR(100), NO(0)), ErrCurrencyMismatch},
		{"no instrument", NewBuy(day, nil, Q(1), EUR(100), NO(0)), ErrInvalidTransactionFields},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := r.Apply(tc.tx); !errors.Is(err, tc.wantErr) {
				t.Errorf("Apply() error = %v, want %v", err, tc.wantErr)
			}
			if !aapl.Held().Equal(Q(15)) {
				t.Errorf("failed Apply() changed Held() to %v", aapl.Held())
			}
		})
	}
}

func TestRegistry_ApplyDetachesUsedInstrument(t *testing.T) {
	r := NewRegistry()
	src := holding("AAPL", "USD", nil, Q(3), USD(300))
	if err := r.Apply(NewBuy(day, src, Q(1), USD(120), NO(0))); err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}
	got := r.Get("AAPL")
	if got == src {
		t.Fatalf("Apply() registered a non zeroed instrument")
	}
	if !got.Held().Equal(Q(1)) {
		t.Errorf("Held() = %v, want 1", got.Held())
	}
}

func TestRegistry_Merge(t *testing.T) {
	r := NewRegistry()
	if err := r.Merge(holding("AAPL", "USD", nil, Q(10), USD(1500))); err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}
	if err := r.Merge(holding("AAPL", "USD", nil, Q(5), USD(900))); err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}
	got := r.Get("AAPL")
	if !got.Held().Equal(Q(15)) || !got.Invested().Equal(USD(2400)) || !got.AverageEntryPrice().Equal(USD(160)) {
		t.Errorf("Merge() = %v/%v/%v, want 15/2400/160", got.Held(), got.Invested(), got.AverageEntryPrice())
	}
	if err := r.Merge(holding("AAPL", "EUR", nil, Q(1), EUR(100))); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Merge(EUR) error = %v, want %v", err, ErrCurrencyMismatch)
	}
}

func TestRegistry_AllAndRemove(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"MSFT", "AAPL", "GOOG"} {
		if err := r.Merge(holding(id, "USD", nil, Q(1), USD(10))); err != nil {
			t.Fatalf("Merge(%s) unexpected error: %v", id, err)
		}
	}
	var ids []string
	for inst := range r.All() {
		ids = append(ids, inst.ID())
	}
	if want := []string{"AAPL", "GOOG", "MSFT"}; !slices.Equal(ids, want) {
		t.Errorf("All() = %v, want %v", ids, want)
	}
	if !r.Remove("GOOG") {
		t.Errorf("Remove(GOOG) = false, want true")
	}
	if r.Remove("GOOG") {
		t.Errorf("Remove(GOOG) twice = true, want false")
	}
	positions := r.Positions()
	if len(positions) != 2 || positions[0].ID != "AAPL" || positions[1].ID != "MSFT" {
		t.Errorf("Positions() = %v, want AAPL and MSFT", positions)
	}
}
