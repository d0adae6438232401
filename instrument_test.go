package tracker

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestInstrument_Performance(t *testing.T) {
	testCases := []struct {
		name      string
		inst      *Instrument
		price     Money
		wantValue Money
		wantPL    Money
		wantPct   Percent
	}{
		{
			name:      "equity without dividends",
			inst:      holding("AAPL", "USD", Equity{}, Q(15), USD(2400)),
			price:     USD(200),
			wantValue: USD(3000),
			wantPL:    USD(600),
			wantPct:   25,
		},
		{
			name:      "equity dividends increase profit",
			inst:      holding("MSFT", "USD", Equity{Dividends: USD(50)}, Q(10), USD(1000)),
			price:     USD(110),
			wantValue: USD(1100),
			wantPL:    USD(150),
			wantPct:   15,
		},
		{
			name:      "fund holding cost reduces profit",
			inst:      holding("VWCE", "EUR", Fund{HoldingCost: EUR(20)}, Q(5), EUR(2000)),
			price:     EUR(420),
			wantValue: EUR(2100),
			wantPL:    EUR(80),
			wantPct:   4,
		},
		{
			name:      "fixed income accrues interest",
			inst:      holding("OAT", "EUR", FixedIncome{InterestRate: decimal.RequireFromString("0.05")}, Q(10), EUR(1000)),
			price:     EUR(100),
			wantValue: EUR(1000),
			wantPL:    EUR(50),
			wantPct:   5,
		},
		{
			name:      "crypto has no adjustment",
			inst:      holding("BTC", "USD", CryptoAsset{}, Q(2), USD(60000)),
			price:     USD(35000),
			wantValue: USD(70000),
			wantPL:    USD(10000),
			wantPct:   16.6667,
		},
		{
			name:      "price without currency",
			inst:      holding("AAPL", "USD", Equity{}, Q(15), USD(2400)),
			price:     NO(200),
			wantValue: USD(3000),
			wantPL:    USD(600),
			wantPct:   25,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.inst.Performance(tc.price)
			if err != nil {
				t.Fatalf("Performance(%v) unexpected error: %v", tc.price, err)
			}
			if !got.CurrentValue.Equal(tc.wantValue) {
				t.Errorf("Performance(%v).CurrentValue = %v, want %v", tc.price, got.CurrentValue, tc.wantValue)
			}
			if !got.ProfitLoss.Equal(tc.wantPL) {
				t.Errorf("Performance(%v).ProfitLoss = %v, want %v", tc.price, got.ProfitLoss, tc.wantPL)
			}
			if !got.ProfitLossPercent.Equal(tc.wantPct) {
				t.Errorf("Performance(%v).ProfitLossPercent = %v, want %v", tc.price, got.ProfitLossPercent, tc.wantPct)
			}
			if got.ID != tc.inst.ID() {
				t.Errorf("Performance(%v).ID = %q, want %q", tc.price, got.ID, tc.inst.ID())
			}
		})
	}
}

func TestInstrument_PerformanceNothingInvested(t *testing.T) {
	variants := []Variant{
		Equity{Dividends: EUR(10)},
		Fund{HoldingCost: EUR(10)},
		FixedIncome{InterestRate: decimal.RequireFromString("0.03")},
		CryptoAsset{},
	}
	for _, v := range variants {
		inst := NewInstrument("X", "EUR", v)
		got, err := inst.Performance(EUR(100))
		if err != nil || got.ProfitLossPercent != 0 {
			t.Errorf("%s: Performance().ProfitLossPercent = %v, want 0", v.Type(), got.ProfitLossPercent)
		}
	}
}

func TestParseInstrumentType(t *testing.T) {
	testCases := []struct {
		in      string
		want    InstrumentType
		wantErr error
	}{
		{"Stock", Stock, nil},
		{"etf", ETF, nil},
		{"BOND", Bond, nil},
		{"Crypto", Crypto, nil},
		{"Option", "", ErrUnknownInstrumentType},
		{"", "", ErrUnknownInstrumentType},
	}
	for _, tc := range testCases {
		got, err := ParseInstrumentType(tc.in)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("ParseInstrumentType(%q) error = %v, want %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseInstrumentType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInstrumentType_NewVariant(t *testing.T) {
	for _, typ := range []InstrumentType{Stock, ETF, Bond, Crypto} {
		v, err := typ.NewVariant()
		if err != nil {
			t.Fatalf("%s.NewVariant() unexpected error: %v", typ, err)
		}
		if v.Type() != typ {
			t.Errorf("%s.NewVariant().Type() = %s, want %s", typ, v.Type(), typ)
		}
	}
	if _, err := InstrumentType("Future").NewVariant(); !errors.Is(err, ErrUnknownInstrumentType) {
		t.Errorf("NewVariant() error = %v, want %v", err, ErrUnknownInstrumentType)
	}
}

func TestGuessInstrumentType(t *testing.T) {
	testCases := []struct {
		name string
		want InstrumentType
	}{
		{"BTC-USD", Crypto},
		{"eth", Crypto},
		{"Euro Govt Bond 2030", Bond},
		{"MSCI World ETF", ETF},
		{"AAPL", Stock},
	}
	for _, tc := range testCases {
		if got := GuessInstrumentType(tc.name); got != tc.want {
			t.Errorf("GuessInstrumentType(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestMerge(t *testing.T) {
	existing := holding("AAPL", "USD", Equity{}, Q(10), USD(1500))
	incoming := holding("AAPL", "", Equity{}, Q(5), NO(900))

	got, err := Merge(existing, incoming)
	if err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}

	if !got.Held().Equal(Q(15)) {
		t.Errorf("Merge().Held() = %v, want 15", got.Held())
	}
	if !got.Invested().Equal(USD(2400)) {
		t.Errorf("Merge().Invested() = %v, want %v", got.Invested(), USD(2400))
	}
	if !got.AverageEntryPrice().Equal(USD(160)) {
		t.Errorf("Merge().AverageEntryPrice() = %v, want %v", got.AverageEntryPrice(), USD(160))
	}
	if got.Currency() != "USD" {
		t.Errorf("Merge().Currency() = %q, want %q", got.Currency(), "USD")
	}
	// pure
	if !existing.Held().Equal(Q(10)) || !incoming.Held().Equal(Q(5)) {
		t.Errorf("Merge() modified its arguments")
	}

	if _, err := Merge(existing, holding("AAPL", "EUR", Equity{}, Q(1), EUR(100))); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Merge(EUR into USD) error = %v, want %v", err, ErrCurrencyMismatch)
	}
}

func TestInstrument_PerformanceOtherCurrency(t *testing.T) {
	inst := holding("AAPL", "USD", nil, Q(15), USD(2400))
	if _, err := inst.Performance(EUR(200)); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Performance(EUR) error = %v, want %v", err, ErrCurrencyMismatch)
	}
}

func TestNewHolding(t *testing.T) {
	inst, err := NewHolding("AAPL", "", nil, Q(10), USD(1500))
	if err != nil {
		t.Fatalf("NewHolding() unexpected error: %v", err)
	}
	if inst.Currency() != "USD" || !inst.AverageEntryPrice().Equal(USD(150)) {
		t.Errorf("NewHolding() = %s %v, want USD 150", inst.Currency(), inst.AverageEntryPrice())
	}

	if _, err := NewHolding("AAPL", "EUR", nil, Q(10), USD(1500)); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("NewHolding(EUR, USD 1500) error = %v, want %v", err, ErrCurrencyMismatch)
	}
	if _, err := NewHolding("AAPL", "USD", nil, Q(-1), USD(1500)); !errors.Is(err, ErrInvalidTransactionFields) {
		t.Errorf("NewHolding(-1) error = %v, want %v", err, ErrInvalidTransactionFields)
	}
}
