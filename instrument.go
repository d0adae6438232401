package tracker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InstrumentType is the tag selecting an instrument Variant in the transaction log.
type InstrumentType string

const (
	Stock  InstrumentType = "Stock"
	ETF    InstrumentType = "ETF"
	Bond   InstrumentType = "Bond"
	Crypto InstrumentType = "Crypto"
)

// ParseInstrumentType parses a type tag, case-insensitively.
func ParseInstrumentType(s string) (InstrumentType, error) {
	for _, t := range []InstrumentType{Stock, ETF, Bond, Crypto} {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownInstrumentType)
}

// GuessInstrumentType infers a type from an instrument name, used when the
// user does not provide one.
func GuessInstrumentType(name string) InstrumentType {
	upper := strings.ToUpper(name)
	switch {
	case strings.HasPrefix(upper, "BTC"), strings.HasPrefix(upper, "ETH"):
		return Crypto
	case strings.Contains(name, "Bond"):
		return Bond
	case strings.Contains(name, "ETF"):
		return ETF
	default:
		return Stock
	}
}

// NewVariant returns the zero Variant for a type tag.
func (t InstrumentType) NewVariant() (Variant, error) {
	switch t {
	case Stock:
		return Equity{}, nil
	case ETF:
		return Fund{}, nil
	case Bond:
		return FixedIncome{}, nil
	case Crypto:
		return CryptoAsset{}, nil
	}
	return nil, fmt.Errorf("%q: %w", string(t), ErrUnknownInstrumentType)
}

// Variant carries what differs between kinds of instruments: the adjustment
// term applied to profit and loss.
//
// Amounts of a variant are expressed in its instrument's currency.
type Variant interface {
	Type() InstrumentType
	// Adjustment returns the amount added to the raw profit and loss of a
	// position that has cost 'invested'.
	Adjustment(invested Money) Money
}

// Equity is a stock, dividends received increase profit.
type Equity struct {
	Dividends Money
}

func (Equity) Type() InstrumentType { return Stock }
func (e Equity) Adjustment(invested Money) Money {
	return e.Dividends.In(invested.Currency())
}

// Fund is an ETF-like instrument, its periodic holding cost reduces profit.
type Fund struct {
	HoldingCost Money
}

func (Fund) Type() InstrumentType { return ETF }
func (f Fund) Adjustment(invested Money) Money {
	return f.HoldingCost.In(invested.Currency()).Neg()
}

// FixedIncome is a bond-like instrument, accrued interest increases profit.
type FixedIncome struct {
	InterestRate decimal.Decimal // as a fraction, 0.05 for 5%
}

func (FixedIncome) Type() InstrumentType { return Bond }
func (b FixedIncome) Adjustment(invested Money) Money {
	return invested.Scale(b.InterestRate)
}

// CryptoAsset has no adjustment.
type CryptoAsset struct{}

func (CryptoAsset) Type() InstrumentType            { return Crypto }
func (CryptoAsset) Adjustment(invested Money) Money { return M(0, invested.Currency()) }

// Instrument is the running state of one instrument: how many units are held
// and what they cost.
//
// The same *Instrument is shared by every Transaction that touches it. Only a
// Registry mutates it.
type Instrument struct {
	id       string
	currency string
	variant  Variant
	cost     Money // flat cost per trade, informative only

	held     Quantity
	invested Money
	average  Money // last computed, kept when held returns to zero
}

// NewInstrument returns a zeroed instrument, a nil variant means Equity.
func NewInstrument(id, currency string, variant Variant) *Instrument {
	if variant == nil {
		variant = Equity{}
	}
	return &Instrument{
		id:       id,
		currency: currency,
		variant:  variant,
		invested: M(0, currency),
		average:  M(0, currency),
		cost:     M(0, currency),
	}
}

// NewHolding returns an instrument already holding 'held' units that cost 'invested'.
//
// It is meant to build positions from another source before merging them in a
// Registry. An empty currency adopts the invested one; an invested amount in
// another currency is ErrCurrencyMismatch.
func NewHolding(id, currency string, variant Variant, held Quantity, invested Money) (*Instrument, error) {
	if currency == "" {
		currency = invested.Currency()
	}
	if invested.Currency() != "" && invested.Currency() != currency {
		return nil, fmt.Errorf("%s is in %q, invested %s: %w", id, currency, invested, ErrCurrencyMismatch)
	}
	if held.IsNegative() || invested.IsNegative() {
		return nil, fmt.Errorf("%s holds %s for %s, both must not be negative: %w", id, held, invested, ErrInvalidTransactionFields)
	}
	inst := NewInstrument(id, currency, variant)
	inst.held = held
	inst.invested = invested.In(currency)
	if held.IsPositive() {
		inst.average = inst.invested.Div(held)
	}
	return inst, nil
}

func (i *Instrument) ID() string                 { return i.id }
func (i *Instrument) Currency() string           { return i.currency }
func (i *Instrument) Variant() Variant           { return i.variant }
func (i *Instrument) Type() InstrumentType       { return i.variant.Type() }
func (i *Instrument) Held() Quantity             { return i.held }
func (i *Instrument) Invested() Money            { return i.invested }
func (i *Instrument) AverageEntryPrice() Money   { return i.average }
func (i *Instrument) TransactionCost() Money     { return i.cost }
func (i *Instrument) SetTransactionCost(c Money) { i.cost = c.In(i.currency) }

// isZero reports whether nothing was ever recorded on the instrument.
func (i *Instrument) isZero() bool {
	return i.held.IsZero() && i.invested.IsZero() && i.average.IsZero()
}

// clone returns a detached copy.
func (i *Instrument) clone() *Instrument {
	c := *i
	return &c
}

// zeroed returns a copy with the same identity and no position.
func (i *Instrument) zeroed() *Instrument {
	z := NewInstrument(i.id, i.currency, i.variant)
	z.cost = i.cost
	return z
}

// PerformanceReport is the performance of one instrument at a given price.
type PerformanceReport struct {
	ID                string
	Type              InstrumentType
	Held              Quantity
	Price             Money
	Invested          Money
	CurrentValue      Money
	ProfitLoss        Money
	ProfitLossPercent Percent
}

// Performance computes the performance of the instrument at 'price'.
//
// A price without currency is taken in the instrument's, a price in another
// currency is ErrCurrencyMismatch. ProfitLossPercent is 0 when nothing is
// invested.
func (i *Instrument) Performance(price Money) (PerformanceReport, error) {
	if !price.Compatible(i.invested) {
		return PerformanceReport{}, fmt.Errorf("%s quoted in %q, instrument is in %q: %w", i.id, price.Currency(), i.invested.Currency(), ErrCurrencyMismatch)
	}
	if price.Currency() == "" {
		price = price.In(i.invested.Currency())
	}
	value := price.Mul(i.held)
	pl := value.Sub(i.invested).Add(i.variant.Adjustment(i.invested))
	return PerformanceReport{
		ID:                i.id,
		Type:              i.Type(),
		Held:              i.held,
		Price:             price,
		Invested:          i.invested,
		CurrentValue:      value,
		ProfitLoss:        pl,
		ProfitLossPercent: Ratio(pl, i.invested),
	}, nil
}

// Merge combines two positions on the same identifier: held quantities and
// invested amounts are summed and the average entry price is recomputed from
// the totals.
//
// Identity and variant come from 'existing'. Both must share a currency, or
// one of them must have none, otherwise Merge fails with ErrCurrencyMismatch.
func Merge(existing, incoming *Instrument) (*Instrument, error) {
	if !existing.invested.Compatible(incoming.invested) {
		return nil, fmt.Errorf("cannot merge %s in %q into %q: %w", incoming.id, incoming.invested.Currency(), existing.invested.Currency(), ErrCurrencyMismatch)
	}
	m := existing.clone()
	m.held = existing.held.Add(incoming.held)
	m.invested = existing.invested.Add(incoming.invested)
	if m.currency == "" {
		m.currency = incoming.currency
	}
	if m.currency == "" {
		m.currency = m.invested.Currency()
	}
	if m.held.IsPositive() {
		m.average = m.invested.Div(m.held)
	}
	if m.cost.IsZero() {
		m.cost = incoming.cost
	}
	m.invested = m.invested.In(m.currency)
	m.average = m.average.In(m.currency)
	m.cost = m.cost.In(m.currency)
	return m, nil
}
