package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/tracker/date"
)

// Kind is the kind of a transaction.
type Kind string

const (
	Buy  Kind = "buy"
	Sell Kind = "sell"
)

// ParseKind parses a transaction kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Buy, Sell:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidTransactionKind)
}

// Transaction records one buy or sell of an instrument. It is immutable.
type Transaction struct {
	instrument *Instrument
	kind       Kind
	quantity   Quantity
	price      Money // per unit
	fee        Money
	currency   string
	date       date.Date
}

// NewTransaction creates a transaction on 'inst'.
//
// The transaction currency is the price's, or the fee's when the price has none.
// A zero date means today.
func NewTransaction(on date.Date, inst *Instrument, kind Kind, quantity Quantity, price, fee Money) Transaction {
	if on.IsZero() {
		on = date.Today()
	}
	currency := price.Currency()
	if currency == "" {
		currency = fee.Currency()
	}
	return Transaction{
		instrument: inst,
		kind:       kind,
		quantity:   quantity,
		price:      price,
		fee:        fee,
		currency:   currency,
		date:       on,
	}
}

// NewBuy creates a buy transaction.
func NewBuy(on date.Date, inst *Instrument, quantity Quantity, price, fee Money) Transaction {
	return NewTransaction(on, inst, Buy, quantity, price, fee)
}

// NewSell creates a sell transaction.
func NewSell(on date.Date, inst *Instrument, quantity Quantity, price, fee Money) Transaction {
	return NewTransaction(on, inst, Sell, quantity, price, fee)
}

func (t Transaction) Instrument() *Instrument { return t.instrument }
func (t Transaction) Kind() Kind              { return t.kind }
func (t Transaction) Quantity() Quantity      { return t.quantity }
func (t Transaction) Price() Money            { return t.price }
func (t Transaction) Fee() Money              { return t.fee }
func (t Transaction) Currency() string        { return t.currency }
func (t Transaction) Date() date.Date         { return t.date }

// ID returns the identifier of the transaction's instrument.
func (t Transaction) ID() string {
	if t.instrument == nil {
		return ""
	}
	return t.instrument.ID()
}

// Amount returns quantity * price.
func (t Transaction) Amount() Money { return t.price.Mul(t.quantity) }

// Validate checks the transaction fields and returns all failures.
func (t Transaction) Validate() error {
	var errs []error
	if t.instrument == nil || t.instrument.ID() == "" {
		errs = append(errs, fmt.Errorf("transaction instrument is missing: %w", ErrInvalidTransactionFields))
	}
	if t.kind != Buy && t.kind != Sell {
		errs = append(errs, fmt.Errorf("%q: %w", string(t.kind), ErrInvalidTransactionKind))
	}
	if !t.quantity.IsPositive() {
		errs = append(errs, fmt.Errorf("%s transaction quantity must be positive, got %s: %w", t.kind, t.quantity, ErrInvalidTransactionFields))
	}
	if !t.price.IsPositive() {
		errs = append(errs, fmt.Errorf("%s transaction price must be positive, got %s: %w", t.kind, t.price, ErrInvalidTransactionFields))
	}
	if t.fee.IsNegative() {
		errs = append(errs, fmt.Errorf("%s transaction fee must not be negative, got %s: %w", t.kind, t.fee, ErrInvalidTransactionFields))
	}
	return errors.Join(errs...)
}

// bind returns a copy of t acting on 'inst', with all amounts tagged in the
// instrument currency.
//
// A transaction without a currency adopts the instrument's. It fails with
// ErrCurrencyMismatch when the transaction, its price or its fee are in
// another currency.
func (t Transaction) bind(inst *Instrument) (Transaction, error) {
	expected := inst.Currency()
	if expected == "" {
		expected = inst.Invested().Currency()
	}
	if t.currency == "" {
		t.currency = expected
	}
	if expected != "" && t.currency != expected {
		return t, fmt.Errorf("%s of %s in %q, instrument is in %q: %w", t.kind, inst.ID(), t.currency, expected, ErrCurrencyMismatch)
	}
	for _, m := range []Money{t.price, t.fee} {
		if m.Currency() != "" && m.Currency() != t.currency {
			return t, fmt.Errorf("%s of %s has an amount in %q, transaction is in %q: %w", t.kind, inst.ID(), m.Currency(), t.currency, ErrCurrencyMismatch)
		}
	}
	t.price = t.price.In(t.currency)
	t.fee = t.fee.In(t.currency)
	t.instrument = inst
	return t, nil
}

// Filter is a predicate on transactions.
type Filter func(Transaction) bool

// ByInstrument keeps transactions on the instrument 'id'.
func ByInstrument(id string) Filter {
	return func(t Transaction) bool { return t.ID() == id }
}

// ByKind keeps transactions of kind 'k'.
func ByKind(k Kind) Filter {
	return func(t Transaction) bool { return t.kind == k }
}

// ByPeriod keeps transactions dated within 'r'.
func ByPeriod(r date.Range) Filter {
	return func(t Transaction) bool { return r.Contains(t.date) }
}
