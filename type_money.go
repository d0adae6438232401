package tracker

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value.
//
// The empty currency is "weak": combined with another Money it adopts the
// other operand's currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money from any supported numeric type.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ParseMoney parses a decimal amount in the given currency.
func ParseMoney(amount, currency string) (Money, error) {
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{value: v, cur: currency}, nil
}

// ValidateCurrency checks that cur is a known ISO 4217 currency code.
func ValidateCurrency(cur string) error {
	if cur == "" {
		return fmt.Errorf("currency is missing")
	}
	if money.GetCurrency(strings.ToUpper(cur)) == nil || cur != strings.ToUpper(cur) {
		return fmt.Errorf("unknown currency %q", cur)
	}
	return nil
}

// String returns the string representation of the money value.
//
// Amounts with a known currency are formatted with the currency's conventions,
// others are printed as plain decimals.
func (m Money) String() string {
	cur := money.GetCurrency(m.cur)
	if cur == nil {
		return m.value.StringFixed(2)
	}
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

func (m Money) Currency() string                   { return m.cur }
func (m Money) Decimal() decimal.Decimal           { return m.value }
func (m Money) IsZero() bool                       { return m.value.IsZero() }
func (m Money) IsPositive() bool                   { return m.value.IsPositive() }
func (m Money) IsNegative() bool                   { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool              { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool           { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                         { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money               { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Div(q Quantity) Money               { return Money{value: m.value.Div(q.value), cur: m.cur} }
func (m Money) Scale(factor decimal.Decimal) Money { return Money{value: m.value.Mul(factor), cur: m.cur} }

// Equal compares values and currencies, the weak currency is equal to any other.
func (m Money) Equal(n Money) bool {
	return m.value.Equal(n.value) && (m.cur == n.cur || m.cur == "" || n.cur == "")
}

// In returns the same amount tagged with currency cur.
func (m Money) In(currency string) Money { return Money{value: m.value, cur: currency} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Compatible reports whether m and n can be combined without a currency conversion.
func (m Money) Compatible(n Money) bool {
	return m.cur == "" || n.cur == "" || m.cur == n.cur
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// AsFloat should be reserved to presentation and statistics, the engine keeps exact values.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
