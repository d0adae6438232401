package renderer

import (
	"fmt"

	"github.com/etnz/tracker"
)

// Transaction renders a transaction to a string.
func Transaction(tx tracker.Transaction) string {
	switch tx.Kind() {
	case tracker.Buy:
		return fmt.Sprintf("Bought %s of %s at %s", tx.Quantity(), tx.ID(), tx.Price())
	case tracker.Sell:
		return fmt.Sprintf("Sold %s of %s at %s", tx.Quantity(), tx.ID(), tx.Price())
	default:
		return string(tx.Kind())
	}
}

// Details renders the variant-specific fields of an instrument.
func Details(v tracker.Variant) string {
	switch v := v.(type) {
	case tracker.Equity:
		if v.Dividends.IsZero() {
			return ""
		}
		return fmt.Sprintf("dividends %s", v.Dividends)
	case tracker.Fund:
		if v.HoldingCost.IsZero() {
			return ""
		}
		return fmt.Sprintf("holding cost %s", v.HoldingCost)
	case tracker.FixedIncome:
		if v.InterestRate.IsZero() {
			return ""
		}
		return fmt.Sprintf("rate %s%%", v.InterestRate.Shift(2))
	default:
		return ""
	}
}
