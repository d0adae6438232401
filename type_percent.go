package tracker

import (
	"fmt"
	"math"
)

// Percent is a ratio expressed in percent, 12.5 for 12.5%.
//
// Percents are for presentation and statistics, amounts stay exact in Money.
type Percent float64

// Ratio returns 'part' as a percentage of 'whole', 0 when whole is not
// positive. Both amounts must be in the same currency, or have none.
func Ratio(part, whole Money) Percent {
	if !whole.IsPositive() {
		return 0
	}
	return Percent(part.Decimal().Div(whole.Decimal()).Shift(2).InexactFloat64())
}

// Change returns the relative change from 'from' to 'to', 0 when from is 0.
func Change(from, to float64) Percent {
	if from == 0 {
		return 0
	}
	return Percent((to - from) / from * 100)
}

// Equal compares percents to a hundredth of a basis point.
func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < 0.0001 }

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

// SignedString always shows the sign of the percent, and "-" when it rounds to zero.
func (p Percent) SignedString() string {
	s := fmt.Sprintf("%+.2f%%", float64(p))
	if s == "+0.00%" || s == "-0.00%" {
		return "-"
	}
	return s
}
