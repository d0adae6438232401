package date

import (
	"fmt"
	"strings"
)

// Period is the granularity at which a series of values is sampled.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("period(%d)", int(p))
	}
}

// ParsePeriod accepts both the long names ("monthly", "month") and the
// compact interval codes used by market data APIs ("1d", "1wk", "1mo", "3mo").
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "daily", "day", "1d":
		return Daily, nil
	case "weekly", "week", "1wk", "5d":
		return Weekly, nil
	case "monthly", "month", "1mo":
		return Monthly, nil
	case "quarterly", "quarter", "3mo":
		return Quarterly, nil
	case "yearly", "year", "1y":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}
