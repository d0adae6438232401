package date

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Range represents a range of dates, boundaries included.
//
// A zero From means the range is open towards the past, a zero To towards the future.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(day Date) bool {
	return (r.From.IsZero() || !day.Before(r.From)) && (r.To.IsZero() || !day.After(r.To))
}

func (r Range) String() string {
	if r.From.IsZero() {
		return "..." + r.To.String()
	}
	return r.From.String() + "..." + r.To.String()
}

var lookbackRE = regexp.MustCompile(`^(\d+)(d|wk|w|mo|m|q|y)$`)

// ParseLookback returns the range that ends on 'on' and covers the lookback
// expressed as "5d", "1wk", "1mo", "3mo", "1y", "ytd" or "max".
func ParseLookback(lookback string, on Date) (Range, error) {
	lookback = strings.ToLower(strings.TrimSpace(lookback))
	switch lookback {
	case "ytd":
		return Range{From: on.StartOf(Yearly), To: on}, nil
	case "max", "":
		return Range{To: on}, nil
	}
	match := lookbackRE.FindStringSubmatch(lookback)
	if match == nil {
		return Range{}, fmt.Errorf("invalid lookback %q", lookback)
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return Range{}, fmt.Errorf("invalid lookback %q: %w", lookback, err)
	}
	unit := match[2]
	if unit == "wk" {
		unit = "w"
	}
	from, err := on.Shift(-n, unit)
	if err != nil {
		return Range{}, fmt.Errorf("invalid lookback %q: %w", lookback, err)
	}
	return Range{From: from, To: on}, nil
}
