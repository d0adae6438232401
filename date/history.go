package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// Dates are unique and the series is always sorted.
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, value
	}
	return h.days[last], h.values[last]
}

func compare(a, b Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// Append adds a point to the history.
//
// An existing value at that date is overwritten, giving priority to the last data.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, compare)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	var value T
	if i, found := slices.BinarySearchFunc(h.days, day, compare); found {
		return h.values[i], true
	}
	return value, false
}

// Within returns a new history restricted to the days in r.
func (h *History[T]) Within(r Range) *History[T] {
	res := new(History[T])
	for on, v := range h.Values() {
		if r.Contains(on) {
			res.days = append(res.days, on)
			res.values = append(res.values, v)
		}
	}
	return res
}

// Sample returns a new history with one point per period: the last known
// value of each period, dated at the end of that period.
func (h *History[T]) Sample(p Period) *History[T] {
	res := new(History[T])
	for on, v := range h.Values() {
		end := on.EndOf(p)
		if n := len(res.days); n > 0 && res.days[n-1] == end {
			res.values[n-1] = v
			continue
		}
		res.days = append(res.days, end)
		res.values = append(res.values, v)
	}
	return res
}

// Slice returns a copy of the values in chronological order.
func (h *History[T]) Slice() []T { return slices.Clone(h.values) }
