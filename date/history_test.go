package date

import (
	"slices"
	"testing"
	"time"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[0] != d2 || h.days[1] != d1 {
		t.Errorf("history days = %v want [%v %v]", h.days, d2, d1)
	}
	if h.values[0] != v2 || h.values[1] != v1 {
		t.Errorf("history values = %v want [%v %v]", h.values, v2, v1)
	}

	h.Append(d1, "replaced")
	if got, _ := h.Get(d1); got != "replaced" || h.Len() != 2 {
		t.Errorf("Append(d1) on existing day: Get(d1) = %q, Len() = %d, want %q, 2", got, h.Len(), "replaced")
	}
}

func TestSample(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, time.January, 2), 1)
	h.Append(New(2025, time.January, 31), 2)
	h.Append(New(2025, time.February, 3), 3)
	h.Append(New(2025, time.March, 15), 4)

	got := h.Sample(Monthly)
	if want := []float64{2, 3, 4}; !slices.Equal(got.Slice(), want) {
		t.Errorf("Sample(Monthly) values = %v, want %v", got.Slice(), want)
	}
	if day, _ := got.Latest(); day != New(2025, time.March, 31) {
		t.Errorf("Sample(Monthly) last day = %v, want 2025-03-31", day)
	}
}

func TestWithin(t *testing.T) {
	h := new(History[float64])
	for i := 1; i <= 10; i++ {
		h.Append(New(2025, time.May, i), float64(i))
	}
	got := h.Within(NewRange(New(2025, time.May, 8), New(2025, time.May, 3)))
	if want := []float64{3, 4, 5, 6, 7, 8}; !slices.Equal(got.Slice(), want) {
		t.Errorf("Within() = %v, want %v", got.Slice(), want)
	}
}
