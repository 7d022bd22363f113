// README: Transition table and interval overlap tests (no database).
package booking

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		// cancels from every non-terminal state
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusInProgress, StatusCancelled, true},
		// invalid: terminal states have no outgoing transitions
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		// invalid: skipping states
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, false},
		// invalid: moving backwards
		{StatusConfirmed, StatusPending, false},
		{StatusInProgress, StatusConfirmed, false},
		// invalid: self-loops
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC)
	}
	cases := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"disjoint before", day(1), day(3), day(5), day(7), false},
		{"disjoint after", day(5), day(7), day(1), day(3), false},
		{"contained", day(2), day(4), day(1), day(7), true},
		{"containing", day(1), day(7), day(2), day(4), true},
		{"partial left", day(1), day(4), day(3), day(7), true},
		{"partial right", day(3), day(7), day(1), day(4), true},
		{"shared end instant counts", day(1), day(3), day(3), day(5), true},
		{"shared start instant counts", day(3), day(5), day(1), day(3), true},
		{"identical", day(1), day(3), day(1), day(3), true},
	}
	for _, tc := range cases {
		got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
		if got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}
