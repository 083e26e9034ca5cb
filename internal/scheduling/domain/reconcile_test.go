package domain

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCommonDatesThreeWay(t *testing.T) {
	a := []time.Time{day(2026, 9, 1), day(2026, 9, 3), day(2026, 9, 5)}
	b := []time.Time{day(2026, 9, 5), day(2026, 9, 3), day(2026, 9, 2)}
	c := []time.Time{day(2026, 9, 3), day(2026, 9, 4), day(2026, 9, 5)}

	got := CommonDates(a, b, c)

	want := []time.Time{day(2026, 9, 3), day(2026, 9, 5)}
	if len(got) != len(want) {
		t.Fatalf("expected %d common dates, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("common[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCommonDatesPreservesFirstListOrder(t *testing.T) {
	a := []time.Time{day(2026, 9, 9), day(2026, 9, 1)}
	b := []time.Time{day(2026, 9, 1), day(2026, 9, 9)}

	got := CommonDates(a, b)

	if len(got) != 2 || !got[0].Equal(day(2026, 9, 9)) || !got[1].Equal(day(2026, 9, 1)) {
		t.Errorf("order should follow the first list, got %v", got)
	}
}

func TestCommonDatesEmptyIntersection(t *testing.T) {
	a := []time.Time{day(2026, 9, 1)}
	b := []time.Time{day(2026, 9, 2)}

	if got := CommonDates(a, b); len(got) != 0 {
		t.Errorf("expected empty intersection, got %v", got)
	}
}

func TestCommonDatesIgnoresClockTime(t *testing.T) {
	a := []time.Time{time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)}
	b := []time.Time{time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC)}

	got := CommonDates(a, b)
	if len(got) != 1 || !got[0].Equal(day(2026, 9, 1)) {
		t.Errorf("same day with different clock times must intersect, got %v", got)
	}
}

func TestCommonDatesDeduplicates(t *testing.T) {
	a := []time.Time{day(2026, 9, 1), day(2026, 9, 1)}
	b := []time.Time{day(2026, 9, 1)}

	if got := CommonDates(a, b); len(got) != 1 {
		t.Errorf("duplicate days must collapse, got %v", got)
	}
}

func TestCommonDatesSingleList(t *testing.T) {
	a := []time.Time{day(2026, 9, 2), day(2026, 9, 2), day(2026, 9, 4)}

	got := CommonDates(a)
	if len(got) != 2 {
		t.Errorf("single list should return its own deduplicated days, got %v", got)
	}
}

func TestCommonDatesNoLists(t *testing.T) {
	if got := CommonDates(); got != nil {
		t.Errorf("expected nil for no lists, got %v", got)
	}
}

func TestContainsDay(t *testing.T) {
	dates := []time.Time{day(2026, 9, 1), day(2026, 9, 3)}

	if !ContainsDay(dates, time.Date(2026, 9, 3, 13, 0, 0, 0, time.UTC)) {
		t.Error("expected 2026-09-03 13:00 to match day 2026-09-03")
	}
	if ContainsDay(dates, day(2026, 9, 2)) {
		t.Error("2026-09-02 should not match")
	}
}

func TestWindowOverlaps(t *testing.T) {
	base := Window{Start: day(2026, 9, 1).Add(9 * time.Hour), End: day(2026, 9, 1).Add(10 * time.Hour)}

	cases := []struct {
		name  string
		other Window
		want  bool
	}{
		{"identical", base, true},
		{"contained", Window{base.Start.Add(15 * time.Minute), base.End.Add(-15 * time.Minute)}, true},
		{"partial", Window{base.Start.Add(30 * time.Minute), base.End.Add(30 * time.Minute)}, true},
		{"adjacent after", Window{base.End, base.End.Add(time.Hour)}, false},
		{"adjacent before", Window{base.Start.Add(-time.Hour), base.Start}, false},
		{"disjoint", Window{base.End.Add(time.Hour), base.End.Add(2 * time.Hour)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}
