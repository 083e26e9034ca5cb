// Package domain holds the pure scheduling rules: reconciling lecturer
// availability into candidate dates and validating schedule windows.
package domain

import (
	"time"
)

// dayKey truncates a timestamp to its calendar day in UTC. Availability is
// exchanged at day granularity; differing clock times on the same day still
// intersect.
func dayKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CommonDates returns the dates present in every list, deduplicated,
// preserving the order of the first list. An empty input yields no dates; a
// single list is returned as its own deduplicated intersection.
func CommonDates(lists ...[]time.Time) []time.Time {
	if len(lists) == 0 {
		return nil
	}

	// Count per-day membership across the remaining lists.
	inAll := make(map[time.Time]int)
	for _, list := range lists[1:] {
		seen := make(map[time.Time]bool, len(list))
		for _, d := range list {
			key := dayKey(d)
			if !seen[key] {
				seen[key] = true
				inAll[key]++
			}
		}
	}

	needed := len(lists) - 1
	var common []time.Time
	emitted := make(map[time.Time]bool)
	for _, d := range lists[0] {
		key := dayKey(d)
		if emitted[key] {
			continue
		}
		if inAll[key] == needed {
			emitted[key] = true
			common = append(common, key)
		}
	}

	return common
}

// ContainsDay reports whether candidate falls on one of the given dates.
func ContainsDay(dates []time.Time, candidate time.Time) bool {
	key := dayKey(candidate)
	for _, d := range dates {
		if dayKey(d).Equal(key) {
			return true
		}
	}
	return false
}

// Window is a half-open [Start, End) time range occupied by a schedule.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two windows share any instant.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}
