package event

import "sort"

// SortOrder selects how the final event list is ordered
type SortOrder string

const (
	SortInsertion     SortOrder = "insertion"
	SortChronological SortOrder = "chronological"
)

// Sort orders events in place. Insertion order is left untouched;
// chronological order is a stable sort by day then start time.
func Sort(events []Event, order SortOrder) {
	if order != SortChronological {
		return
	}
	sort.SliceStable(events, func(i, j int) bool {
		return compareByStart(events[i], events[j])
	})
}

// compareByStart reports whether event i starts before event j.
// Clocks are compared numerically so that "8:00" sorts before "10:00".
func compareByStart(i, j Event) bool {
	if !i.Date.Equal(j.Date) {
		return i.Date.Before(j.Date)
	}

	ci, errI := ParseClock(i.StartTime)
	cj, errJ := ParseClock(j.StartTime)

	// Unparseable clocks go last within the day
	if errI != nil || errJ != nil {
		return errI == nil && errJ != nil
	}
	return ci.Minutes() < cj.Minutes()
}
