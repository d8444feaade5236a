package analysis

import "time"

// DateRange returns the earliest first-sale date and latest last-sale date
// across the selection, which bounds the reference snapshots worth keeping.
// An empty selection has no defined range and returns *EmptySelectionError.
func DateRange(selected []Datapoint) (min, max time.Time, err error) {
	if len(selected) == 0 {
		return time.Time{}, time.Time{}, &EmptySelectionError{}
	}
	min, max = selected[0].First, selected[0].Last
	for _, dp := range selected[1:] {
		if dp.First.Before(min) {
			min = dp.First
		}
		if dp.Last.After(max) {
			max = dp.Last
		}
	}
	return min, max, nil
}
