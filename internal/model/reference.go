package model

import (
	"sort"
	"time"
)

// ReferenceRecord is one month of a region's UK House Price Index series.
// Optional columns are nil when the source row leaves them blank.
type ReferenceRecord struct {
	Region string
	// Time is the first of the month the snapshot covers.
	Time time.Time

	// Average prices in whole pounds.
	AveragePriceAll   int
	AveragePriceFlats int

	HPIAll   float64
	HPIFlats float64

	PctChangeMonthlyAll   *float64
	PctChangeYearlyAll    *float64
	PctChangeMonthlyFlats *float64
	PctChangeYearlyFlats  *float64

	SalesVolume *float64
}

// MonthKey keys reference lookups by calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the key for the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ReferenceIndex is one region's month-keyed reference snapshots.
type ReferenceIndex struct {
	Region  string
	Records map[MonthKey]ReferenceRecord
}

// NewReferenceIndex builds a region's index. Duplicate months from the
// provider are last-writer-wins.
func NewReferenceIndex(region string, records []ReferenceRecord) ReferenceIndex {
	idx := ReferenceIndex{
		Region:  region,
		Records: make(map[MonthKey]ReferenceRecord, len(records)),
	}
	for _, r := range records {
		idx.Records[MonthKeyOf(r.Time)] = r
	}
	return idx
}

// Lookup returns the snapshot covering the month of t.
func (idx ReferenceIndex) Lookup(t time.Time) (ReferenceRecord, bool) {
	r, ok := idx.Records[MonthKeyOf(t)]
	return r, ok
}

// Slice returns the snapshots with Time in [min, max], sorted ascending by
// Time. The map holds no order of its own, so the sort keeps output
// deterministic.
func (idx ReferenceIndex) Slice(min, max time.Time) []ReferenceRecord {
	out := make([]ReferenceRecord, 0, len(idx.Records))
	for _, r := range idx.Records {
		if r.Time.Before(min) || r.Time.After(max) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
