package model

import (
	"errors"
	"sort"
	"time"
)

// PropertySeries is the sale history of one property, sorted ascending by date.
// Invariant: non-empty. Built once by grouping, read-only afterwards.
type PropertySeries struct {
	Key     PropertyKey
	Records []SaleRecord
}

// NewPropertySeries copies and sorts records into a series. The sort is stable
// so same-day sales keep their source order.
func NewPropertySeries(key PropertyKey, records []SaleRecord) (*PropertySeries, error) {
	if len(records) == 0 {
		return nil, errors.New("property series must contain at least one record")
	}
	sorted := make([]SaleRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return &PropertySeries{Key: key, Records: sorted}, nil
}

// First returns the earliest sale.
func (s *PropertySeries) First() SaleRecord { return s.Records[0] }

// Last returns the latest sale.
func (s *PropertySeries) Last() SaleRecord { return s.Records[len(s.Records)-1] }

// Count returns the number of sales in the series.
func (s *PropertySeries) Count() int { return len(s.Records) }

// SpanDays is the number of days between the first and last sale.
func (s *PropertySeries) SpanDays() int64 {
	return int64(s.Last().Date.Sub(s.First().Date) / (24 * time.Hour))
}
