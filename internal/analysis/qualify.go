package analysis

import "github.com/ethan-geography-nea/price-paid/internal/model"

// LengthFilter decides inclusion by sale count. It REJECTS on true.
type LengthFilter func(saleCount int) bool

// DateDistanceFilter decides inclusion by the days between a series' first
// and last sale. It REJECTS on true.
type DateDistanceFilter func(spanDays int64) bool

// MinSaleCount rejects series with fewer than n sales.
func MinSaleCount(n int) LengthFilter {
	return func(count int) bool { return count < n }
}

// MinSpanDays rejects series observed for fewer than d days.
func MinSpanDays(d int64) DateDistanceFilter {
	return func(span int64) bool { return span < d }
}

// Qualifies reports whether a series passes both filters. A nil filter
// rejects nothing.
func Qualifies(s *model.PropertySeries, lengthFilter LengthFilter, distanceFilter DateDistanceFilter) bool {
	if lengthFilter != nil && lengthFilter(s.Count()) {
		return false
	}
	if distanceFilter != nil && distanceFilter(s.SpanDays()) {
		return false
	}
	return true
}
