package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-geography-nea/price-paid/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sales(key model.PropertyKey, dates ...time.Time) []model.SaleRecord {
	out := make([]model.SaleRecord, 0, len(dates))
	for i, d := range dates {
		out = append(out, model.SaleRecord{
			Date:      d,
			Flat:      key.Flat,
			Building:  key.Building,
			PricePaid: 100000 + i,
		})
	}
	return out
}

func TestScoreSeries(t *testing.T) {
	s, err := model.NewPropertySeries(model.PropertyKey{Flat: "A", Building: "B"}, sales(
		model.PropertyKey{Flat: "A", Building: "B"},
		day(2000, time.January, 1),
		day(2000, time.March, 1),
		day(2000, time.April, 10), // 100 days after the first sale
		day(2000, time.February, 1),
	))
	require.NoError(t, err)
	assert.Equal(t, 100.0*4*0.5, ScoreSeries(s))
}

func TestRank_FiltersBeforeScoring(t *testing.T) {
	shortKey := model.PropertyKey{Flat: "FLAT 1", Building: "TOWER"}
	longKey := model.PropertyKey{Flat: "FLAT 2", Building: "TOWER"}
	byProperty := map[model.PropertyKey][]model.SaleRecord{
		// Only 2 sales: rejected by the length filter no matter its span.
		shortKey: sales(shortKey, day(1990, time.January, 1), day(2020, time.January, 1)),
		longKey:  sales(longKey, day(1990, time.January, 1), day(2005, time.January, 1), day(2020, time.January, 1)),
	}

	ranked, err := Rank(byProperty, MinSaleCount(3), MinSpanDays(7300), nil)
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, longKey, ranked[0].Key)
}

func TestRank_DateDistanceFilter(t *testing.T) {
	key := model.PropertyKey{Flat: "FLAT 1", Building: "TOWER"}
	byProperty := map[model.PropertyKey][]model.SaleRecord{
		key: sales(key, day(2000, time.January, 1), day(2000, time.June, 1), day(2001, time.January, 1)),
	}

	ranked, err := Rank(byProperty, MinSaleCount(3), MinSpanDays(7300), nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)

	ranked, err = Rank(byProperty, MinSaleCount(3), MinSpanDays(300), nil)
	require.NoError(t, err)
	assert.Len(t, ranked, 1)
}

func TestRank_OrdersDescendingAndTruncates(t *testing.T) {
	a := model.PropertyKey{Flat: "A", Building: "X"}
	b := model.PropertyKey{Flat: "B", Building: "X"}
	c := model.PropertyKey{Flat: "C", Building: "X"}
	byProperty := map[model.PropertyKey][]model.SaleRecord{
		// Spans of 100, 300 and 200 days; equal counts.
		a: sales(a, day(2000, time.January, 1), day(2000, time.April, 10)),
		b: sales(b, day(2000, time.January, 1), day(2000, time.October, 27)),
		c: sales(c, day(2000, time.January, 1), day(2000, time.July, 19)),
	}

	ranked, err := Rank(byProperty, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, b, ranked[0].Key)
	assert.Equal(t, c, ranked[1].Key)
	assert.Equal(t, a, ranked[2].Key)

	topN := 2
	ranked, err = Rank(byProperty, nil, nil, &topN)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, b, ranked[0].Key)
	assert.Equal(t, c, ranked[1].Key)
}

func TestRank_TopNZeroIsValidEmptySelection(t *testing.T) {
	key := model.PropertyKey{Flat: "A", Building: "X"}
	byProperty := map[model.PropertyKey][]model.SaleRecord{
		key: sales(key, day(2000, time.January, 1), day(2001, time.January, 1)),
	}

	zero := 0
	ranked, err := Rank(byProperty, nil, nil, &zero)
	require.NoError(t, err)
	assert.Empty(t, ranked)

	negative := -3
	ranked, err = Rank(byProperty, nil, nil, &negative)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRank_TiesBreakByPropertyKey(t *testing.T) {
	// Identical sale dates and counts give identical scores; order must be
	// the sorted key order, independent of map iteration.
	dates := []time.Time{day(2000, time.January, 1), day(2001, time.January, 1)}
	k1 := model.PropertyKey{Flat: "FLAT 1", Building: "TOWER"}
	k2 := model.PropertyKey{Flat: "FLAT 2", Building: "TOWER"}
	k3 := model.PropertyKey{Flat: "FLAT 2", Building: "ANNEX"}
	byProperty := map[model.PropertyKey][]model.SaleRecord{
		k2: sales(k2, dates...),
		k3: sales(k3, dates...),
		k1: sales(k1, dates...),
	}

	for i := 0; i < 10; i++ {
		ranked, err := Rank(byProperty, nil, nil, nil)
		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.Equal(t, k1, ranked[0].Key)
		assert.Equal(t, k3, ranked[1].Key) // "FLAT 2","ANNEX" before "FLAT 2","TOWER"
		assert.Equal(t, k2, ranked[2].Key)
	}
}

func TestDateRange(t *testing.T) {
	selected := []Datapoint{
		{First: day(1995, time.May, 1), Last: day(2010, time.May, 1)},
		{First: day(1990, time.January, 1), Last: day(2005, time.May, 1)},
		{First: day(2000, time.January, 1), Last: day(2020, time.December, 31)},
	}

	min, max, err := DateRange(selected)
	require.NoError(t, err)
	assert.Equal(t, day(1990, time.January, 1), min)
	assert.Equal(t, day(2020, time.December, 31), max)
}

func TestDateRange_EmptySelection(t *testing.T) {
	_, _, err := DateRange(nil)
	require.Error(t, err)

	var emptySel *EmptySelectionError
	assert.ErrorAs(t, err, &emptySel)
}
