package analysis

import (
	"sort"
	"time"

	"github.com/ethan-geography-nea/price-paid/internal/model"
)

// Datapoint is a qualifying property series plus its chart-worthiness score.
// Created during ranking, consumed while building output, then discarded.
type Datapoint struct {
	Key    model.PropertyKey
	Score  float64
	First  time.Time
	Last   time.Time
	Series *model.PropertySeries
}

// ScoreSeries rewards a long observable history and a high transaction count.
// Either alone is a weak signal for charting a price trend.
func ScoreSeries(s *model.PropertySeries) float64 {
	return float64(s.SpanDays()) * float64(s.Count()) * 0.5
}

// Rank qualifies, scores and orders property series descending by score.
//
// Candidates are visited in sorted property-key order and the score sort is
// stable, so ties keep key order and the result does not depend on map
// iteration order. topN nil keeps every qualifying series; topN <= 0 selects
// nothing, which is a valid empty result rather than an error.
func Rank(byProperty map[model.PropertyKey][]model.SaleRecord, lengthFilter LengthFilter, distanceFilter DateDistanceFilter, topN *int) ([]Datapoint, error) {
	keys := make([]model.PropertyKey, 0, len(byProperty))
	for k := range byProperty {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Flat != keys[j].Flat {
			return keys[i].Flat < keys[j].Flat
		}
		return keys[i].Building < keys[j].Building
	})

	datapoints := make([]Datapoint, 0, len(keys))
	for _, k := range keys {
		records := byProperty[k]
		if len(records) == 0 {
			continue
		}
		series, err := model.NewPropertySeries(k, records)
		if err != nil {
			return nil, err
		}
		if !Qualifies(series, lengthFilter, distanceFilter) {
			continue
		}
		datapoints = append(datapoints, Datapoint{
			Key:    k,
			Score:  ScoreSeries(series),
			First:  series.First().Date,
			Last:   series.Last().Date,
			Series: series,
		})
	}

	sort.SliceStable(datapoints, func(i, j int) bool {
		return datapoints[i].Score > datapoints[j].Score
	})

	if topN != nil {
		n := *topN
		if n < 0 {
			n = 0
		}
		if n < len(datapoints) {
			datapoints = datapoints[:n]
		}
	}
	return datapoints, nil
}
