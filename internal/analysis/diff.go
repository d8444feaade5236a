package analysis

import (
	"time"

	"github.com/ethan-geography-nea/price-paid/internal/model"
)

// DiffPoint is one entry of a property's excess-appreciation series: how much
// the price moved beyond the region's flats average over the same interval,
// as a percentage.
type DiffPoint struct {
	Date        time.Time
	DiffPercent float64
}

// DiffSeries walks consecutive sale pairs of a selected series against one
// region's reference index. The first sale anchors the series at 0; each
// later entry is (local change - reference change) * 100 over the interval
// since the previous sale.
//
// Every sale month must have a reference snapshot and every denominator must
// be non-zero; either failure aborts the series with a typed error naming the
// property, region and date.
func DiffSeries(dp Datapoint, idx model.ReferenceIndex) ([]DiffPoint, error) {
	records := dp.Series.Records
	out := make([]DiffPoint, 0, len(records))
	out = append(out, DiffPoint{Date: records[0].Date, DiffPercent: 0})

	for i := 1; i < len(records); i++ {
		prev, curr := records[i-1], records[i]

		prevRef, ok := idx.Lookup(prev.Date)
		if !ok {
			return nil, &MissingReferenceKeyError{Property: dp.Key, Region: idx.Region, Date: prev.Date}
		}
		currRef, ok := idx.Lookup(curr.Date)
		if !ok {
			return nil, &MissingReferenceKeyError{Property: dp.Key, Region: idx.Region, Date: curr.Date}
		}
		if prev.PricePaid == 0 {
			return nil, &DivisionByZeroError{Property: dp.Key, Region: idx.Region, Date: prev.Date, Quantity: "price_paid"}
		}
		if prevRef.AveragePriceFlats == 0 {
			return nil, &DivisionByZeroError{Property: dp.Key, Region: idx.Region, Date: prev.Date, Quantity: "average_price_flats"}
		}

		localChange := float64(curr.PricePaid-prev.PricePaid) / float64(prev.PricePaid)
		refChange := float64(currRef.AveragePriceFlats-prevRef.AveragePriceFlats) / float64(prevRef.AveragePriceFlats)

		out = append(out, DiffPoint{
			Date:        curr.Date,
			DiffPercent: (localChange - refChange) * 100,
		})
	}
	return out, nil
}
