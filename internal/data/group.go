package data

import "github.com/ethan-geography-nea/price-paid/internal/model"

// GroupByProperty splits sale records into property-keyed slices. Nothing is
// dropped here; qualification happens downstream.
func GroupByProperty(records []model.SaleRecord) map[model.PropertyKey][]model.SaleRecord {
	out := map[model.PropertyKey][]model.SaleRecord{}
	for _, r := range records {
		k := r.Key()
		out[k] = append(out[k], r)
	}
	return out
}
