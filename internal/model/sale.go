package model

import "time"

// SaleRecord is one price-paid transaction from a Land Registry PPD extract.
// Field names mirror the CSV columns (deed_date, saon, paon, street, price_paid).
type SaleRecord struct {
	Date time.Time

	// Flat is the SAON (secondary addressable object), e.g. "FLAT 36".
	Flat string
	// Building is the PAON (primary addressable object), e.g. "BEN JONSON HOUSE".
	Building string
	// Estate is the street name. Informational only; never part of the key.
	Estate string

	// PricePaid in whole pounds.
	PricePaid int
}

// Key returns the grouping key for the record.
func (s SaleRecord) Key() PropertyKey {
	return PropertyKey{Flat: s.Flat, Building: s.Building}
}

// PropertyKey identifies one unit. Equality is exact and case-sensitive;
// no normalisation is applied to either component.
type PropertyKey struct {
	Flat     string
	Building string
}

// Label is the column heading used for this property in output tables.
func (k PropertyKey) Label() string {
	return k.Flat + ", " + k.Building
}
