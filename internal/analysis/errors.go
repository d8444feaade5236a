package analysis

import (
	"fmt"
	"time"

	"github.com/ethan-geography-nea/price-paid/internal/model"
)

// EmptySelectionError reports that a date range was requested over zero
// selected series. Any step needing the range must fail on it rather than
// assume a default.
type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "no qualifying series selected: min/max date range is undefined"
}

// MissingReferenceKeyError reports a sale month with no reference snapshot in
// a region's index. The pair's diff cannot be computed; substituting zero or
// skipping the pair is not allowed.
type MissingReferenceKeyError struct {
	Property model.PropertyKey
	Region   string
	Date     time.Time
}

func (e *MissingReferenceKeyError) Error() string {
	return fmt.Sprintf("no %s reference record for %s (sale of %q)",
		e.Region, e.Date.Format("2006-01"), e.Property.Label())
}

// DivisionByZeroError reports a zero previous price or previous reference
// average, which leaves the percentage change undefined.
type DivisionByZeroError struct {
	Property model.PropertyKey
	Region   string
	Date     time.Time
	// Quantity names the zero denominator: "price_paid" or "average_price_flats".
	Quantity string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("zero %s at %s for %q v %s: percentage change is undefined",
		e.Quantity, e.Date.Format("2006-01-02"), e.Property.Label(), e.Region)
}
