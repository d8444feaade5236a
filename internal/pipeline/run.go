package pipeline

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethan-geography-nea/price-paid/internal/analysis"
	"github.com/ethan-geography-nea/price-paid/internal/config"
	"github.com/ethan-geography-nea/price-paid/internal/data"
	"github.com/ethan-geography-nea/price-paid/internal/model"
	"github.com/ethan-geography-nea/price-paid/internal/pivot"
)

// RegionSource names one region and its UKHPI reference CSV.
type RegionSource struct {
	Name string
	Path string
}

// RunParams bundles the inputs of one batch run.
type RunParams struct {
	SalesPath string
	Regions   []RegionSource

	LengthFilter       analysis.LengthFilter
	DateDistanceFilter analysis.DateDistanceFilter

	// TopN limits the selection; nil keeps every qualifying series.
	TopN *int

	PriceTablePath string
	DiffTablePath  string
}

// ParamsFor assembles RunParams for one configured estate.
func ParamsFor(cfg *config.Config, estate config.EstateConfig) RunParams {
	filters := cfg.EffectiveFilters(estate)
	regions := make([]RegionSource, 0, len(cfg.Regions))
	for _, r := range cfg.Regions {
		regions = append(regions, RegionSource{Name: r.Name, Path: r.ReferenceFile})
	}
	return RunParams{
		SalesPath:          estate.SalesFile,
		Regions:            regions,
		LengthFilter:       analysis.MinSaleCount(filters.MinSaleCount),
		DateDistanceFilter: analysis.MinSpanDays(filters.MinSpanDays),
		TopN:               estate.TopN,
		PriceTablePath:     estate.PriceTable,
		DiffTablePath:      estate.DiffTable,
	}
}

// Selection summarises one selected property.
type Selection struct {
	Property string    `json:"property"`
	Score    float64   `json:"score"`
	Sales    int       `json:"sales"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
}

// Result summarises a completed run.
type Result struct {
	Selected []Selection `json:"selected"`
	MinDate  time.Time   `json:"min_date"`
	MaxDate  time.Time   `json:"max_date"`

	PriceRows int `json:"price_rows"`
	DiffRows  int `json:"diff_rows"`
}

// Run executes one batch: read, group, rank, join each region's reference
// index, compute excess-appreciation series, and write the price and diff
// tables. Both tables are fully assembled before either file is touched, so a
// failing run leaves no partial output behind.
func Run(params RunParams, logger *logrus.Logger) (*Result, error) {
	if logger == nil {
		logger = logrus.New()
	}

	sales, err := data.LoadSaleCSV(params.SalesPath, logger)
	if err != nil {
		return nil, fmt.Errorf("read sale records: %w", err)
	}

	indexes := make([]model.ReferenceIndex, 0, len(params.Regions))
	for _, region := range params.Regions {
		refs, err := data.LoadReferenceCSV(region.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("read %s reference records: %w", region.Name, err)
		}
		indexes = append(indexes, model.NewReferenceIndex(region.Name, refs))
	}

	byProperty := data.GroupByProperty(sales)
	selected, err := analysis.Rank(byProperty, params.LengthFilter, params.DateDistanceFilter, params.TopN)
	if err != nil {
		return nil, fmt.Errorf("rank series: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"sales":      len(sales),
		"properties": len(byProperty),
		"selected":   len(selected),
	}).Info("ranked property series")

	minDate, maxDate, err := analysis.DateRange(selected)
	if err != nil {
		return nil, err
	}

	priceTable := buildPriceTable(selected, indexes, minDate, maxDate)
	diffTable, err := buildDiffTable(selected, indexes)
	if err != nil {
		return nil, err
	}

	if err := pivot.WriteFileCSV(priceTable, params.PriceTablePath); err != nil {
		return nil, err
	}
	if err := pivot.WriteFileCSV(diffTable, params.DiffTablePath); err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"price_table": params.PriceTablePath,
		"diff_table":  params.DiffTablePath,
	}).Info("wrote output tables")

	result := &Result{
		Selected:  make([]Selection, 0, len(selected)),
		MinDate:   minDate,
		MaxDate:   maxDate,
		PriceRows: len(priceTable.Rows),
		DiffRows:  len(diffTable.Rows),
	}
	for _, dp := range selected {
		result.Selected = append(result.Selected, Selection{
			Property: dp.Key.Label(),
			Score:    dp.Score,
			Sales:    dp.Series.Count(),
			First:    dp.First,
			Last:     dp.Last,
		})
	}
	return result, nil
}

// buildPriceTable assembles the raw-price table: one column per selected
// property in selection order, then two columns per region restricted to the
// selection's date range. Rows are appended per source event and never merged
// by date.
func buildPriceTable(selected []analysis.Datapoint, indexes []model.ReferenceIndex, minDate, maxDate time.Time) *pivot.Table {
	t := pivot.New()

	for _, dp := range selected {
		entries := make([]pivot.Entry, 0, dp.Series.Count())
		for _, rec := range dp.Series.Records {
			entries = append(entries, pivot.Entry{
				Date:  pivot.MonthCell(rec.Date),
				Value: strconv.Itoa(rec.PricePaid),
			})
		}
		t.AddSeries(dp.Key.Label(), entries)
	}

	for _, idx := range indexes {
		refs := idx.Slice(minDate, maxDate)

		all := make([]pivot.Entry, 0, len(refs))
		flats := make([]pivot.Entry, 0, len(refs))
		for _, r := range refs {
			all = append(all, pivot.Entry{Date: pivot.MonthCell(r.Time), Value: strconv.Itoa(r.AveragePriceAll)})
			flats = append(flats, pivot.Entry{Date: pivot.MonthCell(r.Time), Value: strconv.Itoa(r.AveragePriceFlats)})
		}
		t.AddSeries(idx.Region+", all sales average", all)
		t.AddSeries(idx.Region+", flats average", flats)
	}
	return t
}

// buildDiffTable assembles the excess-appreciation table: one column per
// (property, region) pair in selection order crossed with region order, one
// row per sale event.
func buildDiffTable(selected []analysis.Datapoint, indexes []model.ReferenceIndex) (*pivot.Table, error) {
	t := pivot.New()

	for _, dp := range selected {
		for _, idx := range indexes {
			series, err := analysis.DiffSeries(dp, idx)
			if err != nil {
				return nil, err
			}
			entries := make([]pivot.Entry, 0, len(series))
			for _, p := range series {
				entries = append(entries, pivot.Entry{
					Date:  pivot.DayCell(p.Date),
					Value: strconv.FormatFloat(p.DiffPercent, 'f', 6, 64),
				})
			}
			t.AddSeries(dp.Key.Label()+" v "+idx.Region, entries)
		}
	}
	return t, nil
}
