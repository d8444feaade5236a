package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethan-geography-nea/price-paid/internal/model"
)

// DateFormat is the day format used by both source CSVs.
const DateFormat = "2006-01-02"

// Sale CSV column names (Land Registry price-paid extract headers).
const (
	colDeedDate  = "deed_date"
	colSAON      = "saon"
	colPAON      = "paon"
	colStreet    = "street"
	colPricePaid = "price_paid"
)

// UKHPI CSV column names. The percentage-change and volume columns are
// optional: rows may leave them blank and older extracts omit them entirely.
const (
	colRegionName      = "Name"
	colPivotDate       = "Pivotable date"
	colAvgAll          = "Average price All property types"
	colAvgFlats        = "Average price Flats and maisonettes"
	colHPIAll          = "House price index All property types"
	colHPIFlats        = "House price index Flats and maisonettes"
	colPctMonthlyAll   = "Percentage change (monthly) All property types"
	colPctYearlyAll    = "Percentage change (yearly) All property types"
	colPctMonthlyFlats = "Percentage change (monthly) Flats and maisonettes"
	colPctYearlyFlats  = "Percentage change (yearly) Flats and maisonettes"
	colSalesVolume     = "Sales volume"
)

// ReadSaleRecords decodes price-paid rows from r. A malformed row is logged
// and skipped; it never aborts the batch. A missing required column is a
// structural failure and does abort.
func ReadSaleRecords(r io.Reader, logger *logrus.Logger) ([]model.SaleRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read sale header: %w", err)
	}
	cols, err := columnIndex(header, colDeedDate, colSAON, colPAON, colStreet, colPricePaid)
	if err != nil {
		return nil, err
	}

	var out []model.SaleRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}

		date, err := time.Parse(DateFormat, field(row, cols[colDeedDate]))
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}
		price, err := strconv.Atoi(field(row, cols[colPricePaid]))
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}

		out = append(out, model.SaleRecord{
			Date:      date,
			Flat:      field(row, cols[colSAON]),
			Building:  field(row, cols[colPAON]),
			Estate:    field(row, cols[colStreet]),
			PricePaid: price,
		})
	}
	return out, nil
}

// LoadSaleCSV reads sale records from a file.
func LoadSaleCSV(path string, logger *logrus.Logger) ([]model.SaleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ReadSaleRecords(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadReferenceRecords decodes UKHPI rows from r, with the same malformed-row
// policy as ReadSaleRecords.
func ReadReferenceRecords(r io.Reader, logger *logrus.Logger) ([]model.ReferenceRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read reference header: %w", err)
	}
	cols, err := columnIndex(header, colRegionName, colPivotDate, colAvgAll, colAvgFlats, colHPIAll, colHPIFlats)
	if err != nil {
		return nil, err
	}
	// Optional columns: remember positions when present.
	optional := columnIndexOptional(header,
		colPctMonthlyAll, colPctYearlyAll, colPctMonthlyFlats, colPctYearlyFlats, colSalesVolume)

	var out []model.ReferenceRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}

		t, err := time.Parse(DateFormat, field(row, cols[colPivotDate]))
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}
		avgAll, err := strconv.Atoi(field(row, cols[colAvgAll]))
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}
		avgFlats, err := strconv.Atoi(field(row, cols[colAvgFlats]))
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}
		hpiAll, err := strconv.ParseFloat(field(row, cols[colHPIAll]), 64)
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}
		hpiFlats, err := strconv.ParseFloat(field(row, cols[colHPIFlats]), 64)
		if err != nil {
			warnRow(logger, line, row, err)
			continue
		}

		rec := model.ReferenceRecord{
			Region:            field(row, cols[colRegionName]),
			Time:              t,
			AveragePriceAll:   avgAll,
			AveragePriceFlats: avgFlats,
			HPIAll:            hpiAll,
			HPIFlats:          hpiFlats,
		}
		rec.PctChangeMonthlyAll = optionalFloat(row, optional, colPctMonthlyAll)
		rec.PctChangeYearlyAll = optionalFloat(row, optional, colPctYearlyAll)
		rec.PctChangeMonthlyFlats = optionalFloat(row, optional, colPctMonthlyFlats)
		rec.PctChangeYearlyFlats = optionalFloat(row, optional, colPctYearlyFlats)
		rec.SalesVolume = optionalFloat(row, optional, colSalesVolume)

		out = append(out, rec)
	}
	return out, nil
}

// LoadReferenceCSV reads UKHPI records from a file.
func LoadReferenceCSV(path string, logger *logrus.Logger) ([]model.ReferenceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ReadReferenceRecords(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// WriteSaleCSV writes sale records using the provider's own column layout, so
// a downloaded extract can be re-read by LoadSaleCSV.
func WriteSaleCSV(path string, records []model.SaleRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{colDeedDate, colSAON, colPAON, colStreet, colPricePaid}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(DateFormat),
			r.Flat,
			r.Building,
			r.Estate,
			strconv.Itoa(r.PricePaid),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.TrimSpace(name)] = i
	}
	cols := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
		cols[name] = i
	}
	return cols, nil
}

func columnIndexOptional(header []string, names ...string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.TrimSpace(name)] = i
	}
	cols := make(map[string]int, len(names))
	for _, name := range names {
		if i, ok := byName[name]; ok {
			cols[name] = i
		}
	}
	return cols
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optionalFloat(row []string, cols map[string]int, name string) *float64 {
	i, ok := cols[name]
	if !ok {
		return nil
	}
	s := field(row, i)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func warnRow(logger *logrus.Logger, line int, row []string, err error) {
	if logger == nil {
		return
	}
	logger.WithFields(logrus.Fields{
		"line": line,
		"row":  row,
	}).WithError(err).Warn("skipping malformed record")
}
