package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-geography-nea/price-paid/internal/analysis"
	"github.com/ethan-geography-nea/price-paid/internal/pivot"
)

const testSalesCSV = `deed_date,saon,paon,street,price_paid
2000-01-10,FLAT 1,TOWER,BARBICAN,100000
2001-02-10,FLAT 1,TOWER,BARBICAN,150000
2002-03-10,FLAT 1,TOWER,BARBICAN,200000
2000-05-01,FLAT 2,TOWER,BARBICAN,90000
2001-05-01,FLAT 2,TOWER,BARBICAN,95000
`

const testReferenceCSV = `Name,Pivotable date,Average price All property types,Average price Flats and maisonettes,House price index All property types,House price index Flats and maisonettes
London,1999-12-01,200000,1000,40.0,41.0
London,2000-01-01,201000,1000,40.1,41.1
London,2000-06-01,202000,1005,40.2,41.2
London,2001-02-01,203000,1010,40.3,41.3
London,2002-03-01,204000,1040,40.4,41.4
`

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeFixture(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func testParams(t *testing.T, referenceCSV string) RunParams {
	t.Helper()
	dir := t.TempDir()
	return RunParams{
		SalesPath: writeFixture(t, dir, "sales.csv", testSalesCSV),
		Regions: []RegionSource{
			{Name: "London", Path: writeFixture(t, dir, "london.csv", referenceCSV)},
		},
		LengthFilter:       analysis.MinSaleCount(3),
		DateDistanceFilter: analysis.MinSpanDays(300),
		PriceTablePath:     filepath.Join(dir, "out", "prices.csv"),
		DiffTablePath:      filepath.Join(dir, "out", "diffs.csv"),
	}
}

func readTable(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRun(t *testing.T) {
	params := testParams(t, testReferenceCSV)

	res, err := Run(params, quietLogger())
	require.NoError(t, err)

	// FLAT 2 has only 2 sales and never reaches the output.
	require.Len(t, res.Selected, 1)
	sel := res.Selected[0]
	assert.Equal(t, "FLAT 1, TOWER", sel.Property)
	assert.Equal(t, 3, sel.Sales)
	assert.Equal(t, time.Date(2000, time.January, 10, 0, 0, 0, 0, time.UTC), res.MinDate)
	assert.Equal(t, time.Date(2002, time.March, 10, 0, 0, 0, 0, time.UTC), res.MaxDate)

	prices := readTable(t, params.PriceTablePath)
	require.NotEmpty(t, prices)
	assert.Equal(t, []string{
		"date",
		"FLAT 1, TOWER",
		"London, all sales average",
		"London, flats average",
	}, prices[0])
	for _, row := range prices {
		assert.Len(t, row, len(prices[0]))
	}

	// 3 sale rows, then 3 + 3 reference rows: the 1999-12 snapshot falls
	// outside [min, max] and is dropped.
	require.Len(t, prices, 10)
	assert.Equal(t, []string{"2000-01-01", "100000", "", ""}, prices[1])
	assert.Equal(t, []string{"2001-02-01", "150000", "", ""}, prices[2])
	assert.Equal(t, []string{"2002-03-01", "200000", "", ""}, prices[3])
	assert.Equal(t, []string{"2000-06-01", "", "202000", ""}, prices[4])
	assert.Equal(t, []string{"2002-03-01", "", "", "1040"}, prices[9])

	diffs := readTable(t, params.DiffTablePath)
	assert.Equal(t, []string{"date", "FLAT 1, TOWER v London"}, diffs[0])
	require.Len(t, diffs, 4)
	for _, row := range diffs {
		assert.Len(t, row, 2)
	}

	// First entry is always anchored at zero; the second matches
	// (0.5 - 0.01) * 100.
	assert.Equal(t, []string{"2000-01-10", "0.000000"}, diffs[1])
	assert.Equal(t, "2001-02-10", diffs[2][0])
	second, err := strconv.ParseFloat(diffs[2][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 49.0, second, 1e-6)
}

func TestRun_Deterministic(t *testing.T) {
	params := testParams(t, testReferenceCSV)

	_, err := Run(params, quietLogger())
	require.NoError(t, err)
	firstPrices, err := os.ReadFile(params.PriceTablePath)
	require.NoError(t, err)
	firstDiffs, err := os.ReadFile(params.DiffTablePath)
	require.NoError(t, err)

	_, err = Run(params, quietLogger())
	require.NoError(t, err)
	secondPrices, err := os.ReadFile(params.PriceTablePath)
	require.NoError(t, err)
	secondDiffs, err := os.ReadFile(params.DiffTablePath)
	require.NoError(t, err)

	assert.Equal(t, firstPrices, secondPrices)
	assert.Equal(t, firstDiffs, secondDiffs)
}

func TestRun_TopNZeroFailsCleanly(t *testing.T) {
	params := testParams(t, testReferenceCSV)
	zero := 0
	params.TopN = &zero

	_, err := Run(params, quietLogger())
	require.Error(t, err)

	var emptySel *analysis.EmptySelectionError
	assert.ErrorAs(t, err, &emptySel)
	assert.NoFileExists(t, params.PriceTablePath)
	assert.NoFileExists(t, params.DiffTablePath)
}

func TestRun_NothingQualifiesFailsCleanly(t *testing.T) {
	params := testParams(t, testReferenceCSV)
	params.LengthFilter = analysis.MinSaleCount(5)

	_, err := Run(params, quietLogger())

	var emptySel *analysis.EmptySelectionError
	require.ErrorAs(t, err, &emptySel)
}

func TestRun_MissingReferenceKeyWritesNothing(t *testing.T) {
	// Drop the 2001-02 snapshot the middle sale needs.
	broken := `Name,Pivotable date,Average price All property types,Average price Flats and maisonettes,House price index All property types,House price index Flats and maisonettes
London,2000-01-01,201000,1000,40.1,41.1
London,2002-03-01,204000,1040,40.4,41.4
`
	params := testParams(t, broken)

	_, err := Run(params, quietLogger())
	require.Error(t, err)

	var missing *analysis.MissingReferenceKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "London", missing.Region)
	assert.Equal(t, time.Date(2001, time.February, 10, 0, 0, 0, 0, time.UTC), missing.Date)

	// A failing run emits no tables at all.
	assert.NoFileExists(t, params.PriceTablePath)
	assert.NoFileExists(t, params.DiffTablePath)
}

func TestRun_SinkWriteError(t *testing.T) {
	params := testParams(t, testReferenceCSV)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	params.PriceTablePath = filepath.Join(blocker, "prices.csv")

	_, err := Run(params, quietLogger())

	var sinkErr *pivot.SinkWriteError
	require.ErrorAs(t, err, &sinkErr)
}
