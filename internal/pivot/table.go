package pivot

import "time"

// DateLabel is the fixed first column label of every table.
const DateLabel = "date"

// Table is a wide-format output table: each tracked entity owns one column
// and rows are discrete dated events. Rows stay rectangular: adding a column
// backfills an empty cell into every existing row. The table never re-orders
// rows; ordering is whatever the caller appended.
type Table struct {
	Labels []string
	Rows   [][]string
}

// New returns a table holding only the date column.
func New() *Table {
	return &Table{Labels: []string{DateLabel}}
}

// Entry is one dated cell destined for a series column.
type Entry struct {
	Date  string
	Value string
}

// AddColumn appends a label and pads every existing row with an empty cell.
func (t *Table) AddColumn(label string) {
	t.Labels = append(t.Labels, label)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
}

// AddSeries adds a column for label followed by one row per entry, in entry
// order. Each new row carries the date in the first cell and the value in the
// new column; everything between stays empty.
func (t *Table) AddSeries(label string, entries []Entry) {
	t.AddColumn(label)
	for _, e := range entries {
		row := make([]string, len(t.Labels))
		row[0] = e.Date
		row[len(row)-1] = e.Value
		t.Rows = append(t.Rows, row)
	}
}

// MonthCell buckets a date to the first of its month, aligning rows from
// day-level sales with month-level reference snapshots.
func MonthCell(t time.Time) string {
	return t.Format("2006-01") + "-01"
}

// DayCell formats an exact date.
func DayCell(t time.Time) string {
	return t.Format("2006-01-02")
}
