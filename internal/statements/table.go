// Package statements models financial statement tables and the fuzzy lookup
// used to extract line items from inconsistently labeled vendor data.
package statements

import (
	"strings"
	"time"
)

// Cell is a single statement value. Missing cells are marked invalid rather
// than carrying NaN, so absence can never leak into arithmetic.
type Cell struct {
	Value float64
	Valid bool
}

// Num returns a valid cell holding v.
func Num(v float64) Cell {
	return Cell{Value: v, Valid: true}
}

// Table is a financial statement: line items (rows) by reporting periods
// (columns). Column order is whatever the source declared; it is not
// guaranteed to be sorted by date.
type Table struct {
	columns []string
	labels  []string
	rows    map[string][]Cell
}

// NewTable creates an empty table with the given period columns.
func NewTable(columns []string) *Table {
	return &Table{
		columns: columns,
		rows:    make(map[string][]Cell),
	}
}

// AddRow appends a line item. Cells shorter than the column set are padded
// with invalid cells; extra cells are dropped.
func (t *Table) AddRow(label string, cells []Cell) {
	if _, exists := t.rows[label]; !exists {
		t.labels = append(t.labels, label)
	}
	row := make([]Cell, len(t.columns))
	copy(row, cells)
	t.rows[label] = row
}

// Columns returns the period identifiers in source-declared order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return t.columns
}

// Labels returns the row labels in insertion order.
func (t *Table) Labels() []string {
	if t == nil {
		return nil
	}
	return t.labels
}

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool {
	return t == nil || len(t.columns) == 0 || len(t.rows) == 0
}

// normalizeLabel lowercases a line-item name and strips everything that is
// not a letter or digit, so "Total Assets", "TotalAssets" and "total-assets"
// all collapse to the same key.
func normalizeLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnLayouts are the period-identifier formats seen across statement
// vendors. Plain dates first, since that is what the Yahoo payloads carry.
var columnLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"1/2/2006",
	"2006",
}

func parseColumnDate(col string) (time.Time, bool) {
	for _, layout := range columnLayouts {
		if ts, err := time.Parse(layout, col); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// LatestColumn returns the index of the most recent reporting period,
// determined by parsing the period identifiers as dates and taking the
// maximum. Columns that fail to parse are never treated as latest unless no
// column parses, in which case the first (source-declared) column wins.
// Returns -1 when the table has no columns.
func (t *Table) LatestColumn() int {
	if t == nil || len(t.columns) == 0 {
		return -1
	}
	best := -1
	var bestTime time.Time
	for i, col := range t.columns {
		ts, ok := parseColumnDate(col)
		if !ok {
			continue
		}
		if best == -1 || ts.After(bestTime) {
			best, bestTime = i, ts
		}
	}
	if best == -1 {
		return 0
	}
	return best
}

// Latest returns the value of the given row at the latest column.
func (t *Table) Latest(label string) Cell {
	if t.Empty() {
		return Cell{}
	}
	row, ok := t.rows[label]
	if !ok {
		return Cell{}
	}
	col := t.LatestColumn()
	if col < 0 || col >= len(row) {
		return Cell{}
	}
	return row[col]
}

// Find searches the table for any of the candidate labels and returns the
// value at the latest column together with the label it matched.
//
// Pass 1 tries exact normalized matches in candidate order. Pass 2, only if
// nothing usable was found, tries rows whose normalized label contains the
// normalized candidate as a substring, again in candidate order, taking the
// first row with a usable value. Empty or nil tables return not-found.
func (t *Table) Find(candidates []string) (float64, string, bool) {
	if v, label, ok := t.FindExact(candidates); ok {
		return v, label, ok
	}
	if t.Empty() {
		return 0, "", false
	}
	for _, cand := range candidates {
		nc := normalizeLabel(cand)
		if nc == "" {
			continue
		}
		for _, label := range t.labels {
			if !strings.Contains(normalizeLabel(label), nc) {
				continue
			}
			if cell := t.Latest(label); cell.Valid {
				return cell.Value, label, true
			}
		}
	}
	return 0, "", false
}

// FindExact is the exact-normalized-match pass of Find. The builder uses it
// directly: default substitution is preferred over a loose substring hit.
func (t *Table) FindExact(candidates []string) (float64, string, bool) {
	if t.Empty() {
		return 0, "", false
	}
	index := make(map[string]string, len(t.labels))
	for _, label := range t.labels {
		norm := normalizeLabel(label)
		if _, dup := index[norm]; !dup {
			index[norm] = label
		}
	}
	for _, cand := range candidates {
		label, ok := index[normalizeLabel(cand)]
		if !ok {
			continue
		}
		if cell := t.Latest(label); cell.Valid {
			return cell.Value, label, true
		}
	}
	return 0, "", false
}

// Series returns the full row for the first exact-matching candidate, valid
// cells only, ordered most-recent-first. Ordering uses parsed column dates;
// when any column fails to parse the source-declared order is kept.
func (t *Table) Series(candidates []string) []float64 {
	if t.Empty() {
		return nil
	}
	index := make(map[string]string, len(t.labels))
	for _, label := range t.labels {
		norm := normalizeLabel(label)
		if _, dup := index[norm]; !dup {
			index[norm] = label
		}
	}
	for _, cand := range candidates {
		label, ok := index[normalizeLabel(cand)]
		if !ok {
			continue
		}
		row := t.rows[label]
		order := t.columnOrder()
		var series []float64
		for _, i := range order {
			if i < len(row) && row[i].Valid {
				series = append(series, row[i].Value)
			}
		}
		if len(series) > 0 {
			return series
		}
	}
	return nil
}

// columnOrder returns column indexes sorted newest-first when every column
// parses as a date, and declared order otherwise.
func (t *Table) columnOrder() []int {
	order := make([]int, len(t.columns))
	times := make([]time.Time, len(t.columns))
	for i, col := range t.columns {
		order[i] = i
		ts, ok := parseColumnDate(col)
		if !ok {
			return order
		}
		times[i] = ts
	}
	// Insertion sort: column counts are tiny (4-5 periods).
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && times[order[j]].After(times[order[j-1]]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}
