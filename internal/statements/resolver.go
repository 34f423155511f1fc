package statements

// Field pairs the statement-row candidates for one logical field with an
// optional summary-info fallback. Candidate lists live in fields.go as
// configuration data rather than inline literals at call sites.
type Field struct {
	Labels  []string
	Summary func(*SummaryInfo) Cell
}

func (f Field) summaryCell(s *SummaryInfo) Cell {
	if f.Summary == nil || s == nil {
		return Cell{}
	}
	return f.Summary(s)
}

// Resolver chains lookups for one statement kind across its annual table,
// its quarterly table and the summary info, in that order.
type Resolver struct {
	Annual    *Table
	Quarterly *Table
	Summary   *SummaryInfo
}

// Value resolves a field to its latest reported value: annual statement
// first, then quarterly, then the summary-info fallback. Returns the first
// usable numeric hit.
func (r *Resolver) Value(f Field) Cell {
	for _, t := range []*Table{r.Annual, r.Quarterly} {
		if v, _, ok := t.Find(f.Labels); ok {
			return Num(v)
		}
	}
	return f.summaryCell(r.Summary)
}

// Average resolves a field to the mean of its two most recent periods. When
// only one period exists that value is used; when no statement carries the
// row the latest-value chain (including summary fallback) applies.
func (r *Resolver) Average(f Field) Cell {
	for _, t := range []*Table{r.Annual, r.Quarterly} {
		series := t.Series(f.Labels)
		switch {
		case len(series) >= 2:
			return Num((series[0] + series[1]) / 2)
		case len(series) == 1:
			return Num(series[0])
		}
	}
	return r.Value(f)
}

// Series resolves a field to its full newest-first time series, preferring
// the annual statement over the quarterly one.
func (r *Resolver) Series(f Field) []float64 {
	if s := r.Annual.Series(f.Labels); len(s) > 0 {
		return s
	}
	return r.Quarterly.Series(f.Labels)
}
