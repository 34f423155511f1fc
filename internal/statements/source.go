package statements

import "context"

// Period selects the reporting cadence of a statement.
type Period string

const (
	PeriodAnnual    Period = "annual"
	PeriodQuarterly Period = "quarterly"
)

// Source supplies raw statement tables and summary info for a ticker. The
// scoring core depends only on this interface; the Yahoo implementation is
// one provider behind it.
type Source interface {
	// BalanceSheet returns the balance sheet table for the period.
	BalanceSheet(ctx context.Context, ticker string, period Period) (*Table, error)

	// IncomeStatement returns the income statement table for the period.
	IncomeStatement(ctx context.Context, ticker string, period Period) (*Table, error)

	// Summary returns the typed summary-info payload (price, market cap,
	// precomputed ratios).
	Summary(ctx context.Context, ticker string) (*SummaryInfo, error)
}
