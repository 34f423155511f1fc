package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/credit-scorer/internal/financials"
	"github.com/user/credit-scorer/internal/ratios"
	"github.com/user/credit-scorer/internal/statements"
)

// tickerSource serves canned statement tables per ticker. Tickers not in the
// map come back with empty tables, which the builder reports as no data.
type tickerSource struct {
	balances  map[string]*statements.Table
	incomes   map[string]*statements.Table
	summaries map[string]*statements.SummaryInfo
}

func (s *tickerSource) BalanceSheet(ctx context.Context, ticker string, period statements.Period) (*statements.Table, error) {
	if t, ok := s.balances[ticker]; ok {
		return t, nil
	}
	return statements.NewTable(nil), nil
}

func (s *tickerSource) IncomeStatement(ctx context.Context, ticker string, period statements.Period) (*statements.Table, error) {
	if t, ok := s.incomes[ticker]; ok {
		return t, nil
	}
	return statements.NewTable(nil), nil
}

func (s *tickerSource) Summary(ctx context.Context, ticker string) (*statements.SummaryInfo, error) {
	if info, ok := s.summaries[ticker]; ok {
		return info, nil
	}
	return &statements.SummaryInfo{}, nil
}

type fixedSentiment struct{ score float64 }

func (f *fixedSentiment) Score(ctx context.Context, ticker string) (float64, error) {
	return f.score, nil
}

func sampleBalance() *statements.Table {
	t := statements.NewTable([]string{"2025-03-31"})
	t.AddRow("Total Assets", []statements.Cell{statements.Num(5e9)})
	t.AddRow("Total Liab", []statements.Cell{statements.Num(2e9)})
	t.AddRow("Total Current Assets", []statements.Cell{statements.Num(1.5e9)})
	t.AddRow("Total Current Liabilities", []statements.Cell{statements.Num(9e8)})
	t.AddRow("Retained Earnings", []statements.Cell{statements.Num(1e9)})
	return t
}

func sampleIncome() *statements.Table {
	t := statements.NewTable([]string{"2025-03-31"})
	t.AddRow("Total Revenue", []statements.Cell{statements.Num(3e9)})
	t.AddRow("Net Income", []statements.Cell{statements.Num(2.5e8)})
	t.AddRow("EBIT", []statements.Cell{statements.Num(4e8)})
	return t
}

func newTestOrchestrator(src statements.Source) *Orchestrator {
	builder := financials.NewBuilder(src, &fixedSentiment{score: 0.6})
	return NewOrchestrator(builder, NewEngine(DefaultWeights()), ratios.NewEngine(), src, 2)
}

func TestScoreAllIsolatesFailures(t *testing.T) {
	src := &tickerSource{
		balances: map[string]*statements.Table{
			"GOOD1": sampleBalance(),
			"GOOD2": sampleBalance(),
		},
		incomes: map[string]*statements.Table{
			"GOOD1": sampleIncome(),
			"GOOD2": sampleIncome(),
		},
		summaries: map[string]*statements.SummaryInfo{
			"GOOD1": {MarketCap: statements.Num(1e10)},
			"GOOD2": {MarketCap: statements.Num(2e10)},
		},
	}

	o := newTestOrchestrator(src)
	result := o.ScoreAll(context.Background(), []string{"GOOD1", "EMPTY", "GOOD2"}, CalibrationBatch)

	assert.Equal(t, 3, result.RequestedCount)
	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, []string{"EMPTY"}, result.Failed)
	require.Len(t, result.Scores, 2)

	for ticker, score := range result.Scores {
		assert.NotEmpty(t, score.Grade, ticker)
		assert.GreaterOrEqual(t, score.ScoreMin, 0.0, ticker)
		assert.LessOrEqual(t, score.ScoreMax, 100.0, ticker)
	}
}

func TestScoreAllEmptyInput(t *testing.T) {
	o := newTestOrchestrator(&tickerSource{})
	result := o.ScoreAll(context.Background(), nil, CalibrationBatch)

	assert.Equal(t, 0, result.RequestedCount)
	assert.Equal(t, 0, result.ProcessedCount)
	assert.Empty(t, result.Scores)
	assert.Empty(t, result.Failed)
}

func TestRatiosUsesAllStatements(t *testing.T) {
	src := &tickerSource{
		balances:  map[string]*statements.Table{"TEST": sampleBalance()},
		incomes:   map[string]*statements.Table{"TEST": sampleIncome()},
		summaries: map[string]*statements.SummaryInfo{"TEST": {TrailingPE: statements.Num(20)}},
	}

	o := newTestOrchestrator(src)
	result, err := o.Ratios(context.Background(), "TEST")
	require.NoError(t, err)

	assert.Equal(t, "20.000000", result["Price to Earnings"])
	// 1.5e9 / 9e8
	assert.Equal(t, "1.666667", result["Current Ratio"])
}

func TestCompanyNameFallsBackToTicker(t *testing.T) {
	src := &tickerSource{
		summaries: map[string]*statements.SummaryInfo{
			"NAMED": {Name: "Named Corp."},
		},
	}

	o := newTestOrchestrator(src)

	name, err := o.CompanyName(context.Background(), "NAMED")
	require.NoError(t, err)
	assert.Equal(t, "Named Corp.", name)

	name, err = o.CompanyName(context.Background(), "ANON")
	require.NoError(t, err)
	assert.Equal(t, "ANON", name)
}
