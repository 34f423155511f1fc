package financials

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/user/credit-scorer/internal/sentiment"
	"github.com/user/credit-scorer/internal/statements"
)

// Floors and default factors applied when statement fields are missing.
// Defaults are substituted first, then floors.
const (
	minTotalAssets       = 1_000_000
	minTotalLiabilities  = 100_000
	minMarketValueEquity = 1_000_000

	defaultCurrentAssetsFactor      = 0.4 // of total assets
	defaultCurrentLiabilitiesFactor = 0.6 // of total liabilities
)

// Builder-side candidate labels. Extraction here is exact-match only against
// the latest quarter; fuzzy substring matching is reserved for the ratio
// engine where a loose hit is acceptable.
var (
	assetLabels     = []string{"Total Assets", "TotalAssets", "Assets"}
	liabilityLabels = []string{"Total Liab", "Total Liabilities", "TotalLiabilities"}
	equityLabels    = []string{"Total Stockholder Equity", "Stockholders Equity", "Total Equity", "Shareholders Equity"}
	currAssetLabels = []string{"Total Current Assets", "TotalCurrentAssets", "Current Assets"}
	currLiabLabels  = []string{"Total Current Liabilities", "TotalCurrentLiabilities", "Current Liabilities"}
	retainedLabels  = []string{"Retained Earnings", "RetainedEarnings"}
	revenueLabels   = []string{"Total Revenue", "TotalRevenue", "Revenue", "Net Sales"}
	netIncomeLabels = []string{"Net Income", "NetIncome"}
	ebitLabels      = []string{"EBIT", "Ebit", "Operating Income", "OperatingIncome"}
)

// Builder constructs CompanyFinancials from raw statement data. Missing
// fields are filled with documented defaults so a snapshot is always
// constructible whenever the statements exist at all.
type Builder struct {
	statements statements.Source
	sentiment  sentiment.Source
}

// NewBuilder creates a financials builder.
func NewBuilder(stmts statements.Source, sent sentiment.Source) *Builder {
	return &Builder{statements: stmts, sentiment: sent}
}

// Build fetches the latest quarterly statements for a ticker and assembles
// a complete snapshot. Returns ErrNoData when the statement tables are
// entirely absent; any other gap is repaired by a default and logged.
func (b *Builder) Build(ctx context.Context, ticker string) (*CompanyFinancials, error) {
	balance, err := b.statements.BalanceSheet(ctx, ticker, statements.PeriodQuarterly)
	if err != nil {
		return nil, fmt.Errorf("fetching balance sheet for %s: %w", ticker, err)
	}
	income, err := b.statements.IncomeStatement(ctx, ticker, statements.PeriodQuarterly)
	if err != nil {
		return nil, fmt.Errorf("fetching income statement for %s: %w", ticker, err)
	}

	if balance.Empty() || income.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	summary, err := b.statements.Summary(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("summary info unavailable")
		summary = &statements.SummaryInfo{}
	}

	totalAssets := extract(balance, assetLabels)
	totalLiabilities := extract(balance, liabilityLabels)

	// Estimate liabilities from the accounting identity when the line item
	// is missing but assets and equity are present.
	if !totalLiabilities.Valid {
		equity := extract(balance, equityLabels)
		if equity.Valid && totalAssets.Valid {
			totalLiabilities = statements.Num(totalAssets.Value - equity.Value)
			log.Info().Str("ticker", ticker).Msg("estimated total_liabilities as total_assets - total_equity")
		}
	}

	currentAssets := extract(balance, currAssetLabels)
	currentLiabilities := extract(balance, currLiabLabels)
	retainedEarnings := extract(balance, retainedLabels)
	revenue := extract(income, revenueLabels)
	netIncome := extract(income, netIncomeLabels)
	ebit := extract(income, ebitLabels)
	marketCap := summary.MarketCap

	assets := floor(applyDefault(ticker, "total_assets", totalAssets, minTotalAssets), minTotalAssets)
	liabilities := floor(applyDefault(ticker, "total_liabilities", totalLiabilities, minTotalLiabilities), minTotalLiabilities)
	curAssets := floor(applyDefault(ticker, "current_assets", currentAssets, assets*defaultCurrentAssetsFactor), 0)
	curLiabilities := floor(applyDefault(ticker, "current_liabilities", currentLiabilities, liabilities*defaultCurrentLiabilitiesFactor), 0)
	retained := applyDefault(ticker, "retained_earnings", retainedEarnings, assets-liabilities)
	earnings := applyDefault(ticker, "ebit", ebit, 0)
	mve := floor(applyDefault(ticker, "market_value_equity", marketCap, minMarketValueEquity), minMarketValueEquity)
	sales := floor(applyDefault(ticker, "revenue", revenue, 0), 0)
	income0 := applyDefault(ticker, "net_income", netIncome, 0)

	fin := &CompanyFinancials{
		TotalAssets:        assets,
		TotalLiabilities:   liabilities,
		WorkingCapital:     curAssets - curLiabilities,
		RetainedEarnings:   retained,
		EBIT:               earnings,
		MarketValueEquity:  mve,
		Sales:              sales,
		NetIncome:          income0,
		CurrentAssets:      curAssets,
		CurrentLiabilities: curLiabilities,
		SentimentScore:     b.sentimentScore(ctx, ticker),
	}

	if err := fin.Validate(); err != nil {
		return nil, fmt.Errorf("building financials for %s: %w", ticker, err)
	}
	return fin, nil
}

func (b *Builder) sentimentScore(ctx context.Context, ticker string) float64 {
	score, err := b.sentiment.Score(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("could not get sentiment, using neutral")
		return sentiment.Neutral
	}
	return score
}

func extract(t *statements.Table, labels []string) statements.Cell {
	if v, _, ok := t.FindExact(labels); ok {
		return statements.Num(v)
	}
	return statements.Cell{}
}

// applyDefault substitutes the default for missing values, logging the
// degradation. Processing always continues.
func applyDefault(ticker, field string, c statements.Cell, def float64) float64 {
	if c.Valid {
		return c.Value
	}
	log.Warn().Str("ticker", ticker).Str("field", field).Float64("default", def).
		Msg("using default for missing field")
	return def
}

func floor(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
