// Package financials assembles the complete, default-filled financial
// snapshot a scoring run needs for one company.
package financials

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoData means the upstream statement tables were entirely absent; the
// ticker has no usable financial data and is reported to the batch layer.
var ErrNoData = errors.New("no financial data available")

// CompanyFinancials holds the input fields required to compute the Altman Z
// and Ohlson O scores. Built once per request and never mutated.
type CompanyFinancials struct {
	TotalAssets        float64 // total assets of the company
	TotalLiabilities   float64 // total liabilities of the company
	WorkingCapital     float64 // current assets - current liabilities
	RetainedEarnings   float64 // retained earnings from the balance sheet
	EBIT               float64 // earnings before interest and taxes
	MarketValueEquity  float64 // market capitalization
	Sales              float64 // total revenue
	NetIncome          float64 // net income from the income statement
	CurrentAssets      float64
	CurrentLiabilities float64
	SentimentScore     float64 // 0 = worst, 1 = best
}

// Validate checks that every field carries a usable number and the
// sentiment score is within [0,1].
func (f *CompanyFinancials) Validate() error {
	fields := map[string]float64{
		"total_assets":        f.TotalAssets,
		"total_liabilities":   f.TotalLiabilities,
		"working_capital":     f.WorkingCapital,
		"retained_earnings":   f.RetainedEarnings,
		"ebit":                f.EBIT,
		"market_value_equity": f.MarketValueEquity,
		"sales":               f.Sales,
		"net_income":          f.NetIncome,
		"current_assets":      f.CurrentAssets,
		"current_liabilities": f.CurrentLiabilities,
		"sentiment_score":     f.SentimentScore,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("field %s is not a finite number", name)
		}
	}
	if f.SentimentScore < 0 || f.SentimentScore > 1 {
		return fmt.Errorf("sentiment_score %v outside [0,1]", f.SentimentScore)
	}
	return nil
}
