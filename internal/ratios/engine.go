// Package ratios derives the financial ratio table for a company from
// resolved statement fields. The output contract is strict: every value is
// either a float formatted to six decimals or the literal "N/A" — no NaN,
// no infinity, no panic ever reaches the caller.
package ratios

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/user/credit-scorer/internal/statements"
)

// NotAvailable is the marker for ratios that could not be computed.
const NotAvailable = "N/A"

// divEpsilon: divisors numerically indistinguishable from zero are treated
// as zero.
const divEpsilon = 1e-12

// Ratio names, in presentation order.
var Names = []string{
	"Debt to Equity",
	"Price to Earnings",
	"Current Ratio",
	"Quick Ratio",
	"ROCE",
	"ROE",
	"ROA",
}

// TickerData bundles the raw statement tables and summary info for one
// company, as fetched from the statement source.
type TickerData struct {
	AnnualBalance    *statements.Table
	QuarterlyBalance *statements.Table
	AnnualIncome     *statements.Table
	QuarterlyIncome  *statements.Table
	Summary          *statements.SummaryInfo
}

// Engine computes financial ratios.
type Engine struct{}

// NewEngine creates a ratio engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute derives the full ratio set for a company. Unresolvable ratios
// come back as "N/A"; the call itself cannot fail.
func (e *Engine) Compute(ticker string, data *TickerData) map[string]string {
	if data == nil {
		data = &TickerData{}
	}
	if data.Summary == nil {
		data.Summary = &statements.SummaryInfo{}
	}

	balance := &statements.Resolver{
		Annual:    data.AnnualBalance,
		Quarterly: data.QuarterlyBalance,
		Summary:   data.Summary,
	}
	income := &statements.Resolver{
		Annual:    data.AnnualIncome,
		Quarterly: data.QuarterlyIncome,
		Summary:   data.Summary,
	}

	equity := balance.Value(statements.FieldEquity)
	assets := balance.Value(statements.FieldTotalAssets)
	curAssets := balance.Value(statements.FieldCurrentAssets)
	curLiabilities := balance.Value(statements.FieldCurrentLiabilities)

	totalDebt := e.totalDebt(balance, data.Summary)
	netIncome := e.netIncome(income, data.Summary)
	ebit := income.Value(statements.FieldEBIT)

	result := map[string]string{
		"Debt to Equity":    pretty(safeDivide(totalDebt, equity)),
		"Price to Earnings": pretty(e.priceToEarnings(data.Summary)),
		"Current Ratio":     pretty(safeDivide(curAssets, curLiabilities)),
		"Quick Ratio":       pretty(e.quickRatio(balance, curAssets, curLiabilities)),
		"ROCE":              pretty(e.roce(balance, ebit, assets, curLiabilities)),
		"ROE":               pretty(e.returnRatio(netIncome, balance.Average(statements.FieldEquity), data.Summary.ReturnOnEquity)),
		"ROA":               pretty(e.returnRatio(netIncome, balance.Average(statements.FieldTotalAssets), data.Summary.ReturnOnAssets)),
	}

	log.Info().Str("ticker", ticker).Interface("ratios", result).Msg("computed ratios")
	return result
}

// totalDebt sums short- and long-term debt, treating a missing part as 0.
// When neither part resolves, the aggregate summary figure is used.
func (e *Engine) totalDebt(balance *statements.Resolver, summary *statements.SummaryInfo) statements.Cell {
	short := balance.Value(statements.FieldShortTermDebt)
	long := balance.Value(statements.FieldLongTermDebt)
	if short.Valid || long.Valid {
		return statements.Num(orZero(short) + orZero(long))
	}
	return summary.TotalDebt
}

// netIncome prefers the latest annual figure, then a sum of up to four
// recent quarters, then the precomputed summary value.
func (e *Engine) netIncome(income *statements.Resolver, summary *statements.SummaryInfo) statements.Cell {
	if v, _, ok := income.Annual.Find(statements.FieldNetIncome.Labels); ok {
		return statements.Num(v)
	}
	if series := income.Quarterly.Series(statements.FieldNetIncome.Labels); len(series) > 0 {
		var sum float64
		for i, v := range series {
			if i >= 4 {
				break
			}
			sum += v
		}
		return statements.Num(sum)
	}
	return summary.NetIncome
}

// quickRatio uses (cash + short-term investments + receivables) / current
// liabilities when at least one numerator part resolves; otherwise falls
// back to (current assets - inventory) / current liabilities.
func (e *Engine) quickRatio(balance *statements.Resolver, curAssets, curLiabilities statements.Cell) statements.Cell {
	cash := balance.Value(statements.FieldCash)
	sti := balance.Value(statements.FieldShortTermInvestments)
	recv := balance.Value(statements.FieldReceivables)

	if (cash.Valid || sti.Valid || recv.Valid) && curLiabilities.Valid && curLiabilities.Value != 0 {
		quickAssets := statements.Num(orZero(cash) + orZero(sti) + orZero(recv))
		return safeDivide(quickAssets, curLiabilities)
	}
	if curAssets.Valid {
		inventory := balance.Value(statements.FieldInventory)
		return safeDivide(statements.Num(curAssets.Value-orZero(inventory)), curLiabilities)
	}
	return statements.Cell{}
}

// returnRatio computes net income over an averaged denominator, falling
// back to the provider's precomputed ratio when unresolvable.
func (e *Engine) returnRatio(netIncome, avgDenominator, precomputed statements.Cell) statements.Cell {
	if r := safeDivide(netIncome, avgDenominator); r.Valid {
		return r
	}
	return precomputed
}

// roce divides EBIT by capital employed (total assets - current
// liabilities), averaged across periods when both series align; otherwise
// the latest-period value is used.
func (e *Engine) roce(balance *statements.Resolver, ebit, assets, curLiabilities statements.Cell) statements.Cell {
	capEmployed := orZero(assets) - orZero(curLiabilities)

	assetSeries := balance.Series(statements.FieldTotalAssets)
	liabSeries := balance.Series(statements.FieldCurrentLiabilities)
	if len(assetSeries) > 0 && len(assetSeries) == len(liabSeries) {
		var sum float64
		for i := range assetSeries {
			sum += assetSeries[i] - liabSeries[i]
		}
		capEmployed = sum / float64(len(assetSeries))
	}

	return safeDivide(ebit, statements.Num(capEmployed))
}

// priceToEarnings prefers the provider's trailing P/E and otherwise derives
// it from price over trailing EPS.
func (e *Engine) priceToEarnings(summary *statements.SummaryInfo) statements.Cell {
	if summary.TrailingPE.Valid {
		return summary.TrailingPE
	}
	return safeDivide(summary.Price, summary.TrailingEPS)
}

// safeDivide returns an absent cell when the numerator is absent or the
// divisor is absent, zero, or numerically indistinguishable from zero.
func safeDivide(n, d statements.Cell) statements.Cell {
	if !n.Valid || !d.Valid {
		return statements.Cell{}
	}
	if math.Abs(d.Value) < divEpsilon {
		return statements.Cell{}
	}
	q := n.Value / d.Value
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return statements.Cell{}
	}
	return statements.Num(q)
}

func orZero(c statements.Cell) float64 {
	if !c.Valid {
		return 0
	}
	return c.Value
}

// pretty formats a cell to six decimals, or the "N/A" marker when absent.
func pretty(c statements.Cell) string {
	if !c.Valid || math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%.6f", c.Value)
}
