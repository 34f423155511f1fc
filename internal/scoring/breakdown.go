package scoring

// Breakdown is the static descriptive table of model term contributions and
// blend weights used by dashboards. Presentation metadata only; it is not
// computed from live data.
type Breakdown struct {
	Altman  map[string]float64 `json:"altman"`
	Ohlson  map[string]float64 `json:"ohlson"`
	Weights map[string]float64 `json:"weights"`
}

// ScoreBreakdown returns the contribution breakdown for chart rendering.
func ScoreBreakdown() Breakdown {
	return Breakdown{
		Altman: map[string]float64{
			"Working Capital Efficiency": 11.78,
			"Retained Earnings":          13.91,
			"Operating Performance":      51.03,
			"Market Valuation":           6.90,
			"Asset Turnover":             16.39,
		},
		Ohlson: map[string]float64{
			"Company Size":       25.89,
			"Debt Structure":     8.17,
			"Working Capital":    28.70,
			"Liquidity Position": 1.52,
			"Profitability":      7.43,
			"Income Stability":   24.89,
			"Sales Efficiency":   3.41,
		},
		Weights: map[string]float64{
			"altman_weight":    50,
			"ohlson_weight":    40,
			"sentiment_weight": 10,
		},
	}
}
