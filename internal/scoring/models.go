// Package scoring computes bankruptcy-risk model scores and blends them
// with news sentiment into a 0-100 credit score with a letter grade.
package scoring

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/user/credit-scorer/internal/financials"
)

// AltmanZ computes the Altman Z-score, a weighted linear combination of
// financial ratios designed to predict bankruptcy risk. A zero denominator
// anywhere yields a raw score of 0.0 for the whole formula (fail-soft).
func AltmanZ(fin *financials.CompanyFinancials) float64 {
	if fin.TotalAssets == 0 || fin.TotalLiabilities == 0 {
		log.Warn().Msg("zero denominator computing Altman Z-score")
		return 0.0
	}

	x1 := fin.WorkingCapital / fin.TotalAssets
	x2 := fin.RetainedEarnings / fin.TotalAssets
	x3 := fin.EBIT / fin.TotalAssets
	x4 := fin.MarketValueEquity / fin.TotalLiabilities
	x5 := fin.Sales / fin.TotalAssets

	return 1.2*x1 + 1.4*x2 + 3.3*x3 + 0.6*x4 + 1.0*x5
}

// OhlsonO computes the simplified 5-term Ohlson O-score, a logit-style
// bankruptcy probability model. Zero denominators substitute 0 for the
// affected term rather than failing.
func OhlsonO(fin *financials.CompanyFinancials) float64 {
	var size, leverage, wcOverAssets float64
	if fin.TotalAssets != 0 {
		size = fin.TotalLiabilities / fin.TotalAssets
		wcOverAssets = fin.WorkingCapital / fin.TotalAssets
	}
	if fin.CurrentAssets != 0 {
		leverage = fin.CurrentLiabilities / fin.CurrentAssets
	}
	var negativeIncome float64
	if fin.NetIncome < 0 {
		negativeIncome = 1
	}

	score := -1.32 -
		0.407*size +
		6.03*leverage -
		1.43*wcOverAssets +
		0.0757*leverage -
		2.37*negativeIncome

	if math.IsNaN(score) || math.IsInf(score, 0) {
		log.Warn().Msg("Ohlson O-score did not evaluate to a finite number")
		return 0.0
	}
	return score
}

// Normalize maps a raw score into the 0-100 range over [min, max], clamping
// at the edges. Returns 50.0 when the range is degenerate.
func Normalize(score, min, max float64) float64 {
	if max == min {
		return 50.0
	}
	n := 100 * (score - min) / (max - min)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Grade converts a numeric score to a letter grade. Cutoffs are inclusive
// lower bounds.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "AAA"
	case score >= 80:
		return "AA"
	case score >= 70:
		return "A"
	case score >= 60:
		return "BBB"
	case score >= 50:
		return "BB"
	case score >= 40:
		return "B"
	default:
		return "CCC"
	}
}

// Calibration is a normalization-domain profile for the raw model scores.
//
// Two divergent profiles exist in this system and both are preserved on
// purpose: the standalone and batch paths normalized over different domains
// historically, and which one is "correct" is an open product question.
// Callers select a profile explicitly; do not merge them.
type Calibration struct {
	AltmanMin, AltmanMax float64
	OhlsonMin, OhlsonMax float64

	// ClampBand bounds the confidence band to [0,100].
	ClampBand bool
}

var (
	// CalibrationStandalone matches the historical single-company path.
	CalibrationStandalone = Calibration{
		AltmanMin: -5, AltmanMax: 8,
		OhlsonMin: -3, OhlsonMax: 3,
	}

	// CalibrationBatch matches the historical batch path, which also
	// clamps the confidence band.
	CalibrationBatch = Calibration{
		AltmanMin: -3, AltmanMax: 10,
		OhlsonMin: -5, OhlsonMax: 4,
		ClampBand: true,
	}
)

// Weights blends the normalized model scores with sentiment. The weights
// should sum close to 1.0; this is checked with a warning, not enforced.
type Weights struct {
	Altman    float64
	Ohlson    float64
	Sentiment float64
}

// DefaultWeights returns the standard 0.5/0.4/0.1 blend.
func DefaultWeights() Weights {
	return Weights{Altman: 0.5, Ohlson: 0.4, Sentiment: 0.1}
}

// Result is the credit score for one company. Computed once per request,
// never persisted or mutated.
type Result struct {
	BaseScore float64 `json:"base_score"`
	ScoreMin  float64 `json:"score_min"`
	ScoreMax  float64 `json:"score_max"`
	AltmanZ   float64 `json:"altman_z"`
	OhlsonO   float64 `json:"ohlson_o"`
	Sentiment float64 `json:"sentiment"`
	Grade     string  `json:"grade"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
