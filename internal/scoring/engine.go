package scoring

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/user/credit-scorer/internal/financials"
)

// Engine blends the raw model scores and sentiment into the final credit
// score using configured weights.
type Engine struct {
	weights Weights
}

// NewEngine creates a scoring engine. Weights that do not sum close to 1.0
// are accepted with a warning.
func NewEngine(w Weights) *Engine {
	if sum := w.Altman + w.Ohlson + w.Sentiment; math.Abs(sum-1.0) > 0.01 {
		log.Warn().Float64("sum", sum).Msg("scoring weights do not sum to 1.0")
	}
	return &Engine{weights: w}
}

// Score computes the credit score for one company under the given
// calibration profile.
func (e *Engine) Score(fin *financials.CompanyFinancials, cal Calibration) Result {
	altmanRaw := AltmanZ(fin)
	ohlsonRaw := OhlsonO(fin)

	altmanNorm := Normalize(altmanRaw, cal.AltmanMin, cal.AltmanMax)
	// Inverted: a lower Ohlson score means lower bankruptcy risk.
	ohlsonNorm := 100 - Normalize(ohlsonRaw, cal.OhlsonMin, cal.OhlsonMax)
	sentimentNorm := fin.SentimentScore * 100

	final := e.weights.Altman*altmanNorm +
		e.weights.Ohlson*ohlsonNorm +
		e.weights.Sentiment*sentimentNorm

	// The band reflects estimation uncertainty, ±5% of the score.
	margin := final * 0.05
	scoreMin := final - margin
	scoreMax := final + margin
	if cal.ClampBand {
		scoreMin = math.Max(0, scoreMin)
		scoreMax = math.Min(100, scoreMax)
	}

	return Result{
		BaseScore: round2(final),
		ScoreMin:  round2(scoreMin),
		ScoreMax:  round2(scoreMax),
		AltmanZ:   round2(altmanRaw),
		OhlsonO:   round2(ohlsonRaw),
		Sentiment: round3(fin.SentimentScore),
		Grade:     Grade(final),
	}
}
