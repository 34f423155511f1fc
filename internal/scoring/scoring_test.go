package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/credit-scorer/internal/financials"
)

func sampleFinancials() *financials.CompanyFinancials {
	return &financials.CompanyFinancials{
		TotalAssets:        1000,
		TotalLiabilities:   400,
		WorkingCapital:     200,
		RetainedEarnings:   150,
		EBIT:               120,
		MarketValueEquity:  800,
		Sales:              900,
		NetIncome:          50,
		CurrentAssets:      400,
		CurrentLiabilities: 240,
		SentimentScore:     0.8,
	}
}

func TestAltmanZWorkedExample(t *testing.T) {
	// 1.2*0.2 + 1.4*0.15 + 3.3*0.12 + 0.6*2.0 + 1.0*0.9
	assert.InDelta(t, 2.946, AltmanZ(sampleFinancials()), 1e-9)
}

func TestAltmanZZeroDenominator(t *testing.T) {
	fin := sampleFinancials()
	fin.TotalAssets = 0
	assert.Equal(t, 0.0, AltmanZ(fin))

	fin = sampleFinancials()
	fin.TotalLiabilities = 0
	assert.Equal(t, 0.0, AltmanZ(fin))
}

func TestOhlsonOWorkedExample(t *testing.T) {
	// size=0.4, leverage=0.6, wc/ta=0.2, NI >= 0
	// -1.32 - 0.407*0.4 + 6.03*0.6 - 1.43*0.2 + 0.0757*0.6
	assert.InDelta(t, 1.89462, OhlsonO(sampleFinancials()), 1e-9)
}

func TestOhlsonONegativeIncomeTerm(t *testing.T) {
	fin := sampleFinancials()
	base := OhlsonO(fin)
	fin.NetIncome = -50
	assert.InDelta(t, base-2.37, OhlsonO(fin), 1e-9)
}

func TestOhlsonOZeroDenominatorsDropTerms(t *testing.T) {
	fin := &financials.CompanyFinancials{NetIncome: -1}
	// All ratio terms drop to zero; only the intercept and the negative
	// income indicator remain.
	assert.InDelta(t, -1.32-2.37, OhlsonO(fin), 1e-9)
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 38.461538461538, Normalize(0, -5, 8), 1e-9)
	assert.Equal(t, 0.0, Normalize(-10, -5, 8))
	assert.Equal(t, 100.0, Normalize(20, -5, 8))
	assert.Equal(t, 0.0, Normalize(-5, -5, 8))
	assert.Equal(t, 100.0, Normalize(8, -5, 8))

	// Degenerate range is defined as the midpoint.
	assert.Equal(t, 50.0, Normalize(3, 7, 7))
}

func TestGradeCutoffs(t *testing.T) {
	cases := []struct {
		score float64
		grade string
	}{
		{100, "AAA"}, {90, "AAA"}, {89.999, "AA"}, {80, "AA"},
		{79.999, "A"}, {70, "A"}, {60, "BBB"}, {50, "BB"},
		{40, "B"}, {39.999, "CCC"}, {0, "CCC"}, {-5, "CCC"},
	}
	for _, c := range cases {
		assert.Equal(t, c.grade, Grade(c.score), "score %v", c.score)
	}
}

func TestEngineScoreStandalone(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	r := engine.Score(sampleFinancials(), CalibrationStandalone)

	// altman 2.946 -> 61.123; ohlson 1.89462 -> inverted 18.423;
	// sentiment 0.8 -> 80. Blend 0.5/0.4/0.1 = 45.93.
	assert.InDelta(t, 45.93, r.BaseScore, 0.005)
	assert.InDelta(t, 43.63, r.ScoreMin, 0.005)
	assert.InDelta(t, 48.23, r.ScoreMax, 0.005)
	assert.InDelta(t, 2.95, r.AltmanZ, 0.005)
	assert.InDelta(t, 1.89, r.OhlsonO, 0.005)
	assert.Equal(t, 0.8, r.Sentiment)
	assert.Equal(t, "B", r.Grade)
}

func TestEngineScoreBatchClampsBand(t *testing.T) {
	fin := &financials.CompanyFinancials{
		TotalAssets:        1000,
		TotalLiabilities:   100,
		WorkingCapital:     500,
		RetainedEarnings:   500,
		EBIT:               500,
		MarketValueEquity:  5000,
		Sales:              2000,
		NetIncome:          -100,
		CurrentAssets:      500,
		CurrentLiabilities: 0,
		SentimentScore:     1.0,
	}

	engine := NewEngine(DefaultWeights())
	r := engine.Score(fin, CalibrationBatch)

	assert.InDelta(t, 97.54, r.BaseScore, 0.005)
	assert.Equal(t, 100.0, r.ScoreMax) // +5% would exceed 100
	assert.InDelta(t, 92.66, r.ScoreMin, 0.005)
	assert.Equal(t, "AAA", r.Grade)
}

func TestEngineScoreCalibrationsDiverge(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	fin := sampleFinancials()

	standalone := engine.Score(fin, CalibrationStandalone)
	batch := engine.Score(fin, CalibrationBatch)
	assert.NotEqual(t, standalone.BaseScore, batch.BaseScore)
}

func TestScoreBreakdownWeights(t *testing.T) {
	b := ScoreBreakdown()
	assert.Equal(t, 50.0, b.Weights["altman_weight"])
	assert.Equal(t, 40.0, b.Weights["ohlson_weight"])
	assert.Equal(t, 10.0, b.Weights["sentiment_weight"])
	assert.Len(t, b.Altman, 5)
	assert.Len(t, b.Ohlson, 7)
}
