package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeHeadline(t *testing.T) {
	a := NewAnalyzer()

	assert.Equal(t, 0.7, a.AnalyzeHeadline("Shares surge after record profits"))
	assert.Equal(t, 0.3, a.AnalyzeHeadline("Stock plunges on bankruptcy fears"))
	assert.Equal(t, 0.5, a.AnalyzeHeadline("Company announces quarterly results"))

	// Ties between positive and negative words stay neutral.
	assert.Equal(t, 0.5, a.AnalyzeHeadline("Shares rise then fall in volatile session"))
}

func TestAnalyzeHeadlineCaseInsensitive(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, 0.7, a.AnalyzeHeadline("UPGRADE: Analysts Bullish On Growth"))
}

func TestScoreAverages(t *testing.T) {
	a := NewAnalyzer()

	score := a.Score([]string{
		"Record profits beat expectations", // 0.7
		"Shares drop on weak guidance",     // 0.3
		"Board meeting scheduled",          // 0.5
	})
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestScoreEmptyIsNeutral(t *testing.T) {
	assert.Equal(t, Neutral, NewAnalyzer().Score(nil))
	assert.Equal(t, Neutral, NewAnalyzer().Score([]string{}))
}
