package sentiment

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/user/credit-scorer/internal/classifier"
)

// labelScores maps classifier labels to base sentiment values.
var labelScores = map[classifier.Label]float64{
	classifier.LabelPositive: 1.0,
	classifier.LabelNeutral:  0.5,
	classifier.LabelNegative: 0.0,
}

// NewsScorer implements Source using recent headlines. Classification runs
// through the configured model provider when one is set; the keyword
// analyzer covers the no-model case and any model failure.
type NewsScorer struct {
	fetcher  *Fetcher
	provider classifier.Provider // nil means keyword-only
	analyzer *Analyzer
}

// NewNewsScorer creates a news-based sentiment scorer. provider may be nil.
func NewNewsScorer(fetcher *Fetcher, provider classifier.Provider) *NewsScorer {
	return &NewsScorer{
		fetcher:  fetcher,
		provider: provider,
		analyzer: NewAnalyzer(),
	}
}

// Score returns the sentiment for a ticker in [0,1]. Failures at any stage
// degrade to Neutral; the error return is always nil so callers never have
// to special-case a broken news feed.
func (s *NewsScorer) Score(ctx context.Context, ticker string) (float64, error) {
	headlines, err := s.fetcher.Headlines(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("news feed unavailable, using neutral sentiment")
		return Neutral, nil
	}
	if len(headlines) == 0 {
		log.Warn().Str("ticker", ticker).Msg("no news found, using neutral sentiment")
		return Neutral, nil
	}

	score := s.scoreHeadlines(ctx, ticker, headlines)

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	log.Info().
		Str("ticker", ticker).
		Float64("sentiment", score).
		Int("headlines", len(headlines)).
		Msg("sentiment computed")

	return score, nil
}

func (s *NewsScorer) scoreHeadlines(ctx context.Context, ticker string, headlines []string) float64 {
	if s.provider == nil {
		return s.analyzer.Score(headlines)
	}

	results, err := s.provider.ClassifyHeadlines(ctx, headlines)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Str("provider", s.provider.Name()).
			Msg("classifier failed, falling back to keyword sentiment")
		return s.analyzer.Score(headlines)
	}

	var total float64
	var count int
	for _, r := range results {
		base, known := labelScores[r.Label]
		if !known {
			continue
		}
		// Low-confidence verdicts are pulled toward neutral.
		total += base*r.Confidence + Neutral*(1-r.Confidence)
		count++
	}
	if count == 0 {
		return Neutral
	}
	return total / float64(count)
}
