// Package sentiment derives a news sentiment score in [0,1] for a ticker.
package sentiment

import "context"

// Neutral is the score used whenever sentiment cannot be determined.
const Neutral = 0.5

// Source returns a sentiment score for a ticker. Implementations must stay
// within [0,1] and degrade to Neutral on any internal failure: feed
// unavailable, classifier unavailable, zero headlines found.
type Source interface {
	Score(ctx context.Context, ticker string) (float64, error)
}
