package sentiment

import (
	"strings"
	"unicode"
)

// Analyzer scores headlines by keyword matching. It is the fallback when no
// classification model is configured or the model call fails.
type Analyzer struct {
	positiveWords map[string]bool
	negativeWords map[string]bool
}

// NewAnalyzer creates a keyword analyzer with the financial dictionaries.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positiveWords: toSet([]string{
			"up", "rise", "rises", "gain", "gains", "growth", "profit",
			"profits", "beat", "beats", "strong", "increase", "bull",
			"surge", "surges", "rally", "record", "upgrade", "upgraded",
		}),
		negativeWords: toSet([]string{
			"down", "fall", "falls", "loss", "losses", "decline",
			"declines", "drop", "drops", "weak", "decrease", "bear",
			"crash", "miss", "misses", "plunge", "downgrade", "downgraded",
			"default", "bankruptcy",
		}),
	}
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// AnalyzeHeadline scores a single headline: 0.7 when positive words
// dominate, 0.3 when negative words dominate, 0.5 otherwise.
func (a *Analyzer) AnalyzeHeadline(headline string) float64 {
	var positive, negative int
	for _, word := range tokenize(headline) {
		if a.positiveWords[word] {
			positive++
		}
		if a.negativeWords[word] {
			negative++
		}
	}
	switch {
	case positive > negative:
		return 0.7
	case negative > positive:
		return 0.3
	default:
		return Neutral
	}
}

// Score averages per-headline scores; an empty list is neutral.
func (a *Analyzer) Score(headlines []string) float64 {
	if len(headlines) == 0 {
		return Neutral
	}
	var total float64
	for _, h := range headlines {
		total += a.AnalyzeHeadline(h)
	}
	return total / float64(len(headlines))
}

// tokenize splits text into lowercased words.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
