// Package classifier provides sentiment classification of news headlines
// behind a provider interface, so the scoring core has zero dependency on
// any specific model runtime.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/credit-scorer/pkg/config"
)

// Label is a headline sentiment class.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Classification is the model's verdict on a single headline.
type Classification struct {
	Headline   string  `json:"headline"`
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"` // 0 to 1
}

// Provider defines the interface for sentiment classification backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// ClassifyHeadlines classifies a batch of headlines.
	ClassifyHeadlines(ctx context.Context, headlines []string) ([]Classification, error)

	// IsAvailable checks if the provider is available.
	IsAvailable(ctx context.Context) bool
}

// NewProvider creates a classification provider based on configuration.
func NewProvider(cfg *config.ClassifierConfig) (Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaProvider(cfg.Ollama.URL, cfg.Ollama.Model), nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(cfg.Gemini.APIKey, cfg.Gemini.Model), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider: %s", cfg.Provider)
	}
}

// buildClassifyPrompt creates the headline classification prompt.
func buildClassifyPrompt(headlines []string) string {
	var b strings.Builder
	b.WriteString("You are a financial news sentiment classifier. Classify each of the following headlines about a company's financial outlook.\n\nHeadlines:\n")
	for i, h := range headlines {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, h))
	}
	b.WriteString(`
Classify every headline. Respond with a JSON object in the following format:
{
  "results": [
    {"headline": "<the headline text>", "label": "positive" or "neutral" or "negative", "confidence": <0 to 1>}
  ]
}

Respond ONLY with the JSON, no additional text.`)
	return b.String()
}

// classifyResponse is the expected JSON shape of provider responses.
type classifyResponse struct {
	Results []Classification `json:"results"`
}

// parseJSONResponse extracts and parses JSON from the model response.
func parseJSONResponse(response string, v interface{}) error {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")

	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON found in response: %s", response)
	}

	jsonStr := response[start : end+1]

	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w (json: %s)", err, jsonStr)
	}

	return nil
}
