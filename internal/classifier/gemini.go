package classifier

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		model:  model,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if Gemini is available.
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return false
	}
	defer client.Close()
	return true
}

// ClassifyHeadlines classifies headlines using Gemini.
func (p *GeminiProvider) ClassifyHeadlines(ctx context.Context, headlines []string) ([]Classification, error) {
	response, err := p.generate(ctx, buildClassifyPrompt(headlines))
	if err != nil {
		return nil, fmt.Errorf("failed to generate classification: %w", err)
	}

	var parsed classifyResponse
	if err := parseJSONResponse(response, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	return parsed.Results, nil
}

// generate sends a prompt to Gemini and returns the response text.
func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}
