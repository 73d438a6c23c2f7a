package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider against the Gemini API. The handle is
// constructed explicitly with its API key; nothing is cached at package
// level.
type GeminiProvider struct {
	APIKey string
	Model  string // defaults to DefaultModel, overridable via GEMINI_MODEL
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProviderFromEnv builds a provider from GEMINI_API_KEY and
// GEMINI_MODEL.
func NewGeminiProviderFromEnv() (*GeminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set (put it in your .env)")
	}
	return &GeminiProvider{
		APIKey: apiKey,
		Model:  os.Getenv("GEMINI_MODEL"),
	}, nil
}

// GenerateResponse sends a generateContent request. Setting
// options["response_format"] = "json" requests a JSON-typed response; a
// prompt mentioning JSON enables it heuristically, matching how callers
// phrase structured requests.
func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	model := p.Model
	if model == "" {
		model = DefaultModel
	}
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	}
	if val, ok := options["response_format"].(string); ok && val == "json" {
		config.ResponseMIMEType = "application/json"
	} else if strings.Contains(strings.ToLower(prompt), "json") {
		config.ResponseMIMEType = "application/json"
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}
