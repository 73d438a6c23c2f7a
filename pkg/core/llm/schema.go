package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// TickerSchemaClient asks Gemini for a list of stock tickers with a strict
// response schema (JSON array of strings), so the model cannot wrap the list
// in prose. This is the preferred path for peer suggestion; the generic
// Provider plus JSON repair is the fallback.
type TickerSchemaClient struct {
	APIKey string
	Model  string
}

// NewTickerSchemaClientFromEnv builds a schema client from GEMINI_API_KEY
// and GEMINI_MODEL.
func NewTickerSchemaClientFromEnv() (*TickerSchemaClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	return &TickerSchemaClient{
		APIKey: apiKey,
		Model:  os.Getenv("GEMINI_MODEL"),
	}, nil
}

// ProposeTickers generates a ticker list for the prompt under the array-of-
// strings schema. The caller still validates the symbols.
func (c *TickerSchemaClient) ProposeTickers(ctx context.Context, prompt string) ([]string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	defer client.Close()

	modelName := c.Model
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: "List of stock tickers (e.g., AAPL, MSFT). No explanations.",
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("ticker generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty ticker response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	var tickers []string
	if err := json.Unmarshal([]byte(sb.String()), &tickers); err != nil {
		return nil, fmt.Errorf("decode ticker list: %w", err)
	}
	return tickers, nil
}
