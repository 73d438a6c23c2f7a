// Package llm wraps the language-model collaborators behind small
// interfaces so the core pipeline never depends on a concrete SDK.
package llm

import "context"

// Provider is the generic text-generation interface. Options carry
// provider-specific switches (model override, JSON mode).
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// DefaultModel is used when neither the provider nor the options name one.
const DefaultModel = "gemini-2.0-flash"
