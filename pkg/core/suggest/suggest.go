// Package suggest proposes comparable-company tickers for a target via an
// LLM collaborator, then filters the proposal down to real, tradeable
// symbols. The pipeline treats the result as an opaque, pre-validated list.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"compval/pkg/core/fetch"
	"compval/pkg/core/llm"
	"compval/pkg/core/utils"
)

// Proposer produces raw ticker candidates for a prompt. The schema-enforced
// Gemini client is the production implementation.
type Proposer interface {
	ProposeTickers(ctx context.Context, prompt string) ([]string, error)
}

// Suggester runs the propose-validate loop. A nil primary falls straight
// through to the generic provider path; a nil validator accepts everything
// (useful in tests).
type Suggester struct {
	primary  Proposer
	fallback llm.Provider
	validate func(ticker string) bool
	n        int
}

// NewSuggester wires a suggester. n is the requested peer count.
func NewSuggester(primary Proposer, fallback llm.Provider, validate func(string) bool, n int) *Suggester {
	if validate == nil {
		validate = fetch.QuoteExists
	}
	return &Suggester{primary: primary, fallback: fallback, validate: validate, n: n}
}

// peerPrompt mirrors the analyst framing: same sub-industry, similar scale,
// no ETFs or non-listed symbols.
func peerPrompt(companyOrTicker string, n int) string {
	return fmt.Sprintf(
		`You are an equity analyst. Return ONLY a JSON array of %d liquid, listed
peer tickers that are the closest business comparables for: %q.
Prefer same sub-industry, similar business model and revenue scale. Avoid ETFs,
indices, preferreds, warrants, duplicates, or non-listed symbols. Output ONLY JSON.`,
		n, companyOrTicker,
	)
}

// SuggestPeers returns up to n validated peer tickers for the target.
// A usable result needs at least max(5, n/2) validated symbols so the
// percentile statistics downstream have some meaning; anything less returns
// an empty list. Collaborator failures are logged and degrade to an empty
// list, never an aborted run.
func (s *Suggester) SuggestPeers(ctx context.Context, companyOrTicker string) []string {
	prompt := peerPrompt(companyOrTicker, s.n)

	candidates, err := s.propose(ctx, prompt)
	if err != nil {
		fmt.Printf("[warn] AI comps selection failed: %v\n", err)
		return nil
	}

	validated := s.validateCandidates(candidates)
	if len(validated) < s.minimumUsable() {
		fmt.Printf("[warn] only %d of %d proposed comps validated; skipping multiples peers\n",
			len(validated), len(candidates))
		return nil
	}
	return validated
}

func (s *Suggester) propose(ctx context.Context, prompt string) ([]string, error) {
	if s.primary != nil {
		tickers, err := s.primary.ProposeTickers(ctx, prompt)
		if err == nil && len(tickers) > 0 {
			return tickers, nil
		}
		if err != nil {
			fmt.Printf("[warn] schema proposer failed, falling back: %v\n", err)
		}
	}
	if s.fallback == nil {
		return nil, fmt.Errorf("no proposer available")
	}
	raw, err := s.fallback.GenerateResponse(ctx, prompt, "", map[string]interface{}{
		"response_format": "json",
	})
	if err != nil {
		return nil, err
	}
	return utils.ParseStringList(raw)
}

// validateCandidates uppercases, dedupes and quote-checks the proposals,
// keeping at most n.
func (s *Suggester) validateCandidates(candidates []string) []string {
	seen := map[string]bool{}
	valid := make([]string, 0, s.n)
	for _, t := range candidates {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		if !s.validate(t) {
			continue
		}
		valid = append(valid, t)
		if len(valid) >= s.n {
			break
		}
	}
	return valid
}

func (s *Suggester) minimumUsable() int {
	if half := s.n / 2; half > 5 {
		return half
	}
	return 5
}
