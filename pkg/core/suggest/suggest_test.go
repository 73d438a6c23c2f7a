package suggest

import (
	"context"
	"errors"
	"testing"
)

type fakeProposer struct {
	tickers []string
	err     error
}

func (f *fakeProposer) ProposeTickers(ctx context.Context, prompt string) ([]string, error) {
	return f.tickers, f.err
}

type fakeProvider struct {
	response string
	err      error
	called   bool
}

func (f *fakeProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	f.called = true
	return f.response, f.err
}

func acceptAll(string) bool { return true }

func TestSuggestPeersNormalizesAndDedupes(t *testing.T) {
	p := &fakeProposer{tickers: []string{" msft ", "GOOG", "msft", "", "AMZN", "META", "ORCL", "CRM"}}
	s := NewSuggester(p, nil, acceptAll, 8)

	got := s.SuggestPeers(context.Background(), "MSFT")
	want := []string{"MSFT", "GOOG", "AMZN", "META", "ORCL", "CRM"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("peer %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSuggestPeersCapsAtRequestedCount(t *testing.T) {
	p := &fakeProposer{tickers: []string{"A", "B", "C", "D", "E", "F", "G", "H"}}
	s := NewSuggester(p, nil, acceptAll, 6)

	if got := s.SuggestPeers(context.Background(), "X"); len(got) != 6 {
		t.Errorf("got %d peers, want 6", len(got))
	}
}

func TestSuggestPeersMinimumUsable(t *testing.T) {
	// Validation rejects most of the list; below max(5, n/2) the result
	// must collapse to empty rather than feed thin statistics downstream.
	onlyTwo := func(tk string) bool { return tk == "A" || tk == "B" }
	p := &fakeProposer{tickers: []string{"A", "B", "C", "D", "E", "F", "G", "H"}}
	s := NewSuggester(p, nil, onlyTwo, 8)

	if got := s.SuggestPeers(context.Background(), "X"); got != nil {
		t.Errorf("expected nil below the usability minimum, got %v", got)
	}
}

func TestMinimumUsableScalesWithRequest(t *testing.T) {
	cases := []struct{ n, want int }{
		{4, 5},
		{8, 5},
		{10, 5},
		{12, 6},
		{20, 10},
	}
	for _, c := range cases {
		s := NewSuggester(nil, nil, acceptAll, c.n)
		if got := s.minimumUsable(); got != c.want {
			t.Errorf("minimumUsable(n=%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestFallbackProviderParsesSloppyJSON(t *testing.T) {
	// Primary fails; generic provider answers with fenced, trailing-comma
	// JSON that the repair layer must still parse.
	primary := &fakeProposer{err: errors.New("schema endpoint down")}
	fallback := &fakeProvider{response: "```json\n[\"AAPL\", \"MSFT\", \"GOOG\", \"AMZN\", \"META\",]\n```"}
	s := NewSuggester(primary, fallback, acceptAll, 8)

	got := s.SuggestPeers(context.Background(), "NVDA")
	if !fallback.called {
		t.Fatal("fallback provider was never consulted")
	}
	if len(got) != 5 {
		t.Fatalf("got %v, want 5 repaired tickers", got)
	}
	if got[0] != "AAPL" || got[4] != "META" {
		t.Errorf("unexpected parse result: %v", got)
	}
}

func TestNoProposerAvailable(t *testing.T) {
	s := NewSuggester(nil, nil, acceptAll, 8)
	if got := s.SuggestPeers(context.Background(), "X"); got != nil {
		t.Errorf("expected nil with no collaborators, got %v", got)
	}
}
