package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"compval/pkg/core/dcf"
	"compval/pkg/core/fetch"
	"compval/pkg/core/num"
	"compval/pkg/models"
)

type fakeProvider struct {
	bundles map[string]*fetch.RawFinancialBundle
}

func (f *fakeProvider) FetchBundle(ctx context.Context, ticker string) (*fetch.RawFinancialBundle, error) {
	b, ok := f.bundles[ticker]
	if !ok {
		return nil, fmt.Errorf("no data for %s", ticker)
	}
	return b, nil
}

type fakeSuggester struct{ peers []string }

func (f *fakeSuggester) SuggestPeers(ctx context.Context, companyOrTicker string) []string {
	return f.peers
}

// makeBundle builds a minimal bundle: one quarterly revenue figure and
// info-level EBITDA and market cap. With no debt or cash, EV equals mcap.
func makeBundle(ticker string, revenue, ebitda, mcap float64) *fetch.RawFinancialBundle {
	return &fetch.RawFinancialBundle{
		Ticker: ticker,
		Info: map[string]interface{}{
			"ebitda":    ebitda,
			"marketCap": mcap,
		},
		QuarterlyIncome: fetch.StatementTable{
			"totalRevenue": []num.Value{num.Of(revenue)},
		},
	}
}

func testFixture() (*fakeProvider, *fakeSuggester) {
	provider := &fakeProvider{bundles: map[string]*fetch.RawFinancialBundle{
		"TGT": makeBundle("TGT", 100, 20, 530),
	}}
	// Five peers, revenue 100 and EBITDA 40 each, EV 400..800. EV/Revenue
	// runs 4..8 and EV/EBITDA 10..20, so the quartiles land on the interior
	// points untouched by winsorization.
	for i, ev := range []float64{400, 500, 600, 700, 800} {
		tk := fmt.Sprintf("P%d", i+1)
		provider.bundles[tk] = makeBundle(tk, 100, 40, ev)
	}
	return provider, &fakeSuggester{peers: []string{"P1", "P2", "P3", "P4", "P5"}}
}

func methodByName(t *testing.T, r *models.ValuationReport, name string) models.ValuationRange {
	t.Helper()
	for _, m := range r.Methods {
		if m.Method == name {
			return m.Range
		}
	}
	t.Fatalf("method %q missing from report", name)
	return models.ValuationRange{}
}

func checkRange(t *testing.T, got models.ValuationRange, low, base, high float64) {
	t.Helper()
	for _, c := range []struct {
		name string
		v    num.Value
		want float64
	}{{"low", got.Low, low}, {"base", got.Base, base}, {"high", got.High, high}} {
		f, ok := c.v.Float()
		if !ok {
			t.Errorf("%s missing, want %f", c.name, c.want)
			continue
		}
		if math.Abs(f-c.want) > 1e-9 {
			t.Errorf("%s = %f, want %f", c.name, f, c.want)
		}
	}
}

func TestRunEndToEnd(t *testing.T) {
	provider, suggester := testFixture()
	o := NewOrchestrator(provider, suggester, dcf.Default())

	report, err := o.Run(context.Background(), " tgt ")
	if err != nil {
		t.Fatal(err)
	}

	if report.Target != "TGT" {
		t.Errorf("target = %q, want TGT", report.Target)
	}
	if report.RunID == "" {
		t.Error("run ID not assigned")
	}
	if spot, _ := report.SpotEV.Float(); spot != 530 {
		t.Errorf("spot EV = %f, want 530", spot)
	}
	if len(report.PeersOut) != 5 {
		t.Errorf("peers after hygiene = %v, want all five", report.PeersOut)
	}

	// Target revenue 100 against peer EV/Revenue quartiles (5, 6, 7).
	checkRange(t, methodByName(t, report, models.MethodEVRevenue), 500, 600, 700)
	// Target EBITDA 20 against peer EV/EBITDA quartiles (12.5, 15, 17.5).
	checkRange(t, methodByName(t, report, models.MethodEVEBITDA), 250, 300, 350)

	dcfRange := methodByName(t, report, models.MethodDCF)
	if base, ok := dcfRange.Base.Float(); !ok || base <= 0 {
		t.Errorf("DCF base should be a positive EV, got %v", dcfRange.Base)
	}

	// Method ordering is part of the report contract.
	wantOrder := []string{models.MethodEVRevenue, models.MethodEVEBITDA, models.MethodDCF}
	for i, m := range report.Methods {
		if m.Method != wantOrder[i] {
			t.Errorf("method %d = %q, want %q", i, m.Method, wantOrder[i])
		}
	}
}

func TestRunTargetUnavailable(t *testing.T) {
	provider, suggester := testFixture()
	delete(provider.bundles, "TGT")
	o := NewOrchestrator(provider, suggester, dcf.Default())

	_, err := o.Run(context.Background(), "TGT")
	if !errors.Is(err, ErrTargetUnavailable) {
		t.Errorf("err = %v, want ErrTargetUnavailable", err)
	}
}

func TestRunSurvivesEmptyPeerSet(t *testing.T) {
	provider, _ := testFixture()
	o := NewOrchestrator(provider, &fakeSuggester{}, dcf.Default())

	report, err := o.Run(context.Background(), "TGT")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{models.MethodEVRevenue, models.MethodEVEBITDA} {
		if r := methodByName(t, report, name); !r.AllMissing() {
			t.Errorf("%s should be all-missing with no peers", name)
		}
	}
	if r := methodByName(t, report, models.MethodDCF); r.AllMissing() {
		t.Error("DCF must still run without peers")
	}
}
