// Package pipeline wires the valuation run end to end: peer suggestion,
// snapshot retrieval, peer hygiene, multiples analysis and the DCF model,
// merged into one report for the presentation adapter.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"compval/pkg/core/comps"
	"compval/pkg/core/dcf"
	"compval/pkg/core/fetch"
	"compval/pkg/core/num"
	"compval/pkg/core/snapshot"
	"compval/pkg/models"
)

// ErrTargetUnavailable marks the one fatal condition: the target's own
// snapshot could not be obtained, so no valuation is possible.
var ErrTargetUnavailable = errors.New("target snapshot unavailable")

// PeerSuggester proposes validated peer tickers for a target. Failures
// degrade to an empty list inside the implementation.
type PeerSuggester interface {
	SuggestPeers(ctx context.Context, companyOrTicker string) []string
}

// Orchestrator runs the single-shot batch valuation.
type Orchestrator struct {
	provider    fetch.FundamentalsProvider
	suggester   PeerSuggester
	assumptions dcf.Assumptions
}

// NewOrchestrator creates an orchestrator with the given collaborators and
// DCF assumptions.
func NewOrchestrator(provider fetch.FundamentalsProvider, suggester PeerSuggester, a dcf.Assumptions) *Orchestrator {
	return &Orchestrator{provider: provider, suggester: suggester, assumptions: a}
}

// Run executes the full valuation for one target ticker.
func (o *Orchestrator) Run(ctx context.Context, target string) (*models.ValuationReport, error) {
	runID := uuid.New().String()
	target = strings.ToUpper(strings.TrimSpace(target))
	start := time.Now()
	fmt.Printf("[pipeline] run %s: valuing %s\n", runID, target)

	peersProposed := o.suggester.SuggestPeers(ctx, target)
	fmt.Printf("[pipeline] proposed comps: %v\n", peersProposed)

	// Fetch target + peers; per-company failures are logged and skipped
	// inside FetchBatch.
	tickers := append([]string{target}, peersProposed...)
	bundles := fetch.FetchBatch(ctx, o.provider, tickers)

	var targetSnap *models.FinancialSnapshot
	peers := make(models.PeerSet, 0, len(bundles))
	for _, b := range bundles {
		snap := snapshot.Build(b)
		if snap.Ticker == target {
			s := snap
			targetSnap = &s
			continue
		}
		peers = append(peers, snap)
	}
	if targetSnap == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetUnavailable, target)
	}

	report := &models.ValuationReport{
		RunID:   runID,
		Target:  target,
		SpotEV:  targetSnap.EnterpriseValue,
		PeersIn: peersProposed,
	}

	// Multiples analysis over the cleaned peer set.
	cleaned := comps.Clean(peers)
	report.PeersOut = cleaned.Tickers()
	if len(cleaned) < 2 {
		fmt.Printf("[warn] only %d usable peers after hygiene; multiples ranges may be degenerate\n", len(cleaned))
	}

	report.Methods = append(report.Methods,
		impliedRange(models.MethodEVRevenue, cleaned, targetSnap.RevenueTTM,
			func(p models.FinancialSnapshot) num.Value { return p.EVToRevenue }),
		impliedRange(models.MethodEVEBITDA, cleaned, targetSnap.EBITDATTM,
			func(p models.FinancialSnapshot) num.Value { return p.EVToEBITDA }),
	)

	// DCF runs off the raw target snapshot, independent of peer hygiene.
	dcfRange := models.ValuationRange{}
	if inputs, ok := dcf.Infer(*targetSnap, o.assumptions); ok {
		dcfRange = dcf.Run(inputs)
	} else {
		fmt.Printf("[warn] %s has no revenue figure; DCF skipped\n", target)
	}
	report.Methods = append(report.Methods, models.MethodRange{
		Method: models.MethodDCF,
		Range:  dcfRange,
	})

	fmt.Printf("[pipeline] run %s finished in %s\n", runID, time.Since(start).Round(time.Millisecond))
	return report, nil
}

// impliedRange computes one multiple's percentile statistics over the peer
// set and backs out the target's implied EV range.
func impliedRange(method string, peers models.PeerSet, driver num.Value, multiple func(models.FinancialSnapshot) num.Value) models.MethodRange {
	p25, p50, p75 := comps.Percentiles(comps.MultipleValues(peers, multiple))
	return models.MethodRange{
		Method: method,
		Range:  comps.ImpliedEV(driver, p25, p50, p75),
	}
}
