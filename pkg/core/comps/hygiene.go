package comps

import (
	"sort"

	"compval/pkg/core/num"
	"compval/pkg/models"
)

// Winsorization bounds for peer multiples.
const (
	winsorLowPct  = 5.0
	winsorHighPct = 95.0
)

// Clean applies peer hygiene for the multiples analysis and returns a new
// PeerSet; the input is never mutated. Steps:
//
//  1. keep only peers with positive revenue, EBITDA and enterprise value;
//  2. recompute a missing multiple from EV and its driver;
//  3. drop peers still missing either multiple;
//  4. winsorize each multiple independently at p5/p95.
//
// The cleaned set is used only by the multiples engine, never by the DCF.
func Clean(peers models.PeerSet) models.PeerSet {
	cleaned := make(models.PeerSet, 0, len(peers))
	for _, p := range peers {
		if !p.RevenueTTM.Positive() || !p.EBITDATTM.Positive() || !p.EnterpriseValue.Positive() {
			continue
		}
		if !p.EVToRevenue.Valid() {
			p.EVToRevenue = p.EnterpriseValue.Div(p.RevenueTTM)
		}
		if !p.EVToEBITDA.Valid() {
			p.EVToEBITDA = p.EnterpriseValue.Div(p.EBITDATTM)
		}
		if !p.EVToRevenue.Valid() || !p.EVToEBITDA.Valid() {
			continue
		}
		cleaned = append(cleaned, p)
	}

	winsorize(cleaned,
		func(p *models.FinancialSnapshot) *num.Value { return &p.EVToRevenue })
	winsorize(cleaned,
		func(p *models.FinancialSnapshot) *num.Value { return &p.EVToEBITDA })

	return cleaned
}

// winsorize clips one multiple across the peer set into its [p5, p95] range.
// An empty set is a no-op; a single survivor clips against itself, which is
// the identity.
func winsorize(peers models.PeerSet, field func(*models.FinancialSnapshot) *num.Value) {
	xs := make([]float64, 0, len(peers))
	for i := range peers {
		if f, ok := field(&peers[i]).Float(); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		return
	}
	sort.Float64s(xs)
	lo := quantile(xs, winsorLowPct)
	hi := quantile(xs, winsorHighPct)

	for i := range peers {
		v := field(&peers[i])
		*v = v.Clip(lo, hi)
	}
}

// MultipleValues extracts one multiple column from a peer set.
func MultipleValues(peers models.PeerSet, field func(models.FinancialSnapshot) num.Value) []num.Value {
	out := make([]num.Value, 0, len(peers))
	for _, p := range peers {
		out = append(out, field(p))
	}
	return out
}
