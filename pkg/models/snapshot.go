// Package models defines the shared value records of the valuation pipeline.
package models

import "compval/pkg/core/num"

// FinancialSnapshot is the canonical per-company financial record produced by
// the snapshot normalizer. All monetary fields are in the reporting currency
// of the source data; any field may be missing.
type FinancialSnapshot struct {
	Ticker string `json:"ticker"`

	// Market data
	Price           num.Value `json:"price"`
	SharesOut       num.Value `json:"shares_out"`
	MarketCap       num.Value `json:"market_cap"`
	Cash            num.Value `json:"cash"`
	Debt            num.Value `json:"debt"`
	EnterpriseValue num.Value `json:"enterprise_value"` // market_cap + debt - cash

	// Trailing-twelve-month fundamentals
	RevenueTTM         num.Value `json:"revenue_ttm"`
	EBITDATTM          num.Value `json:"ebitda_ttm"`
	DandATTM           num.Value `json:"danda_ttm"`
	CapexTTM           num.Value `json:"capex_ttm"`
	OperatingNWC       num.Value `json:"op_nwc"` // most recent quarter, point-in-time
	OperatingIncomeTTM num.Value `json:"op_income_ttm"`

	// Derived multiples
	EVToRevenue num.Value `json:"ev_rev"`
	EVToEBITDA  num.Value `json:"ev_ebitda"`
}

// PeerSet is an ordered collection of peer snapshots, excluding the target.
// Cleaning produces a new, smaller PeerSet; the input is never mutated.
type PeerSet []FinancialSnapshot

// Tickers returns the tickers of the set in order.
func (ps PeerSet) Tickers() []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Ticker)
	}
	return out
}

// Scenario labels used across multiples and DCF ranges.
const (
	ScenarioLow  = "low"
	ScenarioBase = "base"
	ScenarioHigh = "high"
)

// ValuationRange maps the three scenario labels to enterprise values.
// Any slot may be missing (invalid scenario, insufficient peers).
type ValuationRange struct {
	Low  num.Value `json:"low"`
	Base num.Value `json:"base"`
	High num.Value `json:"high"`
}

// AllMissing reports whether no scenario produced a value.
func (r ValuationRange) AllMissing() bool {
	return !r.Low.Valid() && !r.Base.Valid() && !r.High.Valid()
}

// MethodRange pairs a valuation method name with its computed range.
type MethodRange struct {
	Method string         `json:"method"`
	Range  ValuationRange `json:"range"`
}

// ValuationReport is the aggregate handed to the presentation adapter:
// one range per method plus the target's spot enterprise value for the
// reference line.
type ValuationReport struct {
	RunID    string        `json:"run_id"`
	Target   string        `json:"target"`
	SpotEV   num.Value     `json:"spot_ev"`
	Methods  []MethodRange `json:"methods"`
	PeersIn  []string      `json:"peers_in"`  // proposed peers
	PeersOut []string      `json:"peers_out"` // peers surviving hygiene
}

// Method names reported to the presentation adapter.
const (
	MethodEVRevenue = "EV/Revenue"
	MethodEVEBITDA  = "EV/EBITDA"
	MethodDCF       = "DCF (FCFF)"
)
