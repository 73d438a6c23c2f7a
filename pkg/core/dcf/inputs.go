// Package dcf implements the multi-scenario FCFF discounted-cash-flow model:
// operating-model inference from a single snapshot and a deterministic
// projection with a Gordon-growth terminal value.
package dcf

import (
	"compval/pkg/models"
)

// Assumptions are the fixed model parameters and inference defaults. The
// zero-configuration values come from Default(); a run config may override
// them via the assumptions file.
type Assumptions struct {
	TaxRate float64 `json:"tax_rate"`
	WACC    float64 `json:"wacc"`
	Years   int     `json:"years"`

	// Scenario pairing is positional: low growth pairs with low terminal
	// growth, and so on.
	GrowthLow  float64 `json:"growth_low"`
	GrowthBase float64 `json:"growth_base"`
	GrowthHigh float64 `json:"growth_high"`

	TerminalLow  float64 `json:"terminal_low"`
	TerminalBase float64 `json:"terminal_base"`
	TerminalHigh float64 `json:"terminal_high"`

	// Inference fallbacks when the snapshot cannot support a ratio.
	DefaultDandAPct   float64 `json:"default_danda_pct"`
	DefaultCapexPct   float64 `json:"default_capex_pct"`
	DefaultEBITMargin float64 `json:"default_ebit_margin"`
	DefaultNWCPct     float64 `json:"default_nwc_pct"`
}

// Default returns the standard assumption set.
func Default() Assumptions {
	return Assumptions{
		TaxRate: 0.22,
		WACC:    0.09,
		Years:   5,

		GrowthLow:  0.03,
		GrowthBase: 0.06,
		GrowthHigh: 0.09,

		TerminalLow:  0.01,
		TerminalBase: 0.02,
		TerminalHigh: 0.03,

		DefaultDandAPct:   0.05,
		DefaultCapexPct:   0.06,
		DefaultEBITMargin: 0.15,
		DefaultNWCPct:     0.10,
	}
}

// Inputs is the five-input operating model inferred from one snapshot,
// plus discounting parameters and scenario triples. Computed once per run
// and never mutated afterwards.
type Inputs struct {
	RevenueTTM float64
	EBITMargin float64
	TaxRate    float64
	CapexPct   float64
	DandAPct   float64
	NWCPct     float64
	WACC       float64
	Years      int

	GrowthLow  float64
	GrowthBase float64
	GrowthHigh float64

	TerminalLow  float64
	TerminalBase float64
	TerminalHigh float64
}

// Bounds applied during inference.
const (
	ebitMarginFloor = 0.0
	ebitMarginCap   = 0.50
	nwcPctFloor     = -0.30
	nwcPctCap       = 0.50
)

// Infer derives the operating model from a target snapshot. The second
// return is false when the snapshot carries no revenue figure at all, in
// which case no projection is possible.
func Infer(snap models.FinancialSnapshot, a Assumptions) (Inputs, bool) {
	rev, revOK := snap.RevenueTTM.Float()
	if !revOK {
		return Inputs{}, false
	}

	in := Inputs{
		RevenueTTM: rev,
		TaxRate:    a.TaxRate,
		WACC:       a.WACC,
		Years:      a.Years,

		GrowthLow:  a.GrowthLow,
		GrowthBase: a.GrowthBase,
		GrowthHigh: a.GrowthHigh,

		TerminalLow:  a.TerminalLow,
		TerminalBase: a.TerminalBase,
		TerminalHigh: a.TerminalHigh,
	}

	// D&A% and CAPEX% from the quarterly TTM figures, floored at zero.
	in.DandAPct = a.DefaultDandAPct
	if da, ok := snap.DandATTM.Float(); ok && rev > 0 {
		in.DandAPct = max(0, da/rev)
	}
	in.CapexPct = a.DefaultCapexPct
	if capex, ok := snap.CapexTTM.Float(); ok && rev > 0 {
		in.CapexPct = max(0, capex/rev)
	}

	// EBIT margin: prefer TTM operating income; else back out from the
	// EBITDA proxy; else default. Bounded to a sane operating range.
	switch {
	case snap.OperatingIncomeTTM.Valid() && rev > 0:
		opInc, _ := snap.OperatingIncomeTTM.Float()
		in.EBITMargin = clamp(opInc/rev, ebitMarginFloor, ebitMarginCap)
	case snap.EBITDATTM.Valid() && rev > 0:
		ebitda, _ := snap.EBITDATTM.Float()
		in.EBITMargin = clamp(ebitda/rev-in.DandAPct, ebitMarginFloor, ebitMarginCap)
	default:
		in.EBITMargin = a.DefaultEBITMargin
	}

	// NWC% from the operating NWC level. Negative values are legal
	// (retailers commonly run negative working capital); only an unusable
	// ratio falls back to the default.
	in.NWCPct = a.DefaultNWCPct
	if nwc, ok := snap.OperatingNWC.Float(); ok && rev > 0 {
		in.NWCPct = clamp(nwc/rev, nwcPctFloor, nwcPctCap)
	}

	return in, true
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
