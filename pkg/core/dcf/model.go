package dcf

import (
	"fmt"
	"math"

	"compval/pkg/core/num"
	"compval/pkg/models"
)

// YearFlow is one explicit-forecast year of the projection.
type YearFlow struct {
	Revenue  float64 `json:"revenue"`
	EBIT     float64 `json:"ebit"`
	NOPAT    float64 `json:"nopat"`
	DandA    float64 `json:"danda"`
	Capex    float64 `json:"capex"`
	DeltaNWC float64 `json:"delta_nwc"`
	FCFF     float64 `json:"fcff"`
}

// ScenarioResult holds the valuation output of one growth/terminal pair.
type ScenarioResult struct {
	EV           num.Value  `json:"ev"`
	PVExplicit   float64    `json:"pv_explicit"`
	PVTerminal   float64    `json:"pv_terminal"`
	TerminalFCFF float64    `json:"terminal_fcff"`
	Flows        []YearFlow `json:"flows"`
}

// ProjectScenario runs the FCFF projection for one growth/terminal-growth
// pair. CAPEX% tapers linearly from the input ratio down to D&A% by the
// forecast horizon; at terminal, CAPEX is held equal to D&A. A non-positive
// or non-finite terminal FCFF invalidates the whole scenario. When WACC does
// not exceed terminal growth the terminal value is omitted but the
// explicit-period sum is still returned.
func ProjectScenario(in Inputs, growth, terminalGrowth float64) ScenarioResult {
	res := ScenarioResult{Flows: make([]YearFlow, 0, in.Years)}

	rev := in.RevenueTTM
	nwcLevel := in.NWCPct * rev
	pv := 0.0

	for t := 1; t <= in.Years; t++ {
		revNext := rev * (1.0 + growth)
		ebit := revNext * in.EBITMargin
		nopat := ebit * (1.0 - in.TaxRate)
		dandA := in.DandAPct * revNext

		capexPct := in.CapexPct - (in.CapexPct-in.DandAPct)*(float64(t)/float64(in.Years))
		capex := capexPct * revNext

		nwcNext := in.NWCPct * revNext
		deltaNWC := nwcNext - nwcLevel

		fcff := nopat + dandA - capex - deltaNWC
		pv += fcff / math.Pow(1.0+in.WACC, float64(t))

		res.Flows = append(res.Flows, YearFlow{
			Revenue:  revNext,
			EBIT:     ebit,
			NOPAT:    nopat,
			DandA:    dandA,
			Capex:    capex,
			DeltaNWC: deltaNWC,
			FCFF:     fcff,
		})

		rev = revNext
		nwcLevel = nwcNext
	}
	res.PVExplicit = pv

	// Terminal year grows once more at the terminal rate, with CAPEX = D&A.
	revT1 := rev * (1.0 + terminalGrowth)
	nopatT1 := revT1 * in.EBITMargin * (1.0 - in.TaxRate)
	dandAT1 := in.DandAPct * revT1
	capexT1 := in.DandAPct * revT1
	deltaNWCT1 := in.NWCPct*revT1 - nwcLevel

	fcffT1 := nopatT1 + dandAT1 - capexT1 - deltaNWCT1
	res.TerminalFCFF = fcffT1

	if fcffT1 <= 0 || math.IsNaN(fcffT1) || math.IsInf(fcffT1, 0) {
		res.EV = num.Missing()
		return res
	}

	ev := pv
	if in.WACC > terminalGrowth {
		tv := fcffT1 / (in.WACC - terminalGrowth)
		res.PVTerminal = tv / math.Pow(1.0+in.WACC, float64(in.Years))
		ev += res.PVTerminal
	}
	res.EV = num.Of(ev)
	return res
}

// Run computes enterprise values for the three named scenarios. All-missing
// output is reported as a warning (model assumptions yield no viable
// valuation), never as an error.
func Run(in Inputs) models.ValuationRange {
	r := models.ValuationRange{
		Low:  ProjectScenario(in, in.GrowthLow, in.TerminalLow).EV,
		Base: ProjectScenario(in, in.GrowthBase, in.TerminalBase).EV,
		High: ProjectScenario(in, in.GrowthHigh, in.TerminalHigh).EV,
	}
	if r.AllMissing() {
		fmt.Println("[warn] all DCF scenarios invalid (non-positive terminal FCFFs)")
	}
	return r
}
