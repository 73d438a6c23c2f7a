// Package fetch retrieves raw per-company financial data and exposes it to
// the normalizer as a RawFinancialBundle. Statement tables arrive with
// unpredictable row labeling, so every canonical accounting line is resolved
// through an ordered list of candidate labels.
package fetch

import (
	"compval/pkg/core/num"
)

// StatementTable is a financial statement keyed by row label. Column values
// are ordered most-recent-first, matching the provider's convention.
type StatementTable map[string][]num.Value

// RawFinancialBundle is the opaque per-company record the core consumes.
// Info carries the provider's summary fields (sharesOutstanding,
// currentPrice, marketCap, totalCash, totalDebt, ebitda); the tables carry
// statement rows.
type RawFinancialBundle struct {
	Ticker            string
	Info              map[string]interface{}
	AnnualIncome      StatementTable
	QuarterlyIncome   StatementTable
	QuarterlyCashFlow StatementTable
	QuarterlyBalance  StatementTable
}

// InfoValue looks up a summary field and normalizes it, treating nil, empty
// and "None" as missing.
func (b *RawFinancialBundle) InfoValue(key string) num.Value {
	if b == nil || b.Info == nil {
		return num.Missing()
	}
	return num.FromAny(b.Info[key])
}

// LookupRow returns the most recent value of the first row whose label
// matches one of the candidates, in candidate order.
func LookupRow(t StatementTable, labels []string) num.Value {
	if len(t) == 0 {
		return num.Missing()
	}
	for _, name := range labels {
		row, ok := t[name]
		if !ok || len(row) == 0 {
			continue
		}
		return row[0]
	}
	return num.Missing()
}

// RowSumTTM sums the four most-recent values of the first matching row.
// Missing cells are skipped; the result is missing when no matching row has
// any usable cell, never zero-by-default.
func RowSumTTM(t StatementTable, labels []string) num.Value {
	if len(t) == 0 {
		return num.Missing()
	}
	for _, name := range labels {
		row, ok := t[name]
		if !ok {
			continue
		}
		sum := 0.0
		found := false
		for i, cell := range row {
			if i >= 4 {
				break
			}
			if f, valid := cell.Float(); valid {
				sum += f
				found = true
			}
		}
		if !found {
			return num.Missing()
		}
		return num.Of(sum)
	}
	return num.Missing()
}
