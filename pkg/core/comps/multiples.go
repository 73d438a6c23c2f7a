// Package comps implements the peer-comparables side of the valuation:
// peer hygiene (filtering and winsorization) and percentile-based implied
// enterprise values.
package comps

import (
	"sort"

	"compval/pkg/core/num"
	"compval/pkg/models"
)

// Percentiles returns the 25th/50th/75th percentiles of the collection under
// linear interpolation, ignoring missing entries. All three are missing when
// nothing usable remains.
func Percentiles(values []num.Value) (p25, p50, p75 num.Value) {
	xs := compact(values)
	if len(xs) == 0 {
		return num.Missing(), num.Missing(), num.Missing()
	}
	sort.Float64s(xs)
	return num.Of(quantile(xs, 25)), num.Of(quantile(xs, 50)), num.Of(quantile(xs, 75))
}

// quantile computes the p-th percentile of sorted values by linear
// interpolation between closest ranks: index (n-1)*p/100.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := float64(n-1) * p / 100.0
	lo := int(pos)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// ImpliedEV backs out the target's enterprise-value range from percentile
// multiples and the target's own driver value. Each scenario is multiple *
// driver; a missing multiple or a missing/zero driver yields a missing slot.
// The output unit is enterprise value; equity or per-share conversion is an
// external concern.
func ImpliedEV(driver, p25, p50, p75 num.Value) models.ValuationRange {
	if !driver.Valid() || driver.OrZero() == 0 {
		return models.ValuationRange{}
	}
	return models.ValuationRange{
		Low:  p25.Mul(driver),
		Base: p50.Mul(driver),
		High: p75.Mul(driver),
	}
}

// compact drops missing entries. Value construction already rejects
// non-finite floats, so survivors are finite.
func compact(values []num.Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}
