// Package snapshot normalizes a raw provider bundle into the canonical
// FinancialSnapshot consumed by the multiples and DCF engines.
package snapshot

import (
	"strings"

	"compval/pkg/core/fetch"
	"compval/pkg/core/num"
	"compval/pkg/models"
)

// Candidate row labels per canonical accounting line, tried in order.
// Provider tables mix human labels with camelCase API labels depending on
// the endpoint that produced them.
var (
	revenueLabels = []string{"totalRevenue", "Total Revenue", "TotalRevenue", "Revenue"}
	opIncomeLabels = []string{"operatingIncome", "Operating Income", "OperatingIncome", "EBIT"}
	dandALabels = []string{"depreciation", "Depreciation", "Depreciation And Amortization", "Depreciation & amortization"}
	capexLabels = []string{"capitalExpenditures", "Capital Expenditures", "CapitalExpenditures", "Capex"}

	currentAssetsLabels = []string{"totalCurrentAssets", "Total Current Assets", "Current Assets", "TotalCurrentAssets"}
	currentLiabLabels   = []string{"totalCurrentLiabilities", "Total Current Liabilities", "Current Liabilities", "TotalCurrentLiabilities"}
	cashLabels          = []string{"cash", "Cash And Cash Equivalents", "CashAndCashEquivalents", "Cash"}
	shortTermInvLabels  = []string{"shortTermInvestments", "Short Term Investments", "ShortTermInvestments"}
	shortTermDebtLabels = []string{"shortLongTermDebt", "Short Long Term Debt", "Short/Current Long Term Debt", "Current Debt", "ShortTermDebt"}
)

// Build produces one FinancialSnapshot from a raw bundle. Each statement
// extraction is independent: a field the provider cannot supply is simply
// missing, it never blocks the rest of the snapshot.
func Build(b *fetch.RawFinancialBundle) models.FinancialSnapshot {
	snap := models.FinancialSnapshot{
		Ticker: strings.ToUpper(strings.TrimSpace(b.Ticker)),
	}

	snap.Price = b.InfoValue("currentPrice")
	snap.SharesOut = b.InfoValue("sharesOutstanding")
	snap.MarketCap = b.InfoValue("marketCap")
	snap.Cash = b.InfoValue("totalCash")
	snap.Debt = b.InfoValue("totalDebt")
	// EBITDA is an info-level TTM proxy; no quarterly reconstruction.
	snap.EBITDATTM = b.InfoValue("ebitda")

	// Revenue TTM: quarterly four-sum preferred, single latest annual figure
	// as fallback (never summed across years).
	snap.RevenueTTM = fetch.RowSumTTM(b.QuarterlyIncome, revenueLabels)
	if !snap.RevenueTTM.Valid() {
		snap.RevenueTTM = fetch.LookupRow(b.AnnualIncome, revenueLabels)
	}

	// Cash-flow items are reported with provider-dependent sign conventions;
	// keep them as non-negative magnitudes.
	snap.DandATTM = fetch.RowSumTTM(b.QuarterlyCashFlow, dandALabels).Abs()
	snap.CapexTTM = fetch.RowSumTTM(b.QuarterlyCashFlow, capexLabels).Abs()

	snap.OperatingIncomeTTM = fetch.RowSumTTM(b.QuarterlyIncome, opIncomeLabels)

	snap.OperatingNWC = operatingNWC(b.QuarterlyBalance)

	snap.EnterpriseValue = enterpriseValue(snap.MarketCap, snap.Debt, snap.Cash)

	snap.EVToRevenue = snap.EnterpriseValue.Div(snap.RevenueTTM)
	snap.EVToEBITDA = snap.EnterpriseValue.Div(snap.EBITDATTM)

	return snap
}

// operatingNWC computes the point-in-time operating net working capital from
// the most recent quarterly balance sheet:
//
//	(current assets - cash - short-term investments) - (current liabilities - short-term debt)
//
// Cash, short-term investments and short-term debt default to zero when
// absent; both totals must be present or the result is missing.
func operatingNWC(bs fetch.StatementTable) num.Value {
	ca := fetch.LookupRow(bs, currentAssetsLabels)
	cl := fetch.LookupRow(bs, currentLiabLabels)
	if !ca.Valid() || !cl.Valid() {
		return num.Missing()
	}

	cash := fetch.LookupRow(bs, cashLabels).OrZero()
	sti := fetch.LookupRow(bs, shortTermInvLabels).OrZero()
	std := fetch.LookupRow(bs, shortTermDebtLabels).OrZero()

	opCA, _ := ca.Float()
	opCL, _ := cl.Float()
	return num.Of((opCA - cash - sti) - (opCL - std))
}

// enterpriseValue is market cap + debt - cash with zero substitution for
// absent components; missing only when all three are simultaneously missing.
func enterpriseValue(mcap, debt, cash num.Value) num.Value {
	if !mcap.Valid() && !debt.Valid() && !cash.Valid() {
		return num.Missing()
	}
	return num.Of(mcap.OrZero() + debt.OrZero() - cash.OrZero())
}
