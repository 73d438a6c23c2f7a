package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/piquette/finance-go/equity"

	"compval/pkg/core/num"
)

// FundamentalsProvider retrieves the raw financial bundle for one company.
// Implementations may hit a live provider or serve fixtures in tests.
type FundamentalsProvider interface {
	FetchBundle(ctx context.Context, ticker string) (*RawFinancialBundle, error)
}

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// YahooClient implements FundamentalsProvider against Yahoo Finance.
// Quote-level fields come from the finance-go client; statement tables and
// the financialData summary come from the quoteSummary endpoint, which
// requires the cookie+crumb handshake. An explicitly constructed client owns
// all session state; there are no package-level globals.
type YahooClient struct {
	httpClient *http.Client

	mu    sync.Mutex
	crumb string
}

// NewYahooClient creates a client with its own cookie jar and timeouts.
func NewYahooClient() *YahooClient {
	jar, _ := cookiejar.New(nil)
	return &YahooClient{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}
}

// QuoteExists reports whether a ticker resolves to a live, priced quote.
// Used by the peer suggester to filter LLM-proposed symbols.
func QuoteExists(ticker string) bool {
	q, err := equity.Get(ticker)
	return err == nil && q != nil && q.RegularMarketPrice > 0
}

// FetchBundle assembles the raw bundle for one ticker. Every sub-fetch is
// its own failure boundary: a missing statement or summary module leaves the
// corresponding table empty rather than failing the company. The call errors
// only when no data source yielded anything at all.
func (c *YahooClient) FetchBundle(ctx context.Context, ticker string) (*RawFinancialBundle, error) {
	b := &RawFinancialBundle{
		Ticker: strings.ToUpper(strings.TrimSpace(ticker)),
		Info:   map[string]interface{}{},
	}

	gotAny := false

	// Quote-level fields via finance-go.
	if q, err := equity.Get(b.Ticker); err == nil && q != nil {
		gotAny = true
		b.Info["currentPrice"] = q.RegularMarketPrice
		if q.MarketCap > 0 {
			b.Info["marketCap"] = float64(q.MarketCap)
		}
		if q.SharesOutstanding > 0 {
			b.Info["sharesOutstanding"] = float64(q.SharesOutstanding)
		}
	} else if err != nil {
		fmt.Printf("[warn] quote lookup failed for %s: %v\n", b.Ticker, err)
	}

	// quoteSummary: financialData + statement histories.
	modules, err := c.fetchQuoteSummary(ctx, b.Ticker,
		"financialData",
		"incomeStatementHistory",
		"incomeStatementHistoryQuarterly",
		"cashflowStatementHistoryQuarterly",
		"balanceSheetHistoryQuarterly",
	)
	if err != nil {
		fmt.Printf("[warn] quoteSummary failed for %s: %v\n", b.Ticker, err)
	} else {
		gotAny = true
		if fd := modules["financialData"]; fd != nil {
			c.mergeFinancialData(b, fd)
		}
		b.AnnualIncome = tableFromStatements(statementsFromModule(modules["incomeStatementHistory"]))
		b.QuarterlyIncome = tableFromStatements(statementsFromModule(modules["incomeStatementHistoryQuarterly"]))
		b.QuarterlyCashFlow = tableFromStatements(statementsFromModule(modules["cashflowStatementHistoryQuarterly"]))
		b.QuarterlyBalance = tableFromStatements(statementsFromModule(modules["balanceSheetHistoryQuarterly"]))
	}

	// EBITDA is often absent from financialData for non-US listings; scrape
	// the statistics page as a last resort.
	if _, ok := b.Info["ebitda"]; !ok {
		if ebitda, err := c.scrapeEBITDA(ctx, b.Ticker); err == nil {
			b.Info["ebitda"] = ebitda
		}
	}

	if !gotAny {
		return nil, fmt.Errorf("no data available for %s", b.Ticker)
	}
	return b, nil
}

// mergeFinancialData copies the summary fields the normalizer reads.
func (c *YahooClient) mergeFinancialData(b *RawFinancialBundle, raw json.RawMessage) {
	var fd map[string]interface{}
	if err := json.Unmarshal(raw, &fd); err != nil {
		return
	}
	for src, dst := range map[string]string{
		"totalCash": "totalCash",
		"totalDebt": "totalDebt",
		"ebitda":    "ebitda",
	} {
		if v, ok := cellValue(fd[src]).Float(); ok {
			b.Info[dst] = v
		}
	}
	if _, ok := b.Info["currentPrice"]; !ok {
		if v, valid := cellValue(fd["currentPrice"]).Float(); valid {
			b.Info["currentPrice"] = v
		}
	}
}

// fetchQuoteSummary calls the quoteSummary endpoint for the given modules.
func (c *YahooClient) fetchQuoteSummary(ctx context.Context, ticker string, modules ...string) (map[string]json.RawMessage, error) {
	crumb, err := c.ensureCrumb(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=%s&crumb=%s",
		ticker, strings.Join(modules, ","), crumb,
	)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		QuoteSummary struct {
			Result []map[string]json.RawMessage `json:"result"`
		} `json:"quoteSummary"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode quoteSummary: %w", err)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty quoteSummary result for %s", ticker)
	}
	return parsed.QuoteSummary.Result[0], nil
}

// ensureCrumb performs the cookie+crumb handshake once per client.
func (c *YahooClient) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb, nil
	}

	// Hitting the main page sets the session cookies the crumb endpoint needs.
	if _, err := c.get(ctx, "https://finance.yahoo.com"); err != nil {
		return "", fmt.Errorf("cookie bootstrap: %w", err)
	}
	body, err := c.get(ctx, "https://query1.finance.yahoo.com/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("crumb fetch: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.Contains(crumb, "<") {
		return "", fmt.Errorf("invalid crumb response")
	}
	c.crumb = crumb
	return crumb, nil
}

func (c *YahooClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// scrapeEBITDA pulls the TTM EBITDA figure from the stockanalysis.com
// statistics page.
func (c *YahooClient) scrapeEBITDA(ctx context.Context, ticker string) (float64, error) {
	url := fmt.Sprintf("https://stockanalysis.com/stocks/%s/statistics/", strings.ToLower(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse statistics page: %w", err)
	}

	var ebitda float64
	found := false
	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := strings.TrimSpace(row.Find("td").First().Text())
		if !strings.EqualFold(label, "EBITDA") {
			return true
		}
		value := strings.TrimSpace(row.Find("td").Last().Text())
		if v, err := parseAbbrevNumber(value); err == nil {
			ebitda = v
			found = true
		}
		return false
	})
	if !found {
		return 0, fmt.Errorf("EBITDA not found for %s", ticker)
	}
	return ebitda, nil
}

// parseAbbrevNumber parses figures like "12.4B", "950M" or "1,234".
func parseAbbrevNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" || strings.EqualFold(s, "n/a") {
		return 0, fmt.Errorf("empty value")
	}
	mult := 1.0
	switch suffix := s[len(s)-1]; suffix {
	case 'T':
		mult = 1e12
		s = s[:len(s)-1]
	case 'B':
		mult = 1e9
		s = s[:len(s)-1]
	case 'M':
		mult = 1e6
		s = s[:len(s)-1]
	case 'K':
		mult = 1e3
		s = s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return f * mult, nil
}

// statementsFromModule extracts the per-period statement list from a
// quoteSummary module payload. The inner key varies across modules
// (incomeStatementHistory, cashflowStatements, balanceSheetStatements), so
// the first array-of-objects value wins.
func statementsFromModule(raw json.RawMessage) []map[string]interface{} {
	if raw == nil {
		return nil
	}
	var module map[string]interface{}
	if err := json.Unmarshal(raw, &module); err != nil {
		return nil
	}
	for _, v := range module {
		list, ok := v.([]interface{})
		if !ok {
			continue
		}
		out := make([]map[string]interface{}, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// tableFromStatements converts per-period statement objects (most recent
// first) into an aligned StatementTable. Provider cells are either
// {raw, fmt} objects or bare numbers.
func tableFromStatements(stmts []map[string]interface{}) StatementTable {
	if len(stmts) == 0 {
		return nil
	}
	labels := map[string]struct{}{}
	for _, s := range stmts {
		for k := range s {
			labels[k] = struct{}{}
		}
	}
	t := make(StatementTable, len(labels))
	for label := range labels {
		row := make([]num.Value, 0, len(stmts))
		for _, s := range stmts {
			row = append(row, cellValue(s[label]))
		}
		t[label] = row
	}
	return t
}

// cellValue normalizes a provider cell: either a {raw, fmt} object or a
// bare scalar.
func cellValue(x interface{}) num.Value {
	if m, ok := x.(map[string]interface{}); ok {
		return num.FromAny(m["raw"])
	}
	return num.FromAny(x)
}
