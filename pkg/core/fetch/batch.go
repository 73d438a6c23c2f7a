package fetch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the provider fan-out. Per-company fetches share
// no mutable state, so the only constraint is provider politeness.
const maxConcurrentFetches = 4

// FetchBatch retrieves bundles for all tickers concurrently. A failed company
// is logged and skipped; the batch never aborts on individual failures.
// Output order follows the input order of the surviving tickers.
func FetchBatch(ctx context.Context, provider FundamentalsProvider, tickers []string) []*RawFinancialBundle {
	results := make([]*RawFinancialBundle, len(tickers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, ticker := range tickers {
		g.Go(func() error {
			b, err := provider.FetchBundle(ctx, ticker)
			if err != nil {
				fmt.Printf("[warn] fetch failed for %s: %v\n", ticker, err)
				return nil
			}
			results[i] = b
			return nil
		})
	}
	_ = g.Wait() // workers swallow their own errors

	out := make([]*RawFinancialBundle, 0, len(tickers))
	for _, b := range results {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}
