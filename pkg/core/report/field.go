package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"compval/pkg/models"
)

// WriteFootballField renders the classic football-field chart: one
// horizontal bar per method spanning its low..high range, with the spot
// enterprise value as a reference mark line. Methods with no usable range
// are skipped.
func WriteFootballField(rep *models.ValuationReport, outDir string) (string, error) {
	methods := make([]string, 0, len(rep.Methods))
	bases := make([]opts.BarData, 0, len(rep.Methods))
	ranges := make([]opts.BarData, 0, len(rep.Methods))

	for _, m := range rep.Methods {
		lo, hi, ok := rangeBounds(m.Range)
		if !ok {
			continue
		}
		methods = append(methods, m.Method)
		// Stacked-bar trick: a transparent bar up to the low bound, then the
		// visible low..high span on top of it.
		bases = append(bases, opts.BarData{Value: lo / 1e9})
		ranges = append(ranges, opts.BarData{Value: (hi - lo) / 1e9})
	}
	if len(methods) == 0 {
		return "", fmt.Errorf("no method produced a usable range")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s Football Field", rep.Target),
			Subtitle: "Implied enterprise value ($B)",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: rep.Target,
			Width:     "900px",
			Height:    "480px",
		}),
	)

	bar.SetXAxis(methods).
		AddSeries("", bases,
			charts.WithBarChartOpts(opts.BarChart{Stack: "field"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "rgba(0,0,0,0)"}),
		).
		AddSeries("implied range", ranges,
			charts.WithBarChartOpts(opts.BarChart{Stack: "field"}),
		)

	if spot, ok := rep.SpotEV.Float(); ok {
		bar.SetSeriesOptions(
			charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  "spot EV",
				XAxis: spot / 1e9,
			}),
		)
	}
	bar.XYReversal()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("football_field_%s.html", rep.Target))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if err := bar.Render(f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return path, nil
}

// rangeBounds collapses a possibly partial range into drawable low/high
// bounds. Missing edges fall back to the nearest present scenario.
func rangeBounds(r models.ValuationRange) (float64, float64, bool) {
	vals := make([]float64, 0, 3)
	if f, ok := r.Low.Float(); ok {
		vals = append(vals, f)
	}
	if f, ok := r.Base.Float(); ok {
		vals = append(vals, f)
	}
	if f, ok := r.High.Float(); ok {
		vals = append(vals, f)
	}
	if len(vals) == 0 {
		return 0, 0, false
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}
