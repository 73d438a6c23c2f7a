// Package report is the presentation adapter: it renders the computed
// valuation ranges as a markdown summary and a football-field chart.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"compval/pkg/core/num"
	"compval/pkg/core/utils"
	"compval/pkg/models"
)

// RenderMarkdown builds the run summary: one row per method with the
// low/base/high enterprise values, plus the spot EV reference and the peer
// sets before and after hygiene.
func RenderMarkdown(rep *models.ValuationReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Valuation summary: %s\n\n", rep.Target)
	fmt.Fprintf(&sb, "Run `%s`\n\n", rep.RunID)

	sb.WriteString("| Method | Low | Base | High |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, m := range rep.Methods {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			m.Method, formatEV(m.Range.Low), formatEV(m.Range.Base), formatEV(m.Range.High))
	}

	fmt.Fprintf(&sb, "\nSpot enterprise value: %s\n", formatEV(rep.SpotEV))
	if len(rep.PeersIn) > 0 {
		fmt.Fprintf(&sb, "\nProposed comps: %s\n", strings.Join(rep.PeersIn, ", "))
	}
	if len(rep.PeersOut) > 0 {
		fmt.Fprintf(&sb, "Comps surviving hygiene: %s\n", strings.Join(rep.PeersOut, ", "))
	}

	return sb.String()
}

// WriteReport renders the markdown summary to disk. The content is sanity
// checked as parseable markdown before writing.
func WriteReport(rep *models.ValuationReport, outDir string) (string, error) {
	md := RenderMarkdown(rep)
	if !utils.ValidateMarkdown(md) {
		return "", fmt.Errorf("generated report is not valid markdown")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("valuation_%s.md", rep.Target))
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// formatEV renders an enterprise value in billions for readability.
func formatEV(v num.Value) string {
	f, ok := v.Float()
	if !ok {
		return "n/a"
	}
	switch {
	case f >= 1e9 || f <= -1e9:
		return fmt.Sprintf("%.2fB", f/1e9)
	case f >= 1e6 || f <= -1e6:
		return fmt.Sprintf("%.1fM", f/1e6)
	default:
		return fmt.Sprintf("%.2f", f)
	}
}
