package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/run.yaml"} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if cfg.PeerCount != 8 || cfg.OutputDir != "." {
			t.Errorf("Load(%q) defaults wrong: %+v", path, cfg)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
model: gemini-2.5-pro
peer_count: 12
output_dir: /tmp/runs
assumptions_file: dcf.hjson
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "gemini-2.5-pro" || cfg.PeerCount != 12 ||
		cfg.OutputDir != "/tmp/runs" || cfg.AssumptionsFile != "dcf.hjson" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadRepairsBogusValues(t *testing.T) {
	path := writeFile(t, "run.yaml", "peer_count: -3\noutput_dir: \"\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PeerCount != 8 || cfg.OutputDir != "." {
		t.Errorf("bogus values should fall back to defaults, got %+v", cfg)
	}
}

func TestLoadAssumptionsOverlay(t *testing.T) {
	path := writeFile(t, "dcf.hjson", `{
  // house view
  wacc: 0.10
  growth_base: 0.07
}`)
	a, err := LoadAssumptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if a.WACC != 0.10 || a.GrowthBase != 0.07 {
		t.Errorf("overrides not applied: %+v", a)
	}
	// Untouched fields keep the defaults.
	if a.TaxRate != 0.22 || a.Years != 5 || a.TerminalBase != 0.02 {
		t.Errorf("defaults clobbered: %+v", a)
	}
}

func TestLoadAssumptionsRejectsBadHorizon(t *testing.T) {
	path := writeFile(t, "dcf.hjson", "{ years: 0 }")
	if _, err := LoadAssumptions(path); err == nil {
		t.Error("zero-year horizon must be rejected")
	}
}

func TestLoadAssumptionsMissingFile(t *testing.T) {
	a, err := LoadAssumptions("/nonexistent/dcf.hjson")
	if err != nil {
		t.Fatal(err)
	}
	if a.WACC != 0.09 {
		t.Errorf("expected defaults, got %+v", a)
	}
}
