// Package config loads the run configuration: a small YAML file for run
// parameters and an optional HJSON file for human-edited DCF assumption
// overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"compval/pkg/core/dcf"
	"compval/pkg/core/utils"
)

// Config holds the run parameters. Zero values fall back to defaults.
type Config struct {
	Model           string `yaml:"model"`            // Gemini model override
	PeerCount       int    `yaml:"peer_count"`       // comps requested from the LLM
	OutputDir       string `yaml:"output_dir"`       // chart/report destination
	AssumptionsFile string `yaml:"assumptions_file"` // optional HJSON overrides
}

// defaults: eight comps, output next to the binary.
func defaults() Config {
	return Config{
		PeerCount: 8,
		OutputDir: ".",
	}
}

// Load reads the YAML config at path. A missing file is not an error; the
// defaults apply.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PeerCount <= 0 {
		cfg.PeerCount = defaults().PeerCount
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults().OutputDir
	}
	return cfg, nil
}

// LoadAssumptions layers the HJSON override file over the default DCF
// assumptions. HJSON tolerates comments and unquoted keys, which suits a
// hand-maintained assumptions file.
func LoadAssumptions(path string) (dcf.Assumptions, error) {
	a := dcf.Default()
	if path == "" {
		return a, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return a, nil
		}
		return a, fmt.Errorf("read assumptions: %w", err)
	}
	if err := utils.ParseHJSONToStruct(string(data), &a); err != nil {
		return a, fmt.Errorf("parse assumptions: %w", err)
	}
	if a.Years <= 0 {
		return a, fmt.Errorf("assumptions: forecast horizon must be positive")
	}
	return a, nil
}
