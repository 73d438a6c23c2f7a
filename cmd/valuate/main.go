package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"compval/pkg/core/config"
	"compval/pkg/core/fetch"
	"compval/pkg/core/llm"
	"compval/pkg/core/pipeline"
	"compval/pkg/core/report"
	"compval/pkg/core/suggest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, assuming environment variables are set")
	}

	configPath := flag.String("config", "config.yaml", "run configuration file")
	outDir := flag.String("out", "", "output directory (overrides config)")
	peerCount := flag.Int("peers", 0, "number of comps to request (overrides config)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: valuate [flags] <TARGET_TICKER_OR_NAME>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	target := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *peerCount > 0 {
		cfg.PeerCount = *peerCount
	}
	if cfg.Model != "" {
		os.Setenv("GEMINI_MODEL", cfg.Model)
	}

	assumptions, err := config.LoadAssumptions(cfg.AssumptionsFile)
	if err != nil {
		log.Fatalf("assumptions: %v", err)
	}

	provider, err := llm.NewGeminiProviderFromEnv()
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	schemaClient, err := llm.NewTickerSchemaClientFromEnv()
	if err != nil {
		log.Fatalf("llm: %v", err)
	}

	suggester := suggest.NewSuggester(schemaClient, provider, nil, cfg.PeerCount)
	yahoo := fetch.NewYahooClient()
	orch := pipeline.NewOrchestrator(yahoo, suggester, assumptions)

	rep, err := orch.Run(context.Background(), target)
	if err != nil {
		log.Fatalf("valuation failed: %v", err)
	}

	fmt.Println(report.RenderMarkdown(rep))

	mdPath, err := report.WriteReport(rep, cfg.OutputDir)
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	fmt.Printf("Saved report -> %s\n", mdPath)

	chartPath, err := report.WriteFootballField(rep, cfg.OutputDir)
	if err != nil {
		// Degenerate ranges are not fatal; the markdown table still stands.
		fmt.Printf("[warn] chart not rendered: %v\n", err)
		return
	}
	fmt.Printf("Saved chart -> %s\n", chartPath)
}
