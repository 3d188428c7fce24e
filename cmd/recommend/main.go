// Package main analyzes one token and prints a bounded trading recommendation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"solana-trade-desk/internal/app"
	"solana-trade-desk/internal/config"
	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml if present)")
	address := flag.String("address", "", "Token mint address")
	symbol := flag.String("symbol", "", "Token symbol")
	amount := flag.Float64("amount", 0, "Proposed trade amount in SOL")
	asJSON := flag.Bool("json", false, "Print the recommendation as JSON")
	flag.Parse()

	if *address == "" || *symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: --address and --symbol are required")
		os.Exit(1)
	}
	if *amount < 0 {
		fmt.Fprintln(os.Stderr, "Error: --amount must be >= 0")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New("warn", cfg.Log.Production)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	rec := a.Orchestrator.GetTradingRecommendation(ctx, *symbol, *address, *amount)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(render(rec))
}

func render(r domain.TradingRecommendation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", r.TokenSymbol, r.TokenAddress)
	fmt.Fprintf(&sb, "Recommendation: %s\n", r.Recommendation)
	fmt.Fprintf(&sb, "Risk score:     %d/10\n", r.RiskScore)
	fmt.Fprintf(&sb, "Confidence:     %.2f\n", r.ConfidenceScore)
	fmt.Fprintf(&sb, "Amount:         %.4f of %.4f SOL\n", r.RecommendedAmount, r.OriginalAmount)
	fmt.Fprintf(&sb, "\n%s\n", r.Explanation)
	if len(r.RiskFactors) > 0 {
		sb.WriteString("\nRisk factors:\n")
		for _, f := range r.RiskFactors {
			fmt.Fprintf(&sb, "  - %s (%s)\n", f.Name, f.Severity)
		}
	}
	if r.AIReasoning != "" {
		fmt.Fprintf(&sb, "\nReasoning:\n%s\n", r.AIReasoning)
	}
	return sb.String()
}
