// Package main prints performance reports for every period and optionally
// exports the trade ledger and equity curve as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"solana-trade-desk/internal/app"
	"solana-trade-desk/internal/config"
	"solana-trade-desk/internal/logging"
	"solana-trade-desk/internal/metrics"
	"solana-trade-desk/internal/reporting"
)

var allPeriods = []metrics.Period{metrics.PeriodToday, metrics.PeriodWeek, metrics.PeriodMonth, metrics.PeriodAll}

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml if present)")
	periods := flag.String("periods", "today,week,month,all", "Comma-separated periods to report")
	outputDir := flag.String("output-dir", "", "Write reports and CSV exports to this directory instead of stdout")
	exportCSV := flag.Bool("export-csv", false, "Export trades.csv and equity_curve.csv (requires --output-dir)")
	flag.Parse()

	if *exportCSV && *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --export-csv requires --output-dir")
		os.Exit(1)
	}

	selected, err := parsePeriods(*periods)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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

	ctx := context.Background()
	if err := run(ctx, cfg, selected, *outputDir, *exportCSV, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parsePeriods(s string) ([]metrics.Period, error) {
	if strings.TrimSpace(s) == "" {
		return allPeriods, nil
	}
	var out []metrics.Period
	for _, part := range strings.Split(s, ",") {
		p, err := metrics.ParsePeriod(part)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func run(ctx context.Context, cfg *config.Config, periods []metrics.Period, outputDir string, exportCSV bool, logger *zap.Logger) error {
	defer func() { _ = logger.Sync() }()

	a, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	gen := reporting.NewGenerator(a.Ledger)
	for _, p := range periods {
		text, err := gen.GenerateText(ctx, p)
		if err != nil {
			return fmt.Errorf("generate %s report: %w", p, err)
		}
		if outputDir == "" {
			fmt.Println(text)
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("performance_report_%s.txt", p))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("  - %s\n", path)
	}

	if !exportCSV {
		return nil
	}

	trades, err := a.Ledger.Trades(ctx)
	if err != nil {
		return err
	}
	tradesCSV, err := reporting.RenderTradesCSV(trades)
	if err != nil {
		return err
	}
	points, err := a.Ledger.EquityCurve(ctx)
	if err != nil {
		return err
	}
	equityCSV, err := reporting.RenderEquityCurveCSV(points)
	if err != nil {
		return err
	}

	for name, body := range map[string]string{"trades.csv": tradesCSV, "equity_curve.csv": equityCSV} {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("  - %s\n", path)
	}
	return nil
}
