// Package main runs the trade desk HTTP service: trade ledger, reports,
// token analysis, the live trade feed and alert monitoring.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"solana-trade-desk/internal/api"
	"solana-trade-desk/internal/app"
	"solana-trade-desk/internal/config"
	"solana-trade-desk/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml if present)")
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	logLevel := flag.String("log-level", "", "Log level (overrides log.level)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Production)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("assemble pipeline: %w", err)
	}
	defer a.Close()

	hub := api.NewHub(logger)
	a.Ledger.AddListener(hub)
	a.Ledger.AddListener(a.Monitor)

	go hub.Run(ctx)
	go a.Monitor.Run(ctx)

	srv := api.NewServer(api.Options{
		Ledger:      a.Ledger,
		Risk:        a.Analyzer,
		Advisor:     a.Orchestrator,
		Hub:         hub,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})
	return srv.Start(ctx, cfg.Server.Addr)
}
