// Package app wires configured components together for the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"solana-trade-desk/internal/alerts"
	"solana-trade-desk/internal/cache"
	"solana-trade-desk/internal/config"
	"solana-trade-desk/internal/ledger"
	"solana-trade-desk/internal/llm"
	"solana-trade-desk/internal/observability"
	"solana-trade-desk/internal/orchestrator"
	"solana-trade-desk/internal/reasoning"
	"solana-trade-desk/internal/risk"
	"solana-trade-desk/internal/solana"
)

// App is the assembled pipeline.
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Stores       *Stores
	Ledger       *ledger.Ledger
	Analyzer     *risk.Analyzer
	Reasoner     *reasoning.Engine
	Orchestrator *orchestrator.Orchestrator
	Monitor      *alerts.Monitor

	redis *redis.Client
}

// New builds every component from cfg. reg may be nil for the default registry.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := observability.NewMetrics(observability.DefaultNamespace, reg)

	stores, err := OpenStores(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Stores:  stores,
	}

	a.Ledger = ledger.New(ledger.Options{
		Trades:         stores.Trades,
		Equity:         stores.Equity,
		InitialBalance: cfg.Ledger.InitialBalance,
		Logger:         logger,
		Metrics:        m,
	})

	analyzerOpts := []risk.AnalyzerOption{
		risk.WithCallTimeout(cfg.Tracker.CallTimeout),
		risk.WithLogger(logger),
		risk.WithMetrics(m),
	}
	if !cfg.SimulationMode() {
		tracker := risk.NewTrackerClient(cfg.Tracker.APIKey,
			risk.WithBaseURL(cfg.Tracker.BaseURL),
			risk.WithTimeout(cfg.Tracker.Timeout))
		analyzerOpts = append(analyzerOpts, risk.WithProvider(tracker))
	}
	a.Analyzer = risk.NewAnalyzer(analyzerOpts...)

	var completer reasoning.Completer
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("llm client: %w", err)
		}
		completer = client
	}
	a.Reasoner = reasoning.NewEngine(completer,
		reasoning.WithTimeout(cfg.Reasoning.Timeout),
		reasoning.WithLogger(logger),
		reasoning.WithMetrics(m))

	orchOpts := orchestrator.Options{
		Analyzer:     a.Analyzer,
		Reasoner:     a.Reasoner,
		ChainTimeout: cfg.Solana.Timeout,
		Logger:       logger,
		Metrics:      m,
	}
	if cfg.Redis.Addr != "" {
		a.redis = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		c := cache.NewAnalysisCache(a.redis, cfg.Redis.TTL)
		if err := c.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, analysis cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			orchOpts.Cache = c
		}
	}
	if cfg.Solana.RPCEndpoint != "" {
		orchOpts.Chain = solana.NewHTTPClient(cfg.Solana.RPCEndpoint,
			solana.WithTimeout(cfg.Solana.Timeout),
			solana.WithLogger(logger))
	}
	a.Orchestrator = orchestrator.New(orchOpts)

	notifiers := []alerts.Notifier{alerts.NewLogNotifier(logger)}
	if cfg.Telegram.Token != "" {
		tg, err := alerts.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Warn("telegram alerts disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	dispatcher := alerts.NewDispatcher(notifiers,
		alerts.WithCooldown(cfg.Alerts.Cooldown),
		alerts.WithLogger(logger),
		alerts.WithMetrics(m))
	a.Monitor = alerts.NewMonitor(a.Ledger, dispatcher, cfg.Alerts.Thresholds, logger)

	logger.Info("pipeline assembled",
		zap.Bool("risk_simulation", a.Analyzer.Simulated()),
		zap.Bool("llm", completer != nil),
		zap.Bool("cache", orchOpts.Cache != nil),
		zap.Bool("chain", orchOpts.Chain != nil),
		zap.Int("notifiers", len(notifiers)))
	return a, nil
}

// Close releases stores and clients.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	a.Stores.Close()
}
