package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"solana-trade-desk/internal/config"
	"solana-trade-desk/internal/storage"
	chstore "solana-trade-desk/internal/storage/clickhouse"
	"solana-trade-desk/internal/storage/memory"
	"solana-trade-desk/internal/storage/migrations"
	pgstore "solana-trade-desk/internal/storage/postgres"
	"solana-trade-desk/internal/storage/sqlite"
)

// Stores holds the ledger stores selected by configuration.
type Stores struct {
	Trades storage.TradeStore
	Equity storage.EquityCurveStore

	closers []func()
}

// Close releases every backing connection.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores connects the configured ledger backend and applies its schema.
// A ClickHouse DSN moves the equity curve to ClickHouse.
func OpenStores(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stores{}

	switch cfg.Driver {
	case config.DriverMemory, "":
		s.Trades = memory.NewTradeStore()
		s.Equity = memory.NewEquityCurveStore()

	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool, logger); err != nil {
			s.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		s.Trades = pgstore.NewTradeStore(pool)
		s.Equity = pgstore.NewEquityCurveStore(pool)

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() {
			if err := db.Close(); err != nil {
				logger.Warn("close sqlite ledger", zap.Error(err))
			}
		})
		s.Trades = sqlite.NewTradeStore(db)
		s.Equity = sqlite.NewEquityCurveStore(db)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if cfg.ClickHouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouseDSN, logger)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		s.closers = append(s.closers, func() {
			if err := conn.Close(); err != nil {
				logger.Warn("close clickhouse", zap.Error(err))
			}
		})
		s.Equity = chstore.NewEquityCurveStore(conn)
	}

	logger.Info("ledger storage ready",
		zap.String("driver", cfg.Driver),
		zap.Bool("clickhouse_equity", cfg.ClickHouseDSN != ""))
	return s, nil
}
