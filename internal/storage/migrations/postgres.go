package migrations

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"solana-trade-desk/internal/storage/postgres"
)

// RunPostgresMigrations creates the trades and equity_curve tables.
// Every file uses IF NOT EXISTS so reruns are no-ops.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	ms, err := Load(Postgres)
	if err != nil {
		return err
	}
	for _, m := range ms {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		logger.Debug("ledger schema applied", zap.String("dialect", string(Postgres)), zap.String("file", m.Name))
	}
	return nil
}
