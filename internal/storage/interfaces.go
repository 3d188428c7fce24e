package storage

import (
	"context"
	"time"

	"solana-trade-desk/internal/domain"
)

// TradeStore provides access to the append-only trades ledger.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Trade, error)

	// GetByTimeRange retrieves trades with timestamp within [start, end] (inclusive),
	// ordered by timestamp ASC, id ASC. A zero start means no lower bound.
	GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Trade, error)

	// GetAll retrieves every trade, ordered by timestamp ASC, id ASC.
	GetAll(ctx context.Context) ([]*domain.Trade, error)
}

// EquityCurveStore provides access to the append-only equity curve.
type EquityCurveStore interface {
	// Append adds a new point. Points are never updated.
	Append(ctx context.Context, p *domain.EquityCurvePoint) error

	// GetByTimeRange retrieves points within [start, end] (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.EquityCurvePoint, error)

	// GetAll retrieves every point, ordered by timestamp ASC.
	GetAll(ctx context.Context) ([]*domain.EquityCurvePoint, error)
}
