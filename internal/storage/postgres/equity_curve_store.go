package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/storage"
)

// EquityCurveStore implements storage.EquityCurveStore using PostgreSQL.
type EquityCurveStore struct {
	pool *Pool
}

// NewEquityCurveStore creates a new EquityCurveStore.
func NewEquityCurveStore(pool *Pool) *EquityCurveStore {
	return &EquityCurveStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)

// Append adds a new point.
func (s *EquityCurveStore) Append(ctx context.Context, p *domain.EquityCurvePoint) error {
	if p == nil || p.Timestamp.IsZero() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO equity_curve (timestamp, balance, session_pnl, total_pnl)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.pool.Exec(ctx, query, p.Timestamp.UTC(), p.Balance, p.SessionPnL, p.TotalPnL); err != nil {
		return fmt.Errorf("insert equity curve point: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves points within [start, end] (inclusive), ordered by timestamp ASC.
func (s *EquityCurveStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.EquityCurvePoint, error) {
	query := `
		SELECT timestamp, balance, session_pnl, total_pnl
		FROM equity_curve
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("get equity curve by time range: %w", err)
	}
	defer rows.Close()

	return scanEquityCurve(rows)
}

// GetAll retrieves every point, ordered by timestamp ASC.
func (s *EquityCurveStore) GetAll(ctx context.Context) ([]*domain.EquityCurvePoint, error) {
	query := `
		SELECT timestamp, balance, session_pnl, total_pnl
		FROM equity_curve
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all equity curve points: %w", err)
	}
	defer rows.Close()

	return scanEquityCurve(rows)
}

func scanEquityCurve(rows pgx.Rows) ([]*domain.EquityCurvePoint, error) {
	var points []*domain.EquityCurvePoint

	for rows.Next() {
		var p domain.EquityCurvePoint
		if err := rows.Scan(&p.Timestamp, &p.Balance, &p.SessionPnL, &p.TotalPnL); err != nil {
			return nil, fmt.Errorf("scan equity curve row: %w", err)
		}
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity curve rows: %w", err)
	}

	return points, nil
}
