package clickhouse

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/storage"
)

// EquityCurveStore implements storage.EquityCurveStore using ClickHouse.
// MergeTree does not keep insertion order, so every point carries a
// monotonically increasing sequence number used as a tiebreaker.
type EquityCurveStore struct {
	conn *Conn
	seq  atomic.Uint64
}

// NewEquityCurveStore creates a new EquityCurveStore.
func NewEquityCurveStore(conn *Conn) *EquityCurveStore {
	s := &EquityCurveStore{conn: conn}
	s.seq.Store(uint64(time.Now().UnixNano()))
	return s
}

// Compile-time interface check.
var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)

// Append adds a new point.
func (s *EquityCurveStore) Append(ctx context.Context, p *domain.EquityCurvePoint) error {
	if p == nil || p.Timestamp.IsZero() {
		return storage.ErrInvalidInput
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_curve (timestamp, seq, balance, session_pnl, total_pnl)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	if err := batch.Append(p.Timestamp.UTC(), s.seq.Add(1), p.Balance, p.SessionPnL, p.TotalPnL); err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves points within [start, end] (inclusive), ordered by timestamp ASC.
func (s *EquityCurveStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.EquityCurvePoint, error) {
	query := `
		SELECT timestamp, balance, session_pnl, total_pnl
		FROM equity_curve
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC, seq ASC
	`

	rows, err := s.conn.Query(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query equity curve by time range: %w", err)
	}
	defer rows.Close()

	return scanEquityCurve(rows)
}

// GetAll retrieves every point, ordered by timestamp ASC.
func (s *EquityCurveStore) GetAll(ctx context.Context) ([]*domain.EquityCurvePoint, error) {
	query := `
		SELECT timestamp, balance, session_pnl, total_pnl
		FROM equity_curve
		ORDER BY timestamp ASC, seq ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all equity curve points: %w", err)
	}
	defer rows.Close()

	return scanEquityCurve(rows)
}

func scanEquityCurve(rows chRows) ([]*domain.EquityCurvePoint, error) {
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
