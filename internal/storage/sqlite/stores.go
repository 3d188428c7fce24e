package sqlite

import (
	"context"
	"fmt"
	"math"
	"time"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/storage"
)

// TradeStore implements storage.TradeStore on the embedded ledger.
type TradeStore struct {
	db *DB
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(db *DB) *TradeStore {
	return &TradeStore{db: db}
}

var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	row, err := toTradeRow(t)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	var row tradeRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return row.toDomain()
}

// GetByTimeRange retrieves trades within [start, end] (inclusive), ordered by timestamp ASC, id ASC.
func (s *TradeStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Trade, error) {
	lower := int64(math.MinInt64)
	if !start.IsZero() {
		lower = start.UTC().UnixNano()
	}

	var rows []tradeRow
	err := s.db.WithContext(ctx).
		Where("timestamp_ns >= ? AND timestamp_ns <= ?", lower, end.UTC().UnixNano()).
		Order("timestamp_ns ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get trades by time range: %w", err)
	}
	return tradesFromRows(rows)
}

// GetAll retrieves every trade, ordered by timestamp ASC, id ASC.
func (s *TradeStore) GetAll(ctx context.Context) ([]*domain.Trade, error) {
	var rows []tradeRow
	if err := s.db.WithContext(ctx).Order("timestamp_ns ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get all trades: %w", err)
	}
	return tradesFromRows(rows)
}

func tradesFromRows(rows []tradeRow) ([]*domain.Trade, error) {
	trades := make([]*domain.Trade, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, nil
}

// EquityCurveStore implements storage.EquityCurveStore on the embedded ledger.
type EquityCurveStore struct {
	db *DB
}

// NewEquityCurveStore creates a new EquityCurveStore.
func NewEquityCurveStore(db *DB) *EquityCurveStore {
	return &EquityCurveStore{db: db}
}

var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)

// Append adds a new point.
func (s *EquityCurveStore) Append(ctx context.Context, p *domain.EquityCurvePoint) error {
	if p == nil || p.Timestamp.IsZero() {
		return storage.ErrInvalidInput
	}

	row := &equityRow{
		TimestampNs: p.Timestamp.UTC().UnixNano(),
		Balance:     p.Balance,
		SessionPnL:  p.SessionPnL,
		TotalPnL:    p.TotalPnL,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert equity curve point: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves points within [start, end] (inclusive), ordered by timestamp ASC.
func (s *EquityCurveStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.EquityCurvePoint, error) {
	var rows []equityRow
	err := s.db.WithContext(ctx).
		Where("timestamp_ns >= ? AND timestamp_ns <= ?", start.UTC().UnixNano(), end.UTC().UnixNano()).
		Order("timestamp_ns ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get equity curve by time range: %w", err)
	}
	return pointsFromRows(rows), nil
}

// GetAll retrieves every point, ordered by timestamp ASC.
func (s *EquityCurveStore) GetAll(ctx context.Context) ([]*domain.EquityCurvePoint, error) {
	var rows []equityRow
	if err := s.db.WithContext(ctx).Order("timestamp_ns ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get all equity curve points: %w", err)
	}
	return pointsFromRows(rows), nil
}

func pointsFromRows(rows []equityRow) []*domain.EquityCurvePoint {
	points := make([]*domain.EquityCurvePoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, &domain.EquityCurvePoint{
			Timestamp:  time.Unix(0, r.TimestampNs).UTC(),
			Balance:    r.Balance,
			SessionPnL: r.SessionPnL,
			TotalPnL:   r.TotalPnL,
		})
	}
	return points
}
