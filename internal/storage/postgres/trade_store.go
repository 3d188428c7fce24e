package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `
	id, timestamp, symbol, action, platform,
	amount, price, value, tx_ref, success,
	profit_loss, fees, metadata
`

// Insert adds a new trade. Returns ErrDuplicateKey if id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (` + tradeColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13
		)
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.Timestamp.UTC(), t.Symbol, string(t.Action), t.Platform,
		t.Amount, t.Price, t.Value, t.TxRef, t.Success,
		t.ProfitLoss, t.Fees, t.Metadata,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`

	t, err := scanTrade(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetByTimeRange retrieves trades within [start, end] (inclusive), ordered by timestamp ASC, id ASC.
func (s *TradeStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Trade, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if start.IsZero() {
		query := `SELECT ` + tradeColumns + ` FROM trades
			WHERE timestamp <= $1
			ORDER BY timestamp ASC, id ASC`
		rows, err = s.pool.Query(ctx, query, end.UTC())
	} else {
		query := `SELECT ` + tradeColumns + ` FROM trades
			WHERE timestamp >= $1 AND timestamp <= $2
			ORDER BY timestamp ASC, id ASC`
		rows, err = s.pool.Query(ctx, query, start.UTC(), end.UTC())
	}
	if err != nil {
		return nil, fmt.Errorf("get trades by time range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetAll retrieves every trade, ordered by timestamp ASC, id ASC.
func (s *TradeStore) GetAll(ctx context.Context) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades ORDER BY timestamp ASC, id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// scanTrade scans a single row into a Trade.
func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var t domain.Trade
	var action string

	err := row.Scan(
		&t.ID, &t.Timestamp, &t.Symbol, &action, &t.Platform,
		&t.Amount, &t.Price, &t.Value, &t.TxRef, &t.Success,
		&t.ProfitLoss, &t.Fees, &t.Metadata,
	)
	if err != nil {
		return nil, err
	}

	t.Action = domain.Action(action)
	return &t, nil
}

// scanTrades scans multiple rows into a slice of Trade.
func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
