// Package sqlite provides a single-file embedded ledger backed by gorm.
package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"solana-trade-desk/internal/domain"
)

// DB wraps gorm.DB for dependency injection.
type DB struct {
	*gorm.DB
}

// Open opens (or creates) the ledger database at path and migrates the schema.
// Use ":memory:" for an ephemeral ledger.
func Open(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite ledger: %w", err)
	}

	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&tradeRow{}, &equityRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite ledger: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// tradeRow is the trades table. Timestamps are stored as UTC unix nanoseconds
// so range scans compare integers, metadata as JSON text.
type tradeRow struct {
	ID          string `gorm:"primaryKey"`
	TimestampNs int64  `gorm:"index:idx_trades_ts;not null"`
	Symbol      string `gorm:"index;not null"`
	Action      string `gorm:"not null"`
	Platform    string `gorm:"not null"`
	Amount      float64
	Price       float64
	Value       float64
	TxRef       string
	Success     bool
	ProfitLoss  *float64
	Fees        float64
	Metadata    string
}

func (tradeRow) TableName() string { return "trades" }

type equityRow struct {
	ID          uint  `gorm:"primaryKey;autoIncrement"`
	TimestampNs int64 `gorm:"index;not null"`
	Balance     float64
	SessionPnL  float64 `gorm:"column:session_pnl"`
	TotalPnL    float64 `gorm:"column:total_pnl"`
}

func (equityRow) TableName() string { return "equity_curve" }

func toTradeRow(t *domain.Trade) (*tradeRow, error) {
	row := &tradeRow{
		ID:          t.ID,
		TimestampNs: t.Timestamp.UTC().UnixNano(),
		Symbol:      t.Symbol,
		Action:      string(t.Action),
		Platform:    t.Platform,
		Amount:      t.Amount,
		Price:       t.Price,
		Value:       t.Value,
		TxRef:       t.TxRef,
		Success:     t.Success,
		ProfitLoss:  t.ProfitLoss,
		Fees:        t.Fees,
	}
	if len(t.Metadata) > 0 {
		b, err := json.Marshal(t.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		row.Metadata = string(b)
	}
	return row, nil
}

func (r *tradeRow) toDomain() (*domain.Trade, error) {
	t := &domain.Trade{
		ID:         r.ID,
		Timestamp:  time.Unix(0, r.TimestampNs).UTC(),
		Symbol:     r.Symbol,
		Action:     domain.Action(r.Action),
		Platform:   r.Platform,
		Amount:     r.Amount,
		Price:      r.Price,
		Value:      r.Value,
		TxRef:      r.TxRef,
		Success:    r.Success,
		ProfitLoss: r.ProfitLoss,
		Fees:       r.Fees,
	}
	if r.Metadata != "" {
		if err := json.Unmarshal([]byte(r.Metadata), &t.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", r.ID, err)
		}
	}
	return t, nil
}

func isDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
