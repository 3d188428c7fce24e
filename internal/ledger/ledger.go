// Package ledger records trades and equity curve points and exposes
// on-demand performance metrics over them.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/metrics"
	"solana-trade-desk/internal/observability"
	"solana-trade-desk/internal/storage"
)

// TradeListener is notified after a trade has been durably recorded.
// Implementations must not block.
type TradeListener interface {
	OnTrade(ctx context.Context, t *domain.Trade)
}

// Options configures a Ledger.
type Options struct {
	Trades         storage.TradeStore
	Equity         storage.EquityCurveStore
	InitialBalance float64
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Clock          func() time.Time
}

// Ledger is the single writer of trades and equity curve points.
type Ledger struct {
	trades         storage.TradeStore
	equity         storage.EquityCurveStore
	engine         *metrics.Engine
	initialBalance float64
	logger         *zap.Logger
	metrics        *observability.Metrics
	now            func() time.Time

	mu        sync.RWMutex
	session   []*domain.Trade
	listeners []TradeListener
}

// New creates a ledger over the given stores.
func New(opts Options) *Ledger {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Ledger{
		trades:         opts.Trades,
		equity:         opts.Equity,
		engine:         metrics.NewEngine(opts.Trades, metrics.WithClock(now), metrics.WithMetrics(opts.Metrics)),
		initialBalance: opts.InitialBalance,
		logger:         logger.Named("ledger"),
		metrics:        opts.Metrics,
		now:            now,
	}
}

// AddListener registers a listener for recorded trades.
func (l *Ledger) AddListener(tl TradeListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, tl)
}

// InitialBalance returns the balance the session started with.
func (l *Ledger) InitialBalance() float64 {
	return l.initialBalance
}

// RecordTrade validates and appends a trade to the ledger.
// A store failure returns *PersistenceError and the trade is not recorded.
// Duplicate ids are not deduplicated; they fail with a PersistenceError
// wrapping storage.ErrDuplicateKey.
func (l *Ledger) RecordTrade(ctx context.Context, t *domain.Trade) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if err := l.trades.Insert(ctx, t); err != nil {
		l.metrics.RecordLedgerError("trades")
		l.logger.Error("failed to record trade",
			zap.String("trade_id", t.ID),
			zap.String("symbol", t.Symbol),
			zap.Error(err),
		)
		return &PersistenceError{Op: "record_trade", TradeID: t.ID, Err: err}
	}

	l.mu.Lock()
	l.session = append(l.session, t.Clone())
	listeners := append([]TradeListener(nil), l.listeners...)
	l.mu.Unlock()

	l.metrics.RecordTrade(string(t.Action), t.Success)
	l.logger.Info("trade recorded",
		zap.String("trade_id", t.ID),
		zap.String("symbol", t.Symbol),
		zap.String("action", string(t.Action)),
		zap.String("platform", t.Platform),
		zap.Float64("value", t.Value),
		zap.Bool("success", t.Success),
	)

	for _, tl := range listeners {
		tl.OnTrade(ctx, t.Clone())
	}
	return nil
}

// UpdateEquityCurve appends a balance snapshot.
// SessionPnL is balance minus the initial balance; TotalPnL sums the P&L of
// trades recorded in this session.
func (l *Ledger) UpdateEquityCurve(ctx context.Context, currentBalance float64) (*domain.EquityCurvePoint, error) {
	p := &domain.EquityCurvePoint{
		Timestamp:  l.now(),
		Balance:    currentBalance,
		SessionPnL: currentBalance - l.initialBalance,
		TotalPnL:   l.sessionPnL(),
	}

	if err := l.equity.Append(ctx, p); err != nil {
		l.metrics.RecordLedgerError("equity_curve")
		l.logger.Error("failed to update equity curve", zap.Float64("balance", currentBalance), zap.Error(err))
		return nil, &PersistenceError{Op: "update_equity_curve", Err: err}
	}

	l.metrics.RecordEquityPoint(currentBalance)
	l.logger.Debug("equity curve updated",
		zap.Float64("balance", p.Balance),
		zap.Float64("session_pnl", p.SessionPnL),
		zap.Float64("total_pnl", p.TotalPnL),
	)
	return p, nil
}

func (l *Ledger) sessionPnL() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0.0
	for _, t := range l.session {
		if pl, ok := t.PnL(); ok {
			total += pl
		}
	}
	return total
}

// SessionTrades returns copies of the trades recorded by this process.
func (l *Ledger) SessionTrades() []*domain.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Trade, len(l.session))
	for i, t := range l.session {
		out[i] = t.Clone()
	}
	return out
}

// Trades returns every trade in the ledger.
func (l *Ledger) Trades(ctx context.Context) ([]*domain.Trade, error) {
	trades, err := l.trades.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return trades, nil
}

// EquityCurve returns every equity curve point.
func (l *Ledger) EquityCurve(ctx context.Context) ([]*domain.EquityCurvePoint, error) {
	points, err := l.equity.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load equity curve: %w", err)
	}
	return points, nil
}

// CalculateMetrics computes performance metrics for the period.
func (l *Ledger) CalculateMetrics(ctx context.Context, p metrics.Period) (*domain.PerformanceMetrics, error) {
	return l.engine.Calculate(ctx, p)
}
