package metrics

import (
	"context"
	"fmt"
	"time"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/observability"
	"solana-trade-desk/internal/storage"
)

// Engine computes performance metrics from the trade ledger on demand.
type Engine struct {
	trades  storage.TradeStore
	now     func() time.Time
	metrics *observability.Metrics
}

// EngineOption configures Engine.
type EngineOption func(*Engine)

// WithClock overrides the time source used to resolve period windows.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMetrics records calculation latency.
func WithMetrics(m *observability.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates a metrics engine over the given trade store.
func NewEngine(trades storage.TradeStore, opts ...EngineOption) *Engine {
	e := &Engine{
		trades: trades,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate loads the trades of the period window and computes metrics.
// An empty window yields zero-valued metrics, not an error.
func (e *Engine) Calculate(ctx context.Context, p Period) (*domain.PerformanceMetrics, error) {
	started := time.Now()
	defer func() { e.metrics.ObserveMetricsCalc(string(p), time.Since(started)) }()

	now := e.now()
	start := Window(p, now)

	trades, err := e.trades.GetByTimeRange(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("load trades for %s: %w", p, err)
	}

	m := Compute(trades)
	m.Period = string(p)
	m.WindowStart = start
	m.WindowEnd = now
	return &m, nil
}
