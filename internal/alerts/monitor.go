package alerts

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/metrics"
)

// monitorQueueSize bounds pending trade notifications.
const monitorQueueSize = 64

// MetricsSource computes performance metrics for a period.
type MetricsSource interface {
	CalculateMetrics(ctx context.Context, p metrics.Period) (*domain.PerformanceMetrics, error)
}

// Monitor re-evaluates alert conditions after every recorded trade.
// OnTrade only enqueues; Run performs the evaluation.
type Monitor struct {
	source     MetricsSource
	dispatcher *Dispatcher
	thresholds Thresholds
	logger     *zap.Logger
	now        func() time.Time

	queue chan struct{}
}

// NewMonitor creates a monitor. Call Run to start evaluating.
func NewMonitor(source MetricsSource, dispatcher *Dispatcher, th Thresholds, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		source:     source,
		dispatcher: dispatcher,
		thresholds: th,
		logger:     logger.Named("monitor"),
		now:        time.Now,
		queue:      make(chan struct{}, monitorQueueSize),
	}
}

// OnTrade implements ledger.TradeListener.
func (m *Monitor) OnTrade(_ context.Context, _ *domain.Trade) {
	select {
	case m.queue <- struct{}{}:
	default:
		// A pending evaluation already covers this trade.
	}
}

// Run evaluates alerts for queued trades until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.queue:
			if _, err := m.Evaluate(ctx); err != nil {
				m.logger.Error("alert evaluation failed", zap.Error(err))
			}
		}
	}
}

// Evaluate checks the current metrics and dispatches triggered alerts.
func (m *Monitor) Evaluate(ctx context.Context) ([]Alert, error) {
	all, err := m.source.CalculateMetrics(ctx, metrics.PeriodAll)
	if err != nil {
		return nil, fmt.Errorf("all-time metrics: %w", err)
	}
	today, err := m.source.CalculateMetrics(ctx, metrics.PeriodToday)
	if err != nil {
		return nil, fmt.Errorf("today metrics: %w", err)
	}

	triggered := Check(*all, today.NetProfit, m.thresholds, m.now())
	if len(triggered) > 0 {
		m.dispatcher.Dispatch(ctx, triggered)
	}
	return triggered, nil
}
