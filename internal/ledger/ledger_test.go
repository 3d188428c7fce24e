package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/metrics"
	"solana-trade-desk/internal/storage"
	"solana-trade-desk/internal/storage/memory"
)

var errDiskFull = errors.New("disk full")

// failingTradeStore rejects every insert.
type failingTradeStore struct {
	*memory.TradeStore
}

func (failingTradeStore) Insert(context.Context, *domain.Trade) error { return errDiskFull }

type failingEquityStore struct {
	*memory.EquityCurveStore
}

func (failingEquityStore) Append(context.Context, *domain.EquityCurvePoint) error {
	return errDiskFull
}

type recordingListener struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingListener) OnTrade(_ context.Context, t *domain.Trade) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, t.ID)
}

func newTestLedger(now time.Time) (*Ledger, *memory.TradeStore) {
	trades := memory.NewTradeStore()
	l := New(Options{
		Trades:         trades,
		Equity:         memory.NewEquityCurveStore(),
		InitialBalance: 10,
		Clock:          func() time.Time { return now },
	})
	return l, trades
}

func sampleTrade(id string, ts time.Time, pl *float64) *domain.Trade {
	t := domain.NewTrade(id, ts, "BONK", domain.ActionSell, "jupiter", 100000, 0.00002)
	t.Success = true
	t.ProfitLoss = pl
	t.Fees = 0.000005
	return t
}

func TestLedger_RecordTrade(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l, store := newTestLedger(now)
	listener := &recordingListener{}
	l.AddListener(listener)

	pl := 0.5
	require.NoError(t, l.RecordTrade(context.Background(), sampleTrade("t1", now, &pl)))

	stored, err := store.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "BONK", stored.Symbol)

	assert.Len(t, l.SessionTrades(), 1)
	assert.Equal(t, []string{"t1"}, listener.ids)
}

func TestLedger_RecordTrade_Invalid(t *testing.T) {
	l, _ := newTestLedger(time.Now())

	tr := sampleTrade("t1", time.Now(), nil)
	tr.Action = "HODL"

	err := l.RecordTrade(context.Background(), tr)
	assert.ErrorIs(t, err, domain.ErrInvalidTrade)
	assert.NotErrorIs(t, err, ErrPersistence)
	assert.Empty(t, l.SessionTrades())
}

func TestLedger_RecordTrade_PersistenceError(t *testing.T) {
	l := New(Options{
		Trades: failingTradeStore{memory.NewTradeStore()},
		Equity: memory.NewEquityCurveStore(),
	})
	listener := &recordingListener{}
	l.AddListener(listener)

	err := l.RecordTrade(context.Background(), sampleTrade("t1", time.Now(), nil))
	require.Error(t, err)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "t1", perr.TradeID)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errDiskFull)

	assert.Empty(t, l.SessionTrades(), "failed trade must not enter the session")
	assert.Empty(t, listener.ids)
}

func TestLedger_RecordTrade_DuplicateID(t *testing.T) {
	l, _ := newTestLedger(time.Now())
	ctx := context.Background()

	tr := sampleTrade("dup", time.Now(), nil)
	require.NoError(t, l.RecordTrade(ctx, tr))

	err := l.RecordTrade(ctx, tr)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	assert.Len(t, l.SessionTrades(), 1)
}

func TestLedger_UpdateEquityCurve(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLedger(now)
	ctx := context.Background()

	win, loss := 0.8, -0.3
	require.NoError(t, l.RecordTrade(ctx, sampleTrade("t1", now, &win)))
	require.NoError(t, l.RecordTrade(ctx, sampleTrade("t2", now, &loss)))
	require.NoError(t, l.RecordTrade(ctx, sampleTrade("t3", now, nil)))

	p, err := l.UpdateEquityCurve(ctx, 10.4)
	require.NoError(t, err)
	assert.Equal(t, now, p.Timestamp)
	assert.InDelta(t, 0.4, p.SessionPnL, 1e-9)
	assert.InDelta(t, 0.5, p.TotalPnL, 1e-9)

	curve, err := l.EquityCurve(ctx)
	require.NoError(t, err)
	require.Len(t, curve, 1)
	assert.InDelta(t, 10.4, curve[0].Balance, 1e-9)
}

func TestLedger_UpdateEquityCurve_PersistenceError(t *testing.T) {
	l := New(Options{
		Trades: memory.NewTradeStore(),
		Equity: failingEquityStore{memory.NewEquityCurveStore()},
	})

	_, err := l.UpdateEquityCurve(context.Background(), 5)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestLedger_CalculateMetrics(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestLedger(now)
	ctx := context.Background()

	win := 1.0
	require.NoError(t, l.RecordTrade(ctx, sampleTrade("t1", now.Add(-time.Hour), &win)))

	m, err := l.CalculateMetrics(ctx, metrics.PeriodToday)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalTrades)
	assert.Equal(t, 1.0, m.WinRate)
}
