package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/storage"
)

func testTrade(id string, ts time.Time) *domain.Trade {
	return domain.NewTrade(id, ts, "BONK", domain.ActionBuy, "jupiter", 1000, 0.00002)
}

func TestTradeStore_InsertAndGet(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	pl := 0.05
	trade := testTrade("trade1", time.Unix(1700000000, 0))
	trade.ProfitLoss = &pl
	trade.Metadata = map[string]any{"route": "raydium"}

	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "trade1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.ProfitLoss == nil || *got.ProfitLoss != 0.05 {
		t.Errorf("ProfitLoss mismatch: got %v, want 0.05", got.ProfitLoss)
	}

	// Stored copy must be isolated from caller mutation.
	trade.Metadata["route"] = "orca"
	got, _ = store.GetByID(ctx, "trade1")
	if got.Metadata["route"] != "raydium" {
		t.Errorf("store shares metadata with caller: %v", got.Metadata["route"])
	}
}

func TestTradeStore_DuplicateKey(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trade := testTrade("trade1", time.Unix(1700000000, 0))
	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, trade)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Trade{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty id, got %v", err)
	}
}

func TestTradeStore_NotFound(t *testing.T) {
	store := NewTradeStore()

	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTradeStore_GetByTimeRange(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()
	base := time.Unix(1700000000, 0)

	for _, tr := range []*domain.Trade{
		testTrade("t3", base.Add(3*time.Hour)),
		testTrade("t1", base.Add(1*time.Hour)),
		testTrade("t2b", base.Add(2*time.Hour)),
		testTrade("t2a", base.Add(2*time.Hour)),
		testTrade("t0", base),
	} {
		if err := store.Insert(ctx, tr); err != nil {
			t.Fatalf("Insert %s: %v", tr.ID, err)
		}
	}

	got, err := store.GetByTimeRange(ctx, base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}

	want := []string{"t1", "t2a", "t2b"}
	if len(got) != len(want) {
		t.Fatalf("expected %d trades, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}

	// Zero start means no lower bound.
	got, _ = store.GetByTimeRange(ctx, time.Time{}, base.Add(time.Hour))
	if len(got) != 2 || got[0].ID != "t0" {
		t.Errorf("unbounded range: got %d trades", len(got))
	}

	all, _ := store.GetAll(ctx)
	if len(all) != 5 || all[4].ID != "t3" {
		t.Errorf("GetAll returned unexpected order")
	}
}

func TestEquityCurveStore_AppendAndRange(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()
	base := time.Unix(1700000000, 0)

	for i := 0; i < 3; i++ {
		p := &domain.EquityCurvePoint{Timestamp: base.Add(time.Duration(i) * time.Minute), Balance: 10 + float64(i)}
		if err := store.Append(ctx, p); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	if err := store.Append(ctx, &domain.EquityCurvePoint{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	got, _ := store.GetByTimeRange(ctx, base.Add(time.Minute), base.Add(time.Hour))
	if len(got) != 2 || got[0].Balance != 11 {
		t.Errorf("unexpected range result: %+v", got)
	}

	all, _ := store.GetAll(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 points, got %d", len(all))
	}
}
