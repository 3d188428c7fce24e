package idhash

import (
	"testing"
	"time"
)

func TestComputeTradeID(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 34, 567000000, time.UTC)

	tests := []struct {
		name     string
		txRef    string
		symbol   string
		action   string
		platform string
	}{
		{"swap on jupiter", "4sGjMW1sUnHzSxGspuhpqLDx6wiyjNtZAMdL4VZHirAn", "BONK", "BUY", "jupiter"},
		{"stake on marinade", "3xbzPg7dpvBhn5K9rrbTEAnLuMJ5wD9eZjK2nMfqyxRV", "SOL", "STAKE", "marinade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTradeID(tt.txRef, tt.symbol, tt.action, tt.platform, ts)

			if len(got) != 64 {
				t.Errorf("ComputeTradeID() length = %d, want 64", len(got))
			}

			got2 := ComputeTradeID(tt.txRef, tt.symbol, tt.action, tt.platform, ts)
			if got != got2 {
				t.Errorf("ComputeTradeID() not deterministic: %s != %s", got, got2)
			}
		})
	}
}

func TestComputeTradeID_TimezoneIndependent(t *testing.T) {
	utc := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("UTC-5", -5*3600))

	if ComputeTradeID("sig", "SOL", "BUY", "jupiter", utc) != ComputeTradeID("sig", "SOL", "BUY", "jupiter", local) {
		t.Error("same instant in different zones should hash identically")
	}
}

func TestComputeTradeID_DifferentInputs(t *testing.T) {
	ts := time.Unix(1000, 0)
	base := ComputeTradeID("sig", "SOL", "BUY", "jupiter", ts)

	variants := map[string]string{
		"tx_ref":    ComputeTradeID("other", "SOL", "BUY", "jupiter", ts),
		"symbol":    ComputeTradeID("sig", "BONK", "BUY", "jupiter", ts),
		"action":    ComputeTradeID("sig", "SOL", "SELL", "jupiter", ts),
		"platform":  ComputeTradeID("sig", "SOL", "BUY", "raydium", ts),
		"timestamp": ComputeTradeID("sig", "SOL", "BUY", "jupiter", ts.Add(time.Nanosecond)),
	}

	for field, id := range variants {
		if id == base {
			t.Errorf("different %s should produce different hash", field)
		}
	}
}
