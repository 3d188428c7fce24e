package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrade_ComputesValue(t *testing.T) {
	tr := NewTrade("t1", time.Unix(1700000000, 0), "BONK", ActionBuy, "jupiter", 2.5, 4)
	assert.Equal(t, 10.0, tr.Value)
	assert.NoError(t, tr.Validate())
}

func TestTrade_Validate(t *testing.T) {
	base := func() *Trade {
		return NewTrade("t1", time.Unix(1700000000, 0), "SOL", ActionStake, "marinade", 1, 100)
	}

	tests := []struct {
		name   string
		mutate func(*Trade)
	}{
		{"missing id", func(tr *Trade) { tr.ID = "" }},
		{"unknown action", func(tr *Trade) { tr.Action = "SWAP" }},
		{"negative fees", func(tr *Trade) { tr.Fees = -0.01 }},
		{"missing symbol", func(tr *Trade) { tr.Symbol = "" }},
		{"zero timestamp", func(tr *Trade) { tr.Timestamp = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := base()
			tt.mutate(tr)
			err := tr.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTrade))
		})
	}

	var nilTrade *Trade
	assert.ErrorIs(t, nilTrade.Validate(), ErrInvalidTrade)
}

func TestTrade_Clone(t *testing.T) {
	pl := 1.5
	tr := &Trade{ID: "t1", ProfitLoss: &pl, Metadata: map[string]any{"slippage": 0.01}}

	c := tr.Clone()
	*c.ProfitLoss = 9
	c.Metadata["slippage"] = 0.5

	assert.Equal(t, 1.5, *tr.ProfitLoss)
	assert.Equal(t, 0.01, tr.Metadata["slippage"])
}

func TestCategoryFor(t *testing.T) {
	want := map[int]string{
		0: CategoryLow, 1: CategoryLow, 2: CategoryLow, 3: CategoryLow,
		4: CategoryModerate, 5: CategoryModerate, 6: CategoryModerate,
		7: CategoryHigh, 8: CategoryHigh,
		9: CategoryExtreme, 10: CategoryExtreme,
	}
	for score, category := range want {
		if got := CategoryFor(float64(score)); got != category {
			t.Errorf("CategoryFor(%d) = %q, want %q", score, got, category)
		}
	}

	// Fractional adjusted scores fall into the next band.
	assert.Equal(t, CategoryModerate, CategoryFor(3.5))
	assert.Equal(t, CategoryExtreme, CategoryFor(8.5))
}

func TestRiskAssessment_SafeToTrade(t *testing.T) {
	assert.True(t, RiskAssessment{RiskScore: 6}.SafeToTrade())
	assert.False(t, RiskAssessment{RiskScore: 7}.SafeToTrade())
	assert.False(t, RiskAssessment{RiskScore: 2, IsRugged: true}.SafeToTrade())
}

func TestRiskAssessment_Factors(t *testing.T) {
	r := RiskAssessment{
		WarningFactors:   []RiskFactor{{Name: "w"}},
		DangerFactors:    []RiskFactor{{Name: "d"}},
		LiquidityFactors: []RiskFactor{{Name: "l"}},
	}
	f := r.Factors()
	require.Len(t, f, 2)
	assert.Equal(t, "w", f[0].Name)
	assert.Equal(t, "d", f[1].Name)
}
