package domain

import "time"

// Breakdown aggregates trades for one platform or symbol.
type Breakdown struct {
	Trades     int     `json:"trades"`
	Volume     float64 `json:"volume"`      // successful trades only
	ProfitLoss float64 `json:"profit_loss"` // all trades with P&L present
}

// PerformanceMetrics is derived from the trades of one period window.
// Recomputed on demand, never stored.
type PerformanceMetrics struct {
	Period      string    `json:"period"`
	WindowStart time.Time `json:"window_start"` // zero for all-time
	WindowEnd   time.Time `json:"window_end"`

	// Counts
	TotalTrades      int `json:"total_trades"`
	SuccessfulTrades int `json:"successful_trades"`
	FailedTrades     int `json:"failed_trades"`

	// Financial (successful trades only)
	TotalVolume float64 `json:"total_volume"`
	TotalFees   float64 `json:"total_fees"`
	GrossProfit float64 `json:"gross_profit"`
	GrossLoss   float64 `json:"gross_loss"` // non-negative magnitude
	NetProfit   float64 `json:"net_profit"` // gross_profit - gross_loss - total_fees

	// Ratios
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	MaxDrawdown  float64 `json:"max_drawdown"`

	BestTrade  *Trade `json:"best_trade,omitempty"`
	WorstTrade *Trade `json:"worst_trade,omitempty"`

	ByPlatform map[string]Breakdown `json:"by_platform"`
	BySymbol   map[string]Breakdown `json:"by_symbol"`
}
