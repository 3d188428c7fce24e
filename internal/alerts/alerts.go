// Package alerts watches performance metrics and notifies when drawdown,
// win rate or daily loss cross their thresholds.
package alerts

import (
	"fmt"
	"time"

	"solana-trade-desk/internal/domain"
)

// Kind identifies an alert condition.
type Kind string

const (
	KindDrawdown  Kind = "drawdown"
	KindWinRate   Kind = "win_rate"
	KindDailyLoss Kind = "daily_loss"
)

// Thresholds configures the alert conditions.
type Thresholds struct {
	MaxDrawdown         float64 `mapstructure:"max_drawdown"`            // fraction, alert when exceeded
	MinWinRate          float64 `mapstructure:"min_win_rate"`            // fraction
	MinTradesForWinRate int     `mapstructure:"min_trades_for_win_rate"` // win rate is ignored below this
	DailyLossLimit      float64 `mapstructure:"daily_loss_limit"`        // SOL, positive
}

// DefaultThresholds returns the default alert thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxDrawdown:         0.1,
		MinWinRate:          0.3,
		MinTradesForWinRate: 10,
		DailyLossLimit:      0.05,
	}
}

// Alert is one triggered condition.
type Alert struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Value   float64   `json:"value"`
	At      time.Time `json:"at"`
}

// Check evaluates all-time metrics and today's net profit against th.
func Check(all domain.PerformanceMetrics, todayNet float64, th Thresholds, at time.Time) []Alert {
	var out []Alert

	if all.MaxDrawdown > th.MaxDrawdown {
		out = append(out, Alert{
			Kind:    KindDrawdown,
			Message: fmt.Sprintf("High drawdown detected: %.2f%%", all.MaxDrawdown*100),
			Value:   all.MaxDrawdown,
			At:      at,
		})
	}

	if all.TotalTrades >= th.MinTradesForWinRate && all.WinRate < th.MinWinRate {
		out = append(out, Alert{
			Kind:    KindWinRate,
			Message: fmt.Sprintf("Low win rate: %.2f%%", all.WinRate*100),
			Value:   all.WinRate,
			At:      at,
		})
	}

	if todayNet < -th.DailyLossLimit {
		out = append(out, Alert{
			Kind:    KindDailyLoss,
			Message: fmt.Sprintf("Daily loss limit exceeded: %.4f SOL", todayNet),
			Value:   todayNet,
			At:      at,
		})
	}

	return out
}
