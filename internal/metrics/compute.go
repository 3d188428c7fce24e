package metrics

import (
	"math"
	"sort"

	"solana-trade-desk/internal/domain"
)

// TradingDaysPerYear annualizes the per-trade Sharpe ratio.
const TradingDaysPerYear = 365

// Compute calculates performance metrics from a slice of trades.
// Trades are sorted by Timestamp ASC, ID ASC before computing
// order-dependent metrics (SharpeRatio, MaxDrawdown).
// Window fields are left for the caller to fill.
func Compute(trades []*domain.Trade) domain.PerformanceMetrics {
	m := domain.PerformanceMetrics{
		ByPlatform: make(map[string]domain.Breakdown),
		BySymbol:   make(map[string]domain.Breakdown),
	}

	n := len(trades)
	if n == 0 {
		return m
	}

	sorted := make([]*domain.Trade, n)
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})

	m.TotalTrades = n
	for _, t := range sorted {
		pl, hasPL := t.PnL()

		if t.Success {
			m.SuccessfulTrades++
			m.TotalVolume += t.Value
			m.TotalFees += t.Fees
			if hasPL {
				if pl > 0 {
					m.GrossProfit += pl
				} else if pl < 0 {
					m.GrossLoss += -pl
				}
			}
		} else {
			m.FailedTrades++
		}

		m.ByPlatform[t.Platform] = accumulate(m.ByPlatform[t.Platform], t)
		m.BySymbol[t.Symbol] = accumulate(m.BySymbol[t.Symbol], t)
	}

	m.NetProfit = m.GrossProfit - m.GrossLoss - m.TotalFees
	m.WinRate = computeWinRate(m.SuccessfulTrades, n)
	m.ProfitFactor = computeProfitFactor(m.GrossProfit, m.GrossLoss)
	m.SharpeRatio = computeSharpe(sorted)
	m.MaxDrawdown = computeMaxDrawdown(profitLosses(sorted))
	m.BestTrade, m.WorstTrade = bestAndWorst(sorted)

	return m
}

// accumulate adds one trade to a platform or symbol breakdown.
// Volume counts successful trades only; P&L counts every trade that has one.
func accumulate(b domain.Breakdown, t *domain.Trade) domain.Breakdown {
	b.Trades++
	if t.Success {
		b.Volume += t.Value
	}
	if pl, ok := t.PnL(); ok {
		b.ProfitLoss += pl
	}
	return b
}

// computeWinRate calculates win rate as successful / total.
func computeWinRate(successful, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total)
}

// computeProfitFactor returns gross profit / gross loss, 0 when there is no loss.
func computeProfitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss <= 0 {
		return 0
	}
	return grossProfit / grossLoss
}

// computeSharpe uses per-trade returns pl[i] / value[i-1] as a return proxy.
// Only trades with a present, non-zero P&L following a trade with positive
// value contribute. Annualized by sqrt(365) over population stddev.
func computeSharpe(trades []*domain.Trade) float64 {
	var returns []float64
	for i := 1; i < len(trades); i++ {
		pl, ok := trades[i].PnL()
		if !ok || pl == 0 {
			continue
		}
		prev := trades[i-1].Value
		if prev <= 0 {
			continue
		}
		returns = append(returns, pl/prev)
	}

	if len(returns) == 0 {
		return 0
	}

	mean := computeMean(returns)
	stddev := computePopulationStddev(returns, mean)
	if stddev == 0 {
		return 0
	}
	return mean * math.Sqrt(TradingDaysPerYear) / stddev
}

// computeMean calculates arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computePopulationStddev calculates standard deviation with an n denominator.
func computePopulationStddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// profitLosses extracts present, non-zero P&L values in order.
func profitLosses(trades []*domain.Trade) []float64 {
	var out []float64
	for _, t := range trades {
		if pl, ok := t.PnL(); ok && pl != 0 {
			out = append(out, pl)
		}
	}
	return out
}

// computeMaxDrawdown walks the cumulative P&L curve starting at 0.
// drawdown = (curve - running_max) / max(running_max, 1); the result is |min drawdown|.
func computeMaxDrawdown(pls []float64) float64 {
	cumulative := 0.0
	peak := 0.0
	worst := 0.0

	for _, pl := range pls {
		cumulative += pl
		if cumulative > peak {
			peak = cumulative
		}
		dd := (cumulative - peak) / math.Max(peak, 1)
		if dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst)
}

// bestAndWorst returns the trade with the largest positive P&L and the one
// with the most negative P&L. Ties keep the earliest trade.
func bestAndWorst(trades []*domain.Trade) (best, worst *domain.Trade) {
	for _, t := range trades {
		pl, ok := t.PnL()
		if !ok {
			continue
		}
		if pl > 0 {
			if best == nil || pl > *best.ProfitLoss {
				best = t
			}
		} else if pl < 0 {
			if worst == nil || pl < *worst.ProfitLoss {
				worst = t
			}
		}
	}
	if best != nil {
		best = best.Clone()
	}
	if worst != nil {
		worst = worst.Clone()
	}
	return best, worst
}
