package reporting

import (
	"fmt"
	"strings"
	"time"

	"solana-trade-desk/internal/domain"
)

const ruleWidth = 60

// RenderText renders the report as a plain-text block.
func RenderText(r *Report) string {
	var sb strings.Builder
	m := r.Metrics

	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", 40)

	sb.WriteString(heavy + "\n")
	sb.WriteString(fmt.Sprintf("TRADING PERFORMANCE REPORT - %s\n", strings.ToUpper(r.Period)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(heavy + "\n\n")

	sb.WriteString("OVERVIEW\n" + light + "\n")
	sb.WriteString(fmt.Sprintf("Total Trades: %d\n", m.TotalTrades))
	sb.WriteString(fmt.Sprintf("Successful: %d\n", m.SuccessfulTrades))
	sb.WriteString(fmt.Sprintf("Failed: %d\n", m.FailedTrades))
	sb.WriteString(fmt.Sprintf("Win Rate: %.1f%%\n\n", m.WinRate*100))

	sb.WriteString("FINANCIAL PERFORMANCE\n" + light + "\n")
	sb.WriteString(fmt.Sprintf("Total Volume: %.4f SOL\n", m.TotalVolume))
	sb.WriteString(fmt.Sprintf("Gross Profit: %.4f SOL\n", m.GrossProfit))
	sb.WriteString(fmt.Sprintf("Gross Loss: %.4f SOL\n", m.GrossLoss))
	sb.WriteString(fmt.Sprintf("Total Fees: %.4f SOL\n", m.TotalFees))
	sb.WriteString(fmt.Sprintf("Net Profit: %+.4f SOL\n\n", m.NetProfit))

	sb.WriteString("RISK METRICS\n" + light + "\n")
	sb.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", m.ProfitFactor))
	sb.WriteString(fmt.Sprintf("Sharpe Ratio: %.2f\n", m.SharpeRatio))
	sb.WriteString(fmt.Sprintf("Max Drawdown: %.1f%%\n\n", m.MaxDrawdown*100))

	if m.BestTrade != nil {
		writeTrade(&sb, "BEST TRADE", m.BestTrade)
	}
	if m.WorstTrade != nil {
		writeTrade(&sb, "WORST TRADE", m.WorstTrade)
	}

	if len(r.Platforms) > 0 {
		sb.WriteString("PLATFORM BREAKDOWN\n" + light + "\n")
		for _, row := range r.Platforms {
			writeBreakdown(&sb, row)
		}
		sb.WriteString("\n")
	}

	if len(r.Symbols) > 0 {
		sb.WriteString(fmt.Sprintf("TOP %d SYMBOLS\n", TopSymbols) + light + "\n")
		for _, row := range r.Symbols {
			writeBreakdown(&sb, row)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(heavy + "\n")
	return sb.String()
}

func writeTrade(sb *strings.Builder, title string, t *domain.Trade) {
	pl, _ := t.PnL()
	sb.WriteString(title + "\n" + strings.Repeat("-", 40) + "\n")
	sb.WriteString(fmt.Sprintf("Symbol: %s\n", t.Symbol))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", t.Platform))
	sb.WriteString(fmt.Sprintf("Action: %s\n", t.Action))
	sb.WriteString(fmt.Sprintf("P&L: %+.4f SOL\n", pl))
	sb.WriteString(fmt.Sprintf("Date: %s\n\n", t.Timestamp.Format("2006-01-02 15:04:05")))
}

func writeBreakdown(sb *strings.Builder, row BreakdownRow) {
	sb.WriteString(fmt.Sprintf("%s: %d trades, %.4f SOL volume, %+.4f SOL P&L\n",
		row.Name, row.Trades, row.Volume, row.ProfitLoss))
}
