package reporting

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"solana-trade-desk/internal/domain"
)

// lamportPlaces is the precision of SOL amounts in exports.
const lamportPlaces = 9

var tradeHeader = []string{
	"id", "timestamp", "symbol", "action", "platform",
	"amount", "price", "value", "tx_ref", "success",
	"profit_loss", "fees", "metadata",
}

var equityHeader = []string{"timestamp", "balance", "session_pnl", "total_pnl"}

// RenderTradesCSV renders trades as CSV. Missing P&L is an empty cell.
func RenderTradesCSV(trades []*domain.Trade) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(tradeHeader); err != nil {
		return "", err
	}

	for _, t := range trades {
		pl := ""
		if v, ok := t.PnL(); ok {
			pl = formatAmount(v)
		}
		meta := ""
		if len(t.Metadata) > 0 {
			b, err := json.Marshal(t.Metadata)
			if err != nil {
				return "", err
			}
			meta = string(b)
		}

		record := []string{
			t.ID,
			t.Timestamp.UTC().Format(time.RFC3339Nano),
			t.Symbol,
			string(t.Action),
			t.Platform,
			formatAmount(t.Amount),
			formatAmount(t.Price),
			formatAmount(t.Value),
			t.TxRef,
			strconv.FormatBool(t.Success),
			pl,
			formatAmount(t.Fees),
			meta,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}

// RenderEquityCurveCSV renders equity curve points as CSV.
func RenderEquityCurveCSV(points []*domain.EquityCurvePoint) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(equityHeader); err != nil {
		return "", err
	}

	for _, p := range points {
		record := []string{
			p.Timestamp.UTC().Format(time.RFC3339Nano),
			formatAmount(p.Balance),
			formatAmount(p.SessionPnL),
			formatAmount(p.TotalPnL),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}

// formatAmount rounds to lamport precision and drops float noise and trailing zeros.
func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).Round(lamportPlaces).String()
}
