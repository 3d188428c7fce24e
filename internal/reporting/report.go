package reporting

import (
	"sort"
	"time"

	"solana-trade-desk/internal/domain"
)

// TopSymbols is the number of symbols listed in the report.
const TopSymbols = 5

// Report is a rendered-ready performance report for one period.
type Report struct {
	GeneratedAt time.Time
	Period      string
	Metrics     domain.PerformanceMetrics

	// Breakdowns sorted by P&L descending.
	Platforms []BreakdownRow
	Symbols   []BreakdownRow // at most TopSymbols rows
}

// BreakdownRow is one named platform or symbol line.
type BreakdownRow struct {
	Name string
	domain.Breakdown
}

// NewReport builds a report from computed metrics.
func NewReport(m domain.PerformanceMetrics, generatedAt time.Time) *Report {
	symbols := sortedBreakdown(m.BySymbol)
	if len(symbols) > TopSymbols {
		symbols = symbols[:TopSymbols]
	}

	return &Report{
		GeneratedAt: generatedAt,
		Period:      m.Period,
		Metrics:     m,
		Platforms:   sortedBreakdown(m.ByPlatform),
		Symbols:     symbols,
	}
}

// sortedBreakdown orders rows by P&L DESC, name ASC.
func sortedBreakdown(in map[string]domain.Breakdown) []BreakdownRow {
	rows := make([]BreakdownRow, 0, len(in))
	for name, b := range in {
		rows = append(rows, BreakdownRow{Name: name, Breakdown: b})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProfitLoss != rows[j].ProfitLoss {
			return rows[i].ProfitLoss > rows[j].ProfitLoss
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
