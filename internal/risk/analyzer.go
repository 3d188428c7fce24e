package risk

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/observability"
)

// DefaultTimeout bounds every provider call.
const DefaultTimeout = 10 * time.Second

// Market risk thresholds used by CombinedRiskScore.
const (
	PriceDropThreshold     = -30.0 // percent, 24h
	VeryLowLiquidityUSD    = 1000.0
	LowLiquidityUSD        = 5000.0
	MarketFactorAdjustment = 0.5
	MaxRiskScore           = 10.0
)

// Provider endpoints used as metric labels.
const (
	endpointRisk   = "risk"
	endpointMarket = "market"
	endpointStats  = "stats"
)

// Analyzer combines provider data and simulation into token risk reports.
// With no providers configured it runs in simulation mode.
type Analyzer struct {
	risk    RiskProvider
	market  MarketProvider
	stats   StatsProvider
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// AnalyzerOption configures Analyzer.
type AnalyzerOption func(*Analyzer)

// WithProvider uses p for every capability it implements.
func WithProvider(p any) AnalyzerOption {
	return func(a *Analyzer) {
		if rp, ok := p.(RiskProvider); ok {
			a.risk = rp
		}
		if mp, ok := p.(MarketProvider); ok {
			a.market = mp
		}
		if sp, ok := p.(StatsProvider); ok {
			a.stats = sp
		}
	}
}

// WithRiskProvider sets the risk data provider.
func WithRiskProvider(p RiskProvider) AnalyzerOption {
	return func(a *Analyzer) { a.risk = p }
}

// WithMarketProvider sets the market data provider.
func WithMarketProvider(p MarketProvider) AnalyzerOption {
	return func(a *Analyzer) { a.market = p }
}

// WithStatsProvider sets the token statistics provider.
func WithStatsProvider(p StatsProvider) AnalyzerOption {
	return func(a *Analyzer) { a.stats = p }
}

// WithCallTimeout bounds each provider call.
func WithCallTimeout(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) { a.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.logger = l }
}

// WithMetrics records provider latency and fallbacks.
func WithMetrics(m *observability.Metrics) AnalyzerOption {
	return func(a *Analyzer) { a.metrics = m }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer creates a risk analyzer.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("risk")
	if a.risk == nil && a.market == nil && a.stats == nil {
		a.logger.Warn("no risk provider configured, analysis will be simulated")
	}
	return a
}

// Simulated reports whether no provider is configured.
func (a *Analyzer) Simulated() bool {
	return a.risk == nil && a.market == nil && a.stats == nil
}

// GetTokenRisk returns the token's risk assessment. It never fails:
// provider errors fall back to SimulateRisk.
func (a *Analyzer) GetTokenRisk(ctx context.Context, address string) domain.RiskAssessment {
	return a.RiskResult(ctx, address).Data
}

// RiskResult resolves the risk assessment together with its source.
func (a *Analyzer) RiskResult(ctx context.Context, address string) ProviderResult[domain.RiskAssessment] {
	var call func(context.Context) (RiskPayload, error)
	if a.risk != nil {
		call = func(ctx context.Context) (RiskPayload, error) { return a.risk.FetchRisk(ctx, address) }
	}

	res := callProvider(ctx, a, endpointRisk, address, call)
	if res.Source != SourceReal {
		return ProviderResult[domain.RiskAssessment]{Data: SimulateRisk(address), Source: SourceSimulated, Err: res.Err}
	}
	return ProviderResult[domain.RiskAssessment]{Data: classify(address, res.Data), Source: SourceReal}
}

// GetTokenMarketData returns market data, falling back to SimulateMarket.
func (a *Analyzer) GetTokenMarketData(ctx context.Context, address string) domain.MarketData {
	var call func(context.Context) (domain.MarketData, error)
	if a.market != nil {
		call = func(ctx context.Context) (domain.MarketData, error) { return a.market.FetchMarket(ctx, address) }
	}

	res := callProvider(ctx, a, endpointMarket, address, call)
	if res.Source != SourceReal {
		return SimulateMarket(address)
	}
	res.Data.TokenAddress = address
	return res.Data
}

// GetTokenStats returns 24h trading statistics, falling back to SimulateStats.
func (a *Analyzer) GetTokenStats(ctx context.Context, address string) domain.TokenStats {
	var call func(context.Context) (domain.TokenStats, error)
	if a.stats != nil {
		call = func(ctx context.Context) (domain.TokenStats, error) { return a.stats.FetchStats(ctx, address) }
	}

	res := callProvider(ctx, a, endpointStats, address, call)
	if res.Source != SourceReal {
		return SimulateStats(address)
	}
	res.Data.TokenAddress = address
	return res.Data
}

// Analyze builds the comprehensive token report.
func (a *Analyzer) Analyze(ctx context.Context, address string) domain.TokenReport {
	riskData := a.GetTokenRisk(ctx, address)
	market := a.GetTokenMarketData(ctx, address)
	stats := a.GetTokenStats(ctx, address)

	score, explanation := CombinedRiskScore(riskData, market, stats)

	return domain.TokenReport{
		TokenAddress:  address,
		Risk:          riskData,
		Market:        market,
		Stats:         stats,
		CombinedScore: score,
		Explanation:   explanation,
		Timestamp:     a.now(),
	}
}

// callProvider runs one bounded provider call, recording latency and fallbacks.
func callProvider[T any](ctx context.Context, a *Analyzer, endpoint, address string, call func(context.Context) (T, error)) ProviderResult[T] {
	if call == nil {
		return fetch[T](ctx, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	started := time.Now()
	res := fetch(callCtx, call)
	a.metrics.RecordProviderCall(endpoint, time.Since(started), res.Err)

	if res.Source == SourceUnavailable {
		a.metrics.RecordProviderFallback(endpoint)
		a.logger.Warn("provider call failed, using simulation",
			zap.String("endpoint", endpoint),
			zap.String("token", address),
			zap.Error(res.Err))
	}
	return res
}

// classify sorts provider factors into warning, danger and liquidity buckets.
func classify(address string, p RiskPayload) domain.RiskAssessment {
	r := domain.RiskAssessment{
		TokenAddress:     address,
		RiskScore:        clampScore(p.Score),
		IsRugged:         p.Rugged,
		WarningFactors:   []domain.RiskFactor{},
		DangerFactors:    []domain.RiskFactor{},
		LiquidityFactors: []domain.RiskFactor{},
		TotalRiskFactors: len(p.Risks),
	}

	for _, f := range p.Risks {
		switch strings.ToLower(f.Severity) {
		case domain.SeverityWarning:
			r.WarningFactors = append(r.WarningFactors, f)
		case domain.SeverityDanger:
			r.DangerFactors = append(r.DangerFactors, f)
		default:
			if strings.Contains(strings.ToLower(f.Name), "liquidity") {
				r.LiquidityFactors = append(r.LiquidityFactors, f)
			}
		}
	}
	return r
}

// CombinedRiskScore adjusts the base risk score with market risk factors and
// explains the result. Each factor adds 0.5, capped at 10. The returned score
// is rounded half to even; the category uses the unrounded score.
func CombinedRiskScore(r domain.RiskAssessment, market domain.MarketData, _ domain.TokenStats) (int, string) {
	var factors []string
	if market.PriceChange24h < PriceDropThreshold {
		factors = append(factors, "Significant price drop in last 24h")
	}
	switch {
	case market.LiquidityUSD < VeryLowLiquidityUSD:
		factors = append(factors, "Very low liquidity")
	case market.LiquidityUSD < LowLiquidityUSD:
		factors = append(factors, "Low liquidity")
	}

	adjusted := float64(r.RiskScore)
	for range factors {
		adjusted = math.Min(MaxRiskScore, adjusted+MarketFactorAdjustment)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Base risk score: %d/10", r.RiskScore)
	if r.IsRugged {
		sb.WriteString(" (WARNING: Token appears to be rugged)")
	}
	if len(factors) > 0 {
		sb.WriteString("\nMarket risk factors: " + strings.Join(factors, ", "))
	}
	if len(r.DangerFactors) > 0 {
		names := make([]string, len(r.DangerFactors))
		for i, f := range r.DangerFactors {
			names[i] = f.Name
		}
		sb.WriteString("\nDanger factors: " + strings.Join(names, ", "))
	}
	sb.WriteString("\nRisk category: " + domain.CategoryFor(adjusted))

	return int(math.RoundToEven(adjusted)), sb.String()
}
