// Package orchestrator combines token risk analysis with reasoning into a
// bounded trading recommendation.
// Flow: risk analysis → signals → reasoning → decision table
package orchestrator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/observability"
	"solana-trade-desk/internal/reasoning"
	"solana-trade-desk/internal/solana"
)

// DefaultChainTimeout bounds the optional on-chain mint lookup.
const DefaultChainTimeout = 5 * time.Second

// TokenAnalyzer produces the comprehensive risk report of a token.
type TokenAnalyzer interface {
	Analyze(ctx context.Context, address string) domain.TokenReport
}

// Reasoner turns signals into a trade decision.
type Reasoner interface {
	AnalyzeSignals(ctx context.Context, ticker string, signals map[string]any, market any, history []map[string]any, tokenInfo map[string]any) reasoning.Decision
}

// AnalysisCache caches token analyses. Get returns nil on a miss.
type AnalysisCache interface {
	Get(ctx context.Context, address, symbol string) (*domain.TokenAnalysis, error)
	Set(ctx context.Context, a *domain.TokenAnalysis) error
}

// Orchestrator coordinates risk analysis, reasoning and the decision table.
type Orchestrator struct {
	analyzer TokenAnalyzer
	reasoner Reasoner

	// Optional collaborators
	cache AnalysisCache
	chain solana.MintReader

	chainTimeout time.Duration
	logger       *zap.Logger
	metrics      *observability.Metrics
	now          func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Analyzer TokenAnalyzer
	Reasoner Reasoner

	// Optional
	Cache        AnalysisCache
	Chain        solana.MintReader
	ChainTimeout time.Duration
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Clock        func() time.Time
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		analyzer:     opts.Analyzer,
		reasoner:     opts.Reasoner,
		cache:        opts.Cache,
		chain:        opts.Chain,
		chainTimeout: opts.ChainTimeout,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		now:          opts.Clock,
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.logger = o.logger.Named("orchestrator")
	if o.chainTimeout <= 0 {
		o.chainTimeout = DefaultChainTimeout
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// AnalyzeTokenWithReasoning runs the risk analysis of a token and asks the
// reasoner for a verdict on it. It always returns a value.
func (o *Orchestrator) AnalyzeTokenWithReasoning(ctx context.Context, address, symbol string) domain.TokenAnalysis {
	if cached := o.cached(ctx, address, symbol); cached != nil {
		return *cached
	}

	report := o.analyzer.Analyze(ctx, address)
	signals := Signals(report)
	tokenInfo := o.tokenInfo(ctx, report, symbol)

	d := o.reasoner.AnalyzeSignals(ctx, symbol, signals, report.Market, nil, tokenInfo)

	analysis := domain.TokenAnalysis{
		TokenAddress:    address,
		Symbol:          symbol,
		Report:          report,
		Signals:         signals,
		ShouldTrade:     d.ShouldTrade,
		Confidence:      d.Confidence,
		AIReasoning:     d.Reasoning,
		ReasoningSource: d.Source,
		Timestamp:       o.now(),
	}

	if o.cache != nil {
		if err := o.cache.Set(ctx, &analysis); err != nil {
			o.logger.Warn("cache analysis failed", zap.String("token", address), zap.Error(err))
		}
	}
	return analysis
}

// GetTradingRecommendation analyzes the token and applies the decision table
// to the proposed amount. It always returns a value.
func (o *Orchestrator) GetTradingRecommendation(ctx context.Context, symbol, address string, amount float64) domain.TradingRecommendation {
	a := o.AnalyzeTokenWithReasoning(ctx, address, symbol)

	score := a.Report.CombinedScore
	v := Decide(score, a.ShouldTrade, a.Confidence, amount)

	reasoningText := a.AIReasoning
	if reasoningText == "" {
		reasoningText = "No reasoning provided"
	}

	o.metrics.RecordRecommendation(v.Recommendation)
	o.logger.Info("trading recommendation",
		zap.String("symbol", symbol),
		zap.String("token", address),
		zap.Int("risk_score", score),
		zap.Bool("should_trade", a.ShouldTrade),
		zap.Float64("confidence", a.Confidence),
		zap.String("recommendation", v.Recommendation),
		zap.Float64("recommended_amount", v.Amount))

	return domain.TradingRecommendation{
		TokenSymbol:       symbol,
		TokenAddress:      address,
		Recommendation:    v.Recommendation,
		Explanation:       v.Explanation,
		RiskScore:         score,
		ConfidenceScore:   a.Confidence,
		RecommendedAmount: v.Amount,
		OriginalAmount:    amount,
		AIReasoning:       reasoningText,
		RiskFactors:       a.Report.Risk.Factors(),
	}
}

// Signals extracts the reasoning inputs from a token report.
func Signals(r domain.TokenReport) map[string]any {
	return map[string]any{
		"risk_score":       r.CombinedScore,
		"safe_to_trade":    r.Risk.SafeToTrade(),
		"price_change_24h": r.Market.PriceChange24h,
		"price_change_7d":  r.Market.PriceChange7d,
	}
}

// RiskFactorStrings renders warning, danger and liquidity factors in that order.
func RiskFactorStrings(r domain.RiskAssessment) []string {
	out := make([]string, 0, len(r.WarningFactors)+len(r.DangerFactors)+len(r.LiquidityFactors))
	for _, f := range r.WarningFactors {
		if f.Name != "" {
			out = append(out, "Warning: "+f.Name)
		}
	}
	for _, f := range r.DangerFactors {
		if f.Name != "" {
			out = append(out, "DANGER: "+f.Name)
		}
	}
	for _, f := range r.LiquidityFactors {
		if f.Name != "" {
			out = append(out, "Liquidity: "+f.Name)
		}
	}
	return out
}

func (o *Orchestrator) tokenInfo(ctx context.Context, r domain.TokenReport, symbol string) map[string]any {
	info := map[string]any{
		"symbol":           symbol,
		"address":          r.TokenAddress,
		"risk_factors":     RiskFactorStrings(r.Risk),
		"risk_explanation": r.Explanation,
	}

	if on, err := solana.IsOnCurve(r.TokenAddress); err == nil {
		info["address_on_curve"] = on
	}

	if o.chain == nil {
		return info
	}
	chainCtx, cancel := context.WithTimeout(ctx, o.chainTimeout)
	defer cancel()

	mint, err := o.chain.GetMintInfo(chainCtx, r.TokenAddress)
	switch {
	case err == nil:
		info["mint_info"] = map[string]any{
			"decimals":         mint.Decimals,
			"supply":           mint.Supply,
			"mint_revoked":     mint.MintRevoked(),
			"freeze_revoked":   mint.FreezeRevoked(),
			"mint_authority":   mint.MintAuthority,
			"freeze_authority": mint.FreezeAuthority,
		}
	case errors.Is(err, solana.ErrInvalidAddress):
	default:
		o.logger.Warn("mint lookup failed", zap.String("token", r.TokenAddress), zap.Error(err))
	}
	return info
}

func (o *Orchestrator) cached(ctx context.Context, address, symbol string) *domain.TokenAnalysis {
	if o.cache == nil {
		return nil
	}
	a, err := o.cache.Get(ctx, address, symbol)
	if err != nil {
		o.logger.Warn("cache lookup failed", zap.String("token", address), zap.Error(err))
		return nil
	}
	o.metrics.RecordCacheLookup(a != nil)
	return a
}
