package domain

import "time"

// Recommendation labels.
const (
	RecommendationExtremeRisk = "DO NOT TRADE — EXTREME RISK"
	RecommendationHighRisk    = "CAUTION — HIGH RISK"
	RecommendationTrade       = "RECOMMENDED TRADE"
	RecommendationPotential   = "POTENTIAL OPPORTUNITY"
	RecommendationNotAdvised  = "NOT RECOMMENDED"
)

// Reasoning sources.
const (
	ReasoningSourceModel     = "model"
	ReasoningSourceHeuristic = "heuristic"
)

// TokenAnalysis combines a token's risk report with the reasoning verdict.
type TokenAnalysis struct {
	TokenAddress    string         `json:"token_address"`
	Symbol          string         `json:"symbol"`
	Report          TokenReport    `json:"report"`
	Signals         map[string]any `json:"signals"`
	ShouldTrade     bool           `json:"should_trade"`
	Confidence      float64        `json:"confidence"`
	AIReasoning     string         `json:"ai_reasoning"`
	ReasoningSource string         `json:"reasoning_source"`
	Timestamp       time.Time      `json:"timestamp"`
}

// TradingRecommendation is the final bounded recommendation for a proposed trade.
// RecommendedAmount never exceeds OriginalAmount.
type TradingRecommendation struct {
	TokenSymbol       string       `json:"token_symbol"`
	TokenAddress      string       `json:"token_address"`
	Recommendation    string       `json:"recommendation"`
	Explanation       string       `json:"explanation"`
	RiskScore         int          `json:"risk_score"`
	ConfidenceScore   float64      `json:"confidence_score"`
	RecommendedAmount float64      `json:"recommended_amount"`
	OriginalAmount    float64      `json:"original_amount"`
	AIReasoning       string       `json:"ai_reasoning"`
	RiskFactors       []RiskFactor `json:"risk_factors"`
}
