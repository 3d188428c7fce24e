package domain

import "time"

// Risk factor severity levels reported by the risk provider.
const (
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Risk categories derived from a 0-10 score.
const (
	CategoryLow      = "Low Risk"
	CategoryModerate = "Moderate Risk"
	CategoryHigh     = "High Risk"
	CategoryExtreme  = "Extreme Risk"
)

// SafeToTradeThreshold is the exclusive upper bound of tradable risk scores.
const SafeToTradeThreshold = 7

// RiskFactor is one named contributor to a token's risk.
type RiskFactor struct {
	Name     string  `json:"name"`
	Severity string  `json:"severity"`
	Score    float64 `json:"score"`
}

// RiskAssessment is the per-token risk view. Not persisted.
type RiskAssessment struct {
	TokenAddress     string       `json:"token_address"`
	RiskScore        int          `json:"risk_score"` // 0..10
	IsRugged         bool         `json:"is_rugged"`
	WarningFactors   []RiskFactor `json:"warning_factors"`
	DangerFactors    []RiskFactor `json:"danger_factors"`
	LiquidityFactors []RiskFactor `json:"liquidity_factors"`
	TotalRiskFactors int          `json:"total_risk_factors"`
	Simulated        bool         `json:"simulated"`
}

// CategoryFor maps a risk score to its category.
func CategoryFor(score float64) string {
	switch {
	case score <= 3:
		return CategoryLow
	case score <= 6:
		return CategoryModerate
	case score <= 8:
		return CategoryHigh
	default:
		return CategoryExtreme
	}
}

// Category returns the category of the assessment's score.
func (r RiskAssessment) Category() string {
	return CategoryFor(float64(r.RiskScore))
}

// SafeToTrade reports whether score < 7 and the token is not rugged.
func (r RiskAssessment) SafeToTrade() bool {
	return r.RiskScore < SafeToTradeThreshold && !r.IsRugged
}

// Factors returns warning factors followed by danger factors.
func (r RiskAssessment) Factors() []RiskFactor {
	out := make([]RiskFactor, 0, len(r.WarningFactors)+len(r.DangerFactors))
	out = append(out, r.WarningFactors...)
	out = append(out, r.DangerFactors...)
	return out
}

// MarketData is a token's market snapshot.
type MarketData struct {
	TokenAddress   string  `json:"token_address"`
	PriceUSD       float64 `json:"price_usd"`
	MarketCapUSD   float64 `json:"market_cap_usd"`
	LiquidityUSD   float64 `json:"liquidity_usd"`
	PriceChange1h  float64 `json:"price_change_1h"`  // percent
	PriceChange24h float64 `json:"price_change_24h"` // percent
	PriceChange7d  float64 `json:"price_change_7d"`  // percent
	Simulated      bool    `json:"simulated"`
}

// TokenStats holds 24h trading activity for a token.
type TokenStats struct {
	TokenAddress     string  `json:"token_address"`
	Buys24h          int     `json:"buys_24h"`
	Sells24h         int     `json:"sells_24h"`
	Volume24h        float64 `json:"volume_24h"`
	UniqueBuyers24h  int     `json:"unique_buyers_24h"`
	UniqueSellers24h int     `json:"unique_sellers_24h"`
	Simulated        bool    `json:"simulated"`
}

// TokenReport is the comprehensive risk analysis of one token.
type TokenReport struct {
	TokenAddress  string         `json:"token_address"`
	Risk          RiskAssessment `json:"risk"`
	Market        MarketData     `json:"market"`
	Stats         TokenStats     `json:"stats"`
	CombinedScore int            `json:"combined_risk_score"`
	Explanation   string         `json:"risk_explanation"`
	Timestamp     time.Time      `json:"timestamp"`
}
