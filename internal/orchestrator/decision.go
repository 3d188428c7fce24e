package orchestrator

import (
	"fmt"

	"solana-trade-desk/internal/domain"
)

// Decision table thresholds.
const (
	ExtremeRiskScore     = 8
	HighRiskScore        = 6
	HighConfidence       = 0.8
	HighRiskPositionSize = 0.25
	PartialPositionSize  = 0.5
)

// Verdict is one row of the decision table applied to an amount.
type Verdict struct {
	Recommendation string
	Explanation    string
	Amount         float64
}

// Decide applies the decision table top-down; the first matching row wins.
// The returned amount never exceeds a non-negative input amount.
func Decide(score int, shouldTrade bool, confidence, amount float64) Verdict {
	switch {
	case score >= ExtremeRiskScore:
		return Verdict{
			Recommendation: domain.RecommendationExtremeRisk,
			Explanation:    fmt.Sprintf("This token has an extremely high risk score of %d/10.", score),
		}
	case score >= HighRiskScore && shouldTrade && confidence > HighConfidence:
		return Verdict{
			Recommendation: domain.RecommendationHighRisk,
			Explanation:    "Despite high risk, AI analysis suggests a potential opportunity with high confidence.",
			Amount:         amount * HighRiskPositionSize,
		}
	case score >= HighRiskScore:
		return Verdict{
			Recommendation: domain.RecommendationHighRisk,
			Explanation:    fmt.Sprintf("This token has a high risk score of %d/10. Trading not recommended.", score),
		}
	case shouldTrade && confidence > HighConfidence:
		return Verdict{
			Recommendation: domain.RecommendationTrade,
			Explanation:    "AI analysis indicates a favorable opportunity with high confidence.",
			Amount:         amount,
		}
	case shouldTrade:
		return Verdict{
			Recommendation: domain.RecommendationPotential,
			Explanation:    "AI analysis suggests a potential opportunity but with moderate confidence.",
			Amount:         amount * PartialPositionSize,
		}
	default:
		return Verdict{
			Recommendation: domain.RecommendationNotAdvised,
			Explanation:    "AI analysis does not support trading this token at this time.",
		}
	}
}
