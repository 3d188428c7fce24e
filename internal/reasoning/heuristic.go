package reasoning

import (
	"encoding/json"
	"fmt"
	"math"

	"solana-trade-desk/internal/domain"
)

// Heuristic confidence bounds.
const (
	heuristicBase     = 0.5
	heuristicStep     = 0.1
	heuristicMaxTrade = 0.9
	heuristicMinHold  = 0.1
)

// Heuristic decides from signal polarity alone. Booleans and numbers vote:
// true or > 0 is positive, false or < 0 is negative. Other values are ignored.
func Heuristic(signals map[string]any) Decision {
	var pos, neg int
	for _, v := range signals {
		switch polarity(v) {
		case 1:
			pos++
		case -1:
			neg++
		}
	}

	d := Decision{
		Reasoning: fmt.Sprintf("Heuristic analysis: %d positive signals vs %d negative signals", pos, neg),
		Source:    domain.ReasoningSourceHeuristic,
	}
	if pos > neg {
		d.ShouldTrade = true
		d.Confidence = math.Min(heuristicBase+heuristicStep*float64(pos-neg), heuristicMaxTrade)
	} else {
		d.Confidence = math.Max(heuristicBase-heuristicStep*float64(neg-pos), heuristicMinHold)
	}
	return d
}

// polarity returns 1, -1 or 0 for a signal value.
func polarity(v any) int {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return -1
	}

	f, ok := numeric(v)
	switch {
	case !ok || f == 0 || math.IsNaN(f):
		return 0
	case f > 0:
		return 1
	default:
		return -1
	}
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
