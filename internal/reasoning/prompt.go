package reasoning

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"solana-trade-desk/internal/domain"
)

// HistoryWindow is the number of most recent history points sent to the model.
const HistoryWindow = 5

// Defaults applied to missing reply fields.
const (
	defaultDecision   = "HOLD"
	defaultConfidence = 0.5
	defaultReasoning  = "No reasoning provided"
)

// ErrParse wraps model replies that carry no usable JSON object.
var ErrParse = errors.New("parse model response")

// SystemPrompt instructs the model to answer with a JSON verdict.
const SystemPrompt = `You are an expert cryptocurrency trading analyst with deep knowledge of Solana tokens.
Your task is to analyze trading signals and market data to make trading decisions.

For each analysis request:
1. Carefully review all provided signals, market data, and token information
2. Consider both technical indicators and fundamental factors
3. Assess the current market conditions and token-specific developments
4. Provide a clear trading recommendation (BUY, SELL, or HOLD)
5. Include a confidence score between 0.0 and 1.0 (where 1.0 is highest confidence)
6. Explain your reasoning in a structured manner

Your response must be in JSON format with these keys:
{
    "decision": "BUY|SELL|HOLD",
    "confidence_score": float,
    "reasoning": "Your detailed analysis explaining the decision"
}`

// BuildPrompt renders the user prompt for one token.
func BuildPrompt(ticker string, signals map[string]any, market any, history []map[string]any, tokenInfo map[string]any) (string, error) {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	if history == nil {
		history = []map[string]any{}
	}

	sections := []struct {
		title string
		value any
	}{
		{"Trading Signals", signals},
		{"Current Market Data", market},
		{"Recent Historical Data", history},
		{"Token Information", tokenInfo},
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Please analyze the following trading data for %s and provide a trading recommendation:\n", ticker)
	for _, s := range sections {
		b, err := json.MarshalIndent(s.value, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", strings.ToLower(s.title), err)
		}
		fmt.Fprintf(&sb, "\n## %s\n%s\n", s.title, b)
	}
	sb.WriteString("\nBased on this data, should I buy, sell, or hold this token? " +
		"Provide your analysis as structured JSON with decision, confidence_score, and reasoning.\n")
	return sb.String(), nil
}

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")
)

// extractJSON picks the JSON candidate out of a model reply: a fenced json
// block, else the span from the first '{' to the last '}', else the whole text.
func extractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// ParseResponse converts a model reply into a Decision.
func ParseResponse(text string) (Decision, error) {
	var reply map[string]any
	dec := json.NewDecoder(strings.NewReader(extractJSON(text)))
	dec.UseNumber()
	if err := dec.Decode(&reply); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	decision := defaultDecision
	if v, ok := reply["decision"].(string); ok && v != "" {
		decision = strings.ToUpper(strings.TrimSpace(v))
	}

	confidence := defaultConfidence
	if v, ok := reply["confidence_score"]; ok && v != nil {
		c, err := toFloat(v)
		if err != nil {
			return Decision{}, fmt.Errorf("%w: confidence_score: %v", ErrParse, err)
		}
		confidence = clamp01(c)
	}

	reasoning := defaultReasoning
	switch v := reply["reasoning"].(type) {
	case nil:
	case string:
		reasoning = v
	default:
		b, _ := json.Marshal(v)
		reasoning = string(b)
	}

	return Decision{
		ShouldTrade: decision == "BUY" || decision == "SELL",
		Confidence:  confidence,
		Reasoning:   reasoning,
		Source:      domain.ReasoningSourceModel,
	}, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return defaultConfidence
	}
	return math.Max(0, math.Min(1, v))
}
