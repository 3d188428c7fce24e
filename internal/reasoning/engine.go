// Package reasoning turns trading signals into a trade decision using a
// language model, with a deterministic heuristic fallback.
package reasoning

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"solana-trade-desk/internal/observability"
)

// DefaultTimeout bounds one model call.
const DefaultTimeout = 30 * time.Second

// Completer sends a system and user prompt to a model and returns its text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Decision is the reasoning verdict for one token.
type Decision struct {
	ShouldTrade bool    `json:"should_trade"`
	Confidence  float64 `json:"confidence"` // 0..1
	Reasoning   string  `json:"reasoning"`
	Source      string  `json:"source"` // domain.ReasoningSource*
}

// Engine produces decisions. Without a Completer it is heuristic only.
type Engine struct {
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// Option configures Engine.
type Option func(*Engine)

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records decision sources and model latency.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a reasoning engine. completer may be nil.
func NewEngine(completer Completer, opts ...Option) *Engine {
	e := &Engine{
		completer: completer,
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("reasoning")
	if completer == nil {
		e.logger.Warn("no model configured, reasoning will use the heuristic")
	}
	return e
}

// AnalyzeSignals asks the model for a BUY/SELL/HOLD verdict. Any model error,
// timeout or unparseable reply falls back to Heuristic(signals).
func (e *Engine) AnalyzeSignals(ctx context.Context, ticker string, signals map[string]any, market any, history []map[string]any, tokenInfo map[string]any) Decision {
	if e.completer == nil {
		return e.fallback(signals)
	}

	prompt, err := BuildPrompt(ticker, signals, market, history, tokenInfo)
	if err != nil {
		e.logger.Error("build prompt failed", zap.String("ticker", ticker), zap.Error(err))
		return e.fallback(signals)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	text, err := e.completer.Complete(callCtx, SystemPrompt, prompt)
	e.metrics.ObserveModelLatency(time.Since(started))
	if err != nil {
		e.logger.Warn("model call failed, using heuristic", zap.String("ticker", ticker), zap.Error(err))
		return e.fallback(signals)
	}

	d, err := ParseResponse(text)
	if err != nil {
		e.logger.Warn("model reply unparseable, using heuristic", zap.String("ticker", ticker), zap.Error(err))
		return e.fallback(signals)
	}

	e.metrics.RecordReasoning(d.Source)
	return d
}

func (e *Engine) fallback(signals map[string]any) Decision {
	d := Heuristic(signals)
	e.metrics.RecordReasoning(d.Source)
	return d
}

// String renders the decision for logs.
func (d Decision) String() string {
	return fmt.Sprintf("trade=%v confidence=%.2f source=%s", d.ShouldTrade, d.Confidence, d.Source)
}
