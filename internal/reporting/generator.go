package reporting

import (
	"context"
	"fmt"
	"time"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/metrics"
)

// MetricsSource computes performance metrics for a period.
type MetricsSource interface {
	CalculateMetrics(ctx context.Context, p metrics.Period) (*domain.PerformanceMetrics, error)
}

// Generator produces reports from the ledger.
type Generator struct {
	source MetricsSource
	now    func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(source MetricsSource) *Generator {
	return &Generator{
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the report for one period.
func (g *Generator) Generate(ctx context.Context, p metrics.Period) (*Report, error) {
	m, err := g.source.CalculateMetrics(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("calculate %s metrics: %w", p, err)
	}
	return NewReport(*m, g.now()), nil
}

// GenerateText produces the rendered text report for one period.
func (g *Generator) GenerateText(ctx context.Context, p metrics.Period) (string, error) {
	r, err := g.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	return RenderText(r), nil
}
