// Package risk scores Solana tokens from an external data provider and falls
// back to deterministic simulation when the provider is absent or failing.
package risk

import (
	"context"
	"errors"

	"solana-trade-desk/internal/domain"
)

// ErrProviderUnavailable is returned by providers that cannot serve a request.
// The analyzer recovers from it via simulation.
var ErrProviderUnavailable = errors.New("risk provider unavailable")

// RiskPayload is the provider's raw risk view of a token.
type RiskPayload struct {
	Score  float64
	Rugged bool
	Risks  []domain.RiskFactor
}

// RiskProvider fetches token risk data.
type RiskProvider interface {
	FetchRisk(ctx context.Context, address string) (RiskPayload, error)
}

// MarketProvider fetches token market data.
type MarketProvider interface {
	FetchMarket(ctx context.Context, address string) (domain.MarketData, error)
}

// StatsProvider fetches 24h token trading statistics.
type StatsProvider interface {
	FetchStats(ctx context.Context, address string) (domain.TokenStats, error)
}

// Source tells where a provider result came from.
type Source int

const (
	SourceUnavailable Source = iota
	SourceReal
	SourceSimulated
)

func (s Source) String() string {
	switch s {
	case SourceReal:
		return "real"
	case SourceSimulated:
		return "simulated"
	default:
		return "unavailable"
	}
}

// ProviderResult carries a value together with its origin.
type ProviderResult[T any] struct {
	Data   T
	Source Source
	Err    error // set when Source is SourceUnavailable
}

// fetch runs one provider call. A nil call or a failure yields SourceUnavailable.
func fetch[T any](ctx context.Context, call func(context.Context) (T, error)) ProviderResult[T] {
	if call == nil {
		return ProviderResult[T]{Source: SourceUnavailable, Err: ErrProviderUnavailable}
	}
	v, err := call(ctx)
	if err != nil {
		return ProviderResult[T]{Source: SourceUnavailable, Err: err}
	}
	return ProviderResult[T]{Data: v, Source: SourceReal}
}
