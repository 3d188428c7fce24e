package risk

import (
	"math"

	"solana-trade-desk/internal/domain"
)

// Simulated factor names.
const (
	SimulatedWarning = "Simulated warning factor"
	SimulatedDanger  = "Simulated danger factor"
)

// AddressSeed is the sum of the address bytes. It seeds every simulation so
// results are reproducible for a given address.
func AddressSeed(address string) int {
	seed := 0
	for i := 0; i < len(address); i++ {
		seed += int(address[i])
	}
	return seed
}

// SimulateRisk derives a risk assessment from the address alone.
func SimulateRisk(address string) domain.RiskAssessment {
	score := AddressSeed(address)%10 + 1

	r := domain.RiskAssessment{
		TokenAddress:     address,
		RiskScore:        score,
		IsRugged:         score > 8,
		WarningFactors:   []domain.RiskFactor{},
		DangerFactors:    []domain.RiskFactor{},
		LiquidityFactors: []domain.RiskFactor{},
		Simulated:        true,
	}
	if score > 3 {
		r.WarningFactors = append(r.WarningFactors, domain.RiskFactor{
			Name: SimulatedWarning, Severity: domain.SeverityWarning, Score: 100,
		})
		r.TotalRiskFactors = 1
	}
	if score > 7 {
		r.DangerFactors = append(r.DangerFactors, domain.RiskFactor{
			Name: SimulatedDanger, Severity: domain.SeverityDanger, Score: 5000,
		})
	}
	return r
}

// SimulateMarket derives market data from the address alone.
func SimulateMarket(address string) domain.MarketData {
	seed := AddressSeed(address)
	price := round4(float64(seed%1000) / 100)
	change := float64(seed%40 - 20)

	return domain.MarketData{
		TokenAddress:   address,
		PriceUSD:       price,
		MarketCapUSD:   price * 1_000_000,
		LiquidityUSD:   price * 50_000,
		PriceChange1h:  change / 2,
		PriceChange24h: change,
		PriceChange7d:  change * 1.5,
		Simulated:      true,
	}
}

// SimulateStats derives 24h trading statistics from the address alone.
func SimulateStats(address string) domain.TokenStats {
	seed := AddressSeed(address)
	return domain.TokenStats{
		TokenAddress:     address,
		Buys24h:          seed % 50,
		Sells24h:         seed % 30,
		Volume24h:        float64(seed % 10000),
		UniqueBuyers24h:  seed % 20,
		UniqueSellers24h: seed % 15,
		Simulated:        true,
	}
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
