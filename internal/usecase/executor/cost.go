package executor

import (
	"math"

	"finance-agent/internal/domain/entity"
)

// Pricing is the model price in USD per million tokens.
type Pricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

func DefaultPricing() Pricing {
	return Pricing{InputPerMTok: 3, OutputPerMTok: 15}
}

// Cost returns the estimated USD cost of usage rounded to four decimals.
func (p Pricing) Cost(usage entity.TokenUsage) float64 {
	cost := float64(usage.InputTokens)*p.InputPerMTok/1_000_000 +
		float64(usage.OutputTokens)*p.OutputPerMTok/1_000_000
	return round(cost, 4)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
