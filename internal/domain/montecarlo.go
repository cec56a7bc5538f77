package domain

import "github.com/shopspring/decimal"

// Percentile keys used in MonteCarloResult.Percentiles.
const (
	Percentile10 = "10th"
	Percentile50 = "50th"
	Percentile90 = "90th"
)

// MonteCarloResult summarizes a batch of randomized portfolio paths. It is
// generated fresh per invocation and never persisted by the engine.
type MonteCarloResult struct {
	Years               []int                        `yaml:"years" json:"years"`
	Percentiles         map[string][]decimal.Decimal `yaml:"percentiles" json:"percentiles"`   // key -> balance per year
	SuccessRate         decimal.Decimal              `yaml:"success_rate" json:"success_rate"` // 0..100
	MedianEndingBalance decimal.Decimal              `yaml:"median_ending_balance" json:"median_ending_balance"`
	NumSimulations      int                          `yaml:"num_simulations" json:"num_simulations"`
	RiskProfile         RiskProfile                  `yaml:"risk_profile" json:"risk_profile"`
}

// Horizon is the number of simulated years after the starting column.
func (mc *MonteCarloResult) Horizon() int {
	if len(mc.Years) == 0 {
		return 0
	}
	return len(mc.Years) - 1
}

// Median returns the 50th percentile series.
func (mc *MonteCarloResult) Median() []decimal.Decimal {
	return mc.Percentiles[Percentile50]
}
