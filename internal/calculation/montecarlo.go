package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// DefaultNumSimulations is the run count used when a config carries none.
const DefaultNumSimulations = 1000

// returnDistribution is the (mean, stddev) pair behind one risk profile.
type returnDistribution struct {
	Mean   float64
	StdDev float64
}

var riskProfileReturns = map[domain.RiskProfile]returnDistribution{
	domain.RiskConservative: {Mean: 0.05, StdDev: 0.06},
	domain.RiskModerate:     {Mean: 0.07, StdDev: 0.12},
	domain.RiskAggressive:   {Mean: 0.09, StdDev: 0.18},
}

// MonteCarloConfig holds the scalar inputs for one simulation run.
type MonteCarloConfig struct {
	CurrentBalance     decimal.Decimal    `yaml:"current_balance" json:"current_balance"`
	AnnualContribution decimal.Decimal    `yaml:"annual_contribution" json:"annual_contribution"`
	AnnualWithdrawal   decimal.Decimal    `yaml:"annual_withdrawal" json:"annual_withdrawal"`
	YearsToRetirement  int                `yaml:"years_to_retirement" json:"years_to_retirement"`
	TotalYears         int                `yaml:"total_years" json:"total_years"`
	NumSimulations     int                `yaml:"num_simulations" json:"num_simulations"`
	RiskProfile        domain.RiskProfile `yaml:"risk_profile" json:"risk_profile"`
	Seed               int64              `yaml:"seed" json:"seed"` // 0 means wall clock
}

// MonteCarloEngine samples randomized portfolio paths around a risk profile.
type MonteCarloEngine struct {
	Logger Logger
}

// NewMonteCarloEngine creates a simulation engine.
func NewMonteCarloEngine() *MonteCarloEngine {
	return &MonteCarloEngine{Logger: NopLogger{}}
}

// SetLogger installs a logger; nil restores the no-op logger.
func (mce *MonteCarloEngine) SetLogger(logger Logger) {
	if logger == nil {
		mce.Logger = NopLogger{}
		return
	}
	mce.Logger = logger
}

// DeriveMonteCarloConfig aggregates a resolved plan into simulation scalars:
// every investable account as the starting balance, combined household
// contributions, and the retirement spending target as the withdrawal.
func DeriveMonteCarloConfig(cfg *domain.PlanConfig, profile *domain.FinancialProfile) MonteCarloConfig {
	contribution := cfg.Contributions.Total()
	if cfg.HasSpouse() {
		contribution = contribution.Add(cfg.Spouse.Contributions.Total())
	}
	withdrawal := cfg.DesiredRetirementSpending
	if !withdrawal.GreaterThan(decimal.Zero) {
		withdrawal = annualExpenses(profile)
	}
	yearsToRetirement := cfg.RetirementAge - cfg.StartAge
	if yearsToRetirement < 0 {
		yearsToRetirement = 0
	}
	return MonteCarloConfig{
		CurrentBalance:     profile.InvestableBalance(),
		AnnualContribution: contribution,
		AnnualWithdrawal:   withdrawal,
		YearsToRetirement:  yearsToRetirement,
		TotalYears:         cfg.Years(),
		RiskProfile:        cfg.RiskProfile,
	}
}

// RunSimulation runs NumSimulations independent paths over TotalYears and
// summarizes them: per-year 10th/50th/90th percentile bands, the share of
// paths that end above zero, and the median ending balance. Balances clamp
// at zero, so once a retired path is ruined it stays ruined.
func (mce *MonteCarloEngine) RunSimulation(ctx context.Context, cfg MonteCarloConfig) (*domain.MonteCarloResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.TotalYears <= 0 {
		return nil, fmt.Errorf("total years must be positive, got %d", cfg.TotalYears)
	}
	if cfg.YearsToRetirement < 0 {
		return nil, fmt.Errorf("years to retirement cannot be negative, got %d", cfg.YearsToRetirement)
	}
	if cfg.NumSimulations <= 0 {
		cfg.NumSimulations = DefaultNumSimulations
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	dist, ok := riskProfileReturns[cfg.RiskProfile]
	if !ok {
		dist = riskProfileReturns[domain.RiskModerate]
	}

	mce.Logger.Debugf("monte carlo: %d paths over %d years, profile %s, seed %d",
		cfg.NumSimulations, cfg.TotalYears, cfg.RiskProfile, cfg.Seed)

	// One goroutine per path. Rows of the matrix are disjoint and each
	// goroutine carries its own seeded source, so no locking is needed and
	// a fixed seed reproduces the whole run.
	paths := make([][]decimal.Decimal, cfg.NumSimulations)
	var wg sync.WaitGroup
	for i := 0; i < cfg.NumSimulations; i++ {
		wg.Add(1)
		go func(simID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(simID)))
			paths[simID] = runPath(cfg, dist, rng)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return summarizePaths(cfg, paths), nil
}

// runPath walks one balance trajectory: grow by the sampled return, apply
// the year's contribution or withdrawal, clamp at zero.
func runPath(cfg MonteCarloConfig, dist returnDistribution, rng *rand.Rand) []decimal.Decimal {
	path := make([]decimal.Decimal, cfg.TotalYears+1)
	path[0] = cfg.CurrentBalance

	balance := cfg.CurrentBalance
	for year := 1; year <= cfg.TotalYears; year++ {
		annualReturn := decimal.NewFromFloat(rng.NormFloat64()*dist.StdDev + dist.Mean)
		balance = balance.Mul(decimalOne.Add(annualReturn))

		if year <= cfg.YearsToRetirement {
			balance = balance.Add(cfg.AnnualContribution)
		} else {
			balance = balance.Sub(cfg.AnnualWithdrawal)
		}
		if balance.LessThan(decimal.Zero) {
			balance = decimal.Zero
		}
		path[year] = balance
	}
	return path
}

func summarizePaths(cfg MonteCarloConfig, paths [][]decimal.Decimal) *domain.MonteCarloResult {
	years := make([]int, cfg.TotalYears+1)
	for i := range years {
		years[i] = i
	}

	percentiles := map[string][]decimal.Decimal{
		domain.Percentile10: make([]decimal.Decimal, cfg.TotalYears+1),
		domain.Percentile50: make([]decimal.Decimal, cfg.TotalYears+1),
		domain.Percentile90: make([]decimal.Decimal, cfg.TotalYears+1),
	}
	column := make([]decimal.Decimal, cfg.NumSimulations)
	for year := 0; year <= cfg.TotalYears; year++ {
		for sim := range paths {
			column[sim] = paths[sim][year]
		}
		sort.Slice(column, func(i, j int) bool { return column[i].LessThan(column[j]) })
		percentiles[domain.Percentile10][year] = getPercentile(column, 0.1)
		percentiles[domain.Percentile50][year] = getPercentile(column, 0.5)
		percentiles[domain.Percentile90][year] = getPercentile(column, 0.9)
	}

	finals := make([]decimal.Decimal, cfg.NumSimulations)
	successes := 0
	for i := range paths {
		finals[i] = paths[i][cfg.TotalYears]
		if finals[i].GreaterThan(decimal.Zero) {
			successes++
		}
	}
	successRate := decimal.NewFromInt(int64(successes)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(cfg.NumSimulations))).
		Round(1)

	return &domain.MonteCarloResult{
		Years:               years,
		Percentiles:         percentiles,
		SuccessRate:         successRate,
		MedianEndingBalance: calculateMedian(finals),
		NumSimulations:      cfg.NumSimulations,
		RiskProfile:         cfg.RiskProfile,
	}
}

// Helper functions for statistical calculations
func calculateMedian(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
	}
	return sorted[mid]
}

// getPercentile reads a percentile from a sorted slice with linear
// interpolation between neighbors.
func getPercentile(values []decimal.Decimal, percentile float64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	index := percentile * float64(len(values)-1)
	if index == float64(int(index)) {
		return values[int(index)]
	}

	lower := values[int(index)]
	upper := values[int(index)+1]
	fraction := decimal.NewFromFloat(index - float64(int(index)))

	return lower.Add(upper.Sub(lower).Mul(fraction))
}
