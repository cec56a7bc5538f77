package compare

import (
	"context"
	"fmt"

	"github.com/nestegg/retirement-planner/internal/calculation"
	"github.com/nestegg/retirement-planner/internal/domain"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	ProjEngine *calculation.ProjectionEngine
	MCEngine   *calculation.MonteCarloEngine
	Metrics    *MetricsCalculator

	// Simulations enables a per-scenario Monte Carlo overlay when positive.
	Simulations int
	Seed        int64
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(projEngine *calculation.ProjectionEngine) *CompareEngine {
	return &CompareEngine{
		ProjEngine: projEngine,
		MCEngine:   calculation.NewMonteCarloEngine(),
		Metrics:    NewMetricsCalculator(),
	}
}

// Scenario pairs one resolved plan with its starting profile. The first
// scenario passed to CompareScenarios is the base everything else is
// measured against.
type Scenario struct {
	Source  string
	Config  *domain.PlanConfig
	Profile *domain.FinancialProfile
}

// CompareScenarios projects every scenario and reduces them to side-by-side
// outcomes with deltas against the base.
func (ce *CompareEngine) CompareScenarios(ctx context.Context, scenarios []Scenario) (*ComparisonSet, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("comparison requires at least one scenario")
	}

	outcomes := make([]ScenarioOutcome, 0, len(scenarios))
	for i := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sc := scenarios[i]
		result, err := ce.ProjEngine.RunPlan(sc.Config, sc.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to project scenario %q: %w", scenarioLabel(sc, i), err)
		}

		if ce.Simulations > 0 {
			mcCfg := calculation.DeriveMonteCarloConfig(sc.Config, sc.Profile)
			mcCfg.NumSimulations = ce.Simulations
			mcCfg.Seed = ce.Seed
			mc, err := ce.MCEngine.RunSimulation(ctx, mcCfg)
			if err != nil {
				return nil, fmt.Errorf("simulation failed for scenario %q: %w", scenarioLabel(sc, i), err)
			}
			result.MonteCarlo = mc
		}

		outcome := ce.Metrics.CalculateMetrics(result)
		outcome.Source = sc.Source
		outcomes = append(outcomes, outcome)
	}

	base := outcomes[0]
	alternatives := make([]ScenarioOutcome, 0, len(outcomes)-1)
	for _, alt := range outcomes[1:] {
		alternatives = append(alternatives, ce.Metrics.CalculateComparison(alt, base))
	}

	compSet := &ComparisonSet{
		BaseName:     base.Name,
		Base:         &base,
		Alternatives: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func scenarioLabel(sc Scenario, idx int) string {
	if sc.Config != nil && sc.Config.PlanName != "" {
		return sc.Config.PlanName
	}
	if sc.Source != "" {
		return sc.Source
	}
	return fmt.Sprintf("scenario %d", idx+1)
}
