package calculation

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// SensitivityAnalyzer sweeps one plan assumption across a range and reruns
// the deterministic projection at each stop, showing how much a guess about
// the future moves the outcome.
type SensitivityAnalyzer struct {
	Engine *ProjectionEngine
}

// NewSensitivityAnalyzer creates an analyzer over the given engine.
func NewSensitivityAnalyzer(engine *ProjectionEngine) *SensitivityAnalyzer {
	return &SensitivityAnalyzer{Engine: engine}
}

// AnalyzeParameter runs a single-parameter sweep.
func (sa *SensitivityAnalyzer) AnalyzeParameter(ctx context.Context, cfg *domain.PlanConfig, profile *domain.FinancialProfile, param domain.SensitivityParameter) (*domain.SensitivityAnalysis, error) {
	if cfg == nil || profile == nil {
		return nil, fmt.Errorf("sensitivity analysis needs a plan and a financial profile")
	}
	if param.Steps > 1 && param.MaxValue.LessThan(param.MinValue) {
		return nil, fmt.Errorf("sweep bounds inverted for %s: %s > %s", param.Name, param.MinValue, param.MaxValue)
	}

	values := sweepValues(param)
	points := make([]domain.SensitivityPoint, 0, len(values))
	for _, value := range values {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidate, err := planWithAssumption(cfg, param.Name, value)
		if err != nil {
			return nil, err
		}
		result, err := sa.Engine.RunPlan(candidate, profile)
		if err != nil {
			return nil, fmt.Errorf("projection at %s=%s: %w", param.Name, value, err)
		}
		points = append(points, summarizePoint(value, result))
	}

	analysis := &domain.SensitivityAnalysis{
		PlanName:  cfg.PlanName,
		Parameter: param,
		Points:    points,
		Swing:     netWorthSwing(points),
	}
	analysis.RiskLevel = analysis.ClassifyRisk()
	return analysis, nil
}

// AnalyzeParameters sweeps several assumptions one at a time and returns
// the analyses ordered so the one that moves the outcome most comes first.
func (sa *SensitivityAnalyzer) AnalyzeParameters(ctx context.Context, cfg *domain.PlanConfig, profile *domain.FinancialProfile, params []domain.SensitivityParameter) ([]*domain.SensitivityAnalysis, error) {
	if len(params) == 0 {
		params = domain.CommonParameters()
	}

	analyses := make([]*domain.SensitivityAnalysis, 0, len(params))
	for _, param := range params {
		analysis, err := sa.AnalyzeParameter(ctx, cfg, profile, param)
		if err != nil {
			return nil, fmt.Errorf("sweep of %s failed: %w", param.Name, err)
		}
		analyses = append(analyses, analysis)
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].Swing.GreaterThan(analyses[j].Swing)
	})
	return analyses, nil
}

// sweepValues spaces the sweep stops evenly across [MinValue, MaxValue],
// endpoints included. A single step collapses to the base value.
func sweepValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	values := make([]decimal.Decimal, 0, param.Steps)
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

// planWithAssumption returns a copy of the plan with one assumption
// replaced. Unknown parameter names are rejected rather than silently
// leaving the plan unchanged.
func planWithAssumption(cfg *domain.PlanConfig, name string, value decimal.Decimal) (*domain.PlanConfig, error) {
	modified := cfg.DeepCopy()
	switch name {
	case "inflation_rate":
		modified.InflationRate = value
	case "portfolio_growth_rate":
		modified.PortfolioGrowthRate = value
	case "bond_growth_rate":
		modified.BondGrowthRate = value
	default:
		return nil, fmt.Errorf("unknown sweep parameter %q (want inflation_rate, portfolio_growth_rate or bond_growth_rate)", name)
	}
	return modified, nil
}

func summarizePoint(value decimal.Decimal, result *domain.ProjectionResult) domain.SensitivityPoint {
	point := domain.SensitivityPoint{Value: value, LifetimeTax: result.LifetimeTax()}
	if fp := result.FinalProjection(); fp != nil {
		point.FinalNetWorth = fp.NetWorth
		point.FinalAssets = fp.TotalAssets
		point.FundedToAge = fp.Age
	}
	for i := range result.Projections {
		rec := &result.Projections[i]
		if rec.IsRetired() && !rec.TotalAssets.GreaterThan(decimal.Zero) {
			point.FundedToAge = rec.Age - 1
			break
		}
	}
	return point
}

func netWorthSwing(points []domain.SensitivityPoint) decimal.Decimal {
	if len(points) == 0 {
		return decimal.Zero
	}
	lowest, highest := points[0].FinalNetWorth, points[0].FinalNetWorth
	for _, p := range points[1:] {
		if p.FinalNetWorth.LessThan(lowest) {
			lowest = p.FinalNetWorth
		}
		if p.FinalNetWorth.GreaterThan(highest) {
			highest = p.FinalNetWorth
		}
	}
	return highest.Sub(lowest)
}
