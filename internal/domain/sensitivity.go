package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter describes one plan assumption to sweep across a
// range. Rate parameters carry fractions (0.025 for 2.5%) with Unit set to
// "percent" as a display hint.
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"min_value"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"max_value"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"base_value"`
	Unit        string          `yaml:"unit" json:"unit"`
	Description string          `yaml:"description" json:"description"`
}

// SensitivityPoint is one sweep stop: a parameter value and the headline
// metrics of the projection run with it.
type SensitivityPoint struct {
	Value         decimal.Decimal `json:"value"`
	FinalNetWorth decimal.Decimal `json:"final_net_worth"`
	FinalAssets   decimal.Decimal `json:"final_assets"`
	LifetimeTax   decimal.Decimal `json:"lifetime_tax"`
	FundedToAge   int             `json:"funded_to_age"`
}

// SensitivityAnalysis is a single-parameter sweep over one plan.
type SensitivityAnalysis struct {
	PlanName  string               `json:"plan_name"`
	Parameter SensitivityParameter `json:"parameter"`
	Points    []SensitivityPoint   `json:"points"`

	// Swing is the final net worth spread across the sweep, the headline
	// for how much this assumption matters.
	Swing decimal.Decimal `json:"swing"`

	RiskLevel string `json:"risk_level"`
}

// BasePoint returns the sweep stop closest to the parameter's base value,
// or nil for an empty sweep.
func (sa *SensitivityAnalysis) BasePoint() *SensitivityPoint {
	if len(sa.Points) == 0 {
		return nil
	}
	best := 0
	bestDiff := sa.Points[0].Value.Sub(sa.Parameter.BaseValue).Abs()
	for i := 1; i < len(sa.Points); i++ {
		diff := sa.Points[i].Value.Sub(sa.Parameter.BaseValue).Abs()
		if diff.LessThan(bestDiff) {
			best, bestDiff = i, diff
		}
	}
	return &sa.Points[best]
}

// WorstPoint returns the sweep stop with the lowest final net worth, or nil
// for an empty sweep.
func (sa *SensitivityAnalysis) WorstPoint() *SensitivityPoint {
	var worst *SensitivityPoint
	for i := range sa.Points {
		if worst == nil || sa.Points[i].FinalNetWorth.LessThan(worst.FinalNetWorth) {
			worst = &sa.Points[i]
		}
	}
	return worst
}

// ClassifyRisk grades the swing against the base outcome: below 10% of the
// base net worth is LOW, below 30% MEDIUM, below 60% HIGH, anything larger
// CRITICAL. A base at or below zero is CRITICAL outright.
func (sa *SensitivityAnalysis) ClassifyRisk() string {
	base := sa.BasePoint()
	if base == nil || !base.FinalNetWorth.GreaterThan(decimal.Zero) {
		return "CRITICAL"
	}
	ratio := sa.Swing.Div(base.FinalNetWorth)
	switch {
	case ratio.LessThan(decimal.NewFromFloat(0.1)):
		return "LOW"
	case ratio.LessThan(decimal.NewFromFloat(0.3)):
		return "MEDIUM"
	case ratio.LessThan(decimal.NewFromFloat(0.6)):
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// Common sweep definitions for the assumptions every plan carries.
var (
	InflationRateParam = SensitivityParameter{
		Name:        "inflation_rate",
		MinValue:    decimal.NewFromFloat(0.015),
		MaxValue:    decimal.NewFromFloat(0.040),
		Steps:       6,
		BaseValue:   decimal.NewFromFloat(0.025),
		Unit:        "percent",
		Description: "General inflation applied to income, expenses and benefits",
	}

	PortfolioGrowthParam = SensitivityParameter{
		Name:        "portfolio_growth_rate",
		MinValue:    decimal.NewFromFloat(0.040),
		MaxValue:    decimal.NewFromFloat(0.090),
		Steps:       6,
		BaseValue:   decimal.NewFromFloat(0.060),
		Unit:        "percent",
		Description: "Nominal return on pre-tax, Roth, HSA and brokerage accounts",
	}

	BondGrowthParam = SensitivityParameter{
		Name:        "bond_growth_rate",
		MinValue:    decimal.NewFromFloat(0.020),
		MaxValue:    decimal.NewFromFloat(0.050),
		Steps:       4,
		BaseValue:   decimal.NewFromFloat(0.040),
		Unit:        "percent",
		Description: "Nominal return on savings and cash",
	}
)

// CommonParameters lists the built-in sweep definitions.
func CommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		InflationRateParam,
		PortfolioGrowthParam,
		BondGrowthParam,
	}
}

// LookupParameter finds a built-in sweep definition by name.
func LookupParameter(name string) (SensitivityParameter, bool) {
	for _, p := range CommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}
