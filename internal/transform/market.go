package transform

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// MarketOutlook overrides the deterministic growth and inflation assumptions.
// Values are annual percentages, matching how plan files write rates; nil
// fields keep the base plan's value.
type MarketOutlook struct {
	GrowthPct    *decimal.Decimal
	InflationPct *decimal.Decimal
}

func (mo *MarketOutlook) Name() string { return "market_outlook" }

func (mo *MarketOutlook) Description() string {
	var parts []string
	if mo.GrowthPct != nil {
		parts = append(parts, fmt.Sprintf("growth %s%%", mo.GrowthPct.String()))
	}
	if mo.InflationPct != nil {
		parts = append(parts, fmt.Sprintf("inflation %s%%", mo.InflationPct.String()))
	}
	return "Market outlook: " + strings.Join(parts, ", ")
}

func (mo *MarketOutlook) Validate(base *domain.PlanConfig) error {
	if base == nil {
		return NewTransformError(mo.Name(), "validate", "base plan cannot be nil", nil)
	}
	if mo.GrowthPct == nil && mo.InflationPct == nil {
		return NewTransformError(mo.Name(), "validate", "at least one of growth or inflation is required", nil)
	}
	if mo.GrowthPct != nil && mo.GrowthPct.LessThan(decimal.NewFromInt(-50)) {
		return NewTransformError(mo.Name(), "validate",
			fmt.Sprintf("growth %s%% is below -50%%", mo.GrowthPct), nil)
	}
	if mo.InflationPct != nil && mo.InflationPct.LessThan(decimal.Zero) {
		return NewTransformError(mo.Name(), "validate",
			fmt.Sprintf("inflation cannot be negative, got %s%%", mo.InflationPct), nil)
	}
	return nil
}

func (mo *MarketOutlook) Apply(base *domain.PlanConfig) (*domain.PlanConfig, error) {
	modified := base.DeepCopy()
	if mo.GrowthPct != nil {
		modified.PortfolioGrowthRate = mo.GrowthPct.Div(hundred)
	}
	if mo.InflationPct != nil {
		modified.InflationRate = mo.InflationPct.Div(hundred)
	}
	return modified, nil
}
