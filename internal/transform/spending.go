package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// SpendingLevel sets the desired retirement spending to an absolute annual
// amount in today's dollars.
type SpendingLevel struct {
	Amount decimal.Decimal
}

func (sl *SpendingLevel) Name() string { return "spending" }

func (sl *SpendingLevel) Description() string {
	return fmt.Sprintf("Set retirement spending to $%s/yr", sl.Amount.StringFixed(0))
}

func (sl *SpendingLevel) Validate(base *domain.PlanConfig) error {
	if base == nil {
		return NewTransformError(sl.Name(), "validate", "base plan cannot be nil", nil)
	}
	if sl.Amount.LessThanOrEqual(decimal.Zero) {
		return NewTransformError(sl.Name(), "validate",
			fmt.Sprintf("spending must be positive, got %s", sl.Amount), nil)
	}
	return nil
}

func (sl *SpendingLevel) Apply(base *domain.PlanConfig) (*domain.PlanConfig, error) {
	modified := base.DeepCopy()
	modified.DesiredRetirementSpending = sl.Amount
	return modified, nil
}

// SpendingScale multiplies the desired retirement spending by a factor.
// 0.85 models belt-tightening, 1.2 a more comfortable retirement.
type SpendingScale struct {
	Factor decimal.Decimal
}

func (ss *SpendingScale) Name() string { return "spending_scale" }

func (ss *SpendingScale) Description() string {
	return fmt.Sprintf("Scale retirement spending by %s", ss.Factor.String())
}

func (ss *SpendingScale) Validate(base *domain.PlanConfig) error {
	if base == nil {
		return NewTransformError(ss.Name(), "validate", "base plan cannot be nil", nil)
	}
	if ss.Factor.LessThanOrEqual(decimal.Zero) {
		return NewTransformError(ss.Name(), "validate",
			fmt.Sprintf("factor must be positive, got %s", ss.Factor), nil)
	}
	if base.DesiredRetirementSpending.LessThanOrEqual(decimal.Zero) {
		return NewTransformError(ss.Name(), "validate", "base plan has no spending target to scale", nil)
	}
	return nil
}

func (ss *SpendingScale) Apply(base *domain.PlanConfig) (*domain.PlanConfig, error) {
	modified := base.DeepCopy()
	modified.DesiredRetirementSpending = base.DesiredRetirementSpending.Mul(ss.Factor)
	return modified, nil
}

// ContributionScale multiplies every contribution bucket, spouse included,
// by a factor. A factor of zero models stopping all saving.
type ContributionScale struct {
	Factor decimal.Decimal
}

func (cs *ContributionScale) Name() string { return "contribution_scale" }

func (cs *ContributionScale) Description() string {
	return fmt.Sprintf("Scale contributions by %s", cs.Factor.String())
}

func (cs *ContributionScale) Validate(base *domain.PlanConfig) error {
	if base == nil {
		return NewTransformError(cs.Name(), "validate", "base plan cannot be nil", nil)
	}
	if cs.Factor.LessThan(decimal.Zero) {
		return NewTransformError(cs.Name(), "validate",
			fmt.Sprintf("factor cannot be negative, got %s", cs.Factor), nil)
	}
	return nil
}

func (cs *ContributionScale) Apply(base *domain.PlanConfig) (*domain.PlanConfig, error) {
	modified := base.DeepCopy()
	modified.Contributions = scaleSchedule(base.Contributions, cs.Factor)
	if modified.Spouse != nil {
		modified.Spouse.Contributions = scaleSchedule(base.Spouse.Contributions, cs.Factor)
	}
	return modified, nil
}

func scaleSchedule(c domain.ContributionSchedule, factor decimal.Decimal) domain.ContributionSchedule {
	return domain.ContributionSchedule{
		PreTax:    c.PreTax.Mul(factor),
		Roth:      c.Roth.Mul(factor),
		HSA:       c.HSA.Mul(factor),
		Brokerage: c.Brokerage.Mul(factor),
	}
}
