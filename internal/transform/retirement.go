package transform

import (
	"fmt"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// RetireAtAge sets the household retirement age to an absolute value. When
// the plan covers a spouse, the spouse retirement age shifts by the same
// number of years so the household keeps its stagger.
type RetireAtAge struct {
	Age int
}

func (ra *RetireAtAge) Name() string { return "retirement_age" }

func (ra *RetireAtAge) Description() string {
	return fmt.Sprintf("Retire at age %d", ra.Age)
}

func (ra *RetireAtAge) Validate(base *domain.PlanConfig) error {
	if base == nil {
		return NewTransformError(ra.Name(), "validate", "base plan cannot be nil", nil)
	}
	if ra.Age <= base.StartAge {
		return NewTransformError(ra.Name(), "validate",
			fmt.Sprintf("retirement age %d must be after the plan start age %d", ra.Age, base.StartAge), nil)
	}
	if ra.Age >= base.EndAge {
		return NewTransformError(ra.Name(), "validate",
			fmt.Sprintf("retirement age %d must be before the horizon end age %d", ra.Age, base.EndAge), nil)
	}
	return nil
}

func (ra *RetireAtAge) Apply(base *domain.PlanConfig) (*domain.PlanConfig, error) {
	modified := base.DeepCopy()
	shift := ra.Age - base.RetirementAge
	modified.RetirementAge = ra.Age
	if modified.Spouse != nil {
		modified.Spouse.RetirementAge += shift
	}
	return modified, nil
}

// PostponeRetirement shifts the household retirement age by a number of
// years. Negative years retire the household earlier, the classic "work one
// more year" knob run in either direction.
type PostponeRetirement struct {
	Years int
}

func (pr *PostponeRetirement) Name() string { return "postpone_retirement" }

func (pr *PostponeRetirement) Description() string {
	if pr.Years < 0 {
		return fmt.Sprintf("Retire %d years earlier", -pr.Years)
	}
	return fmt.Sprintf("Postpone retirement by %d years", pr.Years)
}

func (pr *PostponeRetirement) Validate(base *domain.PlanConfig) error {
	if base == nil {
		return NewTransformError(pr.Name(), "validate", "base plan cannot be nil", nil)
	}
	if pr.Years == 0 {
		return NewTransformError(pr.Name(), "validate", "years cannot be zero", nil)
	}
	shifted := base.RetirementAge + pr.Years
	if shifted <= base.StartAge || shifted >= base.EndAge {
		return NewTransformError(pr.Name(), "validate",
			fmt.Sprintf("shifted retirement age %d falls outside the plan ages %d-%d",
				shifted, base.StartAge, base.EndAge), nil)
	}
	return nil
}

func (pr *PostponeRetirement) Apply(base *domain.PlanConfig) (*domain.PlanConfig, error) {
	modified := base.DeepCopy()
	modified.RetirementAge += pr.Years
	if modified.Spouse != nil {
		modified.Spouse.RetirementAge += pr.Years
	}
	return modified, nil
}
