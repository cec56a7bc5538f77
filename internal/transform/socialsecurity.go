package transform

import (
	"fmt"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// DelaySocialSecurity moves the Social Security claiming age for the whole
// household. Claiming runs from 62 to 70; the projection pays the configured
// benefit from the claiming age on, so delaying trades benefit years against
// portfolio draw in the gap.
type DelaySocialSecurity struct {
	Age int
}

func (ds *DelaySocialSecurity) Name() string { return "delay_ss" }

func (ds *DelaySocialSecurity) Description() string {
	return fmt.Sprintf("Claim Social Security at age %d", ds.Age)
}

func (ds *DelaySocialSecurity) Validate(base *domain.PlanConfig) error {
	if base == nil {
		return NewTransformError(ds.Name(), "validate", "base plan cannot be nil", nil)
	}
	if ds.Age < 62 || ds.Age > 70 {
		return NewTransformError(ds.Name(), "validate",
			fmt.Sprintf("claiming age must be between 62 and 70, got %d", ds.Age), nil)
	}
	return nil
}

func (ds *DelaySocialSecurity) Apply(base *domain.PlanConfig) (*domain.PlanConfig, error) {
	modified := base.DeepCopy()
	modified.SocialSecurityStartAge = ds.Age
	if modified.Spouse != nil {
		modified.Spouse.SocialSecurityStartAge = ds.Age
	}
	return modified, nil
}
