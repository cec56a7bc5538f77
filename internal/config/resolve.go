package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/calculation"
	"github.com/nestegg/retirement-planner/internal/domain"
)

// System defaults applied when neither the plan section nor the profile
// carries a value. Rates are percentages, matching how input files write
// them.
var (
	DefaultInflationPercent       = decimal.NewFromFloat(3.0)
	DefaultPortfolioGrowthPercent = decimal.NewFromFloat(7.0)
	DefaultBondGrowthPercent      = decimal.NewFromFloat(4.0)
	DefaultRetirementSpending     = decimal.NewFromInt(80000)

	// defaultSavingsShare is the share of salary assumed for pre-tax
	// contributions when the file carries no contributions section.
	defaultSavingsShare = decimal.NewFromFloat(0.15)
)

const (
	DefaultRetirementAge          = 65
	DefaultSocialSecurityStartAge = 67
	DefaultEndAge                 = 95

	catchUpAge = 50
)

var oneHundred = decimal.NewFromInt(100)

// pickDecimal returns the first non-zero value. The last entry is the
// default, so zero-valued inputs mean "unset" throughout resolution.
func pickDecimal(values ...decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return decimal.Zero
}

func pickInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func percentToFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(oneHundred)
}

// Resolve turns a raw plan document into the engine's immutable inputs.
// Every field follows the same precedence: plan override, then profile
// value, then system default.
func (ip *InputParser) Resolve(input *PlanInput) (*domain.PlanConfig, *domain.FinancialProfile, error) {
	if input == nil {
		return nil, nil, fmt.Errorf("no plan input provided")
	}

	p := input.Profile
	profile := &domain.FinancialProfile{
		AnnualSalary:       p.AnnualSalary,
		SpouseAnnualSalary: p.SpouseAnnualSalary,
		OtherAnnualIncome:  p.OtherAnnualIncome,
		AnnualExpenses:     p.AnnualExpenses,

		PreTaxBalance:       p.PreTaxBalance,
		SpousePreTaxBalance: p.SpousePreTaxBalance,
		RothBalance:         p.RothBalance,
		SpouseRothBalance:   p.SpouseRothBalance,
		HSABalance:          p.HSABalance,
		SpouseHSABalance:    p.SpouseHSABalance,
		BrokerageBalance:    p.BrokerageBalance,
		SavingsBalance:      p.SavingsBalance,

		MortgageBalance: p.MortgageBalance,
		ConsumerDebt:    p.ConsumerDebt,
	}

	plan := input.Plan
	if plan == nil {
		plan = &PlanOverrides{}
	}

	planID := input.PlanID
	if planID == "" {
		planID = uuid.NewString()
	}
	planName := input.PlanName
	if planName == "" {
		planName = "retirement plan"
	}

	cfg := &domain.PlanConfig{
		PlanID:       planID,
		PlanName:     planName,
		FilingStatus: domain.ParseFilingStatus(input.FilingStatus),
		RiskProfile:  domain.ParseRiskProfile(input.RiskProfile),

		InflationRate:       percentToFraction(pickDecimal(plan.InflationRate, DefaultInflationPercent)),
		PortfolioGrowthRate: percentToFraction(pickDecimal(plan.PortfolioGrowthRate, DefaultPortfolioGrowthPercent)),
		BondGrowthRate:      percentToFraction(pickDecimal(plan.BondGrowthRate, DefaultBondGrowthPercent)),

		StartAge:               p.Age,
		RetirementAge:          pickInt(plan.RetirementAge, p.ExpectedRetirementAge, DefaultRetirementAge),
		EndAge:                 pickInt(plan.EndAge, DefaultEndAge),
		SocialSecurityStartAge: pickInt(plan.SocialSecurityStartAge, DefaultSocialSecurityStartAge),

		SocialSecurityBenefit:     plan.SocialSecurityBenefit,
		PensionIncome:             plan.PensionIncome,
		DesiredRetirementSpending: pickDecimal(plan.DesiredRetirementSpending, p.ExpectedRetirementSpending, DefaultRetirementSpending),

		Contributions: resolveContributions(plan.Contributions, p.AnnualSalary, p.Age),

		WithdrawalStrategy: plan.WithdrawalStrategy,
		WithdrawalSequence: plan.WithdrawalSequence,
	}

	if input.Spouse != nil {
		s := input.Spouse
		cfg.Spouse = &domain.SpousePlan{
			Age:                    s.Age,
			RetirementAge:          pickInt(s.RetirementAge, DefaultRetirementAge),
			SocialSecurityStartAge: pickInt(s.SocialSecurityStartAge, DefaultSocialSecurityStartAge),
			SocialSecurityBenefit:  s.SocialSecurityBenefit,
			Contributions:          resolveContributions(s.Contributions, p.SpouseAnnualSalary, s.Age),
		}
	}

	if err := ip.ValidateConfiguration(cfg); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, profile, nil
}

// resolveContributions derives contribution amounts when the file has no
// contributions section: pre-tax the lesser of the 401k limit and 15% of
// salary, Roth the IRA limit with the age-50 catch-up. An explicit section
// is taken verbatim, zeros included.
func resolveContributions(in *ContributionsInput, salary decimal.Decimal, age int) domain.ContributionSchedule {
	if in != nil {
		return domain.ContributionSchedule{
			PreTax:    in.PreTax,
			Roth:      in.Roth,
			HSA:       in.HSA,
			Brokerage: in.Brokerage,
		}
	}

	limits := calculation.NewTaxAssumptions2024().Limits(time.Now().Year())
	roth := limits.IRA
	if age >= catchUpAge {
		roth = roth.Add(limits.CatchUpIRA)
	}
	return domain.ContributionSchedule{
		PreTax: decimal.Min(limits.Employee401k, salary.Mul(defaultSavingsShare)),
		Roth:   roth,
	}
}

// ValidateConfiguration checks the resolved plan. The one hard failure is a
// horizon that ends before it starts; everything else has already been
// defaulted into range.
func (ip *InputParser) ValidateConfiguration(cfg *domain.PlanConfig) error {
	if cfg == nil {
		return fmt.Errorf("no configuration provided")
	}
	if cfg.EndAge <= cfg.StartAge {
		return fmt.Errorf("end age %d must be greater than start age %d", cfg.EndAge, cfg.StartAge)
	}
	return nil
}
