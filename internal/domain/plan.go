package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FilingStatus selects the federal tax tables used for a household.
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJointly  FilingStatus = "married_jointly"
	FilingHeadOfHousehold FilingStatus = "head_household"
)

// ParseFilingStatus normalizes a user-supplied filing status. Unrecognized
// values fall back to single.
func ParseFilingStatus(s string) FilingStatus {
	switch FilingStatus(strings.ToLower(strings.TrimSpace(s))) {
	case FilingMarriedJointly:
		return FilingMarriedJointly
	case FilingHeadOfHousehold:
		return FilingHeadOfHousehold
	default:
		return FilingSingle
	}
}

// RiskProfile selects the return distribution for Monte Carlo sampling.
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskModerate     RiskProfile = "moderate"
	RiskAggressive   RiskProfile = "aggressive"
)

// ParseRiskProfile normalizes a user-supplied risk profile. Unrecognized
// values fall back to moderate.
func ParseRiskProfile(s string) RiskProfile {
	switch RiskProfile(strings.ToLower(strings.TrimSpace(s))) {
	case RiskConservative:
		return RiskConservative
	case RiskAggressive:
		return RiskAggressive
	default:
		return RiskModerate
	}
}

// Phase is the projection state for a simulated year. The transition rule is
// a single age comparison, kept in PhaseForAge so the dispatch is testable on
// its own.
type Phase string

const (
	PhaseAccumulating Phase = "accumulating"
	PhaseDecumulating Phase = "decumulating"
)

// PhaseForAge returns the phase for a given age and retirement age.
func PhaseForAge(age, retirementAge int) Phase {
	if age >= retirementAge {
		return PhaseDecumulating
	}
	return PhaseAccumulating
}

func (p Phase) String() string { return string(p) }

// ContributionSchedule holds resolved annual contribution amounts per bucket.
type ContributionSchedule struct {
	PreTax    decimal.Decimal `yaml:"pre_tax" json:"pre_tax"`       // 401k + traditional IRA
	Roth      decimal.Decimal `yaml:"roth" json:"roth"`
	HSA       decimal.Decimal `yaml:"hsa" json:"hsa"`
	Brokerage decimal.Decimal `yaml:"brokerage" json:"brokerage"`
}

// Total sums all bucket contributions.
func (c ContributionSchedule) Total() decimal.Decimal {
	return c.PreTax.Add(c.Roth).Add(c.HSA).Add(c.Brokerage)
}

// SpousePlan mirrors the primary filer's plan parameters for a spouse.
type SpousePlan struct {
	Age                    int                  `yaml:"age" json:"age"` // at plan start
	RetirementAge          int                  `yaml:"retirement_age" json:"retirement_age"`
	SocialSecurityStartAge int                  `yaml:"social_security_start_age" json:"social_security_start_age"`
	SocialSecurityBenefit  decimal.Decimal      `yaml:"social_security_benefit" json:"social_security_benefit"` // annual, today's dollars
	Contributions          ContributionSchedule `yaml:"contributions" json:"contributions"`
}

// PlanConfig is the fully resolved, already-defaulted input for one
// projection run. It is immutable for the duration of the run.
type PlanConfig struct {
	PlanID       string       `yaml:"plan_id" json:"plan_id"`
	PlanName     string       `yaml:"plan_name" json:"plan_name"`
	FilingStatus FilingStatus `yaml:"filing_status" json:"filing_status"`
	RiskProfile  RiskProfile  `yaml:"risk_profile" json:"risk_profile"`

	InflationRate       decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`               // fraction per year, e.g. 0.03
	PortfolioGrowthRate decimal.Decimal `yaml:"portfolio_growth_rate" json:"portfolio_growth_rate"` // pre-tax, Roth, HSA, brokerage
	BondGrowthRate      decimal.Decimal `yaml:"bond_growth_rate" json:"bond_growth_rate"`           // savings/cash

	StartAge               int `yaml:"start_age" json:"start_age"`
	RetirementAge          int `yaml:"retirement_age" json:"retirement_age"`
	EndAge                 int `yaml:"end_age" json:"end_age"`
	SocialSecurityStartAge int `yaml:"social_security_start_age" json:"social_security_start_age"`

	SocialSecurityBenefit     decimal.Decimal `yaml:"social_security_benefit" json:"social_security_benefit"` // annual, today's dollars
	PensionIncome             decimal.Decimal `yaml:"pension_income" json:"pension_income"`                   // annual
	DesiredRetirementSpending decimal.Decimal `yaml:"desired_retirement_spending" json:"desired_retirement_spending"`

	Contributions ContributionSchedule `yaml:"contributions" json:"contributions"`
	Spouse        *SpousePlan          `yaml:"spouse,omitempty" json:"spouse,omitempty"`

	// Withdrawal sequencing: standard | proportional | custom. Sequence is
	// only read by the custom strategy.
	WithdrawalStrategy string   `yaml:"withdrawal_strategy,omitempty" json:"withdrawal_strategy,omitempty"`
	WithdrawalSequence []string `yaml:"withdrawal_sequence,omitempty" json:"withdrawal_sequence,omitempty"`
}

// HasSpouse reports whether the plan covers a second earner.
func (pc *PlanConfig) HasSpouse() bool { return pc.Spouse != nil }

// Years is the number of simulated steps after the starting snapshot.
func (pc *PlanConfig) Years() int { return pc.EndAge - pc.StartAge }

// DeepCopy returns an independent copy of the plan. Decimal values are
// immutable through their API, so only the spouse pointer and the sequence
// slice need fresh storage. Scenario transforms mutate copies, never the base.
func (pc *PlanConfig) DeepCopy() *PlanConfig {
	cp := *pc
	if pc.Spouse != nil {
		spouse := *pc.Spouse
		cp.Spouse = &spouse
	}
	if pc.WithdrawalSequence != nil {
		cp.WithdrawalSequence = append([]string(nil), pc.WithdrawalSequence...)
	}
	return &cp
}

// FinancialProfile holds the household's starting balances and recurring
// amounts at StartAge. Missing fields are zero; balances never go negative.
type FinancialProfile struct {
	AnnualSalary       decimal.Decimal `yaml:"annual_salary" json:"annual_salary"`
	SpouseAnnualSalary decimal.Decimal `yaml:"spouse_annual_salary" json:"spouse_annual_salary"`
	OtherAnnualIncome  decimal.Decimal `yaml:"other_annual_income" json:"other_annual_income"`
	AnnualExpenses     decimal.Decimal `yaml:"annual_expenses" json:"annual_expenses"`

	PreTaxBalance       decimal.Decimal `yaml:"pre_tax_balance" json:"pre_tax_balance"` // 401k + traditional IRA
	SpousePreTaxBalance decimal.Decimal `yaml:"spouse_pre_tax_balance" json:"spouse_pre_tax_balance"`
	RothBalance         decimal.Decimal `yaml:"roth_balance" json:"roth_balance"`
	SpouseRothBalance   decimal.Decimal `yaml:"spouse_roth_balance" json:"spouse_roth_balance"`
	HSABalance          decimal.Decimal `yaml:"hsa_balance" json:"hsa_balance"`
	SpouseHSABalance    decimal.Decimal `yaml:"spouse_hsa_balance" json:"spouse_hsa_balance"`
	BrokerageBalance    decimal.Decimal `yaml:"brokerage_balance" json:"brokerage_balance"`
	SavingsBalance      decimal.Decimal `yaml:"savings_balance" json:"savings_balance"`

	MortgageBalance decimal.Decimal `yaml:"mortgage_balance" json:"mortgage_balance"`
	ConsumerDebt    decimal.Decimal `yaml:"consumer_debt" json:"consumer_debt"` // credit cards + student loans + other
}

// CombinedPreTax is the household pre-tax retirement balance.
func (fp *FinancialProfile) CombinedPreTax() decimal.Decimal {
	return fp.PreTaxBalance.Add(fp.SpousePreTaxBalance)
}

// InvestableBalance aggregates every account that participates in growth.
// Used when deriving Monte Carlo scalars from a profile.
func (fp *FinancialProfile) InvestableBalance() decimal.Decimal {
	return fp.CombinedPreTax().
		Add(fp.RothBalance).Add(fp.SpouseRothBalance).
		Add(fp.HSABalance).Add(fp.SpouseHSABalance).
		Add(fp.BrokerageBalance).Add(fp.SavingsBalance)
}

// TotalLiabilities is the household debt total.
func (fp *FinancialProfile) TotalLiabilities() decimal.Decimal {
	return fp.MortgageBalance.Add(fp.ConsumerDebt)
}
