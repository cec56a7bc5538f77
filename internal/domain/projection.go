package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetBreakdown holds end-of-year balances by bucket, after growth.
type AssetBreakdown struct {
	PreTax    decimal.Decimal `yaml:"pre_tax" json:"pre_tax"`
	Roth      decimal.Decimal `yaml:"roth" json:"roth"`
	HSA       decimal.Decimal `yaml:"hsa" json:"hsa"`
	Brokerage decimal.Decimal `yaml:"brokerage" json:"brokerage"`
	Savings   decimal.Decimal `yaml:"savings" json:"savings"`
}

// Total sums all asset buckets.
func (a AssetBreakdown) Total() decimal.Decimal {
	return a.PreTax.Add(a.Roth).Add(a.HSA).Add(a.Brokerage).Add(a.Savings)
}

// LiabilityBreakdown holds end-of-year debt balances. Liabilities are never
// a funding source; they only reduce net worth.
type LiabilityBreakdown struct {
	Mortgage     decimal.Decimal `yaml:"mortgage" json:"mortgage"`
	ConsumerDebt decimal.Decimal `yaml:"consumer_debt" json:"consumer_debt"`
}

// Total sums all liability buckets.
func (l LiabilityBreakdown) Total() decimal.Decimal {
	return l.Mortgage.Add(l.ConsumerDebt)
}

// IncomeBreakdown itemizes the year's income by source, including forced and
// waterfall withdrawals.
type IncomeBreakdown struct {
	Salary         decimal.Decimal `yaml:"salary" json:"salary"`
	SpouseSalary   decimal.Decimal `yaml:"spouse_salary" json:"spouse_salary"`
	SocialSecurity decimal.Decimal `yaml:"social_security" json:"social_security"`
	Pension        decimal.Decimal `yaml:"pension" json:"pension"`
	Other          decimal.Decimal `yaml:"other" json:"other"`

	RMD               decimal.Decimal `yaml:"rmd" json:"rmd"`
	TaxableWithdrawal decimal.Decimal `yaml:"taxable_withdrawal" json:"taxable_withdrawal"`
	PreTaxWithdrawal  decimal.Decimal `yaml:"pre_tax_withdrawal" json:"pre_tax_withdrawal"` // net of RMD
	RothWithdrawal    decimal.Decimal `yaml:"roth_withdrawal" json:"roth_withdrawal"`
	HSAWithdrawal     decimal.Decimal `yaml:"hsa_withdrawal" json:"hsa_withdrawal"`
}

// Total sums every income source for the year.
func (i IncomeBreakdown) Total() decimal.Decimal {
	return i.Salary.Add(i.SpouseSalary).Add(i.SocialSecurity).Add(i.Pension).Add(i.Other).
		Add(i.RMD).Add(i.TaxableWithdrawal).Add(i.PreTaxWithdrawal).Add(i.RothWithdrawal).Add(i.HSAWithdrawal)
}

// TotalWithdrawals sums only the amounts pulled from accounts.
func (i IncomeBreakdown) TotalWithdrawals() decimal.Decimal {
	return i.RMD.Add(i.TaxableWithdrawal).Add(i.PreTaxWithdrawal).Add(i.RothWithdrawal).Add(i.HSAWithdrawal)
}

// ExpenseBreakdown itemizes the year's outflows by category. Taxes are
// reported separately on the projection record.
type ExpenseBreakdown struct {
	Living          decimal.Decimal `yaml:"living" json:"living"`
	MortgagePayment decimal.Decimal `yaml:"mortgage_payment" json:"mortgage_payment"`
}

// Total sums all expense categories.
func (e ExpenseBreakdown) Total() decimal.Decimal {
	return e.Living.Add(e.MortgagePayment)
}

// AnnualProjection is one simulated year. Records are produced once and not
// mutated afterward; the sequence indexed by age is the engine's output.
type AnnualProjection struct {
	Year  int   `yaml:"year" json:"year"`
	Age   int   `yaml:"age" json:"age"`
	Phase Phase `yaml:"phase" json:"phase"`

	GrossIncome   decimal.Decimal `yaml:"gross_income" json:"gross_income"`
	NetIncome     decimal.Decimal `yaml:"net_income" json:"net_income"`
	TotalExpenses decimal.Decimal `yaml:"total_expenses" json:"total_expenses"`
	TaxesPaid     decimal.Decimal `yaml:"taxes_paid" json:"taxes_paid"`
	CumulativeTax decimal.Decimal `yaml:"cumulative_tax" json:"cumulative_tax"`

	TotalAssets      decimal.Decimal `yaml:"total_assets" json:"total_assets"`
	TotalLiabilities decimal.Decimal `yaml:"total_liabilities" json:"total_liabilities"`
	NetWorth         decimal.Decimal `yaml:"net_worth" json:"net_worth"`

	Assets      AssetBreakdown     `yaml:"assets" json:"assets"`
	Liabilities LiabilityBreakdown `yaml:"liabilities" json:"liabilities"`
	Income      IncomeBreakdown    `yaml:"income" json:"income"`
	Expenses    ExpenseBreakdown   `yaml:"expenses" json:"expenses"`
}

// IsRetired reports whether the record falls in the decumulation phase.
func (ap *AnnualProjection) IsRetired() bool { return ap.Phase == PhaseDecumulating }

// ProjectionResult bundles one plan's annual series with run metadata and an
// optional Monte Carlo overlay.
type ProjectionResult struct {
	PlanID        string       `yaml:"plan_id" json:"plan_id"`
	PlanName      string       `yaml:"plan_name" json:"plan_name"`
	FilingStatus  FilingStatus `yaml:"filing_status" json:"filing_status"`
	RetirementAge int          `yaml:"retirement_age" json:"retirement_age"`
	GeneratedAt   time.Time    `yaml:"generated_at" json:"generated_at"`

	Projections []AnnualProjection `yaml:"projections" json:"projections"`
	MonteCarlo  *MonteCarloResult  `yaml:"monte_carlo,omitempty" json:"monte_carlo,omitempty"`
}

// FinalProjection returns the last simulated year, or nil for an empty run.
func (pr *ProjectionResult) FinalProjection() *AnnualProjection {
	if len(pr.Projections) == 0 {
		return nil
	}
	return &pr.Projections[len(pr.Projections)-1]
}

// FirstDecumulationYear returns the first retired year, or nil if the plan
// never reaches retirement within its horizon.
func (pr *ProjectionResult) FirstDecumulationYear() *AnnualProjection {
	for i := range pr.Projections {
		if pr.Projections[i].IsRetired() {
			return &pr.Projections[i]
		}
	}
	return nil
}

// LifetimeTax is the cumulative federal tax across the whole horizon.
func (pr *ProjectionResult) LifetimeTax() decimal.Decimal {
	if fp := pr.FinalProjection(); fp != nil {
		return fp.CumulativeTax
	}
	return decimal.Zero
}
