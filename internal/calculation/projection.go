package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
	"github.com/nestegg/retirement-planner/internal/sequencing"
)

var (
	decimalOne    = decimal.NewFromInt(1)
	decimalTwelve = decimal.NewFromInt(12)
)

// householdState is the engine's working copy of account balances. Pre-tax,
// Roth and HSA money is tracked per person so withdrawals can be split
// pro-rata, while all projection math runs on the combined buckets.
type householdState struct {
	pretax       decimal.Decimal
	spousePretax decimal.Decimal
	roth         decimal.Decimal
	spouseRoth   decimal.Decimal
	hsa          decimal.Decimal
	spouseHSA    decimal.Decimal
	brokerage    decimal.Decimal
	savings      decimal.Decimal

	mortgage     decimal.Decimal
	consumerDebt decimal.Decimal
}

func newHouseholdState(profile *domain.FinancialProfile) *householdState {
	return &householdState{
		pretax:       profile.PreTaxBalance,
		spousePretax: profile.SpousePreTaxBalance,
		roth:         profile.RothBalance,
		spouseRoth:   profile.SpouseRothBalance,
		hsa:          profile.HSABalance,
		spouseHSA:    profile.SpouseHSABalance,
		brokerage:    profile.BrokerageBalance,
		savings:      profile.SavingsBalance,
		mortgage:     profile.MortgageBalance,
		consumerDebt: profile.ConsumerDebt,
	}
}

func (hs *householdState) combinedPretax() decimal.Decimal { return hs.pretax.Add(hs.spousePretax) }
func (hs *householdState) combinedRoth() decimal.Decimal   { return hs.roth.Add(hs.spouseRoth) }
func (hs *householdState) combinedHSA() decimal.Decimal    { return hs.hsa.Add(hs.spouseHSA) }

// drainProRata removes amount from two per-person buckets in proportion to
// their balances. Draining at or past the combined balance empties both, so
// division rounding can never leave a negative sliver.
func drainProRata(a, b, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	total := a.Add(b)
	if amount.LessThanOrEqual(decimal.Zero) || total.LessThanOrEqual(decimal.Zero) {
		return a, b
	}
	if amount.GreaterThanOrEqual(total) {
		return decimal.Zero, decimal.Zero
	}
	keep := decimalOne.Sub(amount.Div(total))
	return a.Mul(keep), b.Mul(keep)
}

func (hs *householdState) withdrawPretax(amount decimal.Decimal) {
	hs.pretax, hs.spousePretax = drainProRata(hs.pretax, hs.spousePretax, amount)
}

func (hs *householdState) withdrawRoth(amount decimal.Decimal) {
	hs.roth, hs.spouseRoth = drainProRata(hs.roth, hs.spouseRoth, amount)
}

func (hs *householdState) withdrawHSA(amount decimal.Decimal) {
	hs.hsa, hs.spouseHSA = drainProRata(hs.hsa, hs.spouseHSA, amount)
}

// floorAndGrow clamps every bucket at zero, then applies one year of growth:
// the portfolio rate to pre-tax/Roth/HSA/brokerage and the bond rate to
// savings. Growth is linear, so growing the per-person buckets separately
// matches growing the combined balance.
func (hs *householdState) floorAndGrow(portfolioRate, bondRate decimal.Decimal) {
	for _, b := range []*decimal.Decimal{
		&hs.pretax, &hs.spousePretax, &hs.roth, &hs.spouseRoth,
		&hs.hsa, &hs.spouseHSA, &hs.brokerage, &hs.savings,
		&hs.mortgage, &hs.consumerDebt,
	} {
		if b.LessThan(decimal.Zero) {
			*b = decimal.Zero
		}
	}

	pg := decimalOne.Add(portfolioRate)
	hs.pretax = hs.pretax.Mul(pg)
	hs.spousePretax = hs.spousePretax.Mul(pg)
	hs.roth = hs.roth.Mul(pg)
	hs.spouseRoth = hs.spouseRoth.Mul(pg)
	hs.hsa = hs.hsa.Mul(pg)
	hs.spouseHSA = hs.spouseHSA.Mul(pg)
	hs.brokerage = hs.brokerage.Mul(pg)
	hs.savings = hs.savings.Mul(decimalOne.Add(bondRate))
}

func (hs *householdState) assets() domain.AssetBreakdown {
	return domain.AssetBreakdown{
		PreTax:    hs.combinedPretax(),
		Roth:      hs.combinedRoth(),
		HSA:       hs.combinedHSA(),
		Brokerage: hs.brokerage,
		Savings:   hs.savings,
	}
}

func (hs *householdState) liabilities() domain.LiabilityBreakdown {
	return domain.LiabilityBreakdown{
		Mortgage:     hs.mortgage,
		ConsumerDebt: hs.consumerDebt,
	}
}

// annualExpenses returns the profile's living expenses, falling back to
// DefaultMonthlyExpenses when the profile carries none.
func annualExpenses(profile *domain.FinancialProfile) decimal.Decimal {
	if profile.AnnualExpenses.GreaterThan(decimal.Zero) {
		return profile.AnnualExpenses
	}
	return DefaultMonthlyExpenses.Mul(decimalTwelve)
}

// inflationFactor is (1+rate)^years, the compounding applied to today's
// dollars before they enter a projection year.
func inflationFactor(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return decimalOne
	}
	return decimalOne.Add(rate).Pow(decimal.NewFromInt(int64(years)))
}

// spouseWorking reports whether a configured spouse is still earning in the
// given projection year. Without a spouse plan any spouse salary follows the
// primary filer's phase.
func spouseWorking(cfg *domain.PlanConfig, yearIndex int) bool {
	if !cfg.HasSpouse() {
		return false
	}
	return cfg.Spouse.Age+yearIndex < cfg.Spouse.RetirementAge
}

// openingSnapshot is year zero: the household exactly as handed in, income
// and expenses at face value, no computed tax and no growth.
func (pe *ProjectionEngine) openingSnapshot(cfg *domain.PlanConfig, profile *domain.FinancialProfile, st *householdState) domain.AnnualProjection {
	income := domain.IncomeBreakdown{
		Salary:       profile.AnnualSalary,
		SpouseSalary: profile.SpouseAnnualSalary,
		Other:        profile.OtherAnnualIncome,
	}
	expenses := domain.ExpenseBreakdown{Living: annualExpenses(profile)}

	return pe.buildRecord(cfg, st, 0, cfg.StartAge, income, expenses, decimal.Zero)
}

// accumulationYear advances one working year: inflated salary and expenses,
// the fixed mortgage payment while a balance remains, configured
// contributions, federal tax as a reporting value and any surplus invested
// 70/30 brokerage/savings.
func (pe *ProjectionEngine) accumulationYear(cfg *domain.PlanConfig, profile *domain.FinancialProfile, st *householdState, yearIndex, age int) domain.AnnualProjection {
	infl := inflationFactor(cfg.InflationRate, yearIndex)

	salary := profile.AnnualSalary.Mul(infl)
	var spouseSalary decimal.Decimal
	spouseEarns := spouseWorking(cfg, yearIndex) || !cfg.HasSpouse()
	if spouseEarns {
		spouseSalary = profile.SpouseAnnualSalary.Mul(infl)
	}
	other := profile.OtherAnnualIncome.Mul(infl)
	living := annualExpenses(profile).Mul(infl)

	// Fixed house payment, 60% principal / 40% interest, never inflated.
	var mortgagePayment decimal.Decimal
	if st.mortgage.GreaterThan(decimal.Zero) {
		mortgagePayment = pe.MortgagePayment
		principal := decimal.Min(mortgagePayment.Mul(mortgagePrincipalShare), st.mortgage)
		st.mortgage = st.mortgage.Sub(principal)
	}

	contrib := cfg.Contributions
	st.pretax = st.pretax.Add(contrib.PreTax)
	st.roth = st.roth.Add(contrib.Roth)
	st.hsa = st.hsa.Add(contrib.HSA)
	st.brokerage = st.brokerage.Add(contrib.Brokerage)
	totalContrib := contrib.Total()

	if cfg.HasSpouse() && spouseWorking(cfg, yearIndex) {
		sc := cfg.Spouse.Contributions
		st.spousePretax = st.spousePretax.Add(sc.PreTax)
		st.spouseRoth = st.spouseRoth.Add(sc.Roth)
		st.spouseHSA = st.spouseHSA.Add(sc.HSA)
		st.brokerage = st.brokerage.Add(sc.Brokerage)
		totalContrib = totalContrib.Add(sc.Total())
	}

	grossOrdinary := salary.Add(spouseSalary).Add(other)
	tax := pe.Tax.FederalIncomeTax(grossOrdinary, cfg.FilingStatus)

	leftover := grossOrdinary.Sub(tax).Sub(living).Sub(mortgagePayment).Sub(totalContrib)
	if leftover.GreaterThan(decimal.Zero) {
		st.brokerage = st.brokerage.Add(leftover.Mul(surplusBrokerageShare))
		st.savings = st.savings.Add(leftover.Mul(surplusSavingsShare))
	}

	st.floorAndGrow(cfg.PortfolioGrowthRate, cfg.BondGrowthRate)

	income := domain.IncomeBreakdown{
		Salary:       salary,
		SpouseSalary: spouseSalary,
		Other:        other,
	}
	expenses := domain.ExpenseBreakdown{Living: living, MortgagePayment: mortgagePayment}

	return pe.buildRecord(cfg, st, yearIndex, age, income, expenses, tax)
}

// decumulationYear advances one retired year: guaranteed income, the forced
// RMD, the withdrawal waterfall for any deficit, surplus to savings, then an
// exact tax recomputation on what was actually drawn.
func (pe *ProjectionEngine) decumulationYear(cfg *domain.PlanConfig, profile *domain.FinancialProfile, st *householdState, yearIndex, age int) domain.AnnualProjection {
	infl := inflationFactor(cfg.InflationRate, yearIndex)
	status := cfg.FilingStatus

	var ss decimal.Decimal
	if age >= cfg.SocialSecurityStartAge {
		ss = cfg.SocialSecurityBenefit.Mul(infl)
	}
	if cfg.HasSpouse() {
		spouseAge := cfg.Spouse.Age + yearIndex
		if spouseAge >= cfg.Spouse.SocialSecurityStartAge {
			ss = ss.Add(cfg.Spouse.SocialSecurityBenefit.Mul(infl))
		}
	}

	pension := cfg.PensionIncome.Mul(infl)
	other := profile.OtherAnnualIncome.Mul(infl)
	var spouseSalary decimal.Decimal
	if spouseWorking(cfg, yearIndex) {
		spouseSalary = profile.SpouseAnnualSalary.Mul(infl)
	}

	// Forced distribution from the combined pre-tax balance.
	var rmd decimal.Decimal
	if pe.Tax.RMDDivisor(age).GreaterThan(decimal.Zero) {
		rmd = pe.Tax.RMDAmount(st.combinedPretax(), age)
		st.withdrawPretax(rmd)
	}

	spendingBase := cfg.DesiredRetirementSpending
	if !spendingBase.GreaterThan(decimal.Zero) {
		spendingBase = annualExpenses(profile)
	}
	living := spendingBase.Mul(infl)

	// First pass: estimate the tax bill from guaranteed income so the
	// withdrawal target includes it.
	taxableSS := ss.Mul(ssTaxablePortion)
	estOrdinary := spouseSalary.Add(pension).Add(other).Add(rmd).Add(taxableSS)
	estimatedTax := pe.Tax.FederalIncomeTax(estOrdinary, status)

	requiredOutflow := living.Add(estimatedTax)
	available := ss.Add(pension).Add(other).Add(spouseSalary).Add(rmd)
	deficit := requiredOutflow.Sub(available)

	var plan sequencing.WithdrawalPlan
	if deficit.GreaterThan(decimal.Zero) {
		ctx := sequencing.StrategyContext{
			NetNeeded:        deficit,
			CapitalGainsRate: pe.Tax.CapitalGainsRate(estOrdinary, status),
			OrdinaryRate:     pe.Tax.MarginalRate(estOrdinary, status),
		}
		sources := sequencing.CreateWithdrawalSources(
			st.brokerage, st.combinedPretax(), st.combinedRoth(), st.combinedHSA())
		plan = pe.strategyFor(cfg).Plan(sources, ctx)

		st.brokerage = st.brokerage.Sub(plan.GrossFor(sequencing.SourceTaxable))
		st.withdrawPretax(plan.GrossFor(sequencing.SourcePreTax))
		st.withdrawRoth(plan.GrossFor(sequencing.SourceRoth))
		st.withdrawHSA(plan.GrossFor(sequencing.SourceHSA))

		pe.Logger.Debugf("age %d: deficit %s funded gross %s via %s",
			age, deficit.StringFixed(2), plan.TotalGross.StringFixed(2), plan.StrategyUsed)
		if plan.RemainingNeed.GreaterThan(decimal.Zero) {
			pe.Logger.Warnf("age %d: unfunded need %s after exhausting accounts",
				age, plan.RemainingNeed.StringFixed(2))
		}
	} else {
		st.savings = st.savings.Add(deficit.Neg())
	}

	brokerageDraw := plan.GrossFor(sequencing.SourceTaxable)
	pretaxDraw := plan.GrossFor(sequencing.SourcePreTax)

	// Second pass: recompute the bill exactly from what was actually drawn.
	ordinaryBase := spouseSalary.Add(pension).Add(other).Add(rmd).Add(pretaxDraw).Add(taxableSS)
	taxesPaid := pe.Tax.FederalIncomeTax(ordinaryBase, status).
		Add(pe.Tax.CapitalGainsTax(ordinaryBase, brokerageDraw, status))

	st.floorAndGrow(cfg.PortfolioGrowthRate, cfg.BondGrowthRate)

	income := domain.IncomeBreakdown{
		SpouseSalary:      spouseSalary,
		SocialSecurity:    ss,
		Pension:           pension,
		Other:             other,
		RMD:               rmd,
		TaxableWithdrawal: brokerageDraw,
		PreTaxWithdrawal:  pretaxDraw,
		RothWithdrawal:    plan.GrossFor(sequencing.SourceRoth),
		HSAWithdrawal:     plan.GrossFor(sequencing.SourceHSA),
	}
	expenses := domain.ExpenseBreakdown{Living: living}

	return pe.buildRecord(cfg, st, yearIndex, age, income, expenses, taxesPaid)
}

// buildRecord assembles the immutable projection record for one year from
// the post-growth state and the year's flows.
func (pe *ProjectionEngine) buildRecord(cfg *domain.PlanConfig, st *householdState, yearIndex, age int, income domain.IncomeBreakdown, expenses domain.ExpenseBreakdown, taxesPaid decimal.Decimal) domain.AnnualProjection {
	assets := st.assets()
	liabilities := st.liabilities()
	gross := income.Total()

	return domain.AnnualProjection{
		Year:  pe.BaseYear + yearIndex,
		Age:   age,
		Phase: domain.PhaseForAge(age, cfg.RetirementAge),

		GrossIncome:   gross,
		NetIncome:     gross.Sub(taxesPaid),
		TotalExpenses: expenses.Total(),
		TaxesPaid:     taxesPaid,

		TotalAssets:      assets.Total(),
		TotalLiabilities: liabilities.Total(),
		NetWorth:         assets.Total().Sub(liabilities.Total()),

		Assets:      assets,
		Liabilities: liabilities,
		Income:      income,
		Expenses:    expenses,
	}
}
