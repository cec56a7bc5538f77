package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal Tax Brackets: 2024 tables for all projection years
//    - No inflation indexing applied to future years
//    - Standard deduction: $14,600 single / $29,200 MFJ / $21,900 HoH
//    - No age 65+ additional deduction, AMT, or itemized deductions
//
// 2. Capital Gains: long-term rates only (0/15/20); gains stack on top of
//    ordinary taxable income for bracket determination
//
// 3. Social Security: flat 85% of benefits treated as taxable ordinary income
//
// 4. RMD: SECURE 2.0 uniform lifetime table, forced start at age 73
//
// 5. State and local taxes are not modeled

// ssTaxablePortion is the share of Social Security benefits treated as
// taxable ordinary income.
var ssTaxablePortion = decimal.NewFromFloat(0.85)

// bracketCeiling caps the top bracket so interval math needs no special case.
var bracketCeiling = decimal.New(1, 12)

// TaxBracket represents one progressive bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// ContributionLimits holds the named annual contribution limits.
type ContributionLimits struct {
	Employee401k decimal.Decimal
	IRA          decimal.Decimal
	HSAFamily    decimal.Decimal
	HSASingle    decimal.Decimal
	CatchUp401k  decimal.Decimal // age 50+
	CatchUpIRA   decimal.Decimal // age 50+
	CatchUpHSA   decimal.Decimal // age 55+
}

// TaxAssumptions bundles the versioned tax tables and the pure functions
// over them. Build one at startup and treat it as immutable; alternate
// bracket tables for other years can be injected through NewTaxAssumptions.
type TaxAssumptions struct {
	Year                 int
	StandardDeductions   map[domain.FilingStatus]decimal.Decimal
	OrdinaryBrackets     map[domain.FilingStatus][]TaxBracket
	CapitalGainsBrackets map[domain.FilingStatus][]TaxBracket
	RMDDivisors          map[int]decimal.Decimal // age -> uniform lifetime divisor
	ContributionLimits   ContributionLimits
}

// NewTaxAssumptions2024 builds the assumptions from the 2024 federal tables.
func NewTaxAssumptions2024() *TaxAssumptions {
	return &TaxAssumptions{
		Year: 2024,
		StandardDeductions: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:          decimal.NewFromInt(14600),
			domain.FilingMarriedJointly:  decimal.NewFromInt(29200),
			domain.FilingHeadOfHousehold: decimal.NewFromInt(21900),
		},
		OrdinaryBrackets: map[domain.FilingStatus][]TaxBracket{
			domain.FilingSingle: {
				{decimal.Zero, decimal.NewFromInt(11600), decimal.NewFromFloat(0.10)},
				{decimal.NewFromInt(11600), decimal.NewFromInt(47150), decimal.NewFromFloat(0.12)},
				{decimal.NewFromInt(47150), decimal.NewFromInt(100525), decimal.NewFromFloat(0.22)},
				{decimal.NewFromInt(100525), decimal.NewFromInt(191950), decimal.NewFromFloat(0.24)},
				{decimal.NewFromInt(191950), decimal.NewFromInt(243725), decimal.NewFromFloat(0.32)},
				{decimal.NewFromInt(243725), decimal.NewFromInt(609350), decimal.NewFromFloat(0.35)},
				{decimal.NewFromInt(609350), bracketCeiling, decimal.NewFromFloat(0.37)},
			},
			domain.FilingMarriedJointly: {
				{decimal.Zero, decimal.NewFromInt(23200), decimal.NewFromFloat(0.10)},
				{decimal.NewFromInt(23200), decimal.NewFromInt(94300), decimal.NewFromFloat(0.12)},
				{decimal.NewFromInt(94300), decimal.NewFromInt(201050), decimal.NewFromFloat(0.22)},
				{decimal.NewFromInt(201050), decimal.NewFromInt(383900), decimal.NewFromFloat(0.24)},
				{decimal.NewFromInt(383900), decimal.NewFromInt(487450), decimal.NewFromFloat(0.32)},
				{decimal.NewFromInt(487450), decimal.NewFromInt(731200), decimal.NewFromFloat(0.35)},
				{decimal.NewFromInt(731200), bracketCeiling, decimal.NewFromFloat(0.37)},
			},
		},
		CapitalGainsBrackets: map[domain.FilingStatus][]TaxBracket{
			domain.FilingSingle: {
				{decimal.Zero, decimal.NewFromInt(47025), decimal.Zero},
				{decimal.NewFromInt(47025), decimal.NewFromInt(518900), decimal.NewFromFloat(0.15)},
				{decimal.NewFromInt(518900), bracketCeiling, decimal.NewFromFloat(0.20)},
			},
			domain.FilingMarriedJointly: {
				{decimal.Zero, decimal.NewFromInt(94050), decimal.Zero},
				{decimal.NewFromInt(94050), decimal.NewFromInt(583750), decimal.NewFromFloat(0.15)},
				{decimal.NewFromInt(583750), bracketCeiling, decimal.NewFromFloat(0.20)},
			},
		},
		RMDDivisors:        uniformLifetimeTable(),
		ContributionLimits: contributionLimits2024(),
	}
}

// NewTaxAssumptions builds assumptions from a config override, falling back
// to the 2024 tables for anything the config leaves out.
func NewTaxAssumptions(cfg *domain.TaxConfig) *TaxAssumptions {
	ta := NewTaxAssumptions2024()
	if cfg == nil {
		return ta
	}
	if cfg.Year != 0 {
		ta.Year = cfg.Year
	}
	for status, ded := range cfg.StandardDeductions {
		ta.StandardDeductions[domain.ParseFilingStatus(status)] = ded
	}
	for status, entries := range cfg.OrdinaryBrackets {
		if brackets := bracketsFromEntries(entries); len(brackets) > 0 {
			ta.OrdinaryBrackets[domain.ParseFilingStatus(status)] = brackets
		}
	}
	for status, entries := range cfg.CapitalGainsBrackets {
		if brackets := bracketsFromEntries(entries); len(brackets) > 0 {
			ta.CapitalGainsBrackets[domain.ParseFilingStatus(status)] = brackets
		}
	}
	return ta
}

// bracketsFromEntries converts (floor, rate) pairs into contiguous brackets.
// Entries must be ordered by floor; each bracket caps at the next floor.
func bracketsFromEntries(entries []domain.BracketEntry) []TaxBracket {
	brackets := make([]TaxBracket, 0, len(entries))
	for i, e := range entries {
		max := bracketCeiling
		if i+1 < len(entries) {
			max = entries[i+1].Floor
		}
		brackets = append(brackets, TaxBracket{Min: e.Floor, Max: max, Rate: e.Rate})
	}
	return brackets
}

func uniformLifetimeTable() map[int]decimal.Decimal {
	table := map[int]float64{
		72: 27.4, 73: 26.5, 74: 25.5, 75: 24.6, 76: 23.7,
		77: 22.9, 78: 22.0, 79: 21.1, 80: 20.2, 81: 19.4,
		82: 18.5, 83: 17.7, 84: 16.8, 85: 16.0, 86: 15.2,
		87: 14.4, 88: 13.7, 89: 12.9, 90: 12.2, 91: 11.5,
		92: 10.8, 93: 10.1, 94: 9.5, 95: 8.9, 96: 8.4,
		97: 7.8, 98: 7.3, 99: 6.8, 100: 6.4, 101: 6.0,
		102: 5.6, 103: 5.2, 104: 4.9, 105: 4.6, 106: 4.3,
		107: 4.1, 108: 3.9, 109: 3.7, 110: 3.5, 111: 3.4,
		112: 3.3, 113: 3.1, 114: 3.0, 115: 2.9,
	}
	divisors := make(map[int]decimal.Decimal, len(table))
	for age, d := range table {
		divisors[age] = decimal.NewFromFloat(d)
	}
	return divisors
}

func contributionLimits2024() ContributionLimits {
	return ContributionLimits{
		Employee401k: decimal.NewFromInt(23000),
		IRA:          decimal.NewFromInt(7000),
		HSAFamily:    decimal.NewFromInt(8300),
		HSASingle:    decimal.NewFromInt(4150),
		CatchUp401k:  decimal.NewFromInt(7500),
		CatchUpIRA:   decimal.NewFromInt(1000),
		CatchUpHSA:   decimal.NewFromInt(1000),
	}
}

// deduction returns the standard deduction for a filing status, normalizing
// unknown statuses to single.
func (ta *TaxAssumptions) deduction(status domain.FilingStatus) decimal.Decimal {
	status = domain.ParseFilingStatus(string(status))
	if ded, ok := ta.StandardDeductions[status]; ok {
		return ded
	}
	return ta.StandardDeductions[domain.FilingSingle]
}

// ordinaryBracketsFor returns the bracket table for a status. Head of
// household shares the single table unless one is configured for it.
func (ta *TaxAssumptions) ordinaryBracketsFor(status domain.FilingStatus) []TaxBracket {
	status = domain.ParseFilingStatus(string(status))
	if brackets, ok := ta.OrdinaryBrackets[status]; ok {
		return brackets
	}
	return ta.OrdinaryBrackets[domain.FilingSingle]
}

func (ta *TaxAssumptions) capitalGainsBracketsFor(status domain.FilingStatus) []TaxBracket {
	status = domain.ParseFilingStatus(string(status))
	if brackets, ok := ta.CapitalGainsBrackets[status]; ok {
		return brackets
	}
	return ta.CapitalGainsBrackets[domain.FilingSingle]
}

// taxableOrdinary applies the standard deduction, floored at zero.
func (ta *TaxAssumptions) taxableOrdinary(grossOrdinary decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	taxable := grossOrdinary.Sub(ta.deduction(status))
	if taxable.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return taxable
}

// FederalIncomeTax computes progressive federal tax on ordinary income.
func (ta *TaxAssumptions) FederalIncomeTax(grossOrdinary decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	taxableIncome := ta.taxableOrdinary(grossOrdinary, status)
	if taxableIncome.IsZero() {
		return decimal.Zero
	}

	var totalTax decimal.Decimal
	for _, bracket := range ta.ordinaryBracketsFor(status) {
		if taxableIncome.LessThanOrEqual(bracket.Min) {
			break
		}
		incomeInBracket := decimal.Min(taxableIncome, bracket.Max).Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}

	return totalTax
}

// CapitalGainsTax computes tax on long-term gains stacked on top of ordinary
// income: the stack [taxableOrdinary, taxableOrdinary+gains] is intersected
// with each capital-gains bracket.
func (ta *TaxAssumptions) CapitalGainsTax(grossOrdinary, gains decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if gains.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	stackStart := ta.taxableOrdinary(grossOrdinary, status)
	stackEnd := stackStart.Add(gains)

	var totalTax decimal.Decimal
	for _, bracket := range ta.capitalGainsBracketsFor(status) {
		segStart := decimal.Max(stackStart, bracket.Min)
		segEnd := decimal.Min(stackEnd, bracket.Max)
		if segEnd.GreaterThan(segStart) {
			totalTax = totalTax.Add(segEnd.Sub(segStart).Mul(bracket.Rate))
		}
	}

	return totalTax
}

// MarginalRate returns the rate of the highest ordinary bracket whose floor
// lies below taxable income. Used to gross-up pre-tax withdrawals so the net
// proceeds match a targeted deficit.
func (ta *TaxAssumptions) MarginalRate(grossOrdinary decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	taxableIncome := ta.taxableOrdinary(grossOrdinary, status)

	rate := decimal.Zero
	for _, bracket := range ta.ordinaryBracketsFor(status) {
		if taxableIncome.GreaterThan(bracket.Min) {
			rate = bracket.Rate
		}
	}
	return rate
}

// CapitalGainsRate returns the rate of the capital-gains bracket where the
// gains stack begins, used to gross-up taxable-account withdrawals.
func (ta *TaxAssumptions) CapitalGainsRate(grossOrdinary decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	stackStart := ta.taxableOrdinary(grossOrdinary, status)

	for _, bracket := range ta.capitalGainsBracketsFor(status) {
		if stackStart.GreaterThanOrEqual(bracket.Min) && stackStart.LessThan(bracket.Max) {
			return bracket.Rate
		}
	}
	return decimal.Zero
}

// RMDDivisor returns the uniform lifetime divisor: zero below the forced
// start age of 73, the table value for 73-114, and a flat 2.9 at 115+.
func (ta *TaxAssumptions) RMDDivisor(age int) decimal.Decimal {
	if age < 73 {
		return decimal.Zero
	}
	if age >= 115 {
		return ta.RMDDivisors[115]
	}
	if divisor, ok := ta.RMDDivisors[age]; ok {
		return divisor
	}
	return ta.RMDDivisors[72]
}

// RMDAmount computes the forced distribution for a pre-tax balance, guarding
// the divisor so pre-RMD ages and empty balances yield zero.
func (ta *TaxAssumptions) RMDAmount(balance decimal.Decimal, age int) decimal.Decimal {
	divisor := ta.RMDDivisor(age)
	if divisor.LessThanOrEqual(decimal.Zero) || balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return balance.Div(divisor)
}

// Limits returns the contribution limits. The year argument is reserved for
// future inflation indexing and is currently ignored.
func (ta *TaxAssumptions) Limits(year int) ContributionLimits {
	return ta.ContributionLimits
}
