package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
// Future: could be generated from the resolved plan configuration.
var DefaultAssumptions = []string{
	"Growth is applied at year end, after the year's contributions and withdrawals",
	"Account balances never go below zero; shortfalls go unfunded rather than borrowed",
	"Mortgage payments run $28,000 per year (60% principal) until the balance retires",
	"Working-year surplus is invested 70% brokerage / 30% savings",
	"85% of Social Security benefits are treated as taxable income",
	"Required minimum distributions begin at age 73",
	"Tax brackets are held at resolved-year levels (no inflation indexing)",
}
