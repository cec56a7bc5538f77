package sequencing

import (
	"github.com/shopspring/decimal"
)

// CreateStrategy creates a sequencing strategy by name. The sequence slice
// is only consulted by the custom strategy.
func CreateStrategy(name string, sequence []string) SequencingStrategy {
	switch name {
	case "standard":
		return NewStandardStrategy()
	case "proportional":
		return NewProportionalStrategy()
	case "custom":
		return NewCustomStrategy(sequence)
	default:
		// Fallback to standard if unknown strategy
		return NewStandardStrategy()
	}
}

// CreateWithdrawalSources builds the source slice for one projection year
// from the household's post-RMD balances. Empty pools are skipped.
func CreateWithdrawalSources(taxable, pretax, roth, hsa decimal.Decimal) []WithdrawalSource {
	sources := []WithdrawalSource{}

	if taxable.GreaterThan(decimal.Zero) {
		sources = append(sources, WithdrawalSource{
			Name:         SourceTaxable,
			Balance:      taxable,
			TaxTreatment: CapitalGains,
		})
	}
	if pretax.GreaterThan(decimal.Zero) {
		sources = append(sources, WithdrawalSource{
			Name:         SourcePreTax,
			Balance:      pretax,
			TaxTreatment: OrdinaryIncome,
		})
	}
	if roth.GreaterThan(decimal.Zero) {
		sources = append(sources, WithdrawalSource{
			Name:         SourceRoth,
			Balance:      roth,
			TaxTreatment: TaxFree,
		})
	}
	if hsa.GreaterThan(decimal.Zero) {
		sources = append(sources, WithdrawalSource{
			Name:         SourceHSA,
			Balance:      hsa,
			TaxTreatment: TaxFree,
		})
	}

	return sources
}
