// Prints the built-in federal tax tables and a few worked examples so the
// progressive math can be eyeballed against IRS publications.
package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/calculation"
	"github.com/nestegg/retirement-planner/internal/domain"
)

func main() {
	tax := calculation.NewTaxAssumptions2024()
	statuses := []domain.FilingStatus{domain.FilingSingle, domain.FilingMarriedJointly}

	fmt.Printf("Tax year %d\n\n", tax.Year)

	fmt.Println("Standard deductions:")
	for status, deduction := range tax.StandardDeductions {
		fmt.Printf("  %-16s %s\n", status, deduction.StringFixed(0))
	}
	fmt.Println()

	for _, status := range statuses {
		fmt.Printf("Ordinary brackets (%s):\n", status)
		for _, b := range tax.OrdinaryBrackets[status] {
			fmt.Printf("  %10s - %-12s %s%%\n", b.Min.StringFixed(0), ceilingLabel(b.Max), b.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0))
		}
		fmt.Printf("Capital gains brackets (%s):\n", status)
		for _, b := range tax.CapitalGainsBrackets[status] {
			fmt.Printf("  %10s - %-12s %s%%\n", b.Min.StringFixed(0), ceilingLabel(b.Max), b.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0))
		}
		fmt.Println()
	}

	fmt.Println("RMD divisors:")
	for _, age := range []int{72, 73, 75, 80, 90, 100, 115, 120} {
		fmt.Printf("  age %3d: %s\n", age, tax.RMDDivisor(age))
	}
	fmt.Println()

	fmt.Println("Worked examples:")
	for _, income := range []int64{30000, 85000, 150000, 400000} {
		gross := decimal.NewFromInt(income)
		for _, status := range statuses {
			fmt.Printf("  gross %7d %-16s tax %10s  marginal %s%%  capgains %s%%\n",
				income, status,
				tax.FederalIncomeTax(gross, status).StringFixed(2),
				tax.MarginalRate(gross, status).Mul(decimal.NewFromInt(100)).StringFixed(0),
				tax.CapitalGainsRate(gross, status).Mul(decimal.NewFromInt(100)).StringFixed(0))
		}
	}
}

// ceilingLabel renders the sentinel top-bracket cap as an open end.
func ceilingLabel(max decimal.Decimal) string {
	if max.GreaterThanOrEqual(decimal.New(1, 12)) {
		return "and up"
	}
	return max.StringFixed(0)
}
