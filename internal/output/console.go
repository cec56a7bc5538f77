package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// ConsoleFormatter renders the detailed plain-text report for terminal display.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil || len(result.Projections) == 0 {
		return nil, fmt.Errorf("no projection data to format")
	}

	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "RETIREMENT PROJECTION: %s\n", result.PlanName)
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeSummary(&buf, result)
	writeFirstRetirementYear(&buf, result)
	writeYearTable(&buf, result)
	if result.MonteCarlo != nil {
		writeMonteCarlo(&buf, result.MonteCarlo)
	}

	return buf.Bytes(), nil
}

func writeSummary(buf *bytes.Buffer, result *domain.ProjectionResult) {
	first := result.Projections[0]
	final := result.FinalProjection()

	fmt.Fprintln(buf, "PLAN SUMMARY")
	fmt.Fprintln(buf, "============")
	fmt.Fprintf(buf, "Filing status:        %s\n", result.FilingStatus)
	fmt.Fprintf(buf, "Retirement age:       %d\n", result.RetirementAge)
	fmt.Fprintf(buf, "Projection horizon:   age %d to %d (%d-%d)\n", first.Age, final.Age, first.Year, final.Year)
	fmt.Fprintf(buf, "Final total assets:   %s\n", FormatCurrency(final.TotalAssets))
	fmt.Fprintf(buf, "Final net worth:      %s\n", FormatCurrency(final.NetWorth))
	fmt.Fprintf(buf, "Lifetime tax paid:    %s\n", FormatCurrency(result.LifetimeTax()))
	fmt.Fprintln(buf)
}

func writeFirstRetirementYear(buf *bytes.Buffer, result *domain.ProjectionResult) {
	year := result.FirstDecumulationYear()
	if year == nil {
		return
	}

	fmt.Fprintf(buf, "FIRST RETIREMENT YEAR (%d, age %d)\n", year.Year, year.Age)
	fmt.Fprintln(buf, "----------------------------------------")
	fmt.Fprintln(buf, "INCOME SOURCES:")
	writeIncomeLine(buf, "Social Security:", year.Income.SocialSecurity)
	writeIncomeLine(buf, "Pension:", year.Income.Pension)
	writeIncomeLine(buf, "Spouse Salary:", year.Income.SpouseSalary)
	writeIncomeLine(buf, "Other Income:", year.Income.Other)
	writeIncomeLine(buf, "RMD:", year.Income.RMD)
	writeIncomeLine(buf, "Taxable Withdrawal:", year.Income.TaxableWithdrawal)
	writeIncomeLine(buf, "Pre-Tax Withdrawal:", year.Income.PreTaxWithdrawal)
	writeIncomeLine(buf, "Roth Withdrawal:", year.Income.RothWithdrawal)
	writeIncomeLine(buf, "HSA Withdrawal:", year.Income.HSAWithdrawal)
	fmt.Fprintf(buf, "  TOTAL GROSS INCOME:   %s\n", FormatCurrency(year.GrossIncome))
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "TAXES AND EXPENSES:")
	fmt.Fprintf(buf, "  Federal Tax:          %s\n", FormatCurrency(year.TaxesPaid))
	fmt.Fprintf(buf, "  Living Expenses:      %s\n", FormatCurrency(year.Expenses.Living))
	if year.Expenses.MortgagePayment.GreaterThan(decimal.Zero) {
		fmt.Fprintf(buf, "  Mortgage Payment:     %s\n", FormatCurrency(year.Expenses.MortgagePayment))
	}
	fmt.Fprintf(buf, "  NET INCOME:           %s\n", FormatCurrency(year.NetIncome))
	fmt.Fprintln(buf)
}

func writeIncomeLine(buf *bytes.Buffer, label string, amount decimal.Decimal) {
	if amount.IsZero() {
		return
	}
	fmt.Fprintf(buf, "  %-21s %s\n", label, FormatCurrency(amount))
}

func writeYearTable(buf *bytes.Buffer, result *domain.ProjectionResult) {
	fmt.Fprintln(buf, "YEAR-BY-YEAR PROJECTION:")
	fmt.Fprintf(buf, "%-6s  %-4s  %-13s  %-14s  %-12s  %-14s  %-14s  %s\n",
		"Year", "Age", "Phase", "Gross Income", "Taxes", "Expenses", "Total Assets", "Net Worth")
	fmt.Fprintln(buf, strings.Repeat("-", 104))

	for _, year := range result.Projections {
		fmt.Fprintf(buf, "%-6d  %-4d  %-13s  %-14s  %-12s  %-14s  %-14s  %s\n",
			year.Year,
			year.Age,
			year.Phase,
			FormatCurrency(year.GrossIncome),
			FormatCurrency(year.TaxesPaid),
			FormatCurrency(year.TotalExpenses),
			FormatCurrency(year.TotalAssets),
			FormatCurrency(year.NetWorth),
		)
	}
	fmt.Fprintln(buf)
}

func writeMonteCarlo(buf *bytes.Buffer, mc *domain.MonteCarloResult) {
	fmt.Fprintln(buf, "MONTE CARLO ANALYSIS:")
	fmt.Fprintln(buf, "---------------------------------------------------")
	fmt.Fprintf(buf, "Simulations:            %d\n", mc.NumSimulations)
	fmt.Fprintf(buf, "Risk profile:           %s\n", mc.RiskProfile)
	fmt.Fprintf(buf, "Success rate:           %s\n", FormatPercent(mc.SuccessRate))
	fmt.Fprintf(buf, "Median ending balance:  %s\n", FormatCurrency(mc.MedianEndingBalance))

	// Horizon is the index of the final projected year within each band.
	horizon := mc.Horizon()
	if horizon > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "Ending balance percentiles:")
		writePercentileLine(buf, "10th percentile:", mc.Percentiles[domain.Percentile10], horizon)
		writePercentileLine(buf, "50th percentile:", mc.Percentiles[domain.Percentile50], horizon)
		writePercentileLine(buf, "90th percentile:", mc.Percentiles[domain.Percentile90], horizon)
	}
	fmt.Fprintln(buf)
}

func writePercentileLine(buf *bytes.Buffer, label string, band []decimal.Decimal, idx int) {
	if idx >= len(band) {
		return
	}
	fmt.Fprintf(buf, "  %-18s %s\n", label, FormatCurrency(band[idx]))
}
