package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	header := []string{
		"Scenario",
		"Type",
		"Retirement Age",
		"Final Net Worth",
		"Final Assets",
		"Lifetime Tax",
		"Funded To Age",
		"Success Rate",
		"Net Worth Diff from Base",
		"Net Worth % Change",
		"Funded Age Diff",
		"Tax Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	// Write base scenario
	if err := writer.Write(cf.formatRow(compSet.Base, "base")); err != nil {
		return "", err
	}

	// Write alternative scenarios
	for i := range compSet.Alternatives {
		if err := writer.Write(cf.formatRow(&compSet.Alternatives[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a scenario outcome as a CSV row
func (cf *CSVFormatter) formatRow(outcome *ScenarioOutcome, scenarioType string) []string {
	successRate := ""
	if outcome.SuccessRate != nil {
		successRate = outcome.SuccessRate.StringFixed(1)
	}

	return []string{
		outcome.Name,
		scenarioType,
		formatInt(outcome.RetirementAge),
		outcome.FinalNetWorth.StringFixed(2),
		outcome.FinalAssets.StringFixed(2),
		outcome.LifetimeTax.StringFixed(2),
		formatInt(outcome.FundedToAge()),
		successRate,
		outcome.NetWorthDiffFromBase.StringFixed(2),
		outcome.NetWorthPctFromBase.StringFixed(2),
		formatInt(outcome.FundedAgeDiff),
		outcome.TaxDiffFromBase.StringFixed(2),
	}
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
