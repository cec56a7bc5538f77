package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("RETIREMENT SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 90) + "\n")
	sb.WriteString(fmt.Sprintf("Base scenario: %s\n", compSet.BaseName))
	sb.WriteString("\n")

	// Column widths
	nameWidth := 25
	numWidth := 14
	ageWidth := 10

	// Table header
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		ageWidth, "Retires At",
		numWidth, "Net Worth",
		numWidth, "Lifetime Tax",
		ageWidth, "Funded To",
		ageWidth, "Success"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	// Base scenario row
	sb.WriteString(tf.formatRow(compSet.Base, nameWidth, numWidth, ageWidth, true))

	// Alternative scenarios
	if len(compSet.Alternatives) > 0 {
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for i := range compSet.Alternatives {
			sb.WriteString(tf.formatRow(&compSet.Alternatives[i], nameWidth, numWidth, ageWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 90) + "\n")

	// Comparison details (deltas from base)
	if len(compSet.Alternatives) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")

		for _, alt := range compSet.Alternatives {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Name))

			// Net worth difference
			worthSymbol := tf.deltaSymbol(alt.NetWorthDiffFromBase)
			sb.WriteString(fmt.Sprintf("  Final Net Worth:  %s$%s (%s%%)\n",
				worthSymbol,
				tf.formatDecimal(alt.NetWorthDiffFromBase.Abs()),
				alt.NetWorthPctFromBase.StringFixed(1)))

			// Funded age difference
			if alt.FundedAgeDiff != 0 {
				fundedSymbol := "+"
				if alt.FundedAgeDiff < 0 {
					fundedSymbol = ""
				}
				sb.WriteString(fmt.Sprintf("  Funded Horizon:   %s%d years\n",
					fundedSymbol, alt.FundedAgeDiff))
			}

			// Tax difference
			if !alt.TaxDiffFromBase.IsZero() {
				taxSymbol := tf.deltaSymbol(alt.TaxDiffFromBase.Neg()) // Lower taxes are better
				sb.WriteString(fmt.Sprintf("  Tax Impact:       %s$%s\n",
					taxSymbol,
					tf.formatDecimal(alt.TaxDiffFromBase.Abs())))
			}
		}
		sb.WriteString("\n")
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(outcome *ScenarioOutcome, nameWidth, numWidth, ageWidth int, isBase bool) string {
	name := outcome.Name
	if isBase {
		name += " (base)"
	}

	fundedStr := fmt.Sprintf("age %d", outcome.FundedToAge())
	if outcome.DepletedAge > 0 {
		fundedStr = fmt.Sprintf("age %d*", outcome.FundedToAge())
	}

	successStr := "n/a"
	if outcome.SuccessRate != nil {
		successStr = outcome.SuccessRate.StringFixed(1) + "%"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		ageWidth, fmt.Sprintf("%d", outcome.RetirementAge),
		numWidth, "$"+tf.formatDecimal(outcome.FinalNetWorth),
		numWidth, "$"+tf.formatDecimal(outcome.LifetimeTax),
		ageWidth, fundedStr,
		ageWidth, successStr)
}

// formatDecimal formats a decimal for display (in thousands or millions)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseName))

	for i, alt := range compSet.Alternatives {
		if i > 0 {
			sb.WriteString(" | ")
		}
		worthChange := "="
		if alt.NetWorthDiffFromBase.IsPositive() {
			worthChange = fmt.Sprintf("+$%s", tf.formatDecimal(alt.NetWorthDiffFromBase))
		} else if alt.NetWorthDiffFromBase.IsNegative() {
			worthChange = fmt.Sprintf("-$%s", tf.formatDecimal(alt.NetWorthDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.Name, worthChange))
	}

	return sb.String()
}
