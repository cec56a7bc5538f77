package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results as a console table.
type TableFormatter struct{}

// Format generates a formatted table for one solve result.
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Solve Target:   %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Status:         %s\n", tf.formatStatus(result.Converged)))
	sb.WriteString(fmt.Sprintf("Iterations:     %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:    %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("BREAK-EVEN VALUE\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalSpending != nil {
		sb.WriteString(fmt.Sprintf("Sustainable Spending: $%s/yr\n", tf.formatCurrency(*result.OptimalSpending)))
	}
	if result.OptimalRetirementAge != nil {
		sb.WriteString(fmt.Sprintf("Retirement Age:       %d\n", *result.OptimalRetirementAge))
	}
	if result.OptimalSavingsScale != nil {
		sb.WriteString(fmt.Sprintf("Savings Multiplier:   %sx\n", result.OptimalSavingsScale.StringFixed(2)))
	}
	if result.OptimalSpending == nil && result.OptimalRetirementAge == nil && result.OptimalSavingsScale == nil {
		sb.WriteString("No feasible value found within the constraints.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Final Net Worth:  $%s\n", tf.formatCurrency(result.FinalNetWorth)))
	sb.WriteString(fmt.Sprintf("Final Assets:     $%s\n", tf.formatCurrency(result.FinalAssets)))
	sb.WriteString(fmt.Sprintf("Lifetime Taxes:   $%s\n", tf.formatCurrency(result.LifetimeTax)))
	sb.WriteString(fmt.Sprintf("Funded To Age:    %d\n", result.FundedToAge))
	if result.SuccessRate != nil {
		sb.WriteString(fmt.Sprintf("Success Rate:     %s%%\n", result.SuccessRate.StringFixed(1)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatFrontier generates a table for a retirement age sweep.
func (tf *TableFormatter) FormatFrontier(points []FrontierPoint) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT AGE FRONTIER\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	hasSuccess := false
	for _, p := range points {
		if p.SuccessRate != nil {
			hasSuccess = true
			break
		}
	}

	if hasSuccess {
		sb.WriteString(fmt.Sprintf("%-6s %18s %18s %14s\n",
			"Age", "Max Spending", "Final Net Worth", "Success Rate"))
	} else {
		sb.WriteString(fmt.Sprintf("%-6s %18s %18s\n",
			"Age", "Max Spending", "Final Net Worth"))
	}
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, p := range points {
		if hasSuccess {
			success := "n/a"
			if p.SuccessRate != nil {
				success = p.SuccessRate.StringFixed(1) + "%"
			}
			sb.WriteString(fmt.Sprintf("%-6d %18s %18s %14s\n",
				p.RetirementAge,
				"$"+tf.formatShort(p.MaxSpending)+"/yr",
				"$"+tf.formatShort(p.FinalNetWorth),
				success))
		} else {
			sb.WriteString(fmt.Sprintf("%-6d %18s %18s\n",
				p.RetirementAge,
				"$"+tf.formatShort(p.MaxSpending)+"/yr",
				"$"+tf.formatShort(p.FinalNetWorth)))
		}
	}
	sb.WriteString("\n")

	if len(points) > 1 {
		first, last := points[0], points[len(points)-1]
		gain := last.MaxSpending.Sub(first.MaxSpending)
		span := last.RetirementAge - first.RetirementAge
		if span > 0 && gain.GreaterThan(decimal.Zero) {
			perYear := gain.Div(decimal.NewFromInt(int64(span)))
			sb.WriteString(fmt.Sprintf("Each year worked past %d buys roughly $%s/yr of spending.\n\n",
				first.RetirementAge, tf.formatShort(perYear)))
		}
	}

	return sb.String()
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for one solve result.
func (jf *JSONFormatter) Format(result *SolveResult) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatFrontier generates JSON output for a retirement age sweep.
func (jf *JSONFormatter) FormatFrontier(points []FrontierPoint) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(points, "", "  ")
	} else {
		data, err = json.Marshal(points)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (tf *TableFormatter) formatStatus(converged bool) string {
	if converged {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}
