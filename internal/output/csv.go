package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// CSVFormatter writes the projection as one row per simulated year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no projection data to format")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Year", "Age", "Phase",
		"GrossIncome", "NetIncome", "TaxesPaid", "CumulativeTax", "TotalExpenses",
		"Salary", "SpouseSalary", "SocialSecurity", "Pension", "OtherIncome",
		"RMD", "TaxableWithdrawal", "PreTaxWithdrawal", "RothWithdrawal", "HSAWithdrawal",
		"PreTaxBalance", "RothBalance", "HSABalance", "BrokerageBalance", "SavingsBalance",
		"TotalAssets", "MortgageBalance", "ConsumerDebt", "NetWorth",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, year := range result.Projections {
		row := []string{
			strconv.Itoa(year.Year),
			strconv.Itoa(year.Age),
			year.Phase.String(),
			year.GrossIncome.StringFixed(2),
			year.NetIncome.StringFixed(2),
			year.TaxesPaid.StringFixed(2),
			year.CumulativeTax.StringFixed(2),
			year.TotalExpenses.StringFixed(2),
			year.Income.Salary.StringFixed(2),
			year.Income.SpouseSalary.StringFixed(2),
			year.Income.SocialSecurity.StringFixed(2),
			year.Income.Pension.StringFixed(2),
			year.Income.Other.StringFixed(2),
			year.Income.RMD.StringFixed(2),
			year.Income.TaxableWithdrawal.StringFixed(2),
			year.Income.PreTaxWithdrawal.StringFixed(2),
			year.Income.RothWithdrawal.StringFixed(2),
			year.Income.HSAWithdrawal.StringFixed(2),
			year.Assets.PreTax.StringFixed(2),
			year.Assets.Roth.StringFixed(2),
			year.Assets.HSA.StringFixed(2),
			year.Assets.Brokerage.StringFixed(2),
			year.Assets.Savings.StringFixed(2),
			year.TotalAssets.StringFixed(2),
			year.Liabilities.Mortgage.StringFixed(2),
			year.Liabilities.ConsumerDebt.StringFixed(2),
			year.NetWorth.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), nil
}
