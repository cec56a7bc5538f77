package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg/retirement-planner/internal/domain"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	assert.NotNil(t, NewInputParser(), "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	input, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, input)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "invalid.yaml", "plan_name: [unclosed")

	parser := NewInputParser()
	input, err := parser.LoadFromFile(path)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, input)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_UnsupportedExtension(t *testing.T) {
	path := writeTempConfig(t, "plan.txt", "plan_name: test")

	parser := NewInputParser()
	input, err := parser.LoadFromFile(path)

	assert.Error(t, err)
	assert.Nil(t, input)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	path := writeTempConfig(t, "plan.yaml", `
plan_name: "early retirement"
filing_status: "married_jointly"
risk_profile: "aggressive"
profile:
  age: 42
  annual_salary: 120000
  spouse_annual_salary: 60000
  annual_expenses: 54000
  pre_tax_balance: 250000
  brokerage_balance: 80000
  mortgage_balance: 300000
plan:
  retirement_age: 55
  end_age: 92
  social_security_benefit: 28000
  inflation_rate: 2.5
  withdrawal_strategy: custom
  withdrawal_sequence: [roth, taxable, pretax]
spouse:
  age: 40
  retirement_age: 58
  social_security_benefit: 18000
`)

	parser := NewInputParser()
	input, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "early retirement", input.PlanName)
	assert.Equal(t, "married_jointly", input.FilingStatus)
	assert.Equal(t, 42, input.Profile.Age)
	assert.True(t, input.Profile.AnnualSalary.Equal(decimal.NewFromInt(120000)))
	assert.True(t, input.Profile.MortgageBalance.Equal(decimal.NewFromInt(300000)))
	require.NotNil(t, input.Plan)
	assert.Equal(t, 55, input.Plan.RetirementAge)
	assert.True(t, input.Plan.InflationRate.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, "custom", input.Plan.WithdrawalStrategy)
	assert.Equal(t, []string{"roth", "taxable", "pretax"}, input.Plan.WithdrawalSequence)
	require.NotNil(t, input.Spouse)
	assert.Equal(t, 40, input.Spouse.Age)
	assert.Nil(t, input.Tax)
}

func TestInputParser_LoadFromFile_ValidTOML(t *testing.T) {
	// TOML decodes decimals through TextUnmarshaler, so money is quoted.
	path := writeTempConfig(t, "plan.toml", `
plan_name = "toml plan"
filing_status = "single"

[profile]
age = 50
annual_salary = "90000"
annual_expenses = "40000"
pre_tax_balance = "400000"

[plan]
retirement_age = 62
portfolio_growth_rate = "6.0"
`)

	parser := NewInputParser()
	input, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "toml plan", input.PlanName)
	assert.Equal(t, 50, input.Profile.Age)
	assert.True(t, input.Profile.PreTaxBalance.Equal(decimal.NewFromInt(400000)))
	require.NotNil(t, input.Plan)
	assert.Equal(t, 62, input.Plan.RetirementAge)
	assert.True(t, input.Plan.PortfolioGrowthRate.Equal(decimal.NewFromFloat(6.0)))
}

func TestInputParser_LoadFromFile_ValidJSON(t *testing.T) {
	path := writeTempConfig(t, "plan.json", `{
  "plan_name": "json plan",
  "filing_status": "head_household",
  "profile": {
    "age": 45,
    "annual_salary": 75000,
    "savings_balance": 15000
  },
  "plan": {
    "end_age": 90,
    "desired_retirement_spending": 52000
  }
}`)

	parser := NewInputParser()
	input, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "json plan", input.PlanName)
	assert.Equal(t, 45, input.Profile.Age)
	assert.True(t, input.Profile.SavingsBalance.Equal(decimal.NewFromInt(15000)))
	require.NotNil(t, input.Plan)
	assert.Equal(t, 90, input.Plan.EndAge)
	assert.True(t, input.Plan.DesiredRetirementSpending.Equal(decimal.NewFromInt(52000)))
}

func TestInputParser_FormatsResolveIdentically(t *testing.T) {
	yamlPath := writeTempConfig(t, "plan.yaml", `
plan_id: "round-trip"
filing_status: single
profile:
  age: 40
  annual_salary: 100000
plan:
  retirement_age: 60
  end_age: 90
`)
	tomlPath := writeTempConfig(t, "plan.toml", `
plan_id = "round-trip"
filing_status = "single"

[profile]
age = 40
annual_salary = "100000"

[plan]
retirement_age = 60
end_age = 90
`)
	jsonPath := writeTempConfig(t, "plan.json", `{
  "plan_id": "round-trip",
  "filing_status": "single",
  "profile": {"age": 40, "annual_salary": 100000},
  "plan": {"retirement_age": 60, "end_age": 90}
}`)

	parser := NewInputParser()
	var configs []*domain.PlanConfig
	var profiles []*domain.FinancialProfile
	for _, path := range []string{yamlPath, tomlPath, jsonPath} {
		input, err := parser.LoadFromFile(path)
		require.NoError(t, err, "load %s", path)
		cfg, profile, err := parser.Resolve(input)
		require.NoError(t, err, "resolve %s", path)
		configs = append(configs, cfg)
		profiles = append(profiles, profile)
	}

	for i := 1; i < len(configs); i++ {
		assert.Equal(t, configs[0].PlanID, configs[i].PlanID)
		assert.Equal(t, configs[0].RetirementAge, configs[i].RetirementAge)
		assert.Equal(t, configs[0].EndAge, configs[i].EndAge)
		assert.True(t, configs[0].InflationRate.Equal(configs[i].InflationRate))
		assert.True(t, profiles[0].AnnualSalary.Equal(profiles[i].AnnualSalary))
		assert.True(t, configs[0].Contributions.PreTax.Equal(configs[i].Contributions.PreTax))
	}
}

func TestTaxInput_ToDomain(t *testing.T) {
	var nilInput *TaxInput
	assert.Nil(t, nilInput.ToDomain())

	in := &TaxInput{
		Year:               2025,
		StandardDeductions: map[string]decimal.Decimal{"single": decimal.NewFromInt(15000)},
		OrdinaryBrackets: map[string][]BracketInput{
			"single": {
				{Floor: decimal.Zero, Rate: decimal.NewFromFloat(0.10)},
				{Floor: decimal.NewFromInt(12000), Rate: decimal.NewFromFloat(0.12)},
			},
		},
	}

	cfg := in.ToDomain()
	require.NotNil(t, cfg)
	assert.Equal(t, 2025, cfg.Year)
	assert.True(t, cfg.StandardDeductions["single"].Equal(decimal.NewFromInt(15000)))
	require.Len(t, cfg.OrdinaryBrackets["single"], 2)
	assert.True(t, cfg.OrdinaryBrackets["single"][1].Floor.Equal(decimal.NewFromInt(12000)))
	assert.Empty(t, cfg.CapitalGainsBrackets)
}

func TestInputParser_LoadFromFile_TaxSection(t *testing.T) {
	path := writeTempConfig(t, "plan.yaml", `
profile:
  age: 40
tax:
  year: 2025
  standard_deductions:
    single: 15000
  ordinary_brackets:
    single:
      - {floor: 0, rate: 0.10}
      - {floor: 12000, rate: 0.15}
`)

	parser := NewInputParser()
	input, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	require.NotNil(t, input.Tax)
	assert.Equal(t, 2025, input.Tax.Year)
	require.Len(t, input.Tax.OrdinaryBrackets["single"], 2)
	assert.True(t, input.Tax.OrdinaryBrackets["single"][1].Rate.Equal(decimal.NewFromFloat(0.15)))
}
