package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// PlanInput is the raw document a user writes. Profile holds what the
// household looks like today, Plan holds optional overrides for how the
// projection should run, and both feed Resolve with the precedence
// plan override > profile value > system default.
type PlanInput struct {
	PlanID       string `yaml:"plan_id" toml:"plan_id" json:"plan_id"`
	PlanName     string `yaml:"plan_name" toml:"plan_name" json:"plan_name"`
	FilingStatus string `yaml:"filing_status" toml:"filing_status" json:"filing_status"`
	RiskProfile  string `yaml:"risk_profile" toml:"risk_profile" json:"risk_profile"`

	Profile ProfileInput   `yaml:"profile" toml:"profile" json:"profile"`
	Plan    *PlanOverrides `yaml:"plan,omitempty" toml:"plan" json:"plan,omitempty"`
	Spouse  *SpouseInput   `yaml:"spouse,omitempty" toml:"spouse" json:"spouse,omitempty"`
	Tax     *TaxInput      `yaml:"tax,omitempty" toml:"tax" json:"tax,omitempty"`
}

// ProfileInput is the household's current financial snapshot. All money
// fields are today's dollars.
type ProfileInput struct {
	Age                int             `yaml:"age" toml:"age" json:"age"`
	AnnualSalary       decimal.Decimal `yaml:"annual_salary" toml:"annual_salary" json:"annual_salary"`
	SpouseAnnualSalary decimal.Decimal `yaml:"spouse_annual_salary" toml:"spouse_annual_salary" json:"spouse_annual_salary"`
	OtherAnnualIncome  decimal.Decimal `yaml:"other_annual_income" toml:"other_annual_income" json:"other_annual_income"`
	AnnualExpenses     decimal.Decimal `yaml:"annual_expenses" toml:"annual_expenses" json:"annual_expenses"`

	// Profile-level expectations, overridden by the plan section.
	ExpectedRetirementAge      int             `yaml:"expected_retirement_age" toml:"expected_retirement_age" json:"expected_retirement_age"`
	ExpectedRetirementSpending decimal.Decimal `yaml:"expected_retirement_spending" toml:"expected_retirement_spending" json:"expected_retirement_spending"`

	PreTaxBalance       decimal.Decimal `yaml:"pre_tax_balance" toml:"pre_tax_balance" json:"pre_tax_balance"`
	SpousePreTaxBalance decimal.Decimal `yaml:"spouse_pre_tax_balance" toml:"spouse_pre_tax_balance" json:"spouse_pre_tax_balance"`
	RothBalance         decimal.Decimal `yaml:"roth_balance" toml:"roth_balance" json:"roth_balance"`
	SpouseRothBalance   decimal.Decimal `yaml:"spouse_roth_balance" toml:"spouse_roth_balance" json:"spouse_roth_balance"`
	HSABalance          decimal.Decimal `yaml:"hsa_balance" toml:"hsa_balance" json:"hsa_balance"`
	SpouseHSABalance    decimal.Decimal `yaml:"spouse_hsa_balance" toml:"spouse_hsa_balance" json:"spouse_hsa_balance"`
	BrokerageBalance    decimal.Decimal `yaml:"brokerage_balance" toml:"brokerage_balance" json:"brokerage_balance"`
	SavingsBalance      decimal.Decimal `yaml:"savings_balance" toml:"savings_balance" json:"savings_balance"`

	MortgageBalance decimal.Decimal `yaml:"mortgage_balance" toml:"mortgage_balance" json:"mortgage_balance"`
	ConsumerDebt    decimal.Decimal `yaml:"consumer_debt" toml:"consumer_debt" json:"consumer_debt"`
}

// PlanOverrides carries the optional projection parameters. Zero fields fall
// through to the profile expectation or the system default. Rates are
// percentages (3.0 means 3%).
type PlanOverrides struct {
	RetirementAge          int `yaml:"retirement_age" toml:"retirement_age" json:"retirement_age"`
	EndAge                 int `yaml:"end_age" toml:"end_age" json:"end_age"`
	SocialSecurityStartAge int `yaml:"social_security_start_age" toml:"social_security_start_age" json:"social_security_start_age"`

	SocialSecurityBenefit     decimal.Decimal `yaml:"social_security_benefit" toml:"social_security_benefit" json:"social_security_benefit"`
	PensionIncome             decimal.Decimal `yaml:"pension_income" toml:"pension_income" json:"pension_income"`
	DesiredRetirementSpending decimal.Decimal `yaml:"desired_retirement_spending" toml:"desired_retirement_spending" json:"desired_retirement_spending"`

	InflationRate       decimal.Decimal `yaml:"inflation_rate" toml:"inflation_rate" json:"inflation_rate"`
	PortfolioGrowthRate decimal.Decimal `yaml:"portfolio_growth_rate" toml:"portfolio_growth_rate" json:"portfolio_growth_rate"`
	BondGrowthRate      decimal.Decimal `yaml:"bond_growth_rate" toml:"bond_growth_rate" json:"bond_growth_rate"`

	WithdrawalStrategy string   `yaml:"withdrawal_strategy" toml:"withdrawal_strategy" json:"withdrawal_strategy"`
	WithdrawalSequence []string `yaml:"withdrawal_sequence" toml:"withdrawal_sequence" json:"withdrawal_sequence"`

	Contributions *ContributionsInput `yaml:"contributions,omitempty" toml:"contributions" json:"contributions,omitempty"`
}

// ContributionsInput holds explicit annual contribution amounts. When the
// section is absent entirely, Resolve derives defaults from salary and age;
// when present, its values are taken verbatim, zeros included.
type ContributionsInput struct {
	PreTax    decimal.Decimal `yaml:"pre_tax" toml:"pre_tax" json:"pre_tax"`
	Roth      decimal.Decimal `yaml:"roth" toml:"roth" json:"roth"`
	HSA       decimal.Decimal `yaml:"hsa" toml:"hsa" json:"hsa"`
	Brokerage decimal.Decimal `yaml:"brokerage" toml:"brokerage" json:"brokerage"`
}

// SpouseInput mirrors the plan parameters for a second earner.
type SpouseInput struct {
	Age                    int                 `yaml:"age" toml:"age" json:"age"`
	RetirementAge          int                 `yaml:"retirement_age" toml:"retirement_age" json:"retirement_age"`
	SocialSecurityStartAge int                 `yaml:"social_security_start_age" toml:"social_security_start_age" json:"social_security_start_age"`
	SocialSecurityBenefit  decimal.Decimal     `yaml:"social_security_benefit" toml:"social_security_benefit" json:"social_security_benefit"`
	Contributions          *ContributionsInput `yaml:"contributions,omitempty" toml:"contributions" json:"contributions,omitempty"`
}

// TaxInput optionally overrides the built-in tax tables. Brackets are
// (floor, rate) pairs ordered by floor, keyed by filing status.
type TaxInput struct {
	Year                 int                        `yaml:"year" toml:"year" json:"year"`
	StandardDeductions   map[string]decimal.Decimal `yaml:"standard_deductions" toml:"standard_deductions" json:"standard_deductions"`
	OrdinaryBrackets     map[string][]BracketInput  `yaml:"ordinary_brackets" toml:"ordinary_brackets" json:"ordinary_brackets"`
	CapitalGainsBrackets map[string][]BracketInput  `yaml:"capital_gains_brackets" toml:"capital_gains_brackets" json:"capital_gains_brackets"`
}

// BracketInput is one progressive bracket as written in an input file.
type BracketInput struct {
	Floor decimal.Decimal `yaml:"floor" toml:"floor" json:"floor"`
	Rate  decimal.Decimal `yaml:"rate" toml:"rate" json:"rate"`
}

// ToDomain converts the tax section into the engine's override config.
func (ti *TaxInput) ToDomain() *domain.TaxConfig {
	if ti == nil {
		return nil
	}
	cfg := &domain.TaxConfig{
		Year:                 ti.Year,
		StandardDeductions:   ti.StandardDeductions,
		OrdinaryBrackets:     make(map[string][]domain.BracketEntry, len(ti.OrdinaryBrackets)),
		CapitalGainsBrackets: make(map[string][]domain.BracketEntry, len(ti.CapitalGainsBrackets)),
	}
	for status, entries := range ti.OrdinaryBrackets {
		cfg.OrdinaryBrackets[status] = bracketEntries(entries)
	}
	for status, entries := range ti.CapitalGainsBrackets {
		cfg.CapitalGainsBrackets[status] = bracketEntries(entries)
	}
	return cfg
}

func bracketEntries(in []BracketInput) []domain.BracketEntry {
	out := make([]domain.BracketEntry, len(in))
	for i, b := range in {
		out[i] = domain.BracketEntry{Floor: b.Floor, Rate: b.Rate}
	}
	return out
}

// InputParser handles parsing of input configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan document, dispatching on file extension:
// .yaml/.yml, .toml or .json.
func (ip *InputParser) LoadFromFile(filename string) (*PlanInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, filepath.Ext(filename))
}

// Parse decodes a plan document in the format implied by ext. An empty
// extension is treated as YAML.
func (ip *InputParser) Parse(data []byte, ext string) (*PlanInput, error) {
	var input PlanInput
	switch strings.ToLower(ext) {
	case "", ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .toml or .json)", ext)
	}
	return &input, nil
}

// SaveToFile writes a plan document as YAML.
func SaveToFile(input *PlanInput, filename string) error {
	data, err := yaml.Marshal(input)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}
