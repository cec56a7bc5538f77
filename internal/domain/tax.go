package domain

import "github.com/shopspring/decimal"

// BracketEntry is one progressive bracket as written in input files: the
// bracket floor and the marginal rate applied above it.
type BracketEntry struct {
	Floor decimal.Decimal `yaml:"floor" json:"floor"`
	Rate  decimal.Decimal `yaml:"rate" json:"rate"`
}

// TaxConfig optionally overrides the built-in tax tables, keyed by filing
// status. Missing pieces fall back to the built-in year's values, so a file
// may override just the brackets it cares about.
type TaxConfig struct {
	Year                 int                        `yaml:"year" json:"year"`
	StandardDeductions   map[string]decimal.Decimal `yaml:"standard_deductions" json:"standard_deductions"`
	OrdinaryBrackets     map[string][]BracketEntry  `yaml:"ordinary_brackets" json:"ordinary_brackets"`
	CapitalGainsBrackets map[string][]BracketEntry  `yaml:"capital_gains_brackets" json:"capital_gains_brackets"`
}
