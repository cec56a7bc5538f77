package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nestegg/retirement-planner/internal/domain"
)

func TestFederalIncomeTax(t *testing.T) {
	ta := NewTaxAssumptions2024()

	tests := []struct {
		name     string
		gross    decimal.Decimal
		status   domain.FilingStatus
		expected decimal.Decimal
	}{
		{
			name:     "Zero income",
			gross:    decimal.Zero,
			status:   domain.FilingSingle,
			expected: decimal.Zero,
		},
		{
			name:     "Income below standard deduction",
			gross:    decimal.NewFromInt(10000),
			status:   domain.FilingSingle,
			expected: decimal.Zero,
		},
		{
			name:     "Income exactly at standard deduction",
			gross:    decimal.NewFromInt(14600),
			status:   domain.FilingSingle,
			expected: decimal.Zero,
		},
		{
			name:   "Single 50k gross",
			gross:  decimal.NewFromInt(50000),
			status: domain.FilingSingle,
			// taxable 35400: 11600*10% + 23800*12%
			expected: decimal.NewFromInt(4016),
		},
		{
			name:   "Single 64.6k gross spans three brackets",
			gross:  decimal.NewFromInt(64600),
			status: domain.FilingSingle,
			// taxable 50000: 1160 + 35550*12% + 2850*22%
			expected: decimal.NewFromInt(6053),
		},
		{
			name:   "Married 100k gross",
			gross:  decimal.NewFromInt(100000),
			status: domain.FilingMarriedJointly,
			// taxable 70800: 23200*10% + 47600*12%
			expected: decimal.NewFromInt(8032),
		},
		{
			name:   "Single 700k gross reaches top bracket",
			gross:  decimal.NewFromInt(700000),
			status: domain.FilingSingle,
			// taxable 685400 through all seven brackets
			expected: decimal.NewFromFloat(211785.75),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := ta.FederalIncomeTax(tt.gross, tt.status)
			assert.True(t, tax.Equal(tt.expected),
				"Expected %s, got %s", tt.expected, tax)
		})
	}
}

func TestFederalIncomeTaxMonotonic(t *testing.T) {
	ta := NewTaxAssumptions2024()

	previous := decimal.Zero
	for income := int64(0); income <= 800000; income += 25000 {
		tax := ta.FederalIncomeTax(decimal.NewFromInt(income), domain.FilingSingle)
		assert.True(t, tax.GreaterThanOrEqual(previous),
			"Tax decreased at income %d: %s < %s", income, tax, previous)
		previous = tax
	}
}

func TestFederalIncomeTaxUnknownStatusFallsBackToSingle(t *testing.T) {
	ta := NewTaxAssumptions2024()

	gross := decimal.NewFromInt(90000)
	unknown := ta.FederalIncomeTax(gross, domain.FilingStatus("martian"))
	single := ta.FederalIncomeTax(gross, domain.FilingSingle)
	assert.True(t, unknown.Equal(single), "Expected %s, got %s", single, unknown)
}

func TestFederalIncomeTaxHeadOfHousehold(t *testing.T) {
	ta := NewTaxAssumptions2024()

	// HoH gets its own deduction but shares the single bracket table:
	// taxable 28100 = 1160 + 16500*12%
	tax := ta.FederalIncomeTax(decimal.NewFromInt(50000), domain.FilingHeadOfHousehold)
	expected := decimal.NewFromInt(3140)
	assert.True(t, tax.Equal(expected), "Expected %s, got %s", expected, tax)
}

func TestCapitalGainsTax(t *testing.T) {
	ta := NewTaxAssumptions2024()

	tests := []struct {
		name     string
		ordinary decimal.Decimal
		gains    decimal.Decimal
		status   domain.FilingStatus
		expected decimal.Decimal
	}{
		{
			name:     "No gains",
			ordinary: decimal.NewFromInt(50000),
			gains:    decimal.Zero,
			status:   domain.FilingSingle,
			expected: decimal.Zero,
		},
		{
			name:     "Gains inside the zero bracket",
			ordinary: decimal.Zero,
			gains:    decimal.NewFromInt(40000),
			status:   domain.FilingSingle,
			expected: decimal.Zero,
		},
		{
			name:     "Gains exactly to the zero bracket edge",
			ordinary: decimal.Zero,
			gains:    decimal.NewFromInt(47025),
			status:   domain.FilingSingle,
			expected: decimal.Zero,
		},
		{
			name:     "Gains straddle the zero and 15% brackets",
			ordinary: decimal.Zero,
			gains:    decimal.NewFromInt(60000),
			status:   domain.FilingSingle,
			// 12975 above 47025 at 15%
			expected: decimal.NewFromFloat(1946.25),
		},
		{
			name:     "Ordinary income pushes the stack into 15%",
			ordinary: decimal.NewFromInt(64600), // taxable 50000
			gains:    decimal.NewFromInt(10000),
			status:   domain.FilingSingle,
			expected: decimal.NewFromInt(1500),
		},
		{
			name:     "Married zero bracket is wider",
			ordinary: decimal.Zero,
			gains:    decimal.NewFromInt(90000),
			status:   domain.FilingMarriedJointly,
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := ta.CapitalGainsTax(tt.ordinary, tt.gains, tt.status)
			assert.True(t, tax.Equal(tt.expected),
				"Expected %s, got %s", tt.expected, tax)
		})
	}
}

func TestMarginalRate(t *testing.T) {
	ta := NewTaxAssumptions2024()

	tests := []struct {
		name     string
		gross    decimal.Decimal
		expected decimal.Decimal
	}{
		{name: "Below deduction", gross: decimal.NewFromInt(10000), expected: decimal.Zero},
		{name: "First bracket", gross: decimal.NewFromInt(20000), expected: decimal.NewFromFloat(0.10)},
		{name: "Fourth bracket", gross: decimal.NewFromInt(200000), expected: decimal.NewFromFloat(0.24)},
		{name: "Top bracket", gross: decimal.NewFromInt(700000), expected: decimal.NewFromFloat(0.37)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := ta.MarginalRate(tt.gross, domain.FilingSingle)
			assert.True(t, rate.Equal(tt.expected),
				"Expected %s, got %s", tt.expected, rate)
		})
	}
}

func TestCapitalGainsRate(t *testing.T) {
	ta := NewTaxAssumptions2024()

	assert.True(t, ta.CapitalGainsRate(decimal.Zero, domain.FilingSingle).IsZero())
	assert.True(t, ta.CapitalGainsRate(decimal.NewFromInt(200000), domain.FilingSingle).
		Equal(decimal.NewFromFloat(0.15)))
	assert.True(t, ta.CapitalGainsRate(decimal.NewFromInt(700000), domain.FilingSingle).
		Equal(decimal.NewFromFloat(0.20)))
}

func TestRMDDivisor(t *testing.T) {
	ta := NewTaxAssumptions2024()

	tests := []struct {
		age      int
		expected decimal.Decimal
	}{
		{age: 45, expected: decimal.Zero},
		{age: 72, expected: decimal.Zero}, // forced start is 73
		{age: 73, expected: decimal.NewFromFloat(26.5)},
		{age: 90, expected: decimal.NewFromFloat(12.2)},
		{age: 114, expected: decimal.NewFromFloat(3.0)},
		{age: 115, expected: decimal.NewFromFloat(2.9)},
		{age: 120, expected: decimal.NewFromFloat(2.9)},
	}

	for _, tt := range tests {
		divisor := ta.RMDDivisor(tt.age)
		assert.True(t, divisor.Equal(tt.expected),
			"Age %d: expected %s, got %s", tt.age, tt.expected, divisor)
	}
}

func TestRMDAmount(t *testing.T) {
	ta := NewTaxAssumptions2024()

	balance := decimal.NewFromInt(500000)
	expected := balance.Div(decimal.NewFromFloat(26.5))
	assert.True(t, ta.RMDAmount(balance, 73).Equal(expected))

	assert.True(t, ta.RMDAmount(balance, 72).IsZero(), "No RMD before 73")
	assert.True(t, ta.RMDAmount(decimal.Zero, 90).IsZero(), "No RMD on empty balance")
}

func TestContributionLimits(t *testing.T) {
	ta := NewTaxAssumptions2024()
	limits := ta.Limits(2024)

	assert.True(t, limits.Employee401k.Equal(decimal.NewFromInt(23000)))
	assert.True(t, limits.IRA.Equal(decimal.NewFromInt(7000)))
	assert.True(t, limits.HSAFamily.Equal(decimal.NewFromInt(8300)))
	assert.True(t, limits.HSASingle.Equal(decimal.NewFromInt(4150)))
	assert.True(t, limits.CatchUp401k.Equal(decimal.NewFromInt(7500)))
	assert.True(t, limits.CatchUpIRA.Equal(decimal.NewFromInt(1000)))
	assert.True(t, limits.CatchUpHSA.Equal(decimal.NewFromInt(1000)))

	// Year is reserved; a different year returns the same table.
	assert.Equal(t, limits, ta.Limits(2031))
}

func TestNewTaxAssumptionsOverride(t *testing.T) {
	cfg := &domain.TaxConfig{
		Year: 2030,
		StandardDeductions: map[string]decimal.Decimal{
			"single": decimal.NewFromInt(15000),
		},
		OrdinaryBrackets: map[string][]domain.BracketEntry{
			"single": {
				{Floor: decimal.Zero, Rate: decimal.NewFromFloat(0.10)},
				{Floor: decimal.NewFromInt(10000), Rate: decimal.NewFromFloat(0.20)},
			},
		},
	}

	ta := NewTaxAssumptions(cfg)
	assert.Equal(t, 2030, ta.Year)

	// taxable 10000 under the override: flat 10%
	tax := ta.FederalIncomeTax(decimal.NewFromInt(25000), domain.FilingSingle)
	assert.True(t, tax.Equal(decimal.NewFromInt(1000)), "got %s", tax)

	// taxable 20000: 10000*10% + 10000*20%
	tax = ta.FederalIncomeTax(decimal.NewFromInt(35000), domain.FilingSingle)
	assert.True(t, tax.Equal(decimal.NewFromInt(3000)), "got %s", tax)

	// Untouched tables fall back to 2024: married deduction unchanged.
	married := ta.FederalIncomeTax(decimal.NewFromInt(29200), domain.FilingMarriedJointly)
	assert.True(t, married.IsZero())

	// Nil config is the 2024 baseline.
	assert.Equal(t, 2024, NewTaxAssumptions(nil).Year)
}
