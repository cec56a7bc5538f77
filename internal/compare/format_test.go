package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func sampleComparisonSet() *ComparisonSet {
	successRate := decimal.NewFromFloat(91.2)
	return &ComparisonSet{
		BaseName: "Base Scenario",
		Base: &ScenarioOutcome{
			Name:          "Base Scenario",
			RetirementAge: 65,
			HorizonEndAge: 95,
			FinalAssets:   decimal.NewFromInt(900000),
			FinalNetWorth: decimal.NewFromInt(850000),
			LifetimeTax:   decimal.NewFromInt(500000),
		},
		Alternatives: []ScenarioOutcome{
			{
				Name:                 "Alternative 1",
				RetirementAge:        62,
				HorizonEndAge:        95,
				DepletedAge:          91,
				FinalAssets:          decimal.Zero,
				FinalNetWorth:        decimal.NewFromInt(650000),
				LifetimeTax:          decimal.NewFromInt(450000),
				SuccessRate:          &successRate,
				NetWorthDiffFromBase: decimal.NewFromInt(-200000),
				NetWorthPctFromBase:  decimal.NewFromFloat(-23.5),
				TaxDiffFromBase:      decimal.NewFromInt(-50000),
				FundedAgeDiff:        -5,
			},
		},
		Recommendations: []string{
			"Lowest Taxes: Alternative 1 saves $50000 in lifetime taxes",
		},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}

	result := formatter.Format(sampleComparisonSet())

	if result == "" {
		t.Fatal("Expected formatted output, got empty string")
	}
	if !contains(result, "RETIREMENT SCENARIO COMPARISON") {
		t.Error("Expected header in output")
	}
	if !contains(result, "Base scenario: Base Scenario") {
		t.Error("Expected base scenario name in output")
	}
	if !contains(result, "Base Scenario (base)") {
		t.Error("Expected base marker in table")
	}
	if !contains(result, "Alternative 1") {
		t.Error("Expected alternative scenario in table")
	}
	if !contains(result, "age 90*") {
		t.Error("Expected depletion marker for the alternative")
	}
	if !contains(result, "91.2%") {
		t.Error("Expected success rate column")
	}
	if !contains(result, "n/a") {
		t.Error("Expected n/a success rate for the base")
	}
	if !contains(result, "COMPARISON TO BASE") {
		t.Error("Expected comparison section")
	}
	if !contains(result, "-$200.0K (-23.5%)") {
		t.Error("Expected signed net worth delta")
	}
	if !contains(result, "Funded Horizon:   -5 years") {
		t.Error("Expected funded horizon delta")
	}
	if !contains(result, "RECOMMENDATIONS") {
		t.Error("Expected recommendations section")
	}
	if !contains(result, "• Lowest Taxes") {
		t.Error("Expected recommendation bullet")
	}
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	formatter := &TableFormatter{}

	compSet := sampleComparisonSet()
	compSet.Alternatives = nil
	compSet.Recommendations = nil

	result := formatter.Format(compSet)

	if result == "" {
		t.Fatal("Expected formatted output, got empty string")
	}
	if !contains(result, "RETIREMENT SCENARIO COMPARISON") {
		t.Error("Expected header in output")
	}
	if !contains(result, "Base Scenario") {
		t.Error("Expected base scenario in table")
	}
	if contains(result, "Alternative") {
		t.Error("Should not have alternative scenarios in output")
	}
	if contains(result, "COMPARISON TO BASE") {
		t.Error("Should not have comparison section without alternatives")
	}
}

func TestTableFormatter_formatDecimal(t *testing.T) {
	formatter := &TableFormatter{}

	cases := []struct {
		in   int64
		want string
	}{
		{999, "999"},
		{45678, "45.7K"},
		{1234567, "1.23M"},
		{-250000, "-250.0K"},
	}
	for _, tc := range cases {
		got := formatter.formatDecimal(decimal.NewFromInt(tc.in))
		if got != tc.want {
			t.Errorf("formatDecimal(%d): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestTableFormatter_truncate(t *testing.T) {
	formatter := &TableFormatter{}

	if got := formatter.truncate("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %s", got)
	}
	if got := formatter.truncate("a very long scenario name", 10); got != "a very ..." {
		t.Errorf("Expected truncated string, got %s", got)
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	formatter := &TableFormatter{}

	result := formatter.FormatCompact(sampleComparisonSet())

	if !contains(result, "Base: Base Scenario") {
		t.Error("Expected base name in compact output")
	}
	if !contains(result, "Alternative 1: -$200.0K") {
		t.Error("Expected alternative delta in compact output")
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := &CSVFormatter{}

	result, err := formatter.Format(sampleComparisonSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(result)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus two rows, got %d records", len(records))
	}
	if records[0][0] != "Scenario" {
		t.Errorf("Expected header row, got %v", records[0])
	}
	if records[1][0] != "Base Scenario" || records[1][1] != "base" {
		t.Errorf("Expected base row first, got %v", records[1])
	}
	if records[2][0] != "Alternative 1" || records[2][1] != "alternative" {
		t.Errorf("Expected alternative row, got %v", records[2])
	}
	if records[2][7] != "91.2" {
		t.Errorf("Expected success rate column 91.2, got %s", records[2][7])
	}
	if records[1][7] != "" {
		t.Errorf("Expected empty success rate for base, got %s", records[1][7])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	formatter := &JSONFormatter{}

	result, err := formatter.Format(sampleComparisonSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded ComparisonSet
	if err := json.Unmarshal([]byte(result), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.BaseName != "Base Scenario" {
		t.Errorf("Expected base name round-trip, got %s", decoded.BaseName)
	}
	if len(decoded.Alternatives) != 1 {
		t.Fatalf("Expected one alternative, got %d", len(decoded.Alternatives))
	}
	if decoded.Alternatives[0].SuccessRate == nil {
		t.Error("Expected success rate to survive the round trip")
	}
	if contains(result, "\n") {
		t.Error("Expected compact JSON without newlines")
	}
}

func TestJSONFormatter_Format_Pretty(t *testing.T) {
	formatter := &JSONFormatter{Pretty: true}

	result, err := formatter.Format(sampleComparisonSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !contains(result, "\n  \"baseName\": \"Base Scenario\"") {
		t.Error("Expected indented JSON output")
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
