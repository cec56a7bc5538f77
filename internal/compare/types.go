package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// ScenarioOutcome represents a single projected plan reduced to headline metrics
type ScenarioOutcome struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"` // config file the scenario came from

	// Key Metrics
	RetirementAge int             `json:"retirementAge"`
	HorizonEndAge int             `json:"horizonEndAge"`
	FinalAssets   decimal.Decimal `json:"finalAssets"`
	FinalNetWorth decimal.Decimal `json:"finalNetWorth"`
	LifetimeTax   decimal.Decimal `json:"lifetimeTax"`

	// DepletedAge is the first retired age with no assets left; zero means
	// the plan stays funded through the whole horizon.
	DepletedAge int `json:"depletedAge"`

	// SuccessRate is present only when a Monte Carlo overlay was run.
	SuccessRate *decimal.Decimal `json:"successRate,omitempty"`

	// Comparison to Base
	NetWorthDiffFromBase decimal.Decimal `json:"netWorthDiffFromBase"`
	NetWorthPctFromBase  decimal.Decimal `json:"netWorthPctFromBase"`
	TaxDiffFromBase      decimal.Decimal `json:"taxDiffFromBase"`
	FundedAgeDiff        int             `json:"fundedAgeDiff"`
}

// FundedToAge is the last age the plan can still cover from assets.
func (so ScenarioOutcome) FundedToAge() int {
	if so.DepletedAge == 0 {
		return so.HorizonEndAge
	}
	return so.DepletedAge - 1
}

// ComparisonSet represents a collection of scenario outcomes against a base
type ComparisonSet struct {
	BaseName        string            `json:"baseName"`
	Base            *ScenarioOutcome  `json:"base"`
	Alternatives    []ScenarioOutcome `json:"alternatives"`
	Recommendations []string          `json:"recommendations"`
}

// MetricsCalculator extracts headline metrics from projection results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics reduces a full projection to its comparison metrics
func (mc *MetricsCalculator) CalculateMetrics(result *domain.ProjectionResult) ScenarioOutcome {
	outcome := ScenarioOutcome{
		Name:          result.PlanName,
		RetirementAge: result.RetirementAge,
		LifetimeTax:   result.LifetimeTax(),
	}

	if final := result.FinalProjection(); final != nil {
		outcome.HorizonEndAge = final.Age
		outcome.FinalAssets = final.TotalAssets
		outcome.FinalNetWorth = final.NetWorth
	}
	outcome.DepletedAge = mc.depletedAge(result)

	if result.MonteCarlo != nil {
		rate := result.MonteCarlo.SuccessRate
		outcome.SuccessRate = &rate
	}

	return outcome
}

// CalculateComparison computes comparison metrics between an outcome and a base
func (mc *MetricsCalculator) CalculateComparison(outcome, base ScenarioOutcome) ScenarioOutcome {
	outcome.NetWorthDiffFromBase = outcome.FinalNetWorth.Sub(base.FinalNetWorth)

	if !base.FinalNetWorth.IsZero() {
		outcome.NetWorthPctFromBase = outcome.NetWorthDiffFromBase.
			Div(base.FinalNetWorth).
			Mul(decimal.NewFromInt(100))
	}

	outcome.TaxDiffFromBase = outcome.LifetimeTax.Sub(base.LifetimeTax)
	outcome.FundedAgeDiff = outcome.FundedToAge() - base.FundedToAge()

	return outcome
}

// depletedAge finds the first retired age whose assets are exhausted
func (mc *MetricsCalculator) depletedAge(result *domain.ProjectionResult) int {
	for i := range result.Projections {
		year := &result.Projections[i]
		if year.IsRetired() && year.TotalAssets.IsZero() {
			return year.Age
		}
	}
	return 0
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.Base == nil || len(compSet.Alternatives) == 0 {
		return recommendations
	}

	// Find best scenario by final net worth
	bestWorth := compSet.Base
	for i := range compSet.Alternatives {
		if compSet.Alternatives[i].FinalNetWorth.GreaterThan(bestWorth.FinalNetWorth) {
			bestWorth = &compSet.Alternatives[i]
		}
	}

	if bestWorth != compSet.Base {
		worthDiff := bestWorth.FinalNetWorth.Sub(compSet.Base.FinalNetWorth)
		recommendations = append(recommendations,
			"Best Net Worth: "+bestWorth.Name+" ends $"+worthDiff.StringFixed(0)+
				" above the base scenario")
	}

	// Find the longest funded scenario
	bestFunded := compSet.Base
	for i := range compSet.Alternatives {
		if compSet.Alternatives[i].FundedToAge() > bestFunded.FundedToAge() {
			bestFunded = &compSet.Alternatives[i]
		}
	}

	if bestFunded != compSet.Base {
		yearsDiff := bestFunded.FundedToAge() - compSet.Base.FundedToAge()
		recommendations = append(recommendations,
			"Best Longevity: "+bestFunded.Name+" stays funded "+
				fmt.Sprintf("%d years longer", yearsDiff))
	}

	// Find lowest tax burden
	lowestTax := compSet.Base
	for i := range compSet.Alternatives {
		if compSet.Alternatives[i].LifetimeTax.LessThan(lowestTax.LifetimeTax) {
			lowestTax = &compSet.Alternatives[i]
		}
	}

	if lowestTax != compSet.Base {
		taxSavings := compSet.Base.LifetimeTax.Sub(lowestTax.LifetimeTax)
		recommendations = append(recommendations,
			"Lowest Taxes: "+lowestTax.Name+" saves $"+taxSavings.StringFixed(0)+
				" in lifetime taxes")
	}

	return recommendations
}
