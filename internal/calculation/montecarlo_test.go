package calculation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg/retirement-planner/internal/domain"
)

func TestRunSimulationShape(t *testing.T) {
	engine := NewMonteCarloEngine()
	cfg := MonteCarloConfig{
		CurrentBalance:     decimal.NewFromInt(500000),
		AnnualContribution: decimal.NewFromInt(20000),
		AnnualWithdrawal:   decimal.NewFromInt(60000),
		YearsToRetirement:  10,
		TotalYears:         30,
		NumSimulations:     200,
		RiskProfile:        domain.RiskModerate,
		Seed:               42,
	}

	result, err := engine.RunSimulation(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.Years, 31)
	for i, y := range result.Years {
		assert.Equal(t, i, y)
	}

	for _, key := range []string{domain.Percentile10, domain.Percentile50, domain.Percentile90} {
		series, ok := result.Percentiles[key]
		require.True(t, ok, "missing %s band", key)
		require.Len(t, series, 31)
		// Year zero is the starting balance on every path.
		assert.True(t, series[0].Equal(cfg.CurrentBalance),
			"%s year 0: got %s", key, series[0])
	}

	// Bands are ordered at every year.
	for year := 0; year <= 30; year++ {
		p10 := result.Percentiles[domain.Percentile10][year]
		p50 := result.Percentiles[domain.Percentile50][year]
		p90 := result.Percentiles[domain.Percentile90][year]
		assert.True(t, p10.LessThanOrEqual(p50), "year %d: p10 %s > p50 %s", year, p10, p50)
		assert.True(t, p50.LessThanOrEqual(p90), "year %d: p50 %s > p90 %s", year, p50, p90)
	}

	assert.True(t, result.SuccessRate.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, result.SuccessRate.LessThanOrEqual(decimal.NewFromInt(100)))
	assert.Equal(t, 200, result.NumSimulations)
	assert.Equal(t, domain.RiskModerate, result.RiskProfile)
}

func TestRunSimulationDeterministicWithSeed(t *testing.T) {
	engine := NewMonteCarloEngine()
	cfg := MonteCarloConfig{
		CurrentBalance:     decimal.NewFromInt(300000),
		AnnualContribution: decimal.NewFromInt(15000),
		AnnualWithdrawal:   decimal.NewFromInt(50000),
		YearsToRetirement:  5,
		TotalYears:         25,
		NumSimulations:     300,
		RiskProfile:        domain.RiskModerate,
		Seed:               1234,
	}

	first, err := engine.RunSimulation(context.Background(), cfg)
	require.NoError(t, err)
	second, err := engine.RunSimulation(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, first.SuccessRate.Equal(second.SuccessRate),
		"seeded runs diverged: %s vs %s", first.SuccessRate, second.SuccessRate)
	assert.True(t, first.MedianEndingBalance.Equal(second.MedianEndingBalance))
	for year := 0; year <= cfg.TotalYears; year++ {
		assert.True(t, first.Percentiles[domain.Percentile50][year].
			Equal(second.Percentiles[domain.Percentile50][year]),
			"median band diverged at year %d", year)
	}

	// A different seed produces a different draw.
	cfg.Seed = 99
	third, err := engine.RunSimulation(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, third.MedianEndingBalance.Equal(first.MedianEndingBalance),
		"distinct seeds should not reproduce the same run")
}

func TestRunSimulationAccumulationOnlyAlwaysSucceeds(t *testing.T) {
	engine := NewMonteCarloEngine()
	cfg := MonteCarloConfig{
		CurrentBalance:     decimal.NewFromInt(100000),
		AnnualContribution: decimal.NewFromInt(10000),
		YearsToRetirement:  20,
		TotalYears:         20, // never reaches the withdrawal phase
		NumSimulations:     250,
		RiskProfile:        domain.RiskAggressive,
		Seed:               7,
	}

	result, err := engine.RunSimulation(context.Background(), cfg)
	require.NoError(t, err)

	// The final year always ends with a positive contribution, so every
	// path survives regardless of the sampled returns.
	assert.True(t, result.SuccessRate.Equal(decimal.NewFromInt(100)),
		"got %s", result.SuccessRate)
	assert.True(t, result.MedianEndingBalance.GreaterThan(decimal.Zero))
}

func TestRunSimulationOverwhelmingWithdrawalRuinsEveryPath(t *testing.T) {
	engine := NewMonteCarloEngine()
	cfg := MonteCarloConfig{
		CurrentBalance:   decimal.NewFromInt(1000),
		AnnualWithdrawal: decimal.NewFromInt(100000),
		TotalYears:       5,
		NumSimulations:   100,
		RiskProfile:      domain.RiskConservative,
		Seed:             11,
	}

	result, err := engine.RunSimulation(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, result.SuccessRate.IsZero(), "got %s", result.SuccessRate)
	assert.True(t, result.MedianEndingBalance.IsZero())
	for _, key := range []string{domain.Percentile10, domain.Percentile50, domain.Percentile90} {
		assert.True(t, result.Percentiles[key][5].IsZero(),
			"%s should be wiped out by year 5", key)
	}
}

func TestRunSimulationRiskProfilesDiverge(t *testing.T) {
	engine := NewMonteCarloEngine()
	base := MonteCarloConfig{
		CurrentBalance:     decimal.NewFromInt(200000),
		AnnualContribution: decimal.NewFromInt(20000),
		YearsToRetirement:  30,
		TotalYears:         30,
		NumSimulations:     500,
		Seed:               2024,
	}

	conservative := base
	conservative.RiskProfile = domain.RiskConservative
	aggressive := base
	aggressive.RiskProfile = domain.RiskAggressive

	lowResult, err := engine.RunSimulation(context.Background(), conservative)
	require.NoError(t, err)
	highResult, err := engine.RunSimulation(context.Background(), aggressive)
	require.NoError(t, err)

	// Thirty compounding years separate a 5% and a 9% mean by far more
	// than sampling noise across 500 paths.
	assert.True(t, highResult.MedianEndingBalance.GreaterThan(lowResult.MedianEndingBalance),
		"aggressive median %s should exceed conservative median %s",
		highResult.MedianEndingBalance, lowResult.MedianEndingBalance)
}

func TestRunSimulationUnknownProfileFallsBackToModerate(t *testing.T) {
	engine := NewMonteCarloEngine()
	base := MonteCarloConfig{
		CurrentBalance:     decimal.NewFromInt(100000),
		AnnualContribution: decimal.NewFromInt(5000),
		YearsToRetirement:  10,
		TotalYears:         10,
		NumSimulations:     100,
		Seed:               55,
	}

	unknown := base
	unknown.RiskProfile = domain.RiskProfile("yolo")
	moderate := base
	moderate.RiskProfile = domain.RiskModerate

	unknownResult, err := engine.RunSimulation(context.Background(), unknown)
	require.NoError(t, err)
	moderateResult, err := engine.RunSimulation(context.Background(), moderate)
	require.NoError(t, err)

	// Same seed, same distribution: identical paths.
	assert.True(t, unknownResult.MedianEndingBalance.Equal(moderateResult.MedianEndingBalance))
	assert.Equal(t, domain.RiskProfile("yolo"), unknownResult.RiskProfile,
		"the result echoes the requested profile even when falling back")
}

func TestRunSimulationDefaultsNumSimulations(t *testing.T) {
	engine := NewMonteCarloEngine()
	cfg := MonteCarloConfig{
		CurrentBalance: decimal.NewFromInt(50000),
		TotalYears:     3,
		RiskProfile:    domain.RiskModerate,
		Seed:           13,
	}

	result, err := engine.RunSimulation(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, DefaultNumSimulations, result.NumSimulations)
}

func TestRunSimulationValidation(t *testing.T) {
	engine := NewMonteCarloEngine()

	_, err := engine.RunSimulation(context.Background(), MonteCarloConfig{TotalYears: 0})
	assert.Error(t, err)

	_, err = engine.RunSimulation(context.Background(), MonteCarloConfig{
		TotalYears:        10,
		YearsToRetirement: -1,
	})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.RunSimulation(ctx, MonteCarloConfig{TotalYears: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeriveMonteCarloConfig(t *testing.T) {
	cfg := &domain.PlanConfig{
		StartAge:                  40,
		RetirementAge:             65,
		EndAge:                    90,
		RiskProfile:               domain.RiskAggressive,
		DesiredRetirementSpending: decimal.NewFromInt(70000),
		Contributions: domain.ContributionSchedule{
			PreTax: decimal.NewFromInt(20000),
			Roth:   decimal.NewFromInt(7000),
		},
		Spouse: &domain.SpousePlan{
			Age:           38,
			RetirementAge: 65,
			Contributions: domain.ContributionSchedule{PreTax: decimal.NewFromInt(10000)},
		},
	}
	profile := &domain.FinancialProfile{
		PreTaxBalance:       decimal.NewFromInt(300000),
		SpousePreTaxBalance: decimal.NewFromInt(100000),
		RothBalance:         decimal.NewFromInt(50000),
		BrokerageBalance:    decimal.NewFromInt(80000),
		SavingsBalance:      decimal.NewFromInt(20000),
		MortgageBalance:     decimal.NewFromInt(250000), // excluded: debt is not investable
	}

	mc := DeriveMonteCarloConfig(cfg, profile)

	assert.True(t, mc.CurrentBalance.Equal(decimal.NewFromInt(550000)), "got %s", mc.CurrentBalance)
	assert.True(t, mc.AnnualContribution.Equal(decimal.NewFromInt(37000)))
	assert.True(t, mc.AnnualWithdrawal.Equal(decimal.NewFromInt(70000)))
	assert.Equal(t, 25, mc.YearsToRetirement)
	assert.Equal(t, 50, mc.TotalYears)
	assert.Equal(t, domain.RiskAggressive, mc.RiskProfile)
}

func TestDeriveMonteCarloConfigFallbacks(t *testing.T) {
	// Already retired: no accumulation years, withdrawal falls back to the
	// default expense backstop.
	cfg := &domain.PlanConfig{StartAge: 70, RetirementAge: 65, EndAge: 90}
	profile := &domain.FinancialProfile{SavingsBalance: decimal.NewFromInt(400000)}

	mc := DeriveMonteCarloConfig(cfg, profile)

	assert.Equal(t, 0, mc.YearsToRetirement)
	assert.Equal(t, 20, mc.TotalYears)
	assert.True(t, mc.AnnualWithdrawal.Equal(decimal.NewFromInt(48000)), "got %s", mc.AnnualWithdrawal)
	assert.True(t, mc.CurrentBalance.Equal(decimal.NewFromInt(400000)))
}

func TestCalculateMedian(t *testing.T) {
	assert.True(t, calculateMedian(nil).IsZero())

	odd := []decimal.Decimal{
		decimal.NewFromInt(30),
		decimal.NewFromInt(10),
		decimal.NewFromInt(20),
	}
	assert.True(t, calculateMedian(odd).Equal(decimal.NewFromInt(20)))

	even := []decimal.Decimal{
		decimal.NewFromInt(10),
		decimal.NewFromInt(40),
		decimal.NewFromInt(20),
		decimal.NewFromInt(30),
	}
	assert.True(t, calculateMedian(even).Equal(decimal.NewFromInt(25)))
}

func TestGetPercentile(t *testing.T) {
	assert.True(t, getPercentile(nil, 0.5).IsZero())

	sorted := []decimal.Decimal{
		decimal.NewFromInt(0),
		decimal.NewFromInt(10),
		decimal.NewFromInt(20),
		decimal.NewFromInt(30),
		decimal.NewFromInt(40),
	}
	assert.True(t, getPercentile(sorted, 0.5).Equal(decimal.NewFromInt(20)))
	assert.True(t, getPercentile(sorted, 0.25).Equal(decimal.NewFromInt(10)))
	assert.True(t, getPercentile(sorted, 1.0).Equal(decimal.NewFromInt(40)))
	// 0.1 lands at index 0.4: interpolate 40% of the way from 0 to 10.
	assert.True(t, getPercentile(sorted, 0.1).Equal(decimal.NewFromInt(4)))
}
