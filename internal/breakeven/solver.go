// Package breakeven searches a resolved plan for break-even parameter
// values: the largest sustainable retirement spending, the earliest funded
// retirement age, the smallest contribution multiplier. Feasibility means
// the deterministic projection keeps positive investable assets through
// every retired year, optionally tightened by a Monte Carlo success-rate
// floor. All three targets are monotone in their parameter, which is what
// the bracketing searches rely on.
package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/calculation"
	"github.com/nestegg/retirement-planner/internal/domain"
	"github.com/nestegg/retirement-planner/internal/transform"
)

// SolverOptions tunes convergence.
type SolverOptions struct {
	// Tolerance is the spending bracket width, in dollars per year, below
	// which the search stops.
	Tolerance decimal.Decimal

	// MaxIterations caps the number of projections per solve.
	MaxIterations int
}

// DefaultSolverOptions converge to the dollar-hundred for household-scale
// plans well inside the iteration cap.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(100),
		MaxIterations: 60,
	}
}

var (
	two = decimal.NewFromInt(2)

	// scaleTolerance terminates the savings multiplier search at 1%.
	scaleTolerance = decimal.NewFromFloat(0.01)

	// defaultMinSpending keeps the spending floor positive; a zero target
	// would fall back to profile expenses inside the projection engine.
	defaultMinSpending = decimal.NewFromInt(1000)

	// defaultMaxScale bounds the savings search at triple the planned
	// contributions.
	defaultMaxScale = decimal.NewFromInt(3)
)

// Solver runs break-even searches against the projection and simulation
// engines.
type Solver struct {
	Proj    *calculation.ProjectionEngine
	MC      *calculation.MonteCarloEngine
	Options SolverOptions
}

// NewSolver creates a solver with default options.
func NewSolver(proj *calculation.ProjectionEngine, mc *calculation.MonteCarloEngine) *Solver {
	return &Solver{Proj: proj, MC: mc, Options: DefaultSolverOptions()}
}

// Solve routes the request to the target-specific search.
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if req.Config == nil || req.Profile == nil {
		return nil, &SolveError{Operation: "solve", Message: "request needs a plan and a financial profile"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.Constraints.MinSuccessRate != nil && req.Simulations > 0 && s.MC == nil {
		return nil, &SolveError{Operation: "solve", Message: "success-rate gate requires a simulation engine"}
	}
	if req.MaxIterations <= 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.GreaterThan(decimal.Zero) {
		req.Tolerance = s.Options.Tolerance
	}

	switch req.Target {
	case TargetSpending:
		return s.solveSpending(ctx, req)
	case TargetRetirementAge:
		return s.solveRetirementAge(ctx, req)
	case TargetSavingsScale:
		return s.solveSavingsScale(ctx, req)
	default:
		return nil, &SolveError{Operation: "solve", Message: fmt.Sprintf("unknown solve target %q", req.Target)}
	}
}

// evaluation is one candidate plan's verdict.
type evaluation struct {
	result      *domain.ProjectionResult
	feasible    bool
	depletedAge int // first retired age with zero assets, 0 when funded
	successRate *decimal.Decimal
}

// evaluate runs the deterministic projection for one candidate and applies
// the optional Monte Carlo gate.
func (s *Solver) evaluate(ctx context.Context, req SolveRequest, cfg *domain.PlanConfig) (*evaluation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result, err := s.Proj.RunPlan(cfg, req.Profile)
	if err != nil {
		return nil, &SolveError{Operation: "evaluate", Message: "projection failed", Cause: err}
	}

	ev := &evaluation{result: result, feasible: true}
	for i := range result.Projections {
		rec := &result.Projections[i]
		if rec.IsRetired() && !rec.TotalAssets.GreaterThan(decimal.Zero) {
			ev.feasible = false
			ev.depletedAge = rec.Age
			break
		}
	}

	if ev.feasible && req.Constraints.MinSuccessRate != nil && req.Simulations > 0 {
		mcCfg := calculation.DeriveMonteCarloConfig(cfg, req.Profile)
		mcCfg.NumSimulations = req.Simulations
		mcCfg.Seed = req.Seed
		mc, err := s.MC.RunSimulation(ctx, mcCfg)
		if err != nil {
			return nil, &SolveError{Operation: "evaluate", Message: "simulation failed", Cause: err}
		}
		rate := mc.SuccessRate
		ev.successRate = &rate
		if rate.LessThan(*req.Constraints.MinSuccessRate) {
			ev.feasible = false
		}
	}

	return ev, nil
}

// newResult assembles a result from the evaluation at the answer point.
func (s *Solver) newResult(req SolveRequest, ev *evaluation, iterations int, converged bool, info string) *SolveResult {
	res := &SolveResult{
		Request:         req,
		Converged:       converged,
		Iterations:      iterations,
		ConvergenceInfo: info,
	}
	if ev == nil || ev.result == nil {
		return res
	}
	if fp := ev.result.FinalProjection(); fp != nil {
		res.FinalNetWorth = fp.NetWorth
		res.FinalAssets = fp.TotalAssets
		res.FundedToAge = fp.Age
	}
	if ev.depletedAge > 0 {
		res.FundedToAge = ev.depletedAge - 1
	}
	res.LifetimeTax = ev.result.LifetimeTax()
	res.SuccessRate = ev.successRate
	return res
}

// planWith derives a candidate plan from the base through one transform.
func planWith(base *domain.PlanConfig, tr transform.Transform) (*domain.PlanConfig, error) {
	modified, err := transform.ApplyAll(base, []transform.Transform{tr})
	if err != nil {
		return nil, &SolveError{
			Operation: "derive_candidate",
			Message:   fmt.Sprintf("transform %s rejected the plan", tr.Name()),
			Cause:     err,
		}
	}
	return modified, nil
}

// solveSpending binary-searches the largest sustainable annual spending.
// More spending always drains accounts faster, so feasibility flips exactly
// once between the floor and the ceiling.
func (s *Solver) solveSpending(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	lo := defaultMinSpending
	if req.Constraints.MinSpending != nil {
		lo = *req.Constraints.MinSpending
	}
	hi := req.Profile.InvestableBalance().Add(guaranteedIncome(req.Config))
	if req.Constraints.MaxSpending != nil {
		hi = *req.Constraints.MaxSpending
	}
	if !hi.GreaterThan(lo) {
		return nil, &SolveError{Operation: "solve_spending",
			Message: fmt.Sprintf("spending ceiling $%s does not exceed the floor $%s", hi.StringFixed(0), lo.StringFixed(0))}
	}

	iterations := 0

	cfg, err := planWith(req.Config, &transform.SpendingLevel{Amount: lo})
	if err != nil {
		return nil, err
	}
	loEval, err := s.evaluate(ctx, req, cfg)
	iterations++
	if err != nil {
		return nil, err
	}
	if !loEval.feasible {
		info := fmt.Sprintf("spending floor $%s/yr is not sustainable", lo.StringFixed(0))
		if loEval.depletedAge > 0 {
			info += fmt.Sprintf(", assets run out at age %d", loEval.depletedAge)
		}
		return s.newResult(req, loEval, iterations, false, info), nil
	}

	cfg, err = planWith(req.Config, &transform.SpendingLevel{Amount: hi})
	if err != nil {
		return nil, err
	}
	hiEval, err := s.evaluate(ctx, req, cfg)
	iterations++
	if err != nil {
		return nil, err
	}
	if hiEval.feasible {
		spend := hi
		result := s.newResult(req, hiEval, iterations, true,
			fmt.Sprintf("sustainable at the spending ceiling $%s/yr", hi.StringFixed(0)))
		result.OptimalSpending = &spend
		return result, nil
	}

	for iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(req.Tolerance) {
		mid := lo.Add(hi).Div(two)
		cfg, err := planWith(req.Config, &transform.SpendingLevel{Amount: mid})
		if err != nil {
			return nil, err
		}
		ev, err := s.evaluate(ctx, req, cfg)
		iterations++
		if err != nil {
			return nil, err
		}
		if ev.feasible {
			lo, loEval = mid, ev
		} else {
			hi = mid
		}
	}

	converged := !hi.Sub(lo).GreaterThan(req.Tolerance)
	info := fmt.Sprintf("bracketed within $%s after %d projections", hi.Sub(lo).StringFixed(0), iterations)
	if !converged {
		info = fmt.Sprintf("iteration cap %d reached with a $%s bracket", req.MaxIterations, hi.Sub(lo).StringFixed(0))
	}
	spend := lo
	result := s.newResult(req, loEval, iterations, converged, info)
	result.OptimalSpending = &spend
	return result, nil
}

// solveRetirementAge scans ages ascending and returns the first that keeps
// the plan funded. Working longer only adds contribution years and removes
// withdrawal years, so the first feasible age is the earliest.
func (s *Solver) solveRetirementAge(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	minAge := req.Config.StartAge + 1
	if req.Constraints.MinRetirementAge != nil && *req.Constraints.MinRetirementAge > minAge {
		minAge = *req.Constraints.MinRetirementAge
	}
	maxAge := req.Config.EndAge - 1
	if req.Constraints.MaxRetirementAge != nil && *req.Constraints.MaxRetirementAge < maxAge {
		maxAge = *req.Constraints.MaxRetirementAge
	}
	if maxAge < minAge {
		return nil, &SolveError{Operation: "solve_retirement_age",
			Message: fmt.Sprintf("no ages to scan between %d and %d", minAge, maxAge)}
	}

	iterations := 0
	var lastEval *evaluation
	for age := minAge; age <= maxAge; age++ {
		cfg, err := planWith(req.Config, &transform.RetireAtAge{Age: age})
		if err != nil {
			return nil, err
		}
		ev, err := s.evaluate(ctx, req, cfg)
		iterations++
		if err != nil {
			return nil, err
		}
		lastEval = ev
		if ev.feasible {
			found := age
			result := s.newResult(req, ev, iterations, true,
				fmt.Sprintf("earliest funded retirement age after %d candidates", iterations))
			result.OptimalRetirementAge = &found
			return result, nil
		}
	}

	return s.newResult(req, lastEval, iterations, false,
		fmt.Sprintf("no retirement age between %d and %d keeps the plan funded", minAge, maxAge)), nil
}

// solveSavingsScale binary-searches the smallest contribution multiplier
// that keeps the plan funded. Factor 1 is the plan as written, 0 stops all
// saving.
func (s *Solver) solveSavingsScale(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	lo := decimal.Zero
	if req.Constraints.MinScale != nil {
		lo = *req.Constraints.MinScale
	}
	hi := defaultMaxScale
	if req.Constraints.MaxScale != nil {
		hi = *req.Constraints.MaxScale
	}
	if hi.LessThan(lo) {
		return nil, &SolveError{Operation: "solve_savings_scale",
			Message: fmt.Sprintf("scale ceiling %s is below the floor %s", hi, lo)}
	}

	iterations := 0

	cfg, err := planWith(req.Config, &transform.ContributionScale{Factor: hi})
	if err != nil {
		return nil, err
	}
	hiEval, err := s.evaluate(ctx, req, cfg)
	iterations++
	if err != nil {
		return nil, err
	}
	if !hiEval.feasible {
		info := fmt.Sprintf("even %sx contributions cannot fund the plan", hi)
		if hiEval.depletedAge > 0 {
			info += fmt.Sprintf(", assets run out at age %d", hiEval.depletedAge)
		}
		return s.newResult(req, hiEval, iterations, false, info), nil
	}

	cfg, err = planWith(req.Config, &transform.ContributionScale{Factor: lo})
	if err != nil {
		return nil, err
	}
	loEval, err := s.evaluate(ctx, req, cfg)
	iterations++
	if err != nil {
		return nil, err
	}
	if loEval.feasible {
		scale := lo
		result := s.newResult(req, loEval, iterations, true,
			fmt.Sprintf("already funded at the %s scale floor", lo))
		result.OptimalSavingsScale = &scale
		return result, nil
	}

	for iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(scaleTolerance) {
		mid := lo.Add(hi).Div(two)
		cfg, err := planWith(req.Config, &transform.ContributionScale{Factor: mid})
		if err != nil {
			return nil, err
		}
		ev, err := s.evaluate(ctx, req, cfg)
		iterations++
		if err != nil {
			return nil, err
		}
		if ev.feasible {
			hi, hiEval = mid, ev
		} else {
			lo = mid
		}
	}

	converged := !hi.Sub(lo).GreaterThan(scaleTolerance)
	info := fmt.Sprintf("bracketed within %s after %d projections", hi.Sub(lo).StringFixed(3), iterations)
	if !converged {
		info = fmt.Sprintf("iteration cap %d reached with a %s bracket", req.MaxIterations, hi.Sub(lo).StringFixed(3))
	}
	scale := hi
	result := s.newResult(req, hiEval, iterations, converged, info)
	result.OptimalSavingsScale = &scale
	return result, nil
}

// guaranteedIncome sums the plan's non-portfolio retirement income, which
// caps how far sustainable spending can exceed the portfolio itself.
func guaranteedIncome(cfg *domain.PlanConfig) decimal.Decimal {
	income := cfg.SocialSecurityBenefit.Add(cfg.PensionIncome)
	if cfg.HasSpouse() {
		income = income.Add(cfg.Spouse.SocialSecurityBenefit)
	}
	return income
}
