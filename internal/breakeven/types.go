package breakeven

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// SolveTarget selects the plan parameter the solver searches over.
type SolveTarget string

const (
	// TargetSpending finds the largest annual retirement spending the plan
	// sustains through its whole horizon.
	TargetSpending SolveTarget = "spending"

	// TargetRetirementAge finds the earliest retirement age that keeps the
	// plan funded.
	TargetRetirementAge SolveTarget = "retirement_age"

	// TargetSavingsScale finds the smallest contribution multiplier that
	// keeps the plan funded.
	TargetSavingsScale SolveTarget = "savings_scale"
)

// Constraints bound the search space. Nil fields fall back to defaults
// derived from the plan: spending searches between $1,000/yr and the
// investable balance plus guaranteed income, ages between the year after
// plan start and the year before the horizon end, scales between 0 and 3.
type Constraints struct {
	MinSpending *decimal.Decimal `json:"min_spending,omitempty"`
	MaxSpending *decimal.Decimal `json:"max_spending,omitempty"`

	MinRetirementAge *int `json:"min_retirement_age,omitempty"`
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`

	MinScale *decimal.Decimal `json:"min_scale,omitempty"`
	MaxScale *decimal.Decimal `json:"max_scale,omitempty"`

	// MinSuccessRate adds a Monte Carlo gate on top of the deterministic
	// projection: a candidate only counts as funded when at least this
	// percentage of simulated paths (0-100) ends above zero. Requires
	// SolveRequest.Simulations > 0.
	MinSuccessRate *decimal.Decimal `json:"min_success_rate,omitempty"`
}

// Validate checks that the constraint bounds are internally consistent.
func (c Constraints) Validate() error {
	if c.MinSpending != nil && c.MinSpending.LessThanOrEqual(decimal.Zero) {
		return &SolveError{Operation: "validate_constraints",
			Message: fmt.Sprintf("minimum spending must be positive, got %s", c.MinSpending)}
	}
	if c.MinSpending != nil && c.MaxSpending != nil && c.MaxSpending.LessThan(*c.MinSpending) {
		return &SolveError{Operation: "validate_constraints",
			Message: fmt.Sprintf("spending bounds inverted: %s > %s", c.MinSpending, c.MaxSpending)}
	}
	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil && *c.MaxRetirementAge < *c.MinRetirementAge {
		return &SolveError{Operation: "validate_constraints",
			Message: fmt.Sprintf("retirement age bounds inverted: %d > %d", *c.MinRetirementAge, *c.MaxRetirementAge)}
	}
	if c.MinScale != nil && c.MinScale.IsNegative() {
		return &SolveError{Operation: "validate_constraints",
			Message: fmt.Sprintf("minimum scale cannot be negative, got %s", c.MinScale)}
	}
	if c.MinScale != nil && c.MaxScale != nil && c.MaxScale.LessThan(*c.MinScale) {
		return &SolveError{Operation: "validate_constraints",
			Message: fmt.Sprintf("scale bounds inverted: %s > %s", c.MinScale, c.MaxScale)}
	}
	if c.MinSuccessRate != nil {
		if c.MinSuccessRate.IsNegative() || c.MinSuccessRate.GreaterThan(decimal.NewFromInt(100)) {
			return &SolveError{Operation: "validate_constraints",
				Message: fmt.Sprintf("success rate must be between 0 and 100, got %s", c.MinSuccessRate)}
		}
	}
	return nil
}

// DefaultConstraints returns an unconstrained search.
func DefaultConstraints() Constraints {
	return Constraints{}
}

// SolveRequest describes one break-even search over a resolved plan.
type SolveRequest struct {
	Target      SolveTarget              `json:"target"`
	Config      *domain.PlanConfig       `json:"-"`
	Profile     *domain.FinancialProfile `json:"-"`
	Constraints Constraints              `json:"constraints"`

	// MaxIterations and Tolerance override the solver defaults when
	// positive. Tolerance is in dollars per year and only applies to the
	// spending target.
	MaxIterations int             `json:"max_iterations,omitempty"`
	Tolerance     decimal.Decimal `json:"tolerance,omitempty"`

	// Simulations and Seed configure the Monte Carlo gate when
	// Constraints.MinSuccessRate is set. A fixed seed keeps the gate
	// deterministic across candidates, so the search stays monotone.
	Simulations int   `json:"simulations,omitempty"`
	Seed        int64 `json:"seed,omitempty"`
}

// SolveResult reports the break-even value found for one target, with the
// projection metrics at that value.
type SolveResult struct {
	Request         SolveRequest `json:"request"`
	Converged       bool         `json:"converged"`
	Iterations      int          `json:"iterations"`
	ConvergenceInfo string       `json:"convergence_info,omitempty"`

	OptimalSpending      *decimal.Decimal `json:"optimal_spending,omitempty"`
	OptimalRetirementAge *int             `json:"optimal_retirement_age,omitempty"`
	OptimalSavingsScale  *decimal.Decimal `json:"optimal_savings_scale,omitempty"`

	FinalNetWorth decimal.Decimal  `json:"final_net_worth"`
	FinalAssets   decimal.Decimal  `json:"final_assets"`
	LifetimeTax   decimal.Decimal  `json:"lifetime_tax"`
	SuccessRate   *decimal.Decimal `json:"success_rate,omitempty"`

	// FundedToAge is the last age with positive investable assets. Equal to
	// the horizon end age when the plan never runs dry.
	FundedToAge int `json:"funded_to_age"`
}

// SolveError reports a failure inside the break-even solver.
type SolveError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("break-even %s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("break-even %s: %s", e.Operation, e.Message)
}

func (e *SolveError) Unwrap() error {
	return e.Cause
}
