package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/transform"
)

// FrontierPoint is one retirement age with the largest spending it
// sustains.
type FrontierPoint struct {
	RetirementAge int              `json:"retirement_age"`
	MaxSpending   decimal.Decimal  `json:"max_spending"`
	FinalNetWorth decimal.Decimal  `json:"final_net_worth"`
	SuccessRate   *decimal.Decimal `json:"success_rate,omitempty"`
}

// Frontier sweeps retirement ages and solves the maximum sustainable
// spending at each, tracing the retire-later-spend-more tradeoff. The
// default sweep covers five years either side of the planned retirement
// age; age constraints override it. Ages where no spending level converges
// are skipped.
func (s *Solver) Frontier(ctx context.Context, req SolveRequest) ([]FrontierPoint, error) {
	if req.Config == nil || req.Profile == nil {
		return nil, &SolveError{Operation: "frontier", Message: "request needs a plan and a financial profile"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.Constraints.MinSuccessRate != nil && req.Simulations > 0 && s.MC == nil {
		return nil, &SolveError{Operation: "frontier", Message: "success-rate gate requires a simulation engine"}
	}
	if req.MaxIterations <= 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.GreaterThan(decimal.Zero) {
		req.Tolerance = s.Options.Tolerance
	}

	minAge := req.Config.RetirementAge - 5
	if minAge <= req.Config.StartAge {
		minAge = req.Config.StartAge + 1
	}
	if req.Constraints.MinRetirementAge != nil {
		minAge = *req.Constraints.MinRetirementAge
	}
	maxAge := req.Config.RetirementAge + 5
	if maxAge >= req.Config.EndAge {
		maxAge = req.Config.EndAge - 1
	}
	if req.Constraints.MaxRetirementAge != nil {
		maxAge = *req.Constraints.MaxRetirementAge
	}
	if maxAge < minAge {
		return nil, &SolveError{Operation: "frontier",
			Message: fmt.Sprintf("no ages to sweep between %d and %d", minAge, maxAge)}
	}

	var points []FrontierPoint
	for age := minAge; age <= maxAge; age++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		cfg, err := planWith(req.Config, &transform.RetireAtAge{Age: age})
		if err != nil {
			continue
		}

		ageReq := req
		ageReq.Target = TargetSpending
		ageReq.Config = cfg
		result, err := s.solveSpending(ctx, ageReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if !result.Converged || result.OptimalSpending == nil {
			continue
		}

		points = append(points, FrontierPoint{
			RetirementAge: age,
			MaxSpending:   *result.OptimalSpending,
			FinalNetWorth: result.FinalNetWorth,
			SuccessRate:   result.SuccessRate,
		})
	}

	if len(points) == 0 {
		return nil, &SolveError{Operation: "frontier",
			Message: fmt.Sprintf("no retirement age between %d and %d has a sustainable spending level", minAge, maxAge)}
	}
	return points, nil
}
