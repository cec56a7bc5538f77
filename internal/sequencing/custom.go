package sequencing

import "github.com/shopspring/decimal"

// CustomStrategy executes withdrawals in a user-specified ordered list of sources.
// Valid source names: taxable, pretax, roth, hsa. If sequence invalid, falls back to standard.
type CustomStrategy struct {
	Sequence []string
}

func NewCustomStrategy(sequence []string) *CustomStrategy { return &CustomStrategy{Sequence: sequence} }

func (s *CustomStrategy) Name() string { return "custom" }

func (s *CustomStrategy) Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: ctx.NetNeeded, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	remaining := ctx.NetNeeded

	// Validate sequence
	allowed := map[string]bool{SourceTaxable: true, SourcePreTax: true, SourceRoth: true, SourceHSA: true}
	seen := map[string]bool{}
	valid := true
	for _, name := range s.Sequence {
		if !allowed[name] || seen[name] {
			valid = false
			break
		}
		seen[name] = true
	}
	if !valid || len(s.Sequence) == 0 {
		std := NewStandardStrategy().Plan(sources, ctx)
		std.StrategyUsed = "custom->standard_fallback"
		std.Notes = append(std.Notes, "invalid or empty custom sequence - falling back to standard")
		return std
	}

	lookup := map[string]*WithdrawalSource{}
	for i := range sources {
		lookup[sources[i].Name] = &sources[i]
	}

	for _, name := range s.Sequence {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		src := lookup[name]
		if src == nil || src.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}

		rate := rateFor(src.TaxTreatment, ctx)
		gross, net, tax := drawFor(remaining, src.Balance, rate)

		plan.Allocations = append(plan.Allocations, WithdrawalAllocation{
			Source:       name,
			TaxTreatment: src.TaxTreatment,
			Gross:        gross,
			Net:          net,
			EstimatedTax: tax,
		})
		plan.TotalGross = plan.TotalGross.Add(gross)
		plan.TotalNet = plan.TotalNet.Add(net)
		plan.EstimatedTax = plan.EstimatedTax.Add(tax)
		remaining = remaining.Sub(net)
	}

	plan.RemainingNeed = remaining
	if remaining.GreaterThan(decimal.Zero) {
		plan.Notes = append(plan.Notes, "insufficient balances to meet request")
	}
	return plan
}
