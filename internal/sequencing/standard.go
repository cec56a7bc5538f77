package sequencing

import "github.com/shopspring/decimal"

// StandardStrategy: taxable -> pretax -> roth -> hsa
// Spends the brokerage account first, then pre-tax money, preserving the
// tax-free Roth and HSA pools for last. Each step grosses the draw up so
// the net proceeds cover the remaining need, capped at the source balance.
type StandardStrategy struct{}

func NewStandardStrategy() *StandardStrategy { return &StandardStrategy{} }

func (s *StandardStrategy) Name() string { return "standard" }

func (s *StandardStrategy) Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: ctx.NetNeeded, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	remaining := ctx.NetNeeded

	order := []string{SourceTaxable, SourcePreTax, SourceRoth, SourceHSA}
	lookup := map[string]*WithdrawalSource{}
	for i := range sources {
		lookup[sources[i].Name] = &sources[i]
	}

	for _, name := range order {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		src, ok := lookup[name]
		if !ok || src.Balance.LessThanOrEqual(decimal.Zero) {
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
