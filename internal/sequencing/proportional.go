package sequencing

import "github.com/shopspring/decimal"

// ProportionalStrategy splits the need across sources in fixed shares:
// 40% taxable, 40% pretax, 20% roth. Each leg is clamped to its balance
// with no spillover, so a thin pool can leave part of the need unmet even
// when other pools still hold money. Kept as an opt-in simpler model; the
// standard waterfall is the default.
type ProportionalStrategy struct{}

func NewProportionalStrategy() *ProportionalStrategy { return &ProportionalStrategy{} }

func (s *ProportionalStrategy) Name() string { return "proportional" }

var proportionalShares = map[string]decimal.Decimal{
	SourceTaxable: decimal.NewFromFloat(0.4),
	SourcePreTax:  decimal.NewFromFloat(0.4),
	SourceRoth:    decimal.NewFromFloat(0.2),
}

func (s *ProportionalStrategy) Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: ctx.NetNeeded, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	remaining := ctx.NetNeeded

	lookup := map[string]*WithdrawalSource{}
	for i := range sources {
		lookup[sources[i].Name] = &sources[i]
	}

	for _, name := range []string{SourceTaxable, SourcePreTax, SourceRoth} {
		src, ok := lookup[name]
		if !ok || src.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}

		share := ctx.NetNeeded.Mul(proportionalShares[name])
		rate := rateFor(src.TaxTreatment, ctx)
		gross, net, tax := drawFor(share, src.Balance, rate)

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

	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}
	plan.RemainingNeed = remaining
	if remaining.GreaterThan(decimal.Zero) {
		plan.Notes = append(plan.Notes, "insufficient balances to meet request")
	}
	return plan
}
