package sequencing

import (
	"github.com/shopspring/decimal"
)

// TaxTreatment represents tax characteristics of a withdrawal source
// OrdinaryIncome: fully taxable as ordinary income (pre-tax 401k/IRA)
// TaxFree: no current year tax impact (Roth, HSA for qualified expenses)
// CapitalGains: taxed at the stacked long-term capital gains rate (brokerage)
type TaxTreatment int

const (
	TaxFree TaxTreatment = iota
	OrdinaryIncome
	CapitalGains
)

func (tt TaxTreatment) String() string {
	switch tt {
	case TaxFree:
		return "tax_free"
	case OrdinaryIncome:
		return "ordinary"
	case CapitalGains:
		return "capital_gains"
	default:
		return "unknown"
	}
}

// Canonical source names in waterfall order.
const (
	SourceTaxable = "taxable"
	SourcePreTax  = "pretax"
	SourceRoth    = "roth"
	SourceHSA     = "hsa"
)

// WithdrawalSource represents an available pool for withdrawals
// Name: semantic identifier (taxable | pretax | roth | hsa)
// Balance: balance available this year, after any forced distributions
// TaxTreatment: how withdrawals from this pool are taxed
type WithdrawalSource struct {
	Name         string
	Balance      decimal.Decimal
	TaxTreatment TaxTreatment
}

// WithdrawalAllocation is a single source's share of a withdrawal plan.
// Gross is the amount leaving the account; Net is what remains after the
// estimated tax on that draw.
type WithdrawalAllocation struct {
	Source       string
	TaxTreatment TaxTreatment
	Gross        decimal.Decimal
	Net          decimal.Decimal
	EstimatedTax decimal.Decimal
}

// WithdrawalPlan is the result of sequencing a net spending need across
// the available sources.
type WithdrawalPlan struct {
	Requested     decimal.Decimal
	Allocations   []WithdrawalAllocation
	TotalGross    decimal.Decimal
	TotalNet      decimal.Decimal
	EstimatedTax  decimal.Decimal
	RemainingNeed decimal.Decimal
	StrategyUsed  string
	Notes         []string
}

// GrossFor returns the gross amount drawn from the named source, or zero
// if the plan touched no such source.
func (wp *WithdrawalPlan) GrossFor(name string) decimal.Decimal {
	for _, a := range wp.Allocations {
		if a.Source == name {
			return a.Gross
		}
	}
	return decimal.Zero
}

// StrategyContext carries the inputs a strategy needs for one year.
// The tax rates are estimates resolved by the caller before sequencing:
// CapitalGainsRate for taxable draws stacked on ordinary income, and
// OrdinaryRate for the marginal rate applied to pre-tax draws.
type StrategyContext struct {
	NetNeeded        decimal.Decimal
	CapitalGainsRate decimal.Decimal
	OrdinaryRate     decimal.Decimal
}

// SequencingStrategy decides how a net need is split across sources.
type SequencingStrategy interface {
	Name() string
	Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan
}

// rateFor maps a tax treatment to the context's estimated rate.
func rateFor(tt TaxTreatment, ctx StrategyContext) decimal.Decimal {
	switch tt {
	case CapitalGains:
		return ctx.CapitalGainsRate
	case OrdinaryIncome:
		return ctx.OrdinaryRate
	default:
		return decimal.Zero
	}
}

// grossUp converts a net need into the gross withdrawal that delivers it
// at the given estimated rate. Degenerate rates fall back to an untaxed
// draw rather than dividing by zero.
func grossUp(net, rate decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if rate.LessThanOrEqual(decimal.Zero) || rate.GreaterThanOrEqual(one) {
		return net
	}
	return net.Div(one.Sub(rate))
}

// drawFor sizes one source's draw against a net need. When the source
// covers the grossed-up need the net is the need itself, so division
// rounding cannot leave a phantom residual; when capped at the balance
// the net is what survives the estimated tax.
func drawFor(need, balance, rate decimal.Decimal) (gross, net, tax decimal.Decimal) {
	gross = grossUp(need, rate)
	net = need
	if gross.GreaterThan(balance) {
		gross = balance
		net = gross.Sub(gross.Mul(rate))
	}
	tax = gross.Sub(net)
	return gross, net, tax
}
