package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
	"github.com/nestegg/retirement-planner/internal/sequencing"
)

// PROJECTION ASSUMPTIONS:
// - Two phases only, switched on age >= retirement age.
// - Year zero is a snapshot of the inputs; simulation starts the year after.
// - The mortgage is a fixed annual payment split 60/40 principal/interest,
//   charged during accumulation while a balance remains. Not an
//   amortization schedule.
// - Working-year surplus is invested 70% brokerage / 30% savings.
// - Retirement deficits are funded by the withdrawal waterfall; retirement
//   surpluses accumulate in savings.
// - Balances floor at zero before growth. Liabilities are never a funding
//   source.
var (
	// DefaultAnnualMortgagePayment is the fixed yearly house payment used
	// while a mortgage balance remains.
	DefaultAnnualMortgagePayment = decimal.NewFromInt(28000)

	// DefaultMonthlyExpenses backstops profiles that carry no expense data.
	DefaultMonthlyExpenses = decimal.NewFromInt(4000)

	mortgagePrincipalShare = decimal.NewFromFloat(0.60)
	surplusBrokerageShare  = decimal.NewFromFloat(0.70)
	surplusSavingsShare    = decimal.NewFromFloat(0.30)
)

// ProjectionEngine runs the deterministic year-by-year household projection.
type ProjectionEngine struct {
	Tax    *TaxAssumptions
	Logger Logger

	// MortgagePayment overrides DefaultAnnualMortgagePayment when set by a
	// caller before the run.
	MortgagePayment decimal.Decimal

	// BaseYear labels projection records; year zero carries this value.
	BaseYear int
}

// NewProjectionEngine creates an engine with current-law tax assumptions.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{
		Tax:             NewTaxAssumptions2024(),
		Logger:          NopLogger{},
		MortgagePayment: DefaultAnnualMortgagePayment,
		BaseYear:        time.Now().Year(),
	}
}

// NewProjectionEngineWithConfig creates an engine with overridden tax tables.
func NewProjectionEngineWithConfig(taxConfig *domain.TaxConfig) *ProjectionEngine {
	engine := NewProjectionEngine()
	engine.Tax = NewTaxAssumptions(taxConfig)
	return engine
}

// SetLogger installs a logger; nil restores the no-op logger.
func (pe *ProjectionEngine) SetLogger(logger Logger) {
	if logger == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = logger
}

func (pe *ProjectionEngine) strategyFor(cfg *domain.PlanConfig) sequencing.SequencingStrategy {
	return sequencing.CreateStrategy(cfg.WithdrawalStrategy, cfg.WithdrawalSequence)
}

// GenerateProjection produces one record per age in [StartAge, EndAge].
// Degenerate numeric inputs never abort a run; the only failures are missing
// inputs and a horizon that ends before it starts.
func (pe *ProjectionEngine) GenerateProjection(cfg *domain.PlanConfig, profile *domain.FinancialProfile) ([]domain.AnnualProjection, error) {
	if cfg == nil || profile == nil {
		return nil, fmt.Errorf("projection requires a plan and a financial profile")
	}
	if cfg.EndAge <= cfg.StartAge {
		return nil, fmt.Errorf("end age %d must be greater than start age %d", cfg.EndAge, cfg.StartAge)
	}

	pe.Logger.Debugf("projection start: ages %d-%d, retirement at %d, filing %s",
		cfg.StartAge, cfg.EndAge, cfg.RetirementAge, cfg.FilingStatus)

	st := newHouseholdState(profile)
	projections := make([]domain.AnnualProjection, 0, cfg.Years()+1)
	projections = append(projections, pe.openingSnapshot(cfg, profile, st))

	cumulativeTax := decimal.Zero
	for i := 1; i <= cfg.Years(); i++ {
		age := cfg.StartAge + i

		var record domain.AnnualProjection
		switch domain.PhaseForAge(age, cfg.RetirementAge) {
		case domain.PhaseAccumulating:
			record = pe.accumulationYear(cfg, profile, st, i, age)
		case domain.PhaseDecumulating:
			record = pe.decumulationYear(cfg, profile, st, i, age)
		}

		cumulativeTax = cumulativeTax.Add(record.TaxesPaid)
		record.CumulativeTax = cumulativeTax
		projections = append(projections, record)
	}

	pe.Logger.Debugf("projection complete: %d records, lifetime tax %s",
		len(projections), cumulativeTax.StringFixed(2))
	return projections, nil
}

// RunPlan executes the projection and wraps it with plan metadata.
func (pe *ProjectionEngine) RunPlan(cfg *domain.PlanConfig, profile *domain.FinancialProfile) (*domain.ProjectionResult, error) {
	projections, err := pe.GenerateProjection(cfg, profile)
	if err != nil {
		return nil, err
	}
	return &domain.ProjectionResult{
		PlanID:        cfg.PlanID,
		PlanName:      cfg.PlanName,
		FilingStatus:  cfg.FilingStatus,
		RetirementAge: cfg.RetirementAge,
		GeneratedAt:   time.Now().UTC(),
		Projections:   projections,
	}, nil
}
