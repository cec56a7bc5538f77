package breakeven

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int {
	return &v
}

func TestConstraintsValidate(t *testing.T) {
	tests := []struct {
		name        string
		constraints Constraints
		wantErr     bool
	}{
		{"empty", DefaultConstraints(), false},
		{"spending_bounds", Constraints{MinSpending: decPtr(40000), MaxSpending: decPtr(90000)}, false},
		{"zero_min_spending", Constraints{MinSpending: decPtr(0)}, true},
		{"inverted_spending", Constraints{MinSpending: decPtr(90000), MaxSpending: decPtr(40000)}, true},
		{"age_bounds", Constraints{MinRetirementAge: intPtr(60), MaxRetirementAge: intPtr(70)}, false},
		{"inverted_ages", Constraints{MinRetirementAge: intPtr(70), MaxRetirementAge: intPtr(60)}, true},
		{"negative_scale", Constraints{MinScale: decPtr(-1)}, true},
		{"inverted_scales", Constraints{MinScale: decPtr(2), MaxScale: decPtr(1)}, true},
		{"success_rate", Constraints{MinSuccessRate: decPtr(90)}, false},
		{"success_rate_over_100", Constraints{MinSuccessRate: decPtr(150)}, true},
		{"success_rate_negative", Constraints{MinSuccessRate: decPtr(-5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constraints.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSolveErrorText(t *testing.T) {
	plain := &SolveError{Operation: "solve_spending", Message: "no bracket"}
	if got := plain.Error(); got != "break-even solve_spending: no bracket" {
		t.Errorf("unexpected error text: %q", got)
	}
	if plain.Unwrap() != nil {
		t.Error("expected nil cause")
	}

	cause := errors.New("projection exploded")
	wrapped := &SolveError{Operation: "evaluate", Message: "projection failed", Cause: cause}
	if !strings.Contains(wrapped.Error(), "projection exploded") {
		t.Errorf("cause missing from error text: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestDefaultSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()
	if !opts.Tolerance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected $100 tolerance, got %s", opts.Tolerance)
	}
	if opts.MaxIterations != 60 {
		t.Errorf("expected 60 iterations, got %d", opts.MaxIterations)
	}
}
