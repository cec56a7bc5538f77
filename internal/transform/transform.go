package transform

import (
	"fmt"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// Transform is a named, validated mutation of a resolved plan. Transforms
// compose, which is what scenario comparison, the break-even solver and the
// CLI's --vary flag are built on.
type Transform interface {
	// Apply returns a modified copy of the base plan. The base is never
	// mutated.
	Apply(base *domain.PlanConfig) (*domain.PlanConfig, error)

	// Name returns the registry identifier, e.g. "retirement_age".
	Name() string

	// Description returns a one-line human-readable summary.
	Description() string

	// Validate checks the transform parameters against the base plan without
	// applying them.
	Validate(base *domain.PlanConfig) error
}

// ApplyAll applies a sequence of transforms in order, each receiving the
// output of the previous one. The base plan is left untouched.
func ApplyAll(base *domain.PlanConfig, transforms []Transform) (*domain.PlanConfig, error) {
	if base == nil {
		return nil, fmt.Errorf("base plan cannot be nil")
	}
	if len(transforms) == 0 {
		return base.DeepCopy(), nil
	}

	current := base
	for i, tr := range transforms {
		if tr == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := tr.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", tr.Name(), err)
		}
		next, err := tr.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", tr.Name(), err)
		}
		current = next
	}
	return current, nil
}

// TransformError reports a failure inside a single transform.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
