package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Registry creates transforms from string parameters, which is what the CLI
// --vary flag and the break-even solver feed it.
type Registry struct {
	factories map[string]Factory
}

// Factory builds a transform from string parameters.
type Factory func(params map[string]string) (Transform, error)

// NewRegistry creates a registry with all built-in transforms registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register("retirement_age", createRetireAtAge)
	r.Register("postpone_retirement", createPostponeRetirement)
	r.Register("delay_ss", createDelaySocialSecurity)
	r.Register("spending", createSpendingLevel)
	r.Register("spending_scale", createSpendingScale)
	r.Register("contribution_scale", createContributionScale)
	r.Register("market_outlook", createMarketOutlook)

	return r
}

// Register adds a transform factory to the registry.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *Registry) Create(name string, params map[string]string) (Transform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform %q (available: %s)", name, strings.Join(r.List(), ", "))
	}
	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseSpec parses one transform specification.
// Format: "transform_name:param1=value1,param2=value2".
// Example: "retirement_age:age=58".
func (r *Registry) ParseSpec(spec string) (Transform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty transform spec")
	}

	params := make(map[string]string)
	for _, pair := range strings.Split(strings.TrimSpace(paramsStr), ",") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid parameter %q in spec %q, expected key=value", pair, spec)
		}
		params[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	return r.Create(name, params)
}

// ParseSpecs parses a composite specification: transform specs joined with
// "+" that together describe one derived scenario.
// Example: "retirement_age:age=58+delay_ss:age=70".
func (r *Registry) ParseSpecs(spec string) ([]Transform, error) {
	parts := strings.Split(spec, "+")
	transforms := make([]Transform, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tr, err := r.ParseSpec(part)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, tr)
	}
	if len(transforms) == 0 {
		return nil, fmt.Errorf("spec %q contains no transforms", spec)
	}
	return transforms, nil
}

func requireParam(params map[string]string, transform, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires %q parameter", transform, key)
	}
	return v, nil
}

func intParam(params map[string]string, transform, key string) (int, error) {
	raw, err := requireParam(params, transform, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func decimalParam(params map[string]string, transform, key string) (decimal.Decimal, error) {
	raw, err := requireParam(params, transform, key)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func createRetireAtAge(params map[string]string) (Transform, error) {
	age, err := intParam(params, "retirement_age", "age")
	if err != nil {
		return nil, err
	}
	return &RetireAtAge{Age: age}, nil
}

func createPostponeRetirement(params map[string]string) (Transform, error) {
	years, err := intParam(params, "postpone_retirement", "years")
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createDelaySocialSecurity(params map[string]string) (Transform, error) {
	age, err := intParam(params, "delay_ss", "age")
	if err != nil {
		return nil, err
	}
	return &DelaySocialSecurity{Age: age}, nil
}

func createSpendingLevel(params map[string]string) (Transform, error) {
	amount, err := decimalParam(params, "spending", "amount")
	if err != nil {
		return nil, err
	}
	return &SpendingLevel{Amount: amount}, nil
}

func createSpendingScale(params map[string]string) (Transform, error) {
	factor, err := decimalParam(params, "spending_scale", "factor")
	if err != nil {
		return nil, err
	}
	return &SpendingScale{Factor: factor}, nil
}

func createContributionScale(params map[string]string) (Transform, error) {
	factor, err := decimalParam(params, "contribution_scale", "factor")
	if err != nil {
		return nil, err
	}
	return &ContributionScale{Factor: factor}, nil
}

func createMarketOutlook(params map[string]string) (Transform, error) {
	mo := &MarketOutlook{}
	if raw, ok := params["growth"]; ok {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid growth value %q: %w", raw, err)
		}
		mo.GrowthPct = &v
	}
	if raw, ok := params["inflation"]; ok {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid inflation value %q: %w", raw, err)
		}
		mo.InflationPct = &v
	}
	if mo.GrowthPct == nil && mo.InflationPct == nil {
		return nil, fmt.Errorf("market_outlook requires a growth or inflation parameter")
	}
	return mo, nil
}
