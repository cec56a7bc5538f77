package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// Template is a named bundle of transforms describing a common what-if.
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []Transform
}

// TemplateRegistry manages built-in scenario templates.
type TemplateRegistry struct {
	templates map[string]Template
}

// NewTemplateRegistry creates an empty template registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]Template)}
}

// Register adds a template to the registry.
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive).
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted.
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pct(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

// BuiltInTemplates returns the registry of common household what-ifs.
func BuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "postpone_1yr",
		Category:    "Retirement Timing",
		Description: "Work one more year before retiring",
		Transforms:  []Transform{&PostponeRetirement{Years: 1}},
	})
	registry.Register(Template{
		Name:        "postpone_2yr",
		Category:    "Retirement Timing",
		Description: "Work two more years before retiring",
		Transforms:  []Transform{&PostponeRetirement{Years: 2}},
	})
	registry.Register(Template{
		Name:        "retire_3yr_early",
		Category:    "Retirement Timing",
		Description: "Retire three years earlier than planned",
		Transforms:  []Transform{&PostponeRetirement{Years: -3}},
	})

	registry.Register(Template{
		Name:        "claim_ss_62",
		Category:    "Social Security",
		Description: "Claim Social Security at 62, the earliest possible age",
		Transforms:  []Transform{&DelaySocialSecurity{Age: 62}},
	})
	registry.Register(Template{
		Name:        "delay_ss_70",
		Category:    "Social Security",
		Description: "Delay Social Security claiming to age 70",
		Transforms:  []Transform{&DelaySocialSecurity{Age: 70}},
	})

	registry.Register(Template{
		Name:        "lean_spending",
		Category:    "Spending",
		Description: "Cut retirement spending to 85% of the target",
		Transforms:  []Transform{&SpendingScale{Factor: decimal.NewFromFloat(0.85)}},
	})
	registry.Register(Template{
		Name:        "comfortable_spending",
		Category:    "Spending",
		Description: "Raise retirement spending to 115% of the target",
		Transforms:  []Transform{&SpendingScale{Factor: decimal.NewFromFloat(1.15)}},
	})

	registry.Register(Template{
		Name:        "pessimistic_market",
		Category:    "Market",
		Description: "Lower growth with higher inflation (5% growth, 3.5% inflation)",
		Transforms:  []Transform{&MarketOutlook{GrowthPct: pct(5.0), InflationPct: pct(3.5)}},
	})
	registry.Register(Template{
		Name:        "optimistic_market",
		Category:    "Market",
		Description: "Higher growth with mild inflation (8.5% growth, 2.5% inflation)",
		Transforms:  []Transform{&MarketOutlook{GrowthPct: pct(8.5), InflationPct: pct(2.5)}},
	})

	registry.Register(Template{
		Name:        "conservative",
		Category:    "Combination",
		Description: "Work two more years, delay SS to 70 and trim spending 10%",
		Transforms: []Transform{
			&PostponeRetirement{Years: 2},
			&DelaySocialSecurity{Age: 70},
			&SpendingScale{Factor: decimal.NewFromFloat(0.9)},
		},
	})
	registry.Register(Template{
		Name:        "lean_fire",
		Category:    "Combination",
		Description: "Retire five years early on 80% of the spending target",
		Transforms: []Transform{
			&PostponeRetirement{Years: -5},
			&SpendingScale{Factor: decimal.NewFromFloat(0.8)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base plan.
func ApplyTemplate(base *domain.PlanConfig, template Template) (*domain.PlanConfig, error) {
	if len(template.Transforms) == 0 {
		return base.DeepCopy(), nil
	}
	return ApplyAll(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names.
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}
	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// TemplateHelp returns formatted help text for all templates, grouped by
// category.
func TemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	byCategory := make(map[string][]Template)
	for _, t := range registry.templates {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("Available templates:\n\n")
	for _, category := range categories {
		templates := byCategory[category]
		sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  nestegg compare base.yaml --with postpone_1yr,delay_ss_70\n")
	sb.WriteString("  nestegg compare base.yaml --vary \"retirement_age:age=58\"\n")

	return sb.String()
}
