package transform

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuiltInTemplates(t *testing.T) {
	registry := BuiltInTemplates()

	expected := []string{
		"postpone_1yr", "postpone_2yr", "retire_3yr_early",
		"claim_ss_62", "delay_ss_70",
		"lean_spending", "comfortable_spending",
		"pessimistic_market", "optimistic_market",
		"conservative", "lean_fire",
	}
	for _, name := range expected {
		tmpl, ok := registry.Get(name)
		if !ok {
			t.Errorf("expected built-in template %q", name)
			continue
		}
		if tmpl.Description == "" {
			t.Errorf("template %q has no description", name)
		}
		if tmpl.Category == "" {
			t.Errorf("template %q has no category", name)
		}
		if len(tmpl.Transforms) == 0 {
			t.Errorf("template %q has no transforms", name)
		}
	}

	if got := len(registry.List()); got != len(expected) {
		t.Errorf("expected %d templates, got %d", len(expected), got)
	}
}

func TestTemplateGetCaseInsensitive(t *testing.T) {
	registry := BuiltInTemplates()

	for _, name := range []string{"lean_fire", "LEAN_FIRE", "Lean_Fire"} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("Get(%q) should find the template", name)
		}
	}
	if _, ok := registry.Get("does_not_exist"); ok {
		t.Error("Get should miss on an unknown name")
	}
}

func TestApplyTemplate(t *testing.T) {
	base := createTestPlan()
	registry := BuiltInTemplates()

	tmpl, ok := registry.Get("conservative")
	if !ok {
		t.Fatal("conservative template missing")
	}

	modified, err := ApplyTemplate(base, tmpl)
	if err != nil {
		t.Fatalf("ApplyTemplate failed: %v", err)
	}
	if modified.RetirementAge != 67 {
		t.Errorf("expected retirement age 67, got %d", modified.RetirementAge)
	}
	if modified.SocialSecurityStartAge != 70 {
		t.Errorf("expected claiming age 70, got %d", modified.SocialSecurityStartAge)
	}
	if !modified.DesiredRetirementSpending.Equal(decimal.NewFromInt(72000)) {
		t.Errorf("expected spending 72000, got %s", modified.DesiredRetirementSpending)
	}
	if base.RetirementAge != 65 {
		t.Error("base plan must not be mutated")
	}
}

func TestApplyTemplateEmpty(t *testing.T) {
	base := createTestPlan()

	copied, err := ApplyTemplate(base, Template{Name: "noop"})
	if err != nil {
		t.Fatalf("ApplyTemplate failed: %v", err)
	}
	if copied == base {
		t.Error("expected a copy, got the base pointer")
	}
}

func TestParseTemplateList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"postpone_1yr", []string{"postpone_1yr"}},
		{"postpone_1yr, delay_ss_70 ,lean_fire", []string{"postpone_1yr", "delay_ss_70", "lean_fire"}},
		{" , ", []string{}},
	}

	for _, tt := range tests {
		got := ParseTemplateList(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTemplateList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTemplateList(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestTemplateHelp(t *testing.T) {
	help := TemplateHelp(BuiltInTemplates())

	for _, want := range []string{
		"Available templates:",
		"Retirement Timing:",
		"Social Security:",
		"Combination:",
		"postpone_1yr",
		"--with",
		"--vary",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q", want)
		}
	}

	empty := TemplateHelp(NewTemplateRegistry())
	if !strings.Contains(empty, "No templates registered") {
		t.Errorf("unexpected empty-registry help: %q", empty)
	}
}
