package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRootCommand(t *testing.T) {
	cmd := rootCmd

	if cmd == nil {
		t.Fatal("Expected root command to be created")
	}

	if cmd.Use != "nestegg" {
		t.Errorf("Expected root command use to be 'nestegg', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected root command to have a short description")
	}

	if cmd.Long == "" {
		t.Error("Expected root command to have a long description")
	}
}

func TestRootCommand_Execute(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(); err != nil {
		t.Errorf("Expected no error for root command execution, got %v", err)
	}

	if buf.String() == "" {
		t.Error("Expected root command to show help/usage")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expectedCommands := []string{
		"project",
		"montecarlo",
		"compare",
		"validate",
		"init",
		"version",
	}

	registered := rootCmd.Commands()
	for _, expectedCmd := range expectedCommands {
		found := false
		for _, c := range registered {
			if c.Name() == expectedCmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command '%s' to be registered with root command", expectedCmd)
		}
	}
}

func TestValidateCommand_Execute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	doc := []byte(`plan_name: cmd test
profile:
  age: 40
  annual_salary: 90000
  annual_expenses: 50000
`)
	if err := os.WriteFile(path, doc, 0644); err != nil {
		t.Fatal(err)
	}

	cmd := rootCmd
	cmd.SetArgs([]string{"validate", path})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(); err != nil {
		t.Errorf("Expected valid plan file to pass validation, got %v", err)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.yaml")
	if err := os.WriteFile(path, []byte("plan_name: x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if !fileExists(path) {
		t.Error("Expected written file to exist")
	}

	if fileExists(filepath.Join(dir, "missing.yaml")) {
		t.Error("Expected missing.yaml to not exist")
	}
}

func TestRiskAssessment(t *testing.T) {
	cases := []struct {
		rate float64
		want string
	}{
		{99, "LOW RISK"},
		{90, "MODERATE RISK"},
		{80, "HIGH RISK"},
		{50, "VERY HIGH RISK"},
	}
	for _, tc := range cases {
		got := riskAssessment(decimal.NewFromFloat(tc.rate))
		if !strings.Contains(got, tc.want) {
			t.Errorf("riskAssessment(%v) = %q, want it to mention %q", tc.rate, got, tc.want)
		}
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"invalid-command"})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for invalid command")
	}
}
