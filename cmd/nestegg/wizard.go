package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nestegg/retirement-planner/internal/config"
	"github.com/nestegg/retirement-planner/internal/domain"
)

var initCmd = &cobra.Command{
	Use:   "init [output-file]",
	Short: "Create a plan file interactively",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "plan.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		force, _ := cmd.Flags().GetBool("force")
		if fileExists(path) && !force {
			fmt.Fprintf(os.Stderr, "%s already exists, pass --force to overwrite\n", path)
			os.Exit(1)
		}

		input, err := runInitWizard()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(os.Stderr, "aborted, no file written")
				os.Exit(1)
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := config.SaveToFile(input, path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		fmt.Printf("Next: nestegg project %s\n", path)
	},
}

// runInitWizard walks through the questions a starter plan needs and
// assembles the document. Amounts are collected as text so blanks can mean
// zero; every field is validated before the form advances.
func runInitWizard() (*config.PlanInput, error) {
	var (
		planName = "My Retirement Plan"
		filing   = string(domain.FilingSingle)
		risk     = string(domain.RiskModerate)

		age           string
		salary        string
		expenses      string
		retirementAge string
		spending      string

		preTax    string
		roth      string
		brokerage string
		savings   string

		hasSpouse bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Plan name").
				Value(&planName),
			huh.NewSelect[string]().
				Title("Filing status").
				Options(huh.NewOptions(
					string(domain.FilingSingle),
					string(domain.FilingMarriedJointly),
					string(domain.FilingHeadOfHousehold),
				)...).
				Value(&filing),
			huh.NewSelect[string]().
				Title("Risk profile").
				Description("Drives the Monte Carlo return assumptions").
				Options(huh.NewOptions(
					string(domain.RiskConservative),
					string(domain.RiskModerate),
					string(domain.RiskAggressive),
				)...).
				Value(&risk),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Your age").
				Validate(validateAge).
				Value(&age),
			huh.NewInput().
				Title("Annual salary").
				Placeholder("90000").
				Validate(validateMoney).
				Value(&salary),
			huh.NewInput().
				Title("Annual living expenses").
				Placeholder("60000").
				Validate(validateMoney).
				Value(&expenses),
			huh.NewInput().
				Title("Planned retirement age").
				Validate(validateAge).
				Value(&retirementAge),
			huh.NewInput().
				Title("Desired annual spending in retirement").
				Description("Blank uses the default of 80000").
				Validate(validateMoney).
				Value(&spending),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Pre-tax balance (401k, traditional IRA)").
				Validate(validateMoney).
				Value(&preTax),
			huh.NewInput().
				Title("Roth balance").
				Validate(validateMoney).
				Value(&roth),
			huh.NewInput().
				Title("Brokerage balance").
				Validate(validateMoney).
				Value(&brokerage),
			huh.NewInput().
				Title("Savings balance").
				Validate(validateMoney).
				Value(&savings),
			huh.NewConfirm().
				Title("Add a spouse?").
				Value(&hasSpouse),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	input := &config.PlanInput{
		PlanName:     planName,
		FilingStatus: filing,
		RiskProfile:  risk,
		Profile: config.ProfileInput{
			Age:              parseInt(age),
			AnnualSalary:     parseMoney(salary),
			AnnualExpenses:   parseMoney(expenses),
			PreTaxBalance:    parseMoney(preTax),
			RothBalance:      parseMoney(roth),
			BrokerageBalance: parseMoney(brokerage),
			SavingsBalance:   parseMoney(savings),
		},
		Plan: &config.PlanOverrides{
			RetirementAge:             parseInt(retirementAge),
			DesiredRetirementSpending: parseMoney(spending),
		},
	}

	if hasSpouse {
		spouse, spouseSalary, err := runSpouseWizard()
		if err != nil {
			return nil, err
		}
		input.Spouse = spouse
		input.Profile.SpouseAnnualSalary = spouseSalary
	}
	return input, nil
}

func runSpouseWizard() (*config.SpouseInput, decimal.Decimal, error) {
	var (
		age           string
		salary        string
		retirementAge string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Spouse age").
				Validate(validateAge).
				Value(&age),
			huh.NewInput().
				Title("Spouse annual salary").
				Validate(validateMoney).
				Value(&salary),
			huh.NewInput().
				Title("Spouse retirement age").
				Validate(validateAge).
				Value(&retirementAge),
		),
	)
	if err := form.Run(); err != nil {
		return nil, decimal.Zero, err
	}

	spouse := &config.SpouseInput{
		Age:           parseInt(age),
		RetirementAge: parseInt(retirementAge),
	}
	return spouse, parseMoney(salary), nil
}

func validateAge(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 18 || n > 100 {
		return fmt.Errorf("age must be between 18 and 100")
	}
	return nil
}

// validateMoney accepts blank as zero.
func validateMoney(s string) error {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("enter an amount like 125000 or 125000.50")
	}
	if d.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}
	return nil
}

// parseInt and parseMoney run after validation, so failures collapse to
// zero rather than erroring twice.
func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, _ := decimal.NewFromString(s)
	return d
}
