package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nestegg/retirement-planner/internal/calculation"
	"github.com/nestegg/retirement-planner/internal/config"
	"github.com/nestegg/retirement-planner/internal/domain"
)

// Model is the dashboard state. Update consumes messages, View renders, and
// commands run the slow work off the UI goroutine.
type Model struct {
	scene         Scene
	previousScene Scene

	width  int
	height int

	planPath string
	cfg      *domain.PlanConfig
	profile  *domain.FinancialProfile
	result   *domain.ProjectionResult

	// First visible row of the year table.
	tableOffset int

	simRunning bool
	simErr     error

	loading        bool
	loadingMessage string
	err            error
}

// NewModel creates the dashboard for one plan file.
func NewModel(planPath string) Model {
	return Model{
		scene:          SceneOverview,
		planPath:       planPath,
		width:          80,
		height:         24,
		loading:        true,
		loadingMessage: "Loading plan...",
	}
}

// Init kicks off the plan load (required by tea.Model).
func (m Model) Init() tea.Cmd {
	return loadPlanCmd(m.planPath)
}

// loadPlanCmd parses, resolves and projects the plan file.
func loadPlanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		input, err := parser.LoadFromFile(path)
		if err != nil {
			return errMsg{Err: err}
		}
		cfg, profile, err := parser.Resolve(input)
		if err != nil {
			return errMsg{Err: err}
		}

		engine := calculation.NewProjectionEngine()
		if input.Tax != nil {
			engine = calculation.NewProjectionEngineWithConfig(input.Tax.ToDomain())
		}
		result, err := engine.RunPlan(cfg, profile)
		if err != nil {
			return errMsg{Err: err}
		}

		return planLoadedMsg{Config: cfg, Profile: profile, Result: result}
	}
}

// runSimulationCmd sweeps randomized market paths for the loaded plan.
func runSimulationCmd(cfg *domain.PlanConfig, profile *domain.FinancialProfile) tea.Cmd {
	return func() tea.Msg {
		engine := calculation.NewMonteCarloEngine()
		mcCfg := calculation.DeriveMonteCarloConfig(cfg, profile)
		mc, err := engine.RunSimulation(context.Background(), mcCfg)
		return simulationDoneMsg{MonteCarlo: mc, Err: err}
	}
}
