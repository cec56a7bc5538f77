package tui

import "github.com/nestegg/retirement-planner/internal/domain"

// Scene identifies a screen in the dashboard.
type Scene int

const (
	SceneOverview Scene = iota
	SceneTable
	SceneMonteCarlo
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneOverview:
		return "Overview"
	case SceneTable:
		return "Year Table"
	case SceneMonteCarlo:
		return "Monte Carlo"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Messages for the Bubble Tea update cycle.

// planLoadedMsg carries the resolved plan and its deterministic projection.
type planLoadedMsg struct {
	Config  *domain.PlanConfig
	Profile *domain.FinancialProfile
	Result  *domain.ProjectionResult
}

// simulationDoneMsg carries a finished Monte Carlo sweep.
type simulationDoneMsg struct {
	MonteCarlo *domain.MonteCarloResult
	Err        error
}

// errMsg surfaces a failure to the user.
type errMsg struct {
	Err error
}
