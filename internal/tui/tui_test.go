package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func loadedModel(years int) Model {
	projections := make([]domain.AnnualProjection, years)
	for i := range projections {
		projections[i] = domain.AnnualProjection{
			Year:  2025 + i,
			Age:   60 + i,
			Phase: domain.PhaseAccumulating,
		}
	}

	m := NewModel("plan.yaml")
	m.loading = false
	m.result = &domain.ProjectionResult{
		PlanName:      "test plan",
		RetirementAge: 65,
		Projections:   projections,
	}
	m.cfg = &domain.PlanConfig{PlanName: "test plan", StartAge: 60, RetirementAge: 65, EndAge: 60 + years - 1}
	m.profile = &domain.FinancialProfile{}
	return m
}

func TestSceneNavigation(t *testing.T) {
	m := loadedModel(10)

	updated, _ := m.Update(keyPress('t'))
	m = updated.(Model)
	if m.scene != SceneTable {
		t.Fatalf("expected table scene after t, got %s", m.scene)
	}

	updated, _ = m.Update(keyPress('?'))
	m = updated.(Model)
	if m.scene != SceneHelp {
		t.Fatalf("expected help scene after ?, got %s", m.scene)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.scene != SceneTable {
		t.Fatalf("expected esc from help to return to table, got %s", m.scene)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.scene != SceneOverview {
		t.Fatalf("expected esc to land on overview, got %s", m.scene)
	}
}

func TestQuitKey(t *testing.T) {
	m := loadedModel(5)
	_, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message, got %T", cmd())
	}
}

func TestTableScroll(t *testing.T) {
	m := loadedModel(30)
	m.scene = SceneTable
	m.height = 24 // 14 visible rows, max offset 16

	last := m.maxTableOffset()
	if last != 16 {
		t.Fatalf("expected max offset 16, got %d", last)
	}

	updated, _ := m.Update(keyPress('G'))
	m = updated.(Model)
	if m.tableOffset != 16 {
		t.Fatalf("expected G to scroll to last page, got offset %d", m.tableOffset)
	}

	updated, _ = m.Update(keyPress('g'))
	m = updated.(Model)
	if m.tableOffset != 0 {
		t.Fatalf("expected g to scroll to top, got offset %d", m.tableOffset)
	}

	updated, _ = m.Update(keyPress('k'))
	m = updated.(Model)
	if m.tableOffset != 0 {
		t.Fatalf("expected scroll above top to clamp at 0, got %d", m.tableOffset)
	}

	updated, _ = m.Update(keyPress('j'))
	m = updated.(Model)
	if m.tableOffset != 1 {
		t.Fatalf("expected j to scroll one row, got offset %d", m.tableOffset)
	}

	updated, _ = m.Update(keyPress('f'))
	m = updated.(Model)
	if m.tableOffset != 15 {
		t.Fatalf("expected page down from 1 to land on 15, got %d", m.tableOffset)
	}
}

func TestPlanLoadedMsg(t *testing.T) {
	m := NewModel("plan.yaml")
	if !m.loading {
		t.Fatal("expected new model to start loading")
	}

	result := &domain.ProjectionResult{PlanName: "loaded"}
	updated, cmd := m.Update(planLoadedMsg{
		Config:  &domain.PlanConfig{},
		Profile: &domain.FinancialProfile{},
		Result:  result,
	})
	m = updated.(Model)

	if m.loading {
		t.Fatal("expected loading to clear after plan load")
	}
	if m.result != result {
		t.Fatal("expected result to be stored on the model")
	}
	if !m.simRunning || cmd == nil {
		t.Fatal("expected the simulation to start after plan load")
	}
}

func TestSimulationDoneMsg(t *testing.T) {
	m := loadedModel(5)

	mc := &domain.MonteCarloResult{NumSimulations: 100}
	updated, _ := m.Update(simulationDoneMsg{MonteCarlo: mc})
	m = updated.(Model)
	if m.result.MonteCarlo != mc {
		t.Fatal("expected simulation result attached to the projection")
	}
	if m.simErr != nil {
		t.Fatalf("unexpected simulation error: %v", m.simErr)
	}
}

func TestRunSimulationKey(t *testing.T) {
	m := loadedModel(5)
	m.scene = SceneMonteCarlo

	updated, cmd := m.Update(keyPress('r'))
	m = updated.(Model)
	if !m.simRunning {
		t.Fatal("expected r to start the simulation")
	}
	if cmd == nil {
		t.Fatal("expected a simulation command")
	}

	// A second r while running must not restart.
	_, cmd = m.Update(keyPress('r'))
	if cmd != nil {
		t.Fatal("expected r to be ignored while the simulation runs")
	}
}

func TestViewOverview(t *testing.T) {
	m := loadedModel(10)
	view := m.View()

	for _, want := range []string{"NESTEGG", "test plan", "Final Net Worth", "Lifetime Tax", "Retirement"} {
		if !strings.Contains(view, want) {
			t.Errorf("overview missing %q", want)
		}
	}
}

func TestViewTableWindow(t *testing.T) {
	m := loadedModel(30)
	m.scene = SceneTable
	m.height = 24
	m.tableOffset = 16

	view := m.View()
	if !strings.Contains(view, "years 17-30 of 30") {
		t.Errorf("expected table footer for last window, got:\n%s", view)
	}
	if !strings.Contains(view, "2054") {
		t.Error("expected last projection year to be visible")
	}
	if strings.Contains(view, "2026") {
		t.Error("expected early years to be scrolled out of view")
	}
}

func TestViewMonteCarloPrompt(t *testing.T) {
	m := loadedModel(10)
	m.scene = SceneMonteCarlo

	view := m.View()
	if !strings.Contains(view, "Press r") {
		t.Error("expected prompt to run the simulation")
	}
}

func TestViewMonteCarloChart(t *testing.T) {
	m := loadedModel(3)
	band := func(a, b, c float64) []decimal.Decimal {
		return []decimal.Decimal{
			decimal.NewFromFloat(a), decimal.NewFromFloat(b), decimal.NewFromFloat(c),
		}
	}
	m.result.MonteCarlo = &domain.MonteCarloResult{
		Years: []int{0, 1, 2},
		Percentiles: map[string][]decimal.Decimal{
			domain.Percentile10: band(90000, 80000, 70000),
			domain.Percentile50: band(100000, 105000, 110000),
			domain.Percentile90: band(110000, 130000, 160000),
		},
		SuccessRate:         decimal.NewFromFloat(92.5),
		MedianEndingBalance: decimal.NewFromInt(110000),
		NumSimulations:      1000,
		RiskProfile:         domain.RiskModerate,
	}
	m.scene = SceneMonteCarlo

	view := m.View()
	for _, want := range []string{"92.5%", "moderate", "Legend:", "2025", "2027"} {
		if !strings.Contains(view, want) {
			t.Errorf("monte carlo scene missing %q", want)
		}
	}
}

func TestLineChartFlatSeries(t *testing.T) {
	chart := NewLineChart("flat").
		AddSeries("only", []float64{50000, 50000, 50000}, ColorBand50)

	view := chart.Render()
	if !strings.Contains(view, "└") {
		t.Error("expected chart axis to render for a flat series")
	}
	if strings.Contains(view, "NaN") {
		t.Error("flat series must not produce NaN axis labels")
	}
}

func TestFormatChartValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2500000, "$2.5M"},
		{45000, "$45K"},
		{500, "$500"},
		{-1200000, "$-1.2M"},
	}
	for _, tc := range cases {
		if got := formatChartValue(tc.in); got != tc.want {
			t.Errorf("formatChartValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSignedCompact(t *testing.T) {
	if got := signedCompact(decimal.NewFromInt(120000)); got != "+$120K" {
		t.Errorf("expected +$120K, got %q", got)
	}
	if got := signedCompact(decimal.NewFromInt(-3100000)); got != "-$3.1M" {
		t.Errorf("expected -$3.1M, got %q", got)
	}
}
