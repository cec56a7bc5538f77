package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// View renders the current scene (required by tea.Model).
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render(m.loadingMessage))
	}
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(
			fmt.Sprintf("Error: %s\n\nPress q to quit.", m.err)))
	}

	var content string
	switch m.scene {
	case SceneOverview:
		content = m.renderOverview()
	case SceneTable:
		content = m.renderTable()
	case SceneMonteCarlo:
		content = m.renderMonteCarlo()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps scene content with the title and status bars.
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4
	container := lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		container,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("NESTEGG - Household Retirement Planning")

	crumb := m.scene.String()
	if m.result != nil {
		crumb = fmt.Sprintf("%s / %s", m.scene, m.result.PlanName)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("o", "overview"),
		formatShortcut("t", "table"),
		formatShortcut("m", "monte carlo"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(keyName, desc string) string {
	return StatusKeyStyle.Render(keyName) + " " + desc
}

func (m Model) renderOverview() string {
	final := m.result.FinalProjection()
	if final == nil {
		return BorderStyle.Render("The projection produced no years.")
	}
	first := m.result.Projections[0]

	diff := final.NetWorth.Sub(first.NetWorth)
	cards := []*MetricCard{
		NewMetricCard("Final Net Worth", money(final.NetWorth)).
			WithTrend(diff.Sign() >= 0, signedCompact(diff)).
			WithDescription(fmt.Sprintf("age %d", final.Age)),
		NewMetricCard("Final Total Assets", money(final.TotalAssets)).
			WithDescription(fmt.Sprintf("year %d", final.Year)),
		NewMetricCard("Lifetime Tax", money(m.result.LifetimeTax())).
			WithDescription("cumulative federal"),
		retirementCard(m.result),
	}

	balances := []string{
		NewMetricCard("Pre-tax", money(final.Assets.PreTax)).RenderCompact(),
		NewMetricCard("Roth", money(final.Assets.Roth)).RenderCompact(),
		NewMetricCard("HSA", money(final.Assets.HSA)).RenderCompact(),
		NewMetricCard("Brokerage", money(final.Assets.Brokerage)).RenderCompact(),
		NewMetricCard("Savings", money(final.Assets.Savings)).RenderCompact(),
	}
	balancePanel := BorderStyle.Render(
		TableHeaderStyle.Render("Final balances") + "\n" + strings.Join(balances, "\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		MetricGrid(cards, 2),
		"",
		balancePanel,
	)
}

func retirementCard(result *domain.ProjectionResult) *MetricCard {
	card := NewMetricCard("Retirement", fmt.Sprintf("age %d", result.RetirementAge))
	if firstRetired := result.FirstDecumulationYear(); firstRetired != nil {
		card.WithDescription(fmt.Sprintf("first retired year %d", firstRetired.Year))
	}
	return card
}

func (m Model) renderTable() string {
	projections := m.result.Projections
	if len(projections) == 0 {
		return BorderStyle.Render("The projection produced no years.")
	}

	header := fmt.Sprintf("%-6s %-4s %-13s %12s %12s %12s %14s %14s",
		"Year", "Age", "Phase", "Gross", "Taxes", "Expenses", "Assets", "Net Worth")

	end := m.tableOffset + m.tableRows()
	if end > len(projections) {
		end = len(projections)
	}

	rows := make([]string, 0, end-m.tableOffset+2)
	rows = append(rows, TableHeaderStyle.Render(header))
	rows = append(rows, strings.Repeat("─", lipgloss.Width(header)))
	for i := m.tableOffset; i < end; i++ {
		p := projections[i]
		row := fmt.Sprintf("%-6d %-4d %-13s %12s %12s %12s %14s %14s",
			p.Year, p.Age, p.Phase,
			money(p.GrossIncome), money(p.TaxesPaid), money(p.TotalExpenses),
			money(p.TotalAssets), money(p.NetWorth))
		if p.IsRetired() {
			row = RetiredRowStyle.Render(row)
		}
		rows = append(rows, row)
	}

	footer := MutedTextStyle.Render(fmt.Sprintf(
		"years %d-%d of %d • ↑/↓ scroll • PgUp/PgDn page • g/G first/last",
		m.tableOffset+1, end, len(projections)))

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(rows, "\n"), "", footer)
}

func (m Model) renderMonteCarlo() string {
	if m.simErr != nil {
		return ErrorStyle.Render(
			fmt.Sprintf("Simulation failed: %s\n\nPress r to retry.", m.simErr))
	}
	if m.simRunning {
		return BorderStyle.Render("Running market simulations...")
	}
	mc := m.result.MonteCarlo
	if mc == nil {
		return BorderStyle.Render(
			"No simulation yet.\n\n" +
				HintStyle.Render("Press r to sweep randomized market returns."))
	}

	summary := []string{
		NewMetricCard("Success rate", mc.SuccessRate.StringFixed(1)+"%").RenderCompact(),
		NewMetricCard("Median ending balance", money(mc.MedianEndingBalance)).RenderCompact(),
		NewMetricCard("Simulations", strconv.Itoa(mc.NumSimulations)).RenderCompact(),
		NewMetricCard("Risk profile", string(mc.RiskProfile)).RenderCompact(),
	}

	// Simulation years are offsets from the start; label them with
	// calendar years when the projection provides a base.
	baseYear := 0
	if len(m.result.Projections) > 0 {
		baseYear = m.result.Projections[0].Year
	}

	chart := NewLineChart("Balance percentiles by year").
		WithSize(m.chartWidth(), 14).
		WithLabels(yearLabels(baseYear, mc.Years)).
		AddSeries("10th", toFloats(mc.Percentiles[domain.Percentile10]), ColorBand10).
		AddSeries("50th", toFloats(mc.Percentiles[domain.Percentile50]), ColorBand50).
		AddSeries("90th", toFloats(mc.Percentiles[domain.Percentile90]), ColorBand90)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		strings.Join(summary, "\n"),
		"",
		chart.Render(),
	)
}

func (m Model) chartWidth() int {
	w := m.width - 6
	if w > 76 {
		w = 76
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (m Model) renderHelp() string {
	helpText := `NESTEGG - Interactive Retirement Dashboard

KEYBOARD SHORTCUTS:
  o         Overview
  t         Year-by-year table
  m         Monte Carlo
  ?         This help
  ESC       Back
  q/Ctrl+C  Quit

YEAR TABLE:
  ↑/k ↓/j   Scroll one year
  PgUp/PgDn Page
  g / G     First / last year

MONTE CARLO:
  r         Run the simulation`

	return BorderStyle.Render(helpText)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(0)
}

// signedCompact renders a delta like "+$120K" or "-$3.1M".
func signedCompact(d decimal.Decimal) string {
	if d.Sign() < 0 {
		return "-" + formatChartValue(d.Abs().InexactFloat64())
	}
	return "+" + formatChartValue(d.InexactFloat64())
}

func toFloats(points []decimal.Decimal) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.InexactFloat64()
	}
	return out
}

func yearLabels(baseYear int, offsets []int) []string {
	labels := make([]string, len(offsets))
	for i, off := range offsets {
		labels[i] = strconv.Itoa(baseYear + off)
	}
	return labels
}
