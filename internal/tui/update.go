package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Year table bindings. Scene switches stay plain strings in handleKeyPress;
// these cover the multi-key scroll gestures.
var (
	keyUp       = key.NewBinding(key.WithKeys("up", "k"))
	keyDown     = key.NewBinding(key.WithKeys("down", "j"))
	keyPageUp   = key.NewBinding(key.WithKeys("pgup", "b"))
	keyPageDown = key.NewBinding(key.WithKeys("pgdown", "f", " "))
	keyTop      = key.NewBinding(key.WithKeys("g", "home"))
	keyBottom   = key.NewBinding(key.WithKeys("G", "end"))
)

// Update handles every message in the program (required by tea.Model).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tableOffset = m.clampedOffset(m.tableOffset)
		return m, nil

	case planLoadedMsg:
		m.loading = false
		m.cfg = msg.Config
		m.profile = msg.Profile
		m.result = msg.Result
		// Kick off the Monte Carlo sweep right away so the scene has data
		// by the time anyone switches to it.
		m.simRunning = true
		return m, runSimulationCmd(m.cfg, m.profile)

	case simulationDoneMsg:
		m.simRunning = false
		if msg.Err != nil {
			m.simErr = msg.Err
			return m, nil
		}
		m.simErr = nil
		if m.result != nil {
			m.result.MonteCarlo = msg.MonteCarlo
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m.navigate(SceneHelp), nil

	case "esc":
		if m.scene == SceneHelp {
			return m.navigate(m.previousScene), nil
		}
		return m.navigate(SceneOverview), nil

	case "o":
		return m.navigate(SceneOverview), nil

	case "t":
		return m.navigate(SceneTable), nil

	case "m":
		return m.navigate(SceneMonteCarlo), nil

	case "r":
		if m.scene == SceneMonteCarlo && !m.simRunning && m.cfg != nil {
			m.simRunning = true
			m.simErr = nil
			return m, runSimulationCmd(m.cfg, m.profile)
		}
	}

	if m.scene == SceneTable {
		return m.handleTableKey(msg), nil
	}
	return m, nil
}

func (m Model) navigate(s Scene) Model {
	if s == m.scene {
		return m
	}
	m.previousScene = m.scene
	m.scene = s
	return m
}

func (m Model) handleTableKey(msg tea.KeyMsg) Model {
	page := m.tableRows()

	switch {
	case key.Matches(msg, keyUp):
		m.tableOffset--
	case key.Matches(msg, keyDown):
		m.tableOffset++
	case key.Matches(msg, keyPageUp):
		m.tableOffset -= page
	case key.Matches(msg, keyPageDown):
		m.tableOffset += page
	case key.Matches(msg, keyTop):
		m.tableOffset = 0
	case key.Matches(msg, keyBottom):
		m.tableOffset = m.maxTableOffset()
	}

	m.tableOffset = m.clampedOffset(m.tableOffset)
	return m
}

// tableRows is how many projection rows fit under the table chrome.
func (m Model) tableRows() int {
	rows := m.height - 10
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m Model) maxTableOffset() int {
	if m.result == nil {
		return 0
	}
	last := len(m.result.Projections) - m.tableRows()
	if last < 0 {
		return 0
	}
	return last
}

func (m Model) clampedOffset(offset int) int {
	if last := m.maxTableOffset(); offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
