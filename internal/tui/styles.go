package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every scene.
var (
	ColorPrimary    = lipgloss.Color("#5A56E0")
	ColorSuccess    = lipgloss.Color("#04B575")
	ColorDanger     = lipgloss.Color("#FF5F87")
	ColorInfo       = lipgloss.Color("#5FD7FF")
	ColorForeground = lipgloss.Color("252")
	ColorMuted      = lipgloss.Color("243")
	ColorBorder     = lipgloss.Color("238")

	ColorBand10 = lipgloss.Color("#FF5F87")
	ColorBand50 = lipgloss.Color("#5FD7FF")
	ColorBand90 = lipgloss.Color("#04B575")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorInfo)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Foreground(ColorDanger).
			Padding(1, 2)

	MetricLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	MutedTextStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	RetiredRowStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Italic(true)
)

// TrendIndicator returns the arrow for a trend direction.
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "↑"
	}
	return "↓"
}

// TrendStyle colors a trend by direction.
func TrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger)
}
