package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// MetricCard shows one labeled value, optionally with a trend arrow and a
// one-line description.
type MetricCard struct {
	Label       string
	Value       string
	Description string
	Width       int

	trend *trend
}

type trend struct {
	isPositive bool
	change     string
}

// NewMetricCard creates a card with the default width.
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 28}
}

// WithTrend adds a directional change line, e.g. "+$5,234".
func (c *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	c.trend = &trend{isPositive: isPositive, change: change}
	return c
}

// WithDescription adds a subtitle under the value.
func (c *MetricCard) WithDescription(desc string) *MetricCard {
	c.Description = desc
	return c
}

// WithWidth sets the card width.
func (c *MetricCard) WithWidth(width int) *MetricCard {
	c.Width = width
	return c
}

// Render returns the bordered card.
func (c *MetricCard) Render() string {
	content := MetricLabelStyle.Render(c.Label) + "\n" + MetricValueStyle.Render(c.Value)

	if c.trend != nil {
		content += "\n" + TrendStyle(c.trend.isPositive).Render(
			fmt.Sprintf("%s %s", TrendIndicator(c.trend.isPositive), c.trend.change))
	}
	if c.Description != "" {
		content += "\n" + MutedTextStyle.Render(c.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 2).
		Width(c.Width).
		Render(content)
}

// RenderCompact returns a single borderless "Label: value" line.
func (c *MetricCard) RenderCompact() string {
	line := MetricLabelStyle.Render(c.Label+":") + " " + MetricValueStyle.Render(c.Value)
	if c.trend != nil {
		line += " " + TrendStyle(c.trend.isPositive).Render(
			fmt.Sprintf("%s %s", TrendIndicator(c.trend.isPositive), c.trend.change))
	}
	return line
}

// MetricGrid lays cards out left to right, wrapping after columns.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}

	var rows []string
	var currentRow []string
	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = nil
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
