package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DataSeries is one plotted line.
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// LineChart plots series in a rune grid with a labeled Y axis. Points are
// connected with Bresenham lines; colors appear in the legend.
type LineChart struct {
	Title  string
	Series []DataSeries
	Labels []string
	Width  int
	Height int
}

// NewLineChart creates a chart with default dimensions.
func NewLineChart(title string) *LineChart {
	return &LineChart{Title: title, Width: 64, Height: 14}
}

// AddSeries appends one line to the chart.
func (c *LineChart) AddSeries(name string, points []float64, color lipgloss.Color) *LineChart {
	c.Series = append(c.Series, DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithLabels sets X-axis labels, one per data point.
func (c *LineChart) WithLabels(labels []string) *LineChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions.
func (c *LineChart) WithSize(width, height int) *LineChart {
	c.Width = width
	c.Height = height
	return c
}

const yAxisWidth = 10

// Render returns the drawn chart.
func (c *LineChart) Render() string {
	if len(c.Series) == 0 {
		return MutedTextStyle.Render("No data to display")
	}

	var out strings.Builder

	if c.Title != "" {
		out.WriteString(TableHeaderStyle.Render(c.Title))
		out.WriteString("\n\n")
	}

	minVal, maxVal := c.valueRange()
	out.WriteString(c.renderGrid(minVal, maxVal))

	if len(c.Labels) > 0 {
		out.WriteString(c.renderXAxisLabels())
	}
	if len(c.Series) > 1 {
		out.WriteString("\n")
		out.WriteString(c.renderLegend())
	}

	return out.String()
}

// valueRange finds the global min and max with 10% padding. A flat range is
// widened so the scale math never divides by zero.
func (c *LineChart) valueRange() (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, series := range c.Series {
		for _, point := range series.Points {
			minVal = math.Min(minVal, point)
			maxVal = math.Max(maxVal, point)
		}
	}
	if minVal > maxVal {
		return 0, 1
	}

	padding := (maxVal - minVal) * 0.1
	if padding == 0 {
		padding = math.Max(1, math.Abs(maxVal)*0.1)
	}
	return minVal - padding, maxVal + padding
}

func (c *LineChart) renderGrid(minVal, maxVal float64) string {
	chartWidth := c.Width - yAxisWidth
	if chartWidth < 10 {
		chartWidth = 10
	}

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = make([]rune, chartWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for seriesIdx, series := range c.Series {
		pointChar := seriesChar(seriesIdx)
		prevX, prevY := -1, -1
		for i, point := range series.Points {
			x := 0
			if len(series.Points) > 1 {
				x = i * (chartWidth - 1) / (len(series.Points) - 1)
			}
			y := c.Height - 1 - int((point-minVal)/(maxVal-minVal)*float64(c.Height-1))

			if x >= 0 && x < chartWidth && y >= 0 && y < c.Height {
				grid[y][x] = pointChar
			}
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y, pointChar)
			}
			prevX, prevY = x, y
		}
	}

	var out strings.Builder
	valueRange := maxVal - minVal
	axisStyle := MutedTextStyle.Width(yAxisWidth).Align(lipgloss.Right)
	for i, row := range grid {
		yValue := maxVal - float64(i)/float64(c.Height-1)*valueRange
		out.WriteString(axisStyle.Render(formatChartValue(yValue)))
		out.WriteString(" │ ")
		out.WriteString(string(row))
		out.WriteString("\n")
	}

	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", chartWidth))
	out.WriteString("\n")
	return out.String()
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

// drawLine connects two grid points with Bresenham's algorithm, never
// overwriting a plotted point.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == ' ' {
			grid[y][x] = char
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXAxisLabels prints the first and last label under the axis ends.
func (c *LineChart) renderXAxisLabels() string {
	chartWidth := c.Width - yAxisWidth
	if chartWidth < 10 {
		chartWidth = 10
	}

	first := c.Labels[0]
	last := c.Labels[len(c.Labels)-1]
	gap := chartWidth - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}

	return strings.Repeat(" ", yAxisWidth+3) +
		MutedTextStyle.Render(first+strings.Repeat(" ", gap)+last) + "\n"
}

func (c *LineChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, series := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(series.Color).Render(string(seriesChar(i)))
		items = append(items, fmt.Sprintf("%s %s", symbol, series.Name))
	}
	return MutedTextStyle.Render("Legend: ") + strings.Join(items, "  ")
}

// formatChartValue renders a Y-axis dollar value in short form.
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1000000:
		return fmt.Sprintf("$%.1fM", value/1000000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("$%.0fK", value/1000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
