package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moodlit/internal/analytics"
	"github.com/julianstephens/moodlit/internal/models"
)

// Rows is the chart height; every mood step takes two rows.
const Rows = 10

const axisWidth = 4 // "5 │ "

var (
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type Model struct {
	series analytics.Series
	width  int
}

func New(width int) Model {
	return Model{width: width}
}

func (m *Model) SetSize(width int) {
	m.width = width
}

func (m *Model) SetSeries(s analytics.Series) {
	m.series = s
}

func (m Model) Series() analytics.Series {
	return m.series
}

// BarHeight converts a mean mood value into a bar height in rows.
func BarHeight(v float64) int {
	h := int(v*2 + 0.5)
	if h < 0 {
		return 0
	}
	if h > Rows {
		return Rows
	}
	return h
}

func (m Model) columnWidth() int {
	n := len(m.series.Points)
	if n == 0 {
		return 0
	}
	if m.width <= axisWidth {
		if n > 20 {
			return 2
		}
		return 5
	}
	w := (m.width - axisWidth) / n
	if w < 2 {
		w = 2
	}
	if w > 6 {
		w = 6
	}
	return w
}

func (m Model) View() string {
	points := m.series.Points
	hasData := false
	for _, p := range points {
		if p.Value != nil {
			hasData = true
			break
		}
	}
	if !hasData {
		return emptyStyle.Render("No moods logged in this period.")
	}

	colWidth := m.columnWidth()
	lines := make([]string, 0, Rows+2)
	for row := Rows; row >= 1; row-- {
		axis := "  │ "
		if row%2 == 0 {
			axis = fmt.Sprintf("%d │ ", row/2)
		}

		var b strings.Builder
		b.WriteString(axisStyle.Render(axis))
		for _, p := range points {
			if p.Value == nil || BarHeight(*p.Value) < row {
				b.WriteString(strings.Repeat(" ", colWidth))
				continue
			}
			opt := models.MoodByValue(*p.Value)
			bar := lipgloss.NewStyle().Foreground(lipgloss.Color(opt.Color))
			b.WriteString(bar.Render(strings.Repeat("█", colWidth-1)))
			b.WriteString(" ")
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, axisStyle.Render("  └"+strings.Repeat("─", colWidth*len(points)+1)))
	lines = append(lines, strings.Repeat(" ", axisWidth)+labelStyle.Render(labelLine(points, colWidth)))
	return strings.Join(lines, "\n")
}

// labelLine places each label under its column, skipping labels that
// would overlap the previous one.
func labelLine(points []analytics.ChartPoint, colWidth int) string {
	line := []rune(strings.Repeat(" ", colWidth*len(points)))
	next := 0
	for i, p := range points {
		start := i * colWidth
		label := []rune(p.Label)
		if start < next || start+len(label) > len(line) {
			continue
		}
		copy(line[start:], label)
		next = start + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}
