package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moodlit/internal/analytics"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/entitlement"
	"github.com/julianstephens/moodlit/internal/tui/components/summary"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateInsights:
		content = m.viewInsights()
	default:
		content = m.viewTrends()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewToday(),
		"",
		content,
		"",
		m.viewStatus(),
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewToday() string {
	badge := ""
	if m.isPro {
		badge = " " + statusStyle.Render("PRO")
	}
	header := titleStyle.Render(constants.AppName) + badge

	var today string
	if m.today == nil {
		today = "How are you feeling today? Press 1 (terrible) to 5 (great)."
	} else {
		opt := m.today.Mood.Option()
		today = fmt.Sprintf("Today: %s %s", opt.Emoji, opt.Label)
		if m.today.HasNote() {
			today += "  " + warningStyle.Render(m.today.Note)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, todayStyle.Render(today))
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, r := range analytics.Ranges {
		title := strings.ToUpper(string(r[:1])) + string(r[1:])
		switch {
		case r == m.timeRange:
			tabs = append(tabs, activeTabStyle.Render(title))
		case analytics.RequiresPro(r) && !m.allows(entitlement.FeatureUnlimitedHistory):
			tabs = append(tabs, lockedTabStyle.Render(title+" 🔒"))
		default:
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewTrends() string {
	series := m.chart.Series()
	title := series.Title
	if m.offset < 0 {
		title += warningStyle.Render("  (→ for later)")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		"",
		titleStyle.Render(title),
		m.chart.View(),
		"",
		summary.View(m.summary, m.allows(entitlement.FeatureAdvancedAnalytics)),
	)
}

func (m Model) viewInsights() string {
	lines := []string{titleStyle.Render("✨ Insights"), ""}
	if len(m.insights) == 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf(
			"Keep logging! Insights appear after %d entries.", constants.InsightMinEntries)))
	}
	for _, in := range m.insights {
		lines = append(lines, in.Emoji+" "+in.Text)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render(saveFailedMessage)
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}
