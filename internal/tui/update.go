package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/entitlement"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/models"
)

const saveFailedMessage = "Your mood could not be saved. Please try again."

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.chart.SetSize(msg.Width - docStyle.GetHorizontalFrameSize())
		return m, nil

	case dataChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.LogMood):
		m.logMood(msg.String())

	case key.Matches(msg, m.keys.Tab):
		m.cycleRange(1)

	case key.Matches(msg, m.keys.ShiftTab):
		m.cycleRange(-1)

	case key.Matches(msg, m.keys.Left):
		m.offset--
		m.refresh()

	case key.Matches(msg, m.keys.Right):
		// The current period is the latest one.
		if m.offset < 0 {
			m.offset++
			m.refresh()
		}

	case key.Matches(msg, m.keys.Insights):
		switch {
		case m.state == constants.StateInsights:
			m.state = constants.StateTrends
		case m.allows(entitlement.FeatureMoodInsights):
			m.state = constants.StateInsights
		default:
			m.status = "🔒 Mood insights are a Pro feature."
		}
	}
	return m, nil
}

// logMood records the mood whose 1..5 value matches the pressed digit.
func (m *Model) logMood(digit string) {
	value := int(digit[0] - '0')
	idx := slices.IndexFunc(models.MoodOptions, func(o models.MoodOption) bool { return o.Value == value })
	if idx < 0 {
		return
	}
	opt := models.MoodOptions[idx]

	if _, err := m.entries.Save(opt.Type, "", m.allows(entitlement.FeatureMultiMood)); err != nil {
		logger.Error("Failed to save mood", "mood", opt.Type, "error", err)
		m.err = err
		m.status = ""
		return
	}
	m.err = nil
	m.status = opt.Emoji + " Logged " + opt.Label
	m.refresh()
}

func (m *Model) cycleRange(step int) {
	ranges := m.availableRanges()
	idx := slices.Index(ranges, m.timeRange)
	if idx < 0 {
		idx = 0
	}
	idx = (idx + step + len(ranges)) % len(ranges)
	m.timeRange = ranges[idx]
	m.offset = 0
	m.refresh()
}
