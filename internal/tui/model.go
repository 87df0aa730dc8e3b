package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/moodlit/internal/analytics"
	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/entitlement"
	"github.com/julianstephens/moodlit/internal/entries"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/tui/components/chart"
)

// dataChangedMsg is sent when the entry store or the Pro flag changed.
// The model re-reads everything it shows.
type dataChangedMsg struct{}

type Model struct {
	entries *entries.Store
	gate    *entitlement.Gate
	loc     *time.Location
	now     func() time.Time

	changes     chan struct{}
	unsubscribe []func()

	state constants.SessionState
	keys  KeyMap
	help  help.Model
	chart chart.Model

	timeRange constants.TimeRange
	offset    int

	all      []models.MoodEntry
	today    *models.MoodEntry
	isPro    bool
	summary  analytics.Summary
	insights []analytics.Insight

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(ctx *cli.Context) Model {
	m := Model{
		entries:   ctx.Entries,
		gate:      ctx.Gate,
		loc:       ctx.Location,
		now:       time.Now,
		changes:   make(chan struct{}, 1),
		state:     constants.StateTrends,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		chart:     chart.New(0),
		timeRange: constants.RangeWeek,
	}

	changes := m.changes
	m.unsubscribe = []func(){
		ctx.Entries.Subscribe(func([]models.MoodEntry) { signal(changes) }),
		ctx.Gate.Subscribe(func(bool) { signal(changes) }),
	}

	m.refresh()
	return m
}

// signal records a pending change without blocking the notifier. A
// pending signal already covers any later change.
func signal(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return dataChangedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m Model) close() {
	for _, fn := range m.unsubscribe {
		fn()
	}
}

func (m Model) currentTime() time.Time {
	return m.now().In(m.loc)
}

func (m Model) allows(feature string) bool {
	return m.gate.Allows(feature)
}

// refresh recomputes everything shown from the stores.
func (m *Model) refresh() {
	m.all = m.entries.Entries()
	m.isPro = m.gate.IsPro()
	if e, ok := m.entries.TodaysEntry(); ok {
		m.today = &e
	} else {
		m.today = nil
	}

	if analytics.RequiresPro(m.timeRange) && !m.allows(entitlement.FeatureUnlimitedHistory) {
		m.timeRange = constants.RangeWeek
		m.offset = 0
	}
	if m.state == constants.StateInsights && !m.allows(entitlement.FeatureMoodInsights) {
		m.state = constants.StateTrends
	}

	now := m.currentTime()
	series, err := analytics.ChartSeries(m.all, m.timeRange, m.offset, now)
	if err != nil {
		logger.Warn("Failed to build chart series", "range", m.timeRange, "offset", m.offset, "error", err)
		m.offset = 0
		series, _ = analytics.ChartSeries(m.all, m.timeRange, 0, now)
	}
	m.chart.SetSeries(series)
	m.summary = analytics.Summarize(m.all, m.timeRange, now)

	m.insights = nil
	if m.allows(entitlement.FeatureMoodInsights) {
		m.insights = analytics.Insights(m.all, now)
	}
}

// availableRanges lists the ranges the user can switch to.
func (m Model) availableRanges() []constants.TimeRange {
	var out []constants.TimeRange
	for _, r := range analytics.Ranges {
		if analytics.RequiresPro(r) && !m.allows(entitlement.FeatureUnlimitedHistory) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.LogMood, m.keys.Tab, m.keys.Left, m.keys.Right, m.keys.Insights, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.LogMood},
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Left, m.keys.Right},
		{m.keys.Insights, m.keys.Help, m.keys.Quit},
	}
}
