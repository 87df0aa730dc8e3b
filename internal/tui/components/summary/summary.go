package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moodlit/internal/analytics"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(16)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// View renders the statistics of s. The longest streak, variability and
// weekday figures are only shown when advanced is set.
func View(s analytics.Summary, advanced bool) string {
	if s.TotalEntries == 0 {
		return lockedStyle.Render("Log your first mood with keys 1-5.")
	}

	var lines []string
	lines = append(lines, headerStyle.Render(fmt.Sprintf("Past %s", s.Range)))
	if s.WindowEntries == 0 {
		lines = append(lines, lockedStyle.Render("No entries in this window."))
	} else {
		lines = append(lines, row("Entries", fmt.Sprintf("%d", s.WindowEntries)))
		lines = append(lines, row("Average", fmt.Sprintf("%.1f / 5", s.Average)))
		if s.MostCommon != nil {
			lines = append(lines, row("Most common", s.MostCommon.Emoji+" "+s.MostCommon.Label))
		}
	}
	lines = append(lines, row("Streak", days(s.CurrentStreak)))

	if advanced {
		lines = append(lines, row("Longest streak", days(s.LongestStreak)))
		lines = append(lines, row("Variability", fmt.Sprintf("%.2f", s.Variability)))
		if s.BestDay != nil && s.WorstDay != nil {
			lines = append(lines, row("Best day", fmt.Sprintf("%s (%.1f)", s.BestDay.Weekday, s.BestDay.Mean)))
			lines = append(lines, row("Worst day", fmt.Sprintf("%s (%.1f)", s.WorstDay.Weekday, s.WorstDay.Mean)))
		}
	} else {
		lines = append(lines, lockedStyle.Render("🔒 Advanced analytics with Pro"))
	}

	lines = append(lines, "", headerStyle.Render(fmt.Sprintf("All time (%d)", s.TotalEntries)))
	for _, share := range s.Distribution {
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(share.Option.Color)).
			Render(strings.Repeat("█", int(share.Percent/10+0.5)))
		lines = append(lines, fmt.Sprintf("%s %-8s %5.1f%% %s", share.Option.Emoji, share.Option.Label, share.Percent, bar))
	}
	return strings.Join(lines, "\n")
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
