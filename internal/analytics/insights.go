package analytics

import (
	"fmt"
	"time"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/utils"
)

// InsightKind identifies the rule that produced an insight.
type InsightKind string

const (
	InsightStreak        InsightKind = "streak"
	InsightTrendUp       InsightKind = "trend_up"
	InsightTrendDown     InsightKind = "trend_down"
	InsightBestDay       InsightKind = "best_day"
	InsightVolatile      InsightKind = "volatile"
	InsightStable        InsightKind = "stable"
	InsightNotesHigh     InsightKind = "notes_high"
	InsightNotesLow      InsightKind = "notes_low"
	InsightLongestStreak InsightKind = "longest_streak"
)

// Insight is a short observation about the user's history.
type Insight struct {
	Kind  InsightKind `json:"kind"`
	Emoji string      `json:"emoji"`
	Text  string      `json:"text"`
}

// Insights evaluates the insight rules in priority order against the full
// history and returns at most InsightMaxResults of them. Histories shorter
// than InsightMinEntries produce none.
func Insights(entries []models.MoodEntry, now time.Time) []Insight {
	if len(entries) < constants.InsightMinEntries {
		return nil
	}

	var out []Insight
	add := func(kind InsightKind, emoji, format string, args ...any) {
		out = append(out, Insight{Kind: kind, Emoji: emoji, Text: fmt.Sprintf(format, args...)})
	}

	if streak := CurrentStreak(entries, now); streak >= constants.InsightStreakMin {
		add(InsightStreak, "🔥", "You're on a %d-day streak. Keep it going!", streak)
	}

	end := utils.CalendarDay(now)
	start := end.AddDate(0, 0, -(constants.InsightRecentWindowDays - 1))
	recent := filterDates(entries, utils.FormatDate(start), utils.FormatDate(end))
	if len(recent) >= constants.InsightRecentMinEntries && len(entries) >= constants.InsightTrendMinEntries {
		delta := AverageMood(recent) - AverageMood(entries)
		switch {
		case delta > constants.InsightTrendDelta:
			add(InsightTrendUp, "📈", "Your mood this week is above your usual average.")
		case delta < -constants.InsightTrendDelta:
			add(InsightTrendDown, "📉", "Your mood this week is below your usual average.")
		}
	}

	if best, _, ok := BestWorstDays(entries, constants.WeekdayMinSamples); ok {
		add(InsightBestDay, "🌟", "%ss tend to be your best days.", best.Weekday)
	}

	sd := Variability(entries)
	switch {
	case sd > constants.InsightVolatileStdDev:
		add(InsightVolatile, "🎢", "Your mood has been swinging a lot lately.")
	case sd < constants.InsightStableStdDev && len(entries) >= constants.InsightStableMinEntries:
		add(InsightStable, "⚖️", "Your mood has been remarkably steady.")
	}

	ratio := NoteRatio(entries)
	switch {
	case ratio >= constants.InsightNoteRatioHigh:
		add(InsightNotesHigh, "📝", "You add notes to most entries. Great for reflection!")
	case ratio < constants.InsightNoteRatioLow && len(entries) >= constants.InsightNoteMinEntries:
		add(InsightNotesLow, "💭", "Adding a short note can help you spot patterns.")
	}

	if longest := LongestStreak(entries); longest >= constants.InsightLongestStreakMin {
		add(InsightLongestStreak, "🏆", "Your longest streak is %d days.", longest)
	}

	if len(out) > constants.InsightMaxResults {
		out = out[:constants.InsightMaxResults]
	}
	return out
}
