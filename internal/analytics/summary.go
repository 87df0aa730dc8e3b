package analytics

import (
	"time"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/models"
)

// Summary bundles the statistics shown for one window. Window figures use
// only the entries inside the window; distribution, variability and
// longest streak cover the whole history.
type Summary struct {
	Range         constants.TimeRange `json:"range"`
	WindowEntries int                 `json:"window_entries"`
	TotalEntries  int                 `json:"total_entries"`
	Average       float64             `json:"average"`
	MostCommon    *models.MoodOption  `json:"most_common,omitempty"`
	CurrentStreak int                 `json:"current_streak"`
	LongestStreak int                 `json:"longest_streak"`
	Variability   float64             `json:"variability"`
	Distribution  []MoodShare         `json:"distribution"`
	BestDay       *WeekdayMean        `json:"best_day,omitempty"`
	WorstDay      *WeekdayMean        `json:"worst_day,omitempty"`
}

// Summarize computes the Summary of range r as of now.
func Summarize(all []models.MoodEntry, r constants.TimeRange, now time.Time) Summary {
	window := WindowEntries(all, r, now)

	s := Summary{
		Range:         r,
		WindowEntries: len(window),
		TotalEntries:  len(all),
		Average:       AverageMood(window),
		CurrentStreak: CurrentStreak(all, now),
		LongestStreak: LongestStreak(all),
		Variability:   Variability(all),
		Distribution:  Distribution(all),
	}
	if m, ok := MostCommonMood(window); ok {
		opt := m.Option()
		s.MostCommon = &opt
	}
	if best, worst, ok := BestWorstDays(all, constants.WeekdayMinSamples); ok {
		s.BestDay = &best
		s.WorstDay = &worst
	}
	return s
}
