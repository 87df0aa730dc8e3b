// Package analytics derives statistics, chart series and insights from a
// list of mood entries. Every function is pure.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/utils"
)

// AverageMood returns the mean weight of entries, or 0 when empty.
func AverageMood(entries []models.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Value()
	}
	return float64(sum) / float64(len(entries))
}

// MostCommonMood returns the mode of entries. Ties go to the mood that was
// encountered first.
func MostCommonMood(entries []models.MoodEntry) (models.MoodType, bool) {
	if len(entries) == 0 {
		return "", false
	}
	counts := make(map[models.MoodType]int)
	var order []models.MoodType
	for _, e := range entries {
		if counts[e.Mood] == 0 {
			order = append(order, e.Mood)
		}
		counts[e.Mood]++
	}

	best := order[0]
	for _, m := range order[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}
	return best, true
}

// CurrentStreak counts consecutive days with at least one entry, walking
// back from today. Entries dated after today are ignored.
func CurrentStreak(entries []models.MoodEntry, now time.Time) int {
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		days[e.Date] = true
	}

	day := utils.CalendarDay(now)
	streak := 0
	for days[utils.FormatDate(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak returns the longest run of entries whose dates advance by
// exactly one day. A repeated date ends the run like any other gap.
func LongestStreak(entries []models.MoodEntry) int {
	var dates []time.Time
	for _, e := range entries {
		d, err := utils.ParseDate(e.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if utils.DaysBetween(dates[i-1], dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// MoodShare is one row of a mood distribution.
type MoodShare struct {
	Option  models.MoodOption
	Count   int
	Percent float64
}

// Distribution counts every mood category over entries, best mood first.
// Categories with no entries are included with zero count.
func Distribution(entries []models.MoodEntry) []MoodShare {
	counts := make(map[models.MoodType]int)
	for _, e := range entries {
		counts[e.Mood]++
	}

	out := make([]MoodShare, 0, len(models.MoodOptions))
	for _, opt := range models.MoodOptions {
		share := MoodShare{Option: opt, Count: counts[opt.Type]}
		if len(entries) > 0 {
			share.Percent = float64(share.Count) * 100 / float64(len(entries))
		}
		out = append(out, share)
	}
	return out
}

// WeekdayMean is the average weight of the entries falling on one weekday.
type WeekdayMean struct {
	Weekday time.Weekday
	Mean    float64
	Samples int
}

// BestWorstDays groups entries by the weekday of their calendar date and
// returns the weekdays with the highest and lowest mean. Only weekdays with
// at least minSamples entries are eligible; ties go to the earlier weekday
// (Sunday first). ok is false when no weekday is eligible.
func BestWorstDays(entries []models.MoodEntry, minSamples int) (best, worst WeekdayMean, ok bool) {
	var sums [7]int
	var counts [7]int
	for _, e := range entries {
		d, err := utils.ParseDate(e.Date)
		if err != nil {
			continue
		}
		wd := d.Weekday()
		sums[wd] += e.Value()
		counts[wd]++
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if counts[wd] < minSamples || counts[wd] == 0 {
			continue
		}
		m := WeekdayMean{
			Weekday: wd,
			Mean:    float64(sums[wd]) / float64(counts[wd]),
			Samples: counts[wd],
		}
		if !ok {
			best, worst, ok = m, m, true
			continue
		}
		if m.Mean > best.Mean {
			best = m
		}
		if m.Mean < worst.Mean {
			worst = m
		}
	}
	return best, worst, ok
}

// Variability returns the population standard deviation of mood weight.
func Variability(entries []models.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	mean := AverageMood(entries)
	var sq float64
	for _, e := range entries {
		d := float64(e.Value()) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(entries)))
}

// NoteRatio returns the share of entries that carry a note.
func NoteRatio(entries []models.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.HasNote() {
			n++
		}
	}
	return float64(n) / float64(len(entries))
}
