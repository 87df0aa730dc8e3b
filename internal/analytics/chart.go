package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/utils"
)

// ErrFutureOffset is returned for chart offsets that point past the current period.
var ErrFutureOffset = errors.New("chart offset cannot point into the future")

// Ranges lists every supported window in display order.
var Ranges = []constants.TimeRange{constants.RangeWeek, constants.RangeMonth, constants.RangeYear}

// ParseRange validates a user supplied range name.
func ParseRange(s string) (constants.TimeRange, error) {
	r := constants.TimeRange(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Ranges {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown range %q (expected week, month or year)", s)
}

// RequiresPro reports whether viewing r needs the Pro entitlement.
func RequiresPro(r constants.TimeRange) bool {
	return r == constants.RangeYear
}

// RangeDays returns how many trailing days the statistics window of r covers.
func RangeDays(r constants.TimeRange) int {
	switch r {
	case constants.RangeMonth:
		return constants.MonthDays
	case constants.RangeYear:
		return constants.YearDays
	default:
		return constants.WeekDays
	}
}

// WindowEntries returns the entries of the trailing window of r ending today.
func WindowEntries(entries []models.MoodEntry, r constants.TimeRange, now time.Time) []models.MoodEntry {
	end := utils.CalendarDay(now)
	start := end.AddDate(0, 0, -(RangeDays(r) - 1))
	return filterDates(entries, utils.FormatDate(start), utils.FormatDate(end))
}

func filterDates(entries []models.MoodEntry, start, end string) []models.MoodEntry {
	var out []models.MoodEntry
	for _, e := range entries {
		if e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out
}

// ChartPoint is one bucket of a chart series. Value is nil when the bucket
// has no entries.
type ChartPoint struct {
	Label string   `json:"label"`
	Start string   `json:"start"` // first date covered, YYYY-MM-DD
	Value *float64 `json:"value"`
	Count int      `json:"count"`
}

// Series is a chart series together with the period it covers.
type Series struct {
	Range  constants.TimeRange `json:"range"`
	Offset int                 `json:"offset"`
	Title  string              `json:"title"`
	Points []ChartPoint        `json:"points"`
}

type bucket struct {
	sum   int
	count int
}

func (b bucket) point(label, start string) ChartPoint {
	p := ChartPoint{Label: label, Start: start, Count: b.count}
	if b.count > 0 {
		v := float64(b.sum) / float64(b.count)
		p.Value = &v
	}
	return p
}

// ChartSeries builds the series for range r shifted by offset periods back
// from the one containing now. A day or month holding several entries is
// charted at their mean.
func ChartSeries(entries []models.MoodEntry, r constants.TimeRange, offset int, now time.Time) (Series, error) {
	if offset > 0 {
		return Series{}, ErrFutureOffset
	}

	byDay := make(map[string]bucket)
	byMonth := make(map[string]bucket)
	for _, e := range entries {
		b := byDay[e.Date]
		b.sum += e.Value()
		b.count++
		byDay[e.Date] = b

		if len(e.Date) >= 7 {
			m := byMonth[e.Date[:7]]
			m.sum += e.Value()
			m.count++
			byMonth[e.Date[:7]] = m
		}
	}

	today := utils.CalendarDay(now)
	s := Series{Range: r, Offset: offset}

	switch r {
	case constants.RangeWeek:
		end := today.AddDate(0, 0, offset*7)
		start := end.AddDate(0, 0, -6)
		s.Title = fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			key := utils.FormatDate(d)
			s.Points = append(s.Points, byDay[key].point(d.Format("Mon"), key))
		}

	case constants.RangeMonth:
		first := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
		s.Title = first.Format("January 2006")
		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			key := utils.FormatDate(d)
			s.Points = append(s.Points, byDay[key].point(fmt.Sprintf("%d", d.Day()), key))
		}

	case constants.RangeYear:
		last := time.Date(today.Year(), today.Month()+time.Month(offset*12), 1, 0, 0, 0, 0, time.UTC)
		first := last.AddDate(0, -11, 0)
		s.Title = fmt.Sprintf("%s - %s", first.Format("Jan 2006"), last.Format("Jan 2006"))
		for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
			key := m.Format("2006-01")
			s.Points = append(s.Points, byMonth[key].point(m.Format("Jan"), utils.FormatDate(m)))
		}

	default:
		return Series{}, fmt.Errorf("unknown range %q", r)
	}

	return s, nil
}
