package constants

const (
	// Insight thresholds
	InsightMinEntries       = 3
	InsightMaxResults       = 4
	InsightStreakMin        = 3
	InsightRecentWindowDays = 7
	InsightRecentMinEntries = 3
	InsightTrendMinEntries  = 10
	InsightTrendDelta       = 0.5
	InsightVolatileStdDev   = 1.2
	InsightStableStdDev     = 0.5
	InsightStableMinEntries = 7
	InsightNoteRatioHigh    = 0.5
	InsightNoteRatioLow     = 0.2
	InsightNoteMinEntries   = 5
	InsightLongestStreakMin = 14

	// WeekdayMinSamples is the number of entries a weekday needs before it
	// can be reported as the best or worst day.
	WeekdayMinSamples = 2
)

func init() {
	// Runtime validation: the stable band must sit below the volatile band
	if InsightStableStdDev >= InsightVolatileStdDev {
		panic("InsightStableStdDev must be lower than InsightVolatileStdDev")
	}
}
