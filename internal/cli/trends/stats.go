package trends

import (
	"fmt"
	"strings"

	"github.com/julianstephens/moodlit/internal/analytics"
	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/entitlement"
)

type StatsCmd struct {
	Range string `short:"r" default:"week" enum:"week,month,year" help:"Window to summarize (week, month, year)."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	r, err := allowedRange(ctx, c.Range)
	if err != nil {
		return err
	}

	s := analytics.Summarize(ctx.Entries.Entries(), r, ctx.Today())
	if s.TotalEntries == 0 {
		fmt.Println("No moods logged yet. Run 'moodlit log' to add one.")
		return nil
	}

	fmt.Printf("Past %s\n\n", r)
	if s.WindowEntries == 0 {
		fmt.Println("  No entries in this window.")
	} else {
		fmt.Printf("  Entries:         %d\n", s.WindowEntries)
		fmt.Printf("  Average mood:    %.1f / 5\n", s.Average)
		if s.MostCommon != nil {
			fmt.Printf("  Most common:     %s %s\n", s.MostCommon.Emoji, s.MostCommon.Label)
		}
	}
	fmt.Printf("  Current streak:  %d days\n", s.CurrentStreak)

	if ctx.Gate.Allows(entitlement.FeatureAdvancedAnalytics) {
		fmt.Printf("  Longest streak:  %d days\n", s.LongestStreak)
		fmt.Printf("  Variability:     %.2f\n", s.Variability)
		if s.BestDay != nil {
			fmt.Printf("  Best day:        %s (%.1f)\n", s.BestDay.Weekday, s.BestDay.Mean)
			fmt.Printf("  Worst day:       %s (%.1f)\n", s.WorstDay.Weekday, s.WorstDay.Mean)
		}
	}

	fmt.Printf("\nAll time (%d entries)\n\n", s.TotalEntries)
	for _, share := range s.Distribution {
		bar := strings.Repeat("█", int(share.Percent/5+0.5))
		fmt.Printf("  %s %-8s %5.1f%% %s\n", share.Option.Emoji, share.Option.Label, share.Percent, bar)
	}
	return nil
}

func allowedRange(ctx *cli.Context, s string) (constants.TimeRange, error) {
	r, err := analytics.ParseRange(s)
	if err != nil {
		return "", err
	}
	if analytics.RequiresPro(r) && !ctx.Gate.Allows(entitlement.FeatureUnlimitedHistory) {
		return "", fmt.Errorf("the %s view requires Pro", r)
	}
	return r, nil
}
