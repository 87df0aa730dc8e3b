package trends

import (
	"errors"
	"fmt"

	"github.com/julianstephens/moodlit/internal/analytics"
	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/entitlement"
)

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	if !ctx.Gate.Allows(entitlement.FeatureMoodInsights) {
		return errors.New("mood insights require Pro")
	}

	insights := analytics.Insights(ctx.Entries.Entries(), ctx.Today())
	if len(insights) == 0 {
		fmt.Printf("Log at least %d moods to unlock insights.\n", constants.InsightMinEntries)
		return nil
	}

	fmt.Println("✨ Insights")
	fmt.Println()
	for _, in := range insights {
		fmt.Printf("  %s %s\n", in.Emoji, in.Text)
	}
	return nil
}
