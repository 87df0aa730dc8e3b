package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/models"
)

// NotifyCmd delivers due reminders. It is meant to run every minute from
// cron or a systemd timer.
type NotifyCmd struct {
	DryRun bool `help:"Print due notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	now := time.Now()

	if c.DryRun {
		due, err := ctx.Notifier.Due(now)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Println("No reminders due.")
		}
		for _, t := range due {
			fmt.Printf("[DryRun] %s %s: %s\n", models.FormatClock(t.Hour, t.Minute), t.Content.Title, t.Content.Body)
		}
		return nil
	}

	sent, err := ctx.Notifier.FireDue(now)
	if err != nil {
		return err
	}
	if sent > 0 {
		fmt.Printf("Sent %d reminder(s).\n", sent)
	}
	return nil
}
