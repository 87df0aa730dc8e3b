package settings

import (
	"fmt"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Reminders    *bool   `help:"Turn the daily reminder on or off."`
	ReminderTime *string `help:"Time of the daily reminder (HH:MM)."`
	Pro          *bool   `help:"Enable or disable Pro features."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if c.List {
		return c.list(ctx)
	}

	updated := false
	if c.ReminderTime != nil {
		hour, minute, err := utils.ParseClock(*c.ReminderTime)
		if err != nil {
			return err
		}
		if err := ctx.Reminders.UpdateMainTime(hour, minute); err != nil {
			return err
		}
		updated = true
	}
	if c.Reminders != nil {
		if err := ctx.Reminders.ToggleMain(*c.Reminders); err != nil {
			return cli.ReminderError(err)
		}
		updated = true
	}
	if c.Pro != nil {
		if err := ctx.Gate.Set(*c.Pro); err != nil {
			return fmt.Errorf("failed to save Pro status: %w", err)
		}
		updated = true
	}

	if updated {
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}

func (c *SettingsCmd) list(ctx *cli.Context) error {
	permission, err := ctx.Notifier.Permission()
	if err != nil {
		return fmt.Errorf("failed to read notification permission: %w", err)
	}
	if permission == "" {
		permission = "not asked yet"
	}
	reminder := ctx.Reminders.Settings()

	fmt.Println("Current Settings:")
	fmt.Printf("  Storage:               %s\n", ctx.Store.GetConfigPath())
	fmt.Printf("  Timezone:              %s\n", ctx.Location)
	fmt.Printf("  Pro:                   %v\n", ctx.Gate.IsPro())
	fmt.Println("\nReminder Settings:")
	fmt.Printf("  Daily Reminder:        %v\n", reminder.Enabled)
	fmt.Printf("  Reminder Time:         %s\n", models.FormatClock(reminder.Hour, reminder.Minute))
	fmt.Printf("  Extra Reminders:       %d\n", len(ctx.Reminders.Extras()))
	fmt.Printf("  Notification Access:   %s\n", permission)
	return nil
}
