package alerts

import (
	"fmt"
	"strings"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/utils"
)

type ReminderListCmd struct{}

func (c *ReminderListCmd) Run(ctx *cli.Context) error {
	settings := ctx.Reminders.Settings()
	status := "off"
	if settings.Enabled {
		status = "on"
	}
	fmt.Printf("Daily reminder: %s at %s\n", status, models.FormatClock12(settings.Hour, settings.Minute))

	extras := ctx.Reminders.Extras()
	if len(extras) == 0 {
		fmt.Println("\nNo extra reminders.")
		return nil
	}

	active := make(map[string]bool)
	for _, r := range ctx.Reminders.ActiveExtras() {
		active[r.ID] = true
	}

	fmt.Printf("\n%-36s %-8s %-8s %-8s\n", "ID", "Time", "Enabled", "Active")
	fmt.Println(strings.Repeat("-", 64))
	for _, r := range extras {
		fmt.Printf("%-36s %-8s %-8s %-8s\n", r.ID, models.FormatClock(r.Hour, r.Minute), yesNo(r.Enabled), yesNo(active[r.ID] && settings.Enabled))
	}
	if !ctx.Gate.IsPro() && len(extras) > constants.FreeExtraReminders {
		fmt.Printf("\nOnly %d extra reminder is active without Pro.\n", constants.FreeExtraReminders)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

type ReminderOnCmd struct{}

func (c *ReminderOnCmd) Run(ctx *cli.Context) error {
	if err := ctx.Reminders.ToggleMain(true); err != nil {
		return cli.ReminderError(err)
	}
	s := ctx.Reminders.Settings()
	fmt.Printf("✓ Daily reminder on at %s\n", models.FormatClock12(s.Hour, s.Minute))
	return nil
}

type ReminderOffCmd struct{}

func (c *ReminderOffCmd) Run(ctx *cli.Context) error {
	if err := ctx.Reminders.ToggleMain(false); err != nil {
		return err
	}
	fmt.Println("✓ Reminders off")
	return nil
}

type ReminderTimeCmd struct {
	Time string `arg:"" help:"Time of the daily reminder (HH:MM)."`
}

func (c *ReminderTimeCmd) Run(ctx *cli.Context) error {
	hour, minute, err := utils.ParseClock(c.Time)
	if err != nil {
		return err
	}
	if err := ctx.Reminders.UpdateMainTime(hour, minute); err != nil {
		return err
	}
	fmt.Printf("✓ Daily reminder set to %s\n", models.FormatClock12(hour, minute))
	return nil
}

type ReminderAddCmd struct {
	Time string `arg:"" help:"Time of the extra reminder (HH:MM)."`
}

func (c *ReminderAddCmd) Run(ctx *cli.Context) error {
	hour, minute, err := utils.ParseClock(c.Time)
	if err != nil {
		return err
	}
	r, err := ctx.Reminders.AddExtra(hour, minute)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Extra reminder added at %s (%s)\n", models.FormatClock12(r.Hour, r.Minute), r.ID)
	if !ctx.Reminders.Settings().Enabled {
		fmt.Println("  The daily reminder is off; turn it on with 'moodlit reminders on'.")
	}
	return nil
}

type ReminderRemoveCmd struct {
	ID string `arg:"" help:"ID of the extra reminder."`
}

func (c *ReminderRemoveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Reminders.RemoveExtra(c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Removed extra reminder %s\n", c.ID)
	return nil
}

type ReminderToggleCmd struct {
	ID string `arg:"" help:"ID of the extra reminder."`
}

func (c *ReminderToggleCmd) Run(ctx *cli.Context) error {
	enabled, err := ctx.Reminders.ToggleExtra(c.ID)
	if err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("✓ Extra reminder %s %s\n", c.ID, state)
	return nil
}

type ReminderSetCmd struct {
	ID   string `arg:"" help:"ID of the extra reminder."`
	Time string `arg:"" help:"New time (HH:MM)."`
}

func (c *ReminderSetCmd) Run(ctx *cli.Context) error {
	hour, minute, err := utils.ParseClock(c.Time)
	if err != nil {
		return err
	}
	if err := ctx.Reminders.UpdateExtraTime(c.ID, hour, minute); err != nil {
		return err
	}
	fmt.Printf("✓ Extra reminder %s moved to %s\n", c.ID, models.FormatClock12(hour, minute))
	return nil
}

type ReminderSyncCmd struct{}

func (c *ReminderSyncCmd) Run(ctx *cli.Context) error {
	if err := ctx.Reminders.Reschedule(); err != nil {
		return err
	}
	triggers, err := ctx.Notifier.Scheduled()
	if err != nil {
		return err
	}
	fmt.Printf("✓ %d reminder(s) scheduled\n", len(triggers))
	return nil
}

type ReminderPermissionCmd struct {
	Action string `arg:"" optional:"" default:"status" enum:"allow,deny,status" help:"allow, deny or status."`
}

func (c *ReminderPermissionCmd) Run(ctx *cli.Context) error {
	switch c.Action {
	case "allow", "deny":
		allow := c.Action == "allow"
		if err := ctx.Notifier.SetPermission(allow); err != nil {
			return err
		}
		if !allow && ctx.Reminders.Settings().Enabled {
			// Denying while reminders are on behaves like the OS revoking access
			if err := ctx.Reminders.ToggleMain(false); err != nil {
				return err
			}
		}
		if allow {
			fmt.Println("✓ Notifications allowed")
		} else {
			fmt.Println("✓ Notifications denied")
		}
		return nil
	}

	decision, err := ctx.Notifier.Permission()
	if err != nil {
		return err
	}
	if decision == "" {
		decision = "not asked yet"
	}
	fmt.Printf("Notification permission: %s\n", decision)
	return nil
}
