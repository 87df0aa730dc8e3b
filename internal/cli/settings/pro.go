package settings

import (
	"fmt"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/entitlement"
)

type ProStatusCmd struct{}

func (c *ProStatusCmd) Run(ctx *cli.Context) error {
	if ctx.Gate.IsPro() {
		fmt.Println("✓ Pro is active")
	} else {
		fmt.Println("Pro is not active. Unlock with 'moodlit pro on':")
	}
	fmt.Println()
	for _, f := range entitlement.Features {
		fmt.Printf("  %s %-22s %s\n", f.Emoji, f.Title, f.Description)
	}
	return nil
}

type ProOnCmd struct{}

func (c *ProOnCmd) Run(ctx *cli.Context) error {
	return setPro(ctx, true)
}

type ProOffCmd struct{}

func (c *ProOffCmd) Run(ctx *cli.Context) error {
	return setPro(ctx, false)
}

type ProToggleCmd struct{}

func (c *ProToggleCmd) Run(ctx *cli.Context) error {
	isPro, err := ctx.Gate.Toggle()
	if err != nil {
		return fmt.Errorf("failed to save Pro status: %w", err)
	}
	return afterProChange(ctx, isPro)
}

func setPro(ctx *cli.Context, v bool) error {
	if err := ctx.Gate.Set(v); err != nil {
		return fmt.Errorf("failed to save Pro status: %w", err)
	}
	return afterProChange(ctx, v)
}

// afterProChange re-registers reminders, since the number of active extras
// depends on Pro.
func afterProChange(ctx *cli.Context, isPro bool) error {
	if ctx.Reminders.Settings().Enabled {
		if err := ctx.Reminders.Reschedule(); err != nil {
			return err
		}
	}
	if isPro {
		fmt.Println("✓ Pro enabled")
	} else {
		fmt.Println("✓ Pro disabled")
	}
	return nil
}
