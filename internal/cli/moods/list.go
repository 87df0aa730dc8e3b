package moods

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/entitlement"
	"github.com/julianstephens/moodlit/internal/models"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	entry, ok := ctx.Entries.TodaysEntry()
	if !ok {
		fmt.Println("No mood logged today. Run 'moodlit log' to add one.")
		return nil
	}

	opt := entry.Mood.Option()
	fmt.Printf("%s Today you're feeling %s\n", opt.Emoji, opt.Label)
	if entry.HasNote() {
		fmt.Printf("   %s\n", entry.Note)
	}

	if today := ctx.Entries.TodaysEntries(); len(today) > 1 {
		fmt.Printf("\nAll entries today (%d):\n", len(today))
		for _, e := range today {
			fmt.Printf("  %s\n", cli.FormatEntry(e))
		}
	}
	return nil
}

type EntriesCmd struct {
	All bool `help:"Show the full history (Pro)."`
}

func (c *EntriesCmd) Run(ctx *cli.Context) error {
	var list []models.MoodEntry
	if c.All {
		if !ctx.Gate.Allows(entitlement.FeatureViewAllEntries) {
			return fmt.Errorf("viewing all entries requires Pro; showing the last %d days is free", constants.FreeHistoryDays)
		}
		list = ctx.Entries.Entries()
	} else {
		list = ctx.Entries.EntriesForPastDays(constants.FreeHistoryDays)
	}

	if len(list) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	// Newest first
	slices.SortStableFunc(list, func(a, b models.MoodEntry) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return strings.Compare(b.Time, a.Time)
	})
	for _, e := range list {
		fmt.Println(cli.FormatEntry(e))
	}
	fmt.Printf("\n%d entries\n", len(list))
	return nil
}

func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}
