package moods

import (
	"errors"
	"fmt"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/entries"
	"github.com/julianstephens/moodlit/internal/models"
)

type EditCmd struct {
	ID   string  `arg:"" help:"ID of the entry to edit."`
	Mood string  `arg:"" help:"New mood."`
	Note *string `short:"n" help:"Replace the note. Pass an empty string to clear it."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	mood, err := models.ParseMood(c.Mood)
	if err != nil {
		return err
	}

	current, err := ctx.Entries.Get(c.ID)
	if err != nil {
		return err
	}
	note := current.Note
	if c.Note != nil {
		note = *c.Note
	}

	entry, err := ctx.Entries.Update(c.ID, mood, note)
	if err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			return err
		}
		return cli.SaveFailed(err)
	}

	fmt.Printf("✓ Updated: %s\n", cli.FormatEntry(entry))
	return nil
}

type DeleteCmd struct {
	ID  string `arg:"" help:"ID of the entry to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Entries.Get(c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := confirm(fmt.Sprintf("Delete %s?", cli.FormatEntry(entry)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Entries.Delete(c.ID); err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			return err
		}
		return cli.SaveFailed(err)
	}

	fmt.Printf("✓ Deleted entry %s\n", c.ID)
	return nil
}
