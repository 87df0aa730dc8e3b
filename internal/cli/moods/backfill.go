package moods

import (
	"errors"
	"fmt"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/entries"
	apperrors "github.com/julianstephens/moodlit/internal/errors"
	"github.com/julianstephens/moodlit/internal/models"
)

type BackfillCmd struct {
	Mood string `arg:"" help:"Mood to record."`
	Date string `required:"" help:"Date to record the mood for (YYYY-MM-DD)."`
	Note string `short:"n" help:"Optional note."`
}

func (c *BackfillCmd) Run(ctx *cli.Context) error {
	mood, err := models.ParseMood(c.Mood)
	if err != nil {
		return err
	}

	entry, err := ctx.Entries.SaveForDate(mood, c.Date, c.Note)
	switch {
	case errors.Is(err, entries.ErrDateTaken):
		return apperrors.WithHint(err, "Use 'moodlit edit <id> <mood>' to change an existing entry.")
	case errors.Is(err, entries.ErrInvalidDate):
		return err
	case err != nil:
		return cli.SaveFailed(err)
	}

	opt := entry.Mood.Option()
	fmt.Printf("%s Recorded %s for %s\n", opt.Emoji, opt.Label, entry.Date)
	return nil
}
