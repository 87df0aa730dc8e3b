package moods

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/entitlement"
	"github.com/julianstephens/moodlit/internal/models"
)

type LogCmd struct {
	Mood string `arg:"" optional:"" help:"Mood to log: great, good, okay, bad or terrible. Prompts when omitted."`
	Note string `short:"n" help:"Optional note."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	mood, note, err := c.resolve()
	if err != nil {
		return err
	}

	multi := ctx.Gate.Allows(entitlement.FeatureMultiMood)
	entry, err := ctx.Entries.Save(mood, note, multi)
	if err != nil {
		return cli.SaveFailed(err)
	}

	opt := entry.Mood.Option()
	if multi {
		fmt.Printf("%s Logged %s at %s\n", opt.Emoji, opt.Label, entry.Time)
	} else {
		fmt.Printf("%s Today's mood is %s\n", opt.Emoji, opt.Label)
	}
	return nil
}

func (c *LogCmd) resolve() (models.MoodType, string, error) {
	if c.Mood != "" {
		mood, err := models.ParseMood(c.Mood)
		return mood, c.Note, err
	}

	var mood models.MoodType
	note := c.Note
	options := make([]huh.Option[models.MoodType], len(models.MoodOptions))
	for i, opt := range models.MoodOptions {
		options[i] = huh.NewOption(opt.Emoji+" "+opt.Label, opt.Type)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.MoodType]().
				Title("How are you feeling today?").
				Options(options...).
				Value(&mood),
			huh.NewText().
				Title("Note").
				Description("Optional").
				Value(&note),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return mood, note, nil
}
