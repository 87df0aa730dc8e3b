package system

import (
	"fmt"

	"github.com/julianstephens/moodlit/internal/cli"
)

// RespondCmd handles a tap on a notification action. The tray app invokes
// it with the action identifier, e.g. 'moodlit respond mood_great'.
type RespondCmd struct {
	ActionID string `arg:"" help:"Notification action identifier."`
}

func (c *RespondCmd) Run(ctx *cli.Context) error {
	mood, handled, err := ctx.Responses.Handle(c.ActionID)
	if err != nil {
		return cli.SaveFailed(err)
	}
	if !handled {
		fmt.Printf("Ignored action %q\n", c.ActionID)
		return nil
	}
	opt := mood.Option()
	fmt.Printf("%s Logged %s for today\n", opt.Emoji, opt.Label)
	return nil
}
