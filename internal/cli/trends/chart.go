package trends

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moodlit/internal/analytics"
	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/models"
)

type ChartCmd struct {
	Range  string `short:"r" default:"week" enum:"week,month,year" help:"Period to chart (week, month, year)."`
	Offset int    `short:"o" default:"0" help:"Periods back from the current one (0 or negative)."`
}

func (c *ChartCmd) Run(ctx *cli.Context) error {
	r, err := allowedRange(ctx, c.Range)
	if err != nil {
		return err
	}

	series, err := analytics.ChartSeries(ctx.Entries.Entries(), r, c.Offset, ctx.Today())
	if err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Bold(true).Render(series.Title))
	fmt.Println()
	for _, p := range series.Points {
		fmt.Println(RenderPoint(p))
	}
	return nil
}

// RenderPoint draws one labelled horizontal bar, colored by the mood its
// value rounds to.
func RenderPoint(p analytics.ChartPoint) string {
	label := fmt.Sprintf("%-4s", p.Label)
	if p.Value == nil {
		return label + " " + lipgloss.NewStyle().Faint(true).Render("·")
	}

	opt := models.MoodByValue(*p.Value)
	bar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(opt.Color)).
		Render(strings.Repeat("█", int(*p.Value*4+0.5)))
	return fmt.Sprintf("%s %s %s %.1f", label, bar, opt.Emoji, *p.Value)
}
