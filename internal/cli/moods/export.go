package moods

import (
	"fmt"
	"os"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/export"
)

type ExportCmd struct {
	Output string `short:"o" help:"File to write. Prints to stdout when omitted." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	all := ctx.Entries.Entries()
	data := export.CSV(all)

	if c.Output == "" {
		fmt.Print(data)
		return nil
	}

	if err := os.WriteFile(c.Output, []byte(data), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("✓ Exported %d entries to %s\n", len(all), c.Output)
	return nil
}
