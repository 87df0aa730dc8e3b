package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/cli/alerts"
	"github.com/julianstephens/moodlit/internal/cli/backups"
	"github.com/julianstephens/moodlit/internal/cli/moods"
	"github.com/julianstephens/moodlit/internal/cli/settings"
	"github.com/julianstephens/moodlit/internal/cli/system"
	"github.com/julianstephens/moodlit/internal/cli/trends"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/errors"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path, .json file, PostgreSQL connection string, or 'postgres' to use the connection string from the environment or OS keyring. Credentials must NOT be embedded in the connection string." type:"string" default:"${default_config}" env:"MOODLIT_CONFIG"`
	Timezone string `help:"IANA timezone that decides which calendar day an entry belongs to." env:"MOODLIT_TIMEZONE"`
	Debug    bool   `help:"Log debug output to stderr." env:"MOODLIT_DEBUG"`

	Init    system.InitCmd    `cmd:"" help:"Initialize moodlit storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Log      moods.LogCmd      `cmd:"" help:"Log how you feel today."`
	Backfill moods.BackfillCmd `cmd:"" help:"Log a mood for a past date."`
	Edit     moods.EditCmd     `cmd:"" help:"Change the mood or note of an entry."`
	Delete   moods.DeleteCmd   `cmd:"" help:"Delete an entry."`
	Today    moods.TodayCmd    `cmd:"" help:"Show today's mood."`
	Entries  moods.EntriesCmd  `cmd:"" help:"List recorded entries."`
	Export   moods.ExportCmd   `cmd:"" help:"Export entries as CSV."`

	Stats    trends.StatsCmd    `cmd:"" help:"Show mood statistics for a range."`
	Chart    trends.ChartCmd    `cmd:"" help:"Show the mood chart for a range."`
	Insights trends.InsightsCmd `cmd:"" help:"Show personalized mood insights (Pro)."`

	Reminders struct {
		List       alerts.ReminderListCmd       `cmd:"" help:"Show reminder settings." default:"1"`
		On         alerts.ReminderOnCmd         `cmd:"" help:"Turn the daily reminder on."`
		Off        alerts.ReminderOffCmd        `cmd:"" help:"Turn all reminders off."`
		Time       alerts.ReminderTimeCmd       `cmd:"" help:"Set the daily reminder time."`
		Add        alerts.ReminderAddCmd        `cmd:"" help:"Add an extra reminder."`
		Remove     alerts.ReminderRemoveCmd     `cmd:"" help:"Remove an extra reminder."`
		Toggle     alerts.ReminderToggleCmd     `cmd:"" help:"Enable or disable an extra reminder."`
		Set        alerts.ReminderSetCmd        `cmd:"" help:"Change the time of an extra reminder."`
		Sync       alerts.ReminderSyncCmd       `cmd:"" help:"Re-register all reminders."`
		Permission alerts.ReminderPermissionCmd `cmd:"" help:"Show or change notification access."`
	} `cmd:"" help:"Manage daily reminders."`

	Pro struct {
		Status settings.ProStatusCmd `cmd:"" help:"Show Pro status and features." default:"1"`
		On     settings.ProOnCmd     `cmd:"" help:"Enable Pro features."`
		Off    settings.ProOffCmd    `cmd:"" help:"Disable Pro features."`
		Toggle settings.ProToggleCmd `cmd:"" help:"Toggle Pro features."`
	} `cmd:"" help:"Manage Pro features."`

	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`

	Notify  system.NotifyCmd  `cmd:"" hidden:"" help:"Deliver due reminders (run from cron)."`
	Respond system.RespondCmd `cmd:"" hidden:"" help:"Handle a notification action (used by the tray app)."`
}

func main() {
	configDir, err := cli.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		errors.Fatal(err)
	}
	// Variables already set in the environment take precedence.
	_ = godotenv.Load(filepath.Join(configDir, constants.EnvFileName))

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily mood tracker with trends, insights and reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	command := ctx.Command()

	// Keyring commands manage the credentials a store would need, so they
	// run without one.
	if strings.HasPrefix(command, "keyring") {
		errors.Fatal(ctx.Run(&cli.Context{}))
		return
	}

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		errors.Fatalf("invalid timezone %q: %v", CLI.Timezone, err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(store, loc, cli.PromptPermission)

	// Init and migrate manage their own loading
	if command != "init" && command != "migrate" {
		if err := appCtx.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
