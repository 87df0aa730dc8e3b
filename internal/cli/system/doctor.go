package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/moodlit/internal/backup"
	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/keyring"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/storage"
	"github.com/julianstephens/moodlit/internal/validation"
)

type DoctorCmd struct{}

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
	statusSkipped
)

func report(name string, status checkStatus, err error) {
	switch status {
	case statusOK:
		fmt.Printf("✓ %s: OK\n", name)
	case statusWarn:
		fmt.Printf("⚠ %s: WARNING\n", name)
		fmt.Printf("   %v\n", err)
	case statusFail:
		fmt.Printf("❌ %s: FAIL\n", name)
		fmt.Printf("   Error: %v\n", err)
	case statusSkipped:
		fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", name)
	}
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	fail := func(name string, err error) {
		if err != nil {
			report(name, statusFail, err)
			hasError = true
			return
		}
		report(name, statusOK, nil)
	}
	warn := func(name string, err error) {
		if err != nil {
			report(name, statusWarn, err)
			return
		}
		report(name, statusOK, nil)
	}

	reachErr := checkDBReachable(ctx)
	fail("Database reachable", reachErr)
	dbReachable := reachErr == nil

	dbChecks := []struct {
		name  string
		check func(*cli.Context) error
	}{
		{"Schema version", checkSchemaVersion},
		{"Migrations complete", checkMigrationsComplete},
		{"Mood entries", checkEntries},
		{"Reminders", checkReminders},
	}
	for _, c := range dbChecks {
		if !dbReachable {
			report(c.name, statusSkipped, nil)
			continue
		}
		fail(c.name, c.check(ctx))
	}

	if dbReachable {
		warn("Notification access", checkNotificationAccess(ctx))
	} else {
		report("Notification access", statusSkipped, nil)
	}
	warn("Backups present", checkBackupsPresent(ctx))
	fail("Clock/timezone", checkClockTimezone(ctx.Location))
	warn("OS keyring", checkKeyring())

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	versioned, ok := ctx.Store.(storage.Versioned)
	if !ok {
		// JSON store doesn't have schema version
		return nil
	}
	current, latest, err := versioned.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	versioned, ok := ctx.Store.(storage.Versioned)
	if !ok {
		return nil
	}
	current, latest, err := versioned.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkEntries validates the stored collection as written, before the
// loader drops anything it cannot read.
func checkEntries(ctx *cli.Context) error {
	var stored []struct {
		ID   string `json:"id"`
		Mood string `json:"mood"`
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if _, err := storage.GetJSON(ctx.Store, constants.KeyMoodEntries, &stored); err != nil {
		return err
	}
	list := make([]models.MoodEntry, len(stored))
	for i, e := range stored {
		list[i] = models.MoodEntry{ID: e.ID, Mood: models.MoodType(e.Mood), Date: e.Date, Time: e.Time}
	}
	result := validation.New().ValidateEntries(list, ctx.Gate.IsPro())
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkReminders(ctx *cli.Context) error {
	settings := models.DefaultNotificationSettings()
	if _, err := storage.GetJSON(ctx.Store, constants.KeyNotificationSettings, &settings); err != nil {
		return err
	}
	var extras []models.ExtraReminder
	if _, err := storage.GetJSON(ctx.Store, constants.KeyExtraReminders, &extras); err != nil {
		return err
	}
	result := validation.New().ValidateReminders(settings, extras)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkNotificationAccess(ctx *cli.Context) error {
	if !ctx.Reminders.Settings().Enabled {
		return nil
	}
	permission, err := ctx.Notifier.Permission()
	if err != nil {
		return err
	}
	if permission != constants.PermissionGranted {
		return fmt.Errorf("reminders are on but notifications are not allowed; run '%s reminders permission allow'", constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(loc *time.Location) error {
	if loc == nil {
		return errors.New("no timezone configured")
	}
	now := time.Now().In(loc)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; PostgreSQL credentials must come from the environment")
	}
	return nil
}
