package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moodlit/internal/backup"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/entitlement"
	"github.com/julianstephens/moodlit/internal/entries"
	apperrors "github.com/julianstephens/moodlit/internal/errors"
	"github.com/julianstephens/moodlit/internal/keyring"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/notifier"
	"github.com/julianstephens/moodlit/internal/reminders"
	"github.com/julianstephens/moodlit/internal/storage"
	"github.com/julianstephens/moodlit/internal/storage/postgres"
	"github.com/julianstephens/moodlit/internal/storage/sqlite"
)

const (
	saveFailedHint       = "Your mood could not be saved. Please try again."
	permissionDeniedHint = "Notifications are turned off for " + constants.AppName + ". Allow them with '" +
		constants.AppName + " reminders permission allow', then turn reminders on again."
)

// Context is passed to every command's Run method.
type Context struct {
	Store     storage.Provider
	Location  *time.Location
	Entries   *entries.Store
	Gate      *entitlement.Gate
	Notifier  *notifier.LocalSystem
	Reminders *reminders.Scheduler
	Responses *reminders.ResponseHandler
}

// NewContext wires the components on top of store. Nothing is read until
// Load is called.
func NewContext(store storage.Provider, loc *time.Location, prompt notifier.PromptFunc) *Context {
	if loc == nil {
		loc = time.Local
	}
	gate := entitlement.New(store)
	system := notifier.NewLocalSystem(store, notifier.NewTray(), prompt, loc)
	entryStore := entries.New(store, loc)

	return &Context{
		Store:     store,
		Location:  loc,
		Entries:   entryStore,
		Gate:      gate,
		Notifier:  system,
		Reminders: reminders.New(store, system, gate),
		Responses: reminders.NewResponseHandler(entryStore, system),
	}
}

// Load opens the store and reads every component's state. Corrupt
// component data is logged and left at its defaults.
func (c *Context) Load() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	c.Entries.Load()
	if err := c.Gate.Load(); err != nil {
		logger.Warn("Failed to load Pro status", "error", err)
	}
	if err := c.Reminders.Load(); err != nil {
		logger.Warn("Failed to load reminder settings", "error", err)
	}
	return nil
}

// IsSQLite reports whether the active store is a SQLite database file.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks the storage backend for a --config value: a PostgreSQL
// URL, the bare "postgres" selector (connection string from the
// environment or keyring), a .json file, or a SQLite database path.
func OpenStore(config string) (storage.Provider, error) {
	switch {
	case config == "postgres" || config == "postgresql":
		connStr, err := keyring.ResolveConnectionString()
		if err != nil {
			return nil, err
		}
		// The environment and the keyring are where credentials belong, so
		// a password in the resolved string is accepted.
		return openPostgres(connStr, true)
	case strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://"):
		return openPostgres(config, false)
	case strings.HasSuffix(strings.ToLower(config), ".json"):
		path, err := ExpandPath(config)
		if err != nil {
			return nil, err
		}
		return storage.NewJSONStore(path), nil
	default:
		path, err := ExpandPath(config)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}

func openPostgres(connStr string, allowCredentials bool) (storage.Provider, error) {
	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		if !allowCredentials {
			return nil, apperrors.WithHint(err, fmt.Sprintf(
				"Keep the password in ~/.pgpass or PGPASSWORD, or store the full string with '%s keyring set' and use --config postgres.",
				constants.AppName))
		}
	}
	return postgres.New(connStr), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// PromptPermission asks on the terminal whether moodlit may send
// notifications.
func PromptPermission() (bool, error) {
	allow := true
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Allow %s to send you daily reminders?", constants.AppName)).
		Affirmative("Allow").
		Negative("Don't Allow").
		Value(&allow).
		Run()
	if err != nil {
		return false, err
	}
	return allow, nil
}

// SaveFailed marks a persistence failure with the retry prompt.
func SaveFailed(err error) error {
	return apperrors.WithHint(err, saveFailedHint)
}

// ReminderError adds the system-settings explanation to a denied
// permission.
func ReminderError(err error) error {
	if errors.Is(err, reminders.ErrPermissionDenied) {
		return apperrors.WithHint(err, permissionDeniedHint)
	}
	return err
}

// FormatEntry renders one entry as a single line.
func FormatEntry(e models.MoodEntry) string {
	opt := e.Mood.Option()
	line := fmt.Sprintf("%s %s  %s %-8s", e.Date, timeOrBlank(e.Time), opt.Emoji, opt.Label)
	if e.HasNote() {
		line += "  " + e.Note
	}
	return line + fmt.Sprintf("  [%s]", e.ID)
}

func timeOrBlank(t string) string {
	if t == "" {
		return "     "
	}
	return t
}

// Today returns the current time in the configured timezone.
func (c *Context) Today() time.Time {
	return time.Now().In(c.Location)
}
