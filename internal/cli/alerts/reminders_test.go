package alerts

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/moodlit/internal/cli"
	apperrors "github.com/julianstephens/moodlit/internal/errors"
	"github.com/julianstephens/moodlit/internal/notifier"
	"github.com/julianstephens/moodlit/internal/reminders"
	"github.com/julianstephens/moodlit/internal/storage/sqlite"
)

func setupTestDB(t *testing.T, prompt notifier.PromptFunc) *cli.Context {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := cli.NewContext(store, time.UTC, prompt)
	if err := ctx.Load(); err != nil {
		t.Fatalf("failed to load context: %v", err)
	}
	return ctx
}

func allow() (bool, error) { return true, nil }

func deny() (bool, error) { return false, nil }

func scheduledCount(t *testing.T, ctx *cli.Context) int {
	t.Helper()
	triggers, err := ctx.Notifier.Scheduled()
	if err != nil {
		t.Fatal(err)
	}
	return len(triggers)
}

func TestReminderOnOff(t *testing.T) {
	ctx := setupTestDB(t, allow)

	if err := (&ReminderOnCmd{}).Run(ctx); err != nil {
		t.Fatalf("reminders on failed: %v", err)
	}
	if !ctx.Reminders.Settings().Enabled {
		t.Error("reminders should be enabled")
	}
	if got := scheduledCount(t, ctx); got != 1 {
		t.Errorf("scheduled %d triggers, want 1", got)
	}

	if err := (&ReminderOffCmd{}).Run(ctx); err != nil {
		t.Fatalf("reminders off failed: %v", err)
	}
	if got := scheduledCount(t, ctx); got != 0 {
		t.Errorf("scheduled %d triggers after off, want 0", got)
	}
}

func TestReminderOn_PermissionDenied(t *testing.T) {
	ctx := setupTestDB(t, deny)

	err := (&ReminderOnCmd{}).Run(ctx)
	if !errors.Is(err, reminders.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	if !strings.Contains(apperrors.Hint(err), "reminders permission allow") {
		t.Errorf("hint = %q", apperrors.Hint(err))
	}
	if ctx.Reminders.Settings().Enabled {
		t.Error("reminders must stay off when permission is denied")
	}

	if err := (&ReminderPermissionCmd{Action: "allow"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&ReminderOnCmd{}).Run(ctx); err != nil {
		t.Errorf("reminders on after allowing failed: %v", err)
	}
}

func TestReminderPermissionDenyTurnsRemindersOff(t *testing.T) {
	ctx := setupTestDB(t, allow)

	if err := (&ReminderOnCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&ReminderPermissionCmd{Action: "deny"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.Reminders.Settings().Enabled {
		t.Error("denying permission should turn reminders off")
	}
	if err := (&ReminderPermissionCmd{Action: "status"}).Run(ctx); err != nil {
		t.Error(err)
	}
}

func TestReminderTime(t *testing.T) {
	ctx := setupTestDB(t, allow)

	if err := (&ReminderTimeCmd{Time: "21:15"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	s := ctx.Reminders.Settings()
	if s.Hour != 21 || s.Minute != 15 {
		t.Errorf("settings = %+v, want 21:15", s)
	}

	if err := (&ReminderTimeCmd{Time: "9pm"}).Run(ctx); err == nil {
		t.Error("expected error for malformed time")
	}
}

func TestExtraReminderLifecycle(t *testing.T) {
	ctx := setupTestDB(t, allow)
	if err := ctx.Gate.Set(true); err != nil {
		t.Fatal(err)
	}
	if err := (&ReminderOnCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&ReminderAddCmd{Time: "12:00"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	extras := ctx.Reminders.Extras()
	if len(extras) != 1 {
		t.Fatalf("expected 1 extra reminder, got %d", len(extras))
	}
	id := extras[0].ID
	if got := scheduledCount(t, ctx); got != 2 {
		t.Errorf("scheduled %d triggers, want 2", got)
	}

	if err := (&ReminderSetCmd{ID: id, Time: "13:30"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if r := ctx.Reminders.Extras()[0]; r.Hour != 13 || r.Minute != 30 {
		t.Errorf("extra = %+v, want 13:30", r)
	}

	if err := (&ReminderToggleCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := scheduledCount(t, ctx); got != 1 {
		t.Errorf("scheduled %d triggers after disabling extra, want 1", got)
	}

	if err := (&ReminderRemoveCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if len(ctx.Reminders.Extras()) != 0 {
		t.Error("extra reminder was not removed")
	}
	if err := (&ReminderRemoveCmd{ID: id}).Run(ctx); !errors.Is(err, reminders.ErrReminderNotFound) {
		t.Errorf("removing twice err = %v", err)
	}
}

func TestReminderAdd_FreeCap(t *testing.T) {
	ctx := setupTestDB(t, allow)

	if err := (&ReminderAddCmd{Time: "08:00"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&ReminderAddCmd{Time: "12:00"}).Run(ctx); !errors.Is(err, reminders.ErrReminderCap) {
		t.Errorf("second free extra err = %v, want ErrReminderCap", err)
	}
}

func TestReminderSyncAndList(t *testing.T) {
	ctx := setupTestDB(t, allow)

	if err := (&ReminderOnCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Notifier.CancelAll(); err != nil {
		t.Fatal(err)
	}
	if err := (&ReminderSyncCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := scheduledCount(t, ctx); got != 1 {
		t.Errorf("scheduled %d triggers after sync, want 1", got)
	}
	if err := (&ReminderListCmd{}).Run(ctx); err != nil {
		t.Error(err)
	}
}
