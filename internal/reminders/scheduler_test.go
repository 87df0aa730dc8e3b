package reminders

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/storage"
)

// fakeSystem records scheduled triggers in memory.
type fakeSystem struct {
	granted   bool
	asked     int
	cancels   int
	next      int
	triggers  map[string]models.ScheduledTrigger
	delivered []models.NotificationContent
	notifyErr error
}

func newFakeSystem(granted bool) *fakeSystem {
	return &fakeSystem{granted: granted, triggers: map[string]models.ScheduledTrigger{}}
}

func (f *fakeSystem) RequestPermission() (bool, error) {
	f.asked++
	return f.granted, nil
}

func (f *fakeSystem) CancelAll() error {
	f.cancels++
	f.triggers = map[string]models.ScheduledTrigger{}
	return nil
}

func (f *fakeSystem) ScheduleDaily(hour, minute int, content models.NotificationContent) (string, error) {
	f.next++
	id := fmt.Sprintf("trigger-%d", f.next)
	f.triggers[id] = models.ScheduledTrigger{ID: id, Hour: hour, Minute: minute, Content: content}
	return id, nil
}

func (f *fakeSystem) Notify(content models.NotificationContent) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.delivered = append(f.delivered, content)
	return nil
}

// times returns the scheduled wall-clock times, sorted.
func (f *fakeSystem) times() []string {
	var out []string
	for _, tr := range f.triggers {
		out = append(out, models.FormatClock(tr.Hour, tr.Minute))
	}
	sort.Strings(out)
	return out
}

type staticPro bool

func (p staticPro) IsPro() bool { return bool(p) }

func setupScheduler(t *testing.T, granted bool, pro bool) (*Scheduler, *fakeSystem, storage.Provider) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "moodlit.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	sys := newFakeSystem(granted)
	s := New(store, sys, staticPro(pro))
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s, sys, store
}

func equalTimes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadDefaults(t *testing.T) {
	s, _, _ := setupScheduler(t, true, false)
	if got := s.Settings(); got != models.DefaultNotificationSettings() {
		t.Errorf("Settings() = %+v, want defaults", got)
	}
	if len(s.Extras()) != 0 {
		t.Errorf("Extras() = %v, want empty", s.Extras())
	}
}

func TestLoadCorruptSettings(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "moodlit.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(constants.KeyNotificationSettings, `"not an object"`); err != nil {
		t.Fatal(err)
	}
	s := New(store, newFakeSystem(true), staticPro(false))
	if err := s.Load(); err == nil {
		t.Error("Load() should report the corrupt settings")
	}
	if got := s.Settings(); got != models.DefaultNotificationSettings() {
		t.Errorf("Settings() = %+v, want defaults after corrupt load", got)
	}
}

func TestToggleMainPermissionDenied(t *testing.T) {
	s, sys, store := setupScheduler(t, false, false)

	err := s.ToggleMain(true)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("ToggleMain(true) error = %v, want ErrPermissionDenied", err)
	}
	if s.Settings().Enabled {
		t.Error("settings should stay disabled after a denial")
	}
	var persisted models.NotificationSettings
	found, err := storage.GetJSON(store, constants.KeyNotificationSettings, &persisted)
	if err != nil {
		t.Fatal(err)
	}
	if found && persisted.Enabled {
		t.Error("denied toggle was persisted as enabled")
	}
	if len(sys.triggers) != 0 {
		t.Errorf("scheduled %d triggers after denial", len(sys.triggers))
	}
}

func TestToggleMain(t *testing.T) {
	s, sys, store := setupScheduler(t, true, true)

	if _, err := s.AddExtra(9, 0); err != nil {
		t.Fatal(err)
	}
	if len(sys.triggers) != 0 {
		t.Fatal("extras must not be scheduled while the primary reminder is off")
	}

	if err := s.ToggleMain(true); err != nil {
		t.Fatalf("ToggleMain(true) error = %v", err)
	}
	if want := []string{"09:00", "20:00"}; !equalTimes(sys.times(), want) {
		t.Errorf("scheduled %v, want %v", sys.times(), want)
	}

	var persisted models.NotificationSettings
	if _, err := storage.GetJSON(store, constants.KeyNotificationSettings, &persisted); err != nil {
		t.Fatal(err)
	}
	if !persisted.Enabled {
		t.Error("enabled setting was not persisted")
	}

	if err := s.ToggleMain(false); err != nil {
		t.Fatalf("ToggleMain(false) error = %v", err)
	}
	if len(sys.triggers) != 0 {
		t.Errorf("disabling left %d triggers scheduled", len(sys.triggers))
	}
	if len(s.Extras()) != 1 {
		t.Error("disabling must keep extra reminder data")
	}
}

func TestRescheduleCompleteness(t *testing.T) {
	s, sys, _ := setupScheduler(t, true, true)
	if err := s.ToggleMain(true); err != nil {
		t.Fatal(err)
	}

	first, err := s.AddExtra(8, 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.AddExtra(12, 30)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddExtra(17, 15); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		name string
		run  func() error
		want []string
	}{
		{
			name: "after adds",
			run:  func() error { return nil },
			want: []string{"08:00", "12:30", "17:15", "20:00"},
		},
		{
			name: "move primary",
			run:  func() error { return s.UpdateMainTime(21, 45) },
			want: []string{"08:00", "12:30", "17:15", "21:45"},
		},
		{
			name: "disable extra",
			run: func() error {
				_, err := s.ToggleExtra(second.ID)
				return err
			},
			want: []string{"08:00", "17:15", "21:45"},
		},
		{
			name: "move extra",
			run:  func() error { return s.UpdateExtraTime(first.ID, 7, 5) },
			want: []string{"07:05", "17:15", "21:45"},
		},
		{
			name: "remove extra",
			run:  func() error { return s.RemoveExtra(first.ID) },
			want: []string{"17:15", "21:45"},
		},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		if got := sys.times(); !equalTimes(got, step.want) {
			t.Errorf("%s: scheduled %v, want %v", step.name, got, step.want)
		}
	}
}

func TestAddExtraCap(t *testing.T) {
	s, _, _ := setupScheduler(t, true, true)

	for i := 0; i < constants.MaxExtraReminders; i++ {
		if _, err := s.AddExtra(8+i, 0); err != nil {
			t.Fatalf("AddExtra() #%d error = %v", i+1, err)
		}
	}
	if _, err := s.AddExtra(18, 0); !errors.Is(err, ErrReminderCap) {
		t.Errorf("4th AddExtra() error = %v, want ErrReminderCap", err)
	}
	if got := len(s.Extras()); got != constants.MaxExtraReminders {
		t.Errorf("len(Extras()) = %d, want %d", got, constants.MaxExtraReminders)
	}
}

func TestAddExtraFreeTier(t *testing.T) {
	s, _, _ := setupScheduler(t, true, false)

	if _, err := s.AddExtra(8, 0); err != nil {
		t.Fatalf("first AddExtra() error = %v", err)
	}
	if _, err := s.AddExtra(9, 0); !errors.Is(err, ErrReminderCap) {
		t.Errorf("second AddExtra() without Pro error = %v, want ErrReminderCap", err)
	}
}

func TestFreeTierSchedulesFirstExtraOnly(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "moodlit.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	// Extras left over from a lapsed Pro subscription
	extras := []models.ExtraReminder{
		{ID: "a", Hour: 8, Minute: 0, Enabled: false},
		{ID: "b", Hour: 12, Minute: 0, Enabled: true},
		{ID: "c", Hour: 16, Minute: 0, Enabled: true},
	}
	if err := storage.SetJSON(store, constants.KeyExtraReminders, extras); err != nil {
		t.Fatal(err)
	}

	sys := newFakeSystem(true)
	s := New(store, sys, staticPro(false))
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleMain(true); err != nil {
		t.Fatal(err)
	}

	if want := []string{"12:00", "20:00"}; !equalTimes(sys.times(), want) {
		t.Errorf("scheduled %v, want %v", sys.times(), want)
	}
	if got := len(s.Extras()); got != 3 {
		t.Errorf("len(Extras()) = %d, extras must survive a downgrade", got)
	}
}

func TestInvalidTimeAndUnknownID(t *testing.T) {
	s, _, _ := setupScheduler(t, true, true)

	if err := s.UpdateMainTime(24, 0); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("UpdateMainTime(24, 0) error = %v, want ErrInvalidTime", err)
	}
	if _, err := s.AddExtra(10, 60); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("AddExtra(10, 60) error = %v, want ErrInvalidTime", err)
	}
	if err := s.RemoveExtra("missing"); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("RemoveExtra() error = %v, want ErrReminderNotFound", err)
	}
	if _, err := s.ToggleExtra("missing"); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("ToggleExtra() error = %v, want ErrReminderNotFound", err)
	}
	if err := s.UpdateExtraTime("missing", 8, 0); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("UpdateExtraTime() error = %v, want ErrReminderNotFound", err)
	}
}

func TestMutationsPersistAcrossInstances(t *testing.T) {
	s, _, store := setupScheduler(t, true, true)

	extra, err := s.AddExtra(7, 30)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateMainTime(19, 15); err != nil {
		t.Fatal(err)
	}

	reloaded := New(store, newFakeSystem(true), staticPro(true))
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Settings(); got.Hour != 19 || got.Minute != 15 {
		t.Errorf("reloaded settings = %+v", got)
	}
	extras := reloaded.Extras()
	if len(extras) != 1 || extras[0] != extra {
		t.Errorf("reloaded extras = %+v, want [%+v]", extras, extra)
	}
}

func TestMoodReminderContent(t *testing.T) {
	content := MoodReminderContent()
	if content.Category != constants.MoodCategoryID {
		t.Errorf("Category = %q", content.Category)
	}
	if len(content.Actions) != len(models.MoodOptions) {
		t.Fatalf("got %d actions, want %d", len(content.Actions), len(models.MoodOptions))
	}
	if content.Actions[0].ID != "mood_great" || content.Actions[0].Title != "😄 Great" {
		t.Errorf("first action = %+v", content.Actions[0])
	}
}
