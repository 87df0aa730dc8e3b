package entries

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/storage"
	"github.com/julianstephens/moodlit/internal/storage/sqlite"
)

// flakyProvider wraps a real store and can be told to fail writes.
type flakyProvider struct {
	storage.Provider
	failSet bool
}

func (p *flakyProvider) Set(key, value string) error {
	if p.failSet {
		return errors.New("disk full")
	}
	return p.Provider.Set(key, value)
}

func setupTestSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := db.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fixedClock returns a clock pinned to 2024-03-15 21:30 UTC that can be advanced.
func fixedClock() (func() time.Time, func(time.Duration)) {
	var mu sync.Mutex
	now := time.Date(2024, 3, 15, 21, 30, 0, 0, time.UTC)
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(d)
		}
}

func newTestStore(t *testing.T, provider storage.Provider) (*Store, func(time.Duration)) {
	t.Helper()
	s := New(provider, time.UTC)
	clock, advance := fixedClock()
	s.now = clock
	s.Load()
	return s, advance
}

func TestSaveReplacesTodayOnFreeTier(t *testing.T) {
	s, advance := newTestStore(t, setupTestSQLiteStore(t))

	moods := []models.MoodType{models.MoodGreat, models.MoodBad, models.MoodOkay}
	notes := []string{"first", "second", "last"}
	for i := range moods {
		if _, err := s.Save(moods[i], notes[i], false); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		advance(time.Minute)
	}

	today := s.TodaysEntries()
	if len(today) != 1 {
		t.Fatalf("got %d entries for today, want 1", len(today))
	}
	if today[0].Mood != models.MoodOkay || today[0].Note != "last" {
		t.Errorf("today's entry = %+v, want okay/last", today[0])
	}
	if today[0].Time != "" {
		t.Errorf("free tier entry should not carry a time, got %q", today[0].Time)
	}
}

func TestSaveAppendsOnProTier(t *testing.T) {
	s, advance := newTestStore(t, setupTestSQLiteStore(t))

	const n = 4
	for i := 0; i < n; i++ {
		if _, err := s.Save(models.MoodGood, "", true); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		advance(time.Minute)
	}

	today := s.TodaysEntries()
	if len(today) != n {
		t.Fatalf("got %d entries for today, want %d", len(today), n)
	}
	seen := map[string]bool{}
	for i, e := range today {
		if seen[e.ID] {
			t.Errorf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
		if i > 0 && today[i-1].Time > e.Time {
			t.Errorf("entries not ordered by time: %s before %s", today[i-1].Time, e.Time)
		}
	}
}

func TestIDsUniqueWithinSameMillisecond(t *testing.T) {
	s, _ := newTestStore(t, setupTestSQLiteStore(t))

	a, err := s.Save(models.MoodGood, "", true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save(models.MoodBad, "", true)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("ids collide: %s", a.ID)
	}
}

func TestSaveForDate(t *testing.T) {
	s, _ := newTestStore(t, setupTestSQLiteStore(t))

	entry, err := s.SaveForDate(models.MoodBad, "2024-03-01", "  backfilled  ")
	if err != nil {
		t.Fatalf("SaveForDate() error = %v", err)
	}
	if entry.Date != "2024-03-01" || entry.Note != "backfilled" {
		t.Errorf("SaveForDate() = %+v", entry)
	}

	if _, err := s.SaveForDate(models.MoodGreat, "2024-03-01", ""); !errors.Is(err, ErrDateTaken) {
		t.Errorf("second SaveForDate() error = %v, want ErrDateTaken", err)
	}
	if _, err := s.SaveForDate(models.MoodGreat, "03/01/2024", ""); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("SaveForDate() with bad date error = %v, want ErrInvalidDate", err)
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("collection has %d entries, want 1", got)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s, _ := newTestStore(t, setupTestSQLiteStore(t))

	entry, err := s.Save(models.MoodOkay, "meh", false)
	if err != nil {
		t.Fatal(err)
	}

	updated, err := s.Update(entry.ID, models.MoodGreat, "better now")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != entry.ID || updated.Mood != models.MoodGreat || updated.Note != "better now" {
		t.Errorf("Update() = %+v", updated)
	}

	if _, err := s.Update("missing", models.MoodGreat, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() missing id error = %v, want ErrNotFound", err)
	}

	if err := s.Delete(entry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(entry.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if _, ok := s.TodaysEntry(); ok {
		t.Error("TodaysEntry() found an entry after delete")
	}
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	provider := &flakyProvider{Provider: setupTestSQLiteStore(t)}
	s, _ := newTestStore(t, provider)

	entry, err := s.Save(models.MoodGood, "kept", false)
	if err != nil {
		t.Fatal(err)
	}

	provider.failSet = true
	if _, err := s.Save(models.MoodBad, "lost", false); err == nil {
		t.Fatal("Save() should fail when storage rejects the write")
	}
	if _, err := s.Update(entry.ID, models.MoodTerrible, ""); err == nil {
		t.Fatal("Update() should fail when storage rejects the write")
	}
	if err := s.Delete(entry.ID); err == nil {
		t.Fatal("Delete() should fail when storage rejects the write")
	}

	got, ok := s.TodaysEntry()
	if !ok || got.Mood != models.MoodGood || got.Note != "kept" {
		t.Errorf("in-memory entry changed after failed writes: %+v", got)
	}
}

func TestLoadSoftFails(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "corrupt blob", value: "{not json", want: 0},
		{name: "wrong shape", value: `{"id":"x"}`, want: 0},
		{name: "null", value: "null", want: 0},
		{
			name:  "skips unknown mood",
			value: `[{"id":"a","mood":"great","date":"2024-03-14"},{"id":"b","mood":"meh","date":"2024-03-14"}]`,
			want:  1,
		},
		{
			name:  "skips bad date",
			value: `[{"id":"a","mood":"good","date":"14-03-2024"},{"id":"b","mood":"bad","date":"2024-03-14"}]`,
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestSQLiteStore(t)
			if err := db.Set(constants.KeyMoodEntries, tt.value); err != nil {
				t.Fatal(err)
			}
			s, _ := newTestStore(t, db)
			if got := len(s.Entries()); got != tt.want {
				t.Errorf("loaded %d entries, want %d", got, tt.want)
			}
		})
	}
}

func TestUnreadableEntriesSurviveWrites(t *testing.T) {
	db := setupTestSQLiteStore(t)
	seeded := `[{"id":"a","mood":"ecstatic","date":"2024-03-10"},` +
		`{"id":"b","mood":"good","date":"2024-03-11"},` +
		`{"id":"c","mood":"bad","date":"2024-03-12","time":"25:99"}]`
	if err := db.Set(constants.KeyMoodEntries, seeded); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestStore(t, db)
	if got := len(s.Entries()); got != 1 {
		t.Fatalf("loaded %d readable entries, want 1", got)
	}

	saved, err := s.Save(models.MoodGreat, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("b"); err != nil {
		t.Fatal(err)
	}

	var stored []map[string]any
	if _, err := storage.GetJSON(db, constants.KeyMoodEntries, &stored); err != nil {
		t.Fatal(err)
	}
	ids := map[string]any{}
	for _, item := range stored {
		ids[item["id"].(string)] = item["mood"]
	}
	if len(ids) != 3 || ids["a"] != "ecstatic" || ids["c"] != "bad" || ids[saved.ID] != "great" {
		t.Errorf("stored entries = %v, want a, c and %s", stored, saved.ID)
	}

	// A fresh load still sees only the readable entry
	s.Reload()
	if got := s.Entries(); len(got) != 1 || got[0].ID != saved.ID {
		t.Errorf("reloaded entries = %+v", got)
	}
}

func TestNotesStoreUnixLineBreaks(t *testing.T) {
	s, _ := newTestStore(t, setupTestSQLiteStore(t))

	saved, err := s.Save(models.MoodOkay, " first\r\nsecond\rthird\r\n", false)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Note != "first\nsecond\nthird" {
		t.Errorf("Save() note = %q", saved.Note)
	}

	backfilled, err := s.SaveForDate(models.MoodBad, "2024-03-01", "a\r\nb")
	if err != nil {
		t.Fatal(err)
	}
	updated, err := s.Update(backfilled.ID, models.MoodGood, "c\r\nd")
	if err != nil {
		t.Fatal(err)
	}
	if backfilled.Note != "a\nb" || updated.Note != "c\nd" {
		t.Errorf("notes = %q, %q", backfilled.Note, updated.Note)
	}
}

func TestTodaysEntryPicksLatest(t *testing.T) {
	db := setupTestSQLiteStore(t)
	seed := `[
		{"id":"a","mood":"good","date":"2024-03-15","time":"18:00"},
		{"id":"b","mood":"bad","date":"2024-03-15","time":"09:00"},
		{"id":"c","mood":"great","date":"2024-03-14","time":"23:00"}
	]`
	if err := db.Set(constants.KeyMoodEntries, seed); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestStore(t, db)

	got, ok := s.TodaysEntry()
	if !ok || got.ID != "a" {
		t.Errorf("TodaysEntry() = %+v, want id a", got)
	}

	today := s.TodaysEntries()
	if len(today) != 2 || today[0].ID != "b" || today[1].ID != "a" {
		t.Errorf("TodaysEntries() = %+v, want [b a]", today)
	}
}

func TestTodayUsesConfiguredTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	s := New(setupTestSQLiteStore(t), tokyo)
	// 21:30 UTC on the 15th is already the 16th in Tokyo
	s.now = func() time.Time { return time.Date(2024, 3, 15, 21, 30, 0, 0, time.UTC) }
	s.Load()

	entry, err := s.Save(models.MoodGood, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Date != "2024-03-16" {
		t.Errorf("entry date = %s, want 2024-03-16", entry.Date)
	}
}

func TestEntriesInRangeAndPastDays(t *testing.T) {
	db := setupTestSQLiteStore(t)
	seed := `[
		{"id":"a","mood":"good","date":"2024-03-01"},
		{"id":"b","mood":"good","date":"2024-03-09"},
		{"id":"c","mood":"good","date":"2024-03-10"},
		{"id":"d","mood":"good","date":"2024-03-15"}
	]`
	if err := db.Set(constants.KeyMoodEntries, seed); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestStore(t, db)

	if got := s.EntriesInRange("2024-03-09", "2024-03-15"); len(got) != 3 {
		t.Errorf("EntriesInRange() returned %d entries, want 3", len(got))
	}
	// Past 6 days from the 15th starts on the 10th
	if got := s.EntriesForPastDays(6); len(got) != 2 {
		t.Errorf("EntriesForPastDays(6) returned %d entries, want 2", len(got))
	}
	if got := s.EntriesForPastDays(0); got != nil {
		t.Errorf("EntriesForPastDays(0) = %v, want nil", got)
	}
}

func TestSubscribeAndSaveFromNotification(t *testing.T) {
	db := setupTestSQLiteStore(t)
	s, _ := newTestStore(t, db)

	var got [][]models.MoodEntry
	unsubscribe := s.Subscribe(func(list []models.MoodEntry) {
		got = append(got, list)
	})

	if _, err := s.Save(models.MoodGood, "", false); err != nil {
		t.Fatal(err)
	}

	// Another process writes directly to storage; the notification path
	// must see that write before replacing today's entry.
	other, _ := newTestStore(t, db)
	if _, err := other.SaveForDate(models.MoodBad, "2024-03-10", ""); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SaveFromNotification(models.MoodGreat); err != nil {
		t.Fatalf("SaveFromNotification() error = %v", err)
	}

	all := s.Entries()
	if len(all) != 2 {
		t.Fatalf("collection has %d entries, want 2: %+v", len(all), all)
	}
	today, _ := s.TodaysEntry()
	if today.Mood != models.MoodGreat {
		t.Errorf("today's mood = %s, want great", today.Mood)
	}

	// save, reload, save
	if len(got) != 3 {
		t.Errorf("observer called %d times, want 3", len(got))
	}

	unsubscribe()
	if _, err := s.Save(models.MoodOkay, "", false); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("observer called after unsubscribe")
	}
}

func TestConcurrentSavesAreNotLost(t *testing.T) {
	s, _ := newTestStore(t, setupTestSQLiteStore(t))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Save(models.MoodGood, "", true); err != nil {
				t.Errorf("Save() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(s.Entries()); got != n {
		t.Errorf("collection has %d entries, want %d", got, n)
	}

	reloaded, _ := newTestStore(t, s.provider)
	if got := len(reloaded.Entries()); got != n {
		t.Errorf("persisted collection has %d entries, want %d", got, n)
	}
}
