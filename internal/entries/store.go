// Package entries owns the persisted collection of mood entries.
package entries

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/storage"
	"github.com/julianstephens/moodlit/internal/utils"
)

var (
	ErrNotFound    = errors.New("entry not found")
	ErrDateTaken   = errors.New("an entry already exists for that date")
	ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD)")
)

// Observer receives the full collection after every successful change.
type Observer func([]models.MoodEntry)

// Store holds the canonical entry list. Every mutation rewrites the whole
// collection under one key; mu is held across the write so two mutations
// can never interleave their read-modify-write cycles.
type Store struct {
	provider storage.Provider
	loc      *time.Location
	now      func() time.Time

	mu      sync.Mutex
	entries []models.MoodEntry
	// unreadable holds stored items that failed to decode or validate. They
	// are written back untouched so a later save never erases them.
	unreadable []json.RawMessage

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// New creates a store that treats "today" as the calendar date in loc.
func New(provider storage.Provider, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		provider:  provider,
		loc:       loc,
		now:       time.Now,
		observers: make(map[int]Observer),
	}
}

func (s *Store) today() string {
	return utils.FormatDate(s.now().In(s.loc))
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(snapshot []models.MoodEntry) {
	s.obsMu.Lock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Observer, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.observers[id])
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(snapshot))
	}
}

// Load reads the persisted collection. Missing or unreadable data leaves the
// store empty; the failure is only logged. Individual items that cannot be
// read are kept aside and persisted again with every change.
func (s *Store) Load() {
	loaded, unreadable := s.read()

	s.mu.Lock()
	s.entries = loaded
	s.unreadable = unreadable
	snapshot := slices.Clone(loaded)
	s.mu.Unlock()

	s.notify(snapshot)
}

// Reload re-fetches the collection from storage.
func (s *Store) Reload() {
	s.Load()
}

func (s *Store) read() ([]models.MoodEntry, []json.RawMessage) {
	raw, err := s.provider.Get(constants.KeyMoodEntries)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read mood entries, starting empty", "error", err)
		}
		return []models.MoodEntry{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("Stored mood entries are corrupt, starting empty", "error", err)
		return []models.MoodEntry{}, nil
	}

	out := make([]models.MoodEntry, 0, len(items))
	var unreadable []json.RawMessage
	for i, item := range items {
		var e models.MoodEntry
		if err := json.Unmarshal(item, &e); err != nil {
			logger.Warn("Keeping unreadable mood entry aside", "index", i, "error", err)
			unreadable = append(unreadable, item)
			continue
		}
		if err := e.Validate(); err != nil {
			logger.Warn("Keeping invalid mood entry aside", "index", i, "id", e.ID, "error", err)
			unreadable = append(unreadable, item)
			continue
		}
		out = append(out, e)
	}
	return out, unreadable
}

// persisted is the stored form of list: the readable entries followed by
// the items that were kept aside at load.
func (s *Store) persisted(list []models.MoodEntry) []any {
	out := make([]any, 0, len(list)+len(s.unreadable))
	for _, e := range list {
		out = append(out, e)
	}
	for _, item := range s.unreadable {
		out = append(out, item)
	}
	return out
}

// mutate applies fn to a copy of the collection, persists the result and
// only then swaps it in.
func (s *Store) mutate(fn func([]models.MoodEntry) ([]models.MoodEntry, error)) error {
	s.mu.Lock()
	next, err := fn(slices.Clone(s.entries))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := storage.SetJSON(s.provider, constants.KeyMoodEntries, s.persisted(next)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist mood entries: %w", err)
	}
	s.entries = next
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

func newID(date string, now time.Time, existing []models.MoodEntry) string {
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		taken[e.ID] = true
	}
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("%s-%d", date, ms)
		if !taken[id] {
			return id
		}
		ms++
	}
}

// cleanNote trims note and stores line breaks as plain \n.
func cleanNote(note string) string {
	note = strings.ReplaceAll(note, "\r\n", "\n")
	return strings.TrimSpace(strings.ReplaceAll(note, "\r", "\n"))
}

func withoutDate(list []models.MoodEntry, date string) []models.MoodEntry {
	out := list[:0]
	for _, e := range list {
		if e.Date != date {
			out = append(out, e)
		}
	}
	return out
}

// Save records mood for today. With allowMultiplePerDay the entry is
// appended and stamped with the current time; otherwise it replaces any
// entry already recorded today.
func (s *Store) Save(mood models.MoodType, note string, allowMultiplePerDay bool) (models.MoodEntry, error) {
	if !mood.Valid() {
		return models.MoodEntry{}, fmt.Errorf("unknown mood %q", string(mood))
	}

	now := s.now().In(s.loc)
	date := utils.FormatDate(now)

	var saved models.MoodEntry
	err := s.mutate(func(list []models.MoodEntry) ([]models.MoodEntry, error) {
		saved = models.MoodEntry{
			ID:   newID(date, now, list),
			Mood: mood,
			Date: date,
			Note: cleanNote(note),
		}
		if allowMultiplePerDay {
			saved.Time = now.Format(constants.TimeFormat)
		} else {
			list = withoutDate(list, date)
		}
		return append(list, saved), nil
	})
	if err != nil {
		return models.MoodEntry{}, err
	}
	return saved, nil
}

// SaveForDate backfills a single entry for date. It refuses dates that
// already have an entry.
func (s *Store) SaveForDate(mood models.MoodType, date, note string) (models.MoodEntry, error) {
	if !mood.Valid() {
		return models.MoodEntry{}, fmt.Errorf("unknown mood %q", string(mood))
	}
	if !utils.ValidateDateFormat(date) {
		return models.MoodEntry{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	var saved models.MoodEntry
	err := s.mutate(func(list []models.MoodEntry) ([]models.MoodEntry, error) {
		for _, e := range list {
			if e.Date == date {
				return nil, fmt.Errorf("%w: %s", ErrDateTaken, date)
			}
		}
		saved = models.MoodEntry{
			ID:   newID(date, s.now(), list),
			Mood: mood,
			Date: date,
			Note: cleanNote(note),
		}
		return append(list, saved), nil
	})
	if err != nil {
		return models.MoodEntry{}, err
	}
	return saved, nil
}

// SaveFromNotification records mood for today on behalf of a notification
// action. The collection is re-read first since the store may be stale
// relative to another process, and today's entry is replaced.
func (s *Store) SaveFromNotification(mood models.MoodType) (models.MoodEntry, error) {
	s.Reload()
	return s.Save(mood, "", false)
}

// Delete removes the entry with id permanently.
func (s *Store) Delete(id string) error {
	return s.mutate(func(list []models.MoodEntry) ([]models.MoodEntry, error) {
		idx := slices.IndexFunc(list, func(e models.MoodEntry) bool { return e.ID == id })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return slices.Delete(list, idx, idx+1), nil
	})
}

// Update replaces the mood and note of the entry with id in place.
func (s *Store) Update(id string, mood models.MoodType, note string) (models.MoodEntry, error) {
	if !mood.Valid() {
		return models.MoodEntry{}, fmt.Errorf("unknown mood %q", string(mood))
	}

	var updated models.MoodEntry
	err := s.mutate(func(list []models.MoodEntry) ([]models.MoodEntry, error) {
		idx := slices.IndexFunc(list, func(e models.MoodEntry) bool { return e.ID == id })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		list[idx].Mood = mood
		list[idx].Note = cleanNote(note)
		updated = list[idx]
		return list, nil
	})
	if err != nil {
		return models.MoodEntry{}, err
	}
	return updated, nil
}

// Entries returns a copy of the collection in insertion order.
func (s *Store) Entries() []models.MoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Get returns the entry with id.
func (s *Store) Get(id string) (models.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.MoodEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// TodaysEntries returns today's entries ordered by time. Entries without a
// time keep their insertion order.
func (s *Store) TodaysEntries() []models.MoodEntry {
	today := s.today()

	s.mu.Lock()
	var out []models.MoodEntry
	for _, e := range s.entries {
		if e.Date == today {
			out = append(out, e)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// TodaysEntry returns the latest entry for today: the one with the latest
// time, or the last inserted when times are equal or absent.
func (s *Store) TodaysEntry() (models.MoodEntry, bool) {
	today := s.today()

	s.mu.Lock()
	defer s.mu.Unlock()

	var latest models.MoodEntry
	found := false
	for _, e := range s.entries {
		if e.Date != today {
			continue
		}
		if !found || e.Time >= latest.Time {
			latest = e
			found = true
		}
	}
	return latest, found
}

// EntriesInRange returns entries whose date falls within [start, end].
func (s *Store) EntriesInRange(start, end string) []models.MoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return InRange(s.entries, start, end)
}

// EntriesForPastDays returns the entries of the last n days including today.
func (s *Store) EntriesForPastDays(n int) []models.MoodEntry {
	if n <= 0 {
		return nil
	}
	end := s.today()
	start, err := utils.AddDays(end, -(n - 1))
	if err != nil {
		return nil
	}
	return s.EntriesInRange(start, end)
}

// InRange filters list to dates within [start, end], compared as
// YYYY-MM-DD strings.
func InRange(list []models.MoodEntry, start, end string) []models.MoodEntry {
	var out []models.MoodEntry
	for _, e := range list {
		if e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out
}
