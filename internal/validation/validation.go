package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/utils"
)

// Conflict represents a detected problem in stored entries or reminders
type Conflict struct {
	Type        constants.ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	IDs         []string // IDs of the entries or reminders involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks persisted data for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEntries checks mood entries. Without Pro, a date holding more
// than one entry is reported as well.
func (v *Validator) ValidateEntries(entries []models.MoodEntry, pro bool) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	idCount := make(map[string]int)
	for _, e := range entries {
		idCount[e.ID]++
	}
	for _, id := range sortedKeys(idCount) {
		if idCount[id] > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictDuplicateID,
				Description: fmt.Sprintf("Entry ID %q is used by %d entries", id, idCount[id]),
				IDs:         []string{id},
			})
		}
	}

	byDate := make(map[string][]string)
	for _, e := range entries {
		if !utils.ValidateDateFormat(e.Date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvalidDate,
				Description: fmt.Sprintf("Entry %s has invalid date: %q", e.ID, e.Date),
				IDs:         []string{e.ID},
			})
			continue
		}
		if e.Time != "" && !utils.ValidateTimeFormat(e.Time) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvalidTime,
				Description: fmt.Sprintf("Entry %s has invalid time: %q", e.ID, e.Time),
				Date:        e.Date,
				IDs:         []string{e.ID},
			})
		}
		if !e.Mood.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictUnknownMood,
				Description: fmt.Sprintf("Entry %s has unknown mood: %q", e.ID, string(e.Mood)),
				Date:        e.Date,
				IDs:         []string{e.ID},
			})
		}
		byDate[e.Date] = append(byDate[e.Date], e.ID)
	}

	if !pro {
		for _, date := range sortedKeys(byDate) {
			ids := byDate[date]
			if len(ids) > 1 {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        constants.ConflictMultiplePerDay,
					Description: fmt.Sprintf("%s has %d entries; only the latest counts without Pro", date, len(ids)),
					Date:        date,
					IDs:         ids,
				})
			}
		}
	}

	return result
}

// ValidateReminders checks the primary reminder and the extra reminders.
func (v *Validator) ValidateReminders(settings models.NotificationSettings, extras []models.ExtraReminder) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if err := models.ValidateClock(settings.Hour, settings.Minute); err != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictReminderBadTime,
			Description: fmt.Sprintf("Daily reminder time is invalid: %v", err),
		})
	}

	if len(extras) > constants.MaxExtraReminders {
		ids := make([]string, len(extras))
		for i, r := range extras {
			ids[i] = r.ID
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictReminderOverCap,
			Description: fmt.Sprintf("%d extra reminders stored; at most %d are allowed", len(extras), constants.MaxExtraReminders),
			IDs:         ids,
		})
	}

	seen := make(map[string]bool)
	for _, r := range extras {
		if err := r.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictReminderBadTime,
				Description: fmt.Sprintf("Extra reminder %q is invalid: %v", r.ID, err),
				IDs:         []string{r.ID},
			})
		}
		if r.ID != "" && seen[r.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictDuplicateID,
				Description: fmt.Sprintf("Extra reminder ID %q is used more than once", r.ID),
				IDs:         []string{r.ID},
			})
		}
		seen[r.ID] = true
	}

	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
