package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/moodlit/internal/constants"
)

// MoodEntry is one recorded mood observation.
type MoodEntry struct {
	ID   string   `json:"id"`
	Mood MoodType `json:"mood"`
	Date string   `json:"date"`           // YYYY-MM-DD, the logical day the entry belongs to
	Time string   `json:"time,omitempty"` // HH:MM, only set when several entries per day are allowed
	Note string   `json:"note,omitempty"`
}

func (e *MoodEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entry id cannot be empty")
	}
	if !e.Mood.Valid() {
		return fmt.Errorf("unknown mood %q", string(e.Mood))
	}
	if _, err := time.Parse(constants.DateFormat, e.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if e.Time != "" {
		if _, err := time.Parse(constants.TimeFormat, e.Time); err != nil {
			return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
		}
	}
	return nil
}

// Value returns the 1..5 weight of the entry's mood.
func (e MoodEntry) Value() int {
	return e.Mood.Value()
}

// HasNote reports whether the entry carries a note.
func (e MoodEntry) HasNote() bool {
	return e.Note != ""
}
