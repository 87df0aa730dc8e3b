package models

import (
	"fmt"

	"github.com/julianstephens/moodlit/internal/constants"
)

// NotificationSettings configures the primary daily reminder.
type NotificationSettings struct {
	Enabled bool `json:"enabled"`
	Hour    int  `json:"hour"`   // 0-23, local time
	Minute  int  `json:"minute"` // 0-59
}

// DefaultNotificationSettings returns the settings used before anything was saved.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled: constants.DefaultReminderEnabled,
		Hour:    constants.DefaultReminderHour,
		Minute:  constants.DefaultReminderMinute,
	}
}

// ExtraReminder is an additional daily reminder beyond the primary one.
type ExtraReminder struct {
	ID      string `json:"id"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Enabled bool   `json:"enabled"`
}

func (r *ExtraReminder) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("reminder id cannot be empty")
	}
	return ValidateClock(r.Hour, r.Minute)
}

// ValidateClock checks a 24-hour wall-clock time.
func ValidateClock(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour %d is outside valid range (0-23)", hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("minute %d is outside valid range (0-59)", minute)
	}
	return nil
}

// FormatClock renders a wall-clock time as HH:MM.
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// FormatClock12 renders a wall-clock time as h:MM AM/PM.
func FormatClock12(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}
	return fmt.Sprintf("%d:%02d %s", displayHour, minute, period)
}
