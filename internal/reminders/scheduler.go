// Package reminders keeps the primary and extra daily reminders and
// reconciles them with the notification subsystem.
package reminders

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/notifier"
	"github.com/julianstephens/moodlit/internal/storage"
)

var (
	ErrInvalidTime      = errors.New("invalid reminder time")
	ErrReminderCap      = errors.New("extra reminder limit reached")
	ErrPermissionDenied = errors.New("notification permission denied")
	ErrReminderNotFound = errors.New("reminder not found")
)

// ProChecker reports the current entitlement. *entitlement.Gate satisfies it.
type ProChecker interface {
	IsPro() bool
}

// Scheduler owns the reminder configuration. Every mutation is persisted
// before the in-memory copy changes and is followed by a full reschedule
// when the primary reminder is enabled.
type Scheduler struct {
	provider storage.Provider
	system   notifier.System
	pro      ProChecker

	mu       sync.Mutex
	settings models.NotificationSettings
	extras   []models.ExtraReminder
}

func New(provider storage.Provider, system notifier.System, pro ProChecker) *Scheduler {
	return &Scheduler{
		provider: provider,
		system:   system,
		pro:      pro,
		settings: models.DefaultNotificationSettings(),
	}
}

// Load reads the persisted configuration. Missing values keep their
// defaults; a corrupt value is reported and also left at its default.
func (s *Scheduler) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	settings := models.DefaultNotificationSettings()
	if _, err := storage.GetJSON(s.provider, constants.KeyNotificationSettings, &settings); err != nil {
		logger.Warn("Failed to load notification settings", "error", err)
		settings = models.DefaultNotificationSettings()
		errs = append(errs, fmt.Errorf("notification settings: %w", err))
	}

	var extras []models.ExtraReminder
	if _, err := storage.GetJSON(s.provider, constants.KeyExtraReminders, &extras); err != nil {
		logger.Warn("Failed to load extra reminders", "error", err)
		extras = nil
		errs = append(errs, fmt.Errorf("extra reminders: %w", err))
	}

	s.settings = settings
	s.extras = extras
	return errors.Join(errs...)
}

func (s *Scheduler) Settings() models.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Scheduler) Extras() []models.ExtraReminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.extras)
}

// ActiveExtras returns the extras that are registered on reschedule.
// Without Pro only the first enabled extra counts.
func (s *Scheduler) ActiveExtras() []models.ExtraReminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeExtras()
}

func (s *Scheduler) activeExtras() []models.ExtraReminder {
	limit := constants.MaxExtraReminders
	if !s.isPro() {
		limit = constants.FreeExtraReminders
	}

	var active []models.ExtraReminder
	for _, r := range s.extras {
		if !r.Enabled {
			continue
		}
		if len(active) == limit {
			break
		}
		active = append(active, r)
	}
	return active
}

func (s *Scheduler) isPro() bool {
	return s.pro != nil && s.pro.IsPro()
}

func validTime(hour, minute int) error {
	if err := models.ValidateClock(hour, minute); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	return nil
}

// ToggleMain turns the primary reminder on or off. Turning it on asks for
// notification permission first; a denial leaves the setting untouched and
// returns ErrPermissionDenied. Turning it off cancels every scheduled
// notification, extras included.
func (s *Scheduler) ToggleMain(enabled bool) error {
	if enabled {
		granted, err := s.system.RequestPermission()
		if err != nil {
			return fmt.Errorf("failed to request notification permission: %w", err)
		}
		if !granted {
			return ErrPermissionDenied
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	next.Enabled = enabled
	if err := s.saveSettings(next); err != nil {
		return err
	}

	if !enabled {
		if err := s.system.CancelAll(); err != nil {
			return fmt.Errorf("failed to cancel reminders: %w", err)
		}
		return nil
	}
	return s.reschedule()
}

// UpdateMainTime moves the primary reminder.
func (s *Scheduler) UpdateMainTime(hour, minute int) error {
	if err := validTime(hour, minute); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	next.Hour, next.Minute = hour, minute
	if err := s.saveSettings(next); err != nil {
		return err
	}
	return s.rescheduleIfEnabled()
}

// AddExtra appends an enabled extra reminder. The collection never grows
// past MaxExtraReminders, and without Pro it holds at most one.
func (s *Scheduler) AddExtra(hour, minute int) (models.ExtraReminder, error) {
	if err := validTime(hour, minute); err != nil {
		return models.ExtraReminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.extras) >= constants.MaxExtraReminders {
		return models.ExtraReminder{}, fmt.Errorf("%w: at most %d extra reminders", ErrReminderCap, constants.MaxExtraReminders)
	}
	if !s.isPro() && len(s.extras) >= constants.FreeExtraReminders {
		return models.ExtraReminder{}, fmt.Errorf("%w: multiple reminders require Pro", ErrReminderCap)
	}

	reminder := models.ExtraReminder{
		ID:      uuid.NewString(),
		Hour:    hour,
		Minute:  minute,
		Enabled: true,
	}
	next := append(slices.Clone(s.extras), reminder)
	if err := s.saveExtras(next); err != nil {
		return models.ExtraReminder{}, err
	}
	return reminder, s.rescheduleIfEnabled()
}

func (s *Scheduler) RemoveExtra(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	next := slices.Delete(slices.Clone(s.extras), idx, idx+1)
	if err := s.saveExtras(next); err != nil {
		return err
	}
	return s.rescheduleIfEnabled()
}

// ToggleExtra flips an extra reminder and returns its new state.
func (s *Scheduler) ToggleExtra(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	next := slices.Clone(s.extras)
	next[idx].Enabled = !next[idx].Enabled
	if err := s.saveExtras(next); err != nil {
		return false, err
	}
	return next[idx].Enabled, s.rescheduleIfEnabled()
}

func (s *Scheduler) UpdateExtraTime(id string, hour, minute int) error {
	if err := validTime(hour, minute); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	next := slices.Clone(s.extras)
	next[idx].Hour, next[idx].Minute = hour, minute
	if err := s.saveExtras(next); err != nil {
		return err
	}
	return s.rescheduleIfEnabled()
}

// Reschedule cancels everything and registers the primary reminder plus
// every active extra. With the primary reminder off nothing is registered.
func (s *Scheduler) Reschedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reschedule()
}

func (s *Scheduler) rescheduleIfEnabled() error {
	if !s.settings.Enabled {
		return nil
	}
	return s.reschedule()
}

func (s *Scheduler) reschedule() error {
	if err := s.system.CancelAll(); err != nil {
		return fmt.Errorf("failed to cancel reminders: %w", err)
	}
	if !s.settings.Enabled {
		return nil
	}

	content := MoodReminderContent()
	if _, err := s.system.ScheduleDaily(s.settings.Hour, s.settings.Minute, content); err != nil {
		return fmt.Errorf("failed to schedule daily reminder: %w", err)
	}
	for _, r := range s.activeExtras() {
		if _, err := s.system.ScheduleDaily(r.Hour, r.Minute, content); err != nil {
			return fmt.Errorf("failed to schedule reminder at %s: %w", models.FormatClock(r.Hour, r.Minute), err)
		}
	}

	logger.Debug("Rescheduled reminders", "primary", models.FormatClock(s.settings.Hour, s.settings.Minute), "extras", len(s.activeExtras()))
	return nil
}

func (s *Scheduler) indexOf(id string) int {
	return slices.IndexFunc(s.extras, func(r models.ExtraReminder) bool { return r.ID == id })
}

func (s *Scheduler) saveSettings(next models.NotificationSettings) error {
	if err := storage.SetJSON(s.provider, constants.KeyNotificationSettings, next); err != nil {
		return fmt.Errorf("failed to save notification settings: %w", err)
	}
	s.settings = next
	return nil
}

func (s *Scheduler) saveExtras(next []models.ExtraReminder) error {
	if next == nil {
		next = []models.ExtraReminder{}
	}
	if err := storage.SetJSON(s.provider, constants.KeyExtraReminders, next); err != nil {
		return fmt.Errorf("failed to save extra reminders: %w", err)
	}
	s.extras = next
	return nil
}

// MoodReminderContent is the expandable reminder: one action per mood.
func MoodReminderContent() models.NotificationContent {
	actions := make([]models.NotificationAction, len(models.MoodOptions))
	for i, opt := range models.MoodOptions {
		actions[i] = models.NotificationAction{
			ID:    constants.MoodActionPrefix + string(opt.Type),
			Title: opt.Emoji + " " + opt.Label,
		}
	}
	return models.NotificationContent{
		Title:    constants.ReminderTitle,
		Body:     constants.ReminderBody,
		Category: constants.MoodCategoryID,
		Sound:    true,
		Actions:  actions,
	}
}
