package notifier

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/storage"
	"github.com/julianstephens/moodlit/internal/utils"
)

// PromptFunc asks the user whether moodlit may send notifications.
type PromptFunc func() (bool, error)

// LocalSystem keeps triggers and the permission decision in the key-value
// store. Triggers are fired by calling FireDue periodically, for example
// from cron via 'moodlit notify'.
type LocalSystem struct {
	provider storage.Provider
	sender   Sender
	prompt   PromptFunc
	loc      *time.Location
	grace    time.Duration
	now      func() time.Time

	mu sync.Mutex
}

// NewLocalSystem wires a LocalSystem. prompt may be nil, in which case an
// undecided permission is reported as not granted without being recorded.
func NewLocalSystem(provider storage.Provider, sender Sender, prompt PromptFunc, loc *time.Location) *LocalSystem {
	if loc == nil {
		loc = time.Local
	}
	return &LocalSystem{
		provider: provider,
		sender:   sender,
		prompt:   prompt,
		loc:      loc,
		grace:    constants.NotificationGracePeriodMin * time.Minute,
		now:      time.Now,
	}
}

// Permission returns the recorded decision: "granted", "denied" or "" when
// the user has not been asked yet.
func (s *LocalSystem) Permission() (string, error) {
	var decision string
	if _, err := storage.GetJSON(s.provider, constants.KeyNotificationPermission, &decision); err != nil {
		return "", err
	}
	return decision, nil
}

// SetPermission records a decision directly, the equivalent of changing
// the setting in system preferences.
func (s *LocalSystem) SetPermission(granted bool) error {
	decision := constants.PermissionDenied
	if granted {
		decision = constants.PermissionGranted
	}
	return storage.SetJSON(s.provider, constants.KeyNotificationPermission, decision)
}

func (s *LocalSystem) RequestPermission() (bool, error) {
	decision, err := s.Permission()
	if err != nil {
		return false, err
	}
	switch decision {
	case constants.PermissionGranted:
		return true, nil
	case constants.PermissionDenied:
		return false, nil
	}

	if s.prompt == nil {
		return false, nil
	}
	granted, err := s.prompt()
	if err != nil {
		return false, fmt.Errorf("permission prompt failed: %w", err)
	}
	if err := s.SetPermission(granted); err != nil {
		return false, err
	}
	return granted, nil
}

// Scheduled returns the registered triggers.
func (s *LocalSystem) Scheduled() ([]models.ScheduledTrigger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *LocalSystem) read() ([]models.ScheduledTrigger, error) {
	var triggers []models.ScheduledTrigger
	if _, err := storage.GetJSON(s.provider, constants.KeyScheduledNotifications, &triggers); err != nil {
		return nil, err
	}
	return triggers, nil
}

func (s *LocalSystem) write(triggers []models.ScheduledTrigger) error {
	if triggers == nil {
		triggers = []models.ScheduledTrigger{}
	}
	return storage.SetJSON(s.provider, constants.KeyScheduledNotifications, triggers)
}

func (s *LocalSystem) CancelAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(nil)
}

// ScheduleDaily registers a trigger that repeats every day at hour:minute.
// Like an OS calendar trigger, one registered after its time today first
// fires tomorrow.
func (s *LocalSystem) ScheduleDaily(hour, minute int, content models.NotificationContent) (string, error) {
	if err := models.ValidateClock(hour, minute); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	triggers, err := s.read()
	if err != nil {
		return "", err
	}
	trigger := models.ScheduledTrigger{
		ID:      uuid.NewString(),
		Hour:    hour,
		Minute:  minute,
		Content: content,
	}
	local := s.now().In(s.loc)
	if !local.Before(time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, s.loc)) {
		trigger.LastFired = utils.FormatDate(local)
	}
	if err := s.write(append(triggers, trigger)); err != nil {
		return "", err
	}
	return trigger.ID, nil
}

func (s *LocalSystem) Notify(content models.NotificationContent) error {
	if s.sender == nil {
		return errors.New("no notification channel configured")
	}
	return s.sender.Send(content)
}

func (s *LocalSystem) isDue(tr models.ScheduledTrigger, local time.Time, today string) bool {
	if tr.LastFired == today {
		return false
	}
	at := time.Date(local.Year(), local.Month(), local.Day(), tr.Hour, tr.Minute, 0, 0, s.loc)
	return !local.Before(at) && local.Before(at.Add(s.grace))
}

// Due lists the triggers FireDue would deliver at now, without sending.
func (s *LocalSystem) Due(now time.Time) ([]models.ScheduledTrigger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	triggers, err := s.read()
	if err != nil {
		return nil, err
	}
	local := now.In(s.loc)
	today := utils.FormatDate(local)

	var due []models.ScheduledTrigger
	for _, tr := range triggers {
		if s.isDue(tr, local, today) {
			due = append(due, tr)
		}
	}
	return due, nil
}

// FireDue delivers every trigger whose time today has passed by less than
// the grace period and that has not fired today yet. It returns how many
// notifications were delivered.
func (s *LocalSystem) FireDue(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	triggers, err := s.read()
	if err != nil {
		return 0, err
	}

	local := now.In(s.loc)
	today := utils.FormatDate(local)

	fired := 0
	var errs []error
	for i := range triggers {
		tr := &triggers[i]
		if !s.isDue(*tr, local, today) {
			continue
		}

		if err := s.Notify(tr.Content); err != nil {
			logger.Warn("Failed to deliver reminder", "trigger", tr.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		tr.LastFired = today
		fired++
	}

	if fired > 0 {
		if err := s.write(triggers); err != nil {
			errs = append(errs, err)
		}
	}
	return fired, errors.Join(errs...)
}
