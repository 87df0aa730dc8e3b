// Package notifier is the local stand-in for an OS notification service:
// it tracks the notification permission, keeps the set of daily triggers
// and delivers notifications through the companion tray app.
package notifier

import (
	"github.com/julianstephens/moodlit/internal/models"
)

// System is the notification service the reminder scheduler drives.
type System interface {
	// RequestPermission asks the user once and remembers the answer.
	RequestPermission() (bool, error)
	// CancelAll removes every scheduled trigger.
	CancelAll() error
	// ScheduleDaily registers a trigger that fires every day at hour:minute
	// and returns its handle.
	ScheduleDaily(hour, minute int, content models.NotificationContent) (string, error)
	// Notify delivers content immediately.
	Notify(content models.NotificationContent) error
}

// Sender delivers a single notification to the user.
type Sender interface {
	Send(content models.NotificationContent) error
}
