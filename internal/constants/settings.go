package constants

const (
	// Storage keys. Each key holds one JSON-encoded value that is always
	// read and written as a whole.
	KeyMoodEntries            = "mood_entries"
	KeyNotificationSettings   = "notification_settings"
	KeyExtraReminders         = "extra_reminders"
	KeyProStatus              = "pro_status"
	KeyNotificationPermission = "notification_permission"
	KeyScheduledNotifications = "scheduled_notifications"

	// Default reminder settings
	DefaultReminderEnabled = false
	DefaultReminderHour    = 20 // 8 PM
	DefaultReminderMinute  = 0
	MaxExtraReminders      = 3
	FreeExtraReminders     = 1

	// History windows
	FreeHistoryDays = 30
	WeekDays        = 7
	MonthDays       = 30
	YearDays        = 365

	DefaultTimezone = "Local" // Use system local timezone by default

	// Notification content
	MoodCategoryID    = "mood_reminder"
	MoodActionPrefix  = "mood_"
	ReminderTitle     = "How are you feeling today? 🌟"
	ReminderBody      = "Tap to open moodlit, or expand to quickly log your mood."
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)
