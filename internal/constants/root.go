package constants

import "time"

// SessionState represents the current view of the TUI application
type SessionState int

// TimeRange represents a chart/statistics window
type TimeRange string

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	AppName            = "moodlit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/moodlit/moodlit.db"
	EnvFileName        = "moodlit.env"
	Version            = "v0.1.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "moodlit-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyTimeout              = 5 * time.Second
	NotifierLockfileName       = "moodlit-notifier.lock"
	NotificationDurationMs     = 8000
	NotificationGracePeriodMin = 10
	TrayAppIdentifier          = "com.julianstephens.moodlit"
	TraySecretHeader           = "X-Moodlit-Secret"

	// Time ranges
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"

	// Conflict Types
	ConflictDuplicateID     ConflictType = "duplicate_id"
	ConflictInvalidDate     ConflictType = "invalid_date"
	ConflictInvalidTime     ConflictType = "invalid_time"
	ConflictUnknownMood     ConflictType = "unknown_mood"
	ConflictMultiplePerDay  ConflictType = "multiple_per_day"
	ConflictReminderOverCap ConflictType = "reminder_over_cap"
	ConflictReminderBadTime ConflictType = "reminder_invalid_time"
)

// Session States
const (
	StateTrends SessionState = iota
	StateInsights
)
