package models

// NotificationAction is a button attached to a notification.
type NotificationAction struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NotificationContent is what a delivered notification shows.
type NotificationContent struct {
	Title    string               `json:"title"`
	Body     string               `json:"body"`
	Category string               `json:"category,omitempty"`
	Sound    bool                 `json:"sound"`
	Actions  []NotificationAction `json:"actions,omitempty"`
}

// ScheduledTrigger is a recurring daily notification registered with the
// notification subsystem.
type ScheduledTrigger struct {
	ID        string              `json:"id"`
	Hour      int                 `json:"hour"`
	Minute    int                 `json:"minute"`
	Content   NotificationContent `json:"content"`
	LastFired string              `json:"last_fired,omitempty"` // YYYY-MM-DD
}
