package reminders

import (
	"fmt"
	"strings"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/entries"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/notifier"
)

// ResponseHandler handles the action a user picked on a delivered reminder.
type ResponseHandler struct {
	entries *entries.Store
	system  notifier.System
}

func NewResponseHandler(store *entries.Store, system notifier.System) *ResponseHandler {
	return &ResponseHandler{entries: store, system: system}
}

// Handle saves today's mood for a "mood_<type>" action and sends a
// confirmation. Any other action id is ignored and reported as unhandled.
// A failed confirmation is logged, never returned.
func (h *ResponseHandler) Handle(actionID string) (models.MoodType, bool, error) {
	tag, ok := strings.CutPrefix(actionID, constants.MoodActionPrefix)
	if !ok {
		return "", false, nil
	}
	mood := models.MoodType(tag)
	if !mood.Valid() {
		return "", false, nil
	}

	if _, err := h.entries.SaveFromNotification(mood); err != nil {
		return mood, true, fmt.Errorf("failed to save mood from notification: %w", err)
	}

	if h.system != nil {
		if err := h.system.Notify(ConfirmationContent(mood)); err != nil {
			logger.Warn("Failed to send mood confirmation", "mood", mood, "error", err)
		}
	}
	return mood, true, nil
}

// ConfirmationContent is the notification sent after a mood is logged
// from a reminder action.
func ConfirmationContent(mood models.MoodType) models.NotificationContent {
	opt := mood.Option()
	return models.NotificationContent{
		Title: opt.Emoji + " Mood logged!",
		Body:  fmt.Sprintf("You're feeling %s today. Keep tracking!", strings.ToLower(opt.Label)),
	}
}
