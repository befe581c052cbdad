package presentation

import "github.com/squadup/squadup/internal/models"

type PostOrUpdateStatusInput struct {
	Session *models.Session
}

type PostOrUpdateStatusOutput struct {
	// MessageID is the handle of the posted or edited status message
	MessageID string
}

type MarkEndedInput struct {
	Session *models.Session

	// Reason is why the session ended, e.g. "expired" or "creator left"
	Reason string
}
