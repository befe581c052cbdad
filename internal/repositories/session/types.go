package session

import "github.com/squadup/squadup/internal/models"

// Record is the durable form of a session plus its soft-delete flag
type Record struct {
	// Session holds the persisted session fields
	Session *models.Session

	// Active indicates the record has not been soft-deleted
	Active bool
}

type UpsertSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	SessionID string
}

type MarkInactiveInput struct {
	SessionID string
}

type ListActiveInput struct {
}

type ListActiveOutput struct {
	Records []*Record
}

type SetUserPointerInput struct {
	UserID    string
	SessionID string
}

type GetUserPointerInput struct {
	UserID string
}

type ClearUserPointerInput struct {
	UserID string
}
