package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/squadup/squadup/internal/repositories/session Repository

import (
	"context"
)

// Repository defines the interface for session data persistence.
//
// The store is a crash-recovery mirror, not the live source of truth: the
// registry holds the authoritative state while the process is running, and
// callers treat a failed write as a logged degradation rather than an abort.
type Repository interface {
	// UpsertSession persists a session record, flagging it active
	UpsertSession(ctx context.Context, input *UpsertSessionInput) error

	// GetSession retrieves a session record by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*Record, error)

	// MarkInactive soft-deletes a session record
	MarkInactive(ctx context.Context, input *MarkInactiveInput) error

	// ListActive retrieves all session records still flagged active
	ListActive(ctx context.Context, input *ListActiveInput) (*ListActiveOutput, error)

	// SetUserPointer records which session a user currently owns
	SetUserPointer(ctx context.Context, input *SetUserPointerInput) error

	// GetUserPointer retrieves the session a user currently owns
	GetUserPointer(ctx context.Context, input *GetUserPointerInput) (string, error)

	// ClearUserPointer removes a user's session pointer
	ClearUserPointer(ctx context.Context, input *ClearUserPointerInput) error
}
