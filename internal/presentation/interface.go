package presentation

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/squadup/squadup/internal/presentation Service

import (
	"context"
)

// Service renders session state back to the platform. Failures here are
// cosmetic: callers log them and never roll back a completed transition.
type Service interface {
	// PostOrUpdateStatus posts the session status message, or edits it if
	// one was posted before, and returns its handle
	PostOrUpdateStatus(ctx context.Context, input *PostOrUpdateStatusInput) (*PostOrUpdateStatusOutput, error)

	// MarkEnded rewrites the status message as ended and strips its buttons
	MarkEnded(ctx context.Context, input *MarkEndedInput) error
}
