package party

import (
	"time"

	"github.com/squadup/squadup/internal/common/clock"
	"github.com/squadup/squadup/internal/common/uuid"
	"github.com/squadup/squadup/internal/models"
	"github.com/squadup/squadup/internal/presentation"
	"github.com/squadup/squadup/internal/provisioner"
	sessionRepo "github.com/squadup/squadup/internal/repositories/session"
)

// End reasons shown on the final status message
const (
	EndReasonCreator     = "ended by the creator"
	EndReasonCreatorLeft = "the creator left"
	EndReasonEmpty       = "everyone left"
	EndReasonExpired     = "expired"
)

// Config holds configuration for the party service
type Config struct {
	// SessionTTL is how long a party may live before it expires
	SessionTTL time.Duration

	// IdleThreshold is how long a voice channel may sit empty before the
	// sweep reclaims it
	IdleThreshold time.Duration

	// MaxParties caps concurrent parties across all guilds; 0 means no cap
	MaxParties int

	// MinPartySize and MaxPartySize bound the target size of a party
	MinPartySize int
	MaxPartySize int

	// Activities maps each activity to its allowed modes; defaults to
	// models.DefaultActivities
	Activities map[models.Activity][]models.Mode

	// Repository dependencies
	SessionRepo sessionRepo.Repository

	// Collaborator dependencies
	Provisioner provisioner.Backend
	Presenter   presentation.Service

	// Service dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// CreatePartyInput contains parameters for opening a new party
type CreatePartyInput struct {
	// GuildID is the Discord guild the party belongs to
	GuildID string

	// ChannelID is the text channel the request came from; the status
	// message is posted there
	ChannelID string

	// UserID is the Discord user ID of the creator
	UserID string

	// UserName is the display name of the creator
	UserName string

	// Activity is what the party is for
	Activity models.Activity

	// Mode is the activity mode being played
	Mode models.Mode

	// TargetSize is how many players the party is looking for
	TargetSize int

	// Note is optional free text shown on the status message
	Note string
}

// CreatePartyOutput contains the result of opening a party
type CreatePartyOutput struct {
	Session *models.Session
}

// JoinPartyInput contains parameters for joining a party
type JoinPartyInput struct {
	SessionID string
	UserID    string
	UserName  string
}

// JoinPartyOutput contains the result of joining a party
type JoinPartyOutput struct {
	Session *models.Session

	// AlreadyJoined indicates the caller was already on the roster
	AlreadyJoined bool

	// BecameFull indicates this join filled the party
	BecameFull bool
}

// LeavePartyInput contains parameters for leaving a party
type LeavePartyInput struct {
	SessionID string
	UserID    string
}

// LeavePartyOutput contains the result of leaving a party
type LeavePartyOutput struct {
	// Session is the party after the leave; nil if the party ended
	Session *models.Session

	// Ended indicates the leave ended the party entirely
	Ended bool
}

// QuickJoinInput contains the filters for a quick-join request
type QuickJoinInput struct {
	GuildID  string
	UserID   string
	UserName string
	Activity models.Activity
	Mode     models.Mode
}

// QuickJoinOutput contains the result of a quick-join
type QuickJoinOutput struct {
	Session    *models.Session
	BecameFull bool
}

// EndPartyInput contains parameters for ending the caller's party
type EndPartyInput struct {
	UserID string
}

// EndPartyOutput contains the result of ending a party
type EndPartyOutput struct {
}

// ListPartiesInput contains the filters for listing parties
type ListPartiesInput struct {
	GuildID string
}

// ListPartiesOutput contains the active parties, oldest first
type ListPartiesOutput struct {
	Sessions []*models.Session
}
